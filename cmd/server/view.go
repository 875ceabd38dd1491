package main

import (
    "sync"

    "cryptotracker/internal/board"
)

// event is one rendered view model pushed to stream subscribers.
type event struct {
    Kind    string         `json:"kind"` // table | summary | status
    Table   []board.Row    `json:"table,omitempty"`
    Summary *board.Summary `json:"summary,omitempty"`
    Status  *board.Status  `json:"status,omitempty"`
}

// streamView is the server's rendering surface: it stores the latest view
// models rendered by the board and fans each render out to subscribers.
type streamView struct {
    mu      sync.Mutex
    rows    []board.Row
    summary *board.Summary
    status  board.Status
    subs    map[chan event]struct{}
}

func newStreamView() *streamView {
    return &streamView{subs: make(map[chan event]struct{})}
}

func (v *streamView) RenderTable(rows []board.Row) {
    v.mu.Lock()
    v.rows = rows
    v.mu.Unlock()
    v.broadcast(event{Kind: "table", Table: rows})
}

func (v *streamView) RenderSummary(sum board.Summary) {
    v.mu.Lock()
    v.summary = &sum
    v.mu.Unlock()
    v.broadcast(event{Kind: "summary", Summary: &sum})
}

func (v *streamView) RenderStatus(st board.Status) {
    v.mu.Lock()
    v.status = st
    v.mu.Unlock()
    v.broadcast(event{Kind: "status", Status: &st})
}

// broadcast drops events for subscribers that cannot keep up rather than
// blocking a render pass.
func (v *streamView) broadcast(e event) {
    v.mu.Lock()
    defer v.mu.Unlock()
    for ch := range v.subs {
        select {
        case ch <- e:
        default:
        }
    }
}

// subscribe registers a stream listener and replays the current state so a
// fresh watcher paints immediately.
func (v *streamView) subscribe() chan event {
    ch := make(chan event, 16)
    v.mu.Lock()
    if len(v.rows) > 0 {
        ch <- event{Kind: "table", Table: v.rows}
    }
    if v.summary != nil {
        ch <- event{Kind: "summary", Summary: v.summary}
    }
    ch <- event{Kind: "status", Status: &v.status}
    v.subs[ch] = struct{}{}
    v.mu.Unlock()
    return ch
}

func (v *streamView) unsubscribe(ch chan event) {
    v.mu.Lock()
    delete(v.subs, ch)
    v.mu.Unlock()
}

func (v *streamView) latestRows() []board.Row {
    v.mu.Lock()
    defer v.mu.Unlock()
    return v.rows
}

func (v *streamView) latestSummary() (board.Summary, bool) {
    v.mu.Lock()
    defer v.mu.Unlock()
    if v.summary == nil {
        return board.Summary{}, false
    }
    return *v.summary, true
}
