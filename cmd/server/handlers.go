package main

import (
    "compress/gzip"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "strings"
    "sync"

    "github.com/rs/zerolog"

    "cryptotracker/internal/board"
)

type application struct {
    log     zerolog.Logger
    board   *board.Board
    view    *streamView
    baseCtx context.Context

    mu       sync.Mutex
    watchers int
}

func (a *application) routes() http.Handler {
    mux := http.NewServeMux()
    mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("ok"))
    })
    mux.HandleFunc("/api/coins", a.handleCoins)
    mux.HandleFunc("/api/summary", a.handleSummary)
    mux.HandleFunc("/api/status", a.handleStatus)
    mux.HandleFunc("/api/refresh", a.handleRefresh)
    mux.HandleFunc("/api/stream", a.handleStream)
    return mux
}

type coinsResponse struct {
    Coins []board.Row `json:"coins"`
    Count int         `json:"count"`
}

// handleCoins serves the filtered table view. A q parameter, when present,
// is the text-input event: it updates the board's search term.
func (a *application) handleCoins(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
        return
    }
    rows := a.view.latestRows()
    if _, ok := r.URL.Query()["q"]; ok {
        rows = a.board.Search(r.URL.Query().Get("q"))
    }
    if rows == nil { rows = []board.Row{} }
    writeJSON(w, coinsResponse{Coins: rows, Count: len(rows)})
}

func (a *application) handleSummary(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
        return
    }
    sum, ok := a.board.Summary()
    if !ok {
        // nothing fetched yet; the client keeps whatever it showed before
        w.WriteHeader(http.StatusNoContent)
        return
    }
    writeJSON(w, sum)
}

func (a *application) handleStatus(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
        return
    }
    writeJSON(w, a.board.Status())
}

// handleRefresh triggers one out-of-band fetch cycle.
func (a *application) handleRefresh(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
        return
    }
    if err := a.board.Refresh(r.Context()); err != nil {
        http.Error(w, err.Error(), http.StatusBadGateway)
        return
    }
    writeJSON(w, a.board.Status())
}

// handleStream serves rendered view models over SSE. The subscriber count
// doubles as the visibility signal: the first watcher resumes polling with
// an immediate refresh, the last one leaving pauses it.
func (a *application) handleStream(w http.ResponseWriter, r *http.Request) {
    flusher, ok := w.(http.Flusher)
    if !ok {
        http.Error(w, "streaming unsupported", http.StatusInternalServerError)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("Connection", "keep-alive")
    w.WriteHeader(http.StatusOK)
    flusher.Flush()

    ch := a.view.subscribe()
    a.watcherArrived()
    defer func() {
        a.view.unsubscribe(ch)
        a.watcherLeft()
    }()

    for {
        select {
        case <-r.Context().Done():
            return
        case e := <-ch:
            b, err := json.Marshal(e)
            if err != nil {
                continue
            }
            if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
                return
            }
            flusher.Flush()
        }
    }
}

func (a *application) watcherArrived() {
    a.mu.Lock()
    a.watchers++
    first := a.watchers == 1
    a.mu.Unlock()
    if first {
        a.log.Info().Msg("first watcher, surface visible")
        a.board.SetVisible(a.baseCtx, true)
    }
}

func (a *application) watcherLeft() {
    a.mu.Lock()
    a.watchers--
    last := a.watchers == 0
    a.mu.Unlock()
    if last {
        a.log.Info().Msg("last watcher gone, surface hidden")
        a.board.SetVisible(a.baseCtx, false)
    }
}

func writeJSON(w http.ResponseWriter, v any) {
    w.WriteHeader(http.StatusOK)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(v)
}

func withJSONHeaders(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/api/stream" {
            w.Header().Set("Content-Type", "application/json; charset=utf-8")
        }
        // Basic CORS for browser dashboards; adjust as needed.
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
        if r.Method == http.MethodOptions {
            w.WriteHeader(http.StatusNoContent)
            return
        }
        next.ServeHTTP(w, r)
    })
}

// withGzip compresses responses when the client supports gzip. The SSE
// stream is exempt so flushes reach the client unbuffered.
func withGzip(next http.Handler) http.Handler {
    var gzPool = sync.Pool{New: func() any {
        w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
        return w
    }}
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path == "/api/stream" || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
            next.ServeHTTP(w, r)
            return
        }
        gz := gzPool.Get().(*gzip.Writer)
        gz.Reset(w)
        defer func() {
            _ = gz.Close()
            gz.Reset(io.Discard)
            gzPool.Put(gz)
        }()
        w.Header().Set("Content-Encoding", "gzip")
        w.Header().Add("Vary", "Accept-Encoding")
        gw := gzipResponseWriter{ResponseWriter: w, Writer: gz}
        next.ServeHTTP(gw, r)
    })
}

type gzipResponseWriter struct {
    http.ResponseWriter
    Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
    return g.Writer.Write(b)
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                http.Error(w, "internal server error", http.StatusInternalServerError)
            }
        }()
        next.ServeHTTP(w, r)
    })
}
