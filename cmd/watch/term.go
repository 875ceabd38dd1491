package main

import (
    "fmt"
    "io"
    "sync"

    "cryptotracker/internal/board"
)

const (
    ansiReset = "\x1b[0m"
    ansiGreen = "\x1b[32m"
    ansiRed   = "\x1b[31m"
    ansiDim   = "\x1b[2m"
)

// termView prints rendered view models as a plain table.
type termView struct {
    mu    sync.Mutex
    out   io.Writer
    color bool
}

func (v *termView) RenderTable(rows []board.Row) {
    v.mu.Lock()
    defer v.mu.Unlock()

    fmt.Fprintf(v.out, "%4s  %-6s  %-20s  %14s  %9s  %10s  %10s\n",
        "RANK", "SYMBOL", "NAME", "PRICE", "24H", "MKT CAP", "VOLUME")
    for _, r := range rows {
        name := r.Name
        if len(name) > 20 {
            name = name[:17] + "..."
        }
        fmt.Fprintf(v.out, "%4d  %-6s  %-20s  %14s  %9s  %10s  %10s %s\n",
            r.Rank, r.Symbol, name, r.Price, v.paintChange(r), r.MarketCap, r.Volume, v.cue(r.Delta))
    }
}

func (v *termView) RenderSummary(sum board.Summary) {
    v.mu.Lock()
    defer v.mu.Unlock()
    fmt.Fprintf(v.out, "coins: %d  top gainer: %s (%s)  top loser: %s (%s)\n",
        sum.Count,
        sum.TopGainer.Symbol, sum.TopGainer.Change,
        sum.TopLoser.Symbol, sum.TopLoser.Change)
}

func (v *termView) RenderStatus(st board.Status) {
    v.mu.Lock()
    defer v.mu.Unlock()
    if st.Error != "" {
        fmt.Fprintf(v.out, "%s\n", v.paint(ansiRed, st.Error))
        return
    }
    if st.RefreshedAt != "" {
        fmt.Fprintf(v.out, "%s\n", v.paint(ansiDim, "updated "+st.RefreshedAt))
    }
}

func (v *termView) paintChange(r board.Row) string {
    if r.ChangePercent >= 0 {
        return v.paint(ansiGreen, r.Change)
    }
    return v.paint(ansiRed, r.Change)
}

func (v *termView) cue(d board.Delta) string {
    switch d {
    case board.DeltaUp:
        return v.paint(ansiGreen, "▲")
    case board.DeltaDown:
        return v.paint(ansiRed, "▼")
    default:
        return " "
    }
}

func (v *termView) paint(code, s string) string {
    if !v.color { return s }
    return code + s + ansiReset
}
