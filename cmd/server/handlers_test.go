package main

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "sync"
    "testing"
    "time"

    "cryptotracker/internal/board"
    "cryptotracker/internal/logx"
    "cryptotracker/internal/market"
)

type fakeSource struct {
    mu    sync.Mutex
    coins []market.Coin
    err   error
    calls int
}

func (f *fakeSource) Markets(_ context.Context) ([]market.Coin, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.calls++
    if f.err != nil { return nil, f.err }
    return f.coins, nil
}

func (f *fakeSource) callCount() int {
    f.mu.Lock()
    defer f.mu.Unlock()
    return f.calls
}

func fprice(v float64) *float64 { return &v }

func rankedCoins() []market.Coin {
    return []market.Coin{
        {ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: fprice(67000),
            MarketCap: fprice(1.32e12), TotalVolume: fprice(2.5e9), PriceChangePercent24h: fprice(1.84)},
        {ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: fprice(3200),
            MarketCap: fprice(3.9e11), TotalVolume: fprice(1.1e9), PriceChangePercent24h: fprice(-0.52)},
    }
}

func newTestApp(t *testing.T, src market.Source) *application {
    t.Helper()
    view := newStreamView()
    b := board.New(src, view,
        board.WithInterval(time.Hour),
        board.WithLogger(logx.Silent()),
    )
    return &application{log: logx.Silent(), board: b, view: view, baseCtx: context.Background()}
}

func TestCoins_ServesLatestTable(t *testing.T) {
    app := newTestApp(t, &fakeSource{coins: rankedCoins()})
    if err := app.board.Refresh(context.Background()); err != nil {
        t.Fatalf("refresh: %v", err)
    }

    rr := httptest.NewRecorder()
    app.handleCoins(rr, httptest.NewRequest(http.MethodGet, "/api/coins", nil))
    if rr.Code != 200 {
        t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
    }
    var resp coinsResponse
    if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if resp.Count != 2 || len(resp.Coins) != 2 {
        t.Fatalf("want 2 coins, got %+v", resp)
    }
    if resp.Coins[0].Price != "$67,000.00" || resp.Coins[0].MarketCap != "$1.32T" {
        t.Fatalf("unexpected formatting: %+v", resp.Coins[0])
    }
}

func TestCoins_SearchEventIsStateful(t *testing.T) {
    app := newTestApp(t, &fakeSource{coins: rankedCoins()})
    if err := app.board.Refresh(context.Background()); err != nil {
        t.Fatalf("refresh: %v", err)
    }

    // q present: one input event narrowing the view
    rr := httptest.NewRecorder()
    app.handleCoins(rr, httptest.NewRequest(http.MethodGet, "/api/coins?q=eth", nil))
    var resp coinsResponse
    if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if resp.Count != 1 || resp.Coins[0].ID != "ethereum" {
        t.Fatalf("unexpected filtered view: %+v", resp)
    }

    // q absent: the stored term still applies
    rr = httptest.NewRecorder()
    app.handleCoins(rr, httptest.NewRequest(http.MethodGet, "/api/coins", nil))
    if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if resp.Count != 1 {
        t.Fatalf("term not sticky: %+v", resp)
    }

    // empty q clears the filter
    rr = httptest.NewRecorder()
    app.handleCoins(rr, httptest.NewRequest(http.MethodGet, "/api/coins?q=", nil))
    if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if resp.Count != 2 {
        t.Fatalf("filter not cleared: %+v", resp)
    }
}

func TestSummary_BeforeAndAfterFirstFetch(t *testing.T) {
    app := newTestApp(t, &fakeSource{coins: rankedCoins()})

    rr := httptest.NewRecorder()
    app.handleSummary(rr, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
    if rr.Code != http.StatusNoContent {
        t.Fatalf("want 204 before first fetch, got %d", rr.Code)
    }

    if err := app.board.Refresh(context.Background()); err != nil {
        t.Fatalf("refresh: %v", err)
    }
    rr = httptest.NewRecorder()
    app.handleSummary(rr, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
    if rr.Code != 200 {
        t.Fatalf("status=%d", rr.Code)
    }
    var sum board.Summary
    if err := json.Unmarshal(rr.Body.Bytes(), &sum); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if sum.TopGainer.ID != "bitcoin" || sum.TopLoser.ID != "ethereum" || sum.Count != 2 {
        t.Fatalf("unexpected summary: %+v", sum)
    }
}

func TestRefresh_EndpointPropagatesFailure(t *testing.T) {
    src := &fakeSource{err: &market.NetworkError{Status: 503}}
    app := newTestApp(t, src)

    rr := httptest.NewRecorder()
    app.handleRefresh(rr, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
    if rr.Code != http.StatusBadGateway {
        t.Fatalf("want 502, got %d", rr.Code)
    }

    rr = httptest.NewRecorder()
    app.handleRefresh(rr, httptest.NewRequest(http.MethodGet, "/api/refresh", nil))
    if rr.Code != http.StatusMethodNotAllowed {
        t.Fatalf("want 405, got %d", rr.Code)
    }
}

func TestWatchers_DriveVisibility(t *testing.T) {
    src := &fakeSource{coins: rankedCoins()}
    app := newTestApp(t, src)

    app.watcherArrived()
    if !app.board.Running() {
        t.Fatal("first watcher must start polling")
    }
    // the out-of-band refresh lands shortly after visibility flips
    deadline := time.Now().Add(2 * time.Second)
    for src.callCount() == 0 && time.Now().Before(deadline) {
        time.Sleep(5 * time.Millisecond)
    }
    if src.callCount() == 0 {
        t.Fatal("visible surface must refresh immediately")
    }

    app.watcherArrived()
    app.watcherLeft()
    if !app.board.Running() {
        t.Fatal("polling must continue while a watcher remains")
    }
    app.watcherLeft()
    if app.board.Running() {
        t.Fatal("last watcher leaving must stop polling")
    }
}

func TestStatus_ReportsRunningAndError(t *testing.T) {
    src := &fakeSource{err: &market.NetworkError{Status: 500}}
    app := newTestApp(t, src)
    _ = app.board.Refresh(context.Background())

    rr := httptest.NewRecorder()
    app.handleStatus(rr, httptest.NewRequest(http.MethodGet, "/api/status", nil))
    var st board.Status
    if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if st.Error != "failed to fetch, retrying" {
        t.Fatalf("unexpected status: %+v", st)
    }
    if st.Running {
        t.Fatalf("not started, must not report running: %+v", st)
    }
}
