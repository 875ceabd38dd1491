package main

import (
    "context"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"

    "cryptotracker/internal/board"
    "cryptotracker/internal/config"
    "cryptotracker/internal/httpx"
    "cryptotracker/internal/logx"
    "cryptotracker/internal/market/coingecko"
)

func main() {
    // .env is optional; real deployments use the environment directly
    _ = godotenv.Load()

    cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
    log := logx.New(cfg.Logging.Level)
    if err != nil {
        log.Fatal().Err(err).Msg("config")
    }
    if cfg.CoinGecko.APIKey == "" {
        log.Warn().Msg("COINGECKO_API_KEY not set, using keyless public access")
    }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
    gecko := coingecko.New(cfg.CoinGecko.APIKey,
        coingecko.WithBaseURL(cfg.CoinGecko.Endpoint),
        coingecko.WithHTTPClient(httpClient),
        coingecko.WithHeader(http.Header{"User-Agent": []string{"cryptotracker/1.0"}}),
        coingecko.WithVsCurrency(cfg.CoinGecko.VsCurrency),
        coingecko.WithPerPage(cfg.CoinGecko.PerPage),
    )

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    view := newStreamView()
    b := board.New(gecko, view,
        board.WithInterval(time.Duration(cfg.Poll.IntervalSec)*time.Second),
        board.WithFetchTimeout(time.Duration(cfg.Server.RequestTimeoutSec)*time.Second),
        board.WithLogger(log),
    )
    app := &application{
        log:     log,
        board:   b,
        view:    view,
        baseCtx: ctx,
    }

    // warm the data set before serving; a failure here only logs, polling
    // picks it up once a watcher arrives
    if err := b.Refresh(ctx); err != nil {
        log.Warn().Err(err).Msg("initial fetch failed")
    }

    srv := &http.Server{
        Addr:              ":" + cfg.Server.Port,
        Handler:           withJSONHeaders(withGzip(recoverPanic(app.routes()))),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    go func() {
        log.Info().Str("port", cfg.Server.Port).Msg("server listening")
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatal().Err(err).Msg("server")
        }
    }()

    <-ctx.Done()
    b.Stop()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
}
