package main

import (
    "bufio"
    "context"
    "flag"
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
    var once bool
    var configPath string
    var noColor bool
    flag.BoolVar(&once, "once", false, "fetch and print one table, then exit")
    flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json")
    flag.BoolVar(&noColor, "no-color", false, "disable ANSI colors")
    flag.Parse()

    _ = godotenv.Load()

    cfg, err := config.Load(configPath)
    log := logx.New(cfg.Logging.Level)
    if err != nil {
        log.Fatal().Err(err).Msg("config")
    }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
    gecko := coingecko.New(cfg.CoinGecko.APIKey,
        coingecko.WithBaseURL(cfg.CoinGecko.Endpoint),
        coingecko.WithHTTPClient(httpClient),
        coingecko.WithHeader(http.Header{"User-Agent": []string{"cryptotracker/1.0"}}),
        coingecko.WithVsCurrency(cfg.CoinGecko.VsCurrency),
        coingecko.WithPerPage(cfg.CoinGecko.PerPage),
    )

    view := &termView{out: os.Stdout, color: !noColor}
    b := board.New(gecko, view,
        board.WithInterval(time.Duration(cfg.Poll.IntervalSec)*time.Second),
        board.WithFetchTimeout(time.Duration(cfg.Server.RequestTimeoutSec)*time.Second),
        board.WithLogger(log),
    )

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    if once {
        if err := b.Refresh(ctx); err != nil {
            log.Error().Err(err).Msg("fetch failed")
            os.Exit(1)
        }
        return
    }

    // the terminal is a visible surface for as long as the process runs
    b.SetVisible(ctx, true)

    // each stdin line is one search input event; an empty line clears it
    go func() {
        scanner := bufio.NewScanner(os.Stdin)
        for scanner.Scan() {
            b.Search(scanner.Text())
        }
    }()

    <-ctx.Done()
    b.Stop()
}
