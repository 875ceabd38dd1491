package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
)

type Server struct {
    Port              string `json:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type CoinGecko struct {
    Endpoint   string `json:"endpoint"`
    APIKey     string `json:"api_key"`
    VsCurrency string `json:"vs_currency"`
    PerPage    int    `json:"per_page"`
}

type Poll struct {
    IntervalSec int `json:"interval_sec"`
}

type Logging struct {
    Level string `json:"level"`
}

type Config struct {
    Server    Server    `json:"server"`
    CoinGecko CoinGecko `json:"coingecko"`
    Poll      Poll      `json:"poll"`
    Logging   Logging   `json:"logging"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 15},
        CoinGecko: CoinGecko{
            Endpoint:   "https://api.coingecko.com/api/v3",
            VsCurrency: "usd",
            PerPage:    50,
        },
        Poll:    Poll{IntervalSec: 30},
        Logging: Logging{Level: "info"},
    }
}

// Load reads JSON config from path. If path is empty or the file does not
// exist, it returns defaults. Environment variables override select fields
// for secrecy.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    return cfg, nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.RequestTimeoutSec = x }
    }
    if v := os.Getenv("COINGECKO_ENDPOINT"); v != "" { cfg.CoinGecko.Endpoint = v }
    if v := os.Getenv("COINGECKO_API_KEY"); v != "" { cfg.CoinGecko.APIKey = v }
    if v := os.Getenv("VS_CURRENCY"); v != "" { cfg.CoinGecko.VsCurrency = v }
    if v := os.Getenv("PER_PAGE"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.CoinGecko.PerPage = x }
    }
    if v := os.Getenv("POLL_INTERVAL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Poll.IntervalSec = x }
    }
    if v := os.Getenv("LOG_LEVEL"); v != "" { cfg.Logging.Level = v }
}
