package market

import (
    "context"
    "fmt"
)

// Coin is one ranked market entry as returned by the data source.
// Optional fields stay pointers; absent values fall back at the
// derivation and formatting layers, not here.
type Coin struct {
    ID                    string   `json:"id"`
    Symbol                string   `json:"symbol"`
    Name                  string   `json:"name"`
    Image                 string   `json:"image"`
    CurrentPrice          *float64 `json:"current_price"`
    MarketCap             *float64 `json:"market_cap"`
    MarketCapRank         *int     `json:"market_cap_rank"`
    TotalVolume           *float64 `json:"total_volume"`
    PriceChangePercent24h *float64 `json:"price_change_percentage_24h"`
}

// ChangePercent24h returns the 24h change, absent treated as zero.
func (c Coin) ChangePercent24h() float64 {
    if c.PriceChangePercent24h == nil { return 0 }
    return *c.PriceChangePercent24h
}

// Rank returns the market cap rank, falling back to the coin's position
// in the rendered set when the source omitted it. position is zero-based.
func (c Coin) Rank(position int) int {
    if c.MarketCapRank != nil { return *c.MarketCapRank }
    return position + 1
}

// Source returns the full ranked data set for one fetch cycle.
// The order of the returned slice is the source's ranking.
type Source interface {
    Markets(ctx context.Context) ([]Coin, error)
}

// NetworkError reports a transport failure or a non-2xx response.
type NetworkError struct {
    Status int // zero when the request never produced a response
    Err    error
}

func (e *NetworkError) Error() string {
    if e.Status != 0 {
        return fmt.Sprintf("market: unexpected status %d: %v", e.Status, e.Err)
    }
    return fmt.Sprintf("market: request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a response body that could not be decoded.
type ParseError struct {
    Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("market: malformed response: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }
