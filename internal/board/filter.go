package board

import (
    "strings"

    "cryptotracker/internal/market"
)

// normalizeTerm trims and lowercases a search input event.
func normalizeTerm(term string) string {
    return strings.ToLower(strings.TrimSpace(term))
}

// applyFilter derives the filtered view from the full set and a normalized
// term. An empty term returns the data set itself, not a copy; otherwise the
// view is rebuilt in full with substring matching over name and symbol.
func applyFilter(coins []market.Coin, term string) []market.Coin {
    if term == "" { return coins }
    out := make([]market.Coin, 0, len(coins))
    for _, c := range coins {
        if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(strings.ToLower(c.Symbol), term) {
            out = append(out, c)
        }
    }
    return out
}
