package board

import (
    "sort"

    "cryptotracker/internal/format"
    "cryptotracker/internal/market"
)

// computeSummary derives the top movers and count over the full data set.
// Returns ok=false for an empty set so the previous summary stays in place.
// The sort is explicitly stable: coins with equal 24h change keep their
// market-cap order, so the first of a tied maximum wins top gainer.
func computeSummary(coins []market.Coin) (Summary, bool) {
    if len(coins) == 0 { return Summary{}, false }

    ranked := make([]market.Coin, len(coins))
    copy(ranked, coins)
    sort.SliceStable(ranked, func(i, j int) bool {
        return ranked[i].ChangePercent24h() > ranked[j].ChangePercent24h()
    })

    return Summary{
        TopGainer: moverOf(ranked[0]),
        TopLoser:  moverOf(ranked[len(ranked)-1]),
        Count:     len(coins),
    }, true
}

func moverOf(c market.Coin) Mover {
    change := c.ChangePercent24h()
    return Mover{
        ID:            c.ID,
        Symbol:        c.Symbol,
        Name:          c.Name,
        ChangePercent: change,
        Change:        format.ChangePercent(change),
    }
}
