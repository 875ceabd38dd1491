// Package board owns the fetched market data set, the searchable filtered
// view, per-coin price history and the poll loop, and pushes fully computed
// view models to a display sink.
package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"cryptotracker/internal/format"
	"cryptotracker/internal/market"
)

// retryMessage is the user-visible indicator raised on any failed fetch.
const retryMessage = "failed to fetch, retrying"

// DefaultInterval is the poll interval when none is configured.
const DefaultInterval = 30 * time.Second

// Board coordinates one data set, one filtered view and one poll loop.
// All state lives behind mu; the network fetch runs outside the lock and
// its result is applied atomically, which preserves the source model's
// "no mutation while suspended" guarantee.
type Board struct {
	src      market.Source
	view     View
	log      zerolog.Logger
	interval time.Duration
	timeout  time.Duration

	// flight collapses a timer tick racing an out-of-band refresh into a
	// single in-flight fetch per generation.
	flight singleflight.Group

	mu          sync.Mutex
	coins       []market.Coin
	filtered    []market.Coin
	term        string
	lastPrice   map[string]float64
	summary     Summary
	hasSummary  bool
	refreshedAt time.Time
	lastErr     string
	cycle       string
	gen         uint64
	cancel      context.CancelFunc // nil while stopped
}

// Option configures a Board.
type Option func(*Board)

// WithInterval sets the poll interval.
func WithInterval(d time.Duration) Option {
	return func(b *Board) {
		if d > 0 {
			b.interval = d
		}
	}
}

// WithFetchTimeout bounds each fetch cycle. Zero disables the bound and
// leaves only the transport's own limits.
func WithFetchTimeout(d time.Duration) Option {
	return func(b *Board) {
		b.timeout = d
	}
}

// WithLogger sets the board's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Board) {
		b.log = log
	}
}

// New creates a Board over a market source and a view sink.
func New(src market.Source, view View, options ...Option) *Board {
	b := &Board{
		src:       src,
		view:      view,
		log:       zerolog.Nop(),
		interval:  DefaultInterval,
		timeout:   15 * time.Second,
		lastPrice: make(map[string]float64),
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// Refresh runs one fetch cycle: fetch, replace the data set, re-apply the
// active search term, recompute the summary and render. Concurrent callers
// within the same scheduler generation share a single in-flight fetch. A
// result whose generation is stale by apply time is discarded.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.Lock()
	gen := b.gen
	b.mu.Unlock()

	_, err, _ := b.flight.Do(fmt.Sprintf("refresh-%d", gen), func() (any, error) {
		return nil, b.refresh(ctx, gen)
	})
	return err
}

func (b *Board) refresh(ctx context.Context, gen uint64) error {
	cycle := uuid.NewString()
	log := b.log.With().Str("cycle", cycle).Logger()

	fctx := ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := time.Now()
	coins, err := b.src.Markets(fctx)
	elapsed := time.Since(start)

	b.mu.Lock()
	if b.gen != gen {
		b.mu.Unlock()
		log.Debug().Uint64("gen", gen).Msg("stale fetch result discarded")
		return nil
	}

	if err != nil {
		b.lastErr = retryMessage
		b.cycle = cycle
		st := b.statusLocked()
		b.mu.Unlock()
		log.Warn().Err(err).Dur("elapsed", elapsed).Msg("fetch failed")
		b.view.RenderStatus(st)
		return err
	}

	b.coins = coins
	b.filtered = applyFilter(coins, b.term)
	if sum, ok := computeSummary(coins); ok {
		b.summary = sum
		b.hasSummary = true
	}
	b.refreshedAt = time.Now()
	b.lastErr = ""
	b.cycle = cycle
	rows := b.rowsLocked()
	sum, hasSummary := b.summary, b.hasSummary
	st := b.statusLocked()
	b.mu.Unlock()

	log.Info().Int("coins", len(coins)).Dur("elapsed", elapsed).Msg("data set refreshed")
	b.view.RenderTable(rows)
	if hasSummary {
		b.view.RenderSummary(sum)
	}
	b.view.RenderStatus(st)
	return nil
}

// Search applies one input event from the text filter: the filtered view is
// recomputed in full against the stored set and the table re-rendered. The
// summary is untouched; it always covers the complete set.
func (b *Board) Search(term string) []Row {
	b.mu.Lock()
	b.term = normalizeTerm(term)
	b.filtered = applyFilter(b.coins, b.term)
	rows := b.rowsLocked()
	b.mu.Unlock()

	b.view.RenderTable(rows)
	return rows
}

// Term returns the active normalized search term.
func (b *Board) Term() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.term
}

// Summary returns the last computed summary, ok=false before the first
// successful fetch.
func (b *Board) Summary() (Summary, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.summary, b.hasSummary
}

// Status returns the current refresh indicator block.
func (b *Board) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statusLocked()
}

// rowsLocked builds the table view for the current filtered set and records
// each coin's price for the next delta comparison. History entries are only
// ever created or overwritten, matching change-since-last-render semantics.
// Caller holds mu.
func (b *Board) rowsLocked() []Row {
	rows := make([]Row, 0, len(b.filtered))
	for i, c := range b.filtered {
		delta := DeltaNone
		if c.CurrentPrice != nil {
			if prev, ok := b.lastPrice[c.ID]; ok {
				switch {
				case *c.CurrentPrice > prev:
					delta = DeltaUp
				case *c.CurrentPrice < prev:
					delta = DeltaDown
				}
			}
			b.lastPrice[c.ID] = *c.CurrentPrice
		}
		change := c.ChangePercent24h()
		rows = append(rows, Row{
			Rank:          c.Rank(i),
			ID:            c.ID,
			Symbol:        c.Symbol,
			Name:          c.Name,
			Image:         c.Image,
			Price:         format.Currency(c.CurrentPrice),
			ChangePercent: change,
			Change:        format.ChangePercent(change),
			MarketCap:     format.LargeNumber(c.MarketCap),
			Volume:        format.LargeNumber(c.TotalVolume),
			Delta:         delta,
		})
	}
	return rows
}

func (b *Board) statusLocked() Status {
	st := Status{
		Running: b.cancel != nil,
		Error:   b.lastErr,
		Cycle:   b.cycle,
	}
	if !b.refreshedAt.IsZero() {
		st.RefreshedAt = format.Clock(b.refreshedAt)
	}
	return st
}
