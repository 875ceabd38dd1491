package board

// Delta is the direction of a coin's price move since the previous
// render pass. It drives the "updated" cue in the views.
type Delta string

const (
	DeltaNone Delta = ""
	DeltaUp   Delta = "up"
	DeltaDown Delta = "down"
)

// Row is one fully formatted table line handed to a View.
type Row struct {
	Rank          int     `json:"rank"`
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Image         string  `json:"image,omitempty"`
	Price         string  `json:"price"`
	ChangePercent float64 `json:"change_percent_24h"`
	Change        string  `json:"change"`
	MarketCap     string  `json:"market_cap"`
	Volume        string  `json:"volume"`
	Delta         Delta   `json:"delta,omitempty"`
}

// Mover names one coin and its 24h change.
type Mover struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	ChangePercent float64 `json:"change_percent_24h"`
	Change        string  `json:"change"`
}

// Summary is the derived statistics block, always computed over the
// complete fetched set regardless of the active search term.
type Summary struct {
	TopGainer Mover `json:"top_gainer"`
	TopLoser  Mover `json:"top_loser"`
	Count     int   `json:"count"`
}

// Status is the refresh indicator block.
type Status struct {
	RefreshedAt string `json:"refreshed_at,omitempty"`
	Error       string `json:"error,omitempty"`
	Running     bool   `json:"running"`
	Cycle       string `json:"cycle,omitempty"`
}

// View receives fully computed view models from the board. Implementations
// only display; they must not call back into the board during a render.
type View interface {
	RenderTable(rows []Row)
	RenderSummary(sum Summary)
	RenderStatus(st Status)
}
