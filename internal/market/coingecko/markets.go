package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strconv"
	"strings"

	"cryptotracker/internal/market"
)

// Markets retrieves the ranked market listing. The query shape is fixed:
// quote currency, descending market cap, one page, no sparkline series.
func (c *Client) Markets(ctx context.Context) ([]market.Coin, error) {
	query := maps.Clone(c.query)
	if query == nil {
		query = map[string][]string{}
	}
	query.Set("vs_currency", c.vsCurrency)
	query.Set("order", "market_cap_desc")
	query.Set("per_page", strconv.Itoa(c.perPage))
	query.Set("page", "1")
	query.Set("sparkline", "false")

	url := fmt.Sprintf("%s/coins/markets?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &market.NetworkError{Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return nil, &market.NetworkError{
			Status: res.StatusCode,
			Err:    fmt.Errorf("GET /coins/markets: %s", strings.TrimSpace(string(b))),
		}
	}

	var coins []market.Coin
	if err := json.NewDecoder(res.Body).Decode(&coins); err != nil {
		return nil, &market.ParseError{Err: err}
	}
	return coins, nil
}
