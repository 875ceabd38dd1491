package coingecko

import (
	"net/http"
	"net/url"
)

// baseURL is the public CoinGecko v3 API root.
const baseURL = "https://api.coingecko.com/api/v3"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=coingecko_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the CoinGecko markets API.
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient performs the requests.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// query contains additional query parameters to be sent with each request.
	query url.Values
	// vsCurrency is the quote currency for the ranked listing.
	vsCurrency string
	// perPage is the page size for the ranked listing.
	perPage int
}

// ClientOption is a configuration option for the CoinGecko client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithVsCurrency sets the quote currency for the ranked listing.
func WithVsCurrency(currency string) ClientOption {
	return func(c *Client) {
		if currency != "" {
			c.vsCurrency = currency
		}
	}
}

// WithPerPage sets the page size for the ranked listing.
func WithPerPage(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// New creates a new CoinGecko client. key may be empty for keyless access
// to the public API.
func New(key string, options ...ClientOption) *Client {
	var client = &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
		vsCurrency: "usd",
		perPage:    50,
	}
	if key != "" {
		// Demo-tier keys are passed as a header.
		// https://docs.coingecko.com/reference/authentication
		client.header.Set("x-cg-demo-api-key", key)
	}
	for _, option := range options {
		option(client)
	}
	return client
}
