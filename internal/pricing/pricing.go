// Package pricing looks up candidate market prices for parsed receipt items
// against an external shopping-results API.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Lookup defines the interface for retrieving comparison prices
type Lookup interface {
	// Prices returns candidate market prices for a product query. An empty
	// slice means no match was found online.
	Prices(ctx context.Context, query string) ([]float64, error)
}

// Client implements Lookup against a SerpAPI-style shopping-results endpoint
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new price-lookup client. Each request runs under its
// own timeout so one slow item never stalls the rest of a scan.
func NewClient(baseURL string, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://serpapi.com"
	}

	// Stay under the provider's request quota; short bursts are fine.
	limiter := rate.NewLimiter(rate.Limit(2), 5)

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: limiter,
	}
}

// shoppingResponse represents the shopping-results payload
type shoppingResponse struct {
	ShoppingResults []shoppingResult `json:"shopping_results"`
}

type shoppingResult struct {
	Title          string  `json:"title"`
	Price          string  `json:"price"`
	ExtractedPrice float64 `json:"extracted_price"`
}

// Prices queries the shopping API and returns every well-formed price in the
// result set, in result order. Malformed entries are skipped, not fatal.
func (c *Client) Prices(ctx context.Context, query string) ([]float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("engine", "google_shopping")
	params.Set("q", query)
	params.Set("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling shopping API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("shopping API error (status %d): %s", resp.StatusCode, string(body))
	}

	var shopResp shoppingResponse
	if err := json.NewDecoder(resp.Body).Decode(&shopResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	prices := make([]float64, 0, len(shopResp.ShoppingResults))
	for _, result := range shopResp.ShoppingResults {
		price := result.ExtractedPrice
		if price <= 0 {
			parsed, err := parsePriceString(result.Price)
			if err != nil {
				continue
			}
			price = parsed
		}
		prices = append(prices, price)
	}

	return prices, nil
}

// parsePriceString parses a display price like "$1,299.99".
func parsePriceString(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}
	return strconv.ParseFloat(s, 64)
}
