package tcgcsv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/tcgwallet/backend/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultCategoryID is the TCGPlayer category for the One Piece Card Game
const DefaultCategoryID = 68

// envelope is the common response wrapper of the tcgcsv feed
type envelope struct {
	Success    bool              `json:"success"`
	Errors     []string          `json:"errors"`
	TotalItems int               `json:"totalItems"`
	Results    []json.RawMessage `json:"results"`
}

// Client fetches card groups, products, and prices from the tcgcsv.com
// mirror of the TCGPlayer feed. It implements domain.PriceClient.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	categoryID  int
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new price feed client. The feed is a static daily
// mirror, so a polite 2 req/s limit with a small burst is plenty.
func NewClient(baseURL string, categoryID int) *Client {
	if categoryID <= 0 {
		categoryID = DefaultCategoryID
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		categoryID:  categoryID,
		rateLimiter: rate.NewLimiter(rate.Limit(2), 5),
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Groups fetches all card groups (sets/expansions) for the category.
func (c *Client) Groups(ctx context.Context) ([]domain.PriceGroup, error) {
	url := fmt.Sprintf("%s/%d/groups", c.baseURL, c.categoryID)

	results, err := c.fetchResults(ctx, url)
	if err != nil {
		return nil, err
	}

	groups := make([]domain.PriceGroup, 0, len(results))
	for _, raw := range results {
		var group domain.PriceGroup
		if err := json.Unmarshal(raw, &group); err != nil {
			return nil, fmt.Errorf("decoding group: %w", err)
		}
		groups = append(groups, group)
	}

	if c.debug {
		log.Printf("[TCGCSV] Fetched %d groups", len(groups))
	}
	return groups, nil
}

// Products fetches all products for one group.
func (c *Client) Products(ctx context.Context, groupID int) ([]domain.PriceProduct, error) {
	url := fmt.Sprintf("%s/%d/%d/products", c.baseURL, c.categoryID, groupID)

	results, err := c.fetchResults(ctx, url)
	if err != nil {
		return nil, err
	}

	products := make([]domain.PriceProduct, 0, len(results))
	for _, raw := range results {
		var product domain.PriceProduct
		if err := json.Unmarshal(raw, &product); err != nil {
			return nil, fmt.Errorf("decoding product: %w", err)
		}
		products = append(products, product)
	}

	if c.debug {
		log.Printf("[TCGCSV] Fetched %d products for group %d", len(products), groupID)
	}
	return products, nil
}

// Prices fetches the price spread for every product in one group.
func (c *Client) Prices(ctx context.Context, groupID int) ([]domain.ProductPrice, error) {
	url := fmt.Sprintf("%s/%d/%d/prices", c.baseURL, c.categoryID, groupID)

	results, err := c.fetchResults(ctx, url)
	if err != nil {
		return nil, err
	}

	prices := make([]domain.ProductPrice, 0, len(results))
	for _, raw := range results {
		var price domain.ProductPrice
		if err := json.Unmarshal(raw, &price); err != nil {
			return nil, fmt.Errorf("decoding price: %w", err)
		}
		prices = append(prices, price)
	}

	if c.debug {
		log.Printf("[TCGCSV] Fetched %d prices for group %d", len(prices), groupID)
	}
	return prices, nil
}

// fetchResults executes a GET against the feed with rate limiting and up to
// three attempts on transient failures, returning the raw results array.
func (c *Client) fetchResults(ctx context.Context, url string) ([]json.RawMessage, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, err := c.doRequest(ctx, url)
		if err != nil {
			if c.debug {
				log.Printf("[TCGCSV] Request error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt)):
			}
			continue
		}

		var resp envelope
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return resp.Results, nil
	}

	return nil, lastErr
}

// doRequest executes one HTTP GET and returns the response body
func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "TCGWallet/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPriceAPIFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrPriceAPIFailure, resp.StatusCode)
	}

	return body, nil
}

// exponentialBackoff returns the wait before the next retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}
