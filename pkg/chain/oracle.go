package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPOracle fetches spot prices from the price oracle service.
type HTTPOracle struct {
	base   string
	client *http.Client
}

func NewHTTPOracle(baseURL string) *HTTPOracle {
	return &HTTPOracle{
		base:   baseURL,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (o *HTTPOracle) Price(ctx context.Context, symbol, quote string) (float64, error) {
	if quote == "" {
		quote = "USD"
	}
	u := fmt.Sprintf("%s/v1/price?token=%s&quote=%s",
		o.base, url.QueryEscape(symbol), url.QueryEscape(quote))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("oracle request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("oracle returned %s for %s/%s", resp.Status, symbol, quote)
	}
	var body struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("oracle response: %w", err)
	}
	return body.Price, nil
}
