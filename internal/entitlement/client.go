// AngelaMos | 2026
// client.go

package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/biolink-labs/biolink-api/internal/config"
)

const apiKeyHeader = "py-api-key"

// Client talks to the payments service over HTTP, authenticated with the
// service API key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.PaymentsConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// PlansFeatures fetches the full plan-features catalog.
func (c *Client) PlansFeatures(ctx context.Context) ([]Features, error) {
	var plans []Features
	if err := c.get(ctx, "/system/plans-features", &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// ActiveSubscription fetches the user's active subscription, if any.
func (c *Client) ActiveSubscription(
	ctx context.Context,
	userID string,
) (*Subscription, error) {
	path := "/subscription/active/user/" + url.PathEscape(userID)

	var sub Subscription
	if err := c.get(ctx, path, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+path,
		nil,
	)
	if err != nil {
		return fmt.Errorf("build payments request: %w", err)
	}

	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call payments service: %w", err)
	}
	defer func() {
		//nolint:errcheck // body close on read path
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(
			"payments service returned %d for %s",
			resp.StatusCode,
			path,
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode payments response: %w", err)
	}

	return nil
}
