// AngelaMos | 2026
// storage.go

// Package storage is the boundary to the media storage service holding user
// uploads. Page and user deletion only ever call it best-effort.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/biolink-labs/biolink-api/internal/config"
)

// Deleter removes previously uploaded media objects.
type Deleter interface {
	DeleteObject(ctx context.Context, objectURL string) error
	DeleteUserFolder(ctx context.Context, userID string) error
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.StorageConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// DeleteObject removes a single object addressed by its public URL.
func (c *Client) DeleteObject(ctx context.Context, objectURL string) error {
	return c.delete(ctx, "/files", map[string]string{"url": objectURL})
}

// DeleteUserFolder removes every object under a user's folder. Used when a
// user account is deleted.
func (c *Client) DeleteUserFolder(ctx context.Context, userID string) error {
	return c.delete(ctx, "/files/user/"+url.PathEscape(userID), nil)
}

func (c *Client) delete(ctx context.Context, path string, body any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode storage request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodDelete,
		c.baseURL+path,
		reqBody,
	)
	if err != nil {
		return fmt.Errorf("build storage request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call storage service: %w", err)
	}
	defer func() {
		//nolint:errcheck // body close on delete path
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf(
			"storage service returned %d for %s",
			resp.StatusCode,
			path,
		)
	}

	return nil
}
