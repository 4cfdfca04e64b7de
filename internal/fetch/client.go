package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"gridiron-chat/internal/store"
)

type Client struct {
	HTTP         *http.Client
	Store        *store.CSVStore
	BaseURL      string
	UserAgent    string
	Sleep        time.Duration
	UseCache     bool
	DisableWrite bool
	Log          *zap.Logger
}

func NewClient(st *store.CSVStore, baseURL string) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: 20 * time.Second},
		Store:     st,
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: "gridiron-chat/1.0",
		Sleep:     250 * time.Millisecond,
		UseCache:  true,
		Log:       zap.NewNop(),
	}
}

// FetchRaw downloads the named source file and writes it into the store.
// Returns raw bytes (from cache or network).
func (c *Client) FetchRaw(ctx context.Context, name string, force bool) ([]byte, error) {
	if !force && c.UseCache && c.Store.Exists(name) {
		return c.Store.ReadRaw(name)
	}

	if c.Sleep > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Sleep):
		}
	}

	src := c.BaseURL + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/csv")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s failed: %d", src, resp.StatusCode)
	}

	if !c.DisableWrite {
		if err := c.Store.WriteRaw(name, body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// Sync fetches every source. A failed source does not stop the others; all
// failures come back joined.
func (c *Client) Sync(ctx context.Context, sources []string, force bool) (int, error) {
	var errs []error
	fetched := 0
	for _, name := range sources {
		if _, err := c.FetchRaw(ctx, name, force); err != nil {
			if ctx.Err() != nil {
				return fetched, ctx.Err()
			}
			c.Log.Warn("source download failed", zap.String("source", name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		fetched++
		c.Log.Info("source synced", zap.String("source", name))
	}
	return fetched, errors.Join(errs...)
}
