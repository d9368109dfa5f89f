// Package pypi provides a minimal PyPI JSON API client.
//
// Only the latest-release version of a package is fetched; dependency
// metadata stays with Poetry's own resolver.
package pypi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/therealaleph/poetry-auto-add/pkg/cache"
	"github.com/therealaleph/poetry-auto-add/pkg/integrations"
)

// Client provides access to the PyPI package registry API.
// It handles HTTP requests with caching and automatic retries.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a PyPI client with the given cache backend.
// Use cache.NewNullCache() to disable response caching.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "pypi:", cacheTTL, nil),
		baseURL: "https://pypi.org/pypi",
	}
}

// LatestVersion retrieves the latest released version of a package.
//
// The pkg parameter is normalized automatically (PEP 503). If refresh is
// true the cache is bypassed.
//
// Returns:
//   - [integrations.ErrNotFound] if the package doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
func (c *Client) LatestVersion(ctx context.Context, pkg string, refresh bool) (string, error) {
	pkg = integrations.NormalizePkgName(pkg)

	var version string
	err := c.Cached(ctx, pkg, refresh, &version, func() error {
		return c.fetch(ctx, pkg, &version)
	})
	if err != nil {
		return "", err
	}
	return version, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, version *string) error {
	var data apiResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: pypi package %s", err, pkg)
		}
		return err
	}
	if data.Info.Version == "" {
		return fmt.Errorf("%w: pypi package %s has no release", integrations.ErrNotFound, pkg)
	}
	*version = data.Info.Version
	return nil
}

type apiResponse struct {
	Info struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"info"`
}
