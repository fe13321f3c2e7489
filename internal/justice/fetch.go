// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package justice

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/sc-decisions/internal/httputil"
	"github.com/pdiddy/sc-decisions/pkg/types"
)

// githubRawAccept asks the contents API for the raw file body.
const githubRawAccept = "application/vnd.github.raw+json"

// Fetch downloads the roster YAML from the GitHub contents API at cfg.URL
// and validates it before returning the raw bytes.
func Fetch(ctx context.Context, client *http.Client, cfg types.RosterConfig) ([]byte, *Roster, error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("roster url is not configured")
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", githubRawAccept)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("roster request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("roster request returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading roster body: %w", err)
	}

	roster, err := ParseRoster(data)
	if err != nil {
		return nil, nil, err
	}
	return data, roster, nil
}
