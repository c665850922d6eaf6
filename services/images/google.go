// Package images resolves slide image prompts to locally stored files via
// Google Custom Search.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	searchEndpoint = "https://www.googleapis.com/customsearch/v1"
	requestTimeout = 15 * time.Second
	maxImageBytes  = 8 * 1024 * 1024
)

type GoogleSearch struct {
	apiKey     string
	cseID      string
	destDir    string
	httpClient *http.Client
}

func NewGoogleSearch(apiKey, cseID, destDir string) *GoogleSearch {
	return &GoogleSearch{
		apiKey:  apiKey,
		cseID:   cseID,
		destDir: destDir,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Lookup searches for one image matching the query and downloads it to the
// store's images directory. An empty path with a nil error means no match.
func (g *GoogleSearch) Lookup(ctx context.Context, query, courseID, slideName string) (string, error) {
	imageURL, err := g.search(ctx, query)
	if err != nil {
		return "", err
	}
	if imageURL == "" {
		return "", nil
	}

	return g.download(ctx, imageURL, courseID, slideName)
}

func (g *GoogleSearch) search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("key", g.apiKey)
	params.Set("cx", g.cseID)
	params.Set("searchType", "image")
	params.Set("num", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create image search request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("image search failed: status %d", resp.StatusCode)
	}

	var payload struct {
		Items []struct {
			Link string `json:"link"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode image search response: %w", err)
	}

	if len(payload.Items) == 0 {
		return "", nil
	}
	return payload.Items[0].Link, nil
}

func (g *GoogleSearch) download(ctx context.Context, imageURL, courseID, slideName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create image download request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("image download failed: status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(g.destDir, 0o755); err != nil {
		return "", fmt.Errorf("ensure images directory: %w", err)
	}

	path := filepath.Join(g.destDir, fmt.Sprintf("%s_%s.jpg", courseID, slideName))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, io.LimitReader(resp.Body, maxImageBytes)); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write image file: %w", err)
	}

	return path, nil
}
