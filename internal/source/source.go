// Package source acquires the raw schedule export, either from a local
// file or from an HTTP(S) URL with conditional-request disk caching.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// cacheEntry holds HTTP cache metadata for a single export URL.
type cacheEntry struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Loader reads the export bytes for the pipeline. URL inputs honor
// ETag / Last-Modified and fall back to the disk cache on network errors,
// so a flaky portal does not stop scheduled regeneration.
type Loader struct {
	client   *http.Client
	cacheDir string
	logger   *zap.Logger
}

// NewLoader creates a Loader caching under cacheDir.
func NewLoader(logger *zap.Logger, cacheDir string) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheDir == "" {
		cacheDir = "./var/export-cache"
	}
	return &Loader{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		cacheDir: cacheDir,
		logger:   logger,
	}
}

// Load returns the export bytes for ref, which is either a filesystem
// path or an http(s) URL.
func (l *Loader) Load(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, errors.New("input reference is empty")
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return l.fetchURL(ctx, ref)
	}
	return os.ReadFile(ref)
}

func (l *Loader) fetchURL(ctx context.Context, url string) ([]byte, error) {
	cachePath := l.cachePathForURL(url)
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return nil, err
	}

	meta, _ := l.loadCacheMeta(cachePath)
	cachedBody, _ := l.loadCacheBody(cachePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	l.logger.Info("export fetch start", zap.String("url", redactURL(url)))

	resp, err := l.client.Do(req)
	if err != nil {
		if len(cachedBody) > 0 {
			l.logger.Warn("export fetch network error, using cached body",
				zap.String("url", redactURL(url)), zap.Error(err))
			return cachedBody, nil
		}
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, readErr
		}

		newMeta := cacheEntry{
			URL:          url,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		}
		if err := l.saveCache(cachePath, newMeta, body); err != nil {
			// Cache failure is not fatal; we still have the fresh body.
			l.logger.Warn("export cache save failed",
				zap.String("url", redactURL(url)), zap.Error(err))
		}

		l.logger.Info("export fetch success",
			zap.String("url", redactURL(url)), zap.Int("bytes", len(body)))
		return body, nil

	case http.StatusNotModified:
		if len(cachedBody) == 0 {
			return nil, errors.New("received 304 Not Modified but no cached body available")
		}
		l.logger.Info("export not modified, using cache", zap.String("url", redactURL(url)))
		return cachedBody, nil

	default:
		if len(cachedBody) > 0 {
			l.logger.Warn("export fetch non-OK, using cached body",
				zap.String("url", redactURL(url)), zap.Int("status", resp.StatusCode))
			return cachedBody, nil
		}
		return nil, errors.New(resp.Status)
	}
}

func (l *Loader) cachePathForURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(l.cacheDir, hex.EncodeToString(sum[:8]))
}

func (l *Loader) loadCacheMeta(cachePath string) (cacheEntry, error) {
	var meta cacheEntry
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheEntry{}, err
	}
	return meta, nil
}

func (l *Loader) loadCacheBody(cachePath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(cachePath, "body.csv"))
}

func (l *Loader) saveCache(cachePath string, meta cacheEntry, body []byte) error {
	// Write body first so meta never points at a missing body.
	if err := os.WriteFile(filepath.Join(cachePath, "body.csv"), body, 0o600); err != nil {
		return err
	}

	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}

// redactURL hides query strings and paths when logging export URLs, since
// portal links often embed access tokens.
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := strings.Index(u, "://")
	if i == -1 {
		return "...(redacted)"
	}

	j := i + 3
	for j < len(u) && u[j] != '/' {
		j++
	}
	return u[:j] + redactedSuffix
}
