// Package fetch downloads source documents into the workspace.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/wahlzettel/internal/config"
)

// StatusError is a non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

// Fetcher downloads files with retries.
type Fetcher struct {
	client    *http.Client
	attempts  uint
	delay     time.Duration
	userAgent string
	logger    *slog.Logger
	// Force downloads even when the destination already exists.
	Force bool
}

// New creates a Fetcher from the fetch configuration.
func New(cfg config.FetchConfig, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = 1
	}
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		attempts:  attempts,
		delay:     cfg.Delay,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// Result describes one fetch.
type Result struct {
	URL     string `json:"url"`
	Path    string `json:"path"`
	Bytes   int64  `json:"bytes"`
	Skipped bool   `json:"skipped"`
}

// Fetch downloads url to dest unless dest already exists. Server errors and
// transport failures are retried; client errors are not.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) (Result, error) {
	res := Result{URL: url, Path: dest}
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 && !f.Force {
		res.Skipped = true
		res.Bytes = info.Size()
		f.logger.Debug("source already present", "path", dest)
		return res, nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return res, fmt.Errorf("create source directory: %w", err)
	}

	err := retry.Do(
		func() error {
			n, err := f.download(ctx, url, dest)
			res.Bytes = n
			return err
		},
		retry.Context(ctx),
		retry.Attempts(f.attempts),
		retry.Delay(f.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			f.logger.Warn("download failed, retrying", "url", url, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return res, err
	}
	f.logger.Info("downloaded source", "url", url, "path", dest, "bytes", res.Bytes)
	return res, nil
}

func (f *Fetcher) download(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, retry.Unrecoverable(err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		serr := &StatusError{URL: url, StatusCode: resp.StatusCode}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return 0, retry.Unrecoverable(serr)
		}
		return 0, serr
	}

	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return 0, retry.Unrecoverable(fmt.Errorf("create %s: %w", tmp, err))
	}
	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return 0, err
	}
	if err := os.Rename(tmp, dest); err != nil {
		return 0, retry.Unrecoverable(err)
	}
	return n, nil
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
