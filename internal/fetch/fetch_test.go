package fetch

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackzampolin/wahlzettel/internal/config"
)

func newFetcher(attempts uint) *Fetcher {
	return New(config.FetchConfig{
		Attempts:  attempts,
		Delay:     time.Millisecond,
		Timeout:   5 * time.Second,
		UserAgent: "wahlzettel-test",
	}, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func TestFetch(t *testing.T) {
	t.Run("downloads and skips existing", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			if got := r.Header.Get("User-Agent"); got != "wahlzettel-test" {
				t.Errorf("unexpected user agent %q", got)
			}
			_, _ = w.Write([]byte("%PDF-1.7 test"))
		}))
		defer srv.Close()

		dest := filepath.Join(t.TempDir(), "sources", "KAV.pdf")
		f := newFetcher(3)
		res, err := f.Fetch(context.Background(), srv.URL+"/KAV.pdf", dest)
		if err != nil {
			t.Fatal(err)
		}
		if res.Skipped || res.Bytes != 13 {
			t.Errorf("unexpected result %+v", res)
		}
		data, err := os.ReadFile(dest)
		if err != nil || string(data) != "%PDF-1.7 test" {
			t.Fatalf("unexpected file content %q (%v)", data, err)
		}

		res, err = f.Fetch(context.Background(), srv.URL+"/KAV.pdf", dest)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Skipped || calls.Load() != 1 {
			t.Errorf("expected skip without request, got %+v after %d calls", res, calls.Load())
		}

		f.Force = true
		if _, err := f.Fetch(context.Background(), srv.URL+"/KAV.pdf", dest); err != nil {
			t.Fatal(err)
		}
		if calls.Load() != 2 {
			t.Errorf("expected forced download, got %d calls", calls.Load())
		}
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		dest := filepath.Join(t.TempDir(), "a.pdf")
		if _, err := newFetcher(4).Fetch(context.Background(), srv.URL, dest); err != nil {
			t.Fatal(err)
		}
		if calls.Load() != 3 {
			t.Errorf("expected 3 calls, got %d", calls.Load())
		}
	})

	t.Run("client errors are final", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.NotFound(w, r)
		}))
		defer srv.Close()

		dest := filepath.Join(t.TempDir(), "a.pdf")
		_, err := newFetcher(4).Fetch(context.Background(), srv.URL, dest)
		if !IsStatus(err, http.StatusNotFound) {
			t.Fatalf("expected 404 status error, got %v", err)
		}
		if calls.Load() != 1 {
			t.Errorf("expected a single call, got %d", calls.Load())
		}
		if _, err := os.Stat(dest); !os.IsNotExist(err) {
			t.Error("destination must not exist after a failed download")
		}
	})
}
