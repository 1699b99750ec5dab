package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultsLoad(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		if _, err := NewManager(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
			t.Fatal("expected error for explicit missing config file")
		}
	})

	t.Run("defaults only", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("HOME", t.TempDir())

		cm, err := NewManager("")
		if err != nil {
			t.Fatalf("NewManager: %v", err)
		}
		if got := cm.ConfigFileUsed(); got != "" {
			t.Errorf("expected no config file, got %s", got)
		}
		cfg := cm.Get()
		if cfg.Fetch.Delay != 2*time.Second {
			t.Errorf("expected 2s fetch delay, got %s", cfg.Fetch.Delay)
		}

		e, err := cm.Election("frankfurt-stvv")
		if err != nil {
			t.Fatalf("Election: %v", err)
		}
		if e.Slug != "frankfurt-stvv" || e.IDPrefix != "stvv" || e.TotalStimmen != 93 {
			t.Errorf("unexpected election: %+v", e)
		}
		table := e.PartyTable()
		if table.Len() != 22 {
			t.Errorf("expected 22 parties, got %d", table.Len())
		}
		if table.Expected(4) != 93 {
			t.Errorf("expected GRÜNE to carry 93 candidates, got %d", table.Expected(4))
		}
		if info := table.Info(22); info.ShortName != "BSW" {
			t.Errorf("expected BSW for list 22, got %s", info.ShortName)
		}
	})
}

func TestDefaultConfigMatchesViper(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cm, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	want := DefaultConfig()
	got := cm.Get()
	if diff := cmp.Diff(want.ElectionNames(), got.ElectionNames()); diff != "" {
		t.Errorf("election names (-yaml +viper):\n%s", diff)
	}
	for _, name := range want.ElectionNames() {
		if diff := cmp.Diff(want.Elections[name], got.Elections[name]); diff != "" {
			t.Errorf("%s (-yaml +viper):\n%s", name, diff)
		}
	}
}

func TestUserFileMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wahlzettel.yaml")
	user := `
workspace: ${WAHLZETTEL_TEST_WS}
elections:
  frankfurt-stvv:
    total_stimmen: 94
    options:
      max_list: 21
  testtown:
    strategy: literal
    id_prefix: tt
    total_stimmen: 3
    output: testtown.json
    parties:
      - list: 1
        short: A
        candidates:
          - {last: Muster, first: Max}
`
	if err := os.WriteFile(path, []byte(user), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WAHLZETTEL_TEST_WS", "/srv/wahl")

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if cm.ConfigFileUsed() != path {
		t.Errorf("expected %s, got %s", path, cm.ConfigFileUsed())
	}
	cfg := cm.Get()
	if cfg.Workspace != "/srv/wahl" {
		t.Errorf("expected resolved workspace, got %s", cfg.Workspace)
	}

	e, err := cfg.Election("frankfurt-stvv")
	if err != nil {
		t.Fatal(err)
	}
	if e.TotalStimmen != 94 {
		t.Errorf("expected override 94, got %d", e.TotalStimmen)
	}
	if e.Options.MaxList != 21 {
		t.Errorf("expected max_list 21, got %d", e.Options.MaxList)
	}
	if e.Options.Columns != 2 || e.IDPrefix != "stvv" {
		t.Errorf("defaults lost in merge: %+v", e)
	}

	tt, err := cfg.Election("testtown")
	if err != nil {
		t.Fatal(err)
	}
	if len(tt.Parties) != 1 || len(tt.Parties[0].Candidates) != 1 {
		t.Fatalf("unexpected parties: %+v", tt.Parties)
	}
}

func TestUnknownElection(t *testing.T) {
	cfg := DefaultConfig()
	_, err := cfg.Election("atlantis")
	if !errors.Is(err, ErrUnknownElection) {
		t.Errorf("expected ErrUnknownElection, got %v", err)
	}
	if _, err := cfg.Election("MUENCHEN"); err != nil {
		t.Errorf("expected case-insensitive lookup, got %v", err)
	}
}

func TestLegacyPrefix(t *testing.T) {
	cfg := DefaultConfig()
	if p, ok := cfg.LegacyPrefix("hanau-stvv.json"); !ok || p != "hu-stvv" {
		t.Errorf("expected hu-stvv, got %q %v", p, ok)
	}
	if _, ok := cfg.LegacyPrefix("berlin.json"); ok {
		t.Error("expected no prefix for unknown file")
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("WAHLZETTEL_TEST_DIR", "/tmp/sources")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "sources/a.pdf", "sources/a.pdf"},
		{"single", "${WAHLZETTEL_TEST_DIR}/a.pdf", "/tmp/sources/a.pdf"},
		{"unset", "${WAHLZETTEL_TEST_UNSET}/a.pdf", "/a.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveEnvVars(tt.input); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wahlzettel.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager on written defaults: %v", err)
	}
	e, err := cm.Election("ruesselsheim-kav")
	if err != nil {
		t.Fatal(err)
	}
	if len(e.Parties) != 6 || len(e.Parties[1].Candidates) != 15 {
		t.Errorf("unexpected ruesselsheim parties after round trip: %d", len(e.Parties))
	}
	if cm.Get().Fetch.Timeout != 2*time.Minute {
		t.Errorf("expected 2m timeout, got %s", cm.Get().Fetch.Timeout)
	}
}

func TestReloadNotifies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wahlzettel.yaml")
	if err := os.WriteFile(path, []byte("elections:\n  muenchen:\n    total_stimmen: 80\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cm, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}

	var got int
	cm.OnChange(func(c *Config) {
		got = c.Elections["muenchen"].TotalStimmen
	})
	if err := os.WriteFile(path, []byte("elections:\n  muenchen:\n    total_stimmen: 81\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := cm.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got != 81 {
		t.Errorf("expected callback with 81, got %d", got)
	}

	if err := os.WriteFile(path, []byte("elections: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := cm.Reload(); err == nil {
		t.Error("expected error for broken config")
	}
	if cm.Get().Elections["muenchen"].TotalStimmen != 81 {
		t.Error("broken reload replaced the configuration")
	}
}
