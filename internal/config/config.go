package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
	yamlv3 "gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrUnknownElection is returned when an election slug is not configured.
var ErrUnknownElection = errors.New("unknown election")

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	cfgFile   string
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
// The embedded defaults are always loaded; cfgFile, or the first
// wahlzettel.yaml found in . or $HOME/.wahlzettel, is merged on top.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		cfgFile:   cfgFile,
		callbacks: make([]func(*Config), 0),
	}

	v, err := newViper(cfgFile)
	if err != nil {
		return nil, err
	}
	cm.v = v

	cfg, err := load(v)
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// newViper sets up a viper instance with defaults and config file.
func newViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultsYAML)); err != nil {
		return nil, fmt.Errorf("failed to read embedded defaults: %w", err)
	}

	// Environment variables with WAHLZETTEL_ prefix
	v.SetEnvPrefix("WAHLZETTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("wahlzettel")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.wahlzettel")
	}

	// Merge the user file over the defaults (not required)
	if err := v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return v, nil
}

// load parses the current viper state into a Config struct.
func load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.resolve()
	return &cfg, nil
}

// resolve fills in derived fields and expands ${ENV_VAR} references in
// paths and URLs.
func (c *Config) resolve() {
	c.Workspace = ResolveEnvVars(c.Workspace)
	for slug, e := range c.Elections {
		e.Slug = slug
		for i := range e.Sources {
			e.Sources[i].Path = ResolveEnvVars(e.Sources[i].Path)
			e.Sources[i].URL = ResolveEnvVars(e.Sources[i].URL)
		}
		c.Elections[slug] = e
	}
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFileUsed returns the user config file merged over the defaults,
// or "" when only the defaults are in effect.
func (cm *Manager) ConfigFileUsed() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.v.ConfigFileUsed()
}

// Election returns the named election from the current configuration.
func (cm *Manager) Election(name string) (Election, error) {
	return cm.Get().Election(name)
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration. Each change rebuilds
// the configuration from the defaults and the edited file; a file that no
// longer parses keeps the previous configuration and is passed to onError.
func (cm *Manager) WatchConfig(onError func(error)) {
	cm.mu.RLock()
	v := cm.v
	cm.mu.RUnlock()

	v.OnConfigChange(func(e fsnotify.Event) {
		if err := cm.Reload(); err != nil && onError != nil {
			onError(err)
		}
	})
	v.WatchConfig()
}

// Reload re-reads the defaults and the config file and notifies the
// registered callbacks.
func (cm *Manager) Reload() error {
	v, err := newViper(cm.cfgFile)
	if err != nil {
		return err
	}
	cfg, err := load(v)
	if err != nil {
		return err
	}

	cm.mu.Lock()
	cm.config = cfg
	callbacks := make([]func(*Config), len(cm.callbacks))
	copy(callbacks, cm.callbacks)
	cm.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
	return nil
}

// Election returns the named election.
func (c *Config) Election(name string) (Election, error) {
	e, ok := c.Elections[strings.ToLower(name)]
	if !ok {
		return Election{}, fmt.Errorf("%w: %q", ErrUnknownElection, name)
	}
	return e, nil
}

// LegacyPrefix returns the id prefix configured for a legacy dataset file.
func (c *Config) LegacyPrefix(file string) (string, bool) {
	for _, l := range c.Legacy {
		if l.File == file {
			return l.Prefix, true
		}
	}
	return "", false
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envPattern.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// DefaultConfig returns the embedded default configuration.
func DefaultConfig() *Config {
	var cfg Config
	if err := yamlv3.Unmarshal(defaultsYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	cfg.resolve()
	return &cfg
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# wahlzettel configuration
# Entries here are merged over the built-in defaults; remove what you do not
# override. Paths and URLs may use ${ENV_VAR} references.
# Edit while running "wahlzettel parse <election> --watch" to rerun on save.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
