package config

import (
	"sort"
	"time"

	"github.com/jackzampolin/wahlzettel/internal/ballot"
)

// Config is the complete tool configuration.
type Config struct {
	// Workspace is the directory sources, output and patches are resolved
	// against. Overridden by --home.
	Workspace string `mapstructure:"workspace" yaml:"workspace"`

	Fetch     FetchConfig         `mapstructure:"fetch" yaml:"fetch"`
	Elections map[string]Election `mapstructure:"elections" yaml:"elections"`
	Legacy    []LegacyFile        `mapstructure:"legacy" yaml:"legacy,omitempty"`
}

// FetchConfig controls downloads of source documents.
type FetchConfig struct {
	Attempts  uint          `mapstructure:"attempts" yaml:"attempts"`
	Delay     time.Duration `mapstructure:"delay" yaml:"delay"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// Election describes one election dataset: where its sources are, how to
// parse them and the gazette party table to check the result against.
type Election struct {
	// Slug is the configuration key; filled in on load.
	Slug string `mapstructure:"-" yaml:"-"`

	Title           string `mapstructure:"title" yaml:"title,omitempty"`
	Election        string `mapstructure:"election" yaml:"election,omitempty"`
	Name            string `mapstructure:"name" yaml:"name,omitempty"`
	Strategy        string `mapstructure:"strategy" yaml:"strategy"`
	IDPrefix        string `mapstructure:"id_prefix" yaml:"id_prefix"`
	TotalStimmen    int    `mapstructure:"total_stimmen" yaml:"total_stimmen"`
	MaxPerCandidate int    `mapstructure:"max_per_candidate" yaml:"max_per_candidate"`
	Output          string `mapstructure:"output" yaml:"output"`
	Patch           string `mapstructure:"patch" yaml:"patch,omitempty"`

	Sources []Source      `mapstructure:"sources" yaml:"sources,omitempty"`
	Options Options       `mapstructure:"options" yaml:"options,omitempty"`
	Parties []PartyConfig `mapstructure:"parties" yaml:"parties,omitempty"`
	// Aliases name parties by Kennwort for documents whose list numbers are
	// not known in advance.
	Aliases []PartyConfig `mapstructure:"aliases" yaml:"aliases,omitempty"`
}

// Source is one input document.
type Source struct {
	Path  string     `mapstructure:"path" yaml:"path"`
	URL   string     `mapstructure:"url" yaml:"url,omitempty"`
	Pages string     `mapstructure:"pages" yaml:"pages,omitempty"`
	Files []PartFile `mapstructure:"files" yaml:"files,omitempty"`
}

// PartFile maps one PDF of a multi-file source to its list number.
type PartFile struct {
	Name string `mapstructure:"name" yaml:"name"`
	List int    `mapstructure:"list" yaml:"list"`
}

// PartyConfig is one row of the gazette party table.
type PartyConfig struct {
	List       int                `mapstructure:"list" yaml:"list"`
	Short      string             `mapstructure:"short" yaml:"short"`
	Full       string             `mapstructure:"full" yaml:"full,omitempty"`
	Expected   int                `mapstructure:"expected" yaml:"expected,omitempty"`
	Candidates []LiteralCandidate `mapstructure:"candidates" yaml:"candidates,omitempty"`
}

// LiteralCandidate is a hand-entered record for sources that defeat
// automated extraction.
type LiteralCandidate struct {
	Last       string `mapstructure:"last" yaml:"last"`
	First      string `mapstructure:"first" yaml:"first"`
	Profession string `mapstructure:"profession" yaml:"profession,omitempty"`
}

// Options tune the parser strategy for one document layout. Unset fields
// fall back to the strategy's defaults.
type Options struct {
	Header           string   `mapstructure:"header" yaml:"header,omitempty"`
	Start            string   `mapstructure:"start" yaml:"start,omitempty"`
	Stop             string   `mapstructure:"stop" yaml:"stop,omitempty"`
	Noise            []string `mapstructure:"noise" yaml:"noise,omitempty"`
	Scheme           string   `mapstructure:"scheme" yaml:"scheme,omitempty"`
	Year             string   `mapstructure:"year" yaml:"year,omitempty"`
	Names            string   `mapstructure:"names" yaml:"names,omitempty"`
	MaxContinuations int      `mapstructure:"max_continuations" yaml:"max_continuations,omitempty"`
	EndMarkers       []string `mapstructure:"end_markers" yaml:"end_markers,omitempty"`
	MaxList          int      `mapstructure:"max_list" yaml:"max_list,omitempty"`
	CleanArtifacts   bool     `mapstructure:"clean_artifacts" yaml:"clean_artifacts,omitempty"`
	LiftNumbers      bool     `mapstructure:"lift_numbers" yaml:"lift_numbers,omitempty"`
	SplitInline      bool     `mapstructure:"split_inline" yaml:"split_inline,omitempty"`
	Columns          int      `mapstructure:"columns" yaml:"columns,omitempty"`
	YTolerance       float64  `mapstructure:"y_tolerance" yaml:"y_tolerance,omitempty"`

	Grid  GridOptions  `mapstructure:"grid" yaml:"grid,omitempty"`
	Table TableOptions `mapstructure:"table" yaml:"table,omitempty"`
}

// GridOptions cut a dense ballot sheet into cells.
type GridOptions struct {
	X []float64 `mapstructure:"x" yaml:"x,omitempty"`
	Y []float64 `mapstructure:"y" yaml:"y,omitempty"`
}

// TableOptions describe a ruled candidate table.
type TableOptions struct {
	// X are the column boundaries.
	X []float64 `mapstructure:"x" yaml:"x,omitempty"`
	// Cells names the meaning of each column: number, name, last, first,
	// profession. Unnamed columns are ignored.
	Cells []string `mapstructure:"cells" yaml:"cells,omitempty"`
}

// LegacyFile is a dataset in the older per-city layout and the id prefix
// it converts to.
type LegacyFile struct {
	File   string `mapstructure:"file" yaml:"file"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
}

// PartyTable builds the immutable party table of the election.
func (e Election) PartyTable() ballot.PartyTable {
	infos := make([]ballot.PartyInfo, 0, len(e.Parties))
	for _, p := range e.Parties {
		infos = append(infos, p.Info())
	}
	return ballot.NewPartyTable(infos...)
}

// AliasInfos returns the Kennwort aliases as party metadata.
func (e Election) AliasInfos() []ballot.PartyInfo {
	infos := make([]ballot.PartyInfo, 0, len(e.Aliases))
	for _, p := range e.Aliases {
		infos = append(infos, p.Info())
	}
	return infos
}

// Info converts a table row to party metadata.
func (p PartyConfig) Info() ballot.PartyInfo {
	return ballot.PartyInfo{
		ListNumber: p.List,
		ShortName:  p.Short,
		FullName:   p.Full,
		Expected:   p.Expected,
	}
}

// ElectionNames returns the configured election slugs in sorted order.
func (c *Config) ElectionNames() []string {
	names := make([]string, 0, len(c.Elections))
	for name := range c.Elections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
