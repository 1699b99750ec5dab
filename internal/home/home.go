package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// SourcesDirName is the subdirectory for downloaded source documents.
	SourcesDirName = "sources"

	// DataDirName is the subdirectory the ballot app reads datasets from.
	DataDirName = "public/data"

	// PatchesDirName is the subdirectory for boundary-fix audit records.
	PatchesDirName = "patches"

	// ConfigFileName is the workspace config file name.
	ConfigFileName = "wahlzettel.yaml"
)

// Dir represents the workspace directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the current working directory.
func New(path string) (*Dir, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = wd
	}
	return &Dir{path: filepath.Clean(path)}, nil
}

// Path returns the root path of the workspace.
func (d *Dir) Path() string {
	return d.path
}

// SourcesDir returns the path to the source documents directory.
func (d *Dir) SourcesDir() string {
	return filepath.Join(d.path, SourcesDirName)
}

// DataDir returns the path to the dataset directory.
func (d *Dir) DataDir() string {
	return filepath.Join(d.path, filepath.FromSlash(DataDirName))
}

// PatchesDir returns the path to the patch directory.
func (d *Dir) PatchesDir() string {
	return filepath.Join(d.path, PatchesDirName)
}

// ConfigPath returns the path to the workspace config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// Resolve returns p unchanged when absolute, else joined to the workspace.
func (d *Dir) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.path, p)
}

// SourcePath resolves a configured source path. Bare file names live in
// the sources directory; paths with a directory part are workspace
// relative.
func (d *Dir) SourcePath(p string) string {
	return d.within(d.SourcesDir(), p)
}

// OutputPath resolves a configured output file name against the dataset
// directory.
func (d *Dir) OutputPath(p string) string {
	return d.within(d.DataDir(), p)
}

// PatchPath resolves a configured patch file name against the patch
// directory.
func (d *Dir) PatchPath(p string) string {
	return d.within(d.PatchesDir(), p)
}

func (d *Dir) within(dir, p string) string {
	switch {
	case p == "" || filepath.IsAbs(p):
		return p
	case filepath.Base(p) == p:
		return filepath.Join(dir, p)
	default:
		return d.Resolve(p)
	}
}

// EnsureExists creates the workspace subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.SourcesDir(), d.DataDir(), d.PatchesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the workspace directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the workspace.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
