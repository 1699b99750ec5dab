package ballot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Marshal encodes the dataset as UTF-8 JSON with two-space indentation,
// no HTML escaping and a trailing newline. Identical input always yields
// identical bytes.
func Marshal(e *Election) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return nil, fmt.Errorf("encode election: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode writes the dataset to w in its canonical form.
func Encode(w io.Writer, e *Election) error {
	data, err := Marshal(e)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile encodes the dataset and writes it to path, creating parent
// directories. The target is only touched once encoding succeeded.
func WriteFile(path string, e *Election) error {
	data, err := Marshal(e)
	if err != nil {
		return err
	}
	return WriteBytes(path, data)
}

// WriteBytes writes an already encoded dataset to path.
func WriteBytes(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Decode reads a canonical dataset.
func Decode(r io.Reader) (*Election, error) {
	var e Election
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return nil, fmt.Errorf("decode election: %w", err)
	}
	return &e, nil
}

// Load reads a canonical dataset from path.
func Load(path string) (*Election, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	e, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}
