package recordio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Decode parses a JSON array of team objects.
func Decode(data []byte) ([]*Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	records := make([]*Record, len(raw))
	for i, item := range raw {
		rec := NewRecord()
		if err := rec.UnmarshalJSON(item); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records[i] = rec
	}
	return records, nil
}

// Encode writes records as an indented JSON array.
func Encode(w io.Writer, records []*Record) error {
	if records == nil {
		records = []*Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// IsCompressed reports whether path names a gzip file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// Load reads a document, decompressing .gz files.
func Load(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if IsCompressed(path) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// ReadFile loads and decodes a document.
func ReadFile(path string) ([]*Record, error) {
	data, err := Load(path)
	if err != nil {
		return nil, err
	}
	records, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// WriteFile encodes records to path, compressing when it ends in .gz. The
// file is written beside the target and renamed over it.
func WriteFile(path string, records []*Record) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	var w io.Writer = tmp
	var zw *gzip.Writer
	if IsCompressed(path) {
		zw = gzip.NewWriter(tmp)
		w = zw
	}
	if err = Encode(w, records); err != nil {
		return err
	}
	if zw != nil {
		if err = zw.Close(); err != nil {
			return fmt.Errorf("gzip %s: %w", path, err)
		}
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
