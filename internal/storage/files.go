package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"eolgames/internal"
)

const CombinedSuffix = "_all.json"

// WriteConsoleDataset writes <outDir>/<console>/{licensed,unreleased}.json,
// the special file when it has records (removing a stale one otherwise),
// and <console>_all.json with the combined set. It returns the written
// paths.
func WriteConsoleDataset(outDir string, ds internal.ConsoleDataset) ([]string, error) {
	dir := filepath.Join(outDir, ds.Console)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	for _, c := range internal.Categories {
		records := ds.Records(c)
		path := filepath.Join(dir, ds.FileStem(c)+".json")
		if c == internal.CategorySpecial && len(records) == 0 {
			// a special list from an earlier run must not outlive its table
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return written, err
			}
			continue
		}
		if err := WriteRecords(path, records); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	path := filepath.Join(dir, ds.Console+CombinedSuffix)
	if err := WriteRecords(path, ds.Combined); err != nil {
		return written, err
	}
	return append(written, path), nil
}

func WriteRecords(path string, records []internal.GameRecord) error {
	if records == nil {
		records = []internal.GameRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func ReadRecords(path string) ([]internal.GameRecord, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []internal.GameRecord
	if err := json.Unmarshal(blob, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// LoadCombined reads every <console>_all.json under dir, keyed by console.
// A missing dir yields an empty map.
func LoadCombined(dir string) (map[string][]internal.GameRecord, error) {
	out := map[string][]internal.GameRecord{}
	err := filepath.WalkDir(dir, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), CombinedSuffix) {
			return nil
		}
		records, err := ReadRecords(path)
		if err != nil {
			return err
		}
		out[strings.TrimSuffix(e.Name(), CombinedSuffix)] = records
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListJSONFiles returns every .json file under dir in lexical order.
func ListJSONFiles(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}
