// Package dataset loads the transcripts of a batch run from CSV or YAML.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spboyer/introscore/internal/transcript"
	"github.com/spboyer/introscore/internal/validation"
	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned when a dataset has no items.
var ErrEmpty = errors.New("dataset has no items")

// Item is one transcript to score.
type Item struct {
	ID              string  `yaml:"id"`
	Transcript      string  `yaml:"transcript"`
	DurationSeconds float64 `yaml:"duration"`
	// File is a transcript file, relative to the dataset file. It is read
	// when Transcript is empty.
	File string `yaml:"file,omitempty"`
}

type yamlDataset struct {
	Items []Item `yaml:"items"`
}

// Load reads a dataset, choosing the format by file extension
// (.csv, .yaml, .yml). File references are resolved and IDs defaulted.
func Load(path string) ([]Item, error) {
	var (
		items []Item
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		items, err = LoadCSV(path)
	case ".yaml", ".yml":
		items, err = LoadYAML(path)
	default:
		return nil, fmt.Errorf("dataset: unsupported format %q (want .csv, .yaml or .yml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("dataset: %s: %w", path, ErrEmpty)
	}
	return resolve(filepath.Dir(path), items)
}

// LoadYAML reads a YAML dataset with a top-level "items" list.
func LoadYAML(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("yaml: open %s: %w", path, err)
	}

	var ds yamlDataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("yaml: parse %s: %w", path, err)
	}
	// .nan and .inf decode fine but cannot be checked against the schema.
	for i, it := range ds.Items {
		if !transcript.ValidDuration(it.DurationSeconds) {
			return nil, fmt.Errorf("yaml: %s: item %d: invalid duration %v", path, i+1, it.DurationSeconds)
		}
	}
	if err := validation.Error(validation.ValidateDatasetBytes(data)); err != nil {
		return nil, fmt.Errorf("yaml: %s: %w", path, err)
	}
	return ds.Items, nil
}

// Range returns items in the given range [start, end] (1-based, inclusive),
// clamped to the available items.
func Range(items []Item, start, end int) ([]Item, error) {
	if start < 1 {
		return nil, fmt.Errorf("range start must be >= 1, got %d", start)
	}
	if end < start {
		return nil, fmt.Errorf("range end (%d) must be >= start (%d)", end, start)
	}
	if start > len(items) {
		return []Item{}, nil
	}
	return items[start-1 : min(end, len(items))], nil
}

func resolve(baseDir string, items []Item) ([]Item, error) {
	out := make([]Item, len(items))
	for i, it := range items {
		if it.ID == "" {
			it.ID = "item-" + strconv.Itoa(i+1)
		}
		if it.Transcript == "" && it.File != "" {
			p := it.File
			if !filepath.IsAbs(p) {
				p = filepath.Join(baseDir, p)
			}
			text, err := transcript.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("item %s: %w", it.ID, err)
			}
			it.Transcript = text
		}
		out[i] = it
	}
	return out, nil
}
