package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spboyer/introscore/internal/transcript"
)

// Recognized CSV columns. "transcript" or "file" must be present.
const (
	colID         = "id"
	colTranscript = "transcript"
	colDuration   = "duration"
	colFile       = "file"
)

// LoadCSV reads a CSV dataset. The first row is treated as headers (column
// names, case-insensitive); unknown columns are ignored.
func LoadCSV(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", path)
	}

	columns := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	_, hasText := columns[colTranscript]
	_, hasFile := columns[colFile]
	if !hasText && !hasFile {
		return nil, fmt.Errorf("csv: %s needs a %q or %q column", path, colTranscript, colFile)
	}

	get := func(record []string, col string) string {
		if i, ok := columns[col]; ok {
			return record[i]
		}
		return ""
	}

	items := make([]Item, 0, len(records)-1)
	for i, record := range records[1:] {
		item := Item{
			ID:         strings.TrimSpace(get(record, colID)),
			Transcript: get(record, colTranscript),
			File:       strings.TrimSpace(get(record, colFile)),
		}
		if d := strings.TrimSpace(get(record, colDuration)); d != "" {
			item.DurationSeconds, err = strconv.ParseFloat(d, 64)
			if err != nil || !transcript.ValidDuration(item.DurationSeconds) {
				return nil, fmt.Errorf("csv: row %d: invalid duration %q", i+2, d)
			}
		}
		items = append(items, item)
	}

	return items, nil
}
