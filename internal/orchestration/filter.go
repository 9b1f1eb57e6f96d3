package orchestration

import (
	"fmt"
	"path/filepath"

	"github.com/spboyer/introscore/internal/dataset"
)

// FilterItems returns the subset of items whose ID matches at least one of
// the given glob patterns. An empty patterns slice returns all items unchanged.
func FilterItems(items []dataset.Item, patterns []string) ([]dataset.Item, error) {
	if len(patterns) == 0 {
		return items, nil
	}

	var matched []dataset.Item
	for _, it := range items {
		ok, err := matchesAny(it.ID, patterns)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, it)
		}
	}
	return matched, nil
}

// matchesAny reports whether id matches any pattern.
func matchesAny(id string, patterns []string) (bool, error) {
	for _, p := range patterns {
		ok, err := filepath.Match(p, id)
		if err != nil {
			return false, fmt.Errorf("invalid item filter pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
