// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// SetList maps OAI set specs to collection names ("Department - Degree").
// The table is asserted to cover all valid thesis collections; items in
// unlisted sets are excluded even when they are genuinely theses (e.g.
// miscategorized technical reports). Known imprecision, kept table-driven.
type SetList map[string]string

// LoadSetList reads the set-spec table from a YAML resource.
func LoadSetList(path string) (SetList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading set list %s: %w", path, err)
	}
	var list SetList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing set list %s: %w", path, err)
	}
	return list, nil
}

// IsThesis reports whether any of an item's set specs appears in the
// thesis set table.
func (l SetList) IsThesis(sets []string) bool {
	for _, s := range sets {
		if _, ok := l[s]; ok {
			return true
		}
	}
	return false
}

// CollectionNames returns the distinct normalized collection names for a
// list of set specs. The department half of "Department - Degree" is
// kept; the parenthesized or dashed degree half is dropped.
func (l SetList) CollectionNames(setSpecs []string) map[string]bool {
	names := make(map[string]bool)
	for _, spec := range setSpecs {
		name, ok := l[spec]
		if !ok {
			continue
		}
		name = strings.ReplaceAll(name, " - ", "(")
		name = strings.ReplaceAll(name, " (", "(")
		names[strings.SplitN(name, "(", 2)[0]] = true
	}
	return names
}
