// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citations persists classified references and runs the
// post-persistence cleanup passes over the citation table.
package citations

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/hamlet/thesis-engine/pkg/types"
)

// punctuation is the ASCII punctuation set used by the ratio rules.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// garbageRule deletes a citation when its match function fires. Rules
// are evaluated in order and the first match wins, so each rule only
// sees records the earlier rules kept.
type garbageRule struct {
	name  string
	match func(c types.Citation) bool
}

// garbageRules tuned against a hand-reviewed sample of the corpus. The
// ratio bounds favor precision: fragmentary but plausible citations
// survive, equation and caption debris does not.
var garbageRules = []garbageRule{
	{
		name: "punctuation-ratio",
		match: func(c types.Citation) bool {
			frac := nonPunctuationFraction(c.RawRef)
			return frac < 0.80 || frac > 0.98
		},
	},
	{
		// Fragments with almost no capitals are text debris unless they
		// carry a URL.
		name: "all-lowercase",
		match: func(c types.Citation) bool {
			return noncapitalFraction(c.RawRef) > 0.97 && !strings.Contains(c.RawRef, "http")
		},
	},
	{
		// A loose floor: all-caps author blocks are sacrificed with the
		// OCR artifacts.
		name: "excess-capitalization",
		match: func(c types.Citation) bool {
			return noncapitalFraction(c.RawRef) < 0.60
		},
	},
	{
		name: "markup-residue",
		match: func(c types.Citation) bool {
			return strings.ContainsAny(c.RawRef, "><%") && !strings.Contains(c.RawRef, "http")
		},
	},
	{
		name: "low-confidence",
		match: func(c types.Citation) bool {
			first := rune(0)
			for _, r := range c.RawRef {
				first = r
				break
			}
			if unicode.IsUpper(first) || first == '"' {
				return false
			}
			return c.NonEmptyFieldCount() < 4
		},
	},
}

// nonPunctuationFraction is the share of characters outside the ASCII
// punctuation set. Callers must not pass an empty string.
func nonPunctuationFraction(s string) float64 {
	runes := []rune(s)
	var n int
	for _, r := range runes {
		if !strings.ContainsRune(punctuation, r) {
			n++
		}
	}
	return float64(n) / float64(len(runes))
}

// noncapitalFraction is the share of characters that are not ASCII
// capital letters. Digits, spaces, and punctuation all count as
// non-capital, so ordinary prose sits near 1.0 and an initials-heavy
// citation still clears the excess-capitalization floor. Callers must
// not pass an empty string.
func noncapitalFraction(s string) float64 {
	runes := []rune(s)
	var n int
	for _, r := range runes {
		if r < 'A' || r > 'Z' {
			n++
		}
	}
	return float64(n) / float64(len(runes))
}

// CitationStore is the slice of the store the cleanup passes use.
type CitationStore interface {
	Citations() ([]types.Citation, error)
	DeleteCitation(id int64) error
	UpdateCitationRawRef(id int64, rawRef string) error
}

// CleanSummary counts one garbage-filter run.
type CleanSummary struct {
	Kept    int
	Deleted int
	ByRule  map[string]int
}

// Clean applies the garbage rules to every persisted citation and
// deletes the matches. Each deletion is reported on progress with the
// rule that fired.
func Clean(st CitationStore, progress io.Writer) (CleanSummary, error) {
	all, err := st.Citations()
	if err != nil {
		return CleanSummary{}, fmt.Errorf("loading citations: %w", err)
	}

	summary := CleanSummary{ByRule: make(map[string]int)}
	for _, c := range all {
		rule := matchGarbageRule(c)
		if rule == "" {
			summary.Kept++
			continue
		}
		if err := st.DeleteCitation(c.ID); err != nil {
			return summary, fmt.Errorf("deleting citation %d: %w", c.ID, err)
		}
		summary.Deleted++
		summary.ByRule[rule]++
		fmt.Fprintf(progress, "deleted (%s): %.60s\n", rule, c.RawRef)
	}
	return summary, nil
}

// matchGarbageRule returns the name of the first rule a citation
// matches, or "" when it survives all of them. Empty raw_ref never
// reaches here; the store rejects it at write time.
func matchGarbageRule(c types.Citation) string {
	for _, rule := range garbageRules {
		if rule.match(c) {
			return rule.name
		}
	}
	return ""
}
