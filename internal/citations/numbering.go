// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citations

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// numberingRes match the leading reference-number styles seen in
// bibliographies. Order matters: the bracketed form with a trailing
// period must be tried before the bare bracketed form.
var numberingRes = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\. `),
	regexp.MustCompile(`^\[\d+\]\.`),
	regexp.MustCompile(`^\[\d+\]`),
}

// StripNumbering removes a leading reference number from one raw_ref,
// returning the input unchanged when no numbering style matches.
func StripNumbering(rawRef string) string {
	for _, re := range numberingRes {
		if loc := re.FindStringIndex(rawRef); loc != nil {
			return strings.TrimLeft(rawRef[loc[1]:], " ")
		}
	}
	return rawRef
}

// NumberingSummary counts one numbering-strip run.
type NumberingSummary struct {
	Updated   int
	Unchanged int
}

// StripAllNumbering rewrites every persisted citation whose raw_ref
// starts with a reference number. Already-clean rows are left alone.
func StripAllNumbering(st CitationStore, progress io.Writer) (NumberingSummary, error) {
	all, err := st.Citations()
	if err != nil {
		return NumberingSummary{}, fmt.Errorf("loading citations: %w", err)
	}

	var summary NumberingSummary
	for _, c := range all {
		stripped := StripNumbering(c.RawRef)
		if stripped == c.RawRef {
			summary.Unchanged++
			continue
		}
		if err := st.UpdateCitationRawRef(c.ID, stripped); err != nil {
			return summary, fmt.Errorf("updating citation %d: %w", c.ID, err)
		}
		summary.Updated++
		fmt.Fprintf(progress, "renumbered: %.60s\n", stripped)
	}
	return summary, nil
}
