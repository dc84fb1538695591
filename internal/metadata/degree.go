// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"regexp"
	"strings"
)

// Degrees is the controlled vocabulary of degree abbreviations awarded by
// the institution. Candidates that normalize to nothing on this list are
// discarded.
var Degrees = []string{
	"B.Arch.", "B.C.P.", "B.S.", "C.P.H.", "Chem.E.", "Civ.E.",
	"E.A.A.", "Elec.E.", "Env.E.", "M.Arch.", "M.Arch.A.S.",
	"M.B.A.", "M.C.P.", "M.Eng.", "M.Fin.", "M.S.", "M.S.V.S.",
	"Mat.Eng.", "Nav.Arch.", "Mech.E.", "Nav.E.", "Nucl.E.",
	"Ocean.E.", "Ph.D.", "S.B.", "S.M.", "S.M.M.O.T.", "Sc.D.",
}

// degreeRepls rewrites noisy abbreviation variants before vocabulary
// matching. Applied in order.
var degreeRepls = [][2]string{
	{"E.E", "Elec.E"},
	{"Elect.E", "Elec.E"},
	{"OceanE", "Ocean.E"},
	{"M.ArchAS", "M.Arch.A.S"},
	{"PhD", "Ph.D"},
	{"ScD", "Sc.D"},
}

// DegreeOptions are the coarse degree names used in collection set names
// of the form "Department - Degree".
var DegreeOptions = []string{
	"Bachelor's degree",
	"Engineer's degree",
	"Master's degree",
	"Ph.D. / Sc.D.",
}

// degreeRe picks abbreviation-shaped substrings out of free-text degree
// statements, tolerating OCR artifacts like "S. M." for "S.M.".
var degreeRe = regexp.MustCompile(`[A-Z][a-z]{0,4}\.? ?[A-Z][a-z]{0,3}\.?[A-Z]?\.?[A-Z]?\.?[A-Z]?\.?`)

var degreeSet = func() map[string]bool {
	m := make(map[string]bool, len(Degrees))
	for _, d := range Degrees {
		m[d] = true
	}
	return m
}()

// ExtractDegrees finds controlled-vocabulary degrees in a free-text
// degree statement. Candidates are de-spaced, period-normalized, and run
// through the variant replacements before matching; non-matching
// candidates are dropped. Returns nil when nothing matches, an ordinary
// outcome for non-thesis objects, not an error.
func ExtractDegrees(statement string) []string {
	var result []string
	for _, cand := range degreeRe.FindAllString(statement, -1) {
		c := strings.ReplaceAll(cand, " ", "")
		c = strings.TrimRight(c, ".")
		for _, repl := range degreeRepls {
			c = strings.ReplaceAll(c, repl[0], repl[1])
		}
		c += "."
		if degreeSet[c] {
			result = append(result, c)
		}
	}
	return result
}

// DegreeFromSets recovers the coarse degree from a thesis collection set
// name of the form "Department - Degree". Easier than parsing metadata
// but doesn't always work; callers fall back to note scanning.
func DegreeFromSets(itemSets []string, setList SetList) string {
	for _, spec := range itemSets {
		name, ok := setList[spec]
		if !ok {
			continue
		}
		parts := strings.SplitN(name, "-", 2)
		if len(parts) < 2 {
			continue
		}
		candidate := strings.TrimSpace(parts[1])
		for _, opt := range DegreeOptions {
			if candidate == opt {
				return candidate
			}
		}
	}
	return ""
}
