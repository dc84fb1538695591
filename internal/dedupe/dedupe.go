// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe flags person rows that may be variant name forms of
// the same human. Authors arrive as "Last, First" and advisors as
// "First Last", so one person can hold two rows. Every finder here is
// advisory: findings are printed for manual review and resolved by an
// explicit switch-contributors call, never merged automatically.
package dedupe

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/hamlet/thesis-engine/pkg/types"
)

// Finding is one name flagged for manual review.
type Finding struct {
	Name       string
	Candidates []string
}

var (
	authorLastnameRe = regexp.MustCompile(`^[\w\-']*,`)
	firstMILastRe    = regexp.MustCompile(`^([\w\-']*) [\w]\. ([\w\-']*)`)
	fiLastRe         = regexp.MustCompile(`^([\w\-']\.) ([\w\-']*)`)
	fiMiddleLastRe   = regexp.MustCompile(`^([\w\-']\.) [\w\-']* ([\w\-']*)`)
	personNameRe     = regexp.MustCompile(`^[\w\-]*\.? [\w\-]*`)
)

// AuthorAdvisorForms finds "Last, First" author rows that may also
// exist in advisor form: another row ending with the same last name and
// starting with the same first initial.
func AuthorAdvisorForms(persons []types.Person) []Finding {
	var findings []Finding
	for _, p := range persons {
		m := authorLastnameRe.FindString(p.Name)
		if m == "" {
			continue
		}
		lastname := strings.ToLower(strings.TrimSuffix(m, ","))

		rest := strings.TrimSpace(strings.SplitN(p.Name, ",", 2)[1])
		if rest == "" {
			continue
		}
		initial := strings.ToLower(rest[:1])

		var candidates []string
		for _, other := range persons {
			if other.ID == p.ID {
				continue
			}
			name := strings.ToLower(other.Name)
			if strings.HasSuffix(name, lastname) && strings.HasPrefix(name, initial) {
				candidates = append(candidates, other.Name)
			}
		}
		if len(candidates) > 0 {
			findings = append(findings, Finding{Name: p.Name, Candidates: candidates})
		}
	}
	return findings
}

// VariantSpellings finds advisor names whose initialed forms collide
// with another row: "First M. Last" vs "First Last", "F. Last" vs
// "First Last", and "F. Middle Last" vs "F... Last". The checks run in
// order and a name is flagged at most once; fixing it manually surfaces
// the other variants anyway.
func VariantSpellings(persons []types.Person) []Finding {
	byName := make(map[string]bool, len(persons))
	for _, p := range persons {
		byName[p.Name] = true
	}

	var findings []Finding
	for _, p := range persons {
		if f, ok := checkFirstMILast(p.Name, byName); ok {
			findings = append(findings, f)
			continue
		}
		if f, ok := checkInitialLast(p.Name, persons, fiLastRe); ok {
			findings = append(findings, f)
			continue
		}
		if f, ok := checkInitialLast(p.Name, persons, fiMiddleLastRe); ok {
			findings = append(findings, f)
		}
	}
	return findings
}

func checkFirstMILast(name string, byName map[string]bool) (Finding, bool) {
	m := firstMILastRe.FindStringSubmatch(name)
	if m == nil {
		return Finding{}, false
	}
	firstlast := m[1] + " " + m[2]
	if !byName[firstlast] {
		return Finding{}, false
	}
	return Finding{Name: name, Candidates: []string{firstlast}}, true
}

func checkInitialLast(name string, persons []types.Person, re *regexp.Regexp) (Finding, bool) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return Finding{}, false
	}
	initial, lastname := m[1], m[2]

	var candidates []string
	for _, other := range persons {
		if other.Name == name {
			continue
		}
		if strings.HasPrefix(other.Name, initial) && strings.HasSuffix(other.Name, lastname) {
			candidates = append(candidates, other.Name)
		}
	}
	if len(candidates) == 0 {
		return Finding{}, false
	}
	return Finding{Name: name, Candidates: candidates}, true
}

// Multiples finds rows that may hold several people at once, from XML
// fields that carried comma-separated name lists.
func Multiples(persons []types.Person) []Finding {
	var findings []Finding
	for _, p := range persons {
		names := strings.Split(p.Name, ",")
		if len(names) > 1 && namesLookLikePeople(names) {
			findings = append(findings, Finding{Name: p.Name})
		}
	}
	return findings
}

func namesLookLikePeople(names []string) bool {
	return personNameRe.MatchString(strings.TrimSpace(names[0])) &&
		personNameRe.MatchString(strings.TrimSpace(names[1]))
}

// PersonStore is the slice of the store the report reads.
type PersonStore interface {
	Persons() ([]types.Person, error)
}

// Report runs every finder and writes the findings for manual review.
func Report(st PersonStore, w io.Writer) error {
	persons, err := st.Persons()
	if err != nil {
		return fmt.Errorf("loading persons: %w", err)
	}

	sections := []struct {
		title    string
		findings []Finding
	}{
		{"author/advisor name forms", AuthorAdvisorForms(persons)},
		{"variant spellings", VariantSpellings(persons)},
		{"possible multiple names", Multiples(persons)},
	}
	for _, sec := range sections {
		fmt.Fprintf(w, "%s: %d\n", sec.title, len(sec.findings))
		for _, f := range sec.findings {
			if len(f.Candidates) > 0 {
				fmt.Fprintf(w, "  check %s (candidates: %s)\n", f.Name, strings.Join(f.Candidates, "; "))
			} else {
				fmt.Fprintf(w, "  check %s\n", f.Name)
			}
		}
	}
	return nil
}
