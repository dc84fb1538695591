// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata parses harvested thesis XML and normalizes its fields.
// See docs/ARCHITECTURE § Metadata Ingest.
package metadata

import (
	"strings"
	"unicode"
)

// institutionName appears throughout the source metadata, glued onto
// names, departments, and degree statements.
const institutionName = "Massachusetts Institute of Technology"

// specialCaseNames fixes specific authors with wonky metadata not captured
// by the other rules. Hand-curated against the production corpus; entries
// are exact-match replacements applied before any general cleaning.
var specialCaseNames = strings.NewReplacer(
	"Ren, Xiaoyuan, S.M. (Xiaoyuan Charlene) Massachusetts Institute of Technology",
	"Ren, Xiaoyuan (Xiaoyuan Charlene)",
	"Stanford, Joseph, S.M. (Joseph Marsh) Massachusetts Institute of Technology",
	"Stanford, Joseph (Joseph Marsh)",
	"Wang, Zhiyong, S.M. Massachusetts Institute of Technology. Engineering Systems Division",
	"Wang, Zhiyong",
	"Williams, Christina M., M.B.A. (Christina Marie). Massachusetts Institute of Technology",
	"Williams, Christina M. (Christina Marie)",
	"Lu, Xin. Ph. D. Massachusetts Institute of Technology. Department of Materials Science and Engineering",
	"Lu, Xin",
	"Rodriguez, Miguel A. (Miguel Angel), M.C.P. Massachusetts Institute of Technology",
	"Rodriguez, Miguel A. (Miguel Angel)",
)

// degreeSuffixes are stripped from name strings. Order matters only in
// that the bare institution name must come last, after the qualified
// variants have had their chance.
var degreeSuffixes = []string{
	", S.M. " + institutionName,
	", M. Eng. " + institutionName,
	", Ph. D. " + institutionName,
	", Nav.E. " + institutionName,
	", Nav. E. " + institutionName,
	", M.B.A. " + institutionName,
	", " + institutionName,
	" " + institutionName,
}

// CleanPersonNames extracts a list of personal names out of a raw
// metadata string. A single field sometimes carries several people joined
// by " and ", and most carry degree-statement debris.
func CleanPersonNames(namestring string) []string {
	namestring = specialCaseNames.Replace(namestring)

	names := strings.Split(namestring, " and ")

	for _, suffix := range degreeSuffixes {
		for i, name := range names {
			names[i] = strings.ReplaceAll(name, suffix, "")
		}
	}

	for i, name := range names {
		names[i] = stripTrailingPeriod(strings.TrimSpace(name))
	}
	return names
}

// stripTrailingPeriod removes a trailing period unless it terminates an
// initial ("Smith, John A.") or a "Jr." suffix.
func stripTrailingPeriod(name string) string {
	if !strings.HasSuffix(name, ".") {
		return name
	}
	trimmed := strings.TrimSuffix(name, ".")
	last := trimmed
	if idx := strings.LastIndexAny(trimmed, " "); idx >= 0 {
		last = trimmed[idx+1:]
	}
	if last == "Jr" {
		return name
	}
	runes := []rune(last)
	if len(runes) == 1 && unicode.IsUpper(runes[0]) {
		return name
	}
	return strings.TrimSpace(trimmed)
}

// CleanDepartment normalizes a raw department string to its long form,
// e.g. "Massachusetts Institute of Technology. Dept. of Mathematics" to
// "Department of Mathematics".
func CleanDepartment(deptstring string) string {
	deptstring = strings.ReplaceAll(deptstring, institutionName+".", "")
	deptstring = strings.ReplaceAll(deptstring, "Dept. of", "Department of")
	deptstring = strings.TrimSpace(deptstring)
	return strings.TrimRight(deptstring, ".")
}
