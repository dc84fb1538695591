// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refs

import (
	"regexp"
	"strings"

	"github.com/hamlet/thesis-engine/pkg/types"
)

// Field patterns for the heuristic extraction backend. Any backend
// satisfying the Extractor contract is substitutable; this one pulls
// per-field signals out of each bibliography-ish line with regular
// expressions.
var (
	doiRe  = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)
	urlRe  = regexp.MustCompile(`https?://[^\s<>"]+`)
	yearRe = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)
	isbnRe = regexp.MustCompile(`(?i)\bISBN[:\s]*([0-9Xx][0-9Xx\- ]{8,16}[0-9Xx])`)

	// authorRe matches a leading "Surname, I." author block, optionally
	// continued by further names.
	authorRe = regexp.MustCompile(`^((?:[A-Z][A-Za-z'\-]+,\s+[A-Z](?:\.\s?[A-Z])*\.(?:,|,? and | & )?\s*)+)`)

	// titleRe matches a quoted title span.
	titleRe = regexp.MustCompile(`["\x{201c}]([^"\x{201d}]{8,})["\x{201d}]`)

	// journalRe matches common venue lead-ins.
	journalRe = regexp.MustCompile(`\b((?:Journal|Proceedings|Transactions|Annals|Review) of [A-Z][A-Za-z &]+|IEEE [A-Z][A-Za-z ]+|Nature|Science)\b`)
)

// publishers is a closed list of imprints recognized by the publisher
// field heuristic.
var publishers = []string{
	"MIT Press", "Cambridge University Press", "Oxford University Press",
	"Springer", "Elsevier", "Wiley", "Academic Press", "McGraw-Hill",
	"Prentice Hall", "North-Holland", "Addison-Wesley", "CRC Press",
}

// HeuristicExtractor is the default reference-extraction backend. It
// treats each sufficiently long non-blank line of input as one candidate
// fragment and probes it for bibliographic fields.
type HeuristicExtractor struct{}

// minFragmentLen filters out page numbers and stray words before field
// probing.
const minFragmentLen = 20

// Extract implements Extractor.
func (HeuristicExtractor) Extract(text string) ([]types.RawReference, error) {
	var refs []types.RawReference
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minFragmentLen {
			continue
		}
		refs = append(refs, extractFields(line))
	}
	return refs, nil
}

func extractFields(line string) types.RawReference {
	ref := types.RawReference{
		types.FieldRawRef: []string{line},
	}

	set := func(field, value string) {
		if value != "" {
			ref[field] = []string{value}
		}
	}

	set(types.FieldDOI, doiRe.FindString(line))
	set(types.FieldYear, yearRe.FindString(line))

	if m := isbnRe.FindStringSubmatch(line); m != nil {
		set(types.FieldISBN, strings.ReplaceAll(strings.ReplaceAll(m[1], " ", ""), "-", ""))
	}

	// A DOI substring also matches the URL pattern when the reference
	// carries a resolver link; prefer the bare URL match regardless.
	set(types.FieldURL, urlRe.FindString(line))

	if m := authorRe.FindStringSubmatch(line); m != nil {
		set(types.FieldAuthor, strings.TrimRight(strings.TrimSpace(m[1]), ","))
	}
	if m := titleRe.FindStringSubmatch(line); m != nil {
		set(types.FieldTitle, strings.TrimSpace(m[1]))
	}
	if m := journalRe.FindStringSubmatch(line); m != nil {
		set(types.FieldJournal, m[1])
	}
	for _, pub := range publishers {
		if strings.Contains(line, pub) {
			set(types.FieldPublisher, pub)
			break
		}
	}

	return ref
}
