// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"
)

// The harvested records arrive in two schemas: a METS document carrying
// structural metadata (title, degree notes, file locations) and an
// RDF/Dublin-Core-ish document carrying descriptive metadata (creators,
// contributors, dates, identifiers). Namespace prefixes vary between
// records, so extraction matches on local element names within a generic
// node tree rather than on fixed struct tags.

type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
	Text     string     `xml:",chardata"`
}

func parseXML(doc string) (*xmlNode, error) {
	var root xmlNode
	if err := xml.Unmarshal([]byte(doc), &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// findAll returns every descendant element with the given local name, in
// document order.
func (n *xmlNode) findAll(local string) []*xmlNode {
	var out []*xmlNode
	for i := range n.Children {
		child := &n.Children[i]
		if child.XMLName.Local == local {
			out = append(out, child)
		}
		out = append(out, child.findAll(local)...)
	}
	return out
}

// texts returns the trimmed text of every matching descendant, skipping
// empty elements.
func (n *xmlNode) texts(local string) []string {
	var out []string
	for _, el := range n.findAll(local) {
		if t := strings.TrimSpace(el.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (n *xmlNode) attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

var (
	yearOnlyRe = regexp.MustCompile(`^[0-9]{4}$`)
	handleRe   = regexp.MustCompile(`^https?://hdl\.handle\.net/1721\.1/([0-9]+)`)
)

// extractContributors partitions dc:contributor elements into advisors
// and departments. Any mention of the institution or "Dept"/"Department"
// marks a department; everything else is an advisor.
func extractContributors(dc *xmlNode) (advisors, departments []string) {
	for _, text := range dc.texts("contributor") {
		if strings.Contains(text, "Massachusetts Institute") ||
			strings.Contains(text, "Dept") ||
			strings.Contains(text, "Department") {
			departments = append(departments, text)
		} else {
			advisors = append(advisors, text)
		}
	}
	return advisors, departments
}

// extractYear finds the earliest four-digit year among the dc:date
// elements: the copyright year. Accession and processing dates are
// usually later, sometimes by decades, so the minimum matters, not the
// first. Returns 0 when no date qualifies.
func extractYear(dc *xmlNode) int {
	earliest := 0
	for _, text := range dc.texts("date") {
		if !yearOnlyRe.MatchString(text) {
			continue
		}
		year, _ := strconv.Atoi(text)
		if earliest == 0 || year < earliest {
			earliest = year
		}
	}
	return earliest
}

// extractIdentifier returns the numeric suffix of the first dc:identifier
// that looks like a handle URL, or 0 if none does.
func extractIdentifier(dc *xmlNode) int {
	for _, text := range dc.texts("identifier") {
		if m := handleRe.FindStringSubmatch(text); m != nil {
			id, _ := strconv.Atoi(m[1])
			return id
		}
	}
	return 0
}

func extractTitle(mets *xmlNode) string {
	titles := mets.texts("title")
	if len(titles) == 0 {
		return ""
	}
	return titles[0]
}

// extractPDFURL finds the download location of the PDF representation:
// the href of the FLocat child of the file element with a PDF mimetype,
// forced to https. At least one withdrawn thesis has a handle but no
// document; that yields "".
func extractPDFURL(mets *xmlNode) string {
	for _, file := range mets.findAll("file") {
		if file.attr("MIMETYPE") != "application/pdf" {
			continue
		}
		for i := range file.Children {
			if url := file.Children[i].attr("href"); url != "" {
				return strings.Replace(url, "http://", "https://", 1)
			}
		}
	}
	return ""
}

// extractDegree prefers the collection-set lookup and falls back to
// scanning mods:note elements for degree statements.
func extractDegree(mets *xmlNode, itemSets []string, setList SetList) string {
	if degree := DegreeFromSets(itemSets, setList); degree != "" {
		return degree
	}

	for _, note := range mets.texts("note") {
		if !strings.HasPrefix(note, "Thesis") && !strings.HasPrefix(note, institutionName) {
			continue
		}
		if degrees := ExtractDegrees(note); len(degrees) > 0 {
			return degrees[0]
		}
	}
	return ""
}
