// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Bounded-field limits for Citation. SQLite does not enforce column
// lengths, so the store checks these before insert; an over-long value is
// a persistence conflict, logged and skipped, never a batch abort.
const (
	MaxDOILen       = 66
	MaxISBNLen      = 20
	MaxPublisherLen = 32
	MaxYearLen      = 4
)

// Citation is one persisted bibliography entry attached to a thesis.
// All fields except RawRef and ThesisID may be blank.
type Citation struct {
	ID        int64
	ThesisID  int64
	DOI       string
	Journal   string
	URL       string
	Author    string
	Title     string
	ISBN      string
	Publisher string
	Year      string
	RawRef    string
}

// OverlongField returns the name of the first bounded field whose value
// exceeds its limit, or "" if the citation fits the schema.
func (c Citation) OverlongField() string {
	switch {
	case len(c.DOI) > MaxDOILen:
		return FieldDOI
	case len(c.ISBN) > MaxISBNLen:
		return FieldISBN
	case len(c.Publisher) > MaxPublisherLen:
		return FieldPublisher
	case len(c.Year) > MaxYearLen:
		return FieldYear
	}
	return ""
}

// NonEmptyFieldCount returns how many of the citation's model fields carry
// a value. ID, ThesisID, and RawRef all count, so a stored citation always
// scores at least 3 and the garbage filter's four-field floor asks for one
// extracted field on top of those.
func (c Citation) NonEmptyFieldCount() int {
	n := 0
	if c.ID != 0 {
		n++
	}
	if c.ThesisID != 0 {
		n++
	}
	for _, v := range []string{
		c.DOI, c.Journal, c.URL, c.Author, c.Title,
		c.ISBN, c.Publisher, c.Year, c.RawRef,
	} {
		if v != "" {
			n++
		}
	}
	return n
}
