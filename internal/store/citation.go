// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/hamlet/thesis-engine/pkg/types"
)

// UpsertCitation stores a citation keyed by (thesis, raw_ref): if a row
// with that pair exists its extracted fields are refreshed, otherwise a
// new row is created. An over-long bounded field is rejected before the
// write so the caller can log the offending values and continue the batch.
func (s *Store) UpsertCitation(c types.Citation) (types.Citation, bool, error) {
	if c.RawRef == "" {
		return types.Citation{}, false, fmt.Errorf("citation for thesis %d has empty raw_ref", c.ThesisID)
	}
	if field := c.OverlongField(); field != "" {
		return types.Citation{}, false, fmt.Errorf("citation field %s too long (%q)", field, c.RawRef)
	}

	var existingID int64
	err := s.db.QueryRow(
		`SELECT id FROM citations WHERE thesis_id = ? AND raw_ref = ?`,
		c.ThesisID, c.RawRef).Scan(&existingID)

	switch {
	case err == nil:
		_, err = s.db.Exec(
			`UPDATE citations SET doi=?, journal=?, url=?, author=?, title=?, isbn=?, publisher=?, year=?
			 WHERE id = ?`,
			c.DOI, c.Journal, c.URL, c.Author, c.Title, c.ISBN, c.Publisher, c.Year, existingID)
		if err != nil {
			return types.Citation{}, false, fmt.Errorf("updating citation %d: %w", existingID, err)
		}
		c.ID = existingID
		return c, false, nil

	case errors.Is(err, sql.ErrNoRows):
		res, err := s.db.Exec(
			`INSERT INTO citations (thesis_id, doi, journal, url, author, title, isbn, publisher, year, raw_ref)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ThesisID, c.DOI, c.Journal, c.URL, c.Author, c.Title, c.ISBN, c.Publisher, c.Year, c.RawRef)
		if err != nil {
			return types.Citation{}, false, fmt.Errorf("inserting citation: %w", err)
		}
		c.ID, _ = res.LastInsertId()
		return c, true, nil

	default:
		return types.Citation{}, false, fmt.Errorf("looking up citation: %w", err)
	}
}

// Citations returns all citations ordered by raw_ref, the display order.
func (s *Store) Citations() ([]types.Citation, error) {
	rows, err := s.db.Query(
		`SELECT id, thesis_id, doi, journal, url, author, title, isbn, publisher, year, raw_ref
		 FROM citations ORDER BY raw_ref`)
	if err != nil {
		return nil, fmt.Errorf("listing citations: %w", err)
	}
	defer rows.Close()
	return scanCitations(rows)
}

// CitationsByThesis returns one thesis's citations ordered by raw_ref.
func (s *Store) CitationsByThesis(thesisID int64) ([]types.Citation, error) {
	rows, err := s.db.Query(
		`SELECT id, thesis_id, doi, journal, url, author, title, isbn, publisher, year, raw_ref
		 FROM citations WHERE thesis_id = ? ORDER BY raw_ref`, thesisID)
	if err != nil {
		return nil, fmt.Errorf("listing citations for thesis %d: %w", thesisID, err)
	}
	defer rows.Close()
	return scanCitations(rows)
}

// DeleteCitation removes one citation row.
func (s *Store) DeleteCitation(id int64) error {
	_, err := s.db.Exec(`DELETE FROM citations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting citation %d: %w", id, err)
	}
	return nil
}

// UpdateCitationRawRef rewrites a citation's raw_ref, used by the
// reference-number cleanup pass.
func (s *Store) UpdateCitationRawRef(id int64, rawRef string) error {
	_, err := s.db.Exec(`UPDATE citations SET raw_ref = ? WHERE id = ?`, rawRef, id)
	if err != nil {
		return fmt.Errorf("updating citation %d: %w", id, err)
	}
	return nil
}

// CitationCount returns the number of stored citations.
func (s *Store) CitationCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT count(*) FROM citations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting citations: %w", err)
	}
	return n, nil
}

func scanCitations(rows *sql.Rows) ([]types.Citation, error) {
	var out []types.Citation
	for rows.Next() {
		var c types.Citation
		if err := rows.Scan(&c.ID, &c.ThesisID, &c.DOI, &c.Journal, &c.URL,
			&c.Author, &c.Title, &c.ISBN, &c.Publisher, &c.Year, &c.RawRef); err != nil {
			return nil, fmt.Errorf("scanning citation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
