// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/hamlet/thesis-engine/pkg/types"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// CreateThesis inserts a new thesis and returns it with ID set. The
// identifier is unique; inserting a duplicate returns an error the caller
// should treat as a persistence conflict (log and move on).
func (s *Store) CreateThesis(t types.Thesis) (types.Thesis, error) {
	vec, err := encodeVector(t.Vector)
	if err != nil {
		return types.Thesis{}, err
	}
	res, err := s.db.Exec(
		`INSERT INTO theses (title, year, identifier, degree, url, unextractable, vector)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Year, t.Identifier, t.Degree, t.URL, t.Unextractable, vec,
	)
	if err != nil {
		return types.Thesis{}, fmt.Errorf("inserting thesis %d: %w", t.Identifier, err)
	}
	t.ID, _ = res.LastInsertId()
	return t, nil
}

// ThesisByIdentifier fetches a thesis by its repository identifier.
// Returns ErrNotFound if no such thesis exists.
func (s *Store) ThesisByIdentifier(identifier int) (types.Thesis, error) {
	row := s.db.QueryRow(
		`SELECT id, title, year, identifier, degree, url, unextractable, vector
		 FROM theses WHERE identifier = ?`, identifier)
	return scanThesis(row)
}

// ThesisExists reports whether a thesis with the identifier is already
// stored. Used for idempotent metadata writes.
func (s *Store) ThesisExists(identifier int) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT count(*) FROM theses WHERE identifier = ?`, identifier).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking thesis %d: %w", identifier, err)
	}
	return n > 0, nil
}

// MarkUnextractable sets the unextractable flag. The flag is set exactly
// once, when text extraction fails, and never reset.
func (s *Store) MarkUnextractable(identifier int) error {
	_, err := s.db.Exec(
		`UPDATE theses SET unextractable = 1 WHERE identifier = ?`, identifier)
	if err != nil {
		return fmt.Errorf("marking thesis %d unextractable: %w", identifier, err)
	}
	return nil
}

// SetVector caches an inferred document vector on the thesis.
func (s *Store) SetVector(identifier int, v []float32) error {
	vec, err := encodeVector(v)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`UPDATE theses SET vector = ? WHERE identifier = ?`, vec, identifier)
	if err != nil {
		return fmt.Errorf("storing vector for thesis %d: %w", identifier, err)
	}
	return nil
}

// ExtractableTheses returns all theses whose text extraction has not
// failed, in identifier order. These form the candidate training corpus.
func (s *Store) ExtractableTheses() ([]types.Thesis, error) {
	rows, err := s.db.Query(
		`SELECT id, title, year, identifier, degree, url, unextractable, vector
		 FROM theses WHERE unextractable = 0 ORDER BY identifier`)
	if err != nil {
		return nil, fmt.Errorf("listing theses: %w", err)
	}
	defer rows.Close()
	return scanTheses(rows)
}

// ThesesByIdentifiers fetches the theses whose identifiers appear in ids,
// in identifier order. Unknown identifiers are skipped.
func (s *Store) ThesesByIdentifiers(ids []int) ([]types.Thesis, error) {
	var out []types.Thesis
	for _, id := range ids {
		t, err := s.ThesisByIdentifier(id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ThesesByAdvisor returns the theses a person advised, in identifier order.
func (s *Store) ThesesByAdvisor(personID int64) ([]types.Thesis, error) {
	rows, err := s.db.Query(
		`SELECT t.id, t.title, t.year, t.identifier, t.degree, t.url, t.unextractable, t.vector
		 FROM theses t
		 JOIN contributions c ON c.thesis_id = t.id
		 WHERE c.person_id = ? AND c.role = ?
		 ORDER BY t.identifier`, personID, types.RoleAdvisor)
	if err != nil {
		return nil, fmt.Errorf("listing advised theses: %w", err)
	}
	defer rows.Close()
	return scanTheses(rows)
}

func scanThesis(row *sql.Row) (types.Thesis, error) {
	var t types.Thesis
	var vec []byte
	err := row.Scan(&t.ID, &t.Title, &t.Year, &t.Identifier, &t.Degree, &t.URL, &t.Unextractable, &vec)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Thesis{}, ErrNotFound
	}
	if err != nil {
		return types.Thesis{}, fmt.Errorf("scanning thesis: %w", err)
	}
	if t.Vector, err = decodeVector(vec); err != nil {
		return types.Thesis{}, err
	}
	return t, nil
}

func scanTheses(rows *sql.Rows) ([]types.Thesis, error) {
	var out []types.Thesis
	for rows.Next() {
		var t types.Thesis
		var vec []byte
		if err := rows.Scan(&t.ID, &t.Title, &t.Year, &t.Identifier, &t.Degree, &t.URL, &t.Unextractable, &vec); err != nil {
			return nil, fmt.Errorf("scanning thesis: %w", err)
		}
		var err error
		if t.Vector, err = decodeVector(vec); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
