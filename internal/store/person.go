// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/hamlet/thesis-engine/pkg/types"
)

// GetOrCreatePerson fetches the person with the normalized name, creating
// one if absent. Name strings are the only key; distinct people sharing a
// name collapse into one record.
func (s *Store) GetOrCreatePerson(name string) (types.Person, error) {
	var p types.Person
	err := s.db.QueryRow(
		`SELECT id, name FROM persons WHERE name = ?`, name).Scan(&p.ID, &p.Name)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return types.Person{}, fmt.Errorf("looking up person %q: %w", name, err)
	}

	res, err := s.db.Exec(`INSERT INTO persons (name) VALUES (?)`, name)
	if err != nil {
		return types.Person{}, fmt.Errorf("inserting person %q: %w", name, err)
	}
	id, _ := res.LastInsertId()
	return types.Person{ID: id, Name: name}, nil
}

// Persons returns all people ordered by name.
func (s *Store) Persons() ([]types.Person, error) {
	rows, err := s.db.Query(`SELECT id, name FROM persons ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing persons: %w", err)
	}
	defer rows.Close()

	var out []types.Person
	for rows.Next() {
		var p types.Person
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetOrCreateDepartment fetches the department by normalized name,
// creating one if absent. Course numbers are assigned by hand later.
func (s *Store) GetOrCreateDepartment(name string) (types.Department, error) {
	var d types.Department
	err := s.db.QueryRow(
		`SELECT id, name, course FROM departments WHERE name = ?`, name).
		Scan(&d.ID, &d.Name, &d.Course)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return types.Department{}, fmt.Errorf("looking up department %q: %w", name, err)
	}

	res, err := s.db.Exec(`INSERT INTO departments (name) VALUES (?)`, name)
	if err != nil {
		return types.Department{}, fmt.Errorf("inserting department %q: %w", name, err)
	}
	id, _ := res.LastInsertId()
	return types.Department{ID: id, Name: name}, nil
}

// AddContribution links a person to a thesis in a role. The (thesis,
// person, role) triple is checked before insert so re-ingesting the same
// metadata adds nothing; the check is not a uniqueness constraint.
func (s *Store) AddContribution(thesisID, personID int64, role types.Role) error {
	var n int
	err := s.db.QueryRow(
		`SELECT count(*) FROM contributions WHERE thesis_id = ? AND person_id = ? AND role = ?`,
		thesisID, personID, role).Scan(&n)
	if err != nil {
		return fmt.Errorf("checking contribution: %w", err)
	}
	if n > 0 {
		return nil
	}

	_, err = s.db.Exec(
		`INSERT INTO contributions (thesis_id, person_id, role) VALUES (?, ?, ?)`,
		thesisID, personID, role)
	if err != nil {
		return fmt.Errorf("inserting contribution: %w", err)
	}
	return nil
}

// AddThesisDepartment links a thesis to a department, idempotently.
func (s *Store) AddThesisDepartment(thesisID, departmentID int64) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO thesis_departments (thesis_id, department_id) VALUES (?, ?)`,
		thesisID, departmentID)
	if err != nil {
		return fmt.Errorf("linking thesis %d to department %d: %w", thesisID, departmentID, err)
	}
	return nil
}

// Contributors returns the people linked to a thesis in the given role,
// ordered by name.
func (s *Store) Contributors(thesisID int64, role types.Role) ([]types.Person, error) {
	rows, err := s.db.Query(
		`SELECT p.id, p.name FROM persons p
		 JOIN contributions c ON c.person_id = p.id
		 WHERE c.thesis_id = ? AND c.role = ?
		 ORDER BY p.name`, thesisID, role)
	if err != nil {
		return nil, fmt.Errorf("listing contributors: %w", err)
	}
	defer rows.Close()

	var out []types.Person
	for rows.Next() {
		var p types.Person
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scanning contributor: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AdvisorsWithMinTheses returns advisors who advised at least n theses,
// ordered by name. The evaluator uses n=2 to form same-advisor pairs.
func (s *Store) AdvisorsWithMinTheses(n int) ([]types.Person, error) {
	rows, err := s.db.Query(
		`SELECT p.id, p.name FROM persons p
		 JOIN contributions c ON c.person_id = p.id
		 WHERE c.role = ?
		 GROUP BY p.id, p.name
		 HAVING count(DISTINCT c.thesis_id) >= ?
		 ORDER BY p.name`, types.RoleAdvisor, n)
	if err != nil {
		return nil, fmt.Errorf("listing advisors: %w", err)
	}
	defer rows.Close()

	var out []types.Person
	for rows.Next() {
		var p types.Person
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scanning advisor: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SwitchContributors re-points every contribution from old to new and
// deletes the old person. A manual-review tool for reconciling variant
// name spellings; never run automatically.
func (s *Store) SwitchContributors(oldID, newID int64) error {
	if oldID == newID {
		return fmt.Errorf("switch contributors: old and new are both %d", oldID)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE contributions SET person_id = ? WHERE person_id = ?`, newID, oldID); err != nil {
		return fmt.Errorf("re-pointing contributions: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM persons WHERE id = ?`, oldID)
	if err != nil {
		return fmt.Errorf("deleting person %d: %w", oldID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("person %d: %w", oldID, ErrNotFound)
	}

	return tx.Commit()
}
