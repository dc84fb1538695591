// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists theses, people, departments, contributions, and
// citations in SQLite. See docs/ARCHITECTURE § Persistence.
package store

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hamlet/thesis-engine/pkg/types"
)

// Store wraps the SQLite database. All methods are safe for sequential
// use; the pipelines are single-writer, and the read-then-write existence
// checks (person, department, contribution) accept a benign duplicate-row
// risk rather than taking locks.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at cfg.DBPath and ensures the schema
// exists.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = "theses.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS theses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			year INTEGER NOT NULL,
			identifier INTEGER NOT NULL UNIQUE,
			degree TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			unextractable INTEGER NOT NULL DEFAULT 0,
			vector BLOB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_theses_identifier ON theses(identifier)`,
		`CREATE TABLE IF NOT EXISTS persons (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_persons_name ON persons(name)`,
		`CREATE TABLE IF NOT EXISTS departments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			course TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS contributions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			thesis_id INTEGER NOT NULL REFERENCES theses(id) ON DELETE CASCADE,
			person_id INTEGER NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
			role TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contributions_thesis ON contributions(thesis_id)`,
		`CREATE INDEX IF NOT EXISTS idx_contributions_person ON contributions(person_id)`,
		`CREATE TABLE IF NOT EXISTS thesis_departments (
			thesis_id INTEGER NOT NULL REFERENCES theses(id) ON DELETE CASCADE,
			department_id INTEGER NOT NULL REFERENCES departments(id) ON DELETE CASCADE,
			PRIMARY KEY (thesis_id, department_id)
		)`,
		`CREATE TABLE IF NOT EXISTS citations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			thesis_id INTEGER NOT NULL REFERENCES theses(id) ON DELETE CASCADE,
			doi TEXT NOT NULL DEFAULT '',
			journal TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			isbn TEXT NOT NULL DEFAULT '',
			publisher TEXT NOT NULL DEFAULT '',
			year TEXT NOT NULL DEFAULT '',
			raw_ref TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_thesis ON citations(thesis_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// encodeVector serializes an inferred document vector for BLOB storage.
// The encoding is internal; it only needs to round-trip through this
// store version.
func encodeVector(v []float32) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encoding vector: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v []float32
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding vector: %w", err)
	}
	return v, nil
}
