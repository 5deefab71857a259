// Package sqlite stores transcoded records in a SQLite database. Every run
// gets its own id, so one database can hold the output of several runs.
// Vectors are kept one row per token, which accommodates ragged tables.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"yase/internal/domain"
)

// Storage writes a run inside a single transaction committed on Close.
type Storage struct {
	path  string
	db    *sql.DB
	tx    *sql.Tx
	runID string
	lines int64

	insertRecord *sql.Stmt
	insertVector *sql.Stmt
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema %s: %w", path, err)
	}
	return &Storage{path: path, db: db}, nil
}

// DB exposes the underlying handle, mainly for reading results back.
func (s *Storage) DB() *sql.DB { return s.db }

// RunID returns the id assigned by Init.
func (s *Storage) RunID() string { return s.runID }

func (s *Storage) Init(run domain.RunInfo) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin %s: %w", s.path, err)
	}
	s.tx = tx
	s.runID = uuid.NewString()
	if _, err := tx.Exec(`INSERT INTO runs(id, input_path, table_path, separator) VALUES(?, ?, ?, ?)`,
		s.runID, run.InputPath, run.TablePath, run.Separator); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if s.insertRecord, err = tx.Prepare(`INSERT INTO records(run_id, line, input) VALUES(?, ?, ?)`); err != nil {
		return err
	}
	if s.insertVector, err = tx.Prepare(`INSERT INTO vectors(run_id, line, position, dim, embedding) VALUES(?, ?, ?, ?, ?)`); err != nil {
		return err
	}
	return nil
}

func (s *Storage) Append(rec domain.Record) error {
	if s.tx == nil {
		return errors.New("sqlite: Append before Init")
	}
	if _, err := s.insertRecord.Exec(s.runID, rec.Line, rec.Input); err != nil {
		return fmt.Errorf("insert record %d: %w", rec.Line, err)
	}
	for i, v := range rec.Vectors {
		if _, err := s.insertVector.Exec(s.runID, rec.Line, i, len(v), EncodeVector(v)); err != nil {
			return fmt.Errorf("insert vector %d of record %d: %w", i, rec.Line, err)
		}
	}
	s.lines++
	return nil
}

func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	var errs []error
	if s.tx != nil {
		if _, err := s.tx.Exec(`UPDATE runs SET lines = ? WHERE id = ?`, s.lines, s.runID); err != nil {
			errs = append(errs, err)
		}
		for _, st := range []*sql.Stmt{s.insertRecord, s.insertVector} {
			if st != nil {
				_ = st.Close()
			}
		}
		errs = append(errs, s.tx.Commit())
		s.tx = nil
	}
	errs = append(errs, s.db.Close())
	s.db = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close sqlite %s: %w", s.path, err)
	}
	return nil
}

// ReadRun loads the records of one run back in line order.
func ReadRun(db *sql.DB, runID string) ([]domain.Record, error) {
	rows, err := db.Query(`SELECT line, input FROM records WHERE run_id = ? ORDER BY line`, runID)
	if err != nil {
		return nil, err
	}
	var out []domain.Record
	index := make(map[int64]int)
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(&rec.Line, &rec.Input); err != nil {
			_ = rows.Close()
			return nil, err
		}
		rec.Vectors = []domain.Vector{}
		index[rec.Line] = len(out)
		out = append(out, rec)
	}
	if err := errors.Join(rows.Err(), rows.Close()); err != nil {
		return nil, err
	}

	vrows, err := db.Query(`SELECT line, embedding FROM vectors WHERE run_id = ? ORDER BY line, position`, runID)
	if err != nil {
		return nil, err
	}
	defer vrows.Close()
	for vrows.Next() {
		var line int64
		var blob []byte
		if err := vrows.Scan(&line, &blob); err != nil {
			return nil, err
		}
		vec, err := DecodeVector(blob)
		if err != nil {
			return nil, err
		}
		if vec == nil {
			vec = []float32{}
		}
		i, ok := index[line]
		if !ok {
			return nil, fmt.Errorf("sqlite: vector for unknown line %d", line)
		}
		out[i].Vectors = append(out[i].Vectors, domain.Vector(vec))
	}
	return out, vrows.Err()
}
