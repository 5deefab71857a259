// Package csvfile writes transcoded records as a two-column CSV file with the
// header "inputs,vectors".
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"yase/internal/domain"
)

// Header is the first row of every output file.
var Header = []string{"inputs", "vectors"}

// Storage streams records into a CSV file.
type Storage struct {
	path string
	f    *os.File
	w    *csv.Writer
}

// Create truncates or creates the file at path.
func Create(path string) (*Storage, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	// Same line terminator as the excel dialect.
	w.UseCRLF = true
	return &Storage{path: path, f: f, w: w}, nil
}

func (s *Storage) Init(domain.RunInfo) error {
	if err := s.w.Write(Header); err != nil {
		return fmt.Errorf("write header %s: %w", s.path, err)
	}
	return nil
}

func (s *Storage) Append(rec domain.Record) error {
	if err := s.w.Write([]string{rec.Input, FormatVectors(rec.Vectors)}); err != nil {
		return fmt.Errorf("write record %d to %s: %w", rec.Line, s.path, err)
	}
	return nil
}

func (s *Storage) Close() error {
	if s.f == nil {
		return nil
	}
	s.w.Flush()
	flushErr := s.w.Error()
	closeErr := s.f.Close()
	s.f = nil
	if err := errors.Join(flushErr, closeErr); err != nil {
		return fmt.Errorf("close output %s: %w", s.path, err)
	}
	return nil
}
