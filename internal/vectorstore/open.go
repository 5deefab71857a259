package vectorstore

import (
	"fmt"
	"path/filepath"
	"strings"

	"yase/internal/domain"
	"yase/internal/vectorstore/csvfile"
	"yase/internal/vectorstore/memory"
	"yase/internal/vectorstore/sqlite"
)

// Output formats.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

var (
	_ Storage = (*csvfile.Storage)(nil)
	_ Storage = (*sqlite.Storage)(nil)
	_ Storage = (*memory.Storage)(nil)
)

// OpenFunc creates the storage for an output path.
type OpenFunc func(format, path string) (Storage, error)

// Open creates the storage for path. An empty format is inferred from the
// file extension: .db, .sqlite and .sqlite3 select SQLite, anything else CSV.
func Open(format, path string) (Storage, error) {
	if format == "" {
		format = FormatFromPath(path)
	}
	switch strings.ToLower(format) {
	case FormatCSV:
		return csvfile.Create(path)
	case FormatSQLite:
		return sqlite.Open(path)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

// FormatFromPath guesses the output format from a file name.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatCSV
	}
}
