package sqlite

import "database/sql"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id         TEXT PRIMARY KEY,
    input_path TEXT NOT NULL,
    table_path TEXT NOT NULL,
    separator  TEXT NOT NULL,
    lines      INTEGER NOT NULL DEFAULT 0,
    started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS records (
    run_id TEXT NOT NULL,
    line   INTEGER NOT NULL,
    input  TEXT NOT NULL,
    PRIMARY KEY(run_id, line)
);
CREATE TABLE IF NOT EXISTS vectors (
    run_id    TEXT NOT NULL,
    line      INTEGER NOT NULL,
    position  INTEGER NOT NULL,
    dim       INTEGER NOT NULL,
    embedding BLOB,
    PRIMARY KEY(run_id, line, position)
);
`

// EnsureSchema creates the output tables if they do not exist yet.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
