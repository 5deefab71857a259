package vectorstore

import "yase/internal/domain"

// Storage receives transcoded records in input order.
type Storage interface {
	// Init is called once before the first record.
	Init(run domain.RunInfo) error
	// Append persists one record.
	Append(rec domain.Record) error
	// Close flushes and releases the storage. It is safe to call after a
	// failed Append; whatever was written so far is kept.
	Close() error
}
