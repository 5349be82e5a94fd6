package store

import "fmt"

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ValidBackends are the allowed storage backends.
var ValidBackends = map[string]bool{
	BackendFile:   true,
	BackendSQLite: true,
}

// Open returns the named backend. location is a directory for the file
// backend and a database path for sqlite.
func Open(backend, location string) (BlobStore, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(location)
	case BackendSQLite:
		return NewSQLiteStore(location)
	}
	return nil, fmt.Errorf("unknown backend %q (valid: file, sqlite)", backend)
}
