package domain

import "errors"

var (
	// ErrDatabaseNotFound is returned when a named database is not known to
	// the cluster.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrCollectionNotFound is returned when a collection does not exist in
	// its database.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrCollectionExists is returned by explicit collection creation when
	// the name is already taken.
	ErrCollectionExists = errors.New("collection already exists")

	// ErrDocumentNotFound is returned when no document has the given id.
	ErrDocumentNotFound = errors.New("document not found")
)
