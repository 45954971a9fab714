// Package storage defines the content store abstraction.
package storage

// Provider is the interface for reading posts from the content store.
// Identifiers are filename stems, not paths.
type Provider interface {
	// List returns the identifier of every post currently in the store,
	// sorted ascending. A missing store yields an empty list.
	List() ([]string, error)
	// Read returns the raw document for slug. Unknown slugs yield an
	// error wrapping apperr.ErrNotFound.
	Read(slug string) ([]byte, error)
}

// Writer is implemented by stores that accept new documents.
type Writer interface {
	// Exists reports whether slug has a document under any extension.
	Exists(slug string) (bool, error)
	Write(slug string, content []byte) error
}
