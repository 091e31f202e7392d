package types

import "context"

// Remote is a keyed document store. Documents are opaque bytes grouped into
// collections; the store and auth packages decide what goes in them.
type Remote interface {
	// Put creates or replaces the document under collection/key.
	Put(ctx context.Context, collection, key string, doc []byte) error

	// Get returns the document under collection/key.
	// Returns ErrDocumentNotFound if no document exists.
	Get(ctx context.Context, collection, key string) ([]byte, error)

	// Delete removes the document under collection/key. Deleting an absent
	// document succeeds.
	Delete(ctx context.Context, collection, key string) error

	// Close releases backend resources.
	Close() error
}

// Standard collection names.
const (
	CollectionBoards   = "boards"
	CollectionAccounts = "accounts"
)

// StandardCollections lists all standard collections for enumeration.
var StandardCollections = []string{
	CollectionBoards,
	CollectionAccounts,
}
