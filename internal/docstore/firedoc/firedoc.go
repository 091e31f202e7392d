// Package firedoc implements the remote document store on Cloud Firestore.
// Each collection maps to a Firestore collection named
// "<prefix>_<collection>", and each key to one Firestore document.
package firedoc

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// DefaultPrefix namespaces collections when no prefix is configured.
const DefaultPrefix = "kanbaru"

// record is the stored shape of one document.
type record struct {
	Document  string    `firestore:"document"`
	UpdatedAt time.Time `firestore:"updatedAt,serverTimestamp"`
}

// Store is a types.Remote backed by a Firestore client.
type Store struct {
	client *firestore.Client
	prefix string
}

// New wraps an existing client.
func New(client *firestore.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Open initializes a Firebase app for projectID and returns a store over its
// Firestore client. An empty credentialsFile falls back to application
// default credentials; FIRESTORE_EMULATOR_HOST is honored by the client.
func Open(ctx context.Context, projectID, credentialsFile, prefix string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return New(client, prefix), nil
}

// Put creates or replaces the document under collection/key.
func (s *Store) Put(ctx context.Context, collection, key string, doc []byte) error {
	_, err := s.doc(collection, key).Set(ctx, record{Document: string(doc)})
	if err != nil {
		return fmt.Errorf("setting %s/%s: %w", collection, key, err)
	}
	return nil
}

// Get returns the document under collection/key.
func (s *Store) Get(ctx context.Context, collection, key string) ([]byte, error) {
	snap, err := s.doc(collection, key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, types.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w", collection, key, err)
	}
	var rec record
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("decoding %s/%s: %w", collection, key, err)
	}
	return []byte(rec.Document), nil
}

// Delete removes the document under collection/key. Firestore deletes of
// absent documents succeed.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	if _, err := s.doc(collection, key).Delete(ctx); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, key, err)
	}
	return nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) doc(collection, key string) *firestore.DocumentRef {
	return s.client.Collection(collectionName(s.prefix, collection)).Doc(docID(key))
}

func collectionName(prefix, collection string) string {
	return prefix + "_" + collection
}

// docID escapes '/' so a key never addresses a nested path.
func docID(key string) string {
	return url.PathEscape(key)
}
