// Package tablesdoc implements the remote document store on Azure Table
// Storage. The partition key is the collection and the row key is the
// escaped document key. A document is spread over several string
// properties because a single property holds at most 64 KiB.
package tablesdoc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/bytedance/sonic"

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

const (
	// chunkBytes bounds one property. Table strings are UTF-16, so 32 KiB
	// of UTF-8 never exceeds the 64 KiB property limit.
	chunkBytes = 32 * 1024

	// maxChunks keeps the whole entity under the 1 MiB entity limit.
	maxChunks = 14

	// MaxDocumentBytes is the largest document Put accepts.
	MaxDocumentBytes = chunkBytes * maxChunks
)

// ErrDocumentTooLarge is returned by Put for documents that do not fit in
// maxChunks chunks.
var ErrDocumentTooLarge = errors.New("document exceeds the table entity size limit")

// Store is a types.Remote backed by one Azure table.
type Store struct {
	client *aztables.Client
	now    func() time.Time
}

// Open connects with a storage connection string and creates the table if
// it does not exist yet.
func Open(ctx context.Context, connStr, table string) (*Store, error) {
	opts := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute,
				RetryDelay:    time.Second,
				MaxRetryDelay: 15 * time.Second,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &opts)
	if err != nil {
		return nil, fmt.Errorf("creating table service client: %w", err)
	}
	client := svc.NewClient(table)
	if _, err := client.CreateTable(ctx, nil); err != nil {
		var respErr *azcore.ResponseError
		if !(errors.As(err, &respErr) && respErr.ErrorCode == string(aztables.TableAlreadyExists)) {
			return nil, fmt.Errorf("creating table %s: %w", table, err)
		}
	}
	return &Store{client: client, now: time.Now}, nil
}

// Put creates or replaces the document under collection/key.
func (s *Store) Put(ctx context.Context, collection, key string, doc []byte) error {
	entity, err := encodeEntity(collection, key, doc, s.now())
	if err != nil {
		return err
	}
	_, err = s.client.UpsertEntity(ctx, entity, &aztables.UpsertEntityOptions{
		UpdateMode: aztables.UpdateModeReplace,
	})
	if err != nil {
		return fmt.Errorf("upserting %s/%s: %w", collection, key, err)
	}
	return nil
}

// Get returns the document under collection/key.
func (s *Store) Get(ctx context.Context, collection, key string) ([]byte, error) {
	resp, err := s.client.GetEntity(ctx, collection, rowKey(key), nil)
	if isNotFound(err) {
		return nil, types.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w", collection, key, err)
	}
	return decodeEntity(resp.Value)
}

// Delete removes the document under collection/key.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	_, err := s.client.DeleteEntity(ctx, collection, rowKey(key), nil)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("deleting %s/%s: %w", collection, key, err)
	}
	return nil
}

// Close is a no-op; the table client holds no connections of its own.
func (s *Store) Close() error {
	return nil
}

// rowKey escapes characters that are not allowed in a row key ('/', '\',
// '#', '?').
func rowKey(key string) string {
	return url.PathEscape(key)
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

func chunkProperty(i int) string {
	return "Chunk" + strconv.Itoa(i)
}

// encodeEntity builds the JSON entity for doc, splitting it into chunks on
// rune boundaries.
func encodeEntity(collection, key string, doc []byte, now time.Time) ([]byte, error) {
	if len(doc) > MaxDocumentBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, len(doc))
	}
	if !utf8.Valid(doc) {
		return nil, fmt.Errorf("%s/%s: document is not valid UTF-8", collection, key)
	}

	chunks := splitRunes(doc, chunkBytes)
	if len(chunks) > maxChunks {
		return nil, fmt.Errorf("%w: %d chunks", ErrDocumentTooLarge, len(chunks))
	}
	entity := map[string]any{
		"PartitionKey": collection,
		"RowKey":       rowKey(key),
		"Chunks":       len(chunks),
		"UpdatedAt":    now.UTC().Format(time.RFC3339Nano),
	}
	for i, c := range chunks {
		entity[chunkProperty(i)] = string(c)
	}
	data, err := sonic.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("encoding entity: %w", err)
	}
	return data, nil
}

// decodeEntity reassembles the document from an entity returned by GetEntity.
func decodeEntity(data []byte) ([]byte, error) {
	var entity map[string]any
	if err := sonic.Unmarshal(data, &entity); err != nil {
		return nil, fmt.Errorf("decoding entity: %w", err)
	}
	n, ok := entity["Chunks"].(float64)
	if !ok || n < 0 || n > maxChunks {
		return nil, fmt.Errorf("decoding entity: bad chunk count %v", entity["Chunks"])
	}
	var doc []byte
	for i := 0; i < int(n); i++ {
		part, ok := entity[chunkProperty(i)].(string)
		if !ok {
			return nil, fmt.Errorf("decoding entity: missing %s", chunkProperty(i))
		}
		doc = append(doc, part...)
	}
	return doc, nil
}

// splitRunes cuts b into pieces of at most size bytes without splitting a
// UTF-8 sequence. An empty input yields no pieces.
func splitRunes(b []byte, size int) [][]byte {
	var out [][]byte
	for len(b) > 0 {
		if len(b) <= size {
			out = append(out, b)
			break
		}
		cut := size
		for cut > 0 && !utf8.RuneStart(b[cut]) {
			cut--
		}
		out = append(out, b[:cut])
		b = b[cut:]
	}
	return out
}
