package ports

import "context"

// Table is a per-entity-type handle on the table store. Upsert replaces an
// existing entity with the same keys unconditionally (last-writer-wins, no
// concurrency token check) and inserts otherwise. Delete reports whether a
// matching entity existed; a miss is not an error. Store failures propagate
// as errors with no retry.
type Table[T any] interface {
	Query(ctx context.Context, filter Filter) ([]T, error)
	Upsert(ctx context.Context, entity T) error
	Delete(ctx context.Context, partitionKey, rowKey string) (bool, error)
}

// BlobStore is container-scoped object storage for digest artifacts. Save
// operations return the blob's resolvable URL, or an empty string on failure;
// LoadJSON reports false when the blob is absent or unreadable. Failures are
// logged by the implementation rather than surfaced as distinct error kinds.
type BlobStore interface {
	SaveJSON(ctx context.Context, container, name string, v any) string
	SaveText(ctx context.Context, container, name, text string) string
	LoadJSON(ctx context.Context, container, name string, out any) bool
}
