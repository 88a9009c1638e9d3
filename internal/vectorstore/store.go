// Package vectorstore defines the embedding-backed similarity-search
// contract used by the course index, together with an in-memory
// implementation.
package vectorstore

import "context"

// Entry is a single indexed item: the text that gets embedded plus
// string-typed metadata used for filtering and provenance.
type Entry struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Result is an Entry matched by a query, with its cosine similarity score.
type Result struct {
	Entry
	Score float64
}

// Store is the external embedding/vector-search collaborator contract.
// Upserts replace entries with the same ID within a collection. Filters are
// exact-match predicates over metadata keys.
type Store interface {
	Upsert(ctx context.Context, collection string, entries []Entry) error
	Query(ctx context.Context, collection, text string, filter map[string]string, topK int) ([]Result, error)
	Delete(ctx context.Context, collection string, filter map[string]string) error
	Count(ctx context.Context, collection string) (int, error)
}
