package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/lewisedginton/course_materials_chatbot/internal/embedding"
)

// MemoryStore is a brute-force cosine-similarity Store kept entirely in
// process memory. Vectors are L2-normalized at insert and query time, so
// similarity reduces to a dot product. Writes happen during the ingestion
// phase; afterwards the store is read-mostly and safe for concurrent use.
type MemoryStore struct {
	embedder embedding.Embedder

	mu          sync.RWMutex
	collections map[string][]record
}

type record struct {
	entry  Entry
	vector []float64
}

// NewMemoryStore creates an empty MemoryStore embedding with the given
// embedder.
func NewMemoryStore(embedder embedding.Embedder) *MemoryStore {
	return &MemoryStore{
		embedder:    embedder,
		collections: make(map[string][]record),
	}
}

// Upsert embeds and stores entries, replacing any existing entry with the
// same ID in the collection.
func (s *MemoryStore) Upsert(ctx context.Context, collection string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed %d entries for collection %s: %w", len(entries), collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collections[collection]
	for i, e := range entries {
		rec := record{entry: e, vector: normalize(vectors[i])}
		replaced := false
		for j := range records {
			if records[j].entry.ID == e.ID {
				records[j] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			records = append(records, rec)
		}
	}
	s.collections[collection] = records
	return nil
}

// Query embeds text and returns up to topK entries ordered by descending
// similarity. Entries not matching every filter key are excluded. Equal
// scores preserve insertion order; callers apply their own tie-breaks.
func (s *MemoryStore) Query(ctx context.Context, collection, text string, filter map[string]string, topK int) ([]Result, error) {
	if topK <= 0 {
		topK = 5
	}

	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query for collection %s: %w", collection, err)
	}
	query := normalize(vectors[0])

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []Result
	for _, rec := range s.collections[collection] {
		if !matchesFilter(rec.entry.Metadata, filter) {
			continue
		}
		results = append(results, Result{Entry: rec.entry, Score: dot(query, rec.vector)})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Delete removes every entry matching the filter from the collection.
func (s *MemoryStore) Delete(ctx context.Context, collection string, filter map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collections[collection]
	kept := records[:0]
	for _, rec := range records {
		if !matchesFilter(rec.entry.Metadata, filter) {
			kept = append(kept, rec)
		}
	}
	s.collections[collection] = kept
	return nil
}

// Count returns the number of entries in the collection.
func (s *MemoryStore) Count(ctx context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection]), nil
}

func matchesFilter(metadata, filter map[string]string) bool {
	for key, want := range filter {
		if metadata[key] != want {
			return false
		}
	}
	return true
}

func normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
