package inferable

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

// Index is an in-memory nearest-neighbor lookup over caller-supplied
// embeddings that returns the id of the closest prior observation. No
// other package of the module calls it. No persistence
// path is configured — the engine's embeddings are caller-supplied
// []float32, never written to disk.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewIndex creates an empty in-memory index under the given collection
// name.
func NewIndex(name string) (*Index, error) {
	db := chromem.NewDB()
	collection, err := db.CreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("inferable: failed to create vector index: %w", err)
	}
	return &Index{db: db, collection: collection}, nil
}

// Add registers one prior observation under id, with embedding as its
// retrieval key.
func (ix *Index) Add(ctx context.Context, id string, embedding []float32, question string) error {
	err := ix.collection.AddDocument(ctx, chromem.Document{
		ID:        id,
		Content:   question,
		Embedding: embedding,
	})
	if err != nil {
		return fmt.Errorf("inferable: failed to index observation %s: %w", id, err)
	}
	return nil
}

// Nearest returns the id and similarity of the closest indexed observation
// to query. limit bounds how many candidates chromem-go considers before
// the top match is picked.
func (ix *Index) Nearest(ctx context.Context, query []float32, limit int) (id string, similarity float32, err error) {
	if limit <= 0 {
		limit = 1
	}
	results, err := ix.collection.QueryEmbedding(ctx, query, limit, nil, nil)
	if err != nil {
		return "", 0, fmt.Errorf("inferable: nearest-neighbor query failed: %w", err)
	}
	if len(results) == 0 {
		return "", 0, fmt.Errorf("inferable: index is empty")
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Similarity > best.Similarity {
			best = r
		}
	}
	return best.ID, best.Similarity, nil
}

// Len reports how many observations are indexed.
func (ix *Index) Len() int {
	return ix.collection.Count()
}
