package contract

import (
	"context"

	"ai-docsearch-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredFragment wraps DocumentFragment with its similarity score at
// retrieval time (0.0 to 1.0, 1.0 = identical).
type ScoredFragment struct {
	Fragment   *entity.DocumentFragment
	Similarity float64
}

type FragmentRepository interface {
	Count(ctx context.Context) (int64, error)

	// SearchSimilarByOwner returns the fragments owned by ownerId most similar
	// to the query vector. Only fragments whose owner equals ownerId are
	// candidates; this filter is applied in SQL and is a security invariant.
	SearchSimilarByOwner(ctx context.Context, queryVector []float32, ownerId uuid.UUID, threshold float64, limit int) ([]*ScoredFragment, error)

	// SearchSimilarPublic is the anonymous variant: only fragments with no
	// owner are candidates.
	SearchSimilarPublic(ctx context.Context, queryVector []float32, threshold float64, limit int) ([]*ScoredFragment, error)
}
