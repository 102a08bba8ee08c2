package retrieve

import (
	"context"
	"fmt"
	"sort"

	"ai-docsearch-be/internal/pkg/logger"
	"ai-docsearch-be/internal/repository/contract"
	"ai-docsearch-be/pkg/apperr"

	"github.com/google/uuid"
)

// Anonymous retrieval policies. Resolved at configuration time; there is no
// option that exposes owned fragments to an anonymous caller.
const (
	AnonymousPolicyPublic = "public"
	AnonymousPolicyReject = "reject"
)

// Fragment is a retrieved unit of context with its similarity score.
type Fragment struct {
	Id      uuid.UUID
	Content string
	Score   float64
}

// Retriever performs similarity search scoped to the requesting identity.
type Retriever struct {
	repo            contract.FragmentRepository
	dimensions      int
	anonymousPolicy string
	logger          logger.ILogger
}

func NewRetriever(repo contract.FragmentRepository, dimensions int, anonymousPolicy string, log logger.ILogger) *Retriever {
	return &Retriever{
		repo:            repo,
		dimensions:      dimensions,
		anonymousPolicy: anonymousPolicy,
		logger:          log,
	}
}

// Search returns at most count fragments with similarity >= threshold, sorted
// by descending score with id as the tie-break key. When ownerId is present
// only that identity's fragments are candidates. When ownerId is nil the
// configured anonymous policy decides between public-only search and
// rejection.
func (r *Retriever) Search(ctx context.Context, queryVector []float32, ownerId *uuid.UUID, threshold float64, count int) ([]Fragment, error) {
	if len(queryVector) != r.dimensions {
		return nil, apperr.New(apperr.KindDimensionMismatch, apperr.StageRetrieval,
			fmt.Sprintf("query vector has %d dimensions, store expects %d", len(queryVector), r.dimensions))
	}

	var scored []*contract.ScoredFragment
	var err error

	if ownerId != nil {
		scored, err = r.repo.SearchSimilarByOwner(ctx, queryVector, *ownerId, threshold, count)
	} else {
		switch r.anonymousPolicy {
		case AnonymousPolicyPublic:
			scored, err = r.repo.SearchSimilarPublic(ctx, queryVector, threshold, count)
		default:
			return nil, apperr.New(apperr.KindInvalidInput, apperr.StageRetrieval,
				"anonymous search is not permitted")
		}
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, apperr.StageRetrieval,
			"vector store unavailable", err)
	}

	fragments := make([]Fragment, 0, len(scored))
	for _, s := range scored {
		if s.Similarity < threshold {
			continue
		}
		fragments = append(fragments, Fragment{
			Id:      s.Fragment.Id,
			Content: s.Fragment.Content,
			Score:   s.Similarity,
		})
	}

	// The store already orders results, but the ranking contract (score desc,
	// id asc on ties) is enforced here so it holds for any backend.
	sort.SliceStable(fragments, func(i, j int) bool {
		if fragments[i].Score != fragments[j].Score {
			return fragments[i].Score > fragments[j].Score
		}
		return fragments[i].Id.String() < fragments[j].Id.String()
	})

	if count > 0 && len(fragments) > count {
		fragments = fragments[:count]
	}

	r.logger.Debug("RETRIEVAL", "similarity search completed", map[string]interface{}{
		"candidates": len(scored),
		"returned":   len(fragments),
		"threshold":  threshold,
	})

	return fragments, nil
}
