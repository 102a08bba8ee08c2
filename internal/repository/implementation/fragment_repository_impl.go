package implementation

import (
	"context"

	"ai-docsearch-be/internal/mapper"
	"ai-docsearch-be/internal/model"
	"ai-docsearch-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type FragmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FragmentMapper
}

func NewFragmentRepository(db *gorm.DB) contract.FragmentRepository {
	return &FragmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewFragmentMapper(),
	}
}

func (r *FragmentRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DocumentFragment{}).Count(&count).Error
	return count, err
}

type scoredRow struct {
	model.DocumentFragment
	Similarity float64
}

func (r *FragmentRepositoryImpl) SearchSimilarByOwner(ctx context.Context, queryVector []float32, ownerId uuid.UUID, threshold float64, limit int) ([]*contract.ScoredFragment, error) {
	return r.searchSimilar(ctx, queryVector, threshold, limit, func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerId)
	})
}

func (r *FragmentRepositoryImpl) SearchSimilarPublic(ctx context.Context, queryVector []float32, threshold float64, limit int) ([]*contract.ScoredFragment, error) {
	return r.searchSimilar(ctx, queryVector, threshold, limit, func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id IS NULL")
	})
}

// searchSimilar runs a pgvector cosine search. Cosine distance in pgvector is
// 1 - cosine_similarity, so similarity is computed as 1 - (embedding <=> q).
// The threshold is an inclusive lower bound applied in SQL; ordering ties are
// broken by id so the result order is reproducible.
func (r *FragmentRepositoryImpl) searchSimilar(ctx context.Context, queryVector []float32, threshold float64, limit int, scope func(*gorm.DB) *gorm.DB) ([]*contract.ScoredFragment, error) {
	if limit <= 0 {
		limit = 5
	}

	queryVec := pgvector.NewVector(queryVector)

	var rows []scoredRow
	err := scope(r.db.WithContext(ctx).
		Table("document_fragments").
		Select("document_fragments.*, 1 - (embedding <=> ?) as similarity", queryVec)).
		Where("deleted_at IS NULL").
		Where("1 - (embedding <=> ?) >= ?", queryVec, threshold).
		Order("similarity DESC, id ASC").
		Limit(limit).
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredFragment, len(rows))
	for i, row := range rows {
		scored[i] = &contract.ScoredFragment{
			Fragment:   r.mapper.ToEntity(&row.DocumentFragment),
			Similarity: row.Similarity,
		}
	}
	return scored, nil
}
