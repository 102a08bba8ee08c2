package mapper

import (
	"time"

	"ai-docsearch-be/internal/entity"
	"ai-docsearch-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type FragmentMapper struct{}

func NewFragmentMapper() *FragmentMapper {
	return &FragmentMapper{}
}

func (m *FragmentMapper) ToEntity(f *model.DocumentFragment) *entity.DocumentFragment {
	if f == nil {
		return nil
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.DocumentFragment{
		Id:        f.Id,
		Content:   f.Content,
		Embedding: f.Embedding.Slice(),
		OwnerId:   f.OwnerId,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *FragmentMapper) ToModel(f *entity.DocumentFragment) *model.DocumentFragment {
	if f == nil {
		return nil
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.DocumentFragment{
		Id:        f.Id,
		Content:   f.Content,
		Embedding: pgvector.NewVector(f.Embedding),
		OwnerId:   f.OwnerId,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *FragmentMapper) ToEntities(fragments []*model.DocumentFragment) []*entity.DocumentFragment {
	entities := make([]*entity.DocumentFragment, len(fragments))
	for i, f := range fragments {
		entities[i] = m.ToEntity(f)
	}
	return entities
}
