package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-docsearch-be/internal/model"
	"ai-docsearch-be/internal/repository/implementation"
	"ai-docsearch-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestFragmentRepositoryPgvector(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	repo := implementation.NewFragmentRepository(gormDB)

	t.Run("Check Fragment Table Access", func(t *testing.T) {
		count, err := repo.Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Fragment count: %d", count)
	})

	t.Run("Check Owner Scoping", func(t *testing.T) {
		ownerA := uuid.New()
		ownerB := uuid.New()

		// Orthogonal unit vectors so similarity against the query is exact
		dim := 1536
		queryVec := unitVec(dim, 0)

		fragments := []*model.DocumentFragment{
			{Id: uuid.New(), Content: "owned by A, matches query", OwnerId: &ownerA, Embedding: pgvector.NewVector(unitVec(dim, 0))},
			{Id: uuid.New(), Content: "owned by B, matches query", OwnerId: &ownerB, Embedding: pgvector.NewVector(unitVec(dim, 0))},
			{Id: uuid.New(), Content: "owned by A, orthogonal", OwnerId: &ownerA, Embedding: pgvector.NewVector(unitVec(dim, 1))},
		}
		for _, f := range fragments {
			err := gormDB.Create(f).Error
			assert.NoError(t, err)
		}
		t.Cleanup(func() {
			for _, f := range fragments {
				gormDB.Unscoped().Delete(&model.DocumentFragment{}, "id = ?", f.Id)
			}
		})

		results, err := repo.SearchSimilarByOwner(context.Background(), queryVec, ownerA, 0.5, 10)
		assert.NoError(t, err)
		assert.Len(t, results, 1)
		if len(results) == 1 {
			assert.Equal(t, "owned by A, matches query", results[0].Fragment.Content)
			assert.InDelta(t, 1.0, results[0].Similarity, 1e-4)
		}

		// B's matching fragment must never surface in A's search
		for _, r := range results {
			assert.NotEqual(t, "owned by B, matches query", r.Fragment.Content)
		}
	})

	t.Run("Check Soft Delete Exclusion", func(t *testing.T) {
		owner := uuid.New()
		dim := 1536

		f := &model.DocumentFragment{
			Id:        uuid.New(),
			Content:   "soft deleted fragment",
			OwnerId:   &owner,
			Embedding: pgvector.NewVector(unitVec(dim, 0)),
			DeletedAt: gorm.DeletedAt{},
		}
		err := gormDB.Create(f).Error
		assert.NoError(t, err)
		err = gormDB.Delete(f).Error
		assert.NoError(t, err)
		t.Cleanup(func() {
			gormDB.Unscoped().Delete(&model.DocumentFragment{}, "id = ?", f.Id)
		})

		results, err := repo.SearchSimilarByOwner(context.Background(), unitVec(dim, 0), owner, 0.0, 10)
		assert.NoError(t, err)
		assert.Empty(t, results, "soft deleted fragments must not be retrievable")
	})
}

func unitVec(dim, hot int) []float32 {
	v := make([]float32, dim)
	v[hot] = 1
	return v
}
