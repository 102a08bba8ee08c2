package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentFragment is a stored unit of retrievable text. OwnerId is nil for
// fragments that are not owned by any identity (globally searchable when the
// anonymous policy allows it). The pipeline only ever reads fragments.
type DocumentFragment struct {
	Id        uuid.UUID
	Content   string
	Embedding []float32
	OwnerId   *uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
}
