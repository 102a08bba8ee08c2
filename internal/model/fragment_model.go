package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentFragment struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content   string          `gorm:"type:text"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small uses 1536 dimensions
	OwnerId   *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt  `gorm:"index"`
}

func (DocumentFragment) TableName() string {
	return "document_fragments"
}
