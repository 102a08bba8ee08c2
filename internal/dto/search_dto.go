package dto

import (
	"github.com/google/uuid"
)

type AskRequest struct {
	Query string `json:"query" validate:"required"`
}

// SourceDTO is one fragment that grounded the answer, returned as provenance.
type SourceDTO struct {
	Id      uuid.UUID `json:"id"`
	Content string    `json:"content"`
	Score   float64   `json:"score"`
}

type AskResponse struct {
	Answer string `json:"answer"`
	// Sources lists the fragments the answer was grounded in, ranked by
	// descending similarity. Empty when nothing cleared the threshold.
	Sources []SourceDTO `json:"sources"`
	// DroppedSources lists fragments that matched but were cut from the
	// context by the size budget.
	DroppedSources []uuid.UUID `json:"dropped_sources,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
