package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for response mapping.
type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindDimensionMismatch   Kind = "dimension_mismatch"
	KindContentPolicy       Kind = "content_policy_rejection"
	KindInternal            Kind = "internal"
)

// Stage identifies which pipeline stage produced an error.
type Stage string

const (
	StageInput      Stage = "input"
	StageIdentity   Stage = "identity"
	StageEmbedding  Stage = "embedding"
	StageRetrieval  Stage = "retrieval"
	StageAssembly   Stage = "assembly"
	StageGeneration Stage = "generation"
)

// Error is a stage-tagged pipeline error. Message is safe to return to the
// caller; Err carries upstream internals and is only ever logged.
type Error struct {
	Kind    Kind
	Stage   Stage
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Kind, e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Stage, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can use errors.Is with sentinel-style targets.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, stage Stage, message string) *Error {
	return &Error{Kind: kind, Stage: stage, Message: message}
}

func Wrap(kind Kind, stage Stage, message string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Message: message, Err: err}
}

// WrapUpstream tags err as an upstream failure of the given stage.
// An error that already carries a Kind passes through untouched, so a
// provider-level classification (e.g. a content policy rejection) survives
// orchestrator wrapping.
func WrapUpstream(stage Stage, message string, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Wrap(KindUpstreamUnavailable, stage, message, err)
}

// KindOf returns the Kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StageOf returns the Stage of err, or an empty Stage for unclassified errors.
func StageOf(err error) Stage {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Stage
	}
	return ""
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// PublicMessage returns the caller-safe message for err. Unclassified errors
// collapse to a generic message so upstream internals never leak.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
