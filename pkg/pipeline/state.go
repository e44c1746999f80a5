package pipeline

import (
	"github.com/wellmate-ai/wellmate/pkg/common/models"
	"github.com/wellmate-ai/wellmate/pkg/feature"
	"github.com/wellmate-ai/wellmate/pkg/model"
	"github.com/wellmate-ai/wellmate/pkg/storage"
)

// StateKind tags the per-user pipeline state.
type StateKind int

const (
	StateIdle StateKind = iota
	StateRunning
	StateOk
	StateFailed
)

func (k StateKind) String() string {
	switch k {
	case StateRunning:
		return "running"
	case StateOk:
		return "ok"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// ErrorKind names which stage failed, for callers that branch on it.
type ErrorKind string

const (
	ErrKindNone        ErrorKind = ""
	ErrKindMissing     ErrorKind = "missing_required_field"
	ErrKindRange       ErrorKind = "validation_range"
	ErrKindDimension   ErrorKind = "dimension_mismatch"
	ErrKindInference   ErrorKind = "inference"
	ErrKindPersistence ErrorKind = "persistence"
	ErrKindBusy        ErrorKind = "busy"
	ErrKindInternal    ErrorKind = "internal"
)

// State is the tagged per-user variant: Score is set only for StateOk,
// ErrKind and Message only for StateFailed.
type State struct {
	Kind    StateKind
	Score   *models.RiskScore
	ErrKind ErrorKind
	Message string
}

func errorKindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrKindNone
	case feature.IsMissingFieldError(err):
		return ErrKindMissing
	case feature.IsRangeError(err):
		return ErrKindRange
	case model.IsDimensionError(err):
		return ErrKindDimension
	case model.IsInferenceError(err):
		return ErrKindInference
	case storage.IsPersistenceError(err):
		return ErrKindPersistence
	default:
		return ErrKindInternal
	}
}
