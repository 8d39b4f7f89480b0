// Package corrections stores explicit user corrections keyed by element
// signature, keeps the bounded correction history, and mines that history
// for recurring words to induce new fuzzy patterns.
package corrections

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/arcbjorn/formsense/pkg/fieldtype"
	"github.com/arcbjorn/formsense/pkg/signals"
)

// Correction-related errors.
var (
	ErrNilBundle   = errors.New("signal bundle cannot be nil")
	ErrInvalidType = errors.New("corrected type must be a classifiable field type")
)

// Record is one user correction: "you detected X here, it is actually Y".
// Records round-trip losslessly through JSON; the snapshot preserves the
// signals the correction was made against so induction can mine them later.
type Record struct {
	ID            string         `json:"id"`
	Signature     string         `json:"signature"`
	DetectedType  fieldtype.Type `json:"detected_type"`
	CorrectedType fieldtype.Type `json:"corrected_type"`
	Timestamp     time.Time      `json:"timestamp"`
	Snapshot      signals.Bundle `json:"snapshot"`
}

// NewRecord builds a correction record from a gathered bundle. DetectedType
// may be Unknown (the user corrected a non-detection); CorrectedType must
// name a real field type.
func NewRecord(bundle *signals.Bundle, detected, corrected fieldtype.Type) (*Record, error) {
	if bundle == nil {
		return nil, ErrNilBundle
	}
	if !fieldtype.IsValid(string(corrected)) {
		return nil, ErrInvalidType
	}

	return &Record{
		ID:            uuid.New().String(),
		Signature:     bundle.Signature(),
		DetectedType:  detected,
		CorrectedType: corrected,
		Timestamp:     time.Now().UTC(),
		Snapshot:      *bundle,
	}, nil
}
