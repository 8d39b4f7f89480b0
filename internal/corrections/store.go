package corrections

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/arcbjorn/formsense/pkg/fieldtype"
	"github.com/arcbjorn/formsense/pkg/kvstore"
	"github.com/arcbjorn/formsense/pkg/signals"
)

const (
	// historyCap is the maximum history length before trimming kicks in.
	historyCap = 1000
	// historyKeep is what survives a trim: the most recent entries, in order.
	historyKeep = 800

	keyMap     = "corrections/map"
	keyHistory = "corrections/history"
)

// Store holds the latest correction per element signature plus the bounded
// append-only history. Reads are safe concurrently; Add and Load are the
// only writers. Classification works against an empty store until Load has
// run, and keeps working if Load never succeeds.
type Store struct {
	kv     kvstore.Store
	logger *zap.Logger

	mu          sync.RWMutex
	bySignature map[string]Record
	history     []Record
}

// NewStore creates a correction store. kv may be nil for a purely
// in-memory store (corrections then survive only the session).
func NewStore(kv kvstore.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		kv:          kv,
		logger:      logger,
		bySignature: make(map[string]Record),
	}
}

// Lookup returns the most recent correction for the signature, if any.
func (s *Store) Lookup(signature string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.bySignature[signature]
	return rec, ok
}

// Add records a correction: upserts the per-signature entry, appends to the
// history (trimming when the cap is exceeded) and persists both structures.
// A persistence failure is returned wrapped but leaves the in-memory state
// applied, so retrying is safe and idempotent: a correction identical to
// the newest history entry only re-persists, it does not grow the history.
// Without that check a retried save would let one user action masquerade
// as several corrections and feed pattern induction.
func (s *Store) Add(ctx context.Context, bundle *signals.Bundle, detected, corrected fieldtype.Type) error {
	rec, err := NewRecord(bundle, detected, corrected)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if n := len(s.history); n > 0 && sameCorrection(s.history[n-1], rec) {
		s.bySignature[rec.Signature] = s.history[n-1]
		s.mu.Unlock()
		return s.persist(ctx)
	}
	s.bySignature[rec.Signature] = *rec
	s.history = append(s.history, *rec)
	if len(s.history) > historyCap {
		trimmed := make([]Record, historyKeep)
		copy(trimmed, s.history[len(s.history)-historyKeep:])
		s.history = trimmed
	}
	s.mu.Unlock()

	s.logger.Info("correction recorded",
		zap.String("signature", rec.Signature),
		zap.String("detected", string(detected)),
		zap.String("corrected", string(corrected)))

	return s.persist(ctx)
}

// sameCorrection reports whether two records describe the same logical
// correction, ignoring record identity and timestamp.
func sameCorrection(prev Record, rec *Record) bool {
	return prev.Signature == rec.Signature &&
		prev.DetectedType == rec.DetectedType &&
		prev.CorrectedType == rec.CorrectedType
}

// History returns a copy of the correction history, oldest first.
func (s *Store) History() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the number of distinct corrected signatures.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bySignature)
}

// Load hydrates the store from the backing kv store. Any failure degrades
// to the current (typically empty) in-memory state: a missing key is a
// fresh install, a read error is logged and swallowed, and individual
// malformed records are skipped rather than aborting the load.
func (s *Store) Load(ctx context.Context) {
	if s.kv == nil {
		return
	}

	bySig := make(map[string]Record)
	if raw, ok, err := s.kv.Get(ctx, keyMap); err != nil {
		s.logger.Warn("loading correction map failed", zap.Error(err))
	} else if ok {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			s.logger.Warn("correction map is malformed", zap.Error(err))
		} else {
			for sig, rawRec := range m {
				var rec Record
				if err := json.Unmarshal(rawRec, &rec); err != nil {
					s.logger.Warn("skipping malformed correction",
						zap.String("signature", sig), zap.Error(err))
					continue
				}
				bySig[sig] = rec
			}
		}
	}

	var history []Record
	if raw, ok, err := s.kv.Get(ctx, keyHistory); err != nil {
		s.logger.Warn("loading correction history failed", zap.Error(err))
	} else if ok {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			s.logger.Warn("correction history is malformed", zap.Error(err))
		} else {
			for _, rawRec := range entries {
				var rec Record
				if err := json.Unmarshal(rawRec, &rec); err != nil {
					s.logger.Warn("skipping malformed history entry", zap.Error(err))
					continue
				}
				history = append(history, rec)
			}
		}
	}

	s.mu.Lock()
	s.bySignature = bySig
	s.history = history
	s.mu.Unlock()

	s.logger.Debug("corrections loaded",
		zap.Int("signatures", len(bySig)),
		zap.Int("history", len(history)))
}

func (s *Store) persist(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}

	s.mu.RLock()
	bySig := make(map[string]Record, len(s.bySignature))
	for sig, rec := range s.bySignature {
		bySig[sig] = rec
	}
	history := make([]Record, len(s.history))
	copy(history, s.history)
	s.mu.RUnlock()

	rawMap, err := json.Marshal(bySig)
	if err != nil {
		return fmt.Errorf("encoding correction map: %w", err)
	}
	rawHist, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encoding correction history: %w", err)
	}

	if err := s.kv.Set(ctx, keyMap, rawMap); err != nil {
		return fmt.Errorf("persisting correction map: %w", err)
	}
	if err := s.kv.Set(ctx, keyHistory, rawHist); err != nil {
		return fmt.Errorf("persisting correction history: %w", err)
	}
	return nil
}
