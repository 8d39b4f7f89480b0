// Package detect is the classification engine: it gathers signals for a
// form control, scores every field type with four independent strategies
// plus a correction adjustment, resolves the best match above threshold,
// and learns from explicit user corrections.
//
// One Detector is constructed per host session and owns its pattern
// library, context vector table and correction store; there is no package
// level state. Classification is synchronous and side-effect free;
// RecordCorrection and Retrain are the only mutating operations.
package detect

import (
	"context"

	"go.uber.org/zap"

	"github.com/arcbjorn/formsense/internal/corrections"
	"github.com/arcbjorn/formsense/internal/patterns"
	"github.com/arcbjorn/formsense/pkg/fieldtype"
	"github.com/arcbjorn/formsense/pkg/kvstore"
	"github.com/arcbjorn/formsense/pkg/signals"
)

// Result is one detection. Learned marks results produced or overridden by
// a stored user correction rather than by pattern scores alone.
type Result struct {
	Type    fieldtype.Type `json:"type"`
	Score   int            `json:"score"`
	Band    fieldtype.Band `json:"band"`
	Learned bool           `json:"learned"`
}

// Details is the diagnostic view of one classification: the gathered
// bundle, the full score map with per-strategy breakdown, the resolved
// result (nil when none) and the active threshold.
type Details struct {
	Bundle    *signals.Bundle             `json:"bundle"`
	Scores    map[fieldtype.Type]int      `json:"scores"`
	Breakdown map[fieldtype.Type]Strategy `json:"breakdown"`
	Result    *Result                     `json:"result,omitempty"`
	Threshold int                         `json:"threshold"`
}

// Detector classifies form controls. Safe for concurrent Detect calls;
// RecordCorrection and Retrain serialize against reads internally.
type Detector struct {
	lib      *patterns.Library
	vectors  *patterns.ContextTable
	corr     *corrections.Store
	inductor *corrections.Inductor
	logger   *zap.Logger
}

// Option configures a Detector.
type Option func(*options)

type options struct {
	kv     kvstore.Store
	logger *zap.Logger
}

// WithStore sets the persistence backend for corrections. Without it the
// detector still learns, but corrections do not survive the session.
func WithStore(kv kvstore.Store) Option {
	return func(o *options) { o.kv = kv }
}

// WithLogger sets the logger. Defaults to a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New creates a Detector with the built-in pattern tables.
func New(opts ...Option) *Detector {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	lib := patterns.NewLibrary()
	corr := corrections.NewStore(o.kv, o.logger)
	return &Detector{
		lib:      lib,
		vectors:  patterns.NewContextTable(),
		corr:     corr,
		inductor: corrections.NewInductor(lib, o.logger),
		logger:   o.logger,
	}
}

// LoadCorrections hydrates the correction store from the backing store.
// Failures degrade to an empty store; classification never waits for this.
func (d *Detector) LoadCorrections(ctx context.Context) {
	d.corr.Load(ctx)
}

// Detect classifies one form control. Returns nil when no field type
// reaches the detection threshold and no correction applies.
func (d *Detector) Detect(el signals.Element, doc signals.Document) *Result {
	return d.DetectBundle(signals.Gather(el, doc))
}

// DetectBundle classifies an already-gathered signal bundle.
func (d *Detector) DetectBundle(b *signals.Bundle) *Result {
	scores := d.scoreAll(b)
	return d.resolve(b, scores)
}

// Details runs a full classification and returns every intermediate.
func (d *Detector) Details(el signals.Element, doc signals.Document) *Details {
	b := signals.Gather(el, doc)
	breakdown := d.scoreAll(b)

	totals := make(map[fieldtype.Type]int, len(breakdown))
	for t, s := range breakdown {
		totals[t] = s.Total()
	}

	return &Details{
		Bundle:    b,
		Scores:    totals,
		Breakdown: breakdown,
		Result:    d.resolve(b, breakdown),
		Threshold: fieldtype.DetectionThreshold,
	}
}

// resolve picks the strictly highest-scoring type at or above threshold,
// then applies the learning override: a stored correction for this exact
// signature always wins and marks the result as learned.
//
// Ties keep the earlier type in fieldtype.All order; that order is a
// documented contract, not an accident.
func (d *Detector) resolve(b *signals.Bundle, scores map[fieldtype.Type]Strategy) *Result {
	best := fieldtype.Unknown
	bestScore := -1
	for _, t := range fieldtype.All {
		if s := scores[t].Total(); s > bestScore {
			best = t
			bestScore = s
		}
	}

	var res *Result
	if bestScore >= fieldtype.DetectionThreshold {
		res = &Result{
			Type:  best,
			Score: bestScore,
			Band:  fieldtype.BandFor(bestScore),
		}
	}

	rec, ok := d.corr.Lookup(b.Signature())
	if !ok {
		return res
	}

	if res == nil || res.Type != rec.CorrectedType {
		score := scores[rec.CorrectedType].Total() + correctionBoost
		if score > maxScore {
			score = maxScore
		}
		res = &Result{
			Type:  rec.CorrectedType,
			Score: score,
			Band:  fieldtype.BandFor(score),
		}
	}
	res.Learned = true
	return res
}

// RecordCorrection stores an explicit user correction for the control and
// persists it. detected is what the engine claimed (fieldtype.Unknown for a
// non-detection); corrected is the user's answer. The in-memory state
// applies even when persistence fails, so the returned error is advisory
// and the call is retry-safe.
func (d *Detector) RecordCorrection(ctx context.Context, el signals.Element, doc signals.Document, detected, corrected fieldtype.Type) error {
	return d.corr.Add(ctx, signals.Gather(el, doc), detected, corrected)
}

// RecordBundleCorrection is RecordCorrection for a pre-gathered bundle.
func (d *Detector) RecordBundleCorrection(ctx context.Context, b *signals.Bundle, detected, corrected fieldtype.Type) error {
	return d.corr.Add(ctx, b, detected, corrected)
}

// Retrain mines the correction history and appends induced fuzzy patterns
// to the library. Idempotent over an unchanged history; a no-op below the
// minimum group size. Safe to invoke at any time.
func (d *Detector) Retrain(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	added := d.inductor.Mine(d.corr.History())
	d.logger.Info("retrain complete", zap.Int("patterns_added", added))
	return nil
}

// InducedPatterns lists the induced fuzzy pattern expressions for a type.
func (d *Detector) InducedPatterns(t fieldtype.Type) []string {
	return d.lib.InducedFuzzy(t)
}
