package detect

import (
	"strconv"

	"github.com/arcbjorn/formsense/pkg/fieldtype"
	"github.com/arcbjorn/formsense/pkg/signals"
)

// Fixed strategy magnitudes. Each strategy contributes its magnitude or
// nothing; matching patterns of the same strategy never stack.
const (
	exactScore = 100
	fuzzyScore = 70
	shapeScore = 50

	// correctionBoost is the swing a single stored correction applies:
	// +30 to the corrected type, -30 to the type it rejected.
	correctionBoost = 30

	maxScore = 100
)

// Strategy breaks one field type's aggregate score into its components.
// Adjust is the correction-based delta and may be negative.
type Strategy struct {
	Exact   int `json:"exact"`
	Fuzzy   int `json:"fuzzy"`
	Shape   int `json:"shape"`
	Context int `json:"context"`
	Adjust  int `json:"adjust"`
}

// Total is the aggregate clamped to [0,100].
func (s Strategy) Total() int {
	total := s.Exact + s.Fuzzy + s.Shape + s.Context + s.Adjust
	if total < 0 {
		return 0
	}
	if total > maxScore {
		return maxScore
	}
	return total
}

// scoreAll computes the per-type strategy breakdown for one bundle. The
// score map is recomputed fresh on every call and never persisted.
func (d *Detector) scoreAll(b *signals.Bundle) map[fieldtype.Type]Strategy {
	attrVals := b.AttributeValues()
	fuzzyTexts := b.FuzzyTexts()
	shapeCands := shapeCandidates(b)
	ctxText := b.ContextText()

	rec, hasCorrection := d.corr.Lookup(b.Signature())

	scores := make(map[fieldtype.Type]Strategy, len(fieldtype.All))
	for _, t := range fieldtype.All {
		var s Strategy
		if d.lib.MatchExact(t, attrVals) {
			s.Exact = exactScore
		}
		if d.lib.MatchFuzzy(t, fuzzyTexts) {
			s.Fuzzy = fuzzyScore
		}
		if d.lib.MatchShape(t, shapeCands) {
			s.Shape = shapeScore
		}
		s.Context = d.vectors.Score(t, ctxText)

		if hasCorrection {
			switch t {
			case rec.CorrectedType:
				s.Adjust = correctionBoost
			case rec.DetectedType:
				s.Adjust = -correctionBoost
			}
		}
		scores[t] = s
	}
	return scores
}

// shapeCandidates returns the strings the shape strategy probes: the
// placeholder, and the declared max length stringified (real markup
// constrains CVV and card number fields this way).
func shapeCandidates(b *signals.Bundle) []string {
	cands := []string{b.Attrs.Placeholder}
	if b.Visual.MaxLength > 0 {
		cands = append(cands, strconv.Itoa(b.Visual.MaxLength))
	}
	return cands
}
