package patterns

import (
	"math"
	"strings"

	"github.com/arcbjorn/formsense/pkg/fieldtype"
)

const (
	// contextCoefficient scales keyword relevance into the score domain.
	contextCoefficient = 40
	// ContextMax caps the contextual strategy's contribution.
	ContextMax = 40
)

// ContextVector groups topical keywords with a hand-tuned relevance weight.
// The tables are read-only at runtime; tuning them is a manual edit here,
// not part of the learning loop.
type ContextVector struct {
	Keywords []string
	Weight   float64
}

// ContextTable maps coarse topical categories to their keyword vectors and
// to the field types that belong to each category.
type ContextTable struct {
	vectors    map[string]ContextVector
	membership map[string][]fieldtype.Type
}

// NewContextTable returns the built-in context vector table.
func NewContextTable() *ContextTable {
	return &ContextTable{
		vectors: map[string]ContextVector{
			"personal": {
				Keywords: []string{"personal", "profile", "about you", "contact", "your details", "account"},
				Weight:   0.30,
			},
			"address": {
				Keywords: []string{"shipping", "billing", "delivery", "address", "location", "where"},
				Weight:   0.35,
			},
			"payment": {
				Keywords: []string{"payment", "checkout", "card", "secure", "purchase", "order"},
				Weight:   0.40,
			},
			"work": {
				Keywords: []string{"work", "employment", "career", "job", "professional", "application", "resume"},
				Weight:   0.30,
			},
		},
		membership: map[string][]fieldtype.Type{
			"personal": {
				fieldtype.FirstName, fieldtype.LastName, fieldtype.FullName,
				fieldtype.Email, fieldtype.Phone,
			},
			"address": {
				fieldtype.Street, fieldtype.City, fieldtype.State,
				fieldtype.Zip, fieldtype.Country,
			},
			"payment": {
				fieldtype.CardNumber, fieldtype.CardCVV, fieldtype.CardExpiry,
			},
			"work": {
				fieldtype.Company, fieldtype.JobTitle,
				fieldtype.Website, fieldtype.SocialProfile,
			},
		},
	}
}

// Score computes the contextual relevance score for a field type against
// the page-level text. Per category: relevance = matched keyword count x
// weight; the maximum relevance over categories containing the type is
// scaled by the coefficient and clamped to ContextMax.
func (t *ContextTable) Score(ft fieldtype.Type, text string) int {
	if text == "" {
		return 0
	}

	best := 0.0
	for cat, vec := range t.vectors {
		if !t.contains(cat, ft) {
			continue
		}
		count := 0
		for _, kw := range vec.Keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
		if rel := float64(count) * vec.Weight; rel > best {
			best = rel
		}
	}

	score := int(math.Round(best * contextCoefficient))
	if score > ContextMax {
		score = ContextMax
	}
	return score
}

func (t *ContextTable) contains(category string, ft fieldtype.Type) bool {
	for _, m := range t.membership[category] {
		if m == ft {
			return true
		}
	}
	return false
}
