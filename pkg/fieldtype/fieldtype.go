// Package fieldtype defines the closed set of semantic categories a form
// control can be classified as, together with the confidence bands attached
// to detection scores.
package fieldtype

// Type is one semantic field category.
type Type string

const (
	FirstName     Type = "firstName"
	LastName      Type = "lastName"
	FullName      Type = "fullName"
	Email         Type = "email"
	Phone         Type = "phone"
	Street        Type = "street"
	City          Type = "city"
	State         Type = "state"
	Zip           Type = "zip"
	Country       Type = "country"
	CardNumber    Type = "cardNumber"
	CardCVV       Type = "cardCVV"
	CardExpiry    Type = "cardExpiry"
	Company       Type = "company"
	JobTitle      Type = "jobTitle"
	Website       Type = "website"
	SocialProfile Type = "socialProfile"

	// Unknown is the sentinel for an unclassified control. It never appears
	// in pattern tables and never wins resolution.
	Unknown Type = "unknown"
)

// All lists every classifiable type in its canonical order. Resolution
// iterates this slice, so the order doubles as the documented tie-break:
// when two types score identically, the one listed earlier here wins.
// Do not reorder without updating the resolver tests.
var All = []Type{
	FirstName,
	LastName,
	FullName,
	Email,
	Phone,
	Street,
	City,
	State,
	Zip,
	Country,
	CardNumber,
	CardCVV,
	CardExpiry,
	Company,
	JobTitle,
	Website,
	SocialProfile,
}

var valid = func() map[string]Type {
	m := make(map[string]Type, len(All))
	for _, t := range All {
		m[string(t)] = t
	}
	return m
}()

// Parse returns the typed value for s, or Unknown and false if s does not
// name a classifiable type.
func Parse(s string) (Type, bool) {
	t, ok := valid[s]
	if !ok {
		return Unknown, false
	}
	return t, true
}

// IsValid reports whether s names a classifiable type.
func IsValid(s string) bool {
	_, ok := valid[s]
	return ok
}

// Band is a coarse qualitative grouping of a numeric detection score.
type Band string

const (
	BandHigh   Band = "high"   // score >= 90
	BandMedium Band = "medium" // score >= 70
	BandLow    Band = "low"    // score >= DetectionThreshold
	BandNone   Band = "none"   // below threshold
)

// DetectionThreshold is the minimum aggregate score required for a
// detection to be emitted at all.
const DetectionThreshold = 60

// BandFor maps a score to its confidence band. Bands partition the score
// range contiguously: [60,70) low, [70,90) medium, [90,100] high.
func BandFor(score int) Band {
	switch {
	case score >= 90:
		return BandHigh
	case score >= 70:
		return BandMedium
	case score >= DetectionThreshold:
		return BandLow
	default:
		return BandNone
	}
}
