// Package patterns holds the matching tables the scorer consults: per-type
// exact tokens, fuzzy regexes and value-shape regexes, plus the topical
// context vectors. The built-in tables are fixed at construction; induction
// appends fuzzy patterns through an append-only, capped, deduplicating API.
package patterns

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/arcbjorn/formsense/pkg/fieldtype"
)

// MaxInducedPerType caps how many induced fuzzy patterns a single field
// type can accumulate. Induced patterns come from page text, so the cap
// bounds matching cost against pathological correction histories.
const MaxInducedPerType = 24

// Library is the mutable pattern store. Reads are safe concurrently;
// AddInducedFuzzy is the only writer.
type Library struct {
	mu      sync.RWMutex
	exact   map[fieldtype.Type][]string
	fuzzy   map[fieldtype.Type][]*regexp.Regexp
	shape   map[fieldtype.Type][]*regexp.Regexp
	induced map[fieldtype.Type][]string
}

// NewLibrary returns a library populated with the built-in tables.
func NewLibrary() *Library {
	l := &Library{
		exact:   exactTokens(),
		fuzzy:   make(map[fieldtype.Type][]*regexp.Regexp),
		shape:   make(map[fieldtype.Type][]*regexp.Regexp),
		induced: make(map[fieldtype.Type][]string),
	}
	for t, exprs := range fuzzyExprs() {
		for _, e := range exprs {
			l.fuzzy[t] = append(l.fuzzy[t], regexp.MustCompile(e))
		}
	}
	for t, exprs := range shapeExprs() {
		for _, e := range exprs {
			l.shape[t] = append(l.shape[t], regexp.MustCompile(e))
		}
	}
	return l
}

// MatchExact reports whether any of the given attribute values contains one
// of the type's literal tokens.
func (l *Library) MatchExact(t fieldtype.Type, values []string) bool {
	l.mu.RLock()
	tokens := l.exact[t]
	l.mu.RUnlock()

	for _, v := range values {
		if v == "" {
			continue
		}
		for _, tok := range tokens {
			if strings.Contains(v, tok) {
				return true
			}
		}
	}
	return false
}

// MatchFuzzy reports whether any of the given texts matches one of the
// type's fuzzy regexes, built-in or induced.
func (l *Library) MatchFuzzy(t fieldtype.Type, texts []string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, txt := range texts {
		if txt == "" {
			continue
		}
		for _, re := range l.fuzzy[t] {
			if re.MatchString(txt) {
				return true
			}
		}
	}
	return false
}

// MatchShape reports whether any candidate string matches one of the
// type's value-shape regexes.
func (l *Library) MatchShape(t fieldtype.Type, candidates []string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, c := range candidates {
		if c == "" {
			continue
		}
		for _, re := range l.shape[t] {
			if re.MatchString(c) {
				return true
			}
		}
	}
	return false
}

// AddInducedFuzzy appends an induced fuzzy pattern for the type. The
// pattern string must already be escaped by the caller; it is compiled
// case-insensitively. Returns false without error when an equivalent
// pattern already exists, and an error when the per-type cap is reached
// or the pattern does not compile.
func (l *Library) AddInducedFuzzy(t fieldtype.Type, pattern string) (bool, error) {
	expr := "(?i)" + pattern

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, existing := range l.induced[t] {
		if existing == expr {
			return false, nil
		}
	}
	if len(l.induced[t]) >= MaxInducedPerType {
		return false, fmt.Errorf("induced pattern cap (%d) reached for %s", MaxInducedPerType, t)
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return false, fmt.Errorf("compiling induced pattern %q: %w", pattern, err)
	}

	l.induced[t] = append(l.induced[t], expr)
	l.fuzzy[t] = append(l.fuzzy[t], re)
	return true, nil
}

// InducedFuzzy returns a copy of the induced pattern expressions for the
// type, in insertion order.
func (l *Library) InducedFuzzy(t fieldtype.Type) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.induced[t]))
	copy(out, l.induced[t])
	return out
}
