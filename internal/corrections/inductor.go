package corrections

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/arcbjorn/formsense/internal/patterns"
)

const (
	// minGroupSize is how many corrections must share a (detected,
	// corrected) pair before the group is mined at all.
	minGroupSize = 3
	// majorityPct is the share of a group's entries a word must appear in
	// to become a pattern.
	majorityPct = 60
	// minWordLen filters out connective noise.
	minWordLen = 3
)

var wordRe = regexp.MustCompile(`[a-z0-9]+`)

// Inductor mines the correction history for recurring words and appends
// them to the pattern library as fuzzy patterns. Mining is idempotent: the
// library deduplicates, so re-running over an unchanged history adds
// nothing.
type Inductor struct {
	lib    *patterns.Library
	logger *zap.Logger
}

// NewInductor creates an inductor writing into the given library.
func NewInductor(lib *patterns.Library, logger *zap.Logger) *Inductor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inductor{lib: lib, logger: logger}
}

// Mine groups the history by (detected, corrected) pair and, for every
// group of at least minGroupSize, extracts words of length >= minWordLen
// that appear in at least majorityPct of the group's label, container and
// placeholder text. Each qualifying word is escaped and appended as a
// fuzzy pattern for the corrected type. Returns the number of patterns
// actually added.
func (i *Inductor) Mine(history []Record) int {
	groups := make(map[string][]Record)
	for _, rec := range history {
		key := string(rec.DetectedType) + "->" + string(rec.CorrectedType)
		groups[key] = append(groups[key], rec)
	}

	added := 0
	for key, group := range groups {
		if len(group) < minGroupSize {
			continue
		}

		corrected := group[0].CorrectedType
		for _, word := range recurringWords(group) {
			ok, err := i.lib.AddInducedFuzzy(corrected, `\b`+regexp.QuoteMeta(word)+`\b`)
			if err != nil {
				i.logger.Warn("induced pattern rejected",
					zap.String("group", key),
					zap.String("word", word),
					zap.Error(err))
				continue
			}
			if ok {
				added++
				i.logger.Info("fuzzy pattern induced",
					zap.String("type", string(corrected)),
					zap.String("word", word),
					zap.Int("group_size", len(group)))
			}
		}
	}
	return added
}

// recurringWords returns the words shared by at least majorityPct of the
// group's entries, sorted for deterministic insertion order.
func recurringWords(group []Record) []string {
	counts := make(map[string]int)
	for _, rec := range group {
		text := rec.Snapshot.Context.Label + " " +
			rec.Snapshot.Context.Container + " " +
			rec.Snapshot.Attrs.Placeholder
		seen := make(map[string]bool)
		for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
			if len(w) < minWordLen || seen[w] {
				continue
			}
			seen[w] = true
			counts[w]++
		}
	}

	need := (len(group)*majorityPct + 99) / 100
	var words []string
	for w, n := range counts {
		if n >= need {
			words = append(words, w)
		}
	}
	sort.Strings(words)
	return words
}
