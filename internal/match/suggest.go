package match

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/doeshing/clarify/internal/domain"
)

// MatchType tags how a suggestion matched the partial input.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchContains MatchType = "contains"
	MatchFuzzy    MatchType = "fuzzy"
)

// Suggestion is a transient, derived view of a history entry plus its
// computed score. Produced fresh on every input change, never persisted.
type Suggestion struct {
	Entry     domain.HistoryEntry
	Score     float64
	MatchType MatchType
}

const (
	prefixScore      = 1.0
	substringScore   = 0.8
	fuzzyWeight      = 0.7
	levelBonus       = 0.1
	recencyBonusMax  = 0.1
	nearTieTolerance = 0.1
)

// Suggest scores and orders history entries against a partial input.
// Base score is the best of prefix (1.0), substring (0.8) and fuzzy
// similarity scaled by 0.7; matching the current level adds 0.1 and a
// recency bonus decays linearly to zero over seven days. Candidates below
// domain.SuggestionScoreFloor are dropped; at most domain.MaxSuggestions
// are returned, sorted by score with near-ties broken by recency.
func Suggest(input string, history []domain.HistoryEntry, current domain.Level, now time.Time) []Suggestion {
	key := Normalize(input)
	if key == "" {
		return nil
	}

	candidates := make([]Suggestion, 0, len(history))
	for _, entry := range history {
		topicKey := Normalize(entry.Topic)
		if topicKey == "" {
			continue
		}

		var base float64
		matchType := MatchFuzzy
		switch {
		case strings.HasPrefix(topicKey, key):
			base = prefixScore
			matchType = MatchExact
		case strings.Contains(topicKey, key):
			base = substringScore
			matchType = MatchContains
		default:
			base = Similarity(key, topicKey) * fuzzyWeight
		}

		score := base
		if entry.Level == current {
			score += levelBonus
		}
		score += recencyBonus(now.Sub(entry.Timestamp))

		if score < domain.SuggestionScoreFloor {
			continue
		}
		candidates = append(candidates, Suggestion{Entry: entry, Score: score, MatchType: matchType})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if math.Abs(candidates[i].Score-candidates[j].Score) <= nearTieTolerance {
			return candidates[i].Entry.Timestamp.After(candidates[j].Entry.Timestamp)
		}
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > domain.MaxSuggestions {
		candidates = candidates[:domain.MaxSuggestions]
	}
	return candidates
}

func recencyBonus(age time.Duration) float64 {
	if age < 0 {
		age = 0
	}
	window := domain.SuggestionRecencyWindow
	if age >= window {
		return 0
	}
	return recencyBonusMax * (1 - float64(age)/float64(window))
}
