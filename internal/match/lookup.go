package match

import "github.com/doeshing/clarify/internal/domain"

// FindCached returns the history entry that can serve topic at level without
// a network call, or nil when no exact or sufficiently similar entry exists.
//
// The exact pass wins on the first entry whose normalized topic equals the
// normalized input; history is most-recent-first, so this prefers recency.
// The fuzzy pass keeps same-level entries with similarity at or above
// domain.FuzzyMatchThreshold and returns the best. Entries without an
// explanation never qualify. The history slice is read-only input.
func FindCached(topic string, level domain.Level, history []domain.HistoryEntry) *domain.HistoryEntry {
	key := Normalize(topic)
	if key == "" {
		return nil
	}

	for i := range history {
		entry := &history[i]
		if entry.Level == level && entry.Explanation != "" && Normalize(entry.Topic) == key {
			return entry
		}
	}

	var best *domain.HistoryEntry
	bestScore := 0.0
	for i := range history {
		entry := &history[i]
		if entry.Level != level || entry.Explanation == "" {
			continue
		}
		score := Similarity(key, Normalize(entry.Topic))
		if score >= domain.FuzzyMatchThreshold && score > bestScore {
			best = entry
			bestScore = score
		}
	}
	return best
}
