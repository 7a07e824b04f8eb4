package domain

import "time"

// HistoryEntry captures one previously completed explanation request.
// Explanation may be empty for lightweight recent-search entries that never
// completed; such entries are ignored by the cache lookup.
type HistoryEntry struct {
	ID             int64     `json:"id"`
	Topic          string    `json:"topic"`
	Level          Level     `json:"level"`
	Explanation    string    `json:"explanation,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Cached         bool      `json:"cached"`
	ResponseTimeMS int64     `json:"response_time_ms,omitempty"`
	TokenCount     int       `json:"token_count,omitempty"`
}

// History is the capped, most-recent-first collection of past requests.
type History struct {
	Entries []HistoryEntry
	Max     int
}

// Insert prepends entry, evicting any older entry with the same canonical
// topic and level, then truncates to Max. canon maps a topic onto its
// comparison key; a nil canon compares raw topics.
func (h *History) Insert(entry HistoryEntry, canon func(string) string) {
	if canon == nil {
		canon = func(s string) string { return s }
	}
	key := canon(entry.Topic)
	kept := make([]HistoryEntry, 0, len(h.Entries)+1)
	kept = append(kept, entry)
	for _, existing := range h.Entries {
		if existing.Level == entry.Level && canon(existing.Topic) == key {
			continue
		}
		kept = append(kept, existing)
	}
	max := h.Max
	if max <= 0 {
		max = DefaultHistoryMax
	}
	if len(kept) > max {
		kept = kept[:max]
	}
	h.Entries = kept
}
