package helpers

import (
	"sort"

	"github.com/doeshing/clarify/internal/domain"
)

// TopicStatistic represents usage statistics for a topic
type TopicStatistic struct {
	Topic string
	Count int
}

// CalculateTopTopics returns the top N most frequently explained topics
// If limit is 0 or negative, returns all topics
func CalculateTopTopics(topicFrequency map[string]int, limit int) []TopicStatistic {
	stats := convertFrequencyMapToStatistics(topicFrequency)
	sortStatisticsByFrequency(stats)

	if shouldLimitResults(limit, len(stats)) {
		return stats[:limit]
	}
	return stats
}

// convertFrequencyMapToStatistics converts a map to a slice of TopicStatistic
func convertFrequencyMapToStatistics(frequency map[string]int) []TopicStatistic {
	stats := make([]TopicStatistic, 0, len(frequency))
	for topic, count := range frequency {
		stats = append(stats, TopicStatistic{
			Topic: topic,
			Count: count,
		})
	}
	return stats
}

// sortStatisticsByFrequency sorts statistics by count (descending) then by topic name (ascending)
func sortStatisticsByFrequency(stats []TopicStatistic) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Topic < stats[j].Topic
		}
		return stats[i].Count > stats[j].Count
	})
}

// shouldLimitResults checks if we should limit the results based on the limit and actual length
func shouldLimitResults(limit int, actualLength int) bool {
	return limit > 0 && actualLength > limit
}

// CalculateCacheHitRate calculates the cache hit rate as a percentage
func CalculateCacheHitRate(cachedCount int, totalCount int) float64 {
	if totalCount == 0 {
		return 0.0
	}
	return float64(cachedCount) / float64(totalCount) * 100.0
}

// CalculateAverageResponseTime averages response times over entries that
// carry one (cache hits have none)
func CalculateAverageResponseTime(entries []domain.HistoryEntry) float64 {
	var sum int64
	var count int
	for _, entry := range entries {
		if entry.ResponseTimeMS > 0 {
			sum += entry.ResponseTimeMS
			count++
		}
	}
	if count == 0 {
		return 0.0
	}
	return float64(sum) / float64(count)
}

// CountByLevel tallies entries per difficulty level
func CountByLevel(entries []domain.HistoryEntry) map[domain.Level]int {
	counts := make(map[domain.Level]int)
	for _, entry := range entries {
		counts[entry.Level]++
	}
	return counts
}
