// Package validate rejects malformed or unsafe topic strings before they
// reach the cache or network layers.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/ports"
)

type suspiciousPattern struct {
	re     *regexp.Regexp
	reason string
}

// suspiciousPatterns covers injection-shaped input. A topic is prose, so
// anything resembling executable markup is rejected outright.
var suspiciousPatterns = []suspiciousPattern{
	{regexp.MustCompile(`(?i)<\s*script`), "script tag"},
	{regexp.MustCompile(`(?i)javascript\s*:`), "javascript URI"},
	{regexp.MustCompile(`(?i)\bon\w+\s*=`), "inline event handler"},
	{regexp.MustCompile(`(?i)\beval\s*\(`), "eval call"},
	{regexp.MustCompile(`(?i)\bfunction\s*\(`), "function literal"},
	{regexp.MustCompile(`(?i)\balert\s*\(`), "alert call"},
}

var letterRe = regexp.MustCompile(`[a-zA-Z]`)

// Topic checks a raw topic string against the ordered rule set (first
// failure wins) and returns the trimmed topic on success. All failures are
// *domain.ValidationError.
func Topic(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &domain.ValidationError{Reason: "topic is empty"}
	}
	length := len([]rune(trimmed))
	if length < domain.MinTopicLength {
		return "", &domain.ValidationError{
			Reason: fmt.Sprintf("topic too short (minimum %d characters)", domain.MinTopicLength),
		}
	}
	if length > domain.MaxTopicLength {
		return "", &domain.ValidationError{
			Reason: fmt.Sprintf("topic too long (maximum %d characters)", domain.MaxTopicLength),
		}
	}
	if !letterRe.MatchString(trimmed) {
		return "", &domain.ValidationError{Reason: "topic needs at least one letter"}
	}
	for _, pattern := range suspiciousPatterns {
		if pattern.re.MatchString(trimmed) {
			return "", &domain.ValidationError{Reason: "suspicious input: " + pattern.reason}
		}
	}
	return trimmed, nil
}

// TopicValidator adapts Topic to the ports.Validator interface.
type TopicValidator struct{}

// Validate implements ports.Validator.
func (TopicValidator) Validate(raw string) (string, error) {
	return Topic(raw)
}

var _ ports.Validator = TopicValidator{}
