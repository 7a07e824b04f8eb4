// Package domain defines core business entities and value objects for clarify.
//
// This file contains the explanation request/response types and the difficulty
// level enumeration used throughout the application. The domain layer is
// independent of infrastructure concerns and represents pure business logic
// and data structures.
package domain

import (
	"context"
	"fmt"
	"strings"
)

// Level enumerates explanation depth tiers.
type Level string

const (
	LevelSimple   Level = "simple"
	LevelStudent  Level = "student"
	LevelDetailed Level = "detailed"
	LevelExpert   Level = "expert"
)

// Levels returns the supported tiers in ascending depth order.
func Levels() []Level {
	return []Level{LevelSimple, LevelStudent, LevelDetailed, LevelExpert}
}

// ParseLevel maps a user-supplied string onto a Level.
func ParseLevel(raw string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(raw))) {
	case LevelSimple:
		return LevelSimple, nil
	case LevelStudent:
		return LevelStudent, nil
	case LevelDetailed:
		return LevelDetailed, nil
	case LevelExpert:
		return LevelExpert, nil
	default:
		return "", fmt.Errorf("unknown level %q (expected one of %v)", raw, Levels())
	}
}

// ExplainRequest captures user intent originating from the CLI or an embedding UI.
type ExplainRequest struct {
	Context      context.Context
	Topic        string
	Level        Level
	ForceRefresh bool
	Debug        bool
}

// ExplainResponse is the canonical response propagated back to the caller.
type ExplainResponse struct {
	Topic          string
	Level          Level
	Explanation    string
	FromCache      bool
	Attempts       int
	ResponseTimeMS int64
	TokenCount     int
}

// ExplainService exposes the use-case boundary for handling a request.
type ExplainService interface {
	Run(ExplainRequest) (ExplainResponse, error)
}
