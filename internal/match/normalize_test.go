package match

import "testing"

func TestNormalizeCanonicalizesSurfaceVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"question form with acronym", "What is AI?", "artificial intelligence"},
		{"plain phrase", "artificial intelligence", "artificial intelligence"},
		{"request prefix", "can you explain quantum computing", "quantum computing"},
		{"trailing filler", "how does recursion works", "recursion"},
		{"hyphenated compound", "machine-learning", "machine learning"},
		{"underscored compound", "snake_case", "snake case"},
		{"punctuation and spacing", "  Hash   Tables!!  ", "hash tables"},
		{"abbreviation mid-phrase", "explain SQL joins", "structured query language joins"},
		{"no corruption inside words", "maintain", "maintain"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"What is AI?",
		"can you explain what is machine-learning",
		"HOW DOES the CPU works",
		"what is what is recursion",
		"explain explain",
		"plain topic",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestNormalizeEquatesQuestionAndPhrase(t *testing.T) {
	if Normalize("What is AI?") != Normalize("artificial intelligence") {
		t.Fatalf("expected %q and %q to share a key", Normalize("What is AI?"), Normalize("artificial intelligence"))
	}
}
