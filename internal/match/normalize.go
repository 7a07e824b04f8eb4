// Package match implements the topic normalization, similarity scoring,
// cache lookup and suggestion ranking used to serve prior explanations
// instead of calling the network.
package match

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	punctuationRe = regexp.MustCompile(`[.,!?;:'"()\[\]{}]`)
	separatorRe   = regexp.MustCompile(`[-_]+`)
)

// abbreviations expands common technical acronyms so that "AI" and
// "artificial intelligence" share a canonical key. Matching is whole-word:
// expansion happens per token, never inside longer words.
var abbreviations = map[string]string{
	"ai":   "artificial intelligence",
	"ml":   "machine learning",
	"dl":   "deep learning",
	"nlp":  "natural language processing",
	"llm":  "large language model",
	"cpu":  "central processing unit",
	"gpu":  "graphics processing unit",
	"api":  "application programming interface",
	"http": "hypertext transfer protocol",
	"html": "hypertext markup language",
	"css":  "cascading style sheets",
	"sql":  "structured query language",
	"db":   "database",
	"os":   "operating system",
	"ui":   "user interface",
	"ux":   "user experience",
	"js":   "javascript",
	"k8s":  "kubernetes",
	"vm":   "virtual machine",
	"iot":  "internet of things",
	"vr":   "virtual reality",
	"ar":   "augmented reality",
}

// questionPrefixes are stripped from the start of a query. Longer phrases
// come first so "can you explain" wins over "explain".
var questionPrefixes = []string{
	"can you explain",
	"could you explain",
	"please explain",
	"tell me about",
	"what is the",
	"what are the",
	"what is",
	"what are",
	"whats",
	"how does the",
	"how does",
	"how do",
	"how to",
	"why does",
	"why do",
	"why is",
	"explain the",
	"explain",
	"define",
	"describe",
}

// fillerSuffixes are trailing filler words stripped from the end of a query.
var fillerSuffixes = []string{
	"works",
	"function",
	"meaning",
	"mean",
}

// Normalize canonicalizes a free-text topic into the comparison key used by
// the cache and the suggestion ranker. It is pure, total and idempotent:
// Normalize(Normalize(x)) == Normalize(x). Empty input yields "".
//
// Stages run in order on the previous stage's output: trim and lowercase,
// collapse whitespace, strip punctuation (keeping hyphens/underscores),
// collapse hyphen/underscore runs to a space, expand whole-word
// abbreviations, strip leading question prefixes, strip trailing filler.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(raw))
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = punctuationRe.ReplaceAllString(s, "")
	s = separatorRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))

	words := strings.Fields(s)
	for i, word := range words {
		if full, ok := abbreviations[word]; ok {
			words[i] = full
		}
	}
	s = strings.Join(words, " ")

	// Strip until stable so the result never starts with a question prefix
	// or ends with filler; this keeps Normalize idempotent.
	for stripped := true; stripped; {
		stripped = false
		for _, prefix := range questionPrefixes {
			if strings.HasPrefix(s, prefix+" ") {
				s = strings.TrimPrefix(s, prefix+" ")
				stripped = true
				break
			}
		}
	}
	for stripped := true; stripped; {
		stripped = false
		for _, suffix := range fillerSuffixes {
			if strings.HasSuffix(s, " "+suffix) {
				s = strings.TrimSuffix(s, " "+suffix)
				stripped = true
				break
			}
		}
	}

	return strings.TrimSpace(s)
}
