// Package keyword derives a bounded set of significant terms from free text.
package keyword

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultTopN bounds the extracted keyword set when callers pass no limit.
const DefaultTopN = 10

// minTokenLen drops tokens too short to carry meaning.
const minTokenLen = 3

var wordRegex = regexp.MustCompile(`\b\w+\b`)

var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "up": {}, "about": {}, "into": {}, "through": {}, "during": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {},
	"did": {}, "will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "can": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"we": {}, "our": {}, "use": {}, "uses": {}, "using": {}, "based": {}, "approach": {},
	"method": {}, "paper": {}, "propose": {}, "proposed": {}, "show": {},
}

// Extract returns at most topN lower-cased terms from text, ranked by
// descending frequency with ties broken by first occurrence. Stopwords and
// tokens shorter than three runes are discarded. The result is deterministic
// for identical input.
func Extract(text string, topN int) []string {
	if topN <= 0 {
		topN = DefaultTopN
	}

	tokens := wordRegex.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return nil
	}

	freq := make(map[string]int)
	first := make(map[string]int)
	for i, token := range tokens {
		if len([]rune(token)) < minTokenLen {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		if _, seen := freq[token]; !seen {
			first[token] = i
		}
		freq[token]++
	}

	if len(freq) == 0 {
		return nil
	}

	terms := make([]string, 0, len(freq))
	for term := range freq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] == freq[terms[j]] {
			return first[terms[i]] < first[terms[j]]
		}
		return freq[terms[i]] > freq[terms[j]]
	})

	if len(terms) > topN {
		terms = terms[:topN]
	}
	return terms
}

// IsStopword reports whether the lower-cased token is in the fixed stopword set.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
