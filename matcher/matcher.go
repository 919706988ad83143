// Package matcher extracts slot values and requested fields from free text.
// It first looks for exact token matches against the legal values of each
// field, then falls back to Levenshtein matching when the field is mentioned
// by a trigger word but the value itself is misspelled.
package matcher

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/room4-2/tablemate/dataset"
)

// MatchDistance is the maximum edit distance for a fuzzy value match.
const MatchDistance = 2

// Match pairs a field with the value token it was matched to.
type Match struct {
	Field   dataset.Field
	Keyword string
}

// HelpWords maps each field to trigger words that indicate the field is being
// talked about without naming a legal value outright.
var HelpWords = map[dataset.Field][]string{
	dataset.FieldPriceRange:  {"cost", "price", "priced", "range"},
	dataset.FieldArea:        {"area", "part", "in"},
	dataset.FieldFood:        {"food", "cuisine", "serving", "serve"},
	dataset.FieldPhone:       {"phone", "number"},
	dataset.FieldAddr:        {"address", "location", "where"},
	dataset.FieldPostcode:    {"postcode", "postal", "code"},
	dataset.FieldFoodQuality: {"quality", "cooked"},
	dataset.FieldDiet:        {"diet", "dietary", "options"},
}

// FindKeywords matches the utterance against the literal values of each field
// in literalMatch. A field matches at most once: an exact token match wins,
// otherwise a trigger word from helpMatch enables fuzzy matching of the
// closest literal within MatchDistance. The result order follows the
// canonical field order, so identical inputs always yield identical output.
func FindKeywords(literalMatch map[dataset.Field][]string, helpMatch map[dataset.Field][]string, utterance string) []Match {
	words := strings.Fields(utterance)
	fields := sortedFields(literalMatch)

	var matches []Match
	for _, field := range fields {
		if keyword, ok := exactMatch(literalMatch[field], words); ok {
			matches = append(matches, Match{Field: field, Keyword: keyword})
			continue
		}
		helpWords, ok := helpMatch[field]
		if !ok || !containsAny(words, helpWords) {
			continue
		}
		if literal, ok := closestLiteral(literalMatch[field], words); ok {
			matches = append(matches, Match{Field: field, Keyword: literal})
		}
	}

	return matches
}

func sortedFields(literalMatch map[dataset.Field][]string) []dataset.Field {
	fields := make([]dataset.Field, 0, len(literalMatch))
	for field := range literalMatch {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool {
		return dataset.Rank(fields[i]) < dataset.Rank(fields[j])
	})
	return fields
}

func exactMatch(literals []string, words []string) (string, bool) {
	for _, literal := range literals {
		for _, word := range words {
			if word == literal {
				return literal, true
			}
		}
	}
	return "", false
}

func containsAny(words []string, candidates []string) bool {
	for _, word := range words {
		for _, c := range candidates {
			if word == c {
				return true
			}
		}
	}
	return false
}

// closestLiteral finds the literal with the smallest edit distance to any
// utterance token, accepted only within MatchDistance.
func closestLiteral(literals []string, words []string) (string, bool) {
	best := ""
	bestDistance := MatchDistance + 1
	for _, literal := range literals {
		for _, word := range words {
			if d := levenshtein.ComputeDistance(literal, word); d < bestDistance {
				bestDistance = d
				best = literal
			}
		}
	}
	return best, bestDistance <= MatchDistance
}
