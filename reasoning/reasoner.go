package reasoning

import (
	"fmt"
	"sort"
	"strings"

	"github.com/room4-2/tablemate/dataset"
	"github.com/room4-2/tablemate/matcher"
	"github.com/room4-2/tablemate/order"
)

// Engine applies a fixed rule table to candidate restaurants. The table is
// immutable after construction and safe to share across conversations.
type Engine struct {
	rules []*Rule
}

// NewEngine creates an engine over the given rules, or the defaults when nil.
func NewEngine(rules []*Rule) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

// Rules exposes the rule table, for diagnostics.
func (e *Engine) Rules() []*Rule {
	return e.rules
}

// extractRequests pulls the extra requirements out of the utterance: exact or
// fuzzy matches on the auxiliary columns, plus containment checks against the
// derived-attribute vocabulary.
func extractRequests(utterance string, valueOpts map[dataset.Field][]string) (columns []matcher.Match, derived []Request) {
	literal := make(map[dataset.Field][]string, len(dataset.ExtraFields))
	help := make(map[dataset.Field][]string, len(dataset.ExtraFields))
	for _, field := range dataset.ExtraFields {
		literal[field] = valueOpts[field]
		help[field] = matcher.HelpWords[field]
	}
	columns = matcher.FindKeywords(literal, help, utterance)

	for _, attr := range DerivedAttributes {
		if strings.Contains(utterance, attr) {
			derived = append(derived, Request{Attr: attr, Value: true})
		}
	}

	return columns, derived
}

// ProcessExtra evaluates the user's extra requirements against each
// candidate. Every candidate gets a description headed by its choice index;
// where a requested attribute is decided, the applied rule chain and a
// recommended / not recommended verdict follow. The results are ranked by
// verdict favorability and capped at maxResults.
func (e *Engine) ProcessExtra(utterance string, candidates []dataset.Restaurant, valueOpts map[dataset.Field][]string, maxResults int) []string {
	columnRequests, derivedRequests := extractRequests(utterance, valueOpts)

	type ranked struct {
		text  string
		score int
	}
	results := make([]ranked, 0, len(candidates))

	for i, r := range candidates {
		var b strings.Builder
		fmt.Fprintf(&b, "%d: %s\n", i, order.DescribeRestaurant(r))
		score := 0

		if match, ok := directMatch(r, columnRequests); ok {
			fmt.Fprintf(&b, "%s is recommended, based on preference %s.\n", r.Name(), match.Keyword)
			score = 1
		} else {
			score = e.chain(&b, NewRow(r), derivedRequests)
		}

		results = append(results, ranked{text: b.String(), score: score})
	}

	// Stable sort keeps candidate order among equal verdicts.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	texts := make([]string, len(results))
	for i, res := range results {
		texts[i] = res.text
	}
	return texts
}

// directMatch reports a requested auxiliary column the record satisfies
// outright, short-circuiting any rule chaining.
func directMatch(r dataset.Restaurant, requests []matcher.Match) (matcher.Match, bool) {
	for _, req := range requests {
		if got, ok := r[req.Field]; ok && got == req.Keyword {
			return req, true
		}
	}
	return matcher.Match{}, false
}

// chain runs the forward-chaining loop for one restaurant: full passes over
// the rule table, writing newly derivable attributes immediately, until a
// requested attribute gets a verdict or a pass makes no progress. Returns 1
// for recommended, -1 for not recommended, 0 for no verdict.
func (e *Engine) chain(b *strings.Builder, row *Row, requests []Request) int {
	var applied []*Rule

	for progress := true; progress; {
		progress = false
		for _, rule := range e.rules {
			newlySet, verdict := rule.Apply(row, requests)

			if verdict != nil {
				applied = append(applied, rule)
				b.WriteString("Rules applied:\n")
				for _, ap := range applied {
					b.WriteString(ap.String() + "\n")
				}
				not := ""
				score := 1
				if !verdict.Matches {
					not = "not "
					score = -1
				}
				fmt.Fprintf(b, "%s is %srecommended, based on preference %s.\n",
					row.Restaurant.Name(), not, rule.Consequent)
				return score
			}

			if newlySet {
				row.Derived[rule.Consequent] = rule.Value
				applied = append(applied, rule)
				progress = true
			}
		}
	}

	return 0
}
