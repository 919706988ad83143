// Package reasoning derives secondary restaurant attributes (romantic, busy,
// and so on) from implication rules, using forward chaining to a fixed point
// per restaurant.
package reasoning

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/room4-2/tablemate/dataset"
)

// DerivedAttributes are the boolean properties rules can infer. They never
// appear in the dataset itself.
var DerivedAttributes = []string{"romantic", "children", "long time", "busy", "big portions", "healthy"}

// Condition is one antecedent requirement: a dataset field equal to a string
// value, or a derived attribute equal to a boolean.
type Condition struct {
	Key   string
	Value any // string for dataset fields, bool for derived attributes
}

// Rule is an implication over restaurant attributes. Antecedents may refer to
// other rules' consequents, which is why application must iterate.
type Rule struct {
	ID         int
	Antecedent []Condition
	Consequent string
	Value      bool
}

// Request is an attribute the user explicitly asked about.
type Request struct {
	Attr  string
	Value bool
}

// Verdict reports whether a rule's consequent satisfies a request.
type Verdict struct {
	Attr    string
	Matches bool
}

// Row is a restaurant under inference: the immutable record plus the derived
// attributes set so far this turn.
type Row struct {
	Restaurant dataset.Restaurant
	Derived    map[string]bool
}

// NewRow wraps a record with an empty derived-attribute map.
func NewRow(r dataset.Restaurant) *Row {
	return &Row{Restaurant: r, Derived: make(map[string]bool)}
}

func (row *Row) holds(c Condition) bool {
	switch want := c.Value.(type) {
	case string:
		got, ok := row.Restaurant[dataset.Field(c.Key)]
		return ok && got == want
	case bool:
		got, ok := row.Derived[c.Key]
		return ok && got == want
	default:
		return false
	}
}

// Apply checks the rule against the row. It reports whether the consequent is
// newly derivable (the caller writes it onto the row), and a verdict when the
// consequent is among the requested attributes.
func (rule *Rule) Apply(row *Row, requests []Request) (newlySet bool, verdict *Verdict) {
	for _, c := range rule.Antecedent {
		if !row.holds(c) {
			return false, nil
		}
	}

	_, alreadySet := row.Derived[rule.Consequent]
	newlySet = !alreadySet

	for _, req := range requests {
		if req.Attr == rule.Consequent {
			verdict = &Verdict{Attr: rule.Consequent, Matches: rule.Value == req.Value}
		}
	}

	return newlySet, verdict
}

func (rule *Rule) String() string {
	parts := make([]string, 0, len(rule.Antecedent))
	for _, c := range rule.Antecedent {
		parts = append(parts, fmt.Sprintf("%s is %v", strings.ReplaceAll(c.Key, "_", " "), c.Value))
	}
	return fmt.Sprintf("Rule %d: %s implies %s is %v",
		rule.ID, strings.Join(parts, " and "), rule.Consequent, rule.Value)
}

// DefaultRules returns the built-in rule table.
func DefaultRules() []*Rule {
	return []*Rule{
		{ID: 1, Antecedent: []Condition{{"pricerange", "cheap"}, {"food_quality", "good"}}, Consequent: "busy", Value: true},
		{ID: 2, Antecedent: []Condition{{"food", "spanish"}}, Consequent: "long time", Value: true},
		{ID: 3, Antecedent: []Condition{{"busy", true}}, Consequent: "long time", Value: true},
		{ID: 4, Antecedent: []Condition{{"long time", true}}, Consequent: "children", Value: false},
		{ID: 5, Antecedent: []Condition{{"busy", true}}, Consequent: "romantic", Value: false},
		{ID: 6, Antecedent: []Condition{{"long time", true}}, Consequent: "romantic", Value: true},
		{ID: 7, Antecedent: []Condition{{"food", "french"}}, Consequent: "big portions", Value: false},
		{ID: 8, Antecedent: []Condition{{"food", "chinese"}}, Consequent: "big portions", Value: true},
		{ID: 9, Antecedent: []Condition{{"food_quality", "good"}, {"pricerange", "moderate"}}, Consequent: "big portions", Value: true},
		{ID: 10, Antecedent: []Condition{{"diet", "meat"}, {"pricerange", "cheap"}}, Consequent: "big portions", Value: true},
		{ID: 11, Antecedent: []Condition{{"area", "centre"}, {"diet", "vegan"}}, Consequent: "busy", Value: true},
		{ID: 12, Antecedent: []Condition{{"big portions", true}, {"diet", "meat"}}, Consequent: "healthy", Value: false},
		{ID: 13, Antecedent: []Condition{{"diet", "vegetarian"}}, Consequent: "healthy", Value: true},
		{ID: 14, Antecedent: []Condition{{"healthy", true}}, Consequent: "children", Value: true},
		{ID: 15, Antecedent: []Condition{{"big portions", true}, {"children", true}}, Consequent: "long time", Value: true},
		{ID: 16, Antecedent: []Condition{{"diet", "vegan"}, {"big portions", true}}, Consequent: "healthy", Value: true},
	}
}

type ruleSpec struct {
	ID    int            `yaml:"id"`
	When  map[string]any `yaml:"when"`
	Then  string         `yaml:"then"`
	Value bool           `yaml:"value"`
}

type ruleFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

var derivedSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(DerivedAttributes))
	for _, a := range DerivedAttributes {
		s[a] = struct{}{}
	}
	return s
}()

// LoadRules reads a rule table from a YAML file. An empty path yields the
// built-in defaults. A malformed table is a hard failure: it is a programming
// or deployment error, not a dialog condition.
func LoadRules(path string) ([]*Rule, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	rules := make([]*Rule, 0, len(file.Rules))
	for _, spec := range file.Rules {
		if _, ok := derivedSet[spec.Then]; !ok {
			return nil, fmt.Errorf("rule %d: unknown consequent %q", spec.ID, spec.Then)
		}
		rule := &Rule{ID: spec.ID, Consequent: spec.Then, Value: spec.Value}

		keys := make([]string, 0, len(spec.When))
		for key := range spec.When {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			switch value := spec.When[key].(type) {
			case string, bool:
				rule.Antecedent = append(rule.Antecedent, Condition{Key: key, Value: value})
			default:
				return nil, fmt.Errorf("rule %d: condition %q must be a string or bool", spec.ID, key)
			}
		}
		if len(rule.Antecedent) == 0 {
			return nil, fmt.Errorf("rule %d has no antecedent", spec.ID)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}
