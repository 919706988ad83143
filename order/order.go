// Package order tracks the user's preferences over the course of a
// conversation, narrows the restaurant dataset to matching candidates, and
// hands out recommendations one at a time.
package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/room4-2/tablemate/dataset"
	"github.com/room4-2/tablemate/matcher"
)

// ErrNoSuchOption is returned when a choice index does not point at a
// remaining candidate.
var ErrNoSuchOption = errors.New("no option with that number")

// Change records a preference slot mutation. For inform processing Value is
// the new value; for deny processing it is the value that was cleared.
type Change struct {
	Field dataset.Field
	Value string
}

// Order holds the state of one conversation: the preference map, the shared
// dataset, the candidate set and the current recommendation. It is owned by
// exactly one conversation and is not safe for concurrent use.
type Order struct {
	prefs       map[dataset.Field]string // "" means not given yet
	data        []dataset.Restaurant
	valueOpts   map[dataset.Field][]string
	relaxations *Relaxations
	maxRecs     int

	options        []dataset.Restaurant // nil means stale, must be recomputed
	recommendation dataset.Restaurant
}

// New creates an order over the shared dataset. maxRecs bounds how many
// annotated suggestions are shown at once.
func New(data []dataset.Restaurant, relaxations *Relaxations, maxRecs int) *Order {
	if relaxations == nil {
		relaxations = DefaultRelaxations()
	}
	if maxRecs <= 0 {
		maxRecs = 3
	}

	prefs := make(map[dataset.Field]string, len(dataset.PreferenceFields))
	for _, field := range dataset.PreferenceFields {
		prefs[field] = ""
	}

	fields := append(append([]dataset.Field{}, dataset.PreferenceFields...), dataset.ExtraFields...)
	return &Order{
		prefs:       prefs,
		data:        data,
		valueOpts:   dataset.ValueOptions(data, fields),
		relaxations: relaxations,
		maxRecs:     maxRecs,
	}
}

// ValueOptions exposes the per-field legal values derived from the dataset.
// Shared read-only with the rule engine.
func (o *Order) ValueOptions() map[dataset.Field][]string {
	return o.valueOpts
}

// MaxRecommendations returns the display bound for suggestion lists.
func (o *Order) MaxRecommendations() int {
	return o.maxRecs
}

// Preference returns the current value of a slot; empty means unset.
func (o *Order) Preference(field dataset.Field) string {
	return o.prefs[field]
}

func (o *Order) literalPreferences() map[dataset.Field][]string {
	literal := make(map[dataset.Field][]string, len(dataset.PreferenceFields))
	for _, field := range dataset.PreferenceFields {
		literal[field] = o.valueOpts[field]
	}
	return literal
}

// ProcessInform extracts new slot values from the utterance and applies them.
// The candidate set and recommendation are invalidated up front since the
// preferences are about to change. Returns the applied changes; an empty list
// means nothing was recognized.
func (o *Order) ProcessInform(utterance string) []Change {
	o.Reset()

	var changes []Change
	for _, m := range matcher.FindKeywords(o.literalPreferences(), matcher.HelpWords, utterance) {
		if o.prefs[m.Field] != m.Keyword {
			changes = append(changes, Change{Field: m.Field, Value: m.Keyword})
			o.prefs[m.Field] = m.Keyword
		}
	}

	return changes
}

// ProcessDeny clears every slot the utterance refers to and returns the old
// values for user-facing confirmation. An empty list means nothing was
// understood and the caller should ask for clarification.
func (o *Order) ProcessDeny(utterance string) []Change {
	o.Reset()

	var changes []Change
	for _, m := range matcher.FindKeywords(o.literalPreferences(), matcher.HelpWords, utterance) {
		changes = append(changes, Change{Field: m.Field, Value: o.prefs[m.Field]})
		o.prefs[m.Field] = ""
	}

	return changes
}

// EmptyPreferences returns the slots without a value, in elicitation order.
func (o *Order) EmptyPreferences() []dataset.Field {
	var empty []dataset.Field
	for _, field := range dataset.PreferenceFields {
		if o.prefs[field] == "" {
			empty = append(empty, field)
		}
	}
	return empty
}

// ClearPreferences nulls every preference slot and invalidates the candidates.
func (o *Order) ClearPreferences() {
	for _, field := range dataset.PreferenceFields {
		o.prefs[field] = ""
	}
	o.Reset()
}

// Reset clears the recommendation and marks the candidate set stale. The
// preference map is untouched.
func (o *Order) Reset() {
	o.recommendation = nil
	o.options = nil
}

// matches reports whether the record satisfies every non-empty preference.
func (o *Order) matches(r dataset.Restaurant, overrides map[dataset.Field]string) bool {
	for _, field := range dataset.PreferenceFields {
		want := o.prefs[field]
		if v, ok := overrides[field]; ok {
			want = v
		}
		if want == "" {
			continue
		}
		if got, ok := r[field]; !ok || got != want {
			return false
		}
	}
	return true
}

// ComputeOptions recomputes the candidate set: every dataset record whose
// values match all non-empty preferences exactly, in dataset order. Must be
// called after any preference mutation before candidates are read.
func (o *Order) ComputeOptions() {
	options := make([]dataset.Restaurant, 0)
	for _, r := range o.data {
		if o.matches(r, nil) {
			options = append(options, r)
		}
	}
	o.options = options
}

// Options returns the current candidate set, computing it when stale.
func (o *Order) Options() []dataset.Restaurant {
	if o.options == nil {
		o.ComputeOptions()
	}
	return o.options
}

// Recommendation returns the restaurant currently being offered, or nil.
func (o *Order) Recommendation() dataset.Restaurant {
	return o.recommendation
}

// GetRecommendation pops the next candidate so repeated requests surface new
// options. When the candidates are exhausted the previous recommendation is
// returned unchanged; the caller tells "no options ever" from "no new
// options" by whether a recommendation already existed.
func (o *Order) GetRecommendation() dataset.Restaurant {
	if o.options == nil {
		o.ComputeOptions()
	}
	if len(o.options) > 0 {
		o.recommendation = o.options[0]
		o.options = o.options[1:]
	}
	return o.recommendation
}

// SetRecommendation selects a candidate by its displayed index and removes it
// from the candidate set.
func (o *Order) SetRecommendation(index int) error {
	if o.options == nil {
		o.ComputeOptions()
	}
	if index < 0 || index >= len(o.options) {
		return fmt.Errorf("%w: %d", ErrNoSuchOption, index)
	}
	o.recommendation = o.options[index]
	o.options = append(o.options[:index:index], o.options[index+1:]...)
	return nil
}

// ComputeAlternatives relaxes each set preference to its sibling values and
// unions the resulting matches into a new candidate set. Returns a numbered
// display list, or "" when even the relaxed queries come up empty.
func (o *Order) ComputeAlternatives() string {
	seen := make(map[string]struct{})
	alternatives := make([]dataset.Restaurant, 0)

	for _, field := range dataset.PreferenceFields {
		pref := o.prefs[field]
		if pref == "" {
			continue
		}
		for _, sibling := range o.relaxations.Siblings(field, pref) {
			for _, r := range o.data {
				if !o.matches(r, map[dataset.Field]string{field: sibling}) {
					continue
				}
				if _, dup := seen[r.Name()]; dup {
					continue
				}
				seen[r.Name()] = struct{}{}
				alternatives = append(alternatives, r)
			}
		}
	}

	if len(alternatives) == 0 {
		return ""
	}

	o.options = alternatives
	o.recommendation = nil

	var b strings.Builder
	for i, r := range alternatives {
		fmt.Fprintf(&b, "%d: %s\n", i, DescribeRestaurant(r))
	}
	return b.String()
}

// String renders the canonical order description. Unset slots show as the
// literal None.
func (o *Order) String() string {
	display := func(field dataset.Field) string {
		if v := o.prefs[field]; v != "" {
			return v
		}
		return "None"
	}
	return fmt.Sprintf("a restaurant serving %s food in the %s, in the price range %s",
		display(dataset.FieldFood), display(dataset.FieldArea), display(dataset.FieldPriceRange))
}

// DescribeRestaurant renders the long-form sentence for a single record,
// including the extra-requirement columns when available.
func DescribeRestaurant(r dataset.Restaurant) string {
	s := fmt.Sprintf("%s serves %s food in the %s, the prices are %s",
		r.Name(), r.Display(dataset.FieldFood), r.Display(dataset.FieldArea),
		r.Display(dataset.FieldPriceRange))
	if quality, ok := r.Value(dataset.FieldFoodQuality); ok {
		s += fmt.Sprintf(", the food quality is %s", quality)
	}
	if diet, ok := r.Value(dataset.FieldDiet); ok {
		s += fmt.Sprintf(" and there are %s options", diet)
	}
	return s + "."
}
