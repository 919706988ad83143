package order

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/room4-2/tablemate/dataset"
)

// Relaxations groups slot values that are acceptable substitutes for each
// other when an exact query comes up empty. The groupings are data, not law:
// they can be overridden from a YAML file.
type Relaxations struct {
	Food       [][]string `yaml:"food"`
	PriceRange [][]string `yaml:"pricerange"`
	Area       [][]string `yaml:"area"`
}

// DefaultRelaxations returns the built-in groupings: six cuisine clusters,
// overlapping price bands and quadrant groupings around the centre.
func DefaultRelaxations() *Relaxations {
	return &Relaxations{
		Food: [][]string{
			{"thai", "chinese", "korean", "vietnamese", "asian oriental"},
			{"mediterranean", "spanish", "portuguese", "italian", "romanian", "tuscan", "catalan"},
			{"french", "european", "bistro", "swiss", "gastropub", "traditional"},
			{"north american", "steakhouse", "british"},
			{"lebanese", "turkish", "persian"},
			{"international", "modern european", "fusion"},
		},
		PriceRange: [][]string{
			{"cheap", "moderate"},
			{"moderate", "expensive"},
		},
		Area: [][]string{
			{"centre", "north", "west"},
			{"centre", "north", "east"},
			{"centre", "south", "west"},
			{"centre", "south", "east"},
		},
	}
}

// LoadRelaxations reads relaxation groupings from a YAML file. An empty path
// yields the defaults.
func LoadRelaxations(path string) (*Relaxations, error) {
	if path == "" {
		return DefaultRelaxations(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read relaxations: %w", err)
	}

	var r Relaxations
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("failed to parse relaxations: %w", err)
	}
	return &r, nil
}

func (r *Relaxations) groups(field dataset.Field) [][]string {
	switch field {
	case dataset.FieldFood:
		return r.Food
	case dataset.FieldPriceRange:
		return r.PriceRange
	case dataset.FieldArea:
		return r.Area
	default:
		return nil
	}
}

// Siblings returns every value that shares a group with the given value,
// excluding the value itself, deduplicated in group order.
func (r *Relaxations) Siblings(field dataset.Field, value string) []string {
	var siblings []string
	seen := map[string]struct{}{value: {}}
	for _, group := range r.groups(field) {
		if !contains(group, value) {
			continue
		}
		for _, v := range group {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			siblings = append(siblings, v)
		}
	}
	return siblings
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
