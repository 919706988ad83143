package order_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/room4-2/tablemate/dataset"
	"github.com/room4-2/tablemate/order"
)

func TestLoadRelaxationsEmptyPathGivesDefaults(t *testing.T) {
	relaxations, err := order.LoadRelaxations("")
	require.NoError(t, err)
	assert.NotEmpty(t, relaxations.Food)
	assert.NotEmpty(t, relaxations.PriceRange)
	assert.NotEmpty(t, relaxations.Area)
}

func TestLoadRelaxationsFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relaxations.yaml")
	content := `food:
  - [spanish, italian]
pricerange:
  - [cheap, moderate]
area:
  - [centre, north]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	relaxations, err := order.LoadRelaxations(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"italian"}, relaxations.Siblings(dataset.FieldFood, "spanish"))
	assert.Equal(t, []string{"cheap"}, relaxations.Siblings(dataset.FieldPriceRange, "moderate"))
	assert.Empty(t, relaxations.Siblings(dataset.FieldArea, "south"))
}

func TestLoadRelaxationsMissingFile(t *testing.T) {
	_, err := order.LoadRelaxations(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSiblingsDeduplicatesAcrossGroups(t *testing.T) {
	relaxations := order.DefaultRelaxations()

	// "centre" appears in all four area groups; each sibling shows up once
	siblings := relaxations.Siblings(dataset.FieldArea, "centre")
	seen := map[string]int{}
	for _, s := range siblings {
		seen[s]++
	}
	for value, count := range seen {
		assert.Equal(t, 1, count, "sibling %q duplicated", value)
	}
	assert.ElementsMatch(t, []string{"north", "south", "east", "west"}, siblings)
}
