package dataset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/room4-2/tablemate/dataset"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRestaurants(t *testing.T) {
	csv := "restaurantname,pricerange,area,food,phone,addr,postcode,food_quality,diet\n" +
		"la tasca,cheap,centre,spanish,01223 464630,14 bridge street,cb2 1uf,good,meat\n" +
		"golden wok,cheap,north,chinese,,191 histon road,,,\n" +
		"cote,expensive,centre,french\n"
	path := writeTempFile(t, "restaurants.csv", csv)

	restaurants, err := dataset.LoadRestaurants(path)
	require.NoError(t, err)
	require.Len(t, restaurants, 3)

	// Record order matches file order
	assert.Equal(t, "la tasca", restaurants[0].Name())
	assert.Equal(t, "golden wok", restaurants[1].Name())
	assert.Equal(t, "cote", restaurants[2].Name())

	// Empty cells and missing trailing columns become absent keys
	_, ok := restaurants[1].Value(dataset.FieldPhone)
	assert.False(t, ok, "empty phone cell should be absent")
	_, ok = restaurants[2].Value(dataset.FieldPhone)
	assert.False(t, ok, "missing trailing column should be absent")

	assert.Equal(t, "unknown", restaurants[1].Display(dataset.FieldPhone))
	assert.Equal(t, "191 histon road", restaurants[1].Display(dataset.FieldAddr))
}

func TestLoadRestaurantsMissingFile(t *testing.T) {
	_, err := dataset.LoadRestaurants(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestValueOptionsSortedDistinct(t *testing.T) {
	restaurants := []dataset.Restaurant{
		{dataset.FieldFood: "spanish", dataset.FieldArea: "centre"},
		{dataset.FieldFood: "chinese", dataset.FieldArea: "north"},
		{dataset.FieldFood: "spanish"},
	}

	options := dataset.ValueOptions(restaurants, []dataset.Field{dataset.FieldFood, dataset.FieldArea})
	assert.Equal(t, []string{"chinese", "spanish"}, options[dataset.FieldFood])
	assert.Equal(t, []string{"centre", "north"}, options[dataset.FieldArea])
}

func TestRestaurantSame(t *testing.T) {
	a := dataset.Restaurant{dataset.FieldName: "la tasca", dataset.FieldArea: "centre"}
	b := dataset.Restaurant{dataset.FieldName: "la tasca"}
	c := dataset.Restaurant{dataset.FieldName: "cote"}

	assert.True(t, a.Same(b))
	assert.False(t, a.Same(c))
	assert.False(t, a.Same(nil))
}

func TestLoadDialogData(t *testing.T) {
	content := "hello Hi there\n" +
		"inform i want CHEAP food\n" +
		"malformedline\n" +
		"\n" +
		"bye goodbye\n"
	path := writeTempFile(t, "dialogs.dat", content)

	data, err := dataset.LoadDialogData(path)
	require.NoError(t, err)
	require.Len(t, data, 3)

	assert.Equal(t, "hello", data[0].Label)
	assert.Equal(t, "hi there", data[0].Utterance, "utterances are lowercased")
	assert.Equal(t, dataset.LabeledUtterance{Label: "inform", Utterance: "i want cheap food"}, data[1])
	assert.Equal(t, "bye", data[2].Label)
}

func TestSplitDialogData(t *testing.T) {
	data := []dataset.LabeledUtterance{
		{Label: "hello", Utterance: "hi"},
		{Label: "inform", Utterance: "cheap food"},
		{Label: "inform", Utterance: "spanish food"},
		{Label: "bye", Utterance: "goodbye"},
	}

	train, test := dataset.SplitDialogData(data, 0.75)
	assert.Len(t, train, 3)
	assert.Len(t, test, 1)
	assert.Equal(t, "bye", test[0].Label)

	train, test = dataset.SplitDialogData(data, 2.0)
	assert.Len(t, train, 4)
	assert.Empty(t, test)

	train, test = dataset.SplitDialogData(data, -1)
	assert.Empty(t, train)
	assert.Len(t, test, 4)
}
