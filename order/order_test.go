package order_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/room4-2/tablemate/dataset"
	"github.com/room4-2/tablemate/order"
)

func testData() []dataset.Restaurant {
	return []dataset.Restaurant{
		{
			dataset.FieldName: "la tasca", dataset.FieldFood: "spanish",
			dataset.FieldPriceRange: "cheap", dataset.FieldArea: "centre",
			dataset.FieldPhone: "01223 464630", dataset.FieldFoodQuality: "good",
			dataset.FieldDiet: "meat",
		},
		{
			dataset.FieldName: "golden wok", dataset.FieldFood: "chinese",
			dataset.FieldPriceRange: "cheap", dataset.FieldArea: "north",
		},
		{
			dataset.FieldName: "cote", dataset.FieldFood: "french",
			dataset.FieldPriceRange: "expensive", dataset.FieldArea: "centre",
		},
		{
			dataset.FieldName: "la margherita", dataset.FieldFood: "italian",
			dataset.FieldPriceRange: "cheap", dataset.FieldArea: "west",
		},
	}
}

func TestProcessInformAccumulatesSlots(t *testing.T) {
	ord := order.New(testData(), nil, 3)

	changes := ord.ProcessInform("i want spanish food")
	require.Len(t, changes, 1)
	assert.Equal(t, order.Change{Field: dataset.FieldFood, Value: "spanish"}, changes[0])
	assert.Equal(t, []dataset.Field{dataset.FieldPriceRange, dataset.FieldArea}, ord.EmptyPreferences())

	// A later inform fills other slots without clobbering the first
	ord.ProcessInform("something cheap in the centre")
	assert.Equal(t, "spanish", ord.Preference(dataset.FieldFood))
	assert.Equal(t, "cheap", ord.Preference(dataset.FieldPriceRange))
	assert.Equal(t, "centre", ord.Preference(dataset.FieldArea))
	assert.Empty(t, ord.EmptyPreferences())

	options := ord.Options()
	require.Len(t, options, 1)
	assert.Equal(t, "la tasca", options[0].Name())
}

func TestProcessInformRepeatedValueIsNotAChange(t *testing.T) {
	ord := order.New(testData(), nil, 3)

	ord.ProcessInform("spanish food")
	changes := ord.ProcessInform("spanish food")
	assert.Empty(t, changes)
	assert.Equal(t, "spanish", ord.Preference(dataset.FieldFood))
}

func TestOptionsMatchAllSetPreferences(t *testing.T) {
	ord := order.New(testData(), nil, 3)
	ord.ProcessInform("somewhere cheap")

	for _, r := range ord.Options() {
		assert.Equal(t, "cheap", r.Display(dataset.FieldPriceRange))
	}
	assert.Len(t, ord.Options(), 3)
}

func TestOptionsEmptyOnConflict(t *testing.T) {
	ord := order.New(testData(), nil, 3)
	ord.ProcessInform("spanish food in the north")
	assert.Empty(t, ord.Options())
}

func TestGetRecommendationNeverRepeats(t *testing.T) {
	ord := order.New(testData(), nil, 3)
	ord.ProcessInform("something cheap")

	seen := map[string]struct{}{}
	for i := 0; i < 3; i++ {
		rec := ord.GetRecommendation()
		require.NotNil(t, rec)
		_, dup := seen[rec.Name()]
		assert.False(t, dup, "recommendation %q offered twice", rec.Name())
		seen[rec.Name()] = struct{}{}
	}

	// Exhausted: the previous recommendation is returned unchanged
	last := ord.Recommendation()
	assert.True(t, ord.GetRecommendation().Same(last))
}

func TestGetRecommendationNoCandidates(t *testing.T) {
	ord := order.New(testData(), nil, 3)
	ord.ProcessInform("spanish food in the north")
	assert.Nil(t, ord.GetRecommendation())
}

func TestSetRecommendation(t *testing.T) {
	ord := order.New(testData(), nil, 3)
	ord.ProcessInform("something cheap")
	require.Len(t, ord.Options(), 3)

	err := ord.SetRecommendation(7)
	assert.ErrorIs(t, err, order.ErrNoSuchOption)
	err = ord.SetRecommendation(-1)
	assert.ErrorIs(t, err, order.ErrNoSuchOption)

	require.NoError(t, ord.SetRecommendation(1))
	assert.Equal(t, "golden wok", ord.Recommendation().Name())

	// The chosen candidate is removed from the remaining options
	for _, r := range ord.Options() {
		assert.NotEqual(t, "golden wok", r.Name())
	}
	assert.Len(t, ord.Options(), 2)
}

func TestProcessDenyClearsSlot(t *testing.T) {
	ord := order.New(testData(), nil, 3)
	ord.ProcessInform("cheap spanish food")

	changes := ord.ProcessDeny("no spanish food")
	require.Len(t, changes, 1)
	assert.Equal(t, order.Change{Field: dataset.FieldFood, Value: "spanish"}, changes[0])
	assert.Equal(t, "", ord.Preference(dataset.FieldFood))
	assert.Equal(t, "cheap", ord.Preference(dataset.FieldPriceRange))
}

func TestProcessDenyNothingUnderstood(t *testing.T) {
	ord := order.New(testData(), nil, 3)
	ord.ProcessInform("spanish food")

	changes := ord.ProcessDeny("absolutely never")
	assert.Empty(t, changes)
	assert.Equal(t, "spanish", ord.Preference(dataset.FieldFood))
}

func TestClearPreferences(t *testing.T) {
	ord := order.New(testData(), nil, 3)
	ord.ProcessInform("cheap spanish food in the centre")
	require.Empty(t, ord.EmptyPreferences())

	ord.ClearPreferences()
	assert.Equal(t, dataset.PreferenceFields, ord.EmptyPreferences())
	assert.Len(t, ord.Options(), len(testData()))
}

func TestComputeAlternativesRelaxesOneSlotAtATime(t *testing.T) {
	ord := order.New(testData(), nil, 3)
	ord.ProcessInform("spanish food in the north")
	require.Empty(t, ord.Options())

	// Relaxing the area to a sibling of north reaches la tasca in the centre;
	// no cuisine relaxation finds anything in the north.
	list := ord.ComputeAlternatives()
	require.NotEmpty(t, list)
	assert.Contains(t, list, "0: la tasca serves spanish food in the centre")

	options := ord.Options()
	require.Len(t, options, 1)
	assert.Equal(t, "la tasca", options[0].Name())
}

func TestComputeAlternativesEmpty(t *testing.T) {
	relaxations := &order.Relaxations{} // no groups, so no siblings
	ord := order.New(testData(), relaxations, 3)
	ord.ProcessInform("spanish food in the north")

	assert.Equal(t, "", ord.ComputeAlternatives())
}

func TestOrderStringRendersNoneForUnsetSlots(t *testing.T) {
	ord := order.New(testData(), nil, 3)
	assert.Equal(t, "a restaurant serving None food in the None, in the price range None", ord.String())

	ord.ProcessInform("spanish food")
	assert.Equal(t, "a restaurant serving spanish food in the None, in the price range None", ord.String())
}

func TestDescribeRestaurant(t *testing.T) {
	data := testData()

	assert.Equal(t,
		"la tasca serves spanish food in the centre, the prices are cheap, the food quality is good and there are meat options.",
		order.DescribeRestaurant(data[0]))

	// Missing auxiliary columns are simply left out
	assert.Equal(t,
		"golden wok serves chinese food in the north, the prices are cheap.",
		order.DescribeRestaurant(data[1]))
}

func TestSiblings(t *testing.T) {
	relaxations := order.DefaultRelaxations()

	siblings := relaxations.Siblings(dataset.FieldPriceRange, "moderate")
	assert.Equal(t, []string{"cheap", "expensive"}, siblings)

	siblings = relaxations.Siblings(dataset.FieldArea, "north")
	assert.Equal(t, []string{"centre", "west", "east"}, siblings)

	assert.Empty(t, relaxations.Siblings(dataset.FieldFood, "klingon"))
}

func TestSetRecommendationEmptyCandidates(t *testing.T) {
	ord := order.New(testData(), nil, 3)
	ord.ProcessInform("spanish food in the north")

	err := ord.SetRecommendation(0)
	assert.True(t, errors.Is(err, order.ErrNoSuchOption))
}
