package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
)

// Field names a column of a restaurant record. The first three are the
// preference slots elicited during the dialog; food_quality and diet only
// matter for extra requirements.
type Field string

const (
	FieldName        Field = "restaurantname"
	FieldPriceRange  Field = "pricerange"
	FieldArea        Field = "area"
	FieldFood        Field = "food"
	FieldPhone       Field = "phone"
	FieldAddr        Field = "addr"
	FieldPostcode    Field = "postcode"
	FieldFoodQuality Field = "food_quality"
	FieldDiet        Field = "diet"
)

// PreferenceFields are the primary slots, in elicitation order.
var PreferenceFields = []Field{FieldFood, FieldPriceRange, FieldArea}

// ExtraFields are the auxiliary slots used for extra requirements only.
var ExtraFields = []Field{FieldFoodQuality, FieldDiet}

// fieldRank fixes a canonical ordering over all fields so that keyword
// matching and display output stay deterministic.
var fieldRank = map[Field]int{
	FieldFood:        0,
	FieldPriceRange:  1,
	FieldArea:        2,
	FieldFoodQuality: 3,
	FieldDiet:        4,
	FieldPhone:       5,
	FieldAddr:        6,
	FieldPostcode:    7,
	FieldName:        8,
}

// Rank returns the canonical position of the field, with unknown fields last.
func Rank(f Field) int {
	if r, ok := fieldRank[f]; ok {
		return r
	}
	return len(fieldRank)
}

// Restaurant is a single record. Missing values are represented by an absent
// key so that "not available" stays distinguishable from a real value.
type Restaurant map[Field]string

// Value returns the value for the field and whether it is available.
func (r Restaurant) Value(f Field) (string, bool) {
	v, ok := r[f]
	return v, ok
}

// Display returns the value for the field, or "unknown" when unavailable.
func (r Restaurant) Display(f Field) string {
	if v, ok := r[f]; ok {
		return v
	}
	return "unknown"
}

// Name returns the restaurant name, or "unknown" when unavailable.
func (r Restaurant) Name() string {
	return r.Display(FieldName)
}

// Same reports whether two records describe the same restaurant.
func (r Restaurant) Same(other Restaurant) bool {
	if r == nil || other == nil {
		return false
	}
	return r.Name() == other.Name()
}

// LoadRestaurants reads the restaurant dataset from a CSV file with a header
// row. Empty cells become absent keys. Record order is preserved; it is the
// tie-break order everywhere downstream.
func LoadRestaurants(path string) ([]Restaurant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open restaurant data: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // some rows omit trailing columns

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse restaurant data: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("restaurant data %s is empty", path)
	}

	header := make([]Field, len(rows[0]))
	for i, col := range rows[0] {
		header[i] = Field(col)
	}

	restaurants := make([]Restaurant, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(Restaurant, len(header))
		for i, cell := range row {
			if i >= len(header) || cell == "" {
				continue
			}
			record[header[i]] = cell
		}
		restaurants = append(restaurants, record)
	}

	return restaurants, nil
}

// ValueOptions builds the per-field set of legal values found in the data.
// Values are sorted so the matcher sees them in a stable order.
func ValueOptions(restaurants []Restaurant, fields []Field) map[Field][]string {
	options := make(map[Field][]string, len(fields))
	for _, field := range fields {
		seen := make(map[string]struct{})
		for _, r := range restaurants {
			if v, ok := r[field]; ok {
				seen[v] = struct{}{}
			}
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)
		options[field] = values
	}
	return options
}
