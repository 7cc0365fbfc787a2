package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpecIgnoresUnknownParams(t *testing.T) {
	spec, err := ParseSpec(map[string][]string{
		"bogus":     {"whatever"},
		"min_price": {"500000"},
	})
	require.NoError(t, err)

	assert.NotContains(t, spec, "bogus")
	assert.Equal(t, 500000.0, spec["min_price"])
}

func TestParseSpecEmptyValuesAreAbsent(t *testing.T) {
	spec, err := ParseSpec(map[string][]string{
		"min_price": {""},
		"city":      {"   "},
		"featured":  {""},
		"land_type": {","},
	})
	require.NoError(t, err)
	assert.Empty(t, spec)
}

func TestParseSpecNumberCoercion(t *testing.T) {
	spec, err := ParseSpec(map[string][]string{"max_price": {"2500000.50"}})
	require.NoError(t, err)
	assert.Equal(t, 2500000.50, spec["max_price"])

	_, err = ParseSpec(map[string][]string{"max_price": {"expensive"}})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "max_price", vErr.Field)
}

func TestParseSpecBoolCoercion(t *testing.T) {
	spec, err := ParseSpec(map[string][]string{
		"featured":     {"true"},
		"has_borehole": {"False"},
	})
	require.NoError(t, err)
	assert.Equal(t, true, spec["featured"])
	assert.Equal(t, false, spec["has_borehole"])

	_, err = ParseSpec(map[string][]string{"featured": {"maybe"}})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "featured", vErr.Field)
}

func TestParseSpecMultiValues(t *testing.T) {
	spec, err := ParseSpec(map[string][]string{
		"property_type": {"land,rental", "commercial"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"land", "rental", "commercial"}, spec["property_type"])
}

func TestValidateRejectsContradictoryPriceRange(t *testing.T) {
	spec := FilterSpec{"min_price": 2000000.0, "max_price": 1000000.0}

	err := spec.Validate()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "min_price", vErr.Field)
}

func TestValidateRejectsContradictorySizeRange(t *testing.T) {
	spec := FilterSpec{"min_size": 10.0, "max_size": 2.0}

	err := spec.Validate()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "min_size", vErr.Field)
}

func TestValidateAcceptsSaneRanges(t *testing.T) {
	spec := FilterSpec{
		"min_price": 1000000.0,
		"max_price": 5000000.0,
		"min_size":  0.5,
		"max_size":  10.0,
	}
	assert.NoError(t, spec.Validate())
}

func TestValidateSingleBoundIsFine(t *testing.T) {
	assert.NoError(t, FilterSpec{"min_price": 1000000.0}.Validate())
	assert.NoError(t, FilterSpec{"max_size": 5.0}.Validate())
}
