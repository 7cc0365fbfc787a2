package search

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
)

// newDryRunDB returns a gorm handle that renders SQL without executing it.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return gdb
}

func buildSQL(t *testing.T, spec FilterSpec) (string, []interface{}) {
	t.Helper()
	return buildWith(t, spec, Apply)
}

func buildWith(t *testing.T, spec FilterSpec, apply func(*gorm.DB, FilterSpec) *gorm.DB) (string, []interface{}) {
	t.Helper()

	var out []model.Property
	tx := apply(newDryRunDB(t).Model(&model.Property{}), spec).Find(&out)
	require.NoError(t, tx.Error)
	return tx.Statement.SQL.String(), tx.Statement.Vars
}

func TestApplyRangeBounds(t *testing.T) {
	sql, vars := buildSQL(t, FilterSpec{
		"min_price": 1000000.0,
		"max_price": 5000000.0,
	})

	assert.Contains(t, sql, "price >=")
	assert.Contains(t, sql, "price <=")
	assert.Contains(t, vars, 1000000.0)
	assert.Contains(t, vars, 5000000.0)
}

func TestApplyTextContainsEscapesPattern(t *testing.T) {
	sql, vars := buildSQL(t, FilterSpec{"city": "100% Nairobi_West"})

	assert.Contains(t, sql, "city ILIKE")
	assert.Contains(t, vars, `%100\% Nairobi\_West%`)
}

func TestApplyZipCodeIsExact(t *testing.T) {
	sql, vars := buildSQL(t, FilterSpec{"zip_code": "00100"})

	assert.Contains(t, sql, "zip_code =")
	assert.NotContains(t, sql, "zip_code ILIKE")
	assert.Contains(t, vars, "00100")
}

func TestApplyMembership(t *testing.T) {
	sql, _ := buildSQL(t, FilterSpec{"property_type": []string{"land", "rental"}})

	assert.Contains(t, sql, "property_type IN")
}

func TestApplyExplicitFalseFilters(t *testing.T) {
	sql, vars := buildSQL(t, FilterSpec{"has_borehole": false})

	assert.Contains(t, sql, "has_borehole =")
	assert.Contains(t, vars, false)
}

func TestApplyDerivedWaterPredicate(t *testing.T) {
	sql, _ := buildSQL(t, FilterSpec{"has_water": true})

	assert.Contains(t, sql, "has_borehole =")
	assert.Contains(t, sql, "has_piped_water =")
	assert.Contains(t, sql, "jsonb_array_length(COALESCE(water_supply_types, '[]'::jsonb)) > 0")
}

func TestApplyDerivedFalseIsNoOp(t *testing.T) {
	sql, _ := buildSQL(t, FilterSpec{"has_water": false})

	assert.NotContains(t, sql, "has_borehole")
	assert.NotContains(t, sql, "water_supply_types")
}

func TestApplyDerivedElectricity(t *testing.T) {
	sql, vars := buildSQL(t, FilterSpec{"has_electricity": true})

	assert.Contains(t, sql, "electricity_availability IN")
	assert.Contains(t, vars, "on_site")
	assert.Contains(t, vars, "nearby")
}

func TestApplyDistanceCapKeepsUnknownDistances(t *testing.T) {
	sql, _ := buildSQL(t, FilterSpec{"max_distance_to_road": 2.0})

	assert.Contains(t, sql, "distance_to_main_road <=")
	assert.Contains(t, sql, "distance_to_main_road IS NULL")
}

func TestApplyLocationSearchesFixedFieldSet(t *testing.T) {
	sql, vars := buildSQL(t, FilterSpec{"location": "Kiambu"})

	for _, field := range []string{"city", "state", "address", "landmarks", "zip_code"} {
		assert.Contains(t, sql, field+" ILIKE")
	}
	assert.Contains(t, vars, "%Kiambu%")
}

func TestApplyMultiValuedSubstring(t *testing.T) {
	sql, vars := buildSQL(t, FilterSpec{"road_access_type": []string{"tarmac", "murram"}})

	assert.Contains(t, sql, "road_access_type ILIKE")
	assert.Contains(t, sql, " OR ")
	assert.Contains(t, vars, "%tarmac%")
	assert.Contains(t, vars, "%murram%")
}

func TestApplyIgnoresUnregisteredKeys(t *testing.T) {
	base, _ := buildSQL(t, FilterSpec{})
	withBogus, _ := buildSQL(t, FilterSpec{"bogus": "x"})

	assert.Equal(t, base, withBogus)
}

func TestApplyLandPinsType(t *testing.T) {
	sql, vars := buildWith(t, FilterSpec{"min_price": 500000.0}, ApplyLand)

	assert.Contains(t, sql, "property_type =")
	assert.Contains(t, vars, "land")
	assert.Contains(t, sql, "price >=")
}

func TestApplyMapRestrictsParamsAndProjection(t *testing.T) {
	sql, vars := buildWith(t, FilterSpec{
		"city":         "Nakuru",
		"min_bedrooms": 3.0, // not a map parameter
		"max_price":    9000000.0,
	}, ApplyMap)

	assert.Contains(t, sql, "latitude IS NOT NULL AND longitude IS NOT NULL")
	assert.Contains(t, sql, "city =")
	assert.NotContains(t, sql, "bedrooms")
	assert.Contains(t, vars, "Nakuru")
	assert.Contains(t, vars, 9000000.0)

	for _, col := range MapColumns {
		assert.Contains(t, sql, col)
	}
}

func TestApplySearchRestrictsParams(t *testing.T) {
	sql, _ := buildWith(t, FilterSpec{
		"search":    "beach plot",
		"min_price": 100000.0, // not a search parameter
	}, ApplySearch)

	assert.Contains(t, sql, "title ILIKE")
	assert.Contains(t, sql, "plot_dimensions ILIKE")
	assert.NotContains(t, sql, "price >=")
}

func TestRegisterOverridesParameter(t *testing.T) {
	Register("zoning", Text, func(tx *gorm.DB, v interface{}) *gorm.DB {
		return tx.Where("zoning = ?", v)
	})
	t.Cleanup(func() {
		Register("zoning", Text, contains("zoning"))
	})

	sql, _ := buildSQL(t, FilterSpec{"zoning": "residential"})
	assert.Contains(t, sql, "zoning =")
	assert.NotContains(t, sql, "zoning ILIKE")
}
