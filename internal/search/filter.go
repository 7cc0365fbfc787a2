// Package search composes dynamic property filters. Each recognized query
// parameter maps to a predicate builder in a static registry; independent
// parameters combine with AND, multi-valued ones with OR. The engine is pure:
// it chains conditions onto the query it is handed and performs no I/O.
package search

import (
	"strings"

	"gorm.io/gorm"
)

// BuilderFunc appends one parameter's predicate onto the query.
type BuilderFunc func(tx *gorm.DB, value interface{}) *gorm.DB

type param struct {
	kind  Kind
	build BuilderFunc
}

var registry = map[string]param{
	// Ranges, each bound independent and inclusive
	"min_price":            {Number, gte("price")},
	"max_price":            {Number, lte("price")},
	"min_size":             {Number, gte("size_acres")},
	"max_size":             {Number, lte("size_acres")},
	"min_bedrooms":         {Number, gte("bedrooms")},
	"min_bathrooms":        {Number, gte("bathrooms")},
	"min_square_feet":      {Number, gte("square_feet")},
	"min_plots_available":  {Number, gte("num_plots_available")},
	"max_distance_to_road": {Number, maxDistanceToRoad},

	// Geographic text, case-insensitive substring; zip is exact
	"city":     {Text, contains("city")},
	"state":    {Text, contains("state")},
	"zoning":   {Text, contains("zoning")},
	"zip_code": {Text, exact("zip_code")},

	// Membership
	"property_type":            {Multi, in("property_type")},
	"land_type":                {Multi, in("land_type")},
	"title_deed_status":        {Multi, in("title_deed_status")},
	"electricity_availability": {Multi, in("electricity_availability")},

	// Multi-valued substring OR within the same attribute
	"road_access_type": {Multi, anyContains("road_access_type")},
	"topography":       {Multi, anyContains("topography")},
	"soil_type":        {Multi, anyContains("soil_type")},

	"plot_dimensions": {Text, contains("plot_dimensions")},

	// Plain booleans: an explicit false excludes rather than being ignored
	"featured":                 {Bool, boolEq("featured")},
	"is_negotiable":            {Bool, boolEq("is_negotiable")},
	"has_garage":               {Bool, boolEq("has_garage")},
	"has_pool":                 {Bool, boolEq("has_pool")},
	"has_garden":               {Bool, boolEq("has_garden")},
	"has_borehole":             {Bool, boolEq("has_borehole")},
	"has_piped_water":          {Bool, boolEq("has_piped_water")},
	"has_sewer_system":         {Bool, boolEq("has_sewer_system")},
	"has_drainage":             {Bool, boolEq("has_drainage")},
	"internet_availability":    {Bool, boolEq("internet_availability")},
	"has_subdivision_approval": {Bool, boolEq("has_subdivision_approval")},
	"has_beacons":              {Bool, boolEq("has_beacons")},
	"is_fenced":                {Bool, boolEq("is_fenced")},
	"is_gated_community":       {Bool, boolEq("is_gated_community")},

	// Derived booleans expand to ORs over underlying columns and only
	// fire when true
	"has_title_deed":   {Bool, whenTrue(hasTitleDeed)},
	"has_water":        {Bool, whenTrue(hasWater)},
	"has_electricity":  {Bool, whenTrue(hasElectricity)},
	"has_road_access":  {Bool, whenTrue(hasRoadAccess)},
	"has_payment_plan": {Bool, whenTrue(hasPaymentPlan)},

	// Free text across fixed field sets
	"location": {Text, textAcross(locationFields)},
	"search":   {Text, textAcross(searchFields)},
}

var locationFields = []string{"city", "state", "address", "landmarks", "zip_code"}

var searchFields = []string{
	"title", "short_description", "description", "city", "state",
	"address", "landmarks", "zoning", "plot_dimensions",
}

// Register adds a parameter to the filter table. Existing names are
// overwritten, which lets callers specialize a stock parameter.
func Register(name string, kind Kind, build BuilderFunc) {
	registry[name] = param{kind: kind, build: build}
}

// Apply chains every recognized parameter in spec onto tx.
func Apply(tx *gorm.DB, spec FilterSpec) *gorm.DB {
	for name, value := range spec {
		if p, ok := registry[name]; ok {
			tx = p.build(tx, value)
		}
	}
	return tx
}

func gte(column string) BuilderFunc {
	return func(tx *gorm.DB, v interface{}) *gorm.DB {
		return tx.Where(column+" >= ?", v)
	}
}

func lte(column string) BuilderFunc {
	return func(tx *gorm.DB, v interface{}) *gorm.DB {
		return tx.Where(column+" <= ?", v)
	}
}

func exact(column string) BuilderFunc {
	return func(tx *gorm.DB, v interface{}) *gorm.DB {
		return tx.Where(column+" = ?", v)
	}
}

func contains(column string) BuilderFunc {
	return func(tx *gorm.DB, v interface{}) *gorm.DB {
		return tx.Where(column+" ILIKE ?", likePattern(v.(string)))
	}
}

func in(column string) BuilderFunc {
	return func(tx *gorm.DB, v interface{}) *gorm.DB {
		return tx.Where(column+" IN ?", v.([]string))
	}
}

func boolEq(column string) BuilderFunc {
	return func(tx *gorm.DB, v interface{}) *gorm.DB {
		return tx.Where(column+" = ?", v.(bool))
	}
}

// whenTrue wraps a derived predicate so that an explicit false is a no-op.
func whenTrue(build func(tx *gorm.DB) *gorm.DB) BuilderFunc {
	return func(tx *gorm.DB, v interface{}) *gorm.DB {
		if b, ok := v.(bool); ok && b {
			return build(tx)
		}
		return tx
	}
}

// anyContains ORs a substring match per provided value of one attribute.
func anyContains(column string) BuilderFunc {
	return func(tx *gorm.DB, v interface{}) *gorm.DB {
		vals := v.([]string)
		conds := make([]string, len(vals))
		args := make([]interface{}, len(vals))
		for i, val := range vals {
			conds[i] = column + " ILIKE ?"
			args[i] = likePattern(val)
		}
		return tx.Where(strings.Join(conds, " OR "), args...)
	}
}

// textAcross ORs one substring match across a fixed set of text attributes.
func textAcross(fields []string) BuilderFunc {
	return func(tx *gorm.DB, v interface{}) *gorm.DB {
		pattern := likePattern(v.(string))
		conds := make([]string, len(fields))
		args := make([]interface{}, len(fields))
		for i, f := range fields {
			conds[i] = f + " ILIKE ?"
			args[i] = pattern
		}
		return tx.Where(strings.Join(conds, " OR "), args...)
	}
}

func hasTitleDeed(tx *gorm.DB) *gorm.DB {
	return tx.Where("title_deed_status IS NOT NULL")
}

// hasWater treats a null water_supply_types list the same as an empty one:
// no sources recorded.
func hasWater(tx *gorm.DB) *gorm.DB {
	return tx.Where(
		"has_borehole = ? OR has_piped_water = ? OR jsonb_array_length(COALESCE(water_supply_types, '[]'::jsonb)) > 0",
		true, true,
	)
}

func hasElectricity(tx *gorm.DB) *gorm.DB {
	return tx.Where("electricity_availability IN ?", []string{"on_site", "nearby"})
}

func hasRoadAccess(tx *gorm.DB) *gorm.DB {
	return tx.Where("road_access_type IS NOT NULL AND road_access_type <> ''")
}

func hasPaymentPlan(tx *gorm.DB) *gorm.DB {
	return tx.Where("payment_plan_details IS NOT NULL AND payment_plan_details <> ''")
}

// Listings with no recorded distance are not excluded by a distance cap.
func maxDistanceToRoad(tx *gorm.DB, v interface{}) *gorm.DB {
	return tx.Where("distance_to_main_road <= ? OR distance_to_main_road IS NULL", v)
}

func likePattern(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + escaped + "%"
}
