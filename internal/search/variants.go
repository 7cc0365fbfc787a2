package search

import "gorm.io/gorm"

// ApplyLand pins the land property type before applying the remaining
// filters, for land-only browse endpoints.
func ApplyLand(tx *gorm.DB, spec FilterSpec) *gorm.DB {
	return Apply(tx.Where("property_type = ?", "land"), spec)
}

// mapParams is the restricted set the map variant honors. City is matched
// exactly here, not by substring.
var mapParams = map[string]bool{
	"property_type": true,
	"land_type":     true,
	"min_price":     true,
	"max_price":     true,
	"min_size":      true,
	"max_size":      true,
	"city":          true,
}

// MapColumns is the trimmed projection returned to map clients.
var MapColumns = []string{
	"id", "title", "price", "size_acres", "land_type",
	"latitude", "longitude", "city", "state", "property_type",
	"has_borehole", "has_piped_water", "electricity_availability", "road_access_type",
}

// ApplyMap narrows to records with both coordinates present, applies only
// the map parameter set and restricts the projection.
func ApplyMap(tx *gorm.DB, spec FilterSpec) *gorm.DB {
	tx = tx.Where("latitude IS NOT NULL AND longitude IS NOT NULL")
	for name, value := range spec {
		if !mapParams[name] {
			continue
		}
		if name == "city" {
			tx = tx.Where("city = ?", value)
			continue
		}
		if p, ok := registry[name]; ok {
			tx = p.build(tx, value)
		}
	}
	return tx.Select(MapColumns)
}

// searchParams is the full-text search variant's parameter set.
var searchParams = map[string]bool{
	"search":        true,
	"property_type": true,
	"land_type":     true,
}

// ApplySearch applies only the comprehensive text search plus type
// membership filters.
func ApplySearch(tx *gorm.DB, spec FilterSpec) *gorm.DB {
	for name, value := range spec {
		if !searchParams[name] {
			continue
		}
		if p, ok := registry[name]; ok {
			tx = p.build(tx, value)
		}
	}
	return tx
}
