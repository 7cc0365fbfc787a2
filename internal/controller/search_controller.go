package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
	"github.com/Bobybuu/real-estate-Gabby/internal/search"
	"github.com/Bobybuu/real-estate-Gabby/pkg/database"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func queryValues(c *fiber.Ctx) map[string][]string {
	values := map[string][]string{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		values[k] = append(values[k], string(value))
	})
	return values
}

func parseFilters(c *fiber.Ctx) (search.FilterSpec, error) {
	spec, err := search.ParseSpec(queryValues(c))
	if err != nil {
		return nil, err
	}
	return spec, spec.Validate()
}

func validationResponse(c *fiber.Ctx, err error) error {
	var vErr *search.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": vErr.Message,
			"field": vErr.Field,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func pagination(c *fiber.Ctx) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.Query("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func publishedBase() *gorm.DB {
	return database.GetDB().
		Model(&model.Property{}).
		Where("status = ?", model.StatusPublished)
}

func sortOrder(c *fiber.Ctx) string {
	switch c.Query("ordering") {
	case "price":
		return "price ASC"
	case "-price":
		return "price DESC"
	case "created_at":
		return "created_at ASC"
	case "-views":
		return "views_count DESC"
	default:
		return "created_at DESC"
	}
}

type listedProperty struct {
	model.Property
	PrimaryMedia *model.PropertyMedia `json:"primary_media"`
	AmenityNames []string             `json:"amenity_preview"`
}

// decorate attaches the primary media item and a short amenity preview to
// each listing row.
func decorate(properties []model.Property) []listedProperty {
	out := make([]listedProperty, len(properties))
	for i, p := range properties {
		out[i] = listedProperty{Property: p}
		for j := range p.Media {
			if p.Media[j].IsPrimary {
				out[i].PrimaryMedia = &p.Media[j]
				break
			}
		}
		if out[i].PrimaryMedia == nil && len(p.Media) > 0 {
			out[i].PrimaryMedia = &p.Media[0]
		}
		for _, pa := range p.Amenities {
			if len(out[i].AmenityNames) == 3 {
				break
			}
			out[i].AmenityNames = append(out[i].AmenityNames, pa.Amenity.Name)
		}
	}
	return out
}

func runListing(c *fiber.Ctx, tx *gorm.DB) error {
	page, pageSize := pagination(c)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not count properties",
		})
	}

	var properties []model.Property
	err := tx.
		Preload("Media").
		Preload("Amenities.Amenity").
		Order(sortOrder(c)).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&properties).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch properties",
		})
	}

	return c.JSON(fiber.Map{
		"properties": decorate(properties),
		"total":      total,
		"page":       page,
		"page_size":  pageSize,
	})
}

// ListProperties is the main published-listings endpoint with the full
// filter set.
func ListProperties(c *fiber.Ctx) error {
	spec, err := parseFilters(c)
	if err != nil {
		return validationResponse(c, err)
	}
	return runListing(c, search.Apply(publishedBase(), spec))
}

// ListLandProperties browses land listings only.
func ListLandProperties(c *fiber.Ctx) error {
	spec, err := parseFilters(c)
	if err != nil {
		return validationResponse(c, err)
	}
	return runListing(c, search.ApplyLand(publishedBase(), spec))
}

// MapProperties returns a trimmed projection of geolocated listings.
func MapProperties(c *fiber.Ctx) error {
	spec, err := parseFilters(c)
	if err != nil {
		return validationResponse(c, err)
	}

	var results []map[string]interface{}
	err = search.ApplyMap(publishedBase(), spec).
		Limit(500).
		Find(&results).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch map properties",
		})
	}

	return c.JSON(fiber.Map{
		"properties": results,
		"total":      len(results),
	})
}

// SearchProperties is the comprehensive text search endpoint.
func SearchProperties(c *fiber.Ctx) error {
	spec, err := parseFilters(c)
	if err != nil {
		return validationResponse(c, err)
	}
	return runListing(c, search.ApplySearch(publishedBase(), spec))
}

// GetFeaturedProperties returns the featured carousel set.
func GetFeaturedProperties(c *fiber.Ctx) error {
	var properties []model.Property
	err := publishedBase().
		Preload("Media").
		Where("featured = ?", true).
		Order("created_at DESC").
		Limit(8).
		Find(&properties).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch featured properties",
		})
	}

	return c.JSON(fiber.Map{
		"properties": decorate(properties),
		"total":      len(properties),
	})
}

// GetCategories returns the published listing count per property type, and
// per land type within land.
func GetCategories(c *fiber.Ctx) error {
	var typeCounts []struct {
		PropertyType string `json:"property_type"`
		Count        int64  `json:"count"`
	}
	err := publishedBase().
		Select("property_type, COUNT(*) as count").
		Group("property_type").
		Scan(&typeCounts).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch categories",
		})
	}

	var landCounts []struct {
		LandType string `json:"land_type"`
		Count    int64  `json:"count"`
	}
	err = publishedBase().
		Select("land_type, COUNT(*) as count").
		Where("property_type = ? AND land_type IS NOT NULL", model.PropertyTypeLand).
		Group("land_type").
		Scan(&landCounts).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch land categories",
		})
	}

	return c.JSON(fiber.Map{
		"property_types": typeCounts,
		"land_types":     landCounts,
	})
}

// GetSearchStats summarizes the published inventory: counts, price range
// and the cities with the most listings.
func GetSearchStats(c *fiber.Ctx) error {
	var stats struct {
		Total    int64    `json:"total"`
		MinPrice *float64 `json:"min_price"`
		MaxPrice *float64 `json:"max_price"`
		AvgPrice *float64 `json:"avg_price"`
	}
	err := publishedBase().
		Select("COUNT(*) as total, MIN(price) as min_price, MAX(price) as max_price, AVG(price) as avg_price").
		Scan(&stats).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch search statistics",
		})
	}

	var topCities []struct {
		City  string `json:"city"`
		Count int64  `json:"count"`
	}
	err = publishedBase().
		Select("city, COUNT(*) as count").
		Where("city <> ''").
		Group("city").
		Order("count DESC").
		Limit(10).
		Scan(&topCities).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch city statistics",
		})
	}

	return c.JSON(fiber.Map{
		"inventory":  stats,
		"top_cities": topCities,
	})
}
