package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
	"github.com/Bobybuu/real-estate-Gabby/pkg/database"
)

// ListAmenities returns the active amenity catalog grouped by category.
func ListAmenities(c *fiber.Ctx) error {
	var amenities []model.Amenity
	err := database.GetDB().
		Where("is_active = ?", true).
		Order("category ASC, name ASC").
		Find(&amenities).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch amenities",
		})
	}

	grouped := map[model.AmenityCategory][]model.Amenity{}
	for _, amenity := range amenities {
		grouped[amenity.Category] = append(grouped[amenity.Category], amenity)
	}

	return c.JSON(fiber.Map{
		"amenities": grouped,
		"total":     len(amenities),
	})
}

type PropertyAmenityInput struct {
	AmenityID    uint   `json:"amenity_id" validate:"required"`
	Availability string `json:"availability"`
	Details      string `json:"details"`
}

// SetPropertyAmenities replaces a listing's amenity assignments. Ownership
// is checked by middleware.
func SetPropertyAmenities(c *fiber.Ctx) error {
	var property model.Property
	if err := database.GetDB().First(&property, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	var inputs []PropertyAmenityInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	assignments := make([]model.PropertyAmenity, 0, len(inputs))
	for _, input := range inputs {
		var amenity model.Amenity
		if err := database.GetDB().First(&amenity, input.AmenityID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Amenity not found",
			})
		}

		availability := input.Availability
		if availability == "" {
			availability = "on_site"
		}
		assignments = append(assignments, model.PropertyAmenity{
			PropertyID:   property.ID,
			AmenityID:    input.AmenityID,
			Availability: availability,
			Details:      input.Details,
		})
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("property_id = ?", property.ID).
			Delete(&model.PropertyAmenity{}).Error; err != nil {
			return err
		}
		if len(assignments) == 0 {
			return nil
		}
		return tx.Create(&assignments).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update amenities",
		})
	}

	return c.JSON(fiber.Map{
		"message":   "Amenities updated successfully",
		"amenities": assignments,
	})
}
