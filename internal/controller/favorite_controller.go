package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
	"github.com/Bobybuu/real-estate-Gabby/pkg/database"
	"github.com/Bobybuu/real-estate-Gabby/pkg/utils/jwt"
)

// ToggleFavorite adds or removes a listing from the caller's favorites and
// reports the resulting state.
func ToggleFavorite(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	propertyID, err := strconv.ParseUint(c.Params("property_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid property ID",
		})
	}

	var property model.Property
	if err := database.GetDB().First(&property, propertyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	var favorite model.Favorite
	err = database.GetDB().
		Where("user_id = ? AND property_id = ?", claims.UserID, propertyID).
		First(&favorite).Error
	if err == nil {
		if err := database.GetDB().Unscoped().Delete(&favorite).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not remove favorite",
			})
		}
		return c.JSON(fiber.Map{
			"message":   "Removed from favorites",
			"favorited": false,
		})
	}

	favorite = model.Favorite{
		UserID:     claims.UserID,
		PropertyID: uint(propertyID),
	}
	if err := database.GetDB().Create(&favorite).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not add favorite",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Added to favorites",
		"favorited": true,
	})
}

// ListFavorites returns the caller's favorited listings.
func ListFavorites(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var favorites []model.Favorite
	err := database.GetDB().
		Preload("Property").
		Preload("Property.Media").
		Where("user_id = ?", claims.UserID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch favorites",
		})
	}

	properties := make([]model.Property, 0, len(favorites))
	for _, fav := range favorites {
		properties = append(properties, fav.Property)
	}

	return c.JSON(fiber.Map{
		"properties": properties,
		"total":      len(properties),
	})
}
