package controller

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
	"github.com/Bobybuu/real-estate-Gabby/pkg/database"
	"github.com/Bobybuu/real-estate-Gabby/pkg/utils/jwt"
)

type SavedSearchInput struct {
	Name                  string                 `json:"name" validate:"required"`
	SearchParams          map[string]interface{} `json:"search_params"`
	NotificationFrequency string                 `json:"notification_frequency"`
}

func notificationFrequency(raw string) string {
	switch raw {
	case model.NotifyDaily, model.NotifyWeekly:
		return raw
	default:
		return model.NotifyInstant
	}
}

// CreateSavedSearch stores a named filter set for alerting. Names are
// unique per user.
func CreateSavedSearch(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(SavedSearchInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}

	var existing model.SavedSearch
	if err := database.GetDB().
		Where("user_id = ? AND name = ?", claims.UserID, input.Name).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A saved search with this name already exists",
		})
	}

	params, err := json.Marshal(input.SearchParams)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid search parameters",
		})
	}

	saved := model.SavedSearch{
		UserID:                claims.UserID,
		Name:                  input.Name,
		SearchParams:          datatypes.JSON(params),
		IsActive:              true,
		NotificationFrequency: notificationFrequency(input.NotificationFrequency),
	}

	if err := database.GetDB().Create(&saved).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create saved search",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Search saved successfully",
		"saved_search": saved,
	})
}

func ListSavedSearches(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var searches []model.SavedSearch
	err := database.GetDB().
		Where("user_id = ?", claims.UserID).
		Order("created_at DESC").
		Find(&searches).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch saved searches",
		})
	}

	return c.JSON(fiber.Map{
		"saved_searches": searches,
		"total":          len(searches),
	})
}

func DeleteSavedSearch(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	result := database.GetDB().
		Where("user_id = ?", claims.UserID).
		Delete(&model.SavedSearch{}, c.Params("id"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete saved search",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Saved search not found",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
