package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
	"github.com/Bobybuu/real-estate-Gabby/pkg/database"
	"github.com/Bobybuu/real-estate-Gabby/pkg/utils/jwt"
)

// CreateProperty creates a listing in draft status owned by the caller.
func CreateProperty(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	property := new(model.Property)
	if err := c.BodyParser(property); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	property.ID = 0
	property.Slug = ""
	property.SellerID = claims.UserID
	property.Status = model.StatusDraft
	property.PublishedAt = nil
	property.ViewsCount = 0
	property.InquiryCnt = 0

	if err := database.GetDB().Create(property).Error; err != nil {
		var fieldErrs model.FieldErrors
		if errors.As(err, &fieldErrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": fieldErrs,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create property",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Property created successfully",
		"property": property,
	})
}

// UpdateProperty updates a listing's editable fields. Ownership is checked
// by middleware.
func UpdateProperty(c *fiber.Ctx) error {
	var property model.Property
	if err := database.GetDB().First(&property, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	updates := new(model.Property)
	if err := c.BodyParser(updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	// Ownership, lifecycle and counters are not client-editable
	updates.ID = property.ID
	updates.Slug = property.Slug
	updates.SellerID = property.SellerID
	updates.AgentID = property.AgentID
	updates.Status = property.Status
	updates.PublishedAt = property.PublishedAt
	updates.ViewsCount = property.ViewsCount
	updates.InquiryCnt = property.InquiryCnt
	updates.CreatedAt = property.CreatedAt

	if err := database.GetDB().Save(updates).Error; err != nil {
		var fieldErrs model.FieldErrors
		if errors.As(err, &fieldErrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": fieldErrs,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update property",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Property updated successfully",
		"property": updates,
	})
}

func DeleteProperty(c *fiber.Ctx) error {
	if err := database.GetDB().Delete(&model.Property{}, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete property",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Property deleted successfully",
	})
}

// GetPropertyBySlug returns a published listing with its relations and
// bumps the view counter.
func GetPropertyBySlug(c *fiber.Ctx) error {
	var property model.Property
	err := database.GetDB().
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Amenities.Amenity").
		Preload("Documents").
		Preload("Contact").
		Preload("Seller").
		Where("slug = ? AND status = ?", c.Params("slug"), model.StatusPublished).
		First(&property).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	database.GetDB().Model(&property).
		UpdateColumn("views_count", gorm.Expr("views_count + 1"))

	return c.JSON(fiber.Map{
		"property": property,
		"seller":   property.Seller.GetPublicProfile(),
	})
}

// ListMyProperties returns the caller's listings in every status.
func ListMyProperties(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var properties []model.Property
	err := database.GetDB().
		Preload("Media").
		Where("seller_id = ? OR agent_id = ?", claims.UserID, claims.UserID).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch properties",
		})
	}

	return c.JSON(fiber.Map{
		"properties": properties,
		"total":      len(properties),
	})
}

// SubmitProperty moves a draft to pending review.
func SubmitProperty(c *fiber.Ctx) error {
	var property model.Property
	if err := database.GetDB().First(&property, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	if property.Status != model.StatusDraft {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only draft properties can be submitted for review",
		})
	}

	property.Status = model.StatusPending
	if err := database.GetDB().Save(&property).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not submit property",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Property submitted for review",
		"property": property,
	})
}

// ApproveProperty publishes a pending listing. Admin only.
func ApproveProperty(c *fiber.Ctx) error {
	var property model.Property
	if err := database.GetDB().First(&property, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	if property.Status != model.StatusPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only pending properties can be approved",
		})
	}

	now := time.Now()
	property.Status = model.StatusPublished
	property.PublishedAt = &now
	if err := database.GetDB().Save(&property).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not approve property",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Property published",
		"property": property,
	})
}

// RejectProperty sends a pending listing back to draft. Admin only.
func RejectProperty(c *fiber.Ctx) error {
	var property model.Property
	if err := database.GetDB().First(&property, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	if property.Status != model.StatusPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only pending properties can be rejected",
		})
	}

	property.Status = model.StatusDraft
	if err := database.GetDB().Save(&property).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not reject property",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Property returned to draft",
		"property": property,
	})
}

type StatusInput struct {
	Status model.PropertyStatus `json:"status" validate:"required"`
}

// UpdatePropertyStatus marks a published listing sold, rented or under
// offer.
func UpdatePropertyStatus(c *fiber.Ctx) error {
	input := new(StatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	switch input.Status {
	case model.StatusSold, model.StatusRented, model.StatusUnderOffer, model.StatusPublished:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status transition",
		})
	}

	var property model.Property
	if err := database.GetDB().First(&property, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	if property.Status == model.StatusDraft || property.Status == model.StatusPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Property must be published before changing its sale status",
		})
	}

	property.Status = input.Status
	if err := database.GetDB().Save(&property).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update status",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Status updated successfully",
		"property": property,
	})
}

// GetSimilarProperties returns published listings sharing type and city,
// closest in price first.
func GetSimilarProperties(c *fiber.Ctx) error {
	var property model.Property
	if err := database.GetDB().First(&property, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Property not found",
		})
	}

	var similar []model.Property
	err := database.GetDB().
		Preload("Media").
		Where("status = ? AND id <> ? AND property_type = ? AND city ILIKE ?",
			model.StatusPublished, property.ID, property.PropertyType, property.City).
		Order(fmt.Sprintf("ABS(price - %f) ASC", property.Price)).
		Limit(6).
		Find(&similar).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch similar properties",
		})
	}

	return c.JSON(fiber.Map{
		"properties": similar,
		"total":      len(similar),
	})
}

// ListPendingProperties returns listings awaiting review. Admin only.
func ListPendingProperties(c *fiber.Ctx) error {
	var properties []model.Property
	err := database.GetDB().
		Preload("Seller").
		Where("status = ?", model.StatusPending).
		Order("created_at ASC").
		Find(&properties).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch pending properties",
		})
	}

	return c.JSON(fiber.Map{
		"properties": properties,
		"total":      len(properties),
	})
}
