package controller

import (
	"bytes"
	"io"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
	"github.com/Bobybuu/real-estate-Gabby/pkg/database"
	"github.com/Bobybuu/real-estate-Gabby/pkg/storage"
	"github.com/Bobybuu/real-estate-Gabby/pkg/utils/image"
	"github.com/Bobybuu/real-estate-Gabby/pkg/utils/jwt"
)

const maxMediaPerProperty = 20

func mediaTypeFromInput(raw string) model.MediaType {
	switch model.MediaType(raw) {
	case model.MediaVideo, model.MediaDrone, model.MediaSitePlan, model.MediaAerial, model.MediaDocument:
		return model.MediaType(raw)
	default:
		return model.MediaImage
	}
}

// UploadPropertyMedia processes and stores one media file for a listing.
// The first item uploaded becomes the primary automatically.
func UploadPropertyMedia(c *fiber.Ctx) error {
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

	if property.SellerID != claims.UserID &&
		(property.AgentID == nil || *property.AgentID != claims.UserID) &&
		claims.Role != string(model.RoleAdmin) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to upload media for this property",
		})
	}

	var mediaCount int64
	database.GetDB().Model(&model.PropertyMedia{}).
		Where("property_id = ?", propertyID).
		Count(&mediaCount)

	if mediaCount >= maxMediaPerProperty {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Maximum media limit reached (20)",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	contentType := file.Header.Get("Content-Type")
	if !image.AllowedImageTypes[contentType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only JPEG, PNG and WebP files are allowed",
		})
	}

	if file.Size > image.MaxImageSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File size too large. Maximum size is 10MB",
		})
	}

	processed, processedType, err := image.ProcessImage(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not process image",
		})
	}

	result, err := storage.Upload(storage.UploadConfig{
		Data:         processed,
		Filename:     file.Filename,
		ContentType:  processedType,
		PropertySlug: property.Slug,
		Category:     "images",
	})
	if err != nil {
		log.Printf("Media upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload file",
		})
	}

	media := model.PropertyMedia{
		PropertyID:   uint(propertyID),
		MediaType:    mediaTypeFromInput(c.FormValue("media_type")),
		URL:          result.URL,
		Caption:      c.FormValue("caption"),
		DisplayOrder: int(mediaCount),
		IsPrimary:    mediaCount == 0,
	}

	if err := database.GetDB().Create(&media).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save media record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Media uploaded successfully",
		"media":   media,
	})
}

// SetPrimaryMedia marks one item primary and clears the flag on its
// siblings in the same transaction.
func SetPrimaryMedia(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	mediaID, err := strconv.ParseUint(c.Params("media_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid media ID",
		})
	}

	var media model.PropertyMedia
	if err := database.GetDB().Preload("Property").First(&media, mediaID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Media not found",
		})
	}

	if media.Property.SellerID != claims.UserID && claims.Role != string(model.RoleAdmin) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to modify this media",
		})
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.PropertyMedia{}).
			Where("property_id = ? AND id <> ?", media.PropertyID, media.ID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&media).Update("is_primary", true).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update primary media",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Primary media updated",
		"media":   media,
	})
}

// DeletePropertyMedia removes a media item and its stored object.
func DeletePropertyMedia(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	mediaID, err := strconv.ParseUint(c.Params("media_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid media ID",
		})
	}

	var media model.PropertyMedia
	if err := database.GetDB().Preload("Property").First(&media, mediaID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Media not found",
		})
	}

	if media.Property.SellerID != claims.UserID && claims.Role != string(model.RoleAdmin) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to delete this media",
		})
	}

	if err := storage.Delete(media.URL); err != nil {
		log.Printf("Could not delete stored object: %v", err)
	}

	if err := database.GetDB().Delete(&media).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete media",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// UploadLegalDocument stores a legal document for a listing. Documents are
// unverified until an admin reviews them.
func UploadLegalDocument(c *fiber.Ctx) error {
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

	if property.SellerID != claims.UserID && claims.Role != string(model.RoleAdmin) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Not authorized to upload documents for this property",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not open file",
		})
	}
	defer src.Close()

	raw, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not read file",
		})
	}

	result, err := storage.Upload(storage.UploadConfig{
		Data:         bytes.NewBuffer(raw),
		Filename:     file.Filename,
		ContentType:  file.Header.Get("Content-Type"),
		PropertySlug: property.Slug,
		Category:     "documents",
	})
	if err != nil {
		log.Printf("Document upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload document",
		})
	}

	doc := model.LegalDocument{
		PropertyID:   uint(propertyID),
		DocumentType: model.DocumentType(c.FormValue("document_type", string(model.DocTitleDeed))),
		URL:          result.URL,
		Description:  c.FormValue("description"),
	}

	if err := database.GetDB().Create(&doc).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save document record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Document uploaded successfully",
		"document": doc,
	})
}
