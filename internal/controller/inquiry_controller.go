package controller

import (
	"net/mail"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Bobybuu/real-estate-Gabby/internal/middleware"
	"github.com/Bobybuu/real-estate-Gabby/internal/model"
	"github.com/Bobybuu/real-estate-Gabby/pkg/database"
	"github.com/Bobybuu/real-estate-Gabby/pkg/utils/jwt"
)

type InquiryInput struct {
	PropertyID    *uint      `json:"property_id"`
	Name          string     `json:"name" validate:"required"`
	Email         string     `json:"email" validate:"required,email"`
	Phone         string     `json:"phone"`
	Message       string     `json:"message"`
	InquiryType   string     `json:"inquiry_type"`
	PreferredDate *time.Time `json:"preferred_date"`
	BudgetRange   string     `json:"budget_range"`
}

func inquiryTypeFromInput(raw string) model.InquiryType {
	switch model.InquiryType(raw) {
	case model.InquiryValuation, model.InquiryManagement, model.InquiryGeneral, model.InquirySiteVisit:
		return model.InquiryType(raw)
	default:
		return model.InquiryProperty
	}
}

// CreateInquiry records a public inquiry, anonymous or authenticated. A
// property-linked inquiry bumps the listing's inquiry counter in the same
// transaction.
func CreateInquiry(c *fiber.Ctx) error {
	input := new(InquiryInput)
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
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid email format",
		})
	}

	inquiry := model.Inquiry{
		UserID:        middleware.CurrentUserID(c),
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		Message:       input.Message,
		InquiryType:   inquiryTypeFromInput(input.InquiryType),
		Source:        model.SourceWebsite,
		PreferredDate: input.PreferredDate,
		BudgetRange:   input.BudgetRange,
		Status:        model.InquiryNew,
	}

	if input.PropertyID != nil {
		var property model.Property
		if err := database.GetDB().First(&property, *input.PropertyID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
		inquiry.PropertyID = input.PropertyID
	}

	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inquiry).Error; err != nil {
			return err
		}
		if inquiry.PropertyID != nil {
			return tx.Model(&model.Property{}).
				Where("id = ?", *inquiry.PropertyID).
				UpdateColumn("inquiry_count", gorm.Expr("inquiry_count + 1")).Error
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create inquiry",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Inquiry submitted successfully",
		"inquiry": inquiry,
	})
}

// ListInquiries returns inquiries visible to the caller: admins see all,
// agents see assigned ones plus those on their own listings.
func ListInquiries(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	tx := database.GetDB().Model(&model.Inquiry{}).Preload("Property")

	if claims.Role != string(model.RoleAdmin) {
		tx = tx.Where(
			"assigned_agent_id = ? OR property_id IN (?)",
			claims.UserID,
			database.GetDB().Model(&model.Property{}).
				Select("id").
				Where("seller_id = ? OR agent_id = ?", claims.UserID, claims.UserID),
		)
	}

	if status := c.Query("status"); status != "" {
		tx = tx.Where("status = ?", status)
	}

	var inquiries []model.Inquiry
	if err := tx.Order("created_at DESC").Find(&inquiries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch inquiries",
		})
	}

	return c.JSON(fiber.Map{
		"inquiries": inquiries,
		"total":     len(inquiries),
	})
}

type InquiryStatusInput struct {
	Status        model.InquiryStatus `json:"status" validate:"required"`
	InternalNotes string              `json:"internal_notes"`
}

func UpdateInquiryStatus(c *fiber.Ctx) error {
	input := new(InquiryStatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if !model.ValidInquiryStatus(input.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid inquiry status",
		})
	}

	var inquiry model.Inquiry
	if err := database.GetDB().First(&inquiry, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Inquiry not found",
		})
	}

	inquiry.Status = input.Status
	if input.InternalNotes != "" {
		inquiry.InternalNotes = input.InternalNotes
	}

	if err := database.GetDB().Save(&inquiry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update inquiry",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Inquiry updated successfully",
		"inquiry": inquiry,
	})
}

type AssignInquiryInput struct {
	AgentID uint `json:"agent_id" validate:"required"`
}

// AssignInquiry hands an inquiry to an agent. Admin only.
func AssignInquiry(c *fiber.Ctx) error {
	input := new(AssignInquiryInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	var agent model.User
	if err := database.GetDB().First(&agent, input.AgentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Agent not found",
		})
	}
	if agent.Role != model.RoleAgent && agent.Role != model.RoleAdmin {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User is not an agent",
		})
	}

	var inquiry model.Inquiry
	if err := database.GetDB().First(&inquiry, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Inquiry not found",
		})
	}

	inquiry.AssignedAgentID = &input.AgentID
	if inquiry.Status == model.InquiryNew {
		inquiry.Status = model.InquiryContacted
	}

	if err := database.GetDB().Save(&inquiry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not assign inquiry",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Inquiry assigned successfully",
		"inquiry": inquiry,
	})
}
