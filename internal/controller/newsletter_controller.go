package controller

import (
	"errors"
	"net/mail"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Bobybuu/real-estate-Gabby/internal/middleware"
	"github.com/Bobybuu/real-estate-Gabby/internal/model"
	"github.com/Bobybuu/real-estate-Gabby/internal/newsletter"
	"github.com/Bobybuu/real-estate-Gabby/pkg/database"
)

var newsletterService *newsletter.Service

// InitNewsletterController wires the newsletter service used by the
// handlers below.
func InitNewsletterController(svc *newsletter.Service) {
	newsletterService = svc
}

type SubscribeInput struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

func Subscribe(c *fiber.Ctx) error {
	input := new(SubscribeInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if _, err := mail.ParseAddress(input.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid email format",
		})
	}

	sub, err := newsletterService.Subscribe(input.Email, input.Name)
	if errors.Is(err, newsletter.ErrAlreadySubscribed) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "This email is already subscribed",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete subscription",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Successfully subscribed to newsletter",
		"email":   sub.Email,
	})
}

type UnsubscribeInput struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token"`
}

// Unsubscribe deactivates a subscription by email, optionally authenticated
// by the subscriber token.
func Unsubscribe(c *fiber.Ctx) error {
	input := new(UnsubscribeInput)
	if err := c.BodyParser(input); err != nil || input.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required",
		})
	}

	err := newsletterService.Unsubscribe(input.Email, input.Token)
	if errors.Is(err, newsletter.ErrSubscriberNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not unsubscribe",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Successfully unsubscribed",
	})
}

// UnsubscribeByToken serves the one-click link embedded in every email.
func UnsubscribeByToken(c *fiber.Ctx) error {
	email, err := newsletterService.UnsubscribeByToken(c.Params("token"))
	if errors.Is(err, newsletter.ErrSubscriberNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not unsubscribe",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Successfully unsubscribed",
		"email":   email,
	})
}

type PopupInput struct {
	SessionKey string `json:"session_key" validate:"required"`
}

func DismissPopup(c *fiber.Ctx) error {
	input := new(PopupInput)
	if err := c.BodyParser(input); err != nil || input.SessionKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session key is required",
		})
	}

	if err := newsletterService.DismissPopup(input.SessionKey, middleware.CurrentUserID(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not record dismissal",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Popup dismissed",
	})
}

func ShouldShowPopup(c *fiber.Ctx) error {
	sessionKey := c.Query("session_key")
	if sessionKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session key is required",
		})
	}

	show, err := newsletterService.ShouldShowPopup(sessionKey, middleware.CurrentUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not check popup state",
		})
	}

	return c.JSON(fiber.Map{
		"show_popup": show,
	})
}

// Admin endpoints

func GetSubscribers(c *fiber.Ctx) error {
	var subscribers []model.Subscriber
	tx := database.GetDB().Order("subscribed_at DESC")
	if c.Query("active") == "true" {
		tx = tx.Where("is_active = ?", true)
	}
	if err := tx.Find(&subscribers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscribers",
		})
	}

	return c.JSON(fiber.Map{
		"subscribers": subscribers,
		"total":       len(subscribers),
	})
}

func GetNewsletterStats(c *fiber.Ctx) error {
	var totalSubscribers, activeSubscribers int64
	database.GetDB().Model(&model.Subscriber{}).Count(&totalSubscribers)
	database.GetDB().Model(&model.Subscriber{}).
		Where("is_active = ?", true).
		Count(&activeSubscribers)

	var dailyStats []struct {
		Date  string `json:"date"`
		Count int64  `json:"count"`
	}
	err := database.GetDB().Raw(`
        SELECT
            DATE(subscribed_at) as date,
            COUNT(*) as count
        FROM newsletter_subscribers
        WHERE subscribed_at >= CURRENT_DATE - INTERVAL '30 days'
        GROUP BY DATE(subscribed_at)
        ORDER BY date DESC
    `).Scan(&dailyStats).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch newsletter statistics",
		})
	}

	var campaignsSent int64
	database.GetDB().Model(&model.Campaign{}).
		Where("sent_at IS NOT NULL").
		Count(&campaignsSent)

	return c.JSON(fiber.Map{
		"total_subscribers":  totalSubscribers,
		"active_subscribers": activeSubscribers,
		"campaigns_sent":     campaignsSent,
		"daily_stats":        dailyStats,
	})
}

type TemplateInput struct {
	Name             string `json:"name" validate:"required"`
	TemplateType     string `json:"template_type" validate:"required"`
	Subject          string `json:"subject" validate:"required"`
	HTMLContent      string `json:"html_content" validate:"required"`
	PlainTextContent string `json:"plain_text_content"`
	IsActive         *bool  `json:"is_active"`
}

func ListTemplates(c *fiber.Ctx) error {
	var templates []model.EmailTemplate
	if err := database.GetDB().Order("template_type ASC").Find(&templates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch templates",
		})
	}

	return c.JSON(fiber.Map{
		"templates": templates,
		"total":     len(templates),
	})
}

func CreateTemplate(c *fiber.Ctx) error {
	input := new(TemplateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if !model.ValidTemplateType(model.TemplateType(input.TemplateType)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid template type",
		})
	}

	template := model.EmailTemplate{
		Name:             input.Name,
		TemplateType:     model.TemplateType(input.TemplateType),
		Subject:          input.Subject,
		HTMLContent:      input.HTMLContent,
		PlainTextContent: input.PlainTextContent,
		IsActive:         true,
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := database.GetDB().Create(&template).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A template of this type already exists",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Template created successfully",
		"template": template,
	})
}

func UpdateTemplate(c *fiber.Ctx) error {
	var template model.EmailTemplate
	if err := database.GetDB().First(&template, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Template not found",
		})
	}

	input := new(TemplateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Name != "" {
		template.Name = input.Name
	}
	if input.Subject != "" {
		template.Subject = input.Subject
	}
	if input.HTMLContent != "" {
		template.HTMLContent = input.HTMLContent
	}
	template.PlainTextContent = input.PlainTextContent
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := database.GetDB().Save(&template).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update template",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Template updated successfully",
		"template": template,
	})
}

func ListCampaigns(c *fiber.Ctx) error {
	var campaigns []model.Campaign
	if err := database.GetDB().Order("created_at DESC").Find(&campaigns).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch campaigns",
		})
	}

	return c.JSON(fiber.Map{
		"campaigns": campaigns,
		"total":     len(campaigns),
	})
}

func CreateCampaign(c *fiber.Ctx) error {
	campaign := new(model.Campaign)
	if err := c.BodyParser(campaign); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if campaign.Title == "" || campaign.Subject == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title and subject are required",
		})
	}

	campaign.ID = 0
	campaign.SentAt = nil

	if campaign.TemplateID != nil {
		var template model.EmailTemplate
		if err := database.GetDB().First(&template, *campaign.TemplateID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Template not found",
			})
		}
	}

	if err := database.GetDB().Create(campaign).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create campaign",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Campaign created successfully",
		"campaign": campaign,
	})
}

// SendCampaign triggers immediate delivery of a campaign to every active
// subscriber.
func SendCampaign(c *fiber.Ctx) error {
	campaignID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid campaign ID",
		})
	}

	result, err := newsletterService.SendCampaign(uint(campaignID))
	switch {
	case errors.Is(err, newsletter.ErrCampaignNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Campaign not found",
		})
	case errors.Is(err, newsletter.ErrCampaignAlreadySent):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Campaign has already been sent",
		})
	case errors.Is(err, newsletter.ErrTemplateNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Campaign template not found",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not send campaign",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Campaign sent",
		"result":  result,
	})
}

type TestSendInput struct {
	Email string `json:"email" validate:"required,email"`
}

// SendTestCampaign delivers a single test render without touching the
// subscriber list.
func SendTestCampaign(c *fiber.Ctx) error {
	campaignID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid campaign ID",
		})
	}

	input := new(TestSendInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid email format",
		})
	}

	err = newsletterService.SendTest(uint(campaignID), input.Email)
	switch {
	case errors.Is(err, newsletter.ErrCampaignNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Campaign not found",
		})
	case errors.Is(err, newsletter.ErrTemplateNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Campaign template not found",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not send test email",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Test email sent",
	})
}

// GetEmailLogs returns the delivery log, newest first, optionally filtered
// by campaign.
func GetEmailLogs(c *fiber.Ctx) error {
	tx := database.GetDB().Model(&model.EmailLog{}).Preload("Subscriber")
	if campaignID := c.Query("campaign_id"); campaignID != "" {
		tx = tx.Where("campaign_id = ?", campaignID)
	}

	var logs []model.EmailLog
	if err := tx.Order("sent_at DESC").Limit(200).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch email logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"total": len(logs),
	})
}
