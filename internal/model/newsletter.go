package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Email template kinds, one row per kind.
type TemplateType string

const (
	TemplateWelcome       TemplateType = "welcome"
	TemplateNewsletter    TemplateType = "newsletter"
	TemplatePropertyAlert TemplateType = "property_alert"
	TemplateConfirmation  TemplateType = "confirmation"
)

func ValidTemplateType(t TemplateType) bool {
	switch t {
	case TemplateWelcome, TemplateNewsletter, TemplatePropertyAlert, TemplateConfirmation:
		return true
	}
	return false
}

type EmailTemplate struct {
	gorm.Model
	Name             string       `json:"name" gorm:"size:100;not null"`
	TemplateType     TemplateType `json:"template_type" gorm:"size:20;uniqueIndex;not null"`
	Subject          string       `json:"subject" gorm:"size:200;not null"`
	HTMLContent      string       `json:"html_content" gorm:"type:text;not null"`
	PlainTextContent string       `json:"plain_text_content" gorm:"type:text"`
	IsActive         bool         `json:"is_active" gorm:"default:true"`
}

func (EmailTemplate) TableName() string { return "email_templates" }

type Subscriber struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null"`
	UserID         *uint      `json:"user_id"`
	Name           string     `json:"name" gorm:"size:100"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	SubscribedAt   time.Time  `json:"subscribed_at" gorm:"autoCreateTime"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at"`
	Token          string     `json:"token" gorm:"uniqueIndex;not null"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (Subscriber) TableName() string { return "newsletter_subscribers" }

func (s *Subscriber) BeforeCreate(tx *gorm.DB) error {
	if s.Token == "" {
		s.Token = uuid.NewString()
	}
	return nil
}

type Campaign struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Title        string     `json:"title" gorm:"size:200;not null"`
	Subject      string     `json:"subject" gorm:"size:200;not null"`
	Content      string     `json:"content" gorm:"type:text"`
	TemplateID   *uint      `json:"template"`
	SentAt       *time.Time `json:"sent_at"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	ScheduledFor *time.Time `json:"scheduled_for"`

	Template *EmailTemplate `json:"-" gorm:"foreignKey:TemplateID"`
}

func (Campaign) TableName() string { return "newsletter_campaigns" }

func (c *Campaign) IsSent() bool { return c.SentAt != nil }

// Delivery outcomes recorded per outbound message.
type EmailStatus string

const (
	EmailSent       EmailStatus = "sent"
	EmailDelivered  EmailStatus = "delivered"
	EmailBounced    EmailStatus = "bounced"
	EmailComplained EmailStatus = "complained"
	EmailFailed     EmailStatus = "failed"
)

type EmailLog struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	SubscriberID uint        `json:"subscriber" gorm:"not null;index"`
	TemplateID   *uint       `json:"template"`
	CampaignID   *uint       `json:"campaign" gorm:"index"`
	Subject      string      `json:"subject" gorm:"size:255"`
	SentAt       time.Time   `json:"sent_at" gorm:"autoCreateTime;index"`
	MessageID    string      `json:"message_id" gorm:"size:255"`
	Status       EmailStatus `json:"status" gorm:"size:20;default:sent"`
	Error        string      `json:"error,omitempty" gorm:"type:text"`

	Subscriber Subscriber `json:"-" gorm:"foreignKey:SubscriberID"`
}

func (EmailLog) TableName() string { return "email_logs" }

type PopupDismissal struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SessionKey  string    `json:"session_key" gorm:"size:255;uniqueIndex:idx_session_user;not null"`
	UserID      *uint     `json:"user_id" gorm:"uniqueIndex:idx_session_user"`
	DismissedAt time.Time `json:"dismissed_at" gorm:"autoCreateTime"`
}

func (PopupDismissal) TableName() string { return "popup_dismissals" }

// IsValid reports whether the dismissal still suppresses the popup.
// Whole-day granularity: valid while fewer than 3 full days have elapsed.
func (d *PopupDismissal) IsValid(now time.Time) bool {
	return int(now.Sub(d.DismissedAt).Hours()/24) < 3
}
