package model

import (
	"time"

	"gorm.io/gorm"
)

// Inquiry types
type InquiryType string

const (
	InquiryProperty   InquiryType = "property_inquiry"
	InquiryValuation  InquiryType = "valuation_request"
	InquiryManagement InquiryType = "management_request"
	InquiryGeneral    InquiryType = "general_inquiry"
	InquirySiteVisit  InquiryType = "site_visit"
)

// Inquiry workflow states
type InquiryStatus string

const (
	InquiryNew       InquiryStatus = "new"
	InquiryContacted InquiryStatus = "contacted"
	InquiryScheduled InquiryStatus = "scheduled"
	InquiryClosed    InquiryStatus = "closed"
	InquiryConverted InquiryStatus = "converted"
)

// Inquiry sources
type InquirySource string

const (
	SourceWebsite  InquirySource = "website"
	SourceWhatsApp InquirySource = "whatsapp"
	SourcePhone    InquirySource = "phone"
	SourceEmail    InquirySource = "email"
	SourceWalkIn   InquirySource = "walk_in"
)

func ValidInquiryStatus(s InquiryStatus) bool {
	switch s {
	case InquiryNew, InquiryContacted, InquiryScheduled, InquiryClosed, InquiryConverted:
		return true
	}
	return false
}

type Inquiry struct {
	gorm.Model
	UserID     *uint `json:"user_id"`
	PropertyID *uint `json:"property_id" gorm:"index:idx_inquiry_property"`

	Name    string `json:"name" gorm:"size:100;not null"`
	Email   string `json:"email" gorm:"not null"`
	Phone   string `json:"phone" gorm:"size:20"`
	Message string `json:"message" gorm:"type:text"`

	InquiryType   InquiryType   `json:"inquiry_type" gorm:"size:20;default:property_inquiry"`
	Source        InquirySource `json:"source" gorm:"size:20;default:website;index"`
	PreferredDate *time.Time    `json:"preferred_date"`
	BudgetRange   string        `json:"budget_range" gorm:"size:100"`
	Status        InquiryStatus `json:"status" gorm:"size:20;default:new;index"`

	InternalNotes   string `json:"internal_notes" gorm:"type:text"`
	AssignedAgentID *uint  `json:"assigned_agent"`

	User          *User     `json:"-" gorm:"foreignKey:UserID"`
	Property      *Property `json:"-" gorm:"foreignKey:PropertyID"`
	AssignedAgent *User     `json:"-" gorm:"foreignKey:AssignedAgentID"`
}

type Favorite struct {
	gorm.Model
	UserID     uint `json:"user_id" gorm:"uniqueIndex:idx_user_favorite;not null"`
	PropertyID uint `json:"property_id" gorm:"uniqueIndex:idx_user_favorite;not null"`

	User     User     `json:"-" gorm:"foreignKey:UserID"`
	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}
