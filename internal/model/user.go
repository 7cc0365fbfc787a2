package model

import (
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User roles
type UserRole string

const (
	RoleBuyer            UserRole = "buyer"
	RoleSeller           UserRole = "seller"
	RoleAgent            UserRole = "agent"
	RoleAdmin            UserRole = "admin"
	RoleManagementClient UserRole = "management_client"
)

type User struct {
	gorm.Model
	Email    string   `json:"email" gorm:"uniqueIndex;not null"`
	Password string   `json:"-" gorm:"not null"`
	Username string   `json:"username" gorm:"uniqueIndex;not null"`
	Role     UserRole `json:"role" gorm:"default:buyer;not null"`

	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PhoneNumber  string `json:"phone_number"`
	ProfileImage string `json:"profile_image"`
	IsVerified   bool   `json:"is_verified" gorm:"default:false"`

	// Seller/agent fields
	CompanyName   string `json:"company_name"`
	LicenseNumber string `json:"license_number"`
	Bio           string `json:"bio" gorm:"type:text"`

	Properties    []Property    `json:"-" gorm:"foreignKey:SellerID"`
	Profile       *UserProfile  `json:"-"`
	SavedSearches []SavedSearch `json:"-"`
}

func (u *User) GetFullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":           u.ID,
		"username":     u.Username,
		"role":         u.Role,
		"full_name":    u.GetFullName(),
		"phone_number": u.PhoneNumber,
		"company_name": u.CompanyName,
		"is_verified":  u.IsVerified,
	}
}

type UserProfile struct {
	gorm.Model
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`

	Address string `json:"address" gorm:"type:text"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`

	EmailNotifications bool `json:"email_notifications" gorm:"default:true"`
	SMSNotifications   bool `json:"sms_notifications" gorm:"default:false"`

	// Buyer preferences
	PreferredLocations     datatypes.JSON `json:"preferred_locations"`
	PriceRangeMin          *float64       `json:"price_range_min"`
	PriceRangeMax          *float64       `json:"price_range_max"`
	PreferredPropertyTypes datatypes.JSON `json:"preferred_property_types"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// Notification frequencies for saved searches
const (
	NotifyInstant = "instant"
	NotifyDaily   = "daily"
	NotifyWeekly  = "weekly"
)

type SavedSearch struct {
	gorm.Model
	UserID       uint           `json:"user_id" gorm:"uniqueIndex:idx_user_search_name;not null"`
	Name         string         `json:"name" gorm:"uniqueIndex:idx_user_search_name;size:100;not null"`
	SearchParams datatypes.JSON `json:"search_params"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`

	NotificationFrequency string `json:"notification_frequency" gorm:"size:20;default:instant"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
