package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property types
type PropertyType string

const (
	PropertyTypeLand       PropertyType = "land"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeRental     PropertyType = "rental"
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeSale       PropertyType = "sale"
)

// Land types
type LandType string

const (
	LandTypeResidential  LandType = "residential"
	LandTypeAgricultural LandType = "agricultural"
	LandTypeCommercial   LandType = "commercial"
	LandTypeIndustrial   LandType = "industrial"
	LandTypeMixedUse     LandType = "mixed_use"
)

// Title deed types
type TitleDeedStatus string

const (
	TitleDeedFreehold      TitleDeedStatus = "freehold"
	TitleDeedLeasehold     TitleDeedStatus = "leasehold"
	TitleDeedAbsentee      TitleDeedStatus = "absentee"
	TitleDeedGroupRanch    TitleDeedStatus = "group_ranch"
	TitleDeedCommunityLand TitleDeedStatus = "community_land"
)

// Listing lifecycle
type PropertyStatus string

const (
	StatusDraft      PropertyStatus = "draft"
	StatusPending    PropertyStatus = "pending"
	StatusPublished  PropertyStatus = "published"
	StatusSold       PropertyStatus = "sold"
	StatusRented     PropertyStatus = "rented"
	StatusUnderOffer PropertyStatus = "under_offer"
)

// Electricity availability
type ElectricityAvailability string

const (
	ElectricityOnSite  ElectricityAvailability = "on_site"
	ElectricityNearby  ElectricityAvailability = "nearby"
	ElectricityPlanned ElectricityAvailability = "planned"
	ElectricityNone    ElectricityAvailability = "none"
)

var ErrValidation = errors.New("validation failed")

// FieldErrors maps field names to human-readable validation messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

func (e FieldErrors) Is(target error) bool { return target == ErrValidation }

type Property struct {
	gorm.Model
	Title            string         `json:"title" gorm:"size:200;not null"`
	Slug             string         `json:"slug" gorm:"uniqueIndex;not null"`
	ShortDescription string         `json:"short_description" gorm:"size:255"`
	Description      string         `json:"description" gorm:"type:text"`
	PropertyType     PropertyType   `json:"property_type" gorm:"size:20;index:idx_type_status;not null"`
	LandType         *LandType      `json:"land_type" gorm:"size:20;index:idx_land_status"`
	Status           PropertyStatus `json:"status" gorm:"size:20;index:idx_type_status;index:idx_land_status;default:draft"`

	// Location
	Address   string   `json:"address" gorm:"size:255"`
	City      string   `json:"city" gorm:"size:100;index"`
	State     string   `json:"state" gorm:"size:100"`
	ZipCode   string   `json:"zip_code" gorm:"size:20"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Landmarks string   `json:"landmarks" gorm:"type:text"`

	// Pricing
	Price              float64  `json:"price" gorm:"not null;index"`
	PriceUnit          string   `json:"price_unit" gorm:"size:20;default:total"`
	IsNegotiable       bool     `json:"is_negotiable" gorm:"default:false"`
	PricePerUnit       string   `json:"price_per_unit" gorm:"size:50"`
	PaymentPlanDetails string   `json:"payment_plan_details" gorm:"type:text"`
	DiscountOffers     string   `json:"discount_offers" gorm:"type:text"`
	DepositPercentage  *float64 `json:"deposit_percentage"`

	// Land size
	SizeAcres         *float64 `json:"size_acres"`
	PlotDimensions    string   `json:"plot_dimensions" gorm:"size:50"`
	NumPlotsAvailable int      `json:"num_plots_available" gorm:"default:1"`
	TotalPlots        int      `json:"total_plots" gorm:"default:1"`

	// Land characteristics
	Topography      string           `json:"topography" gorm:"size:100"`
	SoilType        string           `json:"soil_type" gorm:"size:50"`
	Zoning          string           `json:"zoning" gorm:"size:100"`
	TitleDeedStatus *TitleDeedStatus `json:"title_deed_status" gorm:"size:20"`

	// Development status
	HasSubdivisionApproval bool `json:"has_subdivision_approval" gorm:"default:false"`
	HasBeacons             bool `json:"has_beacons" gorm:"default:false"`
	IsFenced               bool `json:"is_fenced" gorm:"default:false"`
	IsGatedCommunity       bool `json:"is_gated_community" gorm:"default:false"`

	// Infrastructure
	RoadAccessType     string         `json:"road_access_type" gorm:"size:50"`
	DistanceToMainRoad *float64       `json:"distance_to_main_road"`
	WaterSupplyTypes   datatypes.JSON `json:"water_supply_types"`
	HasBorehole        bool           `json:"has_borehole" gorm:"default:false"`
	HasPipedWater      bool           `json:"has_piped_water" gorm:"default:false"`

	ElectricityAvailability ElectricityAvailability `json:"electricity_availability" gorm:"size:20;default:none"`
	HasSewerSystem          bool                    `json:"has_sewer_system" gorm:"default:false"`
	HasDrainage             bool                    `json:"has_drainage" gorm:"default:false"`
	InternetAvailability    bool                    `json:"internet_availability" gorm:"default:false"`

	// Dwelling details
	Bedrooms   *int     `json:"bedrooms"`
	Bathrooms  *float64 `json:"bathrooms"`
	SquareFeet *int     `json:"square_feet"`
	LotSize    *float64 `json:"lot_size"`
	YearBuilt  *int     `json:"year_built"`

	// Amenity flags
	HasGarage     bool `json:"has_garage" gorm:"default:false"`
	HasPool       bool `json:"has_pool" gorm:"default:false"`
	HasGarden     bool `json:"has_garden" gorm:"default:false"`
	HasFireplace  bool `json:"has_fireplace" gorm:"default:false"`
	HasCentralAir bool `json:"has_central_air" gorm:"default:false"`

	SellerID uint  `json:"seller_id" gorm:"not null"`
	AgentID  *uint `json:"agent_id"`

	PublishedAt *time.Time `json:"published_at"`
	Featured    bool       `json:"featured" gorm:"default:false"`
	ViewsCount  int        `json:"views_count" gorm:"default:0"`
	InquiryCnt  int        `json:"inquiry_count" gorm:"column:inquiry_count;default:0"`

	Seller    User              `json:"-" gorm:"foreignKey:SellerID"`
	Agent     *User             `json:"-" gorm:"foreignKey:AgentID"`
	Media     []PropertyMedia   `json:"media" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Images    []PropertyImage   `json:"images" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Amenities []PropertyAmenity `json:"amenities" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Documents []LegalDocument   `json:"documents" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Contact   *PropertyContact  `json:"contact_info" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Inquiries []Inquiry         `json:"-" gorm:"foreignKey:PropertyID"`
}

func (p *Property) IsLandProperty() bool {
	return p.PropertyType == PropertyTypeLand
}

func (p *Property) LocationDisplay() string {
	return fmt.Sprintf("%s, %s", p.City, p.State)
}

func (p *Property) PriceDisplay() string {
	if p.PricePerUnit != "" {
		return fmt.Sprintf("Ksh %.0f %s", p.Price, p.PricePerUnit)
	}
	return fmt.Sprintf("Ksh %.0f", p.Price)
}

// LandmarksList splits the comma-separated landmarks field.
func (p *Property) LandmarksList() []string {
	if p.Landmarks == "" {
		return []string{}
	}
	parts := strings.Split(p.Landmarks, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Validate enforces the listing invariants. Land listings need a land type,
// prices are strictly positive and acreage, when given, must be too.
func (p *Property) Validate() error {
	errs := FieldErrors{}
	if p.Title == "" {
		errs["title"] = "Title is required"
	}
	if p.PropertyType == PropertyTypeLand && p.LandType == nil {
		errs["land_type"] = "Land type is required for land properties"
	}
	if p.Price <= 0 {
		errs["price"] = "Price must be greater than 0"
	}
	if p.SizeAcres != nil && *p.SizeAcres <= 0 {
		errs["size_acres"] = "Size must be greater than 0"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Slug == "" {
		base := slug.Make(p.Title)
		candidate := base

		var count int64
		tx.Model(&Property{}).Where("slug = ?", candidate).Count(&count)
		if count > 0 {
			candidate = fmt.Sprintf("%s-%d", base, time.Now().UnixNano()%100000)
		}
		p.Slug = candidate
	}
	return nil
}

func (p *Property) BeforeUpdate(tx *gorm.DB) error {
	return p.Validate()
}

// Media types
type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaDrone    MediaType = "drone"
	MediaSitePlan MediaType = "site_plan"
	MediaAerial   MediaType = "aerial"
	MediaDocument MediaType = "document"
)

type PropertyMedia struct {
	gorm.Model
	PropertyID   uint      `json:"property_id" gorm:"not null;index"`
	MediaType    MediaType `json:"media_type" gorm:"size:20;not null"`
	URL          string    `json:"url" gorm:"not null"`
	VideoURL     string    `json:"video_url"`
	Caption      string    `json:"caption" gorm:"size:200"`
	IsPrimary    bool      `json:"is_primary" gorm:"default:false"`
	DisplayOrder int       `json:"display_order" gorm:"default:0"`

	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}

// Legacy image table kept alongside PropertyMedia.
type PropertyImage struct {
	gorm.Model
	PropertyID uint   `json:"property_id" gorm:"not null;index"`
	URL        string `json:"url" gorm:"not null"`
	Caption    string `json:"caption" gorm:"size:200"`
	IsPrimary  bool   `json:"is_primary" gorm:"default:false"`
	Order      int    `json:"order" gorm:"default:0"`

	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}

// Amenity categories
type AmenityCategory string

const (
	AmenityUtilities       AmenityCategory = "utilities"
	AmenityAccessibility   AmenityCategory = "accessibility"
	AmenitySurroundings    AmenityCategory = "surroundings"
	AmenityCharacteristics AmenityCategory = "characteristics"
	AmenitySecurity        AmenityCategory = "security"
	AmenityCommunity       AmenityCategory = "community"
)

type Amenity struct {
	gorm.Model
	Name        string          `json:"name" gorm:"size:100;not null"`
	Category    AmenityCategory `json:"category" gorm:"size:20;not null"`
	IconCode    string          `json:"icon_code" gorm:"size:20"`
	Description string          `json:"description" gorm:"size:200"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
}

type PropertyAmenity struct {
	gorm.Model
	PropertyID   uint   `json:"property_id" gorm:"uniqueIndex:idx_property_amenity;not null"`
	AmenityID    uint   `json:"amenity_id" gorm:"uniqueIndex:idx_property_amenity;not null"`
	Availability string `json:"availability" gorm:"size:20;default:on_site"`
	Details      string `json:"details" gorm:"size:200"`

	Amenity Amenity `json:"amenity" gorm:"foreignKey:AmenityID"`
}

// Legal document types
type DocumentType string

const (
	DocTitleDeed         DocumentType = "title_deed"
	DocSurveyMap         DocumentType = "survey_map"
	DocZoningCertificate DocumentType = "zoning_certificate"
	DocBrochure          DocumentType = "brochure"
	DocDeedPlan          DocumentType = "deed_plan"
	DocApprovalLetter    DocumentType = "approval_letter"
	DocSearchCertificate DocumentType = "search_certificate"
)

type LegalDocument struct {
	gorm.Model
	PropertyID   uint         `json:"property_id" gorm:"not null;index"`
	DocumentType DocumentType `json:"document_type" gorm:"size:20;not null"`
	URL          string       `json:"url" gorm:"not null"`
	Description  string       `json:"description" gorm:"size:200"`
	IsVerified   bool         `json:"is_verified" gorm:"default:false"`
	VerifiedAt   *time.Time   `json:"verified_at"`
	VerifiedByID *uint        `json:"verified_by"`
}

type PropertyContact struct {
	gorm.Model
	PropertyID         uint   `json:"property_id" gorm:"uniqueIndex;not null"`
	AgentName          string `json:"agent_name" gorm:"size:100"`
	AgentPhone         string `json:"agent_phone" gorm:"size:20"`
	AgentEmail         string `json:"agent_email"`
	WhatsAppNumber     string `json:"whatsapp_number" gorm:"size:20"`
	AlternativeContact string `json:"alternative_contact" gorm:"size:100"`
	OfficeAddress      string `json:"office_address" gorm:"type:text"`
	LicenseNumber      string `json:"license_number" gorm:"size:50"`
}
