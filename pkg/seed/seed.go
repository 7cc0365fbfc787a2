package seed

import (
	"log"

	"gorm.io/gorm"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
)

func SeedEmailTemplates(db *gorm.DB) {
	templates := []model.EmailTemplate{
		{
			Name:         "Welcome Email",
			TemplateType: model.TemplateWelcome,
			Subject:      "Welcome to Gabby Properties!",
			HTMLContent: `<h1>Welcome, {{ name }}!</h1>
<p>Thanks for subscribing to the Gabby Properties newsletter. We'll keep you
posted on new listings and market updates.</p>
<p><a href="{{ unsubscribe_url }}">Unsubscribe</a></p>`,
			IsActive: true,
		},
		{
			Name:         "Newsletter",
			TemplateType: model.TemplateNewsletter,
			Subject:      "{{ subject }}",
			HTMLContent: `<h1>{{ campaign_title }}</h1>
<div>{{ content }}</div>
<p><a href="{{ unsubscribe_url }}">Unsubscribe</a></p>`,
			IsActive: true,
		},
		{
			Name:         "Property Alert",
			TemplateType: model.TemplatePropertyAlert,
			Subject:      "New listings matching your search",
			HTMLContent: `<h1>Hi {{ name }},</h1>
<p>{{ match_count }} new listings match your saved search "{{ search_name }}":</p>
<pre>{{ property_list }}</pre>
<p><a href="{{ site_url }}/search">See all listings</a></p>
<p><a href="{{ unsubscribe_url }}">Unsubscribe</a></p>`,
			IsActive: true,
		},
		{
			Name:         "Inquiry Confirmation",
			TemplateType: model.TemplateConfirmation,
			Subject:      "We received your inquiry",
			HTMLContent: `<h1>Hi {{ name }},</h1>
<p>Thanks for your inquiry about {{ property_title }}. One of our agents will
get back to you shortly.</p>`,
			IsActive: true,
		},
	}

	for _, tmpl := range templates {
		result := db.FirstOrCreate(&tmpl, model.EmailTemplate{TemplateType: tmpl.TemplateType})
		if result.Error != nil {
			log.Printf("Error creating template %s: %v", tmpl.Name, result.Error)
		}
	}

	log.Println("Email templates seeded successfully!")
}

func SeedAmenities(db *gorm.DB) {
	amenities := []model.Amenity{
		{Name: "Borehole Water", Category: model.AmenityUtilities, IconCode: "droplet"},
		{Name: "Piped Water", Category: model.AmenityUtilities, IconCode: "droplet"},
		{Name: "Electricity On Site", Category: model.AmenityUtilities, IconCode: "zap"},
		{Name: "Internet Ready", Category: model.AmenityUtilities, IconCode: "wifi"},
		{Name: "Perimeter Wall", Category: model.AmenitySecurity, IconCode: "shield"},
		{Name: "Gated Community", Category: model.AmenitySecurity, IconCode: "shield"},
		{Name: "24hr Security", Category: model.AmenitySecurity, IconCode: "shield"},
		{Name: "Swimming Pool", Category: model.AmenityCommunity, IconCode: "waves"},
		{Name: "Garden", Category: model.AmenityCommunity, IconCode: "flower"},
		{Name: "Playground", Category: model.AmenityCommunity, IconCode: "smile"},
		{Name: "Tarmac Road", Category: model.AmenityAccessibility, IconCode: "map"},
		{Name: "Near Shopping Center", Category: model.AmenityAccessibility, IconCode: "shopping-bag"},
		{Name: "Near School", Category: model.AmenityAccessibility, IconCode: "book"},
		{Name: "Near Hospital", Category: model.AmenityAccessibility, IconCode: "heart"},
	}

	for _, amenity := range amenities {
		result := db.FirstOrCreate(&amenity, model.Amenity{Name: amenity.Name})
		if result.Error != nil {
			log.Printf("Error creating amenity %s: %v", amenity.Name, result.Error)
		}
	}

	log.Println("Amenities seeded successfully!")
}
