// pkg/cron/property_alerts.go
package cron

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
	"github.com/Bobybuu/real-estate-Gabby/internal/newsletter"
	"github.com/Bobybuu/real-estate-Gabby/internal/search"
	"github.com/Bobybuu/real-estate-Gabby/pkg/database"
)

// InitPropertyAlertsCron matches newly published listings against saved
// searches. Daily alerts go out every evening, weekly ones on Sunday.
func InitPropertyAlertsCron(svc *newsletter.Service) {
	c := cron.New()

	_, err := c.AddFunc("0 18 * * *", func() {
		sendPropertyAlerts(svc, model.NotifyDaily, time.Now().AddDate(0, 0, -1))
	})
	if err != nil {
		log.Printf("Could not initialize daily property alerts: %v", err)
		return
	}

	_, err = c.AddFunc("0 18 * * 0", func() {
		sendPropertyAlerts(svc, model.NotifyWeekly, time.Now().AddDate(0, 0, -7))
	})
	if err != nil {
		log.Printf("Could not initialize weekly property alerts: %v", err)
		return
	}

	c.Start()
	log.Printf("Property alerts cron initialized successfully")
}

func sendPropertyAlerts(svc *newsletter.Service, freq string, since time.Time) {
	var searches []model.SavedSearch
	err := database.GetDB().
		Where("notification_frequency = ? AND is_active = ?", freq, true).
		Preload("User").
		Find(&searches).Error
	if err != nil {
		log.Printf("Error fetching saved searches: %v", err)
		return
	}

	log.Printf("Evaluating %d saved searches for %s alerts", len(searches), freq)

	for _, saved := range searches {
		matches, err := matchNewListings(saved, since)
		if err != nil {
			log.Printf("Error matching saved search %d: %v", saved.ID, err)
			continue
		}
		if len(matches) == 0 || saved.User.Email == "" {
			continue
		}

		userID := saved.UserID
		sub, err := svc.EnsureSubscriber(saved.User.Email, saved.User.GetFullName(), &userID)
		if err != nil {
			log.Printf("Error resolving subscriber for %s: %v", saved.User.Email, err)
			continue
		}
		err = svc.SendTemplate(model.TemplatePropertyAlert, sub, map[string]interface{}{
			"search_name":    saved.Name,
			"match_count":    len(matches),
			"property_list":  formatMatches(matches),
			"property_title": matches[0].Title,
		})
		if err != nil {
			log.Printf("Error sending property alert to %s: %v", saved.User.Email, err)
		}
	}
}

func matchNewListings(saved model.SavedSearch, since time.Time) ([]model.Property, error) {
	raw := map[string][]string{}
	var params map[string]interface{}
	if err := json.Unmarshal(saved.SearchParams, &params); err != nil {
		return nil, err
	}
	for k, v := range params {
		switch val := v.(type) {
		case []interface{}:
			for _, item := range val {
				raw[k] = append(raw[k], fmt.Sprint(item))
			}
		default:
			raw[k] = []string{fmt.Sprint(val)}
		}
	}

	spec, err := search.ParseSpec(raw)
	if err != nil {
		return nil, err
	}

	var matches []model.Property
	tx := database.GetDB().
		Model(&model.Property{}).
		Where("status = ?", model.StatusPublished).
		Where("created_at >= ?", since)
	err = search.Apply(tx, spec).Limit(10).Find(&matches).Error
	return matches, err
}

func formatMatches(props []model.Property) string {
	lines := make([]string, len(props))
	for i, p := range props {
		lines[i] = fmt.Sprintf("%s - %s (%s)", p.Title, p.PriceDisplay(), p.LocationDisplay())
	}
	return strings.Join(lines, "\n")
}
