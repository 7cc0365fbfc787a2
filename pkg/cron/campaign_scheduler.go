// pkg/cron/campaign_scheduler.go
package cron

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Bobybuu/real-estate-Gabby/internal/newsletter"
)

var campaignMutex sync.Mutex

// InitCampaignScheduler checks every minute for campaigns whose scheduled
// time has arrived and sends them. The mutex keeps a slow run from
// overlapping the next tick; the sent stamp makes re-delivery impossible
// either way.
func InitCampaignScheduler(svc *newsletter.Service, campaigns newsletter.CampaignStore) {
	c := cron.New()

	_, err := c.AddFunc("* * * * *", func() {
		campaignMutex.Lock()
		defer campaignMutex.Unlock()

		sendDueCampaigns(svc, campaigns)
	})

	if err != nil {
		log.Printf("Could not initialize campaign scheduler: %v", err)
		return
	}

	c.Start()
	log.Printf("Campaign scheduler initialized successfully")
}

func sendDueCampaigns(svc *newsletter.Service, campaigns newsletter.CampaignStore) {
	due, err := campaigns.DueForSending(time.Now())
	if err != nil {
		log.Printf("Error fetching due campaigns: %v", err)
		return
	}

	for _, campaign := range due {
		result, err := svc.SendCampaign(campaign.ID)
		if errors.Is(err, newsletter.ErrCampaignAlreadySent) {
			continue
		}
		if err != nil {
			log.Printf("Error sending scheduled campaign %d: %v", campaign.ID, err)
			continue
		}
		log.Printf("Sent scheduled campaign %d: %d sent, %d failed", campaign.ID, result.Sent, result.Failed)
	}
}
