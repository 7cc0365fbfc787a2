package newsletter

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
)

var (
	ErrAlreadySubscribed   = errors.New("email is already subscribed")
	ErrSubscriberNotFound  = errors.New("subscriber not found")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrCampaignAlreadySent = errors.New("campaign has already been sent")
)

// Mailer is the outbound delivery transport. Send returns the provider's
// message id for the delivery log.
type Mailer interface {
	Send(to []string, subject, html, text string) (string, error)
	SendText(to []string, subject, text string) (string, error)
}

// Service drives the subscriber lifecycle and campaign delivery.
type Service struct {
	stores  Stores
	mailer  Mailer
	siteURL string

	now func() time.Time
}

func NewService(stores Stores, mailer Mailer, siteURL string) *Service {
	return &Service{
		stores:  stores,
		mailer:  mailer,
		siteURL: siteURL,
		now:     time.Now,
	}
}

// Subscribe registers a new email or reactivates an inactive subscription.
// A brand-new subscriber gets a welcome email; a reactivated one does not.
func (s *Service) Subscribe(email, name string) (*model.Subscriber, error) {
	existing, err := s.stores.Subscribers.ByEmail(email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if existing.IsActive {
			return nil, ErrAlreadySubscribed
		}
		existing.IsActive = true
		existing.UnsubscribedAt = nil
		if name != "" {
			existing.Name = name
		}
		if err := s.stores.Subscribers.Save(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	sub := &model.Subscriber{
		Email:    email,
		Name:     name,
		IsActive: true,
	}
	if err := s.stores.Subscribers.Create(sub); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}

	s.sendWelcome(sub)
	return sub, nil
}

// EnsureSubscriber returns the subscriber row for an email, creating an
// active one without a welcome send when none exists. Transactional sends
// like property alerts need a persisted row so their delivery log entries
// have an owner and the unsubscribe link a real token.
func (s *Service) EnsureSubscriber(email, name string, userID *uint) (*model.Subscriber, error) {
	sub, err := s.stores.Subscribers.ByEmail(email)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	sub = &model.Subscriber{
		Email:    email,
		Name:     name,
		UserID:   userID,
		IsActive: true,
	}
	if err := s.stores.Subscribers.Create(sub); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return s.stores.Subscribers.ByEmail(email)
		}
		return nil, err
	}
	return sub, nil
}

// sendWelcome delivers the welcome template. Delivery problems are logged
// and swallowed: a failed welcome never fails the subscription.
func (s *Service) sendWelcome(sub *model.Subscriber) {
	tmpl, err := s.stores.Templates.ActiveByType(model.TemplateWelcome)
	if errors.Is(err, ErrNotFound) {
		text := fmt.Sprintf(
			"Hi %s,\n\nThanks for subscribing to our newsletter. You can unsubscribe at any time: %s/newsletter/unsubscribe/%s\n",
			displayName(sub), s.siteURL, sub.Token,
		)
		if _, err := s.mailer.SendText([]string{sub.Email}, "Welcome to our newsletter", text); err != nil {
			log.Printf("welcome email to %s failed: %v", sub.Email, err)
		}
		return
	}
	if err != nil {
		log.Printf("welcome template lookup failed: %v", err)
		return
	}

	html, text := Render(tmpl, s.subscriberContext(sub))
	msgID, err := s.mailer.Send([]string{sub.Email}, tmpl.Subject, html, text)
	if err != nil {
		log.Printf("welcome email to %s failed: %v", sub.Email, err)
		return
	}
	s.appendLog(&model.EmailLog{
		SubscriberID: sub.ID,
		TemplateID:   &tmpl.ID,
		Subject:      tmpl.Subject,
		Status:       model.EmailSent,
		MessageID:    msgID,
		SentAt:       s.now(),
	})
}

// Unsubscribe deactivates by email. With a token the pair must match, but a
// match deactivates regardless of the current active flag so the operation
// is idempotent for the link holder. Without a token only an active
// subscription matches.
func (s *Service) Unsubscribe(email, token string) error {
	var (
		sub *model.Subscriber
		err error
	)
	if token == "" {
		sub, err = s.stores.Subscribers.ActiveByEmail(email)
	} else {
		sub, err = s.stores.Subscribers.ByEmailAndToken(email, token)
	}
	if errors.Is(err, ErrNotFound) {
		return ErrSubscriberNotFound
	}
	if err != nil {
		return err
	}
	return s.deactivate(sub)
}

// UnsubscribeByToken deactivates by token alone and returns the affected
// email. It only matches an active subscription, so a second use of the
// same link reports not found.
func (s *Service) UnsubscribeByToken(token string) (string, error) {
	sub, err := s.stores.Subscribers.ActiveByToken(token)
	if errors.Is(err, ErrNotFound) {
		return "", ErrSubscriberNotFound
	}
	if err != nil {
		return "", err
	}
	return sub.Email, s.deactivate(sub)
}

func (s *Service) deactivate(sub *model.Subscriber) error {
	now := s.now()
	sub.IsActive = false
	sub.UnsubscribedAt = &now
	return s.stores.Subscribers.Save(sub)
}

// CampaignResult summarizes one campaign run.
type CampaignResult struct {
	Attempted int `json:"attempted"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

// SendCampaign delivers a campaign to every active subscriber, each
// delivery independent of the others. The campaign is stamped sent exactly
// once; a campaign already stamped is refused.
func (s *Service) SendCampaign(campaignID uint) (*CampaignResult, error) {
	campaign, err := s.stores.Campaigns.ByID(campaignID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}
	if campaign.IsSent() {
		return nil, ErrCampaignAlreadySent
	}

	tmpl, err := s.campaignTemplate(campaign)
	if err != nil {
		return nil, err
	}

	subs, err := s.stores.Subscribers.ListActive()
	if err != nil {
		return nil, err
	}

	result := &CampaignResult{Attempted: len(subs)}
	for i := range subs {
		sub := &subs[i]
		html, text := Render(tmpl, s.campaignContext(campaign, sub))
		msgID, err := s.mailer.Send([]string{sub.Email}, campaign.Subject, html, text)
		entry := &model.EmailLog{
			SubscriberID: sub.ID,
			TemplateID:   campaign.TemplateID,
			CampaignID:   &campaign.ID,
			Subject:      campaign.Subject,
			SentAt:       s.now(),
		}
		if err != nil {
			result.Failed++
			log.Printf("campaign %d to %s failed: %v", campaign.ID, sub.Email, err)
			entry.Status = model.EmailFailed
			entry.Error = err.Error()
		} else {
			result.Sent++
			entry.Status = model.EmailSent
			entry.MessageID = msgID
		}
		s.appendLog(entry)
	}

	won, err := s.stores.Campaigns.MarkSent(campaign.ID, s.now())
	if err != nil {
		return result, err
	}
	if !won {
		return result, ErrCampaignAlreadySent
	}
	return result, nil
}

// campaignTemplate resolves the campaign body: the linked template when one
// is set, otherwise the campaign's own content.
func (s *Service) campaignTemplate(c *model.Campaign) (*model.EmailTemplate, error) {
	if c.TemplateID == nil {
		return &model.EmailTemplate{
			Subject:     c.Subject,
			HTMLContent: c.Content,
		}, nil
	}
	tmpl, err := s.stores.Templates.ByID(*c.TemplateID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrTemplateNotFound
	}
	return tmpl, err
}

// SendTest delivers a campaign render to one address without touching the
// subscriber list or the sent stamp.
func (s *Service) SendTest(campaignID uint, email string) error {
	campaign, err := s.stores.Campaigns.ByID(campaignID)
	if errors.Is(err, ErrNotFound) {
		return ErrCampaignNotFound
	}
	if err != nil {
		return err
	}

	tmpl, err := s.campaignTemplate(campaign)
	if err != nil {
		return err
	}

	sub := &model.Subscriber{Email: email, Name: "Test Recipient", Token: "test"}
	html, text := Render(tmpl, s.campaignContext(campaign, sub))
	_, err = s.mailer.Send([]string{email}, "[TEST] "+campaign.Subject, html, text)
	return err
}

// SendTemplate renders the named template type for one subscriber with
// extra context merged in. Used by the property alert job.
func (s *Service) SendTemplate(t model.TemplateType, sub *model.Subscriber, extra map[string]interface{}) error {
	tmpl, err := s.stores.Templates.ActiveByType(t)
	if errors.Is(err, ErrNotFound) {
		return ErrTemplateNotFound
	}
	if err != nil {
		return err
	}

	context := s.subscriberContext(sub)
	for k, v := range extra {
		context[k] = v
	}

	html, text := Render(tmpl, context)
	msgID, err := s.mailer.Send([]string{sub.Email}, tmpl.Subject, html, text)
	if err != nil {
		return err
	}
	s.appendLog(&model.EmailLog{
		SubscriberID: sub.ID,
		TemplateID:   &tmpl.ID,
		Subject:      tmpl.Subject,
		Status:       model.EmailSent,
		MessageID:    msgID,
		SentAt:       s.now(),
	})
	return nil
}

func (s *Service) subscriberContext(sub *model.Subscriber) map[string]interface{} {
	return map[string]interface{}{
		"name":            displayName(sub),
		"email":           sub.Email,
		"site_url":        s.siteURL,
		"unsubscribe_url": fmt.Sprintf("%s/newsletter/unsubscribe/%s", s.siteURL, sub.Token),
	}
}

func (s *Service) campaignContext(c *model.Campaign, sub *model.Subscriber) map[string]interface{} {
	ctx := s.subscriberContext(sub)
	ctx["subject"] = c.Subject
	ctx["campaign_title"] = c.Title
	ctx["content"] = c.Content
	return ctx
}

func (s *Service) appendLog(entry *model.EmailLog) {
	if err := s.stores.Logs.Append(entry); err != nil {
		log.Printf("email log append failed: %v", err)
	}
}

func displayName(sub *model.Subscriber) string {
	if sub.Name != "" {
		return sub.Name
	}
	return "there"
}
