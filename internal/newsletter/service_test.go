package newsletter

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
)

// In-memory fakes

type fakeSubscribers struct {
	subs      map[string]*model.Subscriber
	nextID    uint
	createErr error
}

func newFakeSubscribers() *fakeSubscribers {
	return &fakeSubscribers{subs: map[string]*model.Subscriber{}, nextID: 1}
}

func (f *fakeSubscribers) ByEmail(email string) (*model.Subscriber, error) {
	if sub, ok := f.subs[email]; ok {
		out := *sub
		return &out, nil
	}
	return nil, ErrNotFound
}

func (f *fakeSubscribers) ActiveByEmail(email string) (*model.Subscriber, error) {
	if sub, ok := f.subs[email]; ok && sub.IsActive {
		out := *sub
		return &out, nil
	}
	return nil, ErrNotFound
}

func (f *fakeSubscribers) ByEmailAndToken(email, token string) (*model.Subscriber, error) {
	if sub, ok := f.subs[email]; ok && sub.Token == token {
		out := *sub
		return &out, nil
	}
	return nil, ErrNotFound
}

func (f *fakeSubscribers) ActiveByToken(token string) (*model.Subscriber, error) {
	for _, sub := range f.subs {
		if sub.Token == token && sub.IsActive {
			out := *sub
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeSubscribers) Create(sub *model.Subscriber) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.subs[sub.Email]; ok {
		return ErrDuplicateEmail
	}
	sub.ID = f.nextID
	f.nextID++
	if sub.Token == "" {
		sub.Token = fmt.Sprintf("token-%d", sub.ID)
	}
	stored := *sub
	f.subs[sub.Email] = &stored
	return nil
}

func (f *fakeSubscribers) Save(sub *model.Subscriber) error {
	stored := *sub
	f.subs[sub.Email] = &stored
	return nil
}

func (f *fakeSubscribers) ListActive() ([]model.Subscriber, error) {
	var out []model.Subscriber
	for _, sub := range f.subs {
		if sub.IsActive {
			out = append(out, *sub)
		}
	}
	return out, nil
}

type fakeTemplates struct {
	byType map[model.TemplateType]*model.EmailTemplate
	byID   map[uint]*model.EmailTemplate
}

func newFakeTemplates() *fakeTemplates {
	return &fakeTemplates{
		byType: map[model.TemplateType]*model.EmailTemplate{},
		byID:   map[uint]*model.EmailTemplate{},
	}
}

func (f *fakeTemplates) add(tmpl *model.EmailTemplate) {
	f.byType[tmpl.TemplateType] = tmpl
	f.byID[tmpl.ID] = tmpl
}

func (f *fakeTemplates) ActiveByType(t model.TemplateType) (*model.EmailTemplate, error) {
	if tmpl, ok := f.byType[t]; ok && tmpl.IsActive {
		return tmpl, nil
	}
	return nil, ErrNotFound
}

func (f *fakeTemplates) ByID(id uint) (*model.EmailTemplate, error) {
	if tmpl, ok := f.byID[id]; ok {
		return tmpl, nil
	}
	return nil, ErrNotFound
}

type fakeCampaigns struct {
	campaigns   map[uint]*model.Campaign
	markSentWon bool
	markedAt    *time.Time
}

func newFakeCampaigns() *fakeCampaigns {
	return &fakeCampaigns{campaigns: map[uint]*model.Campaign{}, markSentWon: true}
}

func (f *fakeCampaigns) ByID(id uint) (*model.Campaign, error) {
	if c, ok := f.campaigns[id]; ok {
		out := *c
		return &out, nil
	}
	return nil, ErrNotFound
}

func (f *fakeCampaigns) MarkSent(id uint, at time.Time) (bool, error) {
	if !f.markSentWon {
		return false, nil
	}
	f.markedAt = &at
	if c, ok := f.campaigns[id]; ok {
		c.SentAt = &at
	}
	return true, nil
}

func (f *fakeCampaigns) DueForSending(now time.Time) ([]model.Campaign, error) {
	var due []model.Campaign
	for _, c := range f.campaigns {
		if c.SentAt == nil && c.ScheduledFor != nil && !c.ScheduledFor.After(now) {
			due = append(due, *c)
		}
	}
	return due, nil
}

type fakeLogs struct {
	entries []model.EmailLog
}

func (f *fakeLogs) Append(entry *model.EmailLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

type sentMail struct {
	to      []string
	subject string
	html    string
	text    string
}

type fakeMailer struct {
	sent    []sentMail
	failFor map[string]error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: map[string]error{}}
}

func (f *fakeMailer) Send(to []string, subject, html, text string) (string, error) {
	for _, addr := range to {
		if err, ok := f.failFor[addr]; ok {
			return "", err
		}
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, html: html, text: text})
	return fmt.Sprintf("msg-%d", len(f.sent)), nil
}

func (f *fakeMailer) SendText(to []string, subject, text string) (string, error) {
	return f.Send(to, subject, "", text)
}

type fixture struct {
	svc         *Service
	subscribers *fakeSubscribers
	templates   *fakeTemplates
	campaigns   *fakeCampaigns
	logs        *fakeLogs
	mailer      *fakeMailer
}

func newFixture() *fixture {
	f := &fixture{
		subscribers: newFakeSubscribers(),
		templates:   newFakeTemplates(),
		campaigns:   newFakeCampaigns(),
		logs:        &fakeLogs{},
		mailer:      newFakeMailer(),
	}
	stores := Stores{
		Subscribers: f.subscribers,
		Templates:   f.templates,
		Campaigns:   f.campaigns,
		Logs:        f.logs,
		Dismissals:  newFakeDismissals(),
	}
	f.svc = NewService(stores, f.mailer, "https://example.com")
	return f
}

func (f *fixture) withWelcomeTemplate() *fixture {
	f.templates.add(&model.EmailTemplate{
		Model:        gorm.Model{ID: 1},
		TemplateType: model.TemplateWelcome,
		Subject:      "Welcome!",
		HTMLContent:  "<p>Hi {{ name }}, unsubscribe at {{ unsubscribe_url }}</p>",
		IsActive:     true,
	})
	return f
}

func TestSubscribeNewSendsWelcome(t *testing.T) {
	f := newFixture().withWelcomeTemplate()

	sub, err := f.svc.Subscribe("jane@example.com", "Jane")
	require.NoError(t, err)

	assert.True(t, sub.IsActive)
	assert.NotEmpty(t, sub.Token)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, []string{"jane@example.com"}, f.mailer.sent[0].to)
	assert.Contains(t, f.mailer.sent[0].html, "Hi Jane")
	assert.Contains(t, f.mailer.sent[0].html, sub.Token)

	require.Len(t, f.logs.entries, 1)
	assert.Equal(t, model.EmailSent, f.logs.entries[0].Status)
}

func TestSubscribeActiveReturnsAlreadySubscribed(t *testing.T) {
	f := newFixture().withWelcomeTemplate()

	_, err := f.svc.Subscribe("jane@example.com", "Jane")
	require.NoError(t, err)

	_, err = f.svc.Subscribe("jane@example.com", "Jane")
	assert.ErrorIs(t, err, ErrAlreadySubscribed)
	assert.Len(t, f.mailer.sent, 1)
}

func TestSubscribeReactivatesWithoutWelcome(t *testing.T) {
	f := newFixture().withWelcomeTemplate()

	sub, err := f.svc.Subscribe("jane@example.com", "Jane")
	require.NoError(t, err)
	_, err = f.svc.UnsubscribeByToken(sub.Token)
	require.NoError(t, err)

	reactivated, err := f.svc.Subscribe("jane@example.com", "Jane W")
	require.NoError(t, err)

	assert.True(t, reactivated.IsActive)
	assert.Nil(t, reactivated.UnsubscribedAt)
	assert.Equal(t, sub.Token, reactivated.Token)
	assert.Equal(t, "Jane W", reactivated.Name)

	// Only the original welcome, none on reactivation
	assert.Len(t, f.mailer.sent, 1)
}

func TestSubscribeDuplicateRaceMapsToAlreadySubscribed(t *testing.T) {
	f := newFixture()
	f.subscribers.createErr = ErrDuplicateEmail

	_, err := f.svc.Subscribe("jane@example.com", "Jane")
	assert.ErrorIs(t, err, ErrAlreadySubscribed)
}

func TestSubscribeSurvivesWelcomeFailure(t *testing.T) {
	f := newFixture().withWelcomeTemplate()
	f.mailer.failFor["jane@example.com"] = errors.New("smtp down")

	sub, err := f.svc.Subscribe("jane@example.com", "Jane")
	require.NoError(t, err)
	assert.True(t, sub.IsActive)
	assert.Empty(t, f.logs.entries)
}

func TestSubscribeFallsBackToPlainWelcome(t *testing.T) {
	f := newFixture() // no welcome template

	_, err := f.svc.Subscribe("jane@example.com", "Jane")
	require.NoError(t, err)

	require.Len(t, f.mailer.sent, 1)
	assert.Empty(t, f.mailer.sent[0].html)
	assert.Contains(t, f.mailer.sent[0].text, "Hi Jane")
}

func TestUnsubscribeRequiresMatchingPair(t *testing.T) {
	f := newFixture().withWelcomeTemplate()

	sub, err := f.svc.Subscribe("jane@example.com", "Jane")
	require.NoError(t, err)

	err = f.svc.Unsubscribe("jane@example.com", "wrong-token")
	assert.ErrorIs(t, err, ErrSubscriberNotFound)

	require.NoError(t, f.svc.Unsubscribe("jane@example.com", sub.Token))
	stored := f.subscribers.subs["jane@example.com"]
	assert.False(t, stored.IsActive)
	assert.NotNil(t, stored.UnsubscribedAt)
}

func TestUnsubscribePairIsIdempotent(t *testing.T) {
	f := newFixture().withWelcomeTemplate()

	sub, err := f.svc.Subscribe("jane@example.com", "Jane")
	require.NoError(t, err)

	require.NoError(t, f.svc.Unsubscribe("jane@example.com", sub.Token))
	// The pair still matches after deactivation
	assert.NoError(t, f.svc.Unsubscribe("jane@example.com", sub.Token))
}

func TestUnsubscribeWithoutTokenMatchesActiveOnly(t *testing.T) {
	f := newFixture().withWelcomeTemplate()

	_, err := f.svc.Subscribe("jane@example.com", "Jane")
	require.NoError(t, err)

	require.NoError(t, f.svc.Unsubscribe("jane@example.com", ""))
	assert.False(t, f.subscribers.subs["jane@example.com"].IsActive)

	// Already inactive, so an email-only retry reports not found
	err = f.svc.Unsubscribe("jane@example.com", "")
	assert.ErrorIs(t, err, ErrSubscriberNotFound)
}

func TestUnsubscribeByTokenSecondUseFails(t *testing.T) {
	f := newFixture().withWelcomeTemplate()

	sub, err := f.svc.Subscribe("jane@example.com", "Jane")
	require.NoError(t, err)

	email, err := f.svc.UnsubscribeByToken(sub.Token)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", email)

	_, err = f.svc.UnsubscribeByToken(sub.Token)
	assert.ErrorIs(t, err, ErrSubscriberNotFound)
}

func TestEnsureSubscriberCreatesWithoutWelcome(t *testing.T) {
	f := newFixture().withWelcomeTemplate()
	userID := uint(42)

	sub, err := f.svc.EnsureSubscriber("owner@example.com", "Owner", &userID)
	require.NoError(t, err)
	assert.NotZero(t, sub.ID)
	assert.NotEmpty(t, sub.Token)
	require.NotNil(t, sub.UserID)
	assert.Equal(t, userID, *sub.UserID)
	assert.Empty(t, f.mailer.sent)

	// A second call resolves the same row instead of creating another
	again, err := f.svc.EnsureSubscriber("owner@example.com", "Owner", &userID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)
}

func TestSendTemplateLogsUnderResolvedSubscriber(t *testing.T) {
	f := newFixture()
	f.templates.add(&model.EmailTemplate{
		Model:        gorm.Model{ID: 3},
		TemplateType: model.TemplatePropertyAlert,
		Subject:      "New listings matching your search",
		HTMLContent:  "<p>Hi {{ name }}, {{ match_count }} matches for {{ search_name }}.</p>",
		IsActive:     true,
	})

	sub, err := f.svc.EnsureSubscriber("owner@example.com", "Owner", nil)
	require.NoError(t, err)

	err = f.svc.SendTemplate(model.TemplatePropertyAlert, sub, map[string]interface{}{
		"search_name": "Kiambu plots",
		"match_count": 2,
	})
	require.NoError(t, err)

	require.Len(t, f.mailer.sent, 1)
	assert.Contains(t, f.mailer.sent[0].html, "2 matches for Kiambu plots")

	require.Len(t, f.logs.entries, 1)
	assert.NotZero(t, f.logs.entries[0].SubscriberID)
	assert.Equal(t, sub.ID, f.logs.entries[0].SubscriberID)
}

func campaignFixture(f *fixture) *model.Campaign {
	tmpl := &model.EmailTemplate{
		Model:        gorm.Model{ID: 10},
		TemplateType: model.TemplateNewsletter,
		Subject:      "{{ subject }}",
		HTMLContent:  "<h1>{{ campaign_title }}</h1><div>{{ content }}</div>",
		IsActive:     true,
	}
	f.templates.add(tmpl)

	templateID := tmpl.ID
	campaign := &model.Campaign{
		ID:         1,
		Title:      "August Update",
		Subject:    "New plots in Kiambu",
		Content:    "Fresh listings this week.",
		TemplateID: &templateID,
	}
	f.campaigns.campaigns[campaign.ID] = campaign
	return campaign
}

func TestSendCampaignDeliversToActiveSubscribers(t *testing.T) {
	f := newFixture().withWelcomeTemplate()
	campaign := campaignFixture(f)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := f.svc.Subscribe(email, "")
		require.NoError(t, err)
	}
	_, err := f.svc.UnsubscribeByToken(f.subscribers.subs["c@example.com"].Token)
	require.NoError(t, err)
	f.mailer.sent = nil
	f.logs.entries = nil

	result, err := f.svc.SendCampaign(campaign.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 0, result.Failed)
	assert.Len(t, f.mailer.sent, 2)
	assert.Len(t, f.logs.entries, 2)
	assert.NotNil(t, f.campaigns.markedAt)

	assert.Contains(t, f.mailer.sent[0].html, "August Update")
	assert.Contains(t, f.mailer.sent[0].html, "Fresh listings this week.")
	assert.Equal(t, "New plots in Kiambu", f.mailer.sent[0].subject)
}

func TestSendCampaignPartialFailure(t *testing.T) {
	f := newFixture().withWelcomeTemplate()
	campaign := campaignFixture(f)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := f.svc.Subscribe(email, "")
		require.NoError(t, err)
	}
	f.mailer.sent = nil
	f.logs.entries = nil
	f.mailer.failFor["b@example.com"] = errors.New("mailbox full")

	result, err := f.svc.SendCampaign(campaign.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)

	var failed int
	for _, entry := range f.logs.entries {
		if entry.Status == model.EmailFailed {
			failed++
			assert.Equal(t, "mailbox full", entry.Error)
		}
	}
	assert.Equal(t, 1, failed)
	assert.NotNil(t, f.campaigns.markedAt)
}

func TestSendCampaignRefusesAlreadySent(t *testing.T) {
	f := newFixture()
	campaign := campaignFixture(f)
	sentAt := time.Now()
	f.campaigns.campaigns[campaign.ID].SentAt = &sentAt

	_, err := f.svc.SendCampaign(campaign.ID)
	assert.ErrorIs(t, err, ErrCampaignAlreadySent)
	assert.Empty(t, f.mailer.sent)
}

func TestSendCampaignLosingStampRace(t *testing.T) {
	f := newFixture().withWelcomeTemplate()
	campaign := campaignFixture(f)
	_, err := f.svc.Subscribe("a@example.com", "")
	require.NoError(t, err)
	f.campaigns.markSentWon = false

	_, err = f.svc.SendCampaign(campaign.ID)
	assert.ErrorIs(t, err, ErrCampaignAlreadySent)
}

func TestSendCampaignUnknownID(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SendCampaign(99)
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestSendCampaignWithoutTemplateUsesContent(t *testing.T) {
	f := newFixture().withWelcomeTemplate()
	campaign := &model.Campaign{
		ID:      2,
		Title:   "Plain Campaign",
		Subject: "Hello",
		Content: "<p>Hi {{ name }}</p>",
	}
	f.campaigns.campaigns[campaign.ID] = campaign

	_, err := f.svc.Subscribe("a@example.com", "Amina")
	require.NoError(t, err)
	f.mailer.sent = nil

	result, err := f.svc.SendCampaign(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Contains(t, f.mailer.sent[0].html, "Hi Amina")
}

func TestSendCampaignPersonalizesUnsubscribeLinks(t *testing.T) {
	f := newFixture()
	campaign := &model.Campaign{
		ID:      3,
		Title:   "Weekly Digest",
		Subject: "This week",
		Content: `<p>Hello {{ name }}</p><a href="{{ unsubscribe_url }}">Unsubscribe</a>`,
	}
	f.campaigns.campaigns[campaign.ID] = campaign

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := f.svc.Subscribe(email, "")
		require.NoError(t, err)
	}
	f.mailer.sent = nil

	_, err := f.svc.SendCampaign(campaign.ID)
	require.NoError(t, err)

	// Each recipient gets their own unsubscribe link
	require.Len(t, f.mailer.sent, 2)
	for _, msg := range f.mailer.sent {
		token := f.subscribers.subs[msg.to[0]].Token
		assert.Contains(t, msg.html, "/newsletter/unsubscribe/"+token)
	}
}

func TestSendTestDoesNotStampCampaign(t *testing.T) {
	f := newFixture()
	campaign := campaignFixture(f)

	require.NoError(t, f.svc.SendTest(campaign.ID, "qa@example.com"))

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "[TEST] New plots in Kiambu", f.mailer.sent[0].subject)
	assert.Nil(t, f.campaigns.markedAt)
	assert.Nil(t, f.campaigns.campaigns[campaign.ID].SentAt)
}
