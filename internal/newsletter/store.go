package newsletter

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
)

// ErrNotFound is returned by stores when no matching record exists.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when a create hits the unique email
// constraint, the store-level guard against concurrent double-subscribes.
var ErrDuplicateEmail = errors.New("email already exists")

type SubscriberStore interface {
	ByEmail(email string) (*model.Subscriber, error)
	ActiveByEmail(email string) (*model.Subscriber, error)
	ByEmailAndToken(email, token string) (*model.Subscriber, error)
	ActiveByToken(token string) (*model.Subscriber, error)
	Create(sub *model.Subscriber) error
	Save(sub *model.Subscriber) error
	ListActive() ([]model.Subscriber, error)
}

type TemplateStore interface {
	ActiveByType(t model.TemplateType) (*model.EmailTemplate, error)
	ByID(id uint) (*model.EmailTemplate, error)
}

type CampaignStore interface {
	ByID(id uint) (*model.Campaign, error)
	// MarkSent stamps sent_at only when it is still unset and reports
	// whether this caller won. This is the double-send serialization point.
	MarkSent(id uint, at time.Time) (bool, error)
	DueForSending(now time.Time) ([]model.Campaign, error)
}

type LogStore interface {
	Append(entry *model.EmailLog) error
}

type DismissalStore interface {
	Find(sessionKey string, userID *uint) (*model.PopupDismissal, error)
	Upsert(sessionKey string, userID *uint, at time.Time) error
}

// Stores bundles the persistence collaborators injected into Service.
type Stores struct {
	Subscribers SubscriberStore
	Templates   TemplateStore
	Campaigns   CampaignStore
	Logs        LogStore
	Dismissals  DismissalStore
}

// GORM-backed implementations

type gormSubscribers struct{ db *gorm.DB }
type gormTemplates struct{ db *gorm.DB }
type gormCampaigns struct{ db *gorm.DB }
type gormLogs struct{ db *gorm.DB }
type gormDismissals struct{ db *gorm.DB }

// NewGormStores wires every store interface to one database handle.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Subscribers: &gormSubscribers{db: db},
		Templates:   &gormTemplates{db: db},
		Campaigns:   &gormCampaigns{db: db},
		Logs:        &gormLogs{db: db},
		Dismissals:  &gormDismissals{db: db},
	}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (g *gormSubscribers) ByEmail(email string) (*model.Subscriber, error) {
	var sub model.Subscriber
	if err := g.db.Where("email = ?", email).First(&sub).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (g *gormSubscribers) ActiveByEmail(email string) (*model.Subscriber, error) {
	var sub model.Subscriber
	if err := g.db.Where("email = ? AND is_active = ?", email, true).First(&sub).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (g *gormSubscribers) ByEmailAndToken(email, token string) (*model.Subscriber, error) {
	var sub model.Subscriber
	if err := g.db.Where("email = ? AND token = ?", email, token).First(&sub).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (g *gormSubscribers) ActiveByToken(token string) (*model.Subscriber, error) {
	var sub model.Subscriber
	if err := g.db.Where("token = ? AND is_active = ?", token, true).First(&sub).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (g *gormSubscribers) Create(sub *model.Subscriber) error {
	if err := g.db.Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (g *gormSubscribers) Save(sub *model.Subscriber) error {
	return g.db.Save(sub).Error
}

func (g *gormSubscribers) ListActive() ([]model.Subscriber, error) {
	var subs []model.Subscriber
	err := g.db.Where("is_active = ?", true).Order("subscribed_at ASC").Find(&subs).Error
	return subs, err
}

func (g *gormTemplates) ActiveByType(t model.TemplateType) (*model.EmailTemplate, error) {
	var tmpl model.EmailTemplate
	if err := g.db.Where("template_type = ? AND is_active = ?", t, true).First(&tmpl).Error; err != nil {
		return nil, translate(err)
	}
	return &tmpl, nil
}

func (g *gormTemplates) ByID(id uint) (*model.EmailTemplate, error) {
	var tmpl model.EmailTemplate
	if err := g.db.First(&tmpl, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tmpl, nil
}

func (g *gormCampaigns) ByID(id uint) (*model.Campaign, error) {
	var c model.Campaign
	if err := g.db.First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (g *gormCampaigns) MarkSent(id uint, at time.Time) (bool, error) {
	res := g.db.Model(&model.Campaign{}).
		Where("id = ? AND sent_at IS NULL", id).
		Update("sent_at", at)
	return res.RowsAffected > 0, res.Error
}

func (g *gormCampaigns) DueForSending(now time.Time) ([]model.Campaign, error) {
	var due []model.Campaign
	err := g.db.
		Where("sent_at IS NULL AND scheduled_for IS NOT NULL AND scheduled_for <= ?", now).
		Find(&due).Error
	return due, err
}

func (g *gormLogs) Append(entry *model.EmailLog) error {
	return g.db.Create(entry).Error
}

func (g *gormDismissals) Find(sessionKey string, userID *uint) (*model.PopupDismissal, error) {
	q := g.db.Where("session_key = ?", sessionKey)
	if userID == nil {
		q = q.Where("user_id IS NULL")
	} else {
		q = q.Where("user_id = ?", *userID)
	}

	var d model.PopupDismissal
	if err := q.First(&d).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (g *gormDismissals) Upsert(sessionKey string, userID *uint, at time.Time) error {
	existing, err := g.Find(sessionKey, userID)
	if errors.Is(err, ErrNotFound) {
		return g.db.Create(&model.PopupDismissal{
			SessionKey:  sessionKey,
			UserID:      userID,
			DismissedAt: at,
		}).Error
	}
	if err != nil {
		return err
	}
	return g.db.Model(existing).Update("dismissed_at", at).Error
}
