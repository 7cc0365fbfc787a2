package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriberBeforeCreateAssignsToken(t *testing.T) {
	sub := &Subscriber{Email: "jane@example.com"}
	require.NoError(t, sub.BeforeCreate(nil))
	assert.NotEmpty(t, sub.Token)

	// An explicit token survives
	sub2 := &Subscriber{Email: "joe@example.com", Token: "fixed"}
	require.NoError(t, sub2.BeforeCreate(nil))
	assert.Equal(t, "fixed", sub2.Token)
}

func TestCampaignIsSent(t *testing.T) {
	c := &Campaign{}
	assert.False(t, c.IsSent())

	now := time.Now()
	c.SentAt = &now
	assert.True(t, c.IsSent())
}

func TestPopupDismissalValidityWindow(t *testing.T) {
	t0 := time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC)
	d := &PopupDismissal{DismissedAt: t0}

	assert.True(t, d.IsValid(t0))
	assert.True(t, d.IsValid(t0.Add(47*time.Hour)))
	// Still inside the third day
	assert.True(t, d.IsValid(t0.Add(71*time.Hour)))
	assert.False(t, d.IsValid(t0.Add(72*time.Hour)))
	assert.False(t, d.IsValid(t0.Add(30*24*time.Hour)))
}
