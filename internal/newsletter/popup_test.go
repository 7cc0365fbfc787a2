package newsletter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
)

type dismissalKey struct {
	session string
	user    uint
	anon    bool
}

type fakeDismissals struct {
	records map[dismissalKey]*model.PopupDismissal
}

func newFakeDismissals() *fakeDismissals {
	return &fakeDismissals{records: map[dismissalKey]*model.PopupDismissal{}}
}

func keyFor(sessionKey string, userID *uint) dismissalKey {
	if userID == nil {
		return dismissalKey{session: sessionKey, anon: true}
	}
	return dismissalKey{session: sessionKey, user: *userID}
}

func (f *fakeDismissals) Find(sessionKey string, userID *uint) (*model.PopupDismissal, error) {
	if d, ok := f.records[keyFor(sessionKey, userID)]; ok {
		out := *d
		return &out, nil
	}
	return nil, ErrNotFound
}

func (f *fakeDismissals) Upsert(sessionKey string, userID *uint, at time.Time) error {
	f.records[keyFor(sessionKey, userID)] = &model.PopupDismissal{
		SessionKey:  sessionKey,
		UserID:      userID,
		DismissedAt: at,
	}
	return nil
}

func popupFixture(now time.Time) *fixture {
	f := newFixture()
	f.svc.now = func() time.Time { return now }
	return f
}

func TestPopupShownWithoutDismissal(t *testing.T) {
	f := popupFixture(time.Now())

	show, err := f.svc.ShouldShowPopup("sess-1", nil)
	require.NoError(t, err)
	assert.True(t, show)
}

func TestPopupSuppressedWithinWindow(t *testing.T) {
	t0 := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	f := popupFixture(t0)

	require.NoError(t, f.svc.DismissPopup("sess-1", nil))

	f.svc.now = func() time.Time { return t0.Add(2*24*time.Hour + 23*time.Hour) }
	show, err := f.svc.ShouldShowPopup("sess-1", nil)
	require.NoError(t, err)
	assert.False(t, show)
}

func TestPopupReturnsAfterThreeDays(t *testing.T) {
	t0 := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	f := popupFixture(t0)

	require.NoError(t, f.svc.DismissPopup("sess-1", nil))

	f.svc.now = func() time.Time { return t0.Add(3 * 24 * time.Hour) }
	show, err := f.svc.ShouldShowPopup("sess-1", nil)
	require.NoError(t, err)
	assert.True(t, show)
}

func TestPopupDismissalIsPerPair(t *testing.T) {
	t0 := time.Now()
	f := popupFixture(t0)
	userA := uint(7)
	userB := uint(8)

	require.NoError(t, f.svc.DismissPopup("sess-1", &userA))

	// Same session, different or missing user: still shown
	show, err := f.svc.ShouldShowPopup("sess-1", &userB)
	require.NoError(t, err)
	assert.True(t, show)

	show, err = f.svc.ShouldShowPopup("sess-1", nil)
	require.NoError(t, err)
	assert.True(t, show)

	show, err = f.svc.ShouldShowPopup("sess-1", &userA)
	require.NoError(t, err)
	assert.False(t, show)
}

func TestPopupRepeatDismissalRestartsWindow(t *testing.T) {
	t0 := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	f := popupFixture(t0)

	require.NoError(t, f.svc.DismissPopup("sess-1", nil))

	f.svc.now = func() time.Time { return t0.Add(2 * 24 * time.Hour) }
	require.NoError(t, f.svc.DismissPopup("sess-1", nil))

	f.svc.now = func() time.Time { return t0.Add(4 * 24 * time.Hour) }
	show, err := f.svc.ShouldShowPopup("sess-1", nil)
	require.NoError(t, err)
	assert.False(t, show)
}
