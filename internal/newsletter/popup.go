package newsletter

import "errors"

// DismissPopup records that the visitor closed the subscription popup.
// Repeat dismissals refresh the timestamp, restarting the quiet window.
func (s *Service) DismissPopup(sessionKey string, userID *uint) error {
	return s.stores.Dismissals.Upsert(sessionKey, userID, s.now())
}

// ShouldShowPopup reports whether the subscription popup should render for
// this exact session and user pair. Only a dismissal recorded under the
// same pair suppresses it, and only while the dismissal is still fresh.
func (s *Service) ShouldShowPopup(sessionKey string, userID *uint) (bool, error) {
	d, err := s.stores.Dismissals.Find(sessionKey, userID)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return !d.IsValid(s.now()), nil
}
