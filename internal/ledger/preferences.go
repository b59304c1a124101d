package ledger

import (
	"context"

	"github.com/akfinance/ledger/internal/common"
	"github.com/akfinance/ledger/internal/model"
)

// PreferenceInput carries a partial preference update. Nil fields keep the
// stored value.
type PreferenceInput struct {
	Locale          *string
	Theme           *model.Theme
	DefaultCurrency *string
}

// GetPreferences returns the user's preference row.
func (s *Service) GetPreferences(ctx context.Context, userID string) (*model.UserPreference, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	return s.store.GetPreferences(ctx, userID)
}

// UpdatePreferences mutates the preference row in place. The row always
// exists while the user does; it is created alongside the user.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, input PreferenceInput) (*model.UserPreference, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if input.Theme != nil && !input.Theme.Valid() {
		return nil, common.Validationf("unknown theme %q", *input.Theme)
	}
	if input.DefaultCurrency != nil {
		if err := validateCurrency(*input.DefaultCurrency); err != nil {
			return nil, err
		}
	}

	prefs, err := s.store.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Locale != nil {
		prefs.Locale = *input.Locale
	}
	if input.Theme != nil {
		prefs.Theme = *input.Theme
	}
	if input.DefaultCurrency != nil {
		prefs.DefaultCurrency = *input.DefaultCurrency
	}

	if err := s.store.UpdatePreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}
