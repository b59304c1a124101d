package model

// Theme selects the UI color scheme stored with a user's preferences.
type Theme string

const (
	// ThemeLight is the default light color scheme.
	ThemeLight Theme = "LIGHT"
	// ThemeDark is the dark color scheme.
	ThemeDark Theme = "DARK"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Defaults applied when preferences are bootstrapped for a new user.
const (
	DefaultLocale   = "ru-RU"
	DefaultCurrency = "RUB"
)

// UserPreference holds per-user display and currency settings. Exactly one
// row exists per user; it is created together with the user and mutated in
// place afterwards.
type UserPreference struct {
	UserID          string
	Locale          string
	Theme           Theme
	DefaultCurrency string
}

// DefaultPreferences returns the preference row created for a new user.
func DefaultPreferences(userID string) UserPreference {
	return UserPreference{
		UserID:          userID,
		Locale:          DefaultLocale,
		Theme:           ThemeLight,
		DefaultCurrency: DefaultCurrency,
	}
}
