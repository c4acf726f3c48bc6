package layout

import "github.com/inkpad/inkpad/internal/store"

// Theme is the color theme. Persisted under its own key, independent of the
// document collection.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ThemeManager loads, toggles, and persists the theme.
type ThemeManager struct {
	store store.Store
	theme Theme
}

// NewThemeManager reads the persisted theme. Absent or unrecognized values
// default to dark.
func NewThemeManager(s store.Store) *ThemeManager {
	m := &ThemeManager{store: s, theme: ThemeDark}
	if v, ok, err := s.Get(store.KeyTheme); err == nil && ok {
		if t := Theme(v); t == ThemeDark || t == ThemeLight {
			m.theme = t
		}
	}
	return m
}

// Theme returns the current theme.
func (m *ThemeManager) Theme() Theme { return m.theme }

// Toggle flips dark/light and persists the new value.
func (m *ThemeManager) Toggle() Theme {
	if m.theme == ThemeDark {
		m.theme = ThemeLight
	} else {
		m.theme = ThemeDark
	}
	_ = m.store.Set(store.KeyTheme, string(m.theme))
	return m.theme
}
