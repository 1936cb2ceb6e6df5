package user

import (
	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

// Theme is the UI color scheme.
// Invariant: the value must be one of the supported themes.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var validThemes = map[Theme]bool{
	ThemeLight: true,
	ThemeDark:  true,
}

// ParseTheme constructs a Theme from external input.
func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.IsValid() {
		return "", dErrors.Validation("theme", s, "must be one of: light, dark")
	}
	return t, nil
}

func (t Theme) IsValid() bool { return validThemes[t] }

// Color is one of the fixed accent palette entries.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorPink   Color = "pink"
	ColorGray   Color = "gray"
)

var validColors = map[Color]bool{
	ColorBlue:   true,
	ColorGreen:  true,
	ColorPurple: true,
	ColorRed:    true,
	ColorOrange: true,
	ColorYellow: true,
	ColorPink:   true,
	ColorGray:   true,
}

// ParseColor constructs a Color from external input.
func ParseColor(field, s string) (Color, error) {
	c := Color(s)
	if !c.IsValid() {
		return "", dErrors.Validation(field, s, "must be one of the supported palette colors")
	}
	return c, nil
}

func (c Color) IsValid() bool { return validColors[c] }

// Preferences captures the user's UI settings as a validated value object.
type Preferences struct {
	theme          Theme
	primaryColor   Color
	secondaryColor Color
}

// NewPreferences validates raw theme and color input once, at the boundary.
func NewPreferences(theme, primaryColor, secondaryColor string) (Preferences, error) {
	t, err := ParseTheme(theme)
	if err != nil {
		return Preferences{}, err
	}
	primary, err := ParseColor("primaryColor", primaryColor)
	if err != nil {
		return Preferences{}, err
	}
	secondary, err := ParseColor("secondaryColor", secondaryColor)
	if err != nil {
		return Preferences{}, err
	}
	return Preferences{theme: t, primaryColor: primary, secondaryColor: secondary}, nil
}

// DefaultPreferences is what new users start with.
func DefaultPreferences() Preferences {
	return Preferences{theme: ThemeLight, primaryColor: ColorBlue, secondaryColor: ColorGray}
}

func (p Preferences) Theme() Theme          { return p.theme }
func (p Preferences) PrimaryColor() Color   { return p.primaryColor }
func (p Preferences) SecondaryColor() Color { return p.secondaryColor }

// CSSVariables renders the preferences as CSS custom property pairs for the
// UI collaborator.
func (p Preferences) CSSVariables() map[string]string {
	return map[string]string{
		"--theme":           string(p.theme),
		"--color-primary":   string(p.primaryColor),
		"--color-secondary": string(p.secondaryColor),
	}
}

func (p Preferences) Equals(other Preferences) bool {
	return p.theme == other.theme &&
		p.primaryColor == other.primaryColor &&
		p.secondaryColor == other.secondaryColor
}

var _ domain.ValueObject[Preferences] = Preferences{}
