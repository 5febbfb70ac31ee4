package entities

import (
	"fmt"
	"strings"
)

// Audience is who a deck is prepared for. It only affects the subtitle.
type Audience string

const (
	AudienceExecutive  Audience = "executive"
	AudienceManagement Audience = "management"
	AudienceTechnical  Audience = "technical"
)

// Audiences lists the supported audiences in display order
func Audiences() []Audience {
	return []Audience{AudienceExecutive, AudienceManagement, AudienceTechnical}
}

// ParseAudience normalizes and validates an audience name
func ParseAudience(s string) (Audience, error) {
	a := Audience(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Audiences() {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown audience %q (must be executive, management, or technical)", s)
}

// Theme names a visual style used by renderers
type Theme string

const (
	ThemeDefault   Theme = "default"
	ThemeModern    Theme = "modern"
	ThemeClassic   Theme = "classic"
	ThemeMinimal   Theme = "minimal"
	ThemeVibrant   Theme = "vibrant"
	ThemeCorporate Theme = "corporate"
)

// Palette is the primary, secondary and accent colour of a theme
type Palette [3]string

var palettes = map[Theme]Palette{
	ThemeModern:    {"#3B82F6", "#60A5FA", "#93C5FD"},
	ThemeClassic:   {"#334155", "#64748B", "#94A3B8"},
	ThemeMinimal:   {"#18181B", "#71717A", "#D4D4D8"},
	ThemeVibrant:   {"#EC4899", "#F472B6", "#FBCFE8"},
	ThemeCorporate: {"#1E40AF", "#3B82F6", "#93C5FD"},
	ThemeDefault:   {"#111827", "#4B5563", "#E5E7EB"},
}

// Themes lists the selectable themes
func Themes() []Theme {
	return []Theme{ThemeModern, ThemeClassic, ThemeMinimal, ThemeVibrant, ThemeCorporate, ThemeDefault}
}

// ParseTheme normalizes a theme name. Empty input maps to ThemeDefault.
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return ThemeDefault, nil
	}
	if _, ok := palettes[t]; !ok {
		return "", fmt.Errorf("unknown theme %q", s)
	}
	return t, nil
}

// Palette returns the theme colours, falling back to the default theme
func (t Theme) Palette() Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[ThemeDefault]
}
