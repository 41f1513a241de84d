// Package ui provides the TrussCut desktop interface.
//
// This file defines a compact Fyne theme suited to the dense result tables.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// TrussCutTheme wraps the default Fyne theme with compact sizing overrides.
// A zero variant follows the variant requested by the system.
type TrussCutTheme struct {
	base     fyne.Theme
	variant  fyne.ThemeVariant
	override bool
}

// NewTrussCutTheme creates a theme that follows the system variant.
func NewTrussCutTheme() *TrussCutTheme {
	return &TrussCutTheme{base: theme.DefaultTheme()}
}

// NewTrussCutThemeWithVariant creates a theme pinned to a light or dark variant.
func NewTrussCutThemeWithVariant(variant fyne.ThemeVariant) *TrussCutTheme {
	return &TrussCutTheme{base: theme.DefaultTheme(), variant: variant, override: true}
}

// ThemeForName maps a configured theme name ("light", "dark", "system") to a theme.
func ThemeForName(name string) *TrussCutTheme {
	switch name {
	case "light":
		return NewTrussCutThemeWithVariant(theme.VariantLight)
	case "dark":
		return NewTrussCutThemeWithVariant(theme.VariantDark)
	default:
		return NewTrussCutTheme()
	}
}

// ApplyTheme installs the named theme on the running application.
func ApplyTheme(app fyne.App, name string) {
	if app == nil {
		return
	}
	app.Settings().SetTheme(ThemeForName(name))
}

func (t *TrussCutTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.override {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *TrussCutTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *TrussCutTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *TrussCutTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	default:
		return t.base.Size(name)
	}
}
