// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the application. It detects the
// terminal's color capability and adjusts accordingly; the configured
// theme name forces the light/dark variant of the adaptive palette.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar            lipgloss.Style
	SidebarHeader      lipgloss.Style
	SidebarItem        lipgloss.Style
	SidebarItemActive  lipgloss.Style
	SidebarPreview     lipgloss.Style
	SidebarLocalMarker lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserBody       lipgloss.Style
	AssistantBody  lipgloss.Style
	Placeholder    lipgloss.Style
	Timestamp      lipgloss.Style

	// ==========================================================================
	// LAW RAIL STYLES
	// ==========================================================================

	LawRail       lipgloss.Style
	LawRailHeader lipgloss.Style
	LawRailLink   lipgloss.Style

	// ==========================================================================
	// COMPOSER STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusOK     lipgloss.Style
	StatusError  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// OVERLAY STYLES
	// ==========================================================================

	OverlayBox   lipgloss.Style
	OverlayTitle lipgloss.Style

	Spinner lipgloss.Style
}

// NewTheme builds a theme for the given theme name ("dark" or "light").
// The name pins the adaptive palette variant so a configured preference
// wins over background autodetection.
func NewTheme(name string) *Theme {
	isDark := name != "light"
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)
	t.SidebarHeader = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)
	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)
	t.SidebarItemActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Indigo).
		Bold(true).
		Padding(0, 1)
	t.SidebarPreview = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)
	t.SidebarLocalMarker = lipgloss.NewStyle().
		Foreground(Amber)

	t.UserLabel = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Bold(true)
	t.AssistantLabel = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Bold(true)
	t.UserBody = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(UserBubbleBorder).
		PaddingLeft(1)
	t.AssistantBody = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(AssistantBubbleBorder).
		PaddingLeft(1)
	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.LawRail = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(LawRailBorder).
		PaddingLeft(1)
	t.LawRailHeader = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)
	t.LawRailLink = lipgloss.NewStyle().
		Foreground(LawLink).
		Underline(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)
	t.StatusOK = lipgloss.NewStyle().
		Foreground(Emerald)
	t.StatusError = lipgloss.NewStyle().
		Foreground(Rose)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.OverlayBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 2)
	t.OverlayTitle = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Indigo)

	return t
}
