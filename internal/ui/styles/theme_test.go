// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewTheme_DarkVsLight(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark {
		t.Error("NewTheme(dark).IsDark = false")
	}

	light := NewTheme("light")
	if light.IsDark {
		t.Error("NewTheme(light).IsDark = true")
	}

	// Any unknown name behaves like dark rather than panicking.
	if !NewTheme("").IsDark {
		t.Error("empty theme name should default to dark")
	}
}

func TestNewTheme_StylesRender(t *testing.T) {
	th := NewTheme("dark")

	// Rendering through a style must not drop the content.
	for name, s := range map[string]func(...string) string{
		"SidebarItemActive": th.SidebarItemActive.Render,
		"UserBody":          th.UserBody.Render,
		"LawRailLink":       th.LawRailLink.Render,
		"StatusBar":         th.StatusBar.Render,
	} {
		out := s("형법 총론")
		if out == "" {
			t.Errorf("%s rendered empty output", name)
		}
	}
}
