// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lawchat-tui/internal/ui/styles"
)

// Shortcut is one key hint shown on the right side of the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// RenderStatusBar renders the bottom bar: a status message on the left,
// key hints on the right, padded to the full terminal width.
func RenderStatusBar(th *styles.Theme, width int, status string, isError bool, shortcuts []Shortcut) string {
	left := status
	if isError {
		left = th.StatusError.Render(status)
	} else if status != "" {
		left = th.StatusOK.Render(status)
	}

	var hints []string
	for _, s := range shortcuts {
		hints = append(hints, th.ShortcutKey.Render(s.Key)+" "+th.ShortcutDesc.Render(s.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return th.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
