// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/lawchat-tui/internal/law"
	"github.com/jeranaias/lawchat-tui/internal/ui/styles"
	"github.com/jeranaias/lawchat-tui/internal/util"
)

// RenderLawRail renders the related-law side panel. Groups arrive in
// database order from the last question's keyword scan; each link keeps
// its full URL on a dimmed second line so it can be opened from a
// terminal that supports hyperlink selection.
func RenderLawRail(th *styles.Theme, groups []law.Group, width, height int) string {
	var b strings.Builder

	b.WriteString(th.LawRailHeader.Render("관련 법령·판례"))
	b.WriteString("\n\n")

	textWidth := width - 2
	if textWidth < 8 {
		textWidth = 8
	}

	for _, group := range groups {
		for _, link := range group.Links {
			b.WriteString(th.LawRailLink.Render(util.TruncateWidth(link.Text, textWidth)))
			b.WriteString("\n")
			b.WriteString(th.ShortcutDesc.Render(util.TruncateWidth(link.URL, textWidth)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return th.LawRail.Width(width).Height(height).Render(strings.TrimRight(b.String(), "\n"))
}
