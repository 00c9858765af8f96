// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/lawchat-tui/internal/model"
	"github.com/jeranaias/lawchat-tui/internal/ui/styles"
	"github.com/jeranaias/lawchat-tui/internal/util"
)

// previewWidth is how many columns of the last message the sidebar shows
// under each title.
const previewWidth = 24

// RenderSidebar renders the conversation list, most recent first. The
// active conversation is highlighted; when the sidebar has focus the
// selected row is marked with a pointer. Titles are truncated by display
// width, so double-width Hangul stays aligned.
func RenderSidebar(th *styles.Theme, convs []*model.Conversation, activeID string, selected int, focused bool, width, height int) string {
	var b strings.Builder

	b.WriteString(th.SidebarHeader.Render(" Conversations"))
	b.WriteString("\n\n")

	// Two rows per entry plus the header.
	maxEntries := (height - 2) / 2
	if maxEntries < 1 {
		maxEntries = 1
	}

	// Keep the selected row visible on long lists.
	start := 0
	if focused && selected >= maxEntries {
		start = selected - maxEntries + 1
	}

	titleWidth := width - 4
	if titleWidth < 4 {
		titleWidth = 4
	}

	for i := start; i < len(convs) && i-start < maxEntries; i++ {
		conv := convs[i]

		pointer := " "
		if focused && i == selected {
			pointer = ">"
		}

		title := util.TruncateWidth(conv.DisplayTitle(), titleWidth)
		if conv.Local {
			title = th.SidebarLocalMarker.Render("•") + title
		}

		line := pointer + title
		if conv.ID == activeID {
			b.WriteString(th.SidebarItemActive.Render(line))
		} else {
			b.WriteString(th.SidebarItem.Render(line))
		}
		b.WriteString("\n")

		if preview := conv.Preview(previewWidth); preview != "" {
			b.WriteString(th.SidebarPreview.Render("  " + util.TruncateWidth(preview, titleWidth)))
		}
		b.WriteString("\n")
	}

	return th.Sidebar.Width(width).Height(height).Render(b.String())
}

// RenderConversationOverlay renders the narrow-terminal conversation
// picker as a boxed list. It replaces the sidebar when the layout cannot
// afford a permanent one.
func RenderConversationOverlay(th *styles.Theme, convs []*model.Conversation, activeID string, selected int, width int) string {
	var b strings.Builder

	b.WriteString(th.OverlayTitle.Render("Conversations"))
	b.WriteString("\n\n")

	for i, conv := range convs {
		pointer := "  "
		if i == selected {
			pointer = "> "
		}
		marker := " "
		if conv.ID == activeID {
			marker = "*"
		}
		line := pointer + marker + " " + util.TruncateWidth(conv.DisplayTitle(), width-8)
		if i == selected {
			b.WriteString(th.SidebarItemActive.Render(line))
		} else {
			b.WriteString(th.SidebarItem.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(th.ShortcutDesc.Render("enter open · d delete · esc close"))

	return th.OverlayBox.Width(width).Render(b.String())
}
