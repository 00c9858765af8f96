// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/lawchat-tui/internal/ui/components"
	"github.com/jeranaias/lawchat-tui/internal/util"
)

// View renders the full frame.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.overlayOpen {
		overlay := components.RenderConversationOverlay(
			m.theme, m.store.List(), m.store.ActiveID(), m.sidebarSelected, m.width-8)
		b.WriteString(lipgloss.Place(m.width, m.mainHeight(), lipgloss.Center, lipgloss.Center, overlay))
	} else {
		b.WriteString(m.renderMain())
	}

	b.WriteString("\n")
	b.WriteString(m.renderComposer())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// renderHeader shows the brand, the active title, and the canonical
// navigation fragment.
func (m *Model) renderHeader() string {
	title := ""
	if conv := m.store.Active(); conv != nil {
		title = util.TruncateWidth(conv.DisplayTitle(), m.width/2)
	}

	left := m.theme.HeaderTitle.Render("LawGPT") + " " + title
	right := m.theme.HeaderMeta.Render(m.fragment)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderMain lays out the sidebar, thread, and law rail side by side.
func (m *Model) renderMain() string {
	panes := make([]string, 0, 3)

	if w := m.sidebarWidth(); w > 0 {
		panes = append(panes, components.RenderSidebar(
			m.theme, m.store.List(), m.store.ActiveID(), m.sidebarSelected,
			m.focus == focusSidebar, w, m.mainHeight()))
	}

	panes = append(panes, m.viewport.View())

	if w := m.lawRailWidth(); w > 0 {
		panes = append(panes, components.RenderLawRail(m.theme, m.lawGroups, w, m.mainHeight()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

// renderThread produces the viewport content for the active conversation.
func (m *Model) renderThread() string {
	return components.RenderThread(
		m.theme, m.store.Active(), m.threadWidth()-2,
		m.renderAssistant, m.spinner.View())
}

func (m *Model) renderComposer() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

func (m *Model) renderStatusBar() string {
	shortcuts := make([]components.Shortcut, 0, 4)
	for _, binding := range m.keyMap.ShortHelp() {
		shortcuts = append(shortcuts, components.Shortcut{
			Key:  binding.Help().Key,
			Desc: binding.Help().Desc,
		})
	}
	return components.RenderStatusBar(m.theme, m.width, m.statusMsg, m.statusErr, shortcuts)
}

// renderHelp shows the command list and key bindings as a full overlay.
func (m *Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(m.theme.OverlayTitle.Render("lawchat help"))
	b.WriteString("\n\n")
	b.WriteString(m.registry.HelpText())
	b.WriteString("\nKeys:\n")

	for _, group := range m.keyMap.FullHelp() {
		for _, binding := range group {
			b.WriteString("  ")
			b.WriteString(m.theme.ShortcutKey.Render(util.PadWidth(binding.Help().Key, 10)))
			b.WriteString(m.theme.ShortcutDesc.Render(binding.Help().Desc))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.theme.ShortcutDesc.Render("esc to close"))

	box := m.theme.OverlayBox.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
