// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/lawchat-tui/internal/commands"
	"github.com/jeranaias/lawchat-tui/internal/config"
	"github.com/jeranaias/lawchat-tui/internal/router"
	"github.com/jeranaias/lawchat-tui/internal/storage"
	"github.com/jeranaias/lawchat-tui/internal/sync"
	"github.com/jeranaias/lawchat-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// clearStatusMsg clears the transient status line.
type clearStatusMsg struct{}

func clearStatusAfter() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// ConfigReloadedMsg carries a hot-reloaded configuration into the event
// loop. The config watcher sends it via Program.Send.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// UPDATE
// =============================================================================

// Update is the Bubble Tea update function.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.engine.Busy(m.store.ActiveID()) {
			m.refreshThread()
		}
		return m, cmd

	case sync.CompletedMsg:
		return m.handleCompleted(msg)

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case ConfigReloadedMsg:
		m.cfg = msg.Config
		m.theme = styles.NewTheme(msg.Config.UI.Theme)
		m.relayout()
		return m, m.setStatus("configuration reloaded", false)
	}

	return m, m.updateComponents(msg)
}

// handleCompleted commits a resolved send and refreshes the law rail.
func (m *Model) handleCompleted(msg sync.CompletedMsg) (tea.Model, tea.Cmd) {
	m.engine.Commit(context.Background(), msg.Outcome)
	m.lawGroups = msg.Outcome.LawGroups
	m.refreshThread()

	if msg.Outcome.Refined {
		return m, m.setStatus("answer refined for clarity", false)
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keyMap.NewChat):
		m.navigate(router.NewFragment)
		return m, m.setStatus("new conversation", false)

	case key.Matches(msg, m.keyMap.ToggleSidebar):
		return m.toggleConversationList()

	case key.Matches(msg, m.keyMap.Escape):
		m.showHelp = false
		m.overlayOpen = false
		m.focus = focusComposer
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keyMap.FocusNext):
		if m.sidebarWidth() > 0 {
			m.switchFocus()
		}
		return m, nil
	}

	if m.focus == focusSidebar || m.overlayOpen {
		return m.handleListKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleListKey drives the sidebar or the overlay conversation list.
func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	convs := m.store.List()

	switch {
	case key.Matches(msg, m.keyMap.Up):
		if m.sidebarSelected > 0 {
			m.sidebarSelected--
		}

	case key.Matches(msg, m.keyMap.Down):
		if m.sidebarSelected < len(convs)-1 {
			m.sidebarSelected++
		}

	case key.Matches(msg, m.keyMap.Open):
		if m.sidebarSelected < len(convs) {
			m.navigate(router.ForConversation(convs[m.sidebarSelected].ID))
			m.focus = focusComposer
			m.input.Focus()
		}

	case key.Matches(msg, m.keyMap.Delete):
		if m.sidebarSelected < len(convs) {
			return m, m.deleteConversation(convs[m.sidebarSelected].ID)
		}
	}
	return m, nil
}

func (m *Model) switchFocus() {
	if m.focus == focusComposer {
		m.focus = focusSidebar
		m.input.Blur()
		m.sidebarSelected = m.activeIndex()
	} else {
		m.focus = focusComposer
		m.input.Focus()
	}
}

// toggleConversationList opens the overlay on narrow terminals and
// toggles the permanent sidebar on wide ones.
func (m *Model) toggleConversationList() (tea.Model, tea.Cmd) {
	if m.width < minSidebarTerm {
		m.overlayOpen = !m.overlayOpen
		if m.overlayOpen {
			m.sidebarSelected = m.activeIndex()
			m.input.Blur()
		} else {
			m.input.Focus()
		}
		return m, nil
	}

	m.sidebarHidden = !m.sidebarHidden
	if m.sidebarHidden && m.focus == focusSidebar {
		m.focus = focusComposer
		m.input.Focus()
	}
	m.relayout()
	return m, nil
}

func (m *Model) activeIndex() int {
	for i, conv := range m.store.List() {
		if conv.ID == m.store.ActiveID() {
			return i
		}
	}
	return 0
}

// =============================================================================
// SUBMIT
// =============================================================================

// handleSubmit dispatches the composer: slash commands execute locally,
// anything else becomes an optimistic send.
func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := m.input.Value()

	if commands.IsCommand(text) {
		m.input.Reset()
		return m.handleCommand(m.parser.Parse(text))
	}

	pending, err := m.engine.Prepare(text)
	if err != nil {
		switch {
		case errors.Is(err, sync.ErrEmptyMessage):
			return m, nil
		case errors.Is(err, sync.ErrBusy):
			return m, m.setStatus("still answering, one moment", true)
		case errors.Is(err, sync.ErrNoConversation):
			// Create one and let the user resubmit; the composer keeps
			// the typed text.
			m.navigate(router.NewFragment)
			return m, m.setStatus("started a new conversation, press enter to send", false)
		default:
			return m, m.setStatus(err.Error(), true)
		}
	}

	m.input.Reset()
	m.refreshThread()
	return m, tea.Batch(
		m.spinner.Tick,
		m.engine.ResolveCmd(context.Background(), pending),
	)
}

// handleCommand executes a parsed slash command.
func (m *Model) handleCommand(res commands.ParseResult) (tea.Model, tea.Cmd) {
	switch res.Intent() {
	case commands.IntentNew:
		m.navigate(router.NewFragment)
		return m, m.setStatus("new conversation", false)

	case commands.IntentOpen:
		id := res.Arg(0)
		if id == "" {
			return m, m.setStatus("usage: /open <id>", true)
		}
		m.navigate(router.ForConversation(id))
		if m.store.ActiveID() != id {
			return m, m.setStatus("no conversation "+id+", staying here", true)
		}
		return m, nil

	case commands.IntentDelete:
		id := res.Arg(0)
		if id == "" {
			id = m.store.ActiveID()
		}
		return m, m.deleteConversation(id)

	case commands.IntentList:
		return m.toggleConversationList()

	case commands.IntentExport:
		return m, m.exportActive(res.Arg(0))

	case commands.IntentHelp:
		m.showHelp = true
		return m, nil

	case commands.IntentQuit:
		return m, tea.Quit

	default:
		return m, m.setStatus("unknown command "+res.CommandName+" (try /help)", true)
	}
}

// deleteConversation removes a conversation and re-navigates to whatever
// the store activated afterwards.
func (m *Model) deleteConversation(id string) tea.Cmd {
	if m.engine.Busy(id) {
		return m.setStatus("cannot delete while answering", true)
	}
	m.store.Delete(context.Background(), id)
	m.sidebarSelected = 0
	m.navigate(router.ForConversation(m.store.ActiveID()))
	return m.setStatus("conversation deleted", false)
}

// exportActive writes the active conversation transcript to disk.
func (m *Model) exportActive(path string) tea.Cmd {
	conv := m.store.Active()
	if conv == nil {
		return m.setStatus("nothing to export", true)
	}
	if path == "" {
		path = "lawchat-" + conv.ID + ".md"
	}
	if err := storage.WriteExport(conv, path); err != nil {
		m.log.Error().Err(err).Str("path", path).Msg("export failed")
		return m.setStatus("export failed: "+err.Error(), true)
	}
	return m.setStatus("exported to "+path, false)
}

// updateComponents forwards unhandled messages to the focused widgets.
func (m *Model) updateComponents(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}
