// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/jeranaias/lawchat-tui/internal/commands"
	"github.com/jeranaias/lawchat-tui/internal/config"
	"github.com/jeranaias/lawchat-tui/internal/law"
	"github.com/jeranaias/lawchat-tui/internal/router"
	"github.com/jeranaias/lawchat-tui/internal/store"
	"github.com/jeranaias/lawchat-tui/internal/sync"
	"github.com/jeranaias/lawchat-tui/internal/ui/styles"
)

// =============================================================================
// LAYOUT CONSTANTS
// =============================================================================

const (
	// minSidebarTerm is the narrowest terminal that keeps a permanent
	// sidebar; below it the conversation list becomes an overlay.
	minSidebarTerm = 80

	// minLawRailTerm is the narrowest terminal that shows the law rail.
	minLawRailTerm = 110

	lawRailWidth = 36
)

// focusArea says which pane receives keystrokes.
type focusArea int

const (
	focusComposer focusArea = iota
	focusSidebar
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	theme    *styles.Theme
	cfg      *config.Config
	store    *store.Store
	engine   *sync.Engine
	parser   *commands.Parser
	registry *commands.Registry
	log      zerolog.Logger

	width  int
	height int
	ready  bool

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	keyMap   KeyMap

	focus           focusArea
	sidebarHidden   bool
	overlayOpen     bool
	showHelp        bool
	sidebarSelected int

	// lawGroups is the current law rail content, refreshed by each
	// resolved send.
	lawGroups []law.Group

	// fragment is the canonical navigation fragment, #/chat/<id>.
	fragment string

	statusMsg string
	statusErr bool

	markdown *glamour.TermRenderer
}

// New builds the chat model and applies the initial navigation fragment.
// An empty fragment self-heals to the active conversation; a deep link
// like #/chat/12 selects it when it exists.
func New(cfg *config.Config, st *store.Store, engine *sync.Engine, log zerolog.Logger, fragment string) *Model {
	theme := styles.NewTheme(cfg.UI.Theme)

	input := textinput.New()
	input.Placeholder = "Ask about Korean criminal law, or /help"
	input.Prompt = "❯ "
	input.PromptStyle = theme.InputPrompt
	input.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Spinner),
	)

	registry := commands.NewRegistry()

	return &Model{
		theme:     theme,
		cfg:       cfg,
		store:     st,
		engine:    engine,
		parser:    commands.NewParser(registry),
		registry:  registry,
		log:       log,
		input:     input,
		spinner:   sp,
		keyMap:    DefaultKeyMap(),
		lawGroups: law.FindRelated(""),
		fragment:  router.Apply(context.Background(), st, fragment),
	}
}

// Init starts the cursor blink and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Fragment returns the canonical navigation fragment currently in effect.
func (m *Model) Fragment() string {
	return m.fragment
}

// navigate routes a fragment through the router and adopts the result.
func (m *Model) navigate(fragment string) {
	m.fragment = router.Apply(context.Background(), m.store, fragment)
	res := router.Resolve(m.fragment, func(id string) bool { return m.store.Get(id) != nil }, m.store.ActiveID())
	if res.CloseOverlay {
		m.overlayOpen = false
	}
	m.refreshThread()
}

// refreshThread re-renders the active conversation into the viewport and
// keeps it pinned to the bottom.
func (m *Model) refreshThread() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderThread())
	m.viewport.GotoBottom()
}

// setStatus shows a transient message in the status bar.
func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = isErr
	return clearStatusAfter()
}

// rebuildMarkdown recreates the glamour renderer for the given wrap
// width. Markdown can be disabled entirely in the config.
func (m *Model) rebuildMarkdown(wrap int) {
	if !m.cfg.UI.Markdown {
		m.markdown = nil
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.log.Warn().Err(err).Msg("markdown renderer unavailable, falling back to plain text")
		m.markdown = nil
		return
	}
	m.markdown = r
}

// renderAssistant renders assistant content through glamour when enabled.
func (m *Model) renderAssistant(content string) string {
	if m.markdown == nil {
		return content
	}
	out, err := m.markdown.Render(content)
	if err != nil {
		return content
	}
	return out
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) sidebarWidth() int {
	if m.sidebarHidden || m.width < minSidebarTerm {
		return 0
	}
	return m.cfg.UI.SidebarWidth
}

func (m *Model) lawRailWidth() int {
	if !m.cfg.UI.LawRail || m.width < minLawRailTerm {
		return 0
	}
	return lawRailWidth
}

func (m *Model) threadWidth() int {
	w := m.width - m.sidebarWidth() - m.lawRailWidth() - 2
	if w < 20 {
		w = 20
	}
	return w
}

// mainHeight is the height of the sidebar/thread/law-rail row: total
// minus header, composer, and status bar.
func (m *Model) mainHeight() int {
	h := m.height - 5
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) relayout() {
	m.rebuildMarkdown(m.threadWidth() - 4)

	if !m.ready {
		m.viewport = viewport.New(m.threadWidth(), m.mainHeight())
		m.ready = true
	} else {
		m.viewport.Width = m.threadWidth()
		m.viewport.Height = m.mainHeight()
	}

	m.input.Width = m.width - 8
	m.refreshThread()
}
