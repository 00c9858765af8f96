// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lawchat-tui/internal/api"
	"github.com/jeranaias/lawchat-tui/internal/config"
	"github.com/jeranaias/lawchat-tui/internal/model"
	"github.com/jeranaias/lawchat-tui/internal/storage"
	"github.com/jeranaias/lawchat-tui/internal/store"
	syncengine "github.com/jeranaias/lawchat-tui/internal/sync"
)

// fakeBackend satisfies store.Backend in-memory.
type fakeBackend struct {
	nextID  int
	answers map[string]string
	refined bool
}

func (f *fakeBackend) LoadConversations(ctx context.Context) ([]*model.Conversation, string, error) {
	return nil, "", nil
}

func (f *fakeBackend) CreateConversation(ctx context.Context, title string) (string, error) {
	f.nextID++
	return string(rune('0' + f.nextID)), nil
}

func (f *fakeBackend) UpdateTitle(ctx context.Context, id, title string) error { return nil }

func (f *fakeBackend) DeleteConversation(ctx context.Context, id string) error { return nil }

func (f *fakeBackend) SaveMessagePair(ctx context.Context, convID, question, answer string) error {
	return nil
}

func (f *fakeBackend) Chat(ctx context.Context, message string) (*api.ChatResult, error) {
	answer, ok := f.answers[message]
	if !ok {
		answer = "답변"
	}
	return &api.ChatResult{Answer: answer, Refined: f.refined, ModelAvailable: true}, nil
}

func (f *fakeBackend) MirrorSnapshot(snap *storage.Snapshot) {}

func newTestModel(t *testing.T) (*Model, *fakeBackend) {
	t.Helper()

	backend := &fakeBackend{answers: map[string]string{}}
	st := store.New(backend, zerolog.Nop())
	st.Load(context.Background())
	st.Bootstrap(context.Background())

	cfg := config.Default()
	cfg.UI.Markdown = false // keep thread rendering deterministic

	engine := syncengine.New(st, backend, zerolog.Nop())
	m := New(cfg, st, engine, zerolog.Nop(), "")

	// Simulate the first window size so the viewport exists.
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(*Model), backend
}

func typeText(m *Model, text string) {
	m.input.SetValue(text)
}

func press(t *testing.T, m *Model, key tea.KeyType) (*Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tea.KeyMsg{Type: key})
	return updated.(*Model), cmd
}

func TestSubmit_OptimisticEcho(t *testing.T) {
	m, _ := newTestModel(t)

	typeText(m, "살인죄 형량은?")
	m, cmd := press(t, m, tea.KeyEnter)
	require.NotNil(t, cmd, "submit should schedule the resolve command")

	conv := m.store.Active()
	require.Len(t, conv.Messages, 2)
	require.Equal(t, model.RoleUser, conv.Messages[0].Role)
	require.True(t, conv.Messages[1].IsPlaceholder())
	require.Equal(t, "살인죄 형량은?", conv.Title, "first question claims the title")
	require.Empty(t, m.input.Value(), "composer clears on submit")
}

func TestSubmit_CompletedMsgCommits(t *testing.T) {
	m, backend := newTestModel(t)
	backend.answers["질문"] = "형법 제250조에 따라..."

	typeText(m, "질문")
	m, _ = press(t, m, tea.KeyEnter)

	pending, convID := findPending(t, m)
	outcome := m.engine.Resolve(context.Background(), pending)
	updated, _ := m.Update(syncengine.CompletedMsg{Outcome: outcome})
	m = updated.(*Model)

	conv := m.store.Get(convID)
	last := conv.LastMessage()
	require.Equal(t, model.RoleAssistant, last.Role)
	require.Equal(t, "형법 제250조에 따라...", last.Content)
	require.False(t, m.engine.Busy(convID), "commit releases the in-flight slot")
	require.NotEmpty(t, m.lawGroups, "law rail refreshes on completion")
}

// findPending reconstructs the pending send for the active conversation.
// Prepare already ran inside Update; the placeholder marks it.
func findPending(t *testing.T, m *Model) (*syncengine.Pending, string) {
	t.Helper()
	conv := m.store.Active()
	require.True(t, m.engine.Busy(conv.ID))
	return &syncengine.Pending{
		ConversationID: conv.ID,
		Question:       conv.Messages[len(conv.Messages)-2].Content,
	}, conv.ID
}

func TestSubmit_EmptyInputIsIgnored(t *testing.T) {
	m, _ := newTestModel(t)

	typeText(m, "   ")
	m, _ = press(t, m, tea.KeyEnter)

	require.Empty(t, m.store.Active().Messages)
}

func TestSubmit_BusyConversationRejectsSecondSend(t *testing.T) {
	m, _ := newTestModel(t)

	typeText(m, "첫 질문")
	m, _ = press(t, m, tea.KeyEnter)

	typeText(m, "두번째 질문")
	m, _ = press(t, m, tea.KeyEnter)

	// Still just the first exchange's optimistic pair.
	require.Len(t, m.store.Active().Messages, 2)
	require.True(t, m.statusErr)
}

func TestSubmit_NoActiveConversationCreatesOne(t *testing.T) {
	m, backend := newTestModel(t)

	// An empty store with no active pointer; the running model never
	// reaches this state on its own since bootstrap and delete both
	// auto-create.
	m.store = store.New(backend, zerolog.Nop())
	m.engine = syncengine.New(m.store, backend, zerolog.Nop())

	typeText(m, "살인죄 형량은?")
	m, _ = press(t, m, tea.KeyEnter)

	require.Equal(t, 1, m.store.Len(), "submit with no conversation creates one")
	require.NotNil(t, m.store.Active())
	require.Empty(t, m.store.Active().Messages, "the send is deferred, not queued")
	require.Equal(t, "살인죄 형량은?", m.input.Value(), "composer keeps the typed text")
}

func TestSubmit_RefinedAnswerSetsStatus(t *testing.T) {
	m, backend := newTestModel(t)
	backend.refined = true

	typeText(m, "질문")
	m, _ = press(t, m, tea.KeyEnter)

	pending, _ := findPending(t, m)
	outcome := m.engine.Resolve(context.Background(), pending)
	updated, _ := m.Update(syncengine.CompletedMsg{Outcome: outcome})
	m = updated.(*Model)

	require.Equal(t, "answer refined for clarity", m.statusMsg)
	require.False(t, m.statusErr)
}

func TestCommand_NewCreatesAndNavigates(t *testing.T) {
	m, _ := newTestModel(t)
	before := m.store.ActiveID()

	typeText(m, "/new")
	m, _ = press(t, m, tea.KeyEnter)

	require.NotEqual(t, before, m.store.ActiveID())
	require.Equal(t, "#/chat/"+m.store.ActiveID(), m.Fragment())
	require.Equal(t, 2, m.store.Len())
}

func TestCommand_OpenUnknownSelfHeals(t *testing.T) {
	m, _ := newTestModel(t)
	active := m.store.ActiveID()

	typeText(m, "/open 999")
	m, _ = press(t, m, tea.KeyEnter)

	require.Equal(t, active, m.store.ActiveID(), "unknown id keeps the selection")
	require.Equal(t, "#/chat/"+active, m.Fragment(), "fragment self-heals")
	require.True(t, m.statusErr)
}

func TestCommand_DeleteLastConversationReplaces(t *testing.T) {
	m, _ := newTestModel(t)

	typeText(m, "/delete")
	m, _ = press(t, m, tea.KeyEnter)

	require.Equal(t, 1, m.store.Len(), "deleting the last conversation creates a fresh one")
	require.NotNil(t, m.store.Active())
	require.Equal(t, "#/chat/"+m.store.ActiveID(), m.Fragment())
}

func TestCommand_QuitReturnsQuitCmd(t *testing.T) {
	m, _ := newTestModel(t)

	typeText(m, "/quit")
	_, cmd := press(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())
}

func TestNarrowTerminal_OverlayToggle(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 24})
	m = updated.(*Model)
	require.Zero(t, m.sidebarWidth(), "narrow terminals have no permanent sidebar")

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	m = updated.(*Model)
	require.True(t, m.overlayOpen)

	// Selecting closes the overlay.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	require.False(t, m.overlayOpen)
}

func TestView_RendersThreadAndStatus(t *testing.T) {
	m, _ := newTestModel(t)

	typeText(m, "자백의 증거능력")
	m, _ = press(t, m, tea.KeyEnter)

	view := m.View()
	require.True(t, strings.Contains(view, "LawGPT"))
	require.True(t, strings.Contains(view, model.DefaultTitle) || strings.Contains(view, "자백"), "header shows a title")
}

func TestHelpOverlay(t *testing.T) {
	m, _ := newTestModel(t)

	typeText(m, "/help")
	m, _ = press(t, m, tea.KeyEnter)
	require.True(t, m.showHelp)
	require.Contains(t, m.View(), "/export")

	m, _ = press(t, m, tea.KeyEsc)
	require.False(t, m.showHelp)
}
