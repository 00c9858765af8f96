// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lawchat-tui/internal/api"
	"github.com/jeranaias/lawchat-tui/internal/model"
	"github.com/jeranaias/lawchat-tui/internal/storage"
	"github.com/jeranaias/lawchat-tui/internal/store"
)

// fakeBackend implements store.Backend for engine tests.
type fakeBackend struct {
	nextID    int
	createErr error

	chatResult *api.ChatResult
	chatErr    error

	titleUpdates map[string]string
	savedPairs   [][3]string // convID, question, answer
	saveErr      error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		titleUpdates: make(map[string]string),
		chatResult:   &api.ChatResult{Answer: "답변입니다", ModelAvailable: true},
	}
}

func (f *fakeBackend) LoadConversations(ctx context.Context) ([]*model.Conversation, string, error) {
	return nil, "", nil
}

func (f *fakeBackend) CreateConversation(ctx context.Context, title string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	return strconv.Itoa(f.nextID), nil
}

func (f *fakeBackend) UpdateTitle(ctx context.Context, id, title string) error {
	f.titleUpdates[id] = title
	return nil
}

func (f *fakeBackend) DeleteConversation(ctx context.Context, id string) error { return nil }

func (f *fakeBackend) SaveMessagePair(ctx context.Context, convID, question, answer string) error {
	f.savedPairs = append(f.savedPairs, [3]string{convID, question, answer})
	return f.saveErr
}

func (f *fakeBackend) Chat(ctx context.Context, message string) (*api.ChatResult, error) {
	return f.chatResult, f.chatErr
}

func (f *fakeBackend) MirrorSnapshot(snap *storage.Snapshot) {}

func newEngine(t *testing.T) (*Engine, *store.Store, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	s := store.New(backend, zerolog.Nop())
	s.Bootstrap(context.Background())
	return New(s, backend, zerolog.Nop()), s, backend
}

// =============================================================================
// HAPPY PATH
// =============================================================================

func TestSend_Success(t *testing.T) {
	e, s, backend := newEngine(t)
	ctx := context.Background()

	o, err := e.Send(ctx, "살인죄의 공소시효를 알려주세요")
	require.NoError(t, err)

	conv := s.Active()
	require.Equal(t, 2, conv.MessageCount())
	require.Equal(t, model.RoleUser, conv.Messages[0].Role)
	require.Equal(t, "살인죄의 공소시효를 알려주세요", conv.Messages[0].Content)
	require.Equal(t, model.RoleAssistant, conv.Messages[1].Role)
	require.Equal(t, "답변입니다", conv.Messages[1].Content)

	// First send claims the title, raw and untruncated.
	require.Equal(t, "살인죄의 공소시효를 알려주세요", conv.Title)
	require.Equal(t, "살인죄의 공소시효를 알려주세요", backend.titleUpdates[conv.ID])

	// The exchange was persisted.
	require.Len(t, backend.savedPairs, 1)
	require.Equal(t, conv.ID, backend.savedPairs[0][0])
	require.Equal(t, "답변입니다", backend.savedPairs[0][2])

	// Law rail refreshed from the question keywords.
	require.NotEmpty(t, o.LawGroups)
	require.Contains(t, o.LawGroups[0].Links[0].Text, "살인")
}

func TestSend_TitleSetOnlyOnce(t *testing.T) {
	e, s, backend := newEngine(t)
	ctx := context.Background()

	_, err := e.Send(ctx, "첫 질문")
	require.NoError(t, err)
	_, err = e.Send(ctx, "두번째 질문")
	require.NoError(t, err)

	conv := s.Active()
	require.Equal(t, "첫 질문", conv.Title)
	require.Len(t, backend.titleUpdates, 1)
	require.Equal(t, "첫 질문", backend.titleUpdates[conv.ID])
}

// =============================================================================
// GUARDS
// =============================================================================

func TestPrepare_EmptyMessage(t *testing.T) {
	e, s, _ := newEngine(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := e.Prepare(text)
		require.ErrorIs(t, err, ErrEmptyMessage)
	}
	require.True(t, s.Active().IsEmpty(), "guard must reject before any mutation")
}

func TestPrepare_BusyConversation(t *testing.T) {
	e, _, _ := newEngine(t)

	p, err := e.Prepare("첫 전송")
	require.NoError(t, err)

	_, err = e.Prepare("두번째 전송")
	require.ErrorIs(t, err, ErrBusy)

	// Committing releases the slot.
	e.Commit(context.Background(), e.Resolve(context.Background(), p))
	_, err = e.Prepare("세번째 전송")
	require.NoError(t, err)
}

func TestPrepare_AppendsEchoAndPlaceholder(t *testing.T) {
	e, s, _ := newEngine(t)

	_, err := e.Prepare("질문")
	require.NoError(t, err)

	conv := s.Active()
	require.Equal(t, 2, conv.MessageCount())
	require.Equal(t, model.RoleUser, conv.Messages[0].Role)
	require.True(t, conv.Messages[1].IsPlaceholder())
	require.True(t, e.Busy(conv.ID))
}

// =============================================================================
// FAILURE RECONCILIATION
// =============================================================================

func TestSend_ChatFailure_ReconcilesToFallback(t *testing.T) {
	e, s, backend := newEngine(t)
	backend.chatErr = errors.New("connection refused")

	_, err := e.Send(context.Background(), "질문")
	require.NoError(t, err, "transport failures never surface as errors")

	conv := s.Active()
	require.Equal(t, FallbackErrorText, conv.LastMessage().Content)
	require.Equal(t, 2, conv.MessageCount(), "placeholder is overwritten, not duplicated")

	// The exchange is still persisted with the reconciled text.
	require.Len(t, backend.savedPairs, 1)
	require.Equal(t, FallbackErrorText, backend.savedPairs[0][2])
}

func TestSend_EmptyAnswer_FallsBack(t *testing.T) {
	e, s, backend := newEngine(t)
	backend.chatResult = &api.ChatResult{Answer: "", ModelAvailable: true}

	_, err := e.Send(context.Background(), "질문")
	require.NoError(t, err)
	require.Equal(t, FallbackErrorText, s.Active().LastMessage().Content)
}

func TestSend_ModelUnavailable_WrapsNotice(t *testing.T) {
	e, s, backend := newEngine(t)
	backend.chatResult = &api.ChatResult{Answer: "기본 응답", ModelAvailable: false}

	_, err := e.Send(context.Background(), "질문")
	require.NoError(t, err)

	got := s.Active().LastMessage().Content
	require.True(t, strings.HasPrefix(got, unavailablePrefix))
	require.Contains(t, got, "기본 응답")
	require.True(t, strings.HasSuffix(got, unavailableSuffix))
}

func TestSend_RefinedFlagPropagates(t *testing.T) {
	e, s, backend := newEngine(t)
	backend.chatResult = &api.ChatResult{Answer: "보강된 답변", Refined: true, ModelAvailable: true}

	outcome, err := e.Send(context.Background(), "질문")
	require.NoError(t, err)
	require.True(t, outcome.Refined)
	require.Equal(t, "보강된 답변", s.Active().LastMessage().Content)
}

// =============================================================================
// LOCAL-ONLY CONVERSATIONS
// =============================================================================

func TestSend_LocalConversation_SkipsRemotePersistence(t *testing.T) {
	backend := newFakeBackend()
	backend.createErr = errors.New("backend down")
	s := store.New(backend, zerolog.Nop())
	s.Bootstrap(context.Background())
	require.True(t, s.Active().Local)

	e := New(s, backend, zerolog.Nop())
	backend.createErr = nil

	_, err := e.Send(context.Background(), "질문")
	require.NoError(t, err)

	require.Empty(t, backend.savedPairs, "local rooms have nothing to persist to")
	require.Empty(t, backend.titleUpdates)
	require.Equal(t, "질문", s.Active().Title, "local title still assigned")
}

// =============================================================================
// INTERLEAVING
// =============================================================================

// TestEngine_DoubleSend pins the positional reconciliation contract:
// with per-conversation serialization, each resolve lands on its own
// conversation's placeholder even when two sends are in flight at once.
func TestEngine_DoubleSend(t *testing.T) {
	e, s, _ := newEngine(t)
	ctx := context.Background()

	first := s.Active()
	pA, err := e.Prepare("첫 대화의 질문")
	require.NoError(t, err)

	second := s.Create(ctx)
	pB, err := e.Prepare("둘째 대화의 질문")
	require.NoError(t, err)
	require.NotEqual(t, pA.ConversationID, pB.ConversationID)

	// Resolve and commit out of order.
	oB := e.Resolve(ctx, pB)
	e.Commit(ctx, oB)
	oA := e.Resolve(ctx, pA)
	e.Commit(ctx, oA)

	require.Equal(t, "답변입니다", s.Get(first.ID).LastMessage().Content)
	require.Equal(t, "답변입니다", s.Get(second.ID).LastMessage().Content)
	require.Equal(t, 2, s.Get(first.ID).MessageCount())
	require.Equal(t, 2, s.Get(second.ID).MessageCount())
	require.False(t, e.Busy(first.ID))
	require.False(t, e.Busy(second.ID))
}
