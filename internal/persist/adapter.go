// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package persist fronts the remote API and the local durable mirror
// behind one backend contract.
//
// Priority is remote-first: the backend is the source of truth whenever
// it answers. The mirror is only read at startup when the remote load
// fails, and is written after every mutation so the most recent state
// survives a backend outage.
package persist

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/lawchat-tui/internal/api"
	"github.com/jeranaias/lawchat-tui/internal/model"
	"github.com/jeranaias/lawchat-tui/internal/storage"
)

// Adapter implements the store backend contract over the API client and
// the sqlite mirror. The mirror may be nil, in which case durability is
// skipped entirely (degraded but functional).
type Adapter struct {
	client *api.Client
	mirror *storage.Mirror
	userID string
	log    zerolog.Logger
}

// New creates an adapter for the given user.
func New(client *api.Client, mirror *storage.Mirror, userID string, log zerolog.Logger) *Adapter {
	return &Adapter{
		client: client,
		mirror: mirror,
		userID: userID,
		log:    log,
	}
}

// =============================================================================
// LOADING
// =============================================================================

// LoadConversations loads the conversation set remote-first. When the
// room list cannot be fetched the mirror snapshot is returned instead;
// only when both sources fail does an error propagate.
func (a *Adapter) LoadConversations(ctx context.Context) ([]*model.Conversation, string, error) {
	rooms, err := a.client.ListChatRooms(ctx, a.userID)
	if err != nil {
		a.log.Warn().Err(err).Msg("remote room list failed, trying mirror")
		return a.loadFromMirror(err)
	}

	convs := make([]*model.Conversation, 0, len(rooms))
	for _, room := range rooms {
		conv := &model.Conversation{
			ID:        room.ID,
			Title:     room.Title,
			CreatedAt: room.CreatedAt,
			UpdatedAt: room.CreatedAt,
			Messages:  make([]*model.Message, 0),
		}

		pairs, err := a.client.ListMessages(ctx, room.ID)
		if err != nil {
			// A room whose history cannot be fetched still appears in the
			// sidebar; its thread fills in on the next successful load.
			a.log.Warn().Err(err).Str("room", room.ID).Msg("history load failed")
		} else {
			mergePairs(conv, pairs)
		}

		convs = append(convs, conv)
	}
	return convs, "", nil
}

func (a *Adapter) loadFromMirror(remoteErr error) ([]*model.Conversation, string, error) {
	if a.mirror == nil {
		return nil, "", remoteErr
	}
	snap, err := a.mirror.Load()
	if err != nil {
		a.log.Warn().Err(err).Msg("mirror load failed")
		return nil, "", remoteErr
	}
	a.log.Info().Int("conversations", len(snap.Conversations)).
		Time("saved_at", snap.SavedAt).Msg("serving conversations from local mirror")
	return snap.Conversations, snap.ActiveID, nil
}

// mergePairs expands stored question/answer pairs into user and assistant
// messages. The assistant timestamp sits 1ms after the user timestamp so
// chronological ordering is stable even though the backend stores one row
// per exchange.
func mergePairs(conv *model.Conversation, pairs []api.MessagePair) {
	for _, p := range pairs {
		userMsg := model.NewUserMessage(p.Question)
		userMsg.Timestamp = p.CreatedAt
		assistantMsg := model.NewAssistantMessage(p.Response)
		assistantMsg.Timestamp = p.CreatedAt.Add(time.Millisecond)

		conv.Messages = append(conv.Messages, userMsg, assistantMsg)

		if p.CreatedAt.After(conv.UpdatedAt) {
			conv.UpdatedAt = p.CreatedAt
		}
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateConversation creates a remote room and returns its id.
func (a *Adapter) CreateConversation(ctx context.Context, title string) (string, error) {
	return a.client.CreateChatRoom(ctx, a.userID, title)
}

// UpdateTitle renames a remote room.
func (a *Adapter) UpdateTitle(ctx context.Context, id, title string) error {
	return a.client.UpdateChatRoomTitle(ctx, id, title)
}

// DeleteConversation deletes a remote room.
func (a *Adapter) DeleteConversation(ctx context.Context, id string) error {
	return a.client.DeleteChatRoom(ctx, id)
}

// SaveMessagePair persists one exchange to the remote store.
func (a *Adapter) SaveMessagePair(ctx context.Context, convID, question, answer string) error {
	return a.client.SaveMessagePair(ctx, a.userID, convID, question, answer)
}

// Chat submits a question for completion.
func (a *Adapter) Chat(ctx context.Context, message string) (*api.ChatResult, error) {
	return a.client.Chat(ctx, message)
}

// MirrorSnapshot writes the snapshot to the local mirror. Best-effort:
// failures are logged and swallowed.
func (a *Adapter) MirrorSnapshot(snap *storage.Snapshot) {
	if a.mirror == nil {
		return
	}
	if err := a.mirror.Save(snap); err != nil {
		a.log.Warn().Err(err).Msg("mirror write failed")
	}
}
