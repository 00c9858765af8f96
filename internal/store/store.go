// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the in-memory conversation set and active pointer.
//
// The store is the single authority on conversation state: renderers
// project it, the send engine mutates it, and every mutation is mirrored
// to the durable backend best-effort. Exactly one conversation is active
// whenever the set is non-empty.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/lawchat-tui/internal/api"
	"github.com/jeranaias/lawchat-tui/internal/model"
	"github.com/jeranaias/lawchat-tui/internal/storage"
)

// =============================================================================
// BACKEND CONTRACT
// =============================================================================

// Backend is the persistence and completion surface the store and send
// engine depend on. The production implementation fronts the remote API
// with a local durable mirror; tests substitute fakes.
type Backend interface {
	// LoadConversations returns the full conversation set and, when the
	// source knows it, the previously active conversation id.
	LoadConversations(ctx context.Context) ([]*model.Conversation, string, error)

	// CreateConversation creates a conversation room and returns its id.
	CreateConversation(ctx context.Context, title string) (string, error)

	// UpdateTitle renames a conversation. Best-effort.
	UpdateTitle(ctx context.Context, id, title string) error

	// DeleteConversation deletes a conversation. Best-effort.
	DeleteConversation(ctx context.Context, id string) error

	// SaveMessagePair persists one question/answer exchange. Best-effort.
	SaveMessagePair(ctx context.Context, convID, question, answer string) error

	// Chat submits a question for completion.
	Chat(ctx context.Context, message string) (*api.ChatResult, error)

	// MirrorSnapshot writes the given snapshot to the durable mirror.
	// Best-effort; failures are logged by the implementation.
	MirrorSnapshot(snap *storage.Snapshot)
}

// =============================================================================
// STORE
// =============================================================================

// Store is the in-memory conversation set. Safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	conversations []*model.Conversation
	activeID      string
	backend       Backend
	log           zerolog.Logger
}

// New creates an empty store over the given backend.
func New(backend Backend, log zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		log:     log,
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load populates the store from the backend. Loading is fail-soft: when
// the backend cannot provide anything the store simply starts empty, so
// the client always comes up.
func (s *Store) Load(ctx context.Context) {
	convs, activeID, err := s.backend.LoadConversations(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("conversation load failed, starting empty")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = convs
	s.sortLocked()

	if activeID != "" && s.findLocked(activeID) != nil {
		s.activeID = activeID
	} else if len(s.conversations) > 0 {
		s.activeID = s.conversations[0].ID
	}
}

// Bootstrap guarantees the non-emptiness invariant after Load: an empty
// set gets one fresh conversation, created and activated.
func (s *Store) Bootstrap(ctx context.Context) *model.Conversation {
	s.mu.RLock()
	empty := len(s.conversations) == 0
	s.mu.RUnlock()

	if !empty {
		return s.Active()
	}
	return s.Create(ctx)
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Create makes a new conversation with the sentinel title, asks the
// backend for an id, activates it, and places it first. When the backend
// cannot create a room the conversation still comes up with a locally
// generated id and is marked Local.
func (s *Store) Create(ctx context.Context) *model.Conversation {
	id, err := s.backend.CreateConversation(ctx, model.DefaultTitle)
	local := false
	if err != nil || id == "" {
		s.log.Warn().Err(err).Msg("remote room create failed, using local id")
		id = "local-" + uuid.NewString()
		local = true
	}

	conv := model.NewConversation(id)
	conv.Local = local

	s.mu.Lock()
	s.conversations = append([]*model.Conversation{conv}, s.conversations...)
	s.activeID = conv.ID
	s.mu.Unlock()

	s.mirror()
	return conv
}

// Select activates the conversation with the given id. Unknown ids are a
// no-op and return false; the current selection stays valid.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(id) == nil {
		return false
	}
	s.activeID = id
	return true
}

// Delete removes a conversation. The backend delete is best-effort: the
// local removal always proceeds. If the active conversation was removed
// the most recent remaining one is activated; deleting the last
// conversation immediately creates and activates a fresh one, so the set
// is never left empty.
func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	idx := -1
	for i, c := range s.conversations {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	wasLocal := s.conversations[idx].Local
	s.conversations = append(s.conversations[:idx], s.conversations[idx+1:]...)

	wasActive := s.activeID == id
	if wasActive {
		s.activeID = ""
		if len(s.conversations) > 0 {
			s.sortLocked()
			s.activeID = s.conversations[0].ID
		}
	}
	needReplacement := len(s.conversations) == 0
	s.mu.Unlock()

	// Rooms that never existed remotely have nothing to delete there.
	if !wasLocal {
		if err := s.backend.DeleteConversation(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("conversation", id).Msg("remote delete failed")
		}
	}

	if needReplacement {
		s.Create(ctx)
		return
	}
	s.mirror()
}

// Append adds a message to the given conversation and refreshes its
// recency. Unknown ids are a silent no-op.
func (s *Store) Append(id string, msg *model.Message) {
	s.mu.Lock()
	conv := s.findLocked(id)
	if conv == nil {
		s.mu.Unlock()
		return
	}
	conv.AddMessage(msg)
	s.mu.Unlock()

	s.mirror()
}

// ReconcileLast resolves an in-flight send: if the conversation's last
// message is an assistant message it is overwritten in place, otherwise
// an assistant message is appended.
//
// The target is chosen positionally, not by id. Two interleaved sends in
// the same conversation therefore resolve against whatever assistant
// message is last at completion time; the send engine keeps sends
// serialized per conversation to make that unambiguous.
func (s *Store) ReconcileLast(id, content string) {
	s.mu.Lock()
	conv := s.findLocked(id)
	if conv == nil {
		s.mu.Unlock()
		return
	}

	if last := conv.LastMessage(); last != nil && last.Role == model.RoleAssistant {
		// The answer arrives now, not when the placeholder was appended;
		// the refreshed recency floats the conversation back to the top.
		last.Content = content
		last.Timestamp = time.Now()
		conv.UpdatedAt = time.Now()
	} else {
		conv.AddMessage(model.NewAssistantMessage(content))
	}
	s.mu.Unlock()

	s.mirror()
}

// SetTitleOnce assigns the title if the conversation still carries the
// sentinel default. Returns true when the title changed; an already
// customized title is never overwritten.
func (s *Store) SetTitleOnce(id, title string) bool {
	s.mu.Lock()
	conv := s.findLocked(id)
	if conv == nil || !conv.HasDefaultTitle() {
		s.mu.Unlock()
		return false
	}
	conv.SetTitle(title)
	s.mu.Unlock()

	s.mirror()
	return true
}

// =============================================================================
// QUERIES
// =============================================================================

// Active returns the active conversation, or nil when the set is empty.
func (s *Store) Active() *model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(s.activeID)
}

// ActiveID returns the active conversation id.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Get returns the conversation with the given id, or nil.
func (s *Store) Get(id string) *model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(id)
}

// List returns the conversations ordered by recency, most recent first.
func (s *Store) List() []*model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sortLocked()
	out := make([]*model.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// Len returns the number of conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

// Snapshot returns a deep copy of the full state for the durable mirror.
func (s *Store) Snapshot() *storage.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// =============================================================================
// INTERNAL
// =============================================================================

func (s *Store) findLocked(id string) *model.Conversation {
	if id == "" {
		return nil
	}
	for _, c := range s.conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// sortLocked orders by recency descending. Stable so equal timestamps
// keep their insertion order.
func (s *Store) sortLocked() {
	sort.SliceStable(s.conversations, func(i, j int) bool {
		return s.conversations[i].UpdatedAt.After(s.conversations[j].UpdatedAt)
	})
}

func (s *Store) snapshotLocked() *storage.Snapshot {
	convs := make([]*model.Conversation, len(s.conversations))
	for i, c := range s.conversations {
		convs[i] = c.Clone()
	}
	return &storage.Snapshot{
		Conversations: convs,
		ActiveID:      s.activeID,
	}
}

// mirror pushes the current state to the durable mirror. Best-effort by
// contract; the backend logs its own failures.
func (s *Store) mirror() {
	s.backend.MirrorSnapshot(s.Snapshot())
}
