// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sync implements the optimistic send protocol.
//
// A send happens in three phases so the UI stays responsive:
//
//	Prepare  (synchronous)  guard input, set the title once, echo the
//	                        user message, append the assistant placeholder
//	Resolve  (off the loop) fire-and-forget title update, call the
//	                        completion endpoint, compute the reconciled
//	                        answer text and the law-rail groups
//	Commit   (synchronous)  overwrite the placeholder, best-effort persist
//	                        the exchange, release the in-flight slot
//
// The conversation thread is never blocked on the network and never shows
// a raw transport error: failures reconcile to a fixed notice in the
// thread while the real error goes to the log.
package sync

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jeranaias/lawchat-tui/internal/law"
	"github.com/jeranaias/lawchat-tui/internal/model"
	"github.com/jeranaias/lawchat-tui/internal/store"
)

// FallbackErrorText is what the placeholder reconciles to when the
// completion call fails for any reason.
const FallbackErrorText = "An error occurred. Please try again in a moment."

// unavailablePrefix and unavailableSuffix wrap the answer when the
// backend reports the model is not loaded.
const (
	unavailablePrefix = "⚠️ The AI model is currently unavailable.\n\n"
	unavailableSuffix = "\n\n💡 What to check:\n" +
		"• Make sure the model files are installed on the server\n" +
		"• Restart the backend and try again"
)

var (
	// ErrEmptyMessage rejects blank input before any state changes.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrBusy rejects a send while another is in flight for the same
	// conversation; the placeholder target would be ambiguous otherwise.
	ErrBusy = errors.New("a send is already in flight for this conversation")

	// ErrNoConversation indicates there is no active conversation.
	ErrNoConversation = errors.New("no active conversation")
)

// Pending is an in-flight send created by Prepare.
type Pending struct {
	ConversationID string
	Question       string

	// TitleAssigned is true when this send claimed the title, meaning the
	// remote room should be renamed too.
	TitleAssigned bool

	// LocalOnly is true when the conversation has no remote room, so the
	// exchange cannot be persisted remotely.
	LocalOnly bool
}

// Outcome is the resolved result of a send, ready to commit.
type Outcome struct {
	Pending *Pending

	// Answer is the reconciled thread text: the (possibly wrapped) model
	// answer, or the fixed fallback notice.
	Answer string

	// Refined reports whether the backend escalated a weak first-pass
	// answer to its secondary model.
	Refined bool

	// LawGroups is the refreshed related-law rail content.
	LawGroups []law.Group
}

// Engine drives the optimistic send protocol against a store and its
// backend. Safe for concurrent use.
type Engine struct {
	store   *store.Store
	backend store.Backend
	log     zerolog.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// New creates an engine over the given store and backend.
func New(s *store.Store, backend store.Backend, log zerolog.Logger) *Engine {
	return &Engine{
		store:    s,
		backend:  backend,
		log:      log,
		inflight: make(map[string]bool),
	}
}

// Busy reports whether a send is in flight for the conversation.
func (e *Engine) Busy(conversationID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inflight[conversationID]
}

// =============================================================================
// PHASE 1: PREPARE
// =============================================================================

// Prepare validates the input and applies the optimistic mutations: the
// title (first send only), the echoed user message, and the assistant
// placeholder. The caller should re-render immediately afterwards.
func (e *Engine) Prepare(text string) (*Pending, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	conv := e.store.Active()
	if conv == nil {
		return nil, ErrNoConversation
	}

	e.mu.Lock()
	if e.inflight[conv.ID] {
		e.mu.Unlock()
		return nil, ErrBusy
	}
	e.inflight[conv.ID] = true
	e.mu.Unlock()

	p := &Pending{
		ConversationID: conv.ID,
		Question:       text,
		LocalOnly:      conv.Local,
	}

	// First question claims the title, raw and untruncated; display-time
	// truncation is the renderer's business.
	p.TitleAssigned = e.store.SetTitleOnce(conv.ID, text)

	e.store.Append(conv.ID, model.NewUserMessage(text))
	e.store.Append(conv.ID, model.NewPlaceholderMessage())

	return p, nil
}

// =============================================================================
// PHASE 2: RESOLVE
// =============================================================================

// Resolve performs the network work of a send. It never returns an
// error: every failure mode folds into the outcome's reconciled text.
func (e *Engine) Resolve(ctx context.Context, p *Pending) *Outcome {
	// Room rename rides along with the send; a failure costs only the
	// remote title, which heals on the next rename or reload.
	if p.TitleAssigned && !p.LocalOnly {
		if err := e.backend.UpdateTitle(ctx, p.ConversationID, p.Question); err != nil {
			e.log.Warn().Err(err).Str("conversation", p.ConversationID).Msg("remote title update failed")
		}
	}

	answer := FallbackErrorText
	refined := false

	result, err := e.backend.Chat(ctx, p.Question)
	if err != nil {
		e.log.Error().Err(err).Str("conversation", p.ConversationID).Msg("completion failed")
	} else {
		if result.Answer != "" {
			answer = result.Answer
		}
		refined = result.Refined
		if !result.ModelAvailable {
			answer = unavailablePrefix + answer + unavailableSuffix
		}
	}

	return &Outcome{
		Pending:   p,
		Answer:    answer,
		Refined:   refined,
		LawGroups: law.FindRelated(p.Question),
	}
}

// =============================================================================
// PHASE 3: COMMIT
// =============================================================================

// Commit reconciles the placeholder with the outcome, persists the
// exchange best-effort, and releases the in-flight slot.
func (e *Engine) Commit(ctx context.Context, o *Outcome) {
	p := o.Pending

	e.store.ReconcileLast(p.ConversationID, o.Answer)

	if !p.LocalOnly {
		if err := e.backend.SaveMessagePair(ctx, p.ConversationID, p.Question, o.Answer); err != nil {
			e.log.Warn().Err(err).Str("conversation", p.ConversationID).Msg("message pair save failed")
		}
	}

	e.mu.Lock()
	delete(e.inflight, p.ConversationID)
	e.mu.Unlock()
}

// Send runs all three phases synchronously. CLI modes use this; the TUI
// splits the phases across the event loop instead.
func (e *Engine) Send(ctx context.Context, text string) (*Outcome, error) {
	p, err := e.Prepare(text)
	if err != nil {
		return nil, err
	}
	o := e.Resolve(ctx, p)
	e.Commit(ctx, o)
	return o, nil
}
