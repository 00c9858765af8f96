// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router maps hash-style navigation fragments onto conversation
// selection.
//
// The fragment grammar is carried over from the browser client:
//
//	#/chat/<id>  select conversation <id>
//	#/chat/new   create a conversation, then redirect to its fragment
//	(empty)      redirect to the active conversation
//	anything     self-heal: redirect to the active conversation
//
// Resolution is idempotent: replaying the current fragment yields no
// state change. Redirects replace the fragment rather than stacking a
// navigation history.
package router

import (
	"context"
	"strings"

	"github.com/jeranaias/lawchat-tui/internal/store"
)

// FragmentPrefix is the leading part of every conversation fragment.
const FragmentPrefix = "#/chat/"

// NewFragment requests creation of a fresh conversation.
const NewFragment = "#/chat/new"

// ForConversation returns the canonical fragment for a conversation id.
func ForConversation(id string) string {
	return FragmentPrefix + id
}

// Action says what a resolved fragment asks for.
type Action int

const (
	// ActionNone: nothing to do beyond adopting the canonical fragment.
	ActionNone Action = iota
	// ActionSelect: activate the conversation named by Resolution.ID.
	ActionSelect
	// ActionCreate: create a conversation, then redirect to it.
	ActionCreate
)

// Resolution is the outcome of resolving a fragment against known state.
type Resolution struct {
	Action Action

	// ID is the conversation to select when Action is ActionSelect.
	ID string

	// Fragment is the canonical fragment to adopt (the redirect target).
	// Empty when the incoming fragment is already canonical.
	Fragment string

	// CloseOverlay indicates a successful selection, which dismisses any
	// transient navigation overlay (the narrow-terminal sidebar).
	CloseOverlay bool
}

// Resolve interprets a fragment. known reports whether a conversation id
// exists; activeID is the currently active conversation and is the
// self-heal target for unknown fragments.
func Resolve(fragment string, known func(id string) bool, activeID string) Resolution {
	fragment = strings.TrimSpace(fragment)

	if fragment == NewFragment {
		return Resolution{Action: ActionCreate}
	}

	if id, ok := strings.CutPrefix(fragment, FragmentPrefix); ok && id != "" {
		if known(id) {
			res := Resolution{Action: ActionSelect, ID: id, CloseOverlay: true}
			if fragment != ForConversation(id) {
				res.Fragment = ForConversation(id)
			}
			return res
		}
		// Unknown id: keep the current selection and repair the fragment.
		return selfHeal(activeID)
	}

	// Empty or unrecognized fragment: redirect to the active conversation.
	return selfHeal(activeID)
}

func selfHeal(activeID string) Resolution {
	if activeID == "" {
		return Resolution{Action: ActionCreate}
	}
	return Resolution{Action: ActionNone, Fragment: ForConversation(activeID)}
}

// Apply resolves a fragment against the store and executes it, returning
// the canonical fragment now in effect. Selection never breaks on an
// unknown id; the fragment self-heals to the active conversation.
func Apply(ctx context.Context, s *store.Store, fragment string) string {
	res := Resolve(fragment, func(id string) bool { return s.Get(id) != nil }, s.ActiveID())

	switch res.Action {
	case ActionCreate:
		conv := s.Create(ctx)
		return ForConversation(conv.ID)
	case ActionSelect:
		s.Select(res.ID)
		return ForConversation(res.ID)
	default:
		if res.Fragment != "" {
			return res.Fragment
		}
		return fragment
	}
}
