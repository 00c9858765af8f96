// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"
)

// DefaultTitle is the sentinel title every conversation starts with. The
// first submitted question replaces it exactly once; a user-renamed title
// is never overwritten.
const DefaultTitle = "New conversation"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat conversation with history and metadata.
type Conversation struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages in chronological order.
	Messages []*Message `json:"messages"`

	// Local marks a conversation that was created while the backend was
	// unreachable. Its ID is locally generated and it has no remote room.
	Local bool `json:"local,omitempty"`
}

// NewConversation creates a conversation with the given ID and the
// sentinel default title.
func NewConversation(id string) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        id,
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message and touches the recency timestamp.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// HasDefaultTitle reports whether the title is still the sentinel value.
func (c *Conversation) HasDefaultTitle() bool {
	return c.Title == DefaultTitle || c.Title == ""
}

// SetTitle sets the conversation title and touches the recency timestamp.
func (c *Conversation) SetTitle(title string) {
	c.Title = title
	c.UpdatedAt = time.Now()
}

// DisplayTitle returns the title, falling back to the sentinel when unset.
func (c *Conversation) DisplayTitle() string {
	if c.Title == "" {
		return DefaultTitle
	}
	return c.Title
}

// =============================================================================
// DISPLAY HELPERS
// =============================================================================

// Preview returns a one-line preview of the most recent message, or an
// empty string for an empty conversation.
func (c *Conversation) Preview(maxLen int) string {
	last := c.LastMessage()
	if last == nil {
		return ""
	}
	line := last.Content
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	runes := []rune(strings.TrimSpace(line))
	if len(runes) <= maxLen {
		return string(runes)
	}
	return string(runes[:maxLen-3]) + "..."
}

// Clone creates a deep copy of the conversation. Snapshots handed to
// renderers and the durable mirror must not alias live message slices.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Local:     c.Local,
		Messages:  make([]*Message, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	return clone
}
