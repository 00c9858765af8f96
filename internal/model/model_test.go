// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage_GeneratesID(t *testing.T) {
	m1 := NewUserMessage("hello")
	m2 := NewUserMessage("hello")

	if m1.ID == "" {
		t.Error("Message ID should not be empty")
	}
	if m1.ID == m2.ID {
		t.Errorf("Message IDs should be unique, both were %q", m1.ID)
	}
	if m1.Role != RoleUser {
		t.Errorf("Role = %q, want %q", m1.Role, RoleUser)
	}
}

func TestMessage_IsPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want bool
	}{
		{"placeholder", NewPlaceholderMessage(), true},
		{"assistant answer", NewAssistantMessage("The statute of limitations is..."), false},
		{"user with placeholder text", NewUserMessage(PlaceholderText), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.msg.IsPlaceholder(); got != tc.want {
				t.Errorf("IsPlaceholder() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMessage_Preview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short", "hello", 10, "hello"},
		{"truncated", "hello world", 8, "hello..."},
		{"korean", "이혼 소송 절차에 대해 알려주세요", 8, "이혼 소송..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewUserMessage(tc.content)
			if got := m.Preview(tc.maxLen); got != tc.want {
				t.Errorf("Preview(%d) = %q, want %q", tc.maxLen, got, tc.want)
			}
		})
	}
}

func TestRole_DisplayName(t *testing.T) {
	if got := RoleUser.DisplayName(); got != "You" {
		t.Errorf("RoleUser.DisplayName() = %q, want You", got)
	}
	if got := RoleAssistant.DisplayName(); got != "LawGPT" {
		t.Errorf("RoleAssistant.DisplayName() = %q, want LawGPT", got)
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestNewConversation_Defaults(t *testing.T) {
	conv := NewConversation("42")

	if conv.ID != "42" {
		t.Errorf("ID = %q, want 42", conv.ID)
	}
	if conv.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", conv.Title, DefaultTitle)
	}
	if !conv.HasDefaultTitle() {
		t.Error("HasDefaultTitle() should be true for a new conversation")
	}
	if !conv.IsEmpty() {
		t.Error("New conversation should be empty")
	}
}

func TestConversation_AddMessage_TouchesUpdatedAt(t *testing.T) {
	conv := NewConversation("1")
	before := conv.UpdatedAt

	time.Sleep(time.Millisecond)
	conv.AddMessage(NewUserMessage("question"))

	if !conv.UpdatedAt.After(before) {
		t.Error("AddMessage should advance UpdatedAt")
	}
	if conv.MessageCount() != 1 {
		t.Errorf("MessageCount = %d, want 1", conv.MessageCount())
	}
}

func TestConversation_LastMessage(t *testing.T) {
	conv := NewConversation("1")
	if conv.LastMessage() != nil {
		t.Error("LastMessage of empty conversation should be nil")
	}

	conv.AddMessage(NewUserMessage("first"))
	conv.AddMessage(NewAssistantMessage("second"))

	last := conv.LastMessage()
	if last == nil || last.Content != "second" {
		t.Errorf("LastMessage = %v, want content %q", last, "second")
	}
}

func TestConversation_SetTitle_ClearsDefault(t *testing.T) {
	conv := NewConversation("1")
	conv.SetTitle("전세 보증금 반환 문의")

	if conv.HasDefaultTitle() {
		t.Error("HasDefaultTitle() should be false after SetTitle")
	}
	if conv.Title != "전세 보증금 반환 문의" {
		t.Errorf("Title = %q", conv.Title)
	}
}

func TestConversation_Preview(t *testing.T) {
	conv := NewConversation("1")
	if got := conv.Preview(20); got != "" {
		t.Errorf("Preview of empty conversation = %q, want empty", got)
	}

	conv.AddMessage(NewUserMessage("line one\nline two"))
	if got := conv.Preview(20); got != "line one" {
		t.Errorf("Preview = %q, want first line only", got)
	}
}

func TestConversation_Clone_IsDeep(t *testing.T) {
	conv := NewConversation("1")
	conv.AddMessage(NewUserMessage("original"))

	clone := conv.Clone()
	clone.Messages[0].Content = "mutated"
	clone.Title = "changed"

	if conv.Messages[0].Content != "original" {
		t.Error("Clone should not share message backing data")
	}
	if conv.Title == "changed" {
		t.Error("Clone should not share title")
	}
}
