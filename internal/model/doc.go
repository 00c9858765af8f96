// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: a chat session with its messages, title, and recency
//   - Message: single message with role, content, and timestamp
//   - Role: message role enumeration (user, assistant)
//
// Conversations start with the sentinel DefaultTitle; the first submitted
// question replaces it once. The assistant placeholder appended during an
// in-flight completion carries PlaceholderText.
//
// # Usage
//
// Create a new conversation:
//
//	conv := model.NewConversation(roomID)
//	conv.AddMessage(model.NewUserMessage("임대차 계약 해지 질문입니다"))
package model
