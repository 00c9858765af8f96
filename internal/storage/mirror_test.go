// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/lawchat-tui/internal/model"
)

func openTestMirror(t *testing.T) *Mirror {
	t.Helper()
	m, err := Open(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestMirror_LoadEmpty(t *testing.T) {
	m := openTestMirror(t)

	_, err := m.Load()
	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestMirror_SaveAndLoad(t *testing.T) {
	m := openTestMirror(t)

	conv := model.NewConversation("12")
	conv.SetTitle("전세 사기 문의")
	conv.AddMessage(model.NewUserMessage("질문입니다"))
	conv.AddMessage(model.NewAssistantMessage("답변입니다"))

	require.NoError(t, m.Save(&Snapshot{
		Conversations: []*model.Conversation{conv},
		ActiveID:      "12",
	}))

	snap, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, "12", snap.ActiveID)
	require.Len(t, snap.Conversations, 1)
	require.Equal(t, "전세 사기 문의", snap.Conversations[0].Title)
	require.Len(t, snap.Conversations[0].Messages, 2)
	require.Equal(t, model.RoleAssistant, snap.Conversations[0].Messages[1].Role)
	require.False(t, snap.SavedAt.IsZero())
}

func TestMirror_SaveReplacesPrevious(t *testing.T) {
	m := openTestMirror(t)

	first := model.NewConversation("1")
	require.NoError(t, m.Save(&Snapshot{Conversations: []*model.Conversation{first}, ActiveID: "1"}))

	second := model.NewConversation("2")
	require.NoError(t, m.Save(&Snapshot{Conversations: []*model.Conversation{second}, ActiveID: "2"}))

	snap, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, "2", snap.ActiveID)
	require.Len(t, snap.Conversations, 1)
	require.Equal(t, "2", snap.Conversations[0].ID)
}

func TestMirror_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.db")

	m, err := Open(path)
	require.NoError(t, err)
	conv := model.NewConversation("7")
	require.NoError(t, m.Save(&Snapshot{Conversations: []*model.Conversation{conv}, ActiveID: "7"}))
	require.NoError(t, m.Close())

	m2, err := Open(path)
	require.NoError(t, err)
	defer m2.Close()

	snap, err := m2.Load()
	require.NoError(t, err)
	require.Equal(t, "7", snap.ActiveID)
}
