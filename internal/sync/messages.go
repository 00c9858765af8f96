// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sync

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// CompletedMsg carries a resolved send back to the event loop. The
// handler must call Commit with the outcome.
type CompletedMsg struct {
	Outcome *Outcome
}

// ResolveCmd runs the resolve phase as a bubbletea command. Prepare must
// already have run on the event loop; the returned message hands the
// outcome back for Commit.
func (e *Engine) ResolveCmd(ctx context.Context, p *Pending) tea.Cmd {
	return func() tea.Msg {
		return CompletedMsg{Outcome: e.Resolve(ctx, p)}
	}
}
