// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/lawchat-tui/internal/model"
	"github.com/jeranaias/lawchat-tui/internal/ui/styles"
)

// Renderer turns message content into terminal output. The chat model
// provides a glamour-backed renderer for assistant messages when markdown
// is enabled; nil means plain text.
type Renderer func(content string) string

// RenderMessage renders one message as a labeled block. The pending
// placeholder gets the spinner frame instead of its fixed body text so
// the thread visibly works while a completion is in flight.
func RenderMessage(th *styles.Theme, msg *model.Message, width int, render Renderer, spinnerFrame string) string {
	var b strings.Builder

	label := th.AssistantLabel
	body := th.AssistantBody
	if msg.Role == model.RoleUser {
		label = th.UserLabel
		body = th.UserBody
	}

	b.WriteString(label.Render(msg.Role.DisplayName()))
	b.WriteString(" ")
	b.WriteString(th.Timestamp.Render(msg.Timestamp.Format("15:04")))
	b.WriteString("\n")

	if msg.IsPlaceholder() {
		b.WriteString(body.Render(spinnerFrame + " " + th.Placeholder.Render(model.PlaceholderText)))
		b.WriteString("\n")
		return b.String()
	}

	content := msg.Content
	if msg.Role == model.RoleAssistant && render != nil {
		content = render(content)
	}
	content = strings.TrimRight(content, "\n")

	b.WriteString(body.Width(width).Render(content))
	b.WriteString("\n")
	return b.String()
}

// RenderThread renders a whole conversation for the viewport.
func RenderThread(th *styles.Theme, conv *model.Conversation, width int, render Renderer, spinnerFrame string) string {
	if conv == nil || len(conv.Messages) == 0 {
		return th.Placeholder.Render("Ask a question about Korean criminal law to get started.")
	}

	var b strings.Builder
	for _, msg := range conv.Messages {
		b.WriteString(RenderMessage(th, msg, width, render, spinnerFrame))
		b.WriteString("\n")
	}
	return b.String()
}
