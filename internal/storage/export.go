// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/lawchat-tui/internal/model"
	"github.com/jeranaias/lawchat-tui/internal/util"
)

// ExportMarkdown renders a conversation as a markdown transcript.
func ExportMarkdown(conv *model.Conversation) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", conv.DisplayTitle())
	fmt.Fprintf(&b, "Exported: %s\n\n", time.Now().Format("2006-01-02 15:04"))

	for _, msg := range conv.Messages {
		fmt.Fprintf(&b, "## %s\n\n", msg.Role.DisplayName())
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}

	return []byte(b.String())
}

// ExportText renders a conversation as a plain-text transcript.
func ExportText(conv *model.Conversation) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s\n\n", conv.DisplayTitle(), strings.Repeat("=", util.StringWidth(conv.DisplayTitle())))

	for _, msg := range conv.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", msg.Role.DisplayName(), msg.Content)
	}

	return []byte(b.String())
}

// WriteExport writes an exported transcript atomically. Markdown is
// chosen when the path has a .md extension, plain text otherwise.
func WriteExport(conv *model.Conversation, path string) error {
	var data []byte
	if strings.HasSuffix(strings.ToLower(path), ".md") {
		data = ExportMarkdown(conv)
	} else {
		data = ExportText(conv)
	}
	return util.AtomicWriteFile(path, data, 0644)
}
