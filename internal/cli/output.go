// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/jeranaias/lawchat-tui/internal/law"
	"github.com/jeranaias/lawchat-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	linkStyle = lipgloss.NewStyle().
			Foreground(styles.LawLink)
)

// IsStdoutTTY reports whether stdout is a terminal. Markdown rendering
// is only worth it on a TTY; piped output stays plain.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// renderAnswer prints an assistant answer, through glamour when markdown
// is wanted and the renderer can be built.
func renderAnswer(content string, markdown bool) {
	if markdown {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if out, rerr := r.Render(content); rerr == nil {
				fmt.Print(out)
				return
			}
		}
	}
	fmt.Println(content)
}

// printLawLinks prints the related-law links for a question.
func printLawLinks(groups []law.Group) {
	if len(groups) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(headerStyle.Render("관련 법령·판례"))
	for _, group := range groups {
		for _, link := range group.Links {
			fmt.Printf("  %s\n    %s\n", linkStyle.Render(link.Text), infoStyle.Render(link.URL))
		}
	}
}
