// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	"github.com/jeranaias/lawchat-tui/internal/auth"
	"github.com/jeranaias/lawchat-tui/internal/commands"
	"github.com/jeranaias/lawchat-tui/internal/config"
	"github.com/jeranaias/lawchat-tui/internal/logging"
	"github.com/jeranaias/lawchat-tui/internal/persist"
	"github.com/jeranaias/lawchat-tui/internal/router"
	"github.com/jeranaias/lawchat-tui/internal/storage"
	"github.com/jeranaias/lawchat-tui/internal/store"
	syncengine "github.com/jeranaias/lawchat-tui/internal/sync"
	"github.com/jeranaias/lawchat-tui/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with persistent input history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

func (c *ChatCLI) saveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and releases the terminal.
func (c *ChatCLI) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION
// =============================================================================

// chatSession holds the wired-up stack for an interactive session.
type chatSession struct {
	cfg      *config.Config
	store    *store.Store
	engine   *syncengine.Engine
	parser   *commands.Parser
	registry *commands.Registry
	mirror   *storage.Mirror
	input    *ChatCLI
	log      zerolog.Logger
}

// newChatSession builds the store, engine, and persistence stack the
// same way the TUI does.
func newChatSession() *chatSession {
	cfg := config.Global()
	log := logging.With("cli")

	userID := ""
	if dir, err := config.ConfigDir(); err == nil {
		if ident, err := auth.Load(dir); err == nil {
			userID = ident.UserID
		} else if !errors.Is(err, auth.ErrNoToken) {
			fmt.Fprintln(os.Stderr, warningStyle.Render("[warning]"), "stored token is unusable:", err)
		}
	}

	var mirror *storage.Mirror
	if cfg.Mirror.Enabled {
		if path, err := cfg.MirrorPath(); err == nil {
			if m, err := storage.Open(path); err == nil {
				mirror = m
			} else {
				log.Warn().Err(err).Msg("mirror unavailable, continuing without it")
			}
		}
	}

	client := newAPIClient(cfg)
	adapter := persist.New(client, mirror, userID, log)

	st := store.New(adapter, log)
	st.Load(context.Background())
	st.Bootstrap(context.Background())

	registry := commands.NewRegistry()

	return &chatSession{
		cfg:      cfg,
		store:    st,
		engine:   syncengine.New(st, adapter, log),
		parser:   commands.NewParser(registry),
		registry: registry,
		mirror:   mirror,
		input:    NewChatCLI(),
		log:      log,
	}
}

func (s *chatSession) close() {
	s.input.Close()
	if s.mirror != nil {
		s.mirror.Close()
	}
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the interactive REPL.
func HandleChat(args Args) error {
	session := newChatSession()
	defer session.close()

	printChatWelcome(session)

	for {
		input, err := session.input.ReadInput(promptStyle.Render("lawchat> "))
		if err != nil {
			// Ctrl+C or Ctrl+D both end the session.
			fmt.Println()
			fmt.Println(infoStyle.Render("Goodbye!"))
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if commands.IsCommand(input) {
			if done := session.runCommand(session.parser.Parse(input)); done {
				fmt.Println(infoStyle.Render("Goodbye!"))
				return nil
			}
			continue
		}

		session.send(input)
	}
}

// send runs a full three-phase send synchronously and prints the result.
func (s *chatSession) send(text string) {
	outcome, err := s.engine.Send(context.Background(), text)
	if err != nil {
		switch {
		case errors.Is(err, syncengine.ErrBusy):
			fmt.Fprintln(os.Stderr, errorStyle.Render("[error]"), "still answering the previous question")
		default:
			fmt.Fprintln(os.Stderr, errorStyle.Render("[error]"), err)
		}
		return
	}

	if outcome.Refined {
		fmt.Println(infoStyle.Render("(answer refined for clarity)"))
	}
	fmt.Println()
	renderAnswer(outcome.Answer, IsStdoutTTY())
	printLawLinks(outcome.LawGroups)
	fmt.Println()
}

// runCommand executes one slash command. Returns true when the session
// should end.
func (s *chatSession) runCommand(res commands.ParseResult) bool {
	ctx := context.Background()

	switch res.Intent() {
	case commands.IntentNew:
		fragment := router.Apply(ctx, s.store, router.NewFragment)
		fmt.Println(commandStyle.Render("[new]"), fragment)

	case commands.IntentOpen:
		id := res.Arg(0)
		if id == "" {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[error]"), "usage: /open <id>")
			return false
		}
		router.Apply(ctx, s.store, router.ForConversation(id))
		if s.store.ActiveID() != id {
			fmt.Fprintln(os.Stderr, warningStyle.Render("[warning]"), "no conversation", id, "- staying on", s.store.ActiveID())
			return false
		}
		s.printThread()

	case commands.IntentDelete:
		id := res.Arg(0)
		if id == "" {
			id = s.store.ActiveID()
		}
		s.store.Delete(ctx, id)
		fmt.Println(commandStyle.Render("[deleted]"), "now on", s.store.ActiveID())

	case commands.IntentList:
		s.printList()

	case commands.IntentExport:
		path := res.Arg(0)
		conv := s.store.Active()
		if conv == nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[error]"), "nothing to export")
			return false
		}
		if path == "" {
			path = "lawchat-" + conv.ID + ".md"
		}
		if err := storage.WriteExport(conv, path); err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("[error]"), "export failed:", err)
			return false
		}
		fmt.Println(commandStyle.Render("[exported]"), path)

	case commands.IntentHelp:
		fmt.Println()
		fmt.Print(s.registry.HelpText())
		fmt.Println()

	case commands.IntentQuit:
		return true

	default:
		fmt.Fprintln(os.Stderr, errorStyle.Render("[error]"),
			"unknown command", res.CommandName, "(try /help)")
	}
	return false
}

// printList prints the conversation list, most recent first.
func (s *chatSession) printList() {
	fmt.Println()
	fmt.Println(headerStyle.Render("Conversations"))
	for _, conv := range s.store.List() {
		marker := "  "
		if conv.ID == s.store.ActiveID() {
			marker = "* "
		}
		local := ""
		if conv.Local {
			local = warningStyle.Render(" (local)")
		}
		fmt.Printf("%s%-10s %s%s\n", marker, conv.ID,
			util.TruncateWidth(conv.DisplayTitle(), 50), local)
		if preview := conv.Preview(60); preview != "" {
			fmt.Printf("             %s\n", infoStyle.Render(preview))
		}
	}
	fmt.Println()
}

// printThread prints the active conversation history.
func (s *chatSession) printThread() {
	conv := s.store.Active()
	if conv == nil || len(conv.Messages) == 0 {
		fmt.Println(infoStyle.Render("[empty conversation]"))
		return
	}

	fmt.Println()
	fmt.Println(headerStyle.Render(conv.DisplayTitle()))
	for _, msg := range conv.Messages {
		fmt.Printf("[%s] %s\n", msg.Role.DisplayName(), msg.Timestamp.Format("2006-01-02 15:04"))
		fmt.Println(msg.Content)
		fmt.Println()
	}
}

func printChatWelcome(s *chatSession) {
	fmt.Println()
	fmt.Println(headerStyle.Render("lawchat interactive chat"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	fmt.Printf("%s %s\n", infoStyle.Render("Backend:"), s.cfg.Backend.URL)

	conv := s.store.Active()
	if conv != nil {
		fmt.Printf("%s %s (%s)\n", infoStyle.Render("Conversation:"),
			util.TruncateWidth(conv.DisplayTitle(), 40), conv.ID)
	}
	if s.mirror == nil && s.cfg.Mirror.Enabled {
		fmt.Println(warningStyle.Render("Local mirror unavailable; history will not survive offline."))
	}

	fmt.Println()
	fmt.Println(infoStyle.Render("Type your question and press Enter. Commands: /help, /quit"))
	fmt.Println()
}
