// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat surfaces.
package commands

import (
	"sort"
	"strings"
)

// =============================================================================
// INTENTS
// =============================================================================

// Intent is what a parsed command asks the application to do. Commands
// produce intents rather than executing directly so the TUI and the
// plain-terminal REPL can share one command surface.
type Intent int

const (
	IntentNone Intent = iota
	IntentNew         // start a new conversation
	IntentOpen        // open a conversation by id
	IntentDelete      // delete a conversation (active if no id given)
	IntentList        // list conversations
	IntentExport      // export the active conversation transcript
	IntentHelp        // show command help
	IntentQuit        // leave the application
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help
	Description string

	// Usage shows argument syntax (e.g., "/open <id>")
	Usage string

	// Intent is what the command asks for
	Intent Intent
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// HelpText renders a usage listing for all commands.
func (r *Registry) HelpText() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, cmd := range r.All() {
		usage := cmd.Usage
		if usage == "" {
			usage = cmd.Name
		}
		b.WriteString("  ")
		b.WriteString(usage)
		if len(usage) < 18 {
			b.WriteString(strings.Repeat(" ", 18-len(usage)))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(cmd.Description)
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/new",
		Aliases:     []string{"/n"},
		Description: "Start a new conversation",
		Intent:      IntentNew,
	})
	r.Register(&Command{
		Name:        "/open",
		Aliases:     []string{"/o"},
		Description: "Open a conversation by id",
		Usage:       "/open <id>",
		Intent:      IntentOpen,
	})
	r.Register(&Command{
		Name:        "/delete",
		Aliases:     []string{"/del", "/rm"},
		Description: "Delete a conversation (the active one if no id is given)",
		Usage:       "/delete [id]",
		Intent:      IntentDelete,
	})
	r.Register(&Command{
		Name:        "/list",
		Aliases:     []string{"/ls"},
		Description: "List conversations, most recent first",
		Intent:      IntentList,
	})
	r.Register(&Command{
		Name:        "/export",
		Aliases:     []string{"/save"},
		Description: "Export the active conversation transcript",
		Usage:       "/export [path]",
		Intent:      IntentExport,
	})
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show this help",
		Intent:      IntentHelp,
	})
	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Leave the application",
		Intent:      IntentQuit,
	})
}
