// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	Command Command

	// Fragment is the initial navigation target for the TUI, either from
	// a #/chat/<id> argument or --room <id>.
	Fragment string

	// Query is the question for one-shot ask.
	Query string

	// Plain disables markdown rendering on ask output.
	Plain bool

	// JSON switches status output to JSON.
	JSON bool

	// Rest holds the remaining arguments for subcommand handlers.
	Rest []string
}

const usageText = `lawchat - terminal client for the LawGPT legal assistant

Usage:
  lawchat                       Start the TUI
  lawchat '#/chat/12'           Start the TUI on conversation 12
  lawchat --room 12             Same, without the fragment syntax
  lawchat ask "question"        Ask one question, print the answer, exit
  lawchat chat                  Interactive chat in the plain terminal
  lawchat status, s             Show backend, login, and mirror status
  lawchat config [subcommand]   Configuration management
  lawchat version               Show version
  lawchat help                  Show this help

Ask:
  lawchat ask "절도죄의 공소시효는?"
    --plain                     Skip markdown rendering

Status:
  lawchat status --json         Machine-readable output

Config:
  lawchat config show           Print the effective configuration
  lawchat config get <key>      Print one value
  lawchat config set <key> <v>  Set one value and save
  lawchat config path           Print the config file location

Environment:
  LAWCHAT_TOKEN                 Bearer token for the backend
  LAWCHAT_BACKEND_URL           Override backend.url
  LAWCHAT_LOG_LEVEL             Override log.level
  LAWCHAT_THEME                 Override ui.theme
  LAWCHAT_MIRROR                Enable/disable the local mirror
`

// ParseArgs parses os.Args[1:] into a command and its arguments.
func ParseArgs(argv []string) Args {
	if len(argv) == 0 {
		return Args{Command: CmdTUI}
	}

	// A bare fragment argument deep-links the TUI.
	if strings.HasPrefix(argv[0], "#") {
		return Args{Command: CmdTUI, Fragment: argv[0]}
	}

	switch argv[0] {
	case "ask":
		p := NewArgParser(argv[1:])
		return Args{
			Command: CmdAsk,
			Query:   p.JoinPositional(0),
			Plain:   p.BoolFlag("plain"),
		}

	case "chat":
		return Args{Command: CmdChat, Rest: argv[1:]}

	case "status", "s":
		p := NewArgParser(argv[1:])
		return Args{Command: CmdStatus, JSON: p.BoolFlag("json")}

	case "config":
		return Args{Command: CmdConfig, Rest: argv[1:]}

	case "version", "--version", "-V":
		return Args{Command: CmdVersion}

	case "help", "--help", "-h":
		return Args{Command: CmdHelp}

	default:
		p := NewArgParser(argv)
		if room := p.Flag("room"); room != "" {
			return Args{Command: CmdTUI, Fragment: "#/chat/" + room}
		}
		if p.PositionalCount() == 0 {
			return Args{Command: CmdTUI}
		}
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", argv[0])
		return Args{Command: CmdHelp}
	}
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information to stdout.
func PrintVersion() {
	fmt.Printf("lawchat %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
