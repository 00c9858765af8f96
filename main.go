// lawchat - a terminal client for the LawGPT legal assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/lawchat-tui/internal/api"
	"github.com/jeranaias/lawchat-tui/internal/auth"
	"github.com/jeranaias/lawchat-tui/internal/cli"
	"github.com/jeranaias/lawchat-tui/internal/config"
	"github.com/jeranaias/lawchat-tui/internal/logging"
	"github.com/jeranaias/lawchat-tui/internal/persist"
	"github.com/jeranaias/lawchat-tui/internal/storage"
	"github.com/jeranaias/lawchat-tui/internal/store"
	syncengine "github.com/jeranaias/lawchat-tui/internal/sync"
	"github.com/jeranaias/lawchat-tui/internal/ui/chat"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args := cli.ParseArgs(os.Args[1:])

	var err error
	switch args.Command {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdAsk:
		err = cli.HandleAsk(args)
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdStatus:
		err = cli.HandleStatus(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args.Rest)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI wires the full stack and hands control to Bubble Tea.
func runTUI(args cli.Args) error {
	cfg, err := config.Load()
	if err != nil {
		// An invalid config file should not brick the client.
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		cfg = config.Default()
	}
	config.SetGlobal(cfg)

	closeLog := setupLogging(cfg)
	defer closeLog()
	log := logging.With("main")

	configDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	// The TUI persists per-user conversations, so it needs the login. The
	// stateless surfaces (ask, status) work without one.
	userID := ""
	if ident, err := auth.Load(configDir); err != nil {
		if errors.Is(err, auth.ErrNoToken) {
			fmt.Fprintln(os.Stderr, "warning: no token found; conversations stay on this machine only")
			fmt.Fprintln(os.Stderr, "         set LAWCHAT_TOKEN or write it to "+configDir+"/token")
		} else {
			return fmt.Errorf("stored token is unusable: %w", err)
		}
	} else {
		userID = ident.UserID
	}

	var mirror *storage.Mirror
	if cfg.Mirror.Enabled {
		path, err := cfg.MirrorPath()
		if err == nil {
			mirror, err = storage.Open(path)
		}
		if err != nil {
			log.Warn().Err(err).Msg("mirror unavailable, continuing without local durability")
			mirror = nil
		}
	}
	if mirror != nil {
		defer mirror.Close()
	}

	client := newAPIClient(cfg, configDir)
	adapter := persist.New(client, mirror, userID, logging.With("persist"))

	st := store.New(adapter, logging.With("store"))

	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st.Load(loadCtx)
	st.Bootstrap(loadCtx)
	cancel()

	engine := syncengine.New(st, adapter, logging.With("sync"))
	model := chat.New(cfg, st, engine, logging.With("ui"), args.Fragment)

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Hot-reload config changes into the running program.
	watcher, err := config.NewWatcher(500*time.Millisecond, func(next *config.Config) {
		program.Send(chat.ConfigReloadedMsg{Config: next})
	})
	if err == nil {
		if err := watcher.Watch(); err != nil {
			log.Warn().Err(err).Msg("config watcher failed to start")
		}
		defer watcher.Close()
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI crashed: %w", err)
	}
	return nil
}

// setupLogging initializes the file logger. Logging failures are not
// fatal; the client just runs quiet.
func setupLogging(cfg *config.Config) func() {
	path, err := cfg.LogPath()
	if err != nil {
		return func() {}
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	closeFn, err := logging.Init(path, level)
	if err != nil {
		return func() {}
	}
	return func() { _ = closeFn() }
}

// newAPIClient builds the backend client with the stored token.
func newAPIClient(cfg *config.Config, configDir string) *api.Client {
	token := ""
	if t, err := auth.LoadToken(configDir); err == nil {
		token = t
	}
	return api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:      cfg.Backend.URL,
		Token:        token,
		Timeout:      time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		ChatTimeout:  time.Duration(cfg.Backend.ChatTimeoutSecs) * time.Second,
		ChatInterval: time.Duration(cfg.Backend.ChatIntervalMS) * time.Millisecond,
	})
}
