// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/lawchat-tui/internal/auth"
	"github.com/jeranaias/lawchat-tui/internal/config"
	"github.com/jeranaias/lawchat-tui/internal/storage"
)

// statusReport is the machine-readable form of lawchat status.
type statusReport struct {
	BackendURL      string `json:"backend_url"`
	BackendUp       bool   `json:"backend_up"`
	BackendError    string `json:"backend_error,omitempty"`
	LoggedIn        bool   `json:"logged_in"`
	UserID          string `json:"user_id,omitempty"`
	MirrorEnabled   bool   `json:"mirror_enabled"`
	MirrorPath      string `json:"mirror_path,omitempty"`
	MirrorSnapshots bool   `json:"mirror_has_snapshot"`
}

// HandleStatus checks the backend, the stored login, and the local
// mirror, and reports the result.
func HandleStatus(args Args) error {
	cfg := config.Global()
	report := statusReport{
		BackendURL:    cfg.Backend.URL,
		MirrorEnabled: cfg.Mirror.Enabled,
	}

	client := newAPIClient(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.CheckRunning(ctx); err != nil {
		report.BackendError = err.Error()
	} else {
		report.BackendUp = true
	}

	if dir, err := config.ConfigDir(); err == nil {
		if ident, err := auth.Load(dir); err == nil {
			report.LoggedIn = true
			report.UserID = ident.UserID
		}
	}

	if cfg.Mirror.Enabled {
		if path, err := cfg.MirrorPath(); err == nil {
			report.MirrorPath = path
			if m, err := storage.Open(path); err == nil {
				if _, err := m.Load(); err == nil {
					report.MirrorSnapshots = true
				} else if !errors.Is(err, storage.ErrNoSnapshot) {
					report.MirrorEnabled = false
				}
				m.Close()
			}
		}
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printStatusReport(report)
	return nil
}

func printStatusReport(r statusReport) {
	fmt.Println()
	fmt.Println(headerStyle.Render("lawchat status"))
	fmt.Println()

	if r.BackendUp {
		fmt.Printf("  %s %s %s\n", infoStyle.Render("Backend:"), r.BackendURL, commandStyle.Render("[up]"))
	} else {
		fmt.Printf("  %s %s %s\n", infoStyle.Render("Backend:"), r.BackendURL, errorStyle.Render("[down]"))
		if r.BackendError != "" {
			fmt.Printf("    %s\n", infoStyle.Render(r.BackendError))
		}
	}

	if r.LoggedIn {
		fmt.Printf("  %s %s\n", infoStyle.Render("Login:"), commandStyle.Render("user "+r.UserID))
	} else {
		fmt.Printf("  %s %s\n", infoStyle.Render("Login:"), warningStyle.Render("no token (set LAWCHAT_TOKEN)"))
	}

	switch {
	case !r.MirrorEnabled:
		fmt.Printf("  %s %s\n", infoStyle.Render("Mirror:"), warningStyle.Render("disabled"))
	case r.MirrorSnapshots:
		fmt.Printf("  %s %s (%s)\n", infoStyle.Render("Mirror:"), commandStyle.Render("ok"), r.MirrorPath)
	default:
		fmt.Printf("  %s %s (%s)\n", infoStyle.Render("Mirror:"), infoStyle.Render("empty"), r.MirrorPath)
	}

	fmt.Println()
}
