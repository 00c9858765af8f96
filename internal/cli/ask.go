// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/lawchat-tui/internal/api"
	"github.com/jeranaias/lawchat-tui/internal/auth"
	"github.com/jeranaias/lawchat-tui/internal/config"
	"github.com/jeranaias/lawchat-tui/internal/law"
)

// HandleAsk answers a single question and exits. No conversation is
// created and nothing is persisted; this is the stateless path for
// scripting and quick lookups.
func HandleAsk(args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return fmt.Errorf("usage: lawchat ask \"question\"")
	}

	cfg := config.Global()
	client := newAPIClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Backend.ChatTimeoutSecs)*time.Second)
	defer cancel()

	result, err := client.Chat(ctx, query)
	if err != nil {
		return fmt.Errorf("completion failed: %w", err)
	}

	if !result.ModelAvailable {
		fmt.Println(warningStyle.Render("⚠️ The AI model is currently unavailable; the answer below may be incomplete."))
		fmt.Println()
	}
	if result.Refined {
		fmt.Println(infoStyle.Render("(answer refined for clarity)"))
		fmt.Println()
	}

	renderAnswer(result.Answer, !args.Plain && IsStdoutTTY())
	printLawLinks(law.FindRelated(query))
	return nil
}

// newAPIClient builds a backend client from the configuration. The token
// is best-effort here: unauthenticated asks still work against backends
// that allow them.
func newAPIClient(cfg *config.Config) *api.Client {
	token := ""
	if dir, err := config.ConfigDir(); err == nil {
		if t, err := auth.LoadToken(dir); err == nil {
			token = t
		}
	}

	return api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:      cfg.Backend.URL,
		Token:        token,
		Timeout:      time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		ChatTimeout:  time.Duration(cfg.Backend.ChatTimeoutSecs) * time.Second,
		ChatInterval: time.Duration(cfg.Backend.ChatIntervalMS) * time.Millisecond,
	})
}
