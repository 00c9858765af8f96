// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/jeranaias/lawchat-tui/internal/config"
)

// HandleConfig handles "lawchat config" subcommands: show, get, set,
// and path.
func HandleConfig(rest []string) error {
	p := NewArgParser(rest)

	switch p.Subcommand() {
	case "", "show":
		return configShow()

	case "get":
		key := p.Positional(1)
		if key == "" {
			return fmt.Errorf("usage: lawchat config get <key>")
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil

	case "set":
		key, value := p.Positional(1), p.Positional(2)
		if key == "" || value == "" {
			return fmt.Errorf("usage: lawchat config set <key> <value>")
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Set(key, value); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("%s %s = %s\n", commandStyle.Render("[saved]"), key, value)
		return nil

	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	default:
		return fmt.Errorf("unknown config subcommand: %s (show, get, set, path)", p.Subcommand())
	}
}

func configShow() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("lawchat configuration"))
	fmt.Println()
	for _, key := range config.Keys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		if value == "" {
			value = infoStyle.Render("(default)")
		}
		fmt.Printf("  %-26s %s\n", key, value)
	}
	fmt.Println()
	return nil
}
