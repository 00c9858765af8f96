// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for lawchat.
//
// # Key Types
//
//   - Config: main configuration structure with all settings
//   - BackendConfig: LawGPT backend endpoint and timeouts
//   - UIConfig: renderer preferences (theme, sidebar, law rail)
//   - Watcher: fsnotify-based hot reload of the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (LAWCHAT_*)
//   - ~/.lawchat/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	url := cfg.Backend.URL
//	theme := cfg.UI.Theme
package config
