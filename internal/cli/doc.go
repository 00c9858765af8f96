// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the plain-terminal surfaces of lawchat: one-shot
// ask, the interactive REPL, status, and configuration management.
//
// The REPL shares the conversation store, send engine, and slash command
// registry with the TUI; it differs only in rendering. One-shot ask is
// stateless: it calls the completion endpoint directly and persists
// nothing.
package cli
