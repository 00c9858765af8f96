// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the Bubble Tea model for the lawchat TUI.
//
// The layout is a header, a main row, a composer, and a status bar. The
// main row holds the conversation sidebar, the message thread, and the
// related-law rail; on narrow terminals the sidebar collapses into an
// overlay and the law rail disappears.
//
// Sends run through the three-phase engine: Prepare mutates the store on
// the event loop, Resolve runs as a bubbletea command off the loop, and
// the completion message triggers Commit back on the loop. The thread
// therefore updates instantly on submit and never blocks on the network.
//
// Navigation is fragment-driven: every selection, creation, and deletion
// goes through the router so the current location always has a canonical
// #/chat/<id> form, shown in the header.
package chat
