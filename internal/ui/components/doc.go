// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable view fragments of the lawchat
// TUI: the conversation sidebar, message rendering, the related-law rail,
// and the status bar.
//
// Components are pure render functions over the store's state. They hold
// no state of their own; the chat model owns scrolling, focus, and
// selection and passes them in.
package components
