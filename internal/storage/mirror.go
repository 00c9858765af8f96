// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local durable mirror of conversation state.
//
// The mirror is a best-effort cache, not a source of truth: the backend
// wins whenever it is reachable. The whole conversation set is serialized
// under a single key so a reader always sees one coherent snapshot,
// mirroring the single-key layout the browser client used.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jeranaias/lawchat-tui/internal/model"
)

// snapshotKey is the single durable key holding the serialized set. The
// name is carried over from the browser client so the format lineage is
// traceable.
const snapshotKey = "lawgpt_conversations_v2"

// ErrNoSnapshot indicates the mirror exists but holds no snapshot yet.
var ErrNoSnapshot = errors.New("no local snapshot")

// Snapshot is the serialized conversation set.
type Snapshot struct {
	Conversations []*model.Conversation `json:"conversations"`
	ActiveID      string                `json:"active_id"`
	SavedAt       time.Time             `json:"saved_at"`
}

// Mirror persists snapshots in a local sqlite database.
type Mirror struct {
	db *sql.DB
}

// Open opens (or creates) the mirror database at path.
func Open(path string) (*Mirror, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create mirror directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror database: %w", err)
	}

	// Single writer; the TUI is the only process expected to hold this.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create mirror schema: %w", err)
	}

	return &Mirror{db: db}, nil
}

// Save replaces the stored snapshot with the given one.
func (m *Mirror) Save(snap *Snapshot) error {
	snap.SavedAt = time.Now()
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = m.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		snapshotKey, string(payload), snap.SavedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or ErrNoSnapshot when none exists.
func (m *Mirror) Load() (*Snapshot, error) {
	var payload string
	err := m.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, snapshotKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		// A corrupt snapshot is treated as absent; the backend or a fresh
		// conversation will repopulate it.
		return nil, ErrNoSnapshot
	}
	return &snap, nil
}

// Close closes the underlying database.
func (m *Mirror) Close() error {
	return m.db.Close()
}
