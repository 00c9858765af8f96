// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFromPath_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	def := Default()
	require.Equal(t, def.Backend.URL, cfg.Backend.URL)
	require.Equal(t, def.UI.Theme, cfg.UI.Theme)
	require.True(t, cfg.Mirror.Enabled)
}

func TestLoadFromPath_SparseFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backend]\nurl = \"http://lawgpt.example:8080\"\n"), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, "http://lawgpt.example:8080", cfg.Backend.URL)
	require.Equal(t, Default().Backend.TimeoutSecs, cfg.Backend.TimeoutSecs)
	require.Equal(t, Default().UI.SidebarWidth, cfg.UI.SidebarWidth)
}

func TestLoadFromPath_InvalidTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"solarized\"\n"), 0600))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "ui.theme")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LAWCHAT_BACKEND_URL", "http://10.0.0.5:5000")
	t.Setenv("LAWCHAT_LOG_LEVEL", "debug")
	t.Setenv("LAWCHAT_MIRROR", "false")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, "http://10.0.0.5:5000", cfg.Backend.URL)
	require.Equal(t, "debug", cfg.Log.Level)
	require.False(t, cfg.Mirror.Enabled)
}

func TestSaveAndReload_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Backend.URL = "http://lawgpt.example:9000"
	cfg.UI.Theme = "light"
	require.NoError(t, SaveToPath(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, "http://lawgpt.example:9000", loaded.Backend.URL)
	require.Equal(t, "light", loaded.UI.Theme)
}

func TestGetSet_AllKeysRoundTrip(t *testing.T) {
	cfg := Default()

	for _, key := range Keys() {
		_, err := cfg.Get(key)
		require.NoError(t, err, "Get(%s)", key)
	}

	require.NoError(t, cfg.Set("ui.sidebar_width", "40"))
	got, err := cfg.Get("ui.sidebar_width")
	require.NoError(t, err)
	require.Equal(t, "40", got)

	require.NoError(t, cfg.Set("ui.law_rail", "false"))
	got, err = cfg.Get("ui.law_rail")
	require.NoError(t, err)
	require.Equal(t, "false", got)
}

func TestSet_RejectsBadValues(t *testing.T) {
	cfg := Default()

	require.Error(t, cfg.Set("backend.timeout_secs", "soon"))
	require.Error(t, cfg.Set("ui.theme", "solarized"))
	require.Error(t, cfg.Set("no.such.key", "1"))
}

func TestValidate_BadURL(t *testing.T) {
	cfg := Default()
	cfg.Backend.URL = "not a url"
	require.Error(t, cfg.Validate())

	cfg.Backend.URL = "/relative/path"
	require.Error(t, cfg.Validate())
}

// TestConfig_ConcurrentAccess checks Global/SetGlobal under the race
// detector.
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
	ResetGlobalForTesting()
}
