package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StorageKey != DefaultStorageKey {
		t.Errorf("StorageKey = %q, want %q", cfg.StorageKey, DefaultStorageKey)
	}
	if cfg.SettleDelayMS != DefaultConfig().SettleDelayMS {
		t.Errorf("SettleDelayMS = %d, want %d", cfg.SettleDelayMS, DefaultConfig().SettleDelayMS)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"settle_delay_ms": 250, "storage_key": "ws", "log_level": "debug"}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SettleDelayMS != 250 {
		t.Errorf("SettleDelayMS = %d, want 250", cfg.SettleDelayMS)
	}
	if cfg.StorageKey != "ws" {
		t.Errorf("StorageKey = %q, want ws", cfg.StorageKey)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{not json}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"disabled_tools": ["workspace_delete", "workspace_import"]}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "workspace_delete" {
		t.Errorf("DisabledTools[0] = %q, want %q", cfg.DisabledTools[0], "workspace_delete")
	}
}

func TestSettleDelay(t *testing.T) {
	tests := []struct {
		ms   int
		want time.Duration
	}{
		{ms: 100, want: 100 * time.Millisecond},
		{ms: 0, want: 0},
		{ms: -1, want: 0},
	}
	for _, tt := range tests {
		cfg := &Config{SettleDelayMS: tt.ms}
		if got := cfg.SettleDelay(); got != tt.want {
			t.Errorf("SettleDelay(%d) = %v, want %v", tt.ms, got, tt.want)
		}
	}

	var nilCfg *Config
	if got := nilCfg.SettleDelay(); got != 0 {
		t.Errorf("nil SettleDelay() = %v, want 0", got)
	}
}

func TestLoad_NegativeSettleDelayDisablesWait(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"settle_delay_ms": -1}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SettleDelay() != 0 {
		t.Errorf("SettleDelay() = %v, want 0", cfg.SettleDelay())
	}
}

func TestResolveLayoutPath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ResolveLayoutPath("/base"); got != filepath.Join("/base", "layout.json") {
		t.Errorf("ResolveLayoutPath() = %q, want default under base", got)
	}

	cfg.LayoutPath = "/elsewhere/layout.json"
	if got := cfg.ResolveLayoutPath("/base"); got != "/elsewhere/layout.json" {
		t.Errorf("ResolveLayoutPath() = %q, want configured path", got)
	}
}

func TestLoadWithRepo_BothPresent(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	writeConfig(t, globalDir, `{"settle_delay_ms": 300, "disabled_tools": ["workspace_delete"]}`)
	writeConfig(t, filepath.Join(repoRoot, ".nook"), `{"settle_delay_ms": 50, "disabled_tools": ["workspace_import"]}`)

	cfg, err := LoadWithRepo(globalDir, repoRoot)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	if cfg.SettleDelayMS != 50 {
		t.Errorf("SettleDelayMS = %d, want 50 (repo override)", cfg.SettleDelayMS)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
}

func TestLoadWithRepo_NeitherPresent(t *testing.T) {
	cfg, err := LoadWithRepo(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}

	if cfg.StorageKey != DefaultStorageKey {
		t.Errorf("StorageKey = %q, want default", cfg.StorageKey)
	}
	if len(cfg.DisabledTools) != 0 {
		t.Errorf("DisabledTools = %v, want empty", cfg.DisabledTools)
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{SettleDelayMS: 100, DBMaxOpenConns: 5, StorageKey: "a"}
	overlay := &Config{SettleDelayMS: 20}

	result := Merge(base, overlay)

	if result.SettleDelayMS != 20 {
		t.Errorf("SettleDelayMS = %d, want 20 (overlay)", result.SettleDelayMS)
	}
	if result.DBMaxOpenConns != 5 {
		t.Errorf("DBMaxOpenConns = %d, want 5 (base, overlay is zero)", result.DBMaxOpenConns)
	}
	if result.StorageKey != "a" {
		t.Errorf("StorageKey = %q, want a (base, overlay empty)", result.StorageKey)
	}
}

func TestMerge_BooleanOr(t *testing.T) {
	result := Merge(&Config{AllowUnsafePaths: true}, &Config{LogDevelopment: true})

	if !result.AllowUnsafePaths {
		t.Error("AllowUnsafePaths should be true (base OR overlay)")
	}
	if !result.LogDevelopment {
		t.Error("LogDevelopment should be true (base OR overlay)")
	}
}

func TestMerge_ArrayMergeDedup(t *testing.T) {
	base := &Config{DisabledTypes: []string{"tabs", " workspace "}}
	overlay := &Config{DisabledTypes: []string{"workspace", ""}}

	result := Merge(base, overlay)

	if len(result.DisabledTypes) != 2 {
		t.Fatalf("DisabledTypes = %v, want 2 entries (merged, trimmed, deduped)", result.DisabledTypes)
	}
	if result.DisabledTypes[0] != "tabs" || result.DisabledTypes[1] != "workspace" {
		t.Errorf("DisabledTypes = %v, want [tabs workspace]", result.DisabledTypes)
	}
}

func TestFindRepoConfig_InParentDir(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, filepath.Join(tmpDir, ".nook"), `{}`)
	configPath := filepath.Join(tmpDir, ".nook", "config.json")

	subdir := filepath.Join(tmpDir, "subdir", "deeper")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	if found := FindRepoConfig(subdir); found != configPath {
		t.Errorf("FindRepoConfig() = %q, want %q", found, configPath)
	}
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	if found := FindRepoConfig(t.TempDir()); found != "" {
		t.Errorf("FindRepoConfig() = %q, want empty string", found)
	}
}
