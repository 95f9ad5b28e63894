package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{LinearAPIKeyEnv, APIEndpointEnv, LogFileEnv, LogLevelEnv, TimeoutEnv, PageSizeEnv, EditorEnv} {
		t.Setenv(env, "")
		_ = os.Unsetenv(env)
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfg, err := Load(WithConfigPath(filepath.Join(dir, "config.json")), WithDefaultsPath(filepath.Join(dir, "d.json")))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIEndpoint != DefaultAPIURL {
		t.Errorf("APIEndpoint = %q, want %q", cfg.APIEndpoint, DefaultAPIURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.Editor != "vim" {
		t.Errorf("Editor = %q, want vim", cfg.Editor)
	}
	if !errors.Is(cfg.RequireAPIKey(), ErrMissingAPIKey) {
		t.Errorf("RequireAPIKey() = %v, want ErrMissingAPIKey", cfg.RequireAPIKey())
	}
}

func TestSaveAPIKey_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	if err := SaveAPIKey(path, "  lin_api_123 "); err != nil {
		t.Fatalf("SaveAPIKey() error: %v", err)
	}

	cfg, err := Load(WithConfigPath(path), WithDefaultsPath(filepath.Join(t.TempDir(), "d.json")))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LinearAPIKey != "lin_api_123" {
		t.Errorf("LinearAPIKey = %q, want lin_api_123", cfg.LinearAPIKey)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("RequireAPIKey() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"apiKey":"from-file","timeout":"5s"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(LinearAPIKeyEnv, "from-env")
	t.Setenv(EditorEnv, "nano")

	cfg, err := Load(WithConfigPath(path), WithDefaultsPath(filepath.Join(t.TempDir(), "d.json")))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LinearAPIKey != "from-env" {
		t.Errorf("LinearAPIKey = %q, want from-env", cfg.LinearAPIKey)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.Editor != "nano" {
		t.Errorf("Editor = %q, want nano", cfg.Editor)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(WithConfigPath(path), WithDefaultsPath(filepath.Join(t.TempDir(), "d.json"))); err == nil {
		t.Fatal("Load() expected parse error")
	}
}

func TestDefaults_SaveLoadMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.json")
	if got := LoadDefaults(path); got != (Defaults{}) {
		t.Errorf("LoadDefaults(missing) = %+v, want empty", got)
	}

	want := Defaults{Team: "Engineering", Assignee: "Jo", State: "Todo"}
	if err := SaveDefaults(path, want); err != nil {
		t.Fatalf("SaveDefaults() error: %v", err)
	}
	if got := LoadDefaults(path); got != want {
		t.Errorf("LoadDefaults() = %+v, want %+v", got, want)
	}

	merged := Defaults{Team: "Design"}.Merge(want)
	if merged.Team != "Design" || merged.Assignee != "Jo" || merged.State != "Todo" || merged.Project != "" {
		t.Errorf("Merge() = %+v", merged)
	}
}
