package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// unsetEnv clears a variable for the test, restoring it afterwards
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	// t.Setenv registers the restore, Unsetenv makes it truly absent
	t.Setenv(key, "")
	_ = os.Unsetenv(key)
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetEnv(t, "REPORTCTL_API_URL")
	unsetEnv(t, "REPORTCTL_NL2SQL_URL")
	unsetEnv(t, "REPORTCTL_PAGE_SIZE")
	unsetEnv(t, "REPORTCTL_HTTP_TIMEOUT")
	t.Setenv("REPORTCTL_STATE_DIR", "/tmp/reportctl-test-state")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:8000" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.NL2SQLURL != cfg.APIURL {
		t.Errorf("NL2SQLURL = %q, want fallback to APIURL", cfg.NL2SQLURL)
	}
	if cfg.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.PageSize)
	}
	if cfg.HTTPTimeout != 60*time.Second {
		t.Errorf("HTTPTimeout = %v, want 60s", cfg.HTTPTimeout)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("REPORTCTL_API_URL", "https://reports.example.com")
	t.Setenv("REPORTCTL_NL2SQL_URL", "https://nl2sql.example.com")
	t.Setenv("REPORTCTL_PAGE_SIZE", "10")
	t.Setenv("REPORTCTL_STATE_DIR", "/tmp/custom-state")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.APIURL != "https://reports.example.com" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.NL2SQLURL != "https://nl2sql.example.com" {
		t.Errorf("NL2SQLURL = %q, want the explicit value kept", cfg.NL2SQLURL)
	}
	if cfg.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.PageSize)
	}
	if cfg.StateDir != "/tmp/custom-state" {
		t.Errorf("StateDir = %q", cfg.StateDir)
	}
}

func TestConfigStatePath(t *testing.T) {
	cfg := &Config{StateDir: "/tmp/state-dir"}
	want := filepath.Join("/tmp/state-dir", "state.db")
	if got := cfg.StatePath(); got != want {
		t.Errorf("StatePath() = %q, want %q", got, want)
	}
}
