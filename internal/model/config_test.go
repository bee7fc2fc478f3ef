package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Mailbox.RequirementSet != "1.15" {
		t.Errorf("RequirementSet = %q, want 1.15", cfg.Mailbox.RequirementSet)
	}
	if cfg.IMAP.SentFolder != "Sent Items" {
		t.Errorf("SentFolder = %q, want %q", cfg.IMAP.SentFolder, "Sent Items")
	}
}

func TestLoadConfig_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
mailbox:
  ews_url: https://mail.example.com/EWS/Exchange.asmx
  username: ana@example.com
  requirement_set: "1.14"
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Mailbox.EWSURL != "https://mail.example.com/EWS/Exchange.asmx" {
		t.Errorf("EWSURL = %q", cfg.Mailbox.EWSURL)
	}
	if cfg.Mailbox.Username != "ana@example.com" {
		t.Errorf("Username = %q", cfg.Mailbox.Username)
	}
	if cfg.Mailbox.RequirementSet != "1.14" {
		t.Errorf("RequirementSet = %q, want 1.14", cfg.Mailbox.RequirementSet)
	}
	if cfg.Mailbox.RestURL != "https://outlook.office.com/api" {
		t.Errorf("RestURL = %q, want default", cfg.Mailbox.RestURL)
	}
	if cfg.Mailbox.TimeoutSec != 30 {
		t.Errorf("TimeoutSec = %d, want 30", cfg.Mailbox.TimeoutSec)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("mailbox: [unterminated"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid YAML, got nil")
	}
}
