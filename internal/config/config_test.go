package config

import (
	"strings"
	"testing"
	"time"
)

func setMailEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MAIL_SENDER", "sender@gmail.com")
	t.Setenv("MAIL_PASSWORD", "app-password")
	t.Setenv("MAIL_RECIPIENT", "reader@gmail.com")
}

func TestLoadRequiresMailCredentials(t *testing.T) {
	setMailEnv(t)
	t.Setenv("MAIL_PASSWORD", "")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for missing MAIL_PASSWORD")
	}
	if !strings.Contains(err.Error(), "MAIL_PASSWORD") {
		t.Errorf("error should name the missing variable: %v", err)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	setMailEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.SMTPHost != "smtp.gmail.com" || cfg.SMTPPort != 587 {
		t.Errorf("smtp defaults = %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout)
	}
	if cfg.MaxHeadlines != 5 {
		t.Errorf("MaxHeadlines = %d", cfg.MaxHeadlines)
	}
	if cfg.SendEmptyDigest {
		t.Errorf("SendEmptyDigest should default to false")
	}
	if cfg.StorageType != "none" {
		t.Errorf("StorageType = %q", cfg.StorageType)
	}
	if cfg.StorageTTL != 5*24*time.Hour {
		t.Errorf("StorageTTL = %v", cfg.StorageTTL)
	}
}

func TestLoadReadsOverridesFromEnv(t *testing.T) {
	setMailEnv(t)
	t.Setenv("SMTP_HOST", "mail.internal")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "3")
	t.Setenv("SEND_EMPTY_DIGEST", "true")
	t.Setenv("STORAGE_TYPE", "bbolt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SMTPHost != "mail.internal" || cfg.SMTPPort != 2525 {
		t.Errorf("smtp overrides not applied: %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.FetchTimeout != 3*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout)
	}
	if !cfg.SendEmptyDigest {
		t.Errorf("SEND_EMPTY_DIGEST override not applied")
	}
	if cfg.StorageType != "bbolt" {
		t.Errorf("StorageType = %q", cfg.StorageType)
	}
}

func TestLoadRejectsInvalidNumbers(t *testing.T) {
	setMailEnv(t)
	t.Setenv("FETCH_TIMEOUT_SECONDS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero fetch timeout")
	}
}
