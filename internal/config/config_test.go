package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}

	if cfg.App.Name != "finscore" {
		t.Fatalf("unexpected app name %q", cfg.App.Name)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Watch.Interval != time.Hour {
		t.Fatalf("unexpected watch interval %s", cfg.Watch.Interval)
	}
	if cfg.Watch.WindowDays != 90 {
		t.Fatalf("unexpected watch window %d", cfg.Watch.WindowDays)
	}
	if cfg.Notify.Telegram.APIBase != "https://api.telegram.org" {
		t.Fatalf("unexpected telegram api base %q", cfg.Notify.Telegram.APIBase)
	}
	if err := cfg.Scoring.Validate(); err != nil {
		t.Fatalf("default scoring params must validate: %v", err)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
app:
  environment: production
watch:
  interval: 15m
  window_days: 30
scoring:
  tiers:
    approve_score: 80
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Environment != "production" {
		t.Fatalf("environment override lost: %q", cfg.App.Environment)
	}
	if cfg.Watch.Interval != 15*time.Minute {
		t.Fatalf("interval override lost: %s", cfg.Watch.Interval)
	}
	if cfg.Scoring.Tiers.ApproveScore != 80 {
		t.Fatalf("tier override lost: %d", cfg.Scoring.Tiers.ApproveScore)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
scoring:
  weights:
    txn_frequency: 0.5
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("weights no longer summing to 1 must be rejected")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("explicitly named but missing config file must error")
	}
}

func TestValidateTelegramFields(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}

	cfg.Notify.Telegram.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("enabled telegram without bot token must fail validation")
	}

	cfg.Notify.Telegram.BotToken = "token"
	if err := cfg.Validate(); err == nil {
		t.Fatal("enabled telegram without chat id must fail validation")
	}

	cfg.Notify.Telegram.ChatID = "chat"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("complete telegram config should validate: %v", err)
	}
}
