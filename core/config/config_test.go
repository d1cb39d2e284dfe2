package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		Leads:    LeadsConfig{Backend: LeadsBackendSQLite},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, expected longpoll", cfg.Telegram.RunMode)
	}
	if cfg.Funnel.FirstFollowupDelay != time.Hour {
		t.Fatalf("first_followup_delay = %v, expected 1h", cfg.Funnel.FirstFollowupDelay)
	}
	if cfg.Funnel.StepDelay != 5*time.Minute {
		t.Fatalf("step_delay = %v, expected 5m", cfg.Funnel.StepDelay)
	}
	if cfg.Leads.SQLitePath != "leads.db" {
		t.Fatalf("sqlite_path = %q, expected default", cfg.Leads.SQLitePath)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeWebhookValidation(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	err := Normalize(cfg)
	if err == nil || !strings.Contains(err.Error(), "webhook.url") {
		t.Fatalf("expected webhook.url error, got %v", err)
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize webhook: %v", err)
	}
}

func TestNormalizeLeadsBackends(t *testing.T) {
	cfg := validConfig()
	cfg.Leads.Backend = "kafka"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg = validConfig()
	cfg.Leads.Backend = LeadsBackendSheets
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for sheets backend without spreadsheet_id")
	}
	cfg.Leads.SpreadsheetID = "sheet-1"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize sheets: %v", err)
	}
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "message"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != "callback" {
		t.Fatalf("exclusion not normalized: %q", cfg.RateLimit.ExcludeUpdates[0])
	}

	cfg = validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unsupported exclusion")
	}
}
