package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	KeysOrder string `yaml:"keys_order"`
	Dir       string `yaml:"dir"`
	BotFile   string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// FunnelConfig carries the static drip-campaign timings and content assets location.
type FunnelConfig struct {
	// FirstFollowupDelay is the pause between /start and the first follow-up.
	FirstFollowupDelay time.Duration `yaml:"first_followup_delay" envconfig:"FUNNEL_FIRST_FOLLOWUP_DELAY"`
	// StepDelay is the pause between consecutive escalation steps.
	StepDelay time.Duration `yaml:"step_delay" envconfig:"FUNNEL_STEP_DELAY"`
	// AssetsDir points to the directory with photo attachments; empty disables media.
	AssetsDir string `yaml:"assets_dir" envconfig:"FUNNEL_ASSETS_DIR"`
}

// UnmarshalYAML accepts Go duration strings ("1h", "5m") for the delays.
func (f *FunnelConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		FirstFollowupDelay string `yaml:"first_followup_delay"`
		StepDelay          string `yaml:"step_delay"`
		AssetsDir          string `yaml:"assets_dir"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.FirstFollowupDelay != "" {
		d, err := time.ParseDuration(raw.FirstFollowupDelay)
		if err != nil {
			return fmt.Errorf("funnel.first_followup_delay: %w", err)
		}
		f.FirstFollowupDelay = d
	}
	if raw.StepDelay != "" {
		d, err := time.ParseDuration(raw.StepDelay)
		if err != nil {
			return fmt.Errorf("funnel.step_delay: %w", err)
		}
		f.StepDelay = d
	}
	f.AssetsDir = raw.AssetsDir
	return nil
}

// Lead sink backends.
const (
	LeadsBackendPostgres = "postgres"
	LeadsBackendSQLite   = "sqlite"
	LeadsBackendSheets   = "sheets"
)

// LeadsConfig selects and configures the lead sink backend.
type LeadsConfig struct {
	Backend         string `yaml:"backend" envconfig:"LEADS_BACKEND"`
	SQLitePath      string `yaml:"sqlite_path" envconfig:"LEADS_SQLITE_PATH"`
	SpreadsheetID   string `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates the configuration that belongs to the reusable core.
// Database settings live in core/database and are composed by the application
// config on top of this struct.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Funnel    FunnelConfig    `yaml:"funnel"`
	Leads     LeadsConfig     `yaml:"leads"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.Funnel.FirstFollowupDelay < 0 || cfg.Funnel.StepDelay < 0 {
		return fmt.Errorf("funnel delays must be >= 0")
	}
	if cfg.Funnel.FirstFollowupDelay == 0 {
		cfg.Funnel.FirstFollowupDelay = time.Hour
	}
	if cfg.Funnel.StepDelay == 0 {
		cfg.Funnel.StepDelay = 5 * time.Minute
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Leads.Backend))
	if backend == "" {
		backend = LeadsBackendSQLite
	}
	switch backend {
	case LeadsBackendPostgres:
		// database settings are validated by the application config on top of this.
	case LeadsBackendSQLite:
		if strings.TrimSpace(cfg.Leads.SQLitePath) == "" {
			cfg.Leads.SQLitePath = "leads.db"
		}
	case LeadsBackendSheets:
		if strings.TrimSpace(cfg.Leads.SpreadsheetID) == "" {
			return fmt.Errorf("leads.spreadsheet_id is required when leads.backend is 'sheets'")
		}
	default:
		return fmt.Errorf("invalid leads.backend %q; allowed: postgres, sqlite, sheets", cfg.Leads.Backend)
	}
	cfg.Leads.Backend = backend

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}
