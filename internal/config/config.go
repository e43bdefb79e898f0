package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	Database   Database   `mapstructure:",squash"`
	Amazon     Amazon     `mapstructure:",squash"`
	Auth       Auth       `mapstructure:",squash"`
	ReportSync ReportSync `mapstructure:",squash"`
	RateLimit  RateLimit  `mapstructure:",squash"`
	SyncPlan   SyncPlan   `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Amazon holds the Ads API endpoints and the Login-with-Amazon credentials
// used to mint access tokens.
type Amazon struct {
	AdsAPIURL    string `mapstructure:"amazon_ads_api_url"`
	TokenURL     string `mapstructure:"amazon_token_url"`
	ClientID     string `mapstructure:"amazon_client_id"`
	ClientSecret string `mapstructure:"amazon_client_secret"`
	RefreshToken string `mapstructure:"amazon_refresh_token"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// ReportSync configures the ingestion workers' cadences and batch sizes.
type ReportSync struct {
	Enabled                bool   `mapstructure:"report_sync_enabled"`
	SubmitIntervalSeconds  int    `mapstructure:"report_sync_submit_interval_seconds"`
	CheckIntervalSeconds   int    `mapstructure:"report_sync_check_interval_seconds"`
	ProcessIntervalSeconds int    `mapstructure:"report_sync_process_interval_seconds"`
	CleanupCron            string `mapstructure:"report_sync_cleanup_cron"`
	SyncPassCron           string `mapstructure:"report_sync_pass_cron"`
	SubmitBatchSize        int    `mapstructure:"report_sync_submit_batch_size"`
	CheckBatchSize         int    `mapstructure:"report_sync_check_batch_size"`
	ProcessBatchSize       int    `mapstructure:"report_sync_process_batch_size"`
	MaxRetries             int    `mapstructure:"report_sync_max_retries"`
	ReportTimeoutMinutes   int    `mapstructure:"report_sync_report_timeout_minutes"`
	CleanupAfterDays       int    `mapstructure:"report_sync_cleanup_after_days"`
}

// RateLimit configures the per-profile submission limiter.
type RateLimit struct {
	RequestsPerSecond   int `mapstructure:"rate_limit_requests_per_second"`
	RequestsPerMinute   int `mapstructure:"rate_limit_requests_per_minute"`
	RequestsPerHour     int `mapstructure:"rate_limit_requests_per_hour"`
	BurstLimit          int `mapstructure:"rate_limit_burst_limit"`
	InterRequestDelayMS int `mapstructure:"rate_limit_inter_request_delay_ms"`
}

// SyncPlan configures how the sync-mode selector plans jobs.
type SyncPlan struct {
	BackfillDays             int `mapstructure:"sync_plan_backfill_days"`
	FullAttributionFrequency int `mapstructure:"sync_plan_full_attribution_frequency_days"`
	ShallowCheckDays         int `mapstructure:"sync_plan_shallow_check_days"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/ads_optimizer")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("AMAZON_ADS_API_URL", "https://advertising-api.amazon.com")
	viper.SetDefault("AMAZON_TOKEN_URL", "https://api.amazon.com/auth/o2/token")
	viper.SetDefault("AMAZON_CLIENT_ID", "your_client_id")
	viper.SetDefault("AMAZON_CLIENT_SECRET", "your_client_secret")
	viper.SetDefault("AMAZON_REFRESH_TOKEN", "")

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	// Worker cadences and batch sizes
	viper.SetDefault("REPORT_SYNC_ENABLED", false)
	viper.SetDefault("REPORT_SYNC_SUBMIT_INTERVAL_SECONDS", 30)
	viper.SetDefault("REPORT_SYNC_CHECK_INTERVAL_SECONDS", 60)
	viper.SetDefault("REPORT_SYNC_PROCESS_INTERVAL_SECONDS", 30)
	viper.SetDefault("REPORT_SYNC_CLEANUP_CRON", "0 2 * * *")
	viper.SetDefault("REPORT_SYNC_PASS_CRON", "0 3 * * *")
	viper.SetDefault("REPORT_SYNC_SUBMIT_BATCH_SIZE", 10)
	viper.SetDefault("REPORT_SYNC_CHECK_BATCH_SIZE", 20)
	viper.SetDefault("REPORT_SYNC_PROCESS_BATCH_SIZE", 10)
	viper.SetDefault("REPORT_SYNC_MAX_RETRIES", 3)
	viper.SetDefault("REPORT_SYNC_REPORT_TIMEOUT_MINUTES", 15)
	viper.SetDefault("REPORT_SYNC_CLEANUP_AFTER_DAYS", 7)

	// Ads API admission caps
	viper.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 5)
	viper.SetDefault("RATE_LIMIT_REQUESTS_PER_MINUTE", 100)
	viper.SetDefault("RATE_LIMIT_REQUESTS_PER_HOUR", 1000)
	viper.SetDefault("RATE_LIMIT_BURST_LIMIT", 0)
	viper.SetDefault("RATE_LIMIT_INTER_REQUEST_DELAY_MS", 200)

	// Sync planning
	viper.SetDefault("SYNC_PLAN_BACKFILL_DAYS", 365)
	viper.SetDefault("SYNC_PLAN_FULL_ATTRIBUTION_FREQUENCY_DAYS", 7)
	viper.SetDefault("SYNC_PLAN_SHALLOW_CHECK_DAYS", 3)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("using variables loaded by godotenv (viper could not read .env):", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// loadEnvFile loads a .env file via godotenv from the usual locations.
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("could not determine working directory:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info(".env loaded from:", location)
			return
		}
	}

	logrus.Debug("no .env file found, relying on process environment")
}
