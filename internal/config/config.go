package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/hotstreak-pipeline/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	defaultHotStreakAPIURL  = "https://api3.hotstreak.gg/graphql"
	defaultHotStreakOrigin  = "https://hs3.hotstreak.gg"
	defaultHotStreakReferer = "https://hs3.hotstreak.gg/"
	defaultUserAgent        = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// Config stores runtime configuration for the pipeline.
type Config struct {
	AppEnv         string `validate:"oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string
	LogLevel       logging.Level
	LogFormat      string `validate:"oneof=console json"`

	DataDir           string `validate:"required"`
	MatchesRawDir     string `validate:"required"`
	CategoriesRawDir  string `validate:"required"`
	ProcessedDir      string `validate:"required"`
	PipelineStrict    bool
	HotStreak         HotStreakConfig
	ArchiveEnabled    bool
	DBURL             string `validate:"required_if=ArchiveEnabled true"`
	DBDisablePrepared bool
	UptraceEnabled    bool
	UptraceDSN        string `validate:"required_if=UptraceEnabled true"`
}

// HotStreakConfig carries the request identity sent to the HotStreak API.
// The id token is rotated out of band, so it is only ever read from the environment.
type HotStreakConfig struct {
	APIURL        string        `validate:"required,url"`
	Origin        string        `validate:"required,url"`
	Referer       string        `validate:"required,url"`
	UserAgent     string        `validate:"required"`
	Version       string        `validate:"required"`
	RequestedWith string        `validate:"required"`
	IDToken       string
	Timeout       time.Duration `validate:"gt=0"`
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dataDir := filepath.Clean(getEnv("DATA_DIR", "data"))

	timeout, err := time.ParseDuration(getEnv("HOTSTREAK_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HOTSTREAK_TIMEOUT: %w", err)
	}

	pipelineStrict, err := strconv.ParseBool(getEnv("PIPELINE_STRICT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_STRICT: %w", err)
	}

	archiveEnabled, err := strconv.ParseBool(getEnv("ARCHIVE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ARCHIVE_ENABLED: %w", err)
	}

	dbDisablePrepared, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	cfg := Config{
		AppEnv:           appEnv,
		ServiceName:      getEnv("APP_SERVICE_NAME", "hotstreak-pipeline"),
		ServiceVersion:   getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:         logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:        strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", logging.FormatConsole))),
		DataDir:          dataDir,
		MatchesRawDir:    filepath.Join(dataDir, "raw", "matches"),
		CategoriesRawDir: filepath.Join(dataDir, "raw", "categories"),
		ProcessedDir:     filepath.Join(dataDir, "processed"),
		PipelineStrict:   pipelineStrict,
		HotStreak: HotStreakConfig{
			APIURL:        strings.TrimSpace(getEnv("HOTSTREAK_API_URL", defaultHotStreakAPIURL)),
			Origin:        strings.TrimSpace(getEnv("HOTSTREAK_ORIGIN", defaultHotStreakOrigin)),
			Referer:       strings.TrimSpace(getEnv("HOTSTREAK_REFERER", defaultHotStreakReferer)),
			UserAgent:     getEnv("HOTSTREAK_USER_AGENT", defaultUserAgent),
			Version:       getEnv("HOTSTREAK_VERSION", "2"),
			RequestedWith: getEnv("HOTSTREAK_REQUESTED_WITH", "web"),
			IDToken:       strings.TrimSpace(getEnv("HOTSTREAK_ID_TOKEN", "")),
			Timeout:       timeout,
		},
		ArchiveEnabled:    archiveEnabled,
		DBURL:             strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePrepared: dbDisablePrepared,
		UptraceEnabled:    uptraceEnabled,
		UptraceDSN:        strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
