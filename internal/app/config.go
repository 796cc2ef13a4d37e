package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"efd_mod_counter/internal/config"
)

const (
	defaultWorkshopURL  = "https://steamcommunity.com/app/3167020/workshop/"
	defaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0 Safari/537.36"
	defaultMirrorPrefix = "https://r.jina.ai/http://"
	defaultTimeoutSec   = 30
	defaultOutputDir    = "excel"
	defaultGameName     = "逃离鸭科夫"
	defaultMetricLabel  = "数量统计"
	defaultSheetName    = "ModCounts"
	defaultPhoneList    = "resource/phonelist.txt"
)

// Config carries everything one run needs. Defaults target the Escape From
// Duckov workshop; any field can be overridden from the environment.
type Config struct {
	WorkshopURL  string
	UserAgent    string
	Timeout      time.Duration
	UseMirror    bool
	MirrorPrefix string
	CurlPath     string

	OutputDir   string
	GameName    string
	MetricLabel string
	SheetName   string

	DesktopNotify bool

	NtfyEnabled  bool
	NtfyURL      string
	NtfyTopic    string
	NtfyPriority string

	SheetsMirrorEnabled bool
	SpreadsheetID       string
	SpreadsheetRange    string
	CredentialsFile     string

	SMSAccessKeyID     string
	SMSAccessKeySecret string
	SMSSignName        string
	SMSTemplateCode    string
	PhoneListPath      string

	Resilience config.ResilienceConfig
}

// LoadConfig reads the environment into a Config. Malformed numeric or
// boolean values fall back to their defaults with a warning instead of
// failing the run.
func LoadConfig() Config {
	return Config{
		WorkshopURL:  GetEnvWithDefault("WORKSHOP_URL", defaultWorkshopURL),
		UserAgent:    GetEnvWithDefault("USER_AGENT", defaultUserAgent),
		Timeout:      secondsEnv("TIMEOUT_SEC", defaultTimeoutSec),
		UseMirror:    boolEnv("USE_MIRROR", true),
		MirrorPrefix: GetEnvWithDefault("MIRROR_PREFIX", defaultMirrorPrefix),
		CurlPath:     GetEnvWithDefault("CURL_PATH", "curl"),

		OutputDir:   GetEnvWithDefault("OUTPUT_DIR", defaultOutputDir),
		GameName:    GetEnvWithDefault("GAME_NAME", defaultGameName),
		MetricLabel: GetEnvWithDefault("METRIC_LABEL", defaultMetricLabel),
		SheetName:   GetEnvWithDefault("SHEET_NAME", defaultSheetName),

		DesktopNotify: boolEnv("DESKTOP_NOTIFY", true),

		NtfyEnabled:  boolEnv("NTFY_ENABLED", false),
		NtfyURL:      GetEnvWithDefault("NTFY_URL", "https://ntfy.sh"),
		NtfyTopic:    GetEnvWithDefault("NTFY_TOPIC", "efd-mod-counts"),
		NtfyPriority: GetEnvWithDefault("NTFY_PRIORITY", "default"),

		SheetsMirrorEnabled: boolEnv("SHEETS_MIRROR_ENABLED", false),
		SpreadsheetID:       os.Getenv("SPREADSHEET_ID"),
		SpreadsheetRange:    GetEnvWithDefault("SPREADSHEET_RANGE", "ModCounts!A1"),
		CredentialsFile:     GetEnvWithDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json"),

		SMSAccessKeyID:     os.Getenv("ALIBABA_CLOUD_ACCESS_KEY_ID"),
		SMSAccessKeySecret: os.Getenv("ALIBABA_CLOUD_ACCESS_KEY_SECRET"),
		SMSSignName:        os.Getenv("SMS_SIGN_NAME"),
		SMSTemplateCode:    os.Getenv("SMS_TEMPLATE_CODE"),
		PhoneListPath:      GetEnvWithDefault("PHONELIST_PATH", defaultPhoneList),

		Resilience: config.DefaultResilienceConfig,
	}
}

// SMSConfigured reports whether the SMS channel has usable credentials.
func (c Config) SMSConfigured() bool {
	return c.SMSAccessKeyID != "" && c.SMSAccessKeySecret != ""
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		// Default based on environment
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func boolEnv(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("Unparseable boolean, using default")
		return fallback
	}
	return value
}

func secondsEnv(key string, fallbackSeconds int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallbackSeconds) * time.Second
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("Unparseable timeout, using default")
		return time.Duration(fallbackSeconds) * time.Second
	}
	return time.Duration(seconds) * time.Second
}
