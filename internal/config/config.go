package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/matchfeed/matchfeed/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Key policies for the reconciliation engine.
const (
	KeyPolicyComposite = "composite"
	KeyPolicyDigest    = "digest"
)

// Config stores runtime configuration for the aggregator.
type Config struct {
	AppEnv         string `validate:"required,oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string `validate:"required"`
	LogLevel       logging.Level

	// OutputPath is where the catalog snapshot is published.
	OutputPath string `validate:"required"`
	// KeyPolicy selects how match identity keys are rendered.
	KeyPolicy string `validate:"required,oneof=composite digest"`

	MiguEnabled         bool
	MiguPortalBaseURL   string        `validate:"required,url"`
	MiguDataBaseURL     string        `validate:"required,url"`
	MiguTimeout         time.Duration `validate:"gt=0"`
	MiguMaxRetries      int           `validate:"gte=0"`
	MiguNodeWorkers     int           `validate:"gte=1"`
	MiguGamesPageURLs   []string      `validate:"dive,url"`
	CircuitFailureCount int           `validate:"gte=1"`
	CircuitOpenTimeout  time.Duration `validate:"gt=0"`

	PlaylistEnabled    bool
	PlaylistURLs       []string `validate:"dive,url"`
	PlaylistTimeout    time.Duration `validate:"gt=0"`
	PlaylistMaxRetries int           `validate:"gte=0"`

	DouyinEnabled    bool
	DouyinBaseURL    string        `validate:"required,url"`
	DouyinEpisodeID  string        `validate:"required_if=DouyinEnabled true"`
	DouyinRoomID     string        `validate:"required_if=DouyinEnabled true"`
	DouyinTimeout    time.Duration `validate:"gt=0"`
	DouyinMaxRetries int           `validate:"gte=0"`
	DouyinMaxPages   int           `validate:"gte=1"`

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration `validate:"gt=0"`
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	keyPolicy := strings.ToLower(strings.TrimSpace(getEnv("MATCH_KEY_POLICY", KeyPolicyDigest)))
	if keyPolicy != KeyPolicyComposite && keyPolicy != KeyPolicyDigest {
		return Config{}, fmt.Errorf("invalid MATCH_KEY_POLICY %q: valid values are %s, %s", keyPolicy, KeyPolicyComposite, KeyPolicyDigest)
	}

	miguEnabled, err := strconv.ParseBool(getEnv("MIGU_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MIGU_ENABLED: %w", err)
	}
	miguTimeout, err := time.ParseDuration(getEnv("MIGU_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MIGU_TIMEOUT: %w", err)
	}
	miguMaxRetries, err := getEnvAsInt("MIGU_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse MIGU_MAX_RETRIES: %w", err)
	}
	miguNodeWorkers, err := getEnvAsInt("MIGU_NODE_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse MIGU_NODE_WORKERS: %w", err)
	}

	circuitFailureCount, err := getEnvAsInt("UPSTREAM_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPSTREAM_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv("UPSTREAM_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPSTREAM_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}

	playlistEnabled, err := strconv.ParseBool(getEnv("PLAYLIST_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYLIST_ENABLED: %w", err)
	}
	playlistURLs := splitCSV(getEnv("PLAYLIST_URLS", ""))
	if playlistEnabled && len(playlistURLs) == 0 {
		return Config{}, fmt.Errorf("PLAYLIST_URLS is required when PLAYLIST_ENABLED=true")
	}
	playlistTimeout, err := time.ParseDuration(getEnv("PLAYLIST_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYLIST_TIMEOUT: %w", err)
	}
	playlistMaxRetries, err := getEnvAsInt("PLAYLIST_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYLIST_MAX_RETRIES: %w", err)
	}

	douyinEnabled, err := strconv.ParseBool(getEnv("DOUYIN_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DOUYIN_ENABLED: %w", err)
	}
	douyinTimeout, err := time.ParseDuration(getEnv("DOUYIN_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DOUYIN_TIMEOUT: %w", err)
	}
	douyinMaxRetries, err := getEnvAsInt("DOUYIN_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse DOUYIN_MAX_RETRIES: %w", err)
	}
	douyinMaxPages, err := getEnvAsInt("DOUYIN_MAX_PAGES", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse DOUYIN_MAX_PAGES: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "matchfeed-aggregator"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		OutputPath: getEnv("OUTPUT_PATH", "data/matches.json"),
		KeyPolicy:  keyPolicy,

		MiguEnabled:         miguEnabled,
		MiguPortalBaseURL:   getEnv("MIGU_PORTAL_BASE_URL", "https://vms-sc.miguvideo.com"),
		MiguDataBaseURL:     getEnv("MIGU_DATA_BASE_URL", "https://vms-sc.miguvideo.com"),
		MiguTimeout:         miguTimeout,
		MiguMaxRetries:      miguMaxRetries,
		MiguNodeWorkers:     miguNodeWorkers,
		MiguGamesPageURLs:   splitCSV(getEnv("MIGU_GAMES_PAGE_URLS", "")),
		CircuitFailureCount: circuitFailureCount,
		CircuitOpenTimeout:  circuitOpenTimeout,

		PlaylistEnabled:    playlistEnabled,
		PlaylistURLs:       playlistURLs,
		PlaylistTimeout:    playlistTimeout,
		PlaylistMaxRetries: playlistMaxRetries,

		DouyinEnabled:    douyinEnabled,
		DouyinBaseURL:    getEnv("DOUYIN_BASE_URL", "https://www.douyin.com"),
		DouyinEpisodeID:  getEnv("DOUYIN_EPISODE_ID", ""),
		DouyinRoomID:     getEnv("DOUYIN_ROOM_ID", ""),
		DouyinTimeout:    douyinTimeout,
		DouyinMaxRetries: douyinMaxRetries,
		DouyinMaxPages:   douyinMaxPages,

		UptraceEnabled:     uptraceEnabled,
		UptraceDSN:         uptraceDSN,
		UptraceLogsEnabled: uptraceLogsEnabled,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if douyinEnabled {
		if cfg.DouyinEpisodeID == "" {
			return Config{}, fmt.Errorf("DOUYIN_EPISODE_ID is required when DOUYIN_ENABLED=true")
		}
		if cfg.DouyinRoomID == "" {
			return Config{}, fmt.Errorf("DOUYIN_ROOM_ID is required when DOUYIN_ENABLED=true")
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
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
