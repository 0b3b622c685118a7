package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/riskibarqy/hockey-analytics/internal/platform/logging"
	"github.com/riskibarqy/hockey-analytics/internal/platform/resilience"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level
	LogFormat          logging.Format

	DBURL                   string
	DBDisablePreparedBinary bool
	DBMaxOpenConns          int
	DBMaxIdleConns          int
	DBConnMaxLifetime       time.Duration
	DBSeedOnBoot            bool

	// AnalyticsToday pins "today" for every window; zero uses the wall clock.
	AnalyticsToday                      time.Time
	AnalyticsCurrentSeason              int
	AnalyticsFetchTimeout               time.Duration
	AnalyticsCareerMinIcetime           float64
	AnalyticsCardMinIcetime             float64
	AnalyticsCardSpecialTeamsMinIcetime float64
	AnalyticsRankWorkers                int

	EventStoreCircuit resilience.BreakerConfig

	CacheEnabled    bool
	CacheTTL        time.Duration
	CacheMaxEntries int

	MetricsEnabled             bool
	UptraceEnabled             bool
	UptraceDSN                 string
	PprofEnabled               bool
	PprofAddr                  string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// Load layers built-in defaults, the YAML file named by HOCKEY_CONFIG and
// the environment, in that order of precedence. YAML keys are the lower-cased
// variable names, e.g. analytics_fetch_timeout.
func Load() (Config, error) {
	k := koanf.New(".")
	if path := strings.TrimSpace(os.Getenv("HOCKEY_CONFIG")); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}
	return parse(source{k: k})
}

func parse(src source) (Config, error) {
	appEnv, err := parseAppEnv(src.str("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        src.str("APP_SERVICE_NAME", "hockey-analytics-api"),
		ServiceVersion:     src.str("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           src.str("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(src.str("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           logging.ParseLevel(src.str("LOG_LEVEL", "info")),
		LogFormat:          parseLogFormat(src.str("LOG_FORMAT", string(logging.FormatJSON))),
		DBURL:              src.str("DB_URL", ""),
		UptraceDSN:         src.str("UPTRACE_DSN", ""),
		PprofAddr:          src.str("PPROF_ADDR", ":6060"),

		PyroscopeServerAddress:     src.str("PYROSCOPE_SERVER_ADDRESS", ""),
		PyroscopeAuthToken:         src.str("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     src.str("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: src.str("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
	}
	cfg.PyroscopeAppName = src.str("PYROSCOPE_APP_NAME", cfg.ServiceName)
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(src.str("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}

	p := parser{src: src}
	cfg.ReadTimeout = p.positiveDuration("APP_READ_TIMEOUT", "10s")
	cfg.WriteTimeout = p.positiveDuration("APP_WRITE_TIMEOUT", "45s")

	cfg.DBDisablePreparedBinary = p.boolean("DB_DISABLE_PREPARED_BINARY_RESULT", true)
	cfg.DBMaxOpenConns = p.positiveInt("DB_MAX_OPEN_CONNS", 20)
	cfg.DBMaxIdleConns = p.positiveInt("DB_MAX_IDLE_CONNS", 5)
	cfg.DBConnMaxLifetime = p.positiveDuration("DB_CONN_MAX_LIFETIME", "30m")
	cfg.DBSeedOnBoot = p.boolean("DB_SEED_ON_BOOT", appEnv == EnvDev)

	cfg.AnalyticsToday = p.date("ANALYTICS_TODAY")
	cfg.AnalyticsCurrentSeason = p.nonNegativeInt("ANALYTICS_CURRENT_SEASON", 0)
	cfg.AnalyticsFetchTimeout = p.positiveDuration("ANALYTICS_FETCH_TIMEOUT", "30s")
	cfg.AnalyticsCareerMinIcetime = p.nonNegativeFloat("ANALYTICS_CAREER_MIN_ICETIME", 6000)
	cfg.AnalyticsCardMinIcetime = p.nonNegativeFloat("ANALYTICS_CARD_MIN_ICETIME", 6000)
	cfg.AnalyticsCardSpecialTeamsMinIcetime = p.nonNegativeFloat("ANALYTICS_CARD_SPECIAL_TEAMS_MIN_ICETIME", 600)
	cfg.AnalyticsRankWorkers = p.positiveInt("ANALYTICS_RANK_WORKERS", 8)

	cfg.EventStoreCircuit = resilience.BreakerConfig{
		Enabled:             p.boolean("EVENT_STORE_CIRCUIT_ENABLED", true),
		ConsecutiveFailures: p.positiveInt("EVENT_STORE_CIRCUIT_FAILURE_COUNT", 5),
		OpenTimeout:         p.positiveDuration("EVENT_STORE_CIRCUIT_OPEN_TIMEOUT", "15s"),
		HalfOpenProbes:      p.positiveInt("EVENT_STORE_CIRCUIT_HALF_OPEN_MAX_REQ", 2),
	}

	cfg.CacheEnabled = p.boolean("CACHE_ENABLED", true)
	cfg.CacheTTL = p.positiveDuration("CACHE_TTL", "60s")
	cfg.CacheMaxEntries = p.positiveInt("CACHE_MAX_ENTRIES", 512)

	cfg.MetricsEnabled = p.boolean("METRICS_ENABLED", true)
	cfg.UptraceEnabled = p.boolean("UPTRACE_ENABLED", false)
	cfg.PprofEnabled = p.boolean("PPROF_ENABLED", false)
	cfg.PyroscopeEnabled = p.boolean("PYROSCOPE_ENABLED", false)
	cfg.PyroscopeUploadRate = p.positiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")

	if p.err != nil {
		return Config{}, p.err
	}

	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.DBMaxIdleConns > cfg.DBMaxOpenConns {
		return Config{}, fmt.Errorf("DB_MAX_IDLE_CONNS must be <= DB_MAX_OPEN_CONNS")
	}

	return cfg, nil
}

// source reads flat keys from koanf. Keys are addressed by their
// environment variable name.
type source struct {
	k *koanf.Koanf
}

func (s source) str(key, fallback string) string {
	value := strings.TrimSpace(s.k.String(strings.ToLower(key)))
	if value == "" {
		return fallback
	}
	return value
}

// parser collects the first conversion error so Load reports one problem at
// a time, named by its variable.
type parser struct {
	src source
	err error
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *parser) boolean(key string, fallback bool) bool {
	out, err := strconv.ParseBool(p.src.str(key, strconv.FormatBool(fallback)))
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return fallback
	}
	return out
}

func (p *parser) positiveInt(key string, fallback int) int {
	out := p.nonNegativeInt(key, fallback)
	if out <= 0 {
		p.fail(fmt.Errorf("%s must be > 0", key))
	}
	return out
}

func (p *parser) nonNegativeInt(key string, fallback int) int {
	out, err := strconv.Atoi(p.src.str(key, strconv.Itoa(fallback)))
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return fallback
	}
	if out < 0 {
		p.fail(fmt.Errorf("%s must be >= 0", key))
	}
	return out
}

func (p *parser) nonNegativeFloat(key string, fallback float64) float64 {
	out, err := strconv.ParseFloat(p.src.str(key, strconv.FormatFloat(fallback, 'f', -1, 64)), 64)
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return fallback
	}
	if out < 0 {
		p.fail(fmt.Errorf("%s must be >= 0", key))
	}
	return out
}

func (p *parser) positiveDuration(key, fallback string) time.Duration {
	out, err := time.ParseDuration(p.src.str(key, fallback))
	if err != nil {
		p.fail(fmt.Errorf("parse %s: %w", key, err))
		return 0
	}
	if out <= 0 {
		p.fail(fmt.Errorf("%s must be > 0", key))
	}
	return out
}

func (p *parser) date(key string) time.Time {
	raw := p.src.str(key, "")
	if raw == "" {
		return time.Time{}
	}
	out, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		p.fail(fmt.Errorf("parse %s: expected YYYY-MM-DD: %w", key, err))
		return time.Time{}
	}
	return out
}

func parseLogFormat(v string) logging.Format {
	if strings.EqualFold(strings.TrimSpace(v), string(logging.FormatConsole)) {
		return logging.FormatConsole
	}
	return logging.FormatJSON
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

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
