package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yungbote/worldgraph/internal/domain/world"
	"github.com/yungbote/worldgraph/internal/ingestion/loader"
	"github.com/yungbote/worldgraph/internal/observability"
	"github.com/yungbote/worldgraph/internal/platform/logger"
	"github.com/yungbote/worldgraph/internal/platform/neo4jdb"
)

const EnvPrefix = "WORLDGRAPH"

type LogConfig struct {
	Mode       string `mapstructure:"mode"`
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type Neo4jConfig struct {
	URI         string        `mapstructure:"uri"`
	User        string        `mapstructure:"user"`
	Password    string        `mapstructure:"password"`
	Database    string        `mapstructure:"database"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxPoolSize int           `mapstructure:"max_pool_size"`
	BatchSize   int           `mapstructure:"batch_size"`
}

// DataConfig points at the world documents. Paths are relative to Dir.
type DataConfig struct {
	Dir          string `mapstructure:"dir"`
	Characters   string `mapstructure:"characters"`
	Tools        string `mapstructure:"tools"`
	Cities       string `mapstructure:"cities"`
	Countries    string `mapstructure:"countries"`
	CitizenTypes string `mapstructure:"citizen_types"`
}

type IngestConfig struct {
	Strict          bool `mapstructure:"strict"`
	DryRun          bool `mapstructure:"dry_run"`
	Reset           bool `mapstructure:"reset"`
	DeriveToolUsage bool `mapstructure:"derive_tool_usage"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

type OtelConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	Headers     string  `mapstructure:"headers"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type Config struct {
	Env     string        `mapstructure:"env"`
	Log     LogConfig     `mapstructure:"log"`
	Neo4j   Neo4jConfig   `mapstructure:"neo4j"`
	Data    DataConfig    `mapstructure:"data"`
	Ingest  IngestConfig  `mapstructure:"ingest"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Otel    OtelConfig    `mapstructure:"otel"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("log.mode", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("log.file", "")
	v.SetDefault("log.compress", false)

	v.SetDefault("neo4j.uri", "bolt://localhost:7687")
	v.SetDefault("neo4j.user", "neo4j")
	v.SetDefault("neo4j.timeout", 10*time.Second)
	v.SetDefault("neo4j.max_pool_size", 50)
	v.SetDefault("neo4j.batch_size", 500)

	v.SetDefault("data.dir", ".")
	v.SetDefault("data.characters", "SiwooFamily.json")
	v.SetDefault("data.tools", "Tools.json")

	v.SetDefault("data.cities", "")
	v.SetDefault("data.countries", "")
	v.SetDefault("data.citizen_types", "")

	// Keys without a default are invisible to Unmarshal even when the
	// matching WORLDGRAPH_ variable is set, so every key gets one.
	v.SetDefault("ingest.strict", false)
	v.SetDefault("ingest.dry_run", false)
	v.SetDefault("ingest.reset", false)
	v.SetDefault("ingest.derive_tool_usage", true)

	v.SetDefault("metrics.textfile", "")

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.insecure", false)
	v.SetDefault("otel.sample_ratio", 1.0)
}

// envAliases lets the conventional unprefixed variables work alongside the
// WORLDGRAPH_ ones.
var envAliases = map[string][]string{
	"neo4j.uri":      {"NEO4J_URI", "NEO4J_URL"},
	"neo4j.user":     {"NEO4J_USER"},
	"neo4j.password": {"NEO4J_PASSWORD"},
	"neo4j.database": {"NEO4J_DATABASE"},
	"log.mode":       {"LOG_MODE"},
	"otel.enabled":   {"OTEL_ENABLED"},
	"otel.endpoint":  {"OTEL_EXPORTER_OTLP_ENDPOINT"},
	"otel.headers":   {"OTEL_EXPORTER_OTLP_HEADERS"},
}

type LoadOptions struct {
	// ConfigFile is an explicit config path; otherwise ./worldgraph.yaml is
	// used when present.
	ConfigFile string
	// EnvFile must exist when set; otherwise ./.env is read when present.
	EnvFile string
}

// Load resolves configuration from defaults, the config file, .env and the
// process environment, in increasing precedence. Flags bound to v before the
// call take precedence over all of them.
func Load(v *viper.Viper, opts LoadOptions) (*Config, error) {
	if err := loadDotEnv(opts.EnvFile); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, aliases := range envAliases {
		names := append([]string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("config: bind env %s: %w", key, err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("worldgraph")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, &ConfigError{Code: ConfigErrorRead, Value: opts.ConfigFile, Cause: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return &ConfigError{Code: ConfigErrorRead, Value: path, Cause: err}
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &ConfigError{Code: ConfigErrorRead, Value: ".env", Cause: err}
	}
	return nil
}

func (c *Config) Validate() error {
	if !c.Ingest.DryRun {
		uri := strings.TrimSpace(c.Neo4j.URI)
		if uri == "" {
			return &ConfigError{Code: ConfigErrorMissingNeo4jURI}
		}
		parsed, err := url.Parse(uri)
		if err != nil || !validScheme(parsed.Scheme) || parsed.Host == "" {
			return &ConfigError{Code: ConfigErrorInvalidNeo4jURI, Value: uri, Cause: err}
		}
	}
	if c.Neo4j.BatchSize < 0 {
		return &ConfigError{Code: ConfigErrorInvalidBatchSize, Value: strconv.Itoa(c.Neo4j.BatchSize)}
	}
	if c.Otel.SampleRatio < 0 || c.Otel.SampleRatio > 1 {
		return &ConfigError{Code: ConfigErrorInvalidSampler, Value: strconv.FormatFloat(c.Otel.SampleRatio, 'f', -1, 64)}
	}
	if len(c.Data.Files()) == 0 {
		return &ConfigError{Code: ConfigErrorNoDocuments}
	}
	return nil
}

func validScheme(s string) bool {
	switch strings.ToLower(s) {
	case "bolt", "bolt+s", "bolt+ssc", "neo4j", "neo4j+s", "neo4j+ssc":
		return true
	default:
		return false
	}
}

// Files maps each configured category to its document path.
func (d DataConfig) Files() map[world.Category]string {
	out := map[world.Category]string{}
	for cat, p := range map[world.Category]string{
		world.CategoryCharacters:   d.Characters,
		world.CategoryTools:        d.Tools,
		world.CategoryCities:       d.Cities,
		world.CategoryCountries:    d.Countries,
		world.CategoryCitizenTypes: d.CitizenTypes,
	} {
		if p = strings.TrimSpace(p); p != "" {
			out[cat] = p
		}
	}
	return out
}

func (d DataConfig) Source() loader.Source {
	return loader.Source{Dir: d.Dir, Files: d.Files()}
}

func (n Neo4jConfig) Client() neo4jdb.Config {
	return neo4jdb.Config{
		URI:         n.URI,
		User:        n.User,
		Password:    n.Password,
		Database:    n.Database,
		Timeout:     n.Timeout,
		MaxPoolSize: n.MaxPoolSize,
	}
}

func (l LogConfig) Options() logger.Options {
	return logger.Options{
		Mode:       l.Mode,
		Level:      l.Level,
		File:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}

func (c *Config) Tracing(version string) observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.Otel.Enabled,
		ServiceName: "worldgraph",
		Environment: c.Env,
		Version:     version,
		Endpoint:    c.Otel.Endpoint,
		Insecure:    c.Otel.Insecure,
		Headers:     ParseHeaders(c.Otel.Headers),
		SampleRatio: c.Otel.SampleRatio,
	}
}

// ParseHeaders reads the OTLP "k1=v1,k2=v2" header list.
func ParseHeaders(raw string) map[string]string {
	headers := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		key, val := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
		if key == "" || val == "" {
			continue
		}
		headers[key] = val
	}
	if len(headers) == 0 {
		return nil
	}
	return headers
}
