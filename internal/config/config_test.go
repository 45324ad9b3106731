package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/worldgraph/internal/domain/world"
)

// clearEnv blanks every variable Load consults; viper ignores empty values.
func clearEnv(t *testing.T) {
	t.Helper()
	for key, aliases := range envAliases {
		t.Setenv(EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), "")
		for _, a := range aliases {
			t.Setenv(a, "")
		}
	}
}

func load(t *testing.T, opts LoadOptions) (*Config, error) {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return Load(v, opts)
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	clearEnv(t)

	cfg, err := load(t, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, "neo4j", cfg.Neo4j.User)
	assert.Equal(t, 10*time.Second, cfg.Neo4j.Timeout)
	assert.Equal(t, 500, cfg.Neo4j.BatchSize)
	assert.True(t, cfg.Ingest.DeriveToolUsage)
	assert.False(t, cfg.Ingest.Strict)
	assert.Equal(t, map[world.Category]string{
		world.CategoryCharacters: "SiwooFamily.json",
		world.CategoryTools:      "Tools.json",
	}, cfg.Data.Files())
}

func TestLoadFileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yml := `
neo4j:
  uri: neo4j://graph.internal:7687
  database: lore
  timeout: 3s
data:
  dir: ./world
  cities: Cities.yaml
ingest:
  strict: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "worldgraph.yaml"), []byte(yml), 0o644))
	clearEnv(t)
	t.Setenv("WORLDGRAPH_NEO4J_DATABASE", "lore_staging")
	t.Setenv("NEO4J_PASSWORD", "hunter2")
	t.Setenv("WORLDGRAPH_INGEST_DRY_RUN", "true")

	cfg, err := load(t, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "neo4j://graph.internal:7687", cfg.Neo4j.URI)
	assert.Equal(t, "lore_staging", cfg.Neo4j.Database)
	assert.Equal(t, "hunter2", cfg.Neo4j.Password)
	assert.Equal(t, 3*time.Second, cfg.Neo4j.Timeout)
	assert.True(t, cfg.Ingest.Strict)
	assert.True(t, cfg.Ingest.DryRun)
	assert.Equal(t, "./world", cfg.Data.Source().Dir)
	assert.Equal(t, "Cities.yaml", cfg.Data.Files()[world.CategoryCities])
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lore.env"), []byte("NEO4J_URI=bolt://dotenv:7687\n"), 0o644))
	clearEnv(t)
	// godotenv never overrides variables that are already set, even to "".
	os.Unsetenv("NEO4J_URI")

	cfg, err := load(t, LoadOptions{EnvFile: filepath.Join(dir, "lore.env")})
	require.NoError(t, err)
	assert.Equal(t, "bolt://dotenv:7687", cfg.Neo4j.URI)
}

func TestLoadMissingExplicitFiles(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := load(t, LoadOptions{ConfigFile: "nope.yaml"})
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ConfigErrorRead, cfgErr.Code)

	_, err = load(t, LoadOptions{EnvFile: "nope.env"})
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ConfigErrorRead, cfgErr.Code)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Neo4j: Neo4jConfig{URI: "bolt://localhost:7687"},
			Data:  DataConfig{Tools: "Tools.json"},
		}
	}
	cases := []struct {
		name   string
		mutate func(*Config)
		code   ConfigErrorCode
	}{
		{name: "missing uri", mutate: func(c *Config) { c.Neo4j.URI = " " }, code: ConfigErrorMissingNeo4jURI},
		{name: "http uri", mutate: func(c *Config) { c.Neo4j.URI = "http://localhost:7474" }, code: ConfigErrorInvalidNeo4jURI},
		{name: "no host", mutate: func(c *Config) { c.Neo4j.URI = "bolt://" }, code: ConfigErrorInvalidNeo4jURI},
		{name: "no documents", mutate: func(c *Config) { c.Data = DataConfig{Dir: "world"} }, code: ConfigErrorNoDocuments},
		{name: "negative batch", mutate: func(c *Config) { c.Neo4j.BatchSize = -1 }, code: ConfigErrorInvalidBatchSize},
		{name: "sampler", mutate: func(c *Config) { c.Otel.SampleRatio = 1.5 }, code: ConfigErrorInvalidSampler},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tc.code, cfgErr.Code)
			assert.NotEmpty(t, cfgErr.Error())
		})
	}

	require.NoError(t, valid().Validate())

	off := valid()
	off.Otel.SampleRatio = 0
	assert.NoError(t, off.Validate())

	dry := valid()
	dry.Neo4j.URI = ""
	dry.Ingest.DryRun = true
	assert.NoError(t, dry.Validate())
}

func TestParseHeaders(t *testing.T) {
	assert.Equal(t, map[string]string{"api-key": "abc", "x-team": "lore"}, ParseHeaders(" api-key=abc, x-team = lore ,broken,=v"))
	assert.Nil(t, ParseHeaders(""))
}

func TestTracingConfig(t *testing.T) {
	cfg := &Config{Env: "production", Otel: OtelConfig{Enabled: true, Headers: "a=b", SampleRatio: 0.5}}
	got := cfg.Tracing("v1.2.3")
	assert.True(t, got.Enabled)
	assert.Equal(t, "worldgraph", got.ServiceName)
	assert.Equal(t, "v1.2.3", got.Version)
	assert.Equal(t, map[string]string{"a": "b"}, got.Headers)
}
