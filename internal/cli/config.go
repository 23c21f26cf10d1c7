package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/lexicon/internal/logger"
	"github.com/mesh-intelligence/lexicon/internal/server"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix  = "LEXICON"
	dotEnvFile = ".env"
)

// Config keys.
const (
	cfgKeyBackend         = "backend"
	cfgKeyDataDir         = "data_dir"
	cfgKeyListenAddr      = "listen_addr"
	cfgKeyLogJSON         = "log.json"
	cfgKeyLogLevel        = "log.level"
	cfgKeyRateLimitRPS    = "rate_limit.rps"
	cfgKeyRateLimitBurst  = "rate_limit.burst"
	cfgKeyMetricsEnabled  = "metrics.enabled"
	cfgKeyShutdownTimeout = "shutdown_timeout"
)

// settings is the resolved configuration of a lexicon process.
type settings struct {
	Backend         string
	DataDir         string
	ListenAddr      string
	LogJSON         bool
	LogLevel        string
	RateLimitRPS    float64
	RateLimitBurst  int
	MetricsEnabled  bool
	ShutdownTimeout time.Duration
}

// envBoundKeys lists the keys that LEXICON_ variables override
// ("log.level" reads LEXICON_LOG_LEVEL). data_dir is absent: its variable
// is applied by paths.ResolveDataDir below the config file value.
var envBoundKeys = []string{
	cfgKeyBackend,
	cfgKeyListenAddr,
	cfgKeyLogJSON,
	cfgKeyLogLevel,
	cfgKeyRateLimitRPS,
	cfgKeyRateLimitBurst,
	cfgKeyMetricsEnabled,
	cfgKeyShutdownTimeout,
}

// envName returns the environment variable bound to a config key.
func envName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// newViper returns a viper instance with lexicon defaults and environment
// bindings.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendMemory)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyListenAddr, server.DefaultAddr)
	v.SetDefault(cfgKeyLogJSON, false)
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyRateLimitRPS, 0)
	v.SetDefault(cfgKeyRateLimitBurst, 0)
	v.SetDefault(cfgKeyMetricsEnabled, true)
	v.SetDefault(cfgKeyShutdownTimeout, server.DefaultShutdownTimeout)

	for _, key := range envBoundKeys {
		_ = v.BindEnv(key, envName(key))
	}
	return v
}

// loadDotEnv exports the variables in path unless they are already set.
// A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return errors.Wrapf(err, "load %s", path)
}

// loadConfig reads config.yaml from configDir. A missing file is not an
// error; defaults and environment overrides still apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, errors.Wrapf(err, "read %s", filepath.Join(configDir, configFileExt))
	}
	return v, nil
}

// settingsFrom validates v and copies it into a settings value.
func settingsFrom(v *viper.Viper) (settings, error) {
	s := settings{
		Backend:         v.GetString(cfgKeyBackend),
		DataDir:         v.GetString(cfgKeyDataDir),
		ListenAddr:      v.GetString(cfgKeyListenAddr),
		LogJSON:         v.GetBool(cfgKeyLogJSON),
		LogLevel:        v.GetString(cfgKeyLogLevel),
		RateLimitRPS:    v.GetFloat64(cfgKeyRateLimitRPS),
		RateLimitBurst:  v.GetInt(cfgKeyRateLimitBurst),
		MetricsEnabled:  v.GetBool(cfgKeyMetricsEnabled),
		ShutdownTimeout: v.GetDuration(cfgKeyShutdownTimeout),
	}

	if err := (types.Config{Backend: s.Backend}).Validate(); err != nil {
		return s, errors.WithHint(err, "set backend to memory or sqlite")
	}
	if _, err := logger.ParseLevel(s.LogLevel); err != nil {
		return s, errors.WithHint(err, "use one of debug, info, warn, error")
	}
	if s.RateLimitRPS < 0 {
		return s, errors.Newf("rate_limit.rps must not be negative, got %v", s.RateLimitRPS)
	}
	if s.RateLimitBurst < 0 {
		return s, errors.Newf("rate_limit.burst must not be negative, got %d", s.RateLimitBurst)
	}
	if s.ShutdownTimeout <= 0 {
		return s, errors.Newf("shutdown_timeout must be positive, got %s", s.ShutdownTimeout)
	}
	return s, nil
}

// loadSettings resolves the config directory, reads it and validates the result.
func loadSettings() (settings, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return settings{}, sysError(errors.Wrap(err, "resolve config dir"))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, userError(err)
	}
	s, err := settingsFrom(v)
	if err != nil {
		return settings{}, userError(errors.Wrap(err, "invalid configuration"))
	}
	return s, nil
}
