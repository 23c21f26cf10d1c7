package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/lexicon/internal/paths"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

type result struct {
	stdout string
	stderr string
	code   int
}

func execute(t *testing.T, ctx context.Context, args ...string) result {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	code := run(ctx, root, args, &errOut)
	return result{stdout: out.String(), stderr: errOut.String(), code: code}
}

// isolate points the config and data directories at fresh temp dirs.
func isolate(t *testing.T) (configDir, dataDir string) {
	t.Helper()
	configDir = filepath.Join(t.TempDir(), "config")
	dataDir = filepath.Join(t.TempDir(), "data")
	t.Setenv(paths.EnvConfigDir, configDir)
	t.Setenv(paths.EnvDataDir, dataDir)
	return configDir, dataDir
}

func TestVersion(t *testing.T) {
	res := execute(t, context.Background(), "version")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "lexicon v"+Version)
	assert.Contains(t, res.stdout, modulePath)
}

func TestAnalyze(t *testing.T) {
	res := execute(t, context.Background(), "analyze", "  Level ")
	require.Equal(t, exitSuccess, res.code, res.stderr)

	var props types.Properties
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &props))
	assert.Equal(t, 5, props.Length)
	assert.True(t, props.IsPalindrome)
	assert.Equal(t, map[string]int{"l": 2, "e": 2, "v": 1}, props.CharacterFrequency)
}

func TestAnalyzeYAML(t *testing.T) {
	res := execute(t, context.Background(), "analyze", "--yaml", "Hello World")
	require.Equal(t, exitSuccess, res.code, res.stderr)

	var props types.Properties
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &props))
	assert.Equal(t, 11, props.Length)
	assert.Equal(t, 2, props.WordCount)
	assert.False(t, props.IsPalindrome)
}

func TestAnalyzeArgs(t *testing.T) {
	res := execute(t, context.Background(), "analyze")
	assert.Equal(t, exitUserError, res.code)
}

func TestInterpret(t *testing.T) {
	res := execute(t, context.Background(), "interpret", "single", "word", "palindromic", "strings")
	require.Equal(t, exitSuccess, res.code, res.stderr)

	var got interpretation
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, "single word palindromic strings", got.Original)
	assert.Equal(t, types.Filters{IsPalindrome: types.Bool(true), WordCount: types.Int(1)}, got.ParsedFilters)
}

func TestInterpretUnrecognized(t *testing.T) {
	res := execute(t, context.Background(), "interpret", "hello", "there")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "unrecognized query")
	assert.Contains(t, res.stderr, "Hint:")
}

func TestInit(t *testing.T) {
	configDir, _ := isolate(t)

	res := execute(t, context.Background(), "init")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	path := filepath.Join(configDir, configFileExt)
	assert.Contains(t, res.stdout, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg configFile
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, defaultConfigFile(""), cfg)

	// A second run leaves the file alone.
	require.NoError(t, os.WriteFile(path, []byte("backend: sqlite\n"), 0o644))
	res = execute(t, context.Background(), "init")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "already exists")

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "backend: sqlite\n", string(data))
}

func TestInitRecordsDataDir(t *testing.T) {
	configDir, _ := isolate(t)
	dataDir := filepath.Join(t.TempDir(), "explicit")

	res := execute(t, context.Background(), "--data-dir", dataDir, "init")
	require.Equal(t, exitSuccess, res.code, res.stderr)

	v, err := loadConfig(configDir)
	require.NoError(t, err)
	assert.Equal(t, dataDir, v.GetString(cfgKeyDataDir))
}

func TestLoadConfigDefaults(t *testing.T) {
	configDir, _ := isolate(t)

	v, err := loadConfig(configDir)
	require.NoError(t, err)
	s, err := settingsFrom(v)
	require.NoError(t, err)

	assert.Equal(t, settings{
		Backend:         types.BackendMemory,
		ListenAddr:      ":8080",
		LogLevel:        "info",
		MetricsEnabled:  true,
		ShutdownTimeout: 10 * time.Second,
	}, s)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	configDir, _ := isolate(t)
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, configFileExt), []byte(strings.Join([]string{
		"backend: sqlite",
		"listen_addr: 127.0.0.1:9000",
		"log:",
		"  level: debug",
		"rate_limit:",
		"  rps: 5",
		"  burst: 10",
		"metrics:",
		"  enabled: false",
		"shutdown_timeout: 2s",
	}, "\n")), 0o644))
	t.Setenv("LEXICON_LISTEN_ADDR", ":7000")
	t.Setenv("LEXICON_RATE_LIMIT_RPS", "2.5")

	v, err := loadConfig(configDir)
	require.NoError(t, err)
	s, err := settingsFrom(v)
	require.NoError(t, err)

	assert.Equal(t, types.BackendSQLite, s.Backend)
	assert.Equal(t, ":7000", s.ListenAddr)
	assert.Equal(t, "debug", s.LogLevel)
	assert.InDelta(t, 2.5, s.RateLimitRPS, 1e-9)
	assert.Equal(t, 10, s.RateLimitBurst)
	assert.False(t, s.MetricsEnabled)
	assert.Equal(t, 2*time.Second, s.ShutdownTimeout)
}

func TestSettingsValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
		want string
	}{
		{"unknown backend", cfgKeyBackend, "mongo", "unknown backend"},
		{"bad log level", cfgKeyLogLevel, "loud", "unknown log level"},
		{"negative rps", cfgKeyRateLimitRPS, -1, "rate_limit.rps"},
		{"negative burst", cfgKeyRateLimitBurst, -1, "rate_limit.burst"},
		{"zero timeout", cfgKeyShutdownTimeout, "0s", "shutdown_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.val)
			_, err := settingsFrom(v)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "LEXICON_DOTENV_PROBE"
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o644))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv(key))

	require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func cancelled() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestServeSeedAndDump(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.jsonl")
	dumpPath := filepath.Join(dir, "dump.jsonl")
	require.NoError(t, os.WriteFile(seedPath, []byte("{\"value\": \"level\"}\n{\"value\": \"Hello World\"}\n"), 0o644))

	res := execute(t, cancelled(), "serve", "--listen", "127.0.0.1:0", "--seed", seedPath, "--dump", dumpPath)
	require.Equal(t, exitSuccess, res.code, res.stderr)

	data, err := os.ReadFile(dumpPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first types.StringRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "level", first.Value)
}

func TestServeSQLiteBackend(t *testing.T) {
	_, dataDir := isolate(t)
	t.Setenv("LEXICON_BACKEND", types.BackendSQLite)

	res := execute(t, cancelled(), "serve", "--listen", "127.0.0.1:0")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.DirExists(t, dataDir)
}

func TestServeInvalidConfig(t *testing.T) {
	isolate(t)
	t.Setenv("LEXICON_BACKEND", "mongo")

	res := execute(t, cancelled(), "serve")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "unknown backend")
}

func TestServeMissingSeed(t *testing.T) {
	isolate(t)
	res := execute(t, cancelled(), "serve", "--listen", "127.0.0.1:0", "--seed", filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "load seed file")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitSysError, exitCode(sysError(assert.AnError)))
	assert.Equal(t, exitUserError, exitCode(userError(assert.AnError)))
	assert.Equal(t, exitUserError, exitCode(assert.AnError))
}

func TestDataDirPrecedence(t *testing.T) {
	flags = rootFlags{}
	configDir, envDataDir := isolate(t)
	fileDataDir := filepath.Join(t.TempDir(), "from-file")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, configFileExt),
		[]byte("data_dir: "+fileDataDir+"\n"), 0o644))

	v, err := loadConfig(configDir)
	require.NoError(t, err)
	s, err := settingsFrom(v)
	require.NoError(t, err)
	assert.Equal(t, fileDataDir, s.DataDir)

	got, err := resolveDataDir(s.DataDir)
	require.NoError(t, err)
	assert.Equal(t, fileDataDir, got)

	got, err = resolveDataDir("")
	require.NoError(t, err)
	assert.Equal(t, envDataDir, got)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "LEXICON_LOG_LEVEL", envName(cfgKeyLogLevel))
	assert.Equal(t, "LEXICON_RATE_LIMIT_RPS", envName(cfgKeyRateLimitRPS))
}
