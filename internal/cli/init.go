package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/lexicon/internal/server"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// configFile is the structure written to config.yaml.
type configFile struct {
	Backend         string        `yaml:"backend"`
	DataDir         string        `yaml:"data_dir,omitempty"`
	ListenAddr      string        `yaml:"listen_addr"`
	Log             logSection    `yaml:"log"`
	RateLimit       rateSection   `yaml:"rate_limit"`
	Metrics         metricSection `yaml:"metrics"`
	ShutdownTimeout string        `yaml:"shutdown_timeout"`
}

type logSection struct {
	JSON  bool   `yaml:"json"`
	Level string `yaml:"level"`
}

type rateSection struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type metricSection struct {
	Enabled bool `yaml:"enabled"`
}

// defaultConfigFile returns the configuration written by init.
func defaultConfigFile(dataDir string) configFile {
	return configFile{
		Backend:         types.BackendMemory,
		DataDir:         dataDir,
		ListenAddr:      server.DefaultAddr,
		Log:             logSection{Level: "info"},
		Metrics:         metricSection{Enabled: true},
		ShutdownTimeout: server.DefaultShutdownTimeout.String(),
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration directory and a default config.yaml",
		Long: "Create the configuration directory and write a default config.yaml.\n" +
			"An existing config.yaml is left untouched.",
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return sysError(errors.Wrap(err, "resolve config dir"))
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError(errors.Wrap(err, "create config directory"))
	}

	dataDir := ""
	if flags.dataDir != "" {
		if dataDir, err = resolveDataDir(""); err != nil {
			return sysError(errors.Wrap(err, "resolve data dir"))
		}
	}

	path := filepath.Join(configDir, configFileExt)
	written, err := writeConfigIfMissing(path, defaultConfigFile(dataDir))
	if err != nil {
		return sysError(errors.Wrap(err, "write config"))
	}

	if written {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s\n", path)
	}
	return nil
}

// writeConfigIfMissing creates path with cfg unless the file exists. It
// reports whether it wrote the file.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, errors.Wrap(err, "stat config file")
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, errors.Wrap(err, "write config file")
	}
	return true, nil
}
