package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lexicon/internal/logger"
	"github.com/mesh-intelligence/lexicon/internal/metrics"
	"github.com/mesh-intelligence/lexicon/internal/seed"
	"github.com/mesh-intelligence/lexicon/internal/server"
	"github.com/mesh-intelligence/lexicon/pkg/store"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// serveOptions holds serve's command-specific flags.
type serveOptions struct {
	listen string
	seed   string
	dump   string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve runs the strings API until interrupted (SIGINT or SIGTERM).

Example:
  lexicon serve
  lexicon serve --listen 127.0.0.1:9000 --seed words.jsonl --dump words.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.listen, "listen", "", "listen address (overrides listen_addr)")
	cmd.Flags().StringVar(&opts.seed, "seed", "", "JSON Lines file of {\"value\": ...} objects to load at startup")
	cmd.Flags().StringVar(&opts.dump, "dump", "", "write every stored record to this JSON Lines file on shutdown")
	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	if err := logger.Initialize(flags.jsonMode || cfg.LogJSON, cfg.LogLevel); err != nil {
		return userError(err)
	}

	storeCfg := types.Config{Backend: cfg.Backend}
	if cfg.Backend == types.BackendSQLite {
		if storeCfg.DataDir, err = resolveDataDir(cfg.DataDir); err != nil {
			return sysError(errors.Wrap(err, "resolve data dir"))
		}
	}

	s, err := store.Open(storeCfg, nil)
	if err != nil {
		return sysError(err)
	}
	defer func() {
		if err := s.Detach(); err != nil {
			logger.Logger.Warnw("detach store", "error", err)
		}
	}()
	logger.Logger.Infow("store attached", "backend", storeCfg.Backend, "data_dir", storeCfg.DataDir)

	if opts.seed != "" {
		res, err := seed.Load(opts.seed, s)
		if err != nil {
			return userError(errors.Wrap(err, "load seed file"))
		}
		logger.Logger.Infow("seed loaded",
			"path", opts.seed,
			"inserted", res.Inserted,
			"duplicates", res.Duplicates,
			"skipped", res.Skipped)
	}

	srvCfg := server.Config{
		Addr:            cfg.ListenAddr,
		ShutdownTimeout: cfg.ShutdownTimeout,
		RateLimit:       cfg.RateLimitRPS,
		RateBurst:       cfg.RateLimitBurst,
	}
	if opts.listen != "" {
		srvCfg.Addr = opts.listen
	}
	if cfg.MetricsEnabled {
		srvCfg.Metrics = metrics.New()
	}

	if err := server.New(s, srvCfg).Run(ctx); err != nil {
		return sysError(err)
	}

	if opts.dump != "" {
		n, err := seed.Dump(opts.dump, s)
		if err != nil {
			return sysError(errors.Wrap(err, "dump records"))
		}
		logger.Logger.Infow("records dumped", "path", opts.dump, "count", n)
	}
	return nil
}
