package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hoverdict/deconj"
	"github.com/hoverdict/deconj/internal/config"
	"github.com/hoverdict/deconj/internal/reload"
	"github.com/hoverdict/deconj/internal/server"
)

type serveOptions struct {
	config string
	addr   string
	watch  bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd, _ := newServeCommand(rootOpts)
	return cmd
}

// newServeCommand also returns the options its flags are bound to.
func newServeCommand(rootOpts *RootOptions) (*cobra.Command, *serveOptions) {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the deconjugator over HTTP",
		Long: `Start the JSON API. Settings come from the TOML file given with --config;
--addr, --rules and --watch override it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, opts, cmd)
		},
	}
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the rules file when it changes")
	return cmd, opts
}

// serveConfig merges the config file with command-line overrides.
func serveConfig(rootOpts *RootOptions, opts *serveOptions, cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return cfg, exitError(ExitSetup, "load config", err)
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if rootOpts.Rules != "" {
		cfg.Rules = rootOpts.Rules
	}
	if cmd.Flags().Changed("watch") {
		cfg.Watch = opts.watch
	}
	if err := cfg.Validate(); err != nil {
		return cfg, exitError(ExitSetup, "invalid config", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, rootOpts *RootOptions, opts *serveOptions, cmd *cobra.Command) error {
	cfg, err := serveConfig(rootOpts, opts, cmd)
	if err != nil {
		return err
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := newLogger(cmd.ErrOrStderr(), level, rootOpts.Verbose)

	loader := deconj.NewLoader(func() (*deconj.Repository, error) { return loadRules(cfg.Rules) })
	loader.Start()
	logger.Info("loading rules", "path", rulesName(cfg.Rules))
	rules, err := loader.Wait(ctx)
	if err != nil {
		return exitError(ExitRules, "load rules", err)
	}

	build := func(repo *deconj.Repository) *deconj.Deconjugator {
		return deconj.New(repo,
			deconj.WithCache(deconj.NewCache(cfg.Cache.Size, cfg.Cache.TTL.Duration)),
			deconj.WithLimits(cfg.DeconjLimits()),
			deconj.WithLogger(logger))
	}
	srv := server.New(build(rules),
		server.WithLogger(logger),
		server.WithAllowedOrigins(cfg.CORS.AllowedOrigins))
	logger.Info("rules loaded", "rules", rules.Len(), "tags", len(rules.Tags()))

	if cfg.Watch {
		w, err := reload.New(cfg.Rules, srv, build, reload.WithLogger(logger))
		if err != nil {
			return exitError(ExitSetup, "watch rules", err)
		}
		go w.Run(ctx)
		logger.Info("watching rules", "path", cfg.Rules)
	}

	return srv.ListenAndServe(ctx, cfg.Addr)
}

func rulesName(path string) string {
	if path == "" {
		return "(embedded)"
	}
	return path
}
