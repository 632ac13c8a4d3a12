package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/roach88/nngen/internal/config"
	"github.com/roach88/nngen/internal/server"
	"github.com/roach88/nngen/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr       string
	StaticDir  string
	DB         string
	ConfigPath string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return newServeCommand(&ServeOptions{RootOptions: rootOpts})
}

func newServeCommand(opts *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP compile service",
		Long: `Serve the graph editor and the compile endpoint.

  POST /generate   compile an editor graph, respond {"code": ...}
  GET  /           <static>/index.html
  GET  /static/    files under the static directory
  GET  /healthz    liveness

Settings come from --config (YAML) and are overridden by flags. With
--db every compilation is recorded and can be listed with "history".

Examples:
  nngen serve
  nngen serve --addr :9000 --db nngen.db
  nngen serve --config nngen.yaml -v`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.StaticDir, "static", config.DefaultStaticDir, "static files directory")
	cmd.Flags().StringVar(&opts.DB, "db", "", "history database path (disabled when empty)")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "YAML config file")

	return cmd
}

// resolveServeConfig loads the config file and applies explicitly set flags.
func resolveServeConfig(opts *ServeOptions, cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	var o config.Overrides
	if cmd.Flags().Changed("addr") {
		o.Addr = &opts.Addr
	}
	if cmd.Flags().Changed("static") {
		o.StaticDir = &opts.StaticDir
	}
	if cmd.Flags().Changed("db") {
		o.DB = &opts.DB
	}
	if opts.Verbose {
		level := logrus.DebugLevel.String()
		o.LogLevel = &level
	}
	cfg = cfg.Apply(o)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := resolveServeConfig(opts, cmd)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "config", err)
	}

	log := cfg.Logger()
	log.SetOutput(cmd.ErrOrStderr())

	var srvOpts []server.Option
	if cfg.DB != "" {
		st, err := store.Open(cfg.DB)
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, ErrCodeStoreFailed, err)
		}
		defer st.Close()
		srvOpts = append(srvOpts, server.WithRecorder(st))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg, log, srvOpts...).ListenAndServe(ctx); err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "serve", err)
	}
	return nil
}
