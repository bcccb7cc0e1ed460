package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	inferenco "github.com/inferenco/inferenco-mcp"
	"github.com/inferenco/inferenco-mcp/config"
	"github.com/inferenco/inferenco-mcp/internal/logging"
)

type rootFlags struct {
	configPath string
	envFile    string
	transport  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "inferenco-mcp",
		Short: "MCP tool server with echo, increment, reverse, dice and clock",
		Long: `inferenco-mcp serves a small set of MCP tools over JSON-RPC 2.0.

The binding is chosen by configuration: stdio (default), http or websocket.
Configuration comes from built-in defaults, an optional TOML file, a .env
file and INFERENCO_MCP_* environment variables, in increasing precedence.
Logs are written to stderr so stdout stays free for the stdio binding.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "TOML configuration file (default: $"+config.EnvConfig+")")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file consulted for unset variables")
	cmd.Flags().StringVarP(&flags.transport, "transport", "t", "", "override the transport: stdio, http or websocket")

	cmd.AddCommand(newToolsCmd(flags), newVersionCmd())
	return cmd
}

// load reads the configuration and applies flag overrides.
func (f *rootFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(config.Options{
		ConfigPath: f.configPath,
		DotEnvPath: f.envFile,
	})
	if err != nil {
		return config.Config{}, err
	}
	if tf := cmd.Flags().Lookup("transport"); tf != nil && tf.Changed {
		cfg.Transport = f.transport
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := inferenco.New(cfg, inferenco.WithLogger(logger))
	if err != nil {
		return err
	}
	if cfg.Source != "" {
		logger.Info("configuration loaded", zap.String("file", cfg.Source))
	}
	return srv.Serve(ctx)
}
