package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smilinTux/forgeprint-sub000/internal/infrastructure/config"
	"github.com/smilinTux/forgeprint-sub000/internal/infrastructure/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "forgeprint",
		Short:         "Serve a blueprint catalog over HTTP",
		Long:          "Forgeprint serves blueprint categories, their feature catalogs and generated drivers to a browser client.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := cmd.Flags()
	flags.String("port", "", "server port (overrides PORT)")
	flags.String("host", "", "listen host (overrides HOST)")
	flags.String("root", "", "blueprint root directory (overrides BLUEPRINTS_ROOT)")
	flags.String("static", "", "client directory with index.html (overrides STATIC_DIR)")
	flags.String("log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	flags.Bool("dev", false, "development mode: colored logs (overrides LOG_DEV)")
	flags.Bool("cache", false, "cache parsed catalogs by file modification time (overrides BLUEPRINTS_CACHE)")

	return cmd
}

// loadConfig reads the environment and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	strFlags := map[string]*string{
		"port":      &cfg.Server.Port,
		"host":      &cfg.Server.Host,
		"root":      &cfg.Blueprints.Root,
		"static":    &cfg.Server.StaticDir,
		"log-level": &cfg.Logging.Level,
	}
	for name, dst := range strFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	if flags.Changed("dev") {
		cfg.Logging.Development, _ = flags.GetBool("dev")
	}
	if flags.Changed("cache") {
		cfg.Blueprints.Cache, _ = flags.GetBool("cache")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
