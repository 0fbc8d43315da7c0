package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"charterline/internal/platform/config"
	"charterline/internal/platform/logger"
)

// cli carries state shared by subcommands; it is filled in by the root
// command's PersistentPreRunE.
type cli struct {
	cfgFile  string
	logLevel string
	cfg      config.Config
	log      *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "charterline",
		Short: "Formation compliance screening for nonprofit associations",
		Long: `charterline screens nonprofit association intake records for compliance
risk, recommends whether the association structure fits, and manages the
lifecycle database.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.initConfig,
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (YAML)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(evaluateCmd(c))
	root.AddCommand(recommendCmd(c))
	root.AddCommand(migrateCmd(c))
	return root
}

func (c *cli) initConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	c.cfg = cfg
	c.log = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, "text")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
