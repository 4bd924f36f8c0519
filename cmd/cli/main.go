package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gotreat/internal"
	"gotreat/internal/config"
	"gotreat/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gotreat",
		Short: "Monte-Carlo simulation of substance removal across treatment trains",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Missing .env files are fine; the environment may be set directly.
			_ = godotenv.Load()
			internal.DefaultLogger = internal.NewDefaultLogger()
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newSimulateCmd(),
		newBatchCmd(),
		newCatalogCmd(),
		newServeCmd(),
		newMigrateCmd(),
	)

	return rootCmd
}

// bootstrap loads the configuration and wires the application.
func bootstrap(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Init(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}
