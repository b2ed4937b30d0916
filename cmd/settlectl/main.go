package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "settlectl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	defaultConfigPath := os.Getenv("SETTLECTL_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/settlectl/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "settlectl",
		Short: "Settlement pipeline operator CLI",
		Long: `settlectl runs recovery and inspection tasks against the settlement pipeline:
requeueing records stuck in Processing, rendering a record locally and listing
the documents stored for a record.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to configuration file")
	cmd.AddCommand(
		newRequeueCmd(),
		newRenderCmd(),
		newArtifactsCmd(),
	)
	return cmd
}
