package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ivlev/gaussblur/internal/blur"
	"github.com/ivlev/gaussblur/internal/config"
	"github.com/ivlev/gaussblur/internal/engine"
	"github.com/ivlev/gaussblur/internal/logging"
)

var version = "dev"

const doneMessage = "Gaussian blur applied!"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("gaussblur failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:           "gaussblur [input] [output]",
		Short:         "Apply a 3x3 Gaussian blur to an image",
		Version:       version,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.InputPath = args[0]
			}
			if len(args) > 1 {
				cfg.OutputPath = args[1]
			}
			if debug {
				cfg.Logging.Level = "debug"
			}

			log := logging.New(cfg.Logging, version)
			applier := engine.NewApplier(cfg, log)
			if err := applier.Apply(cmd.Context(), cfg.InputPath, cfg.OutputPath, blur.DefaultKernelSize); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), doneMessage)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "path to the YAML config file")
	cmd.Flags().BoolVar(&debug, "debug", false, "log a per-stage report to stderr")
	return cmd
}
