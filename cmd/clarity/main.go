// Package main provides the clarity binary entry point: a small operations
// CLI over the Clarity LIMS REST API for inspecting and updating records.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/clarity/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "clarity"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "clarity",
		Short: "Clarity LIMS command-line client",
		Long: `Clarity is a command-line client for the Clarity LIMS XML REST API.

It resolves records through the same session layer the library exposes:
lazy fetching, retry on transient server failures, and batch endpoints
where the server supports them.

Connection settings come from ~/.config/clarity/config.yaml, a clarity.yaml
in the working tree, or the CLARITY_BASEURI / CLARITY_USERNAME /
CLARITY_PASSWORD environment variables.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	newApp := func() (*App, error) {
		cfg, err := loadConfig(configPath, logLevel)
		if err != nil {
			return nil, err
		}
		return NewApp(cfg)
	}

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	cmd.AddCommand(artifactCmd(newApp))
	cmd.AddCommand(sampleCmd(newApp))

	return cmd
}

func artifactCmd(newApp func() (*App, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifact",
		Short: "Inspect and update artifacts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <limsid>",
		Short: "Fetch an artifact and print its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return app.ShowArtifact(cmd.Context(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-qc <limsid> <passed|failed|unknown>",
		Short: "Set an artifact's QC flag and save it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return app.SetArtifactQC(cmd.Context(), args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "queue <limsid>",
		Short: "List the stages an artifact is queued in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return app.ShowQueuedStages(cmd.Context(), args[0])
		},
	})

	return cmd
}

func sampleCmd(newApp func() (*App, error)) *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Inspect samples",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List samples matching query parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return app.ListSamples(cmd.Context(), params)
		},
	}
	list.Flags().StringArrayVarP(&params, "param", "p", nil,
		"Query parameter as name=value (repeatable), e.g. -p projectname=Proj1")

	cmd.AddCommand(list)
	return cmd
}

func loadConfig(configPath, logLevel string) (*config.Config, error) {
	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := loaded.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded
	} else {
		loaded, err := config.NewLoader(nil).Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// A flag beats every config layer.
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	setupLogging(cfg.Log.Level)
	return cfg, nil
}

func setupLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
