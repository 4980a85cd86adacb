package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"launcher/internal/app"
	"launcher/internal/config"
	"runtime"

	"github.com/spf13/cobra"
)

// Заполняются при сборке через -ldflags.
var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "launcher",
		Short:         "Launcher content service",
		Long:          "Serves launcher configuration, instance list and news with offline fallback.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "config.json", "Path to the JSON configuration file")

	root.AddCommand(serveCmd())
	root.AddCommand(printCmd("config", "Print launcher configuration", func(ctx context.Context, a *app.App) (any, error) {
		return a.Service().GetConfig(ctx)
	}))
	root.AddCommand(printCmd("instances", "Print instance list", func(ctx context.Context, a *app.App) (any, error) {
		return a.Service().GetInstanceList(ctx), nil
	}))
	root.AddCommand(printCmd("news", "Print launcher news", func(ctx context.Context, a *app.App) (any, error) {
		return a.Service().GetNews(ctx)
	}))
	root.AddCommand(seedCmd())
	root.AddCommand(versionCmd())
	return root
}

// loadApp загружает и проверяет конфигурацию, затем собирает приложение.
func loadApp(cmd *cobra.Command) (*app.App, *config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("could not init app: %w", err)
	}
	return a, cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := loadApp(cmd)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}

// printCmd создает команду, которая выполняет один вызов сервиса и печатает результат в JSON.
func printCmd(use, short string, call func(ctx context.Context, a *app.App) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			result, err := call(cmd.Context(), a)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-offline",
		Short: "Copy bundled offline documents into the configured offline store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, cfg, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			from, err := cmd.Flags().GetString("from")
			if err != nil {
				return err
			}
			if from == "" {
				from = cfg.Offline.Dir
			}
			copied, err := a.Seed(cmd.Context(), from)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d offline documents from %s\n", copied, from)
			return nil
		},
	}
	cmd.Flags().String("from", "", "Directory with config.json and news.json (defaults to offline.dir)")
	return cmd
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := map[string]string{
				"version": version,
				"commit":  commit,
				"go":      runtime.Version(),
			}
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "launcher %s (commit %s, %s)\n", version, commit, info["go"])
			return nil
		},
	}
	cmd.Flags().String("format", "", "Output format (json)")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
