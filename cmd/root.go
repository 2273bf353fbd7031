// Package cmd holds the canopy command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/canopy/internal/config"
	"github.com/yash-srivastava19/canopy/internal/projects"
)

var version = "0.1.0"

var (
	backendFlag string
	cfg         *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "canopy",
	Short: "Mind maps on an infinite terminal canvas",
	Long: Brand.Sprint("canopy") + ": an infinite canvas for mind maps\n" +
		Subtle.Sprint("Pan, zoom, branch out and let Gemini suggest the next ideas"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if backendFlag != "" {
			c.Store.Backend = backendFlag
		}
		cfg = c
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context(), tuiOptions{})
	},
}

func init() {
	rootCmd.SetVersionTemplate("canopy {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Project store: file, sqlite, postgres or redis")

	rootCmd.AddCommand(
		openCmd(),
		listCmd(),
		showCmd(),
		renameCmd(),
		deleteCmd(),
		checkCmd(),
		exportCmd(),
		importCmd(),
		generateCmd(),
		serveCmd(),
		configCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		Bad.Fprintf(os.Stderr, "canopy: %v\n", err)
	}
	return err
}

// openGateway connects to the configured project store. Callers close it.
func openGateway() (*projects.Gateway, error) {
	gw, err := projects.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	return gw, nil
}
