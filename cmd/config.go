package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/canopy/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("  %s %s\n", Subtle.Sprint("file:"), config.Path())
			fmt.Printf("  %s %s\n\n", Subtle.Sprint("log: "), config.LogPath())
			shown := *cfg
			if shown.AI.APIKey != "" {
				shown.AI.APIKey = "(set)"
			}
			return toml.NewEncoder(os.Stdout).Encode(shown)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the current settings to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(cfg); err != nil {
				return err
			}
			Good.Printf("  wrote %s\n", config.Path())
			return nil
		},
	})
	return cmd
}
