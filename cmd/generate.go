package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/canopy/internal/ai"
	"github.com/yash-srivastava19/canopy/internal/layout"
	"github.com/yash-srivastava19/canopy/internal/mindmap"
	"github.com/yash-srivastava19/canopy/internal/projects"
)

func generateCmd() *cobra.Command {
	var (
		horizontal bool
		dryRun     bool
		format     string
	)
	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Ask Gemini for a whole mind map and save it as a project",
		Long: `Generate a complete mind map from a prompt.

Needs GEMINI_API_KEY (or ai.api_key in the config file).

  canopy generate "launching a podcast"
  canopy generate --horizontal "learning Rust"
  canopy generate --dry-run -f markdown "trip to Japan"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.TrimSpace(strings.Join(args, " "))
			if prompt == "" {
				return fmt.Errorf("prompt is required")
			}
			client := ai.NewClient(cfg.AI.APIKey, cfg.AI.Model)
			if !cfg.AI.Enabled || !client.Available() {
				return ai.ErrUnavailable
			}

			Subtle.Fprintf(os.Stderr, "  asking %s...\n", client.Model())
			start := time.Now()
			idea, err := client.GenerateTree(cmd.Context(), prompt)
			if err != nil {
				return err
			}

			o := mindmap.Vertical
			if horizontal {
				o = mindmap.Horizontal
			}
			x, y := layout.TreeOrigin(1200)
			nodes := layout.ImportTree(idea, x, y, o, uuid.NewString)

			if dryRun {
				return writeDocument(os.Stdout, projectDocument(projects.Project{Name: prompt, Nodes: nodes, Orientation: o}), format, "")
			}

			gw, err := openGateway()
			if err != nil {
				return err
			}
			defer gw.Close()

			p, err := gw.Save(cmd.Context(), projects.NewID(), prompt, nodes, o)
			if err != nil {
				return err
			}
			Good.Printf("  saved %q as %s ", p.Name, p.ID)
			Subtle.Printf("(%d nodes in %s)\n", len(p.Nodes), time.Since(start).Round(100*time.Millisecond))
			return nil
		},
	}
	cmd.Flags().BoolVar(&horizontal, "horizontal", false, "Lay the map out left to right")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the map instead of saving it")
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Format for --dry-run output")
	return cmd
}
