package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/canopy/internal/ai"
	"github.com/yash-srivastava19/canopy/internal/config"
	"github.com/yash-srivastava19/canopy/internal/projects"
	"github.com/yash-srivastava19/canopy/internal/ui"
)

type tuiOptions struct {
	projectID string
}

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Open a saved project in the editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), tuiOptions{projectID: args[0]})
		},
	}
}

func runTUI(ctx context.Context, opts tuiOptions) error {
	if err := os.MkdirAll(config.StateDir(), 0o755); err != nil {
		return err
	}
	logFile, err := tea.LogToFile(config.LogPath(), "canopy")
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	gw, err := openGateway()
	if err != nil {
		return err
	}
	defer gw.Close()

	key := cfg.AI.APIKey
	if !cfg.AI.Enabled {
		key = ""
	}
	app := ui.New(cfg, gw, ai.NewClient(key, cfg.AI.Model), ui.Options{ProjectID: opts.projectID})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The first snapshot is delivered synchronously and Send blocks until
	// the program runs, so subscribe off the main goroutine.
	stopped := make(chan func(), 1)
	go func() {
		stop, err := gw.Subscribe(ctx, func(list []projects.Project) {
			p.Send(ui.FeedMsg{Projects: list})
		})
		if err != nil {
			log.Printf("cmd: subscribe to projects: %v", err)
			stop = func() {}
		}
		stopped <- stop
	}()

	log.Printf("cmd: editor starting (%s store)", cfg.Store.Backend)
	_, runErr := p.Run()
	cancel()
	(<-stopped)()
	return runErr
}
