package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/canopy/internal/export"
	"github.com/yash-srivastava19/canopy/internal/mindmap"
	"github.com/yash-srivastava19/canopy/internal/ui"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved projects, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := openGateway()
			if err != nil {
				return err
			}
			defer gw.Close()

			list, err := gw.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				Subtle.Println("  no projects yet. Run `canopy` and press n to start one")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, p := range list {
				rows = append(rows, []string{
					p.ID,
					p.Name,
					fmt.Sprint(len(p.Nodes)),
					p.Orientation.String(),
					ui.HumanTime(time.UnixMilli(p.UpdatedAt)),
				})
			}
			table([]string{"ID", "NAME", "NODES", "LAYOUT", "UPDATED"}, rows)
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a project as an outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := openGateway()
			if err != nil {
				return err
			}
			defer gw.Close()

			p, err := gw.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			doc := export.Document{ProjectName: p.Name, Nodes: p.Nodes, Orientation: p.Orientation}
			if err := export.WriteMarkdown(&buf, doc); err != nil {
				return err
			}
			if raw {
				fmt.Print(buf.String())
				return nil
			}
			r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
			if err != nil {
				fmt.Print(buf.String())
				return nil
			}
			out, err := r.Render(buf.String())
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print plain markdown")
	return cmd
}

func renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args[1:], " "))
			if name == "" {
				return fmt.Errorf("project name is required")
			}
			gw, err := openGateway()
			if err != nil {
				return err
			}
			defer gw.Close()

			if _, err := gw.Rename(cmd.Context(), args[0], name); err != nil {
				return err
			}
			Good.Printf("  renamed %s to %q\n", args[0], name)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := openGateway()
			if err != nil {
				return err
			}
			defer gw.Close()

			p, err := gw.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !yes && !confirm(fmt.Sprintf("  Delete %q (%d nodes)? [y/N] ", p.Name, len(p.Nodes))) {
				Subtle.Println("  cancelled")
				return nil
			}
			if err := gw.Delete(cmd.Context(), p.ID); err != nil {
				return err
			}
			Good.Printf("  deleted %s\n", p.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [id...]",
		Short: "Validate the node tree of saved projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := openGateway()
			if err != nil {
				return err
			}
			defer gw.Close()

			list, err := gw.List(cmd.Context())
			if err != nil {
				return err
			}
			want := make(map[string]bool, len(args))
			for _, a := range args {
				want[a] = true
			}

			bad := 0
			for _, p := range list {
				if len(want) > 0 && !want[p.ID] {
					continue
				}
				verr := mindmap.Validate(p.Nodes)
				fmt.Printf("  %s %s %s\n", statusIcon(verr == nil), p.Name, Subtle.Sprint(p.ID))
				if verr != nil {
					bad++
					for _, line := range strings.Split(verr.Error(), "\n") {
						Warn.Printf("      %s\n", line)
					}
				}
			}
			if bad > 0 {
				return fmt.Errorf("%d project(s) have an inconsistent tree", bad)
			}
			return nil
		},
	}
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
