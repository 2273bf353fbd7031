package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/canopy/internal/export"
	"github.com/yash-srivastava19/canopy/internal/mindmap"
	"github.com/yash-srivastava19/canopy/internal/projects"
)

func exportCmd() *cobra.Command {
	var (
		format string
		out    string
		theme  string
	)
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a project as JSON, markdown or SVG",
		Long: `Write a saved project to stdout or a file.

  canopy export abc123                       # JSON document
  canopy export abc123 --format markdown     # nested outline
  canopy export abc123 --format svg -o map.svg --theme midnight`,
		Args: cobra.ExactArgs(1),
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

			var w io.Writer = os.Stdout
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := writeDocument(w, projectDocument(p), format, theme); err != nil {
				return err
			}
			if w != os.Stdout {
				Good.Fprintf(os.Stderr, "  wrote %s\n", out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, markdown or svg")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().StringVar(&theme, "theme", "", "Design preset for SVG output")
	return cmd
}

func projectDocument(p projects.Project) export.Document {
	return export.Document{ProjectName: p.Name, Nodes: p.Nodes, Orientation: p.Orientation}
}

func writeDocument(w io.Writer, doc export.Document, format, theme string) error {
	switch strings.ToLower(format) {
	case "json", "":
		return export.WriteJSON(w, doc)
	case "markdown", "md":
		return export.WriteMarkdown(w, doc)
	case "svg":
		design := mindmap.DefaultDesign()
		if theme != "" {
			d, ok := mindmap.DesignByName(theme)
			if !ok {
				return fmt.Errorf("unknown theme %q", theme)
			}
			design = d
		}
		return export.WriteSVG(w, doc, design)
	}
	return fmt.Errorf("unknown format %q (want json, markdown or svg)", format)
}

func importCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON export as a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = os.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			doc, err := export.ReadJSON(r)
			if err != nil {
				return err
			}
			if name != "" {
				doc.ProjectName = name
			}
			if strings.TrimSpace(doc.ProjectName) == "" {
				doc.ProjectName = "Imported map"
			}

			gw, err := openGateway()
			if err != nil {
				return err
			}
			defer gw.Close()

			p, err := gw.Save(cmd.Context(), projects.NewID(), doc.ProjectName, doc.Nodes, doc.Orientation)
			if err != nil {
				return err
			}
			Good.Printf("  imported %q as %s (%d nodes)\n", p.Name, p.ID, len(p.Nodes))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Override the project name")
	return cmd
}
