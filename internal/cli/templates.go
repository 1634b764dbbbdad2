package cli

import (
	"fmt"
	"text/tabwriter"

	"careerstealth/internal/template"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available resume templates",
	Long:  "List the built-in resume templates with their layout shape and color theme.",
	RunE:  runTemplates,
}

func runTemplates(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLAYOUT\tTHEME")
	for _, cfg := range template.List() {
		marker := ""
		if cfg.ID == template.Default {
			marker = " (default)"
		}
		fmt.Fprintf(w, "%s\t%s%s\t%s\t%s\n", cfg.ID, cfg.Name, marker, cfg.Layout.String(), cfg.Theme.Name)
	}
	return w.Flush()
}
