package cli

import (
	"fmt"
	"text/tabwriter"

	"careerstealth/internal/session"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved analysis snapshots",
	Long: `List the analysis snapshots saved by the analyze command, newest
first. Each entry records the inferred company and role, the match score
and when it was saved.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	store, err := session.NewStore(cfg.Session.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.LoadHistory(cmd.Context())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved analyses yet. Run analyze to create one.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SAVED\tCOMPANY\tROLE\tSCORE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			e.CompanyName, e.Role, e.Result.Score)
	}
	return w.Flush()
}
