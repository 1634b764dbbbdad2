package cli

import (
	"context"
	"fmt"
	"strconv"

	"careerstealth/internal/config"
	"careerstealth/internal/errors"
	"careerstealth/internal/export"
	"careerstealth/internal/session"

	"github.com/spf13/cobra"
)

// openSessionController opens the configured session store, restores any
// saved state and returns the controller plus the store for closing.
func openSessionController(ctx context.Context, cfg *config.Config, logger *errors.Logger) (*session.Controller, *session.Store, error) {
	store, err := session.NewStore(cfg.Session.Path, logger)
	if err != nil {
		return nil, nil, err
	}

	ctrl := session.NewController(store, export.New(logger), cfg.Session.HistoryLimit, logger)
	if err := ctrl.Load(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	return ctrl, store, nil
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or reset the saved working session",
	Long: `The analyze command saves its result as the working session, which the
improve and export commands pick up. This command inspects that saved
state, adjusts the preview zoom, or resets the session entirely.`,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved session state",
	Args:  cobra.NoArgs,
	RunE:  runSessionShow,
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the saved session (history is kept)",
	Args:  cobra.NoArgs,
	RunE:  runSessionReset,
}

var sessionZoomCmd = &cobra.Command{
	Use:   "zoom [factor]",
	Short: "Set the preview zoom factor",
	Long: `Set the preview zoom stored with the session. Zoom is presentation
state only: exports always run at 100% regardless of this setting.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionZoom,
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionResetCmd)
	sessionCmd.AddCommand(sessionZoomCmd)
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	ctrl, store, err := sessionFromCommand(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	sess := ctrl.Session()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Step:         %s\n", sess.Step)
	fmt.Fprintf(out, "Zoom:         %.0f%%\n", sess.View.Zoom*100)
	if sess.Result == nil {
		fmt.Fprintln(out, "Result:       none (run analyze first)")
		return nil
	}
	fmt.Fprintf(out, "Score:        %d\n", sess.Result.Score)
	fmt.Fprintf(out, "Candidate:    %s\n", sess.Result.StructuredResume.FullName)
	fmt.Fprintf(out, "Cover letter: %s\n", presence(sess.CoverLetter != ""))
	return nil
}

func runSessionReset(cmd *cobra.Command, args []string) error {
	ctrl, store, err := sessionFromCommand(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := ctrl.Reset(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Session reset.")
	return nil
}

func runSessionZoom(cmd *cobra.Command, args []string) error {
	zoom, err := strconv.ParseFloat(args[0], 64)
	if err != nil || zoom <= 0 {
		return fmt.Errorf("zoom must be a positive number, got %q", args[0])
	}

	ctrl, store, err := sessionFromCommand(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctrl.SetZoom(zoom)
	if err := ctrl.Save(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Zoom set to %.0f%%.\n", zoom*100)
	return nil
}

func sessionFromCommand(cmd *cobra.Command) (*session.Controller, *session.Store, error) {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return openSessionController(cmd.Context(), cfg, logger)
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "none"
}
