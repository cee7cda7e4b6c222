package cmd

import (
	"fmt"

	"github.com/jvance/examdeck/internal/exposure"
	"github.com/jvance/examdeck/internal/history"
	"github.com/jvance/examdeck/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear exposure counts and session history",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		yes, _ := cmd.Flags().GetBool("yes")
		exposureOnly, _ := cmd.Flags().GetBool("exposure")
		historyOnly, _ := cmd.Flags().GetBool("history")

		// No selector means both.
		doExposure := exposureOnly || !historyOnly
		doHistory := historyOnly || !exposureOnly

		if !yes {
			return fmt.Errorf("refusing to reset without --yes")
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if doExposure {
			if err := exposure.New(st).Reset(ctx); err != nil {
				return fmt.Errorf("reset exposure counts: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Exposure counts cleared.")
		}
		if doHistory {
			if err := history.New(st).Reset(ctx); err != nil {
				return fmt.Errorf("reset history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session history cleared.")
		}

		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
	resetCmd.Flags().Bool("exposure", false, "Reset only exposure counts")
	resetCmd.Flags().Bool("history", false, "Reset only session history")
}
