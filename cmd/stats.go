package cmd

import (
	"fmt"

	"github.com/jvance/examdeck/internal/bank"
	"github.com/jvance/examdeck/internal/exposure"
	"github.com/jvance/examdeck/internal/history"
	"github.com/jvance/examdeck/internal/score"
	"github.com/jvance/examdeck/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show bank coverage and session statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		bankPath, err := resolveBankPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve bank path: %w", err)
		}
		bnk, err := bank.Load(bankPath)
		if err != nil {
			return err
		}

		counts := exposure.New(st).Counts(ctx)

		fmt.Fprintf(out, "Bank: %s\n", bankPath)
		fmt.Fprintf(out, "  %d questions\n\n", bnk.Count())

		fmt.Fprintln(out, "Coverage by domain:")
		for d := 1; d <= bank.NumDomains; d++ {
			pool := bnk.ByDomain(d)
			seen := 0
			for _, q := range pool {
				if counts[q.ID] > 0 {
					seen++
				}
			}
			fmt.Fprintf(out, "  %d. %-38s %3d questions, %3d seen\n",
				d, bank.DomainName(d), len(pool), seen)
		}
		if undomained := len(bnk.ByDomain(0)); undomained > 0 {
			fmt.Fprintf(out, "     %-38s %3d questions\n", "Unassigned", undomained)
		}

		if least, most, ok := coverageExtremes(bnk, counts); ok {
			fmt.Fprintf(out, "\n  Least seen: %s (%d views)  %s\n",
				least.ID, counts[least.ID], truncate(least.Prompt, 48))
			fmt.Fprintf(out, "  Most seen:  %s (%d views)  %s\n",
				most.ID, counts[most.ID], truncate(most.Prompt, 48))
		}

		summaries := history.New(st).LoadAll(ctx)
		fmt.Fprintf(out, "\nSessions: %d\n", len(summaries))
		if len(summaries) == 0 {
			return nil
		}

		best, passes := 0, 0
		for _, s := range summaries {
			if s.ScaledScore > best {
				best = s.ScaledScore
			}
			if s.ScaledScore >= score.Passing {
				passes++
			}
		}
		fmt.Fprintf(out, "  Best scaled score: %d\n", best)
		fmt.Fprintf(out, "  Passing sessions:  %d/%d\n", passes, len(summaries))

		latest := summaries[0]
		fmt.Fprintf(out, "  Latest: %s  %s  %d/%d correct, scaled %d\n",
			latest.Date.Format("2006-01-02"), latest.Mode,
			latest.RawScore, latest.Total, latest.ScaledScore)

		return nil
	},
}

// coverageExtremes returns the least- and most-viewed questions in the
// bank. ok is false for an empty bank.
func coverageExtremes(bnk *bank.Bank, counts map[string]int) (least, most bank.Question, ok bool) {
	all := bnk.All()
	if len(all) == 0 {
		return bank.Question{}, bank.Question{}, false
	}
	least, most = all[0], all[0]
	for _, q := range all[1:] {
		if counts[q.ID] < counts[least.ID] {
			least = q
		}
		if counts[q.ID] > counts[most.ID] {
			most = q
		}
	}
	return least, most, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
