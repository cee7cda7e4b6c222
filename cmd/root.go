package cmd

import (
	"os"
	"path/filepath"

	"github.com/jvance/examdeck/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "examdeck",
	Short: "CISM exam prep in the terminal",
	Long:  "ExamDeck — terminal trainer for the CISM exam: practice drills, timed quizzes, and full 150-question exam simulations with scaled scoring.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EXAMDECK_DB env var)")
	rootCmd.PersistentFlags().String("bank", "", "Path to the questions JSON file (overrides EXAMDECK_BANK env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then EXAMDECK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveBankPath returns the questions file path using --bank, then
// EXAMDECK_BANK, then questions.json next to the database.
func resolveBankPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("bank"); p != "" {
		return p, nil
	}
	if p := os.Getenv("EXAMDECK_BANK"); p != "" {
		return p, nil
	}
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(dbPath), "questions.json"), nil
}
