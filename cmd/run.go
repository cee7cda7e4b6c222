package cmd

import (
	"fmt"
	"os"

	"github.com/jvance/examdeck/internal/app"
	"github.com/jvance/examdeck/internal/bank"
	"github.com/jvance/examdeck/internal/exposure"
	"github.com/jvance/examdeck/internal/history"
	"github.com/jvance/examdeck/internal/sampler"
	"github.com/jvance/examdeck/internal/store"
	"github.com/spf13/cobra"
)

// runApp opens the store, loads the bank, and launches the TUI. A bank
// load failure is not fatal: the app starts with sessions disabled so the
// error is visible on the home screen.
func runApp(cmd *cobra.Command) error {
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

	opts := app.Options{
		Tracker: exposure.New(st),
		History: history.New(st),
	}

	bnk, err := bank.Load(bankPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Question bank unavailable:", err)
		opts.BankErr = err
	} else {
		opts.Bank = bnk
		opts.Sampler = sampler.New(bnk, nil)
	}

	return app.Run(opts)
}
