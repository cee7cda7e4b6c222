package cmd

import (
	"fmt"
	"time"

	"github.com/jvance/examdeck/internal/extract"
	"github.com/jvance/examdeck/internal/llm"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <pages-dir>",
	Short: "Build the question bank from exam page images",
	Long: "Extract question records from a directory of pre-rendered exam page\n" +
		"images (PNG, processed in filename order) using a vision-capable model.\n" +
		"The run checkpoints after every page and resumes where it left off.\n\n" +
		"Configure the provider via EXAMDECK_LLM_PROVIDER and the matching\n" +
		"EXAMDECK_*_API_KEY, or let autodiscovery probe OPENROUTER_API_KEY,\n" +
		"OPENAI_API_KEY, ANTHROPIC_API_KEY, and GEMINI_API_KEY in that order.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := llm.NewProviderFromEnv(cmd.Context())
		if err != nil {
			return fmt.Errorf("configure LLM provider: %w", err)
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out, err = resolveBankPath(cmd)
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
		}
		startPage, _ := cmd.Flags().GetInt("start-page")
		delayMs, _ := cmd.Flags().GetInt("delay-ms")

		ex := extract.New(provider, extract.Config{
			PagesDir:   args[0],
			OutputPath: out,
			StartPage:  startPage,
			PageDelay:  time.Duration(delayMs) * time.Millisecond,
		}, cmd.OutOrStdout())

		return ex.Run(cmd.Context())
	},
}

func init() {
	extractCmd.Flags().String("out", "", "Output path for questions.json (default: the bank path)")
	extractCmd.Flags().Int("start-page", 1, "First page to process when no checkpoint exists")
	extractCmd.Flags().Int("delay-ms", 1000, "Pause between model calls in milliseconds")
}
