package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jvance/examdeck/internal/bank"
	"github.com/jvance/examdeck/internal/router"
	"github.com/jvance/examdeck/internal/score"
	"github.com/jvance/examdeck/internal/screen"
	sess "github.com/jvance/examdeck/internal/session"
	"github.com/jvance/examdeck/internal/ui/components"
	"github.com/jvance/examdeck/internal/ui/layout"
	"github.com/jvance/examdeck/internal/ui/theme"
)

// ResultsScreen displays a finished session: scaled score, per-domain
// breakdown, and a review of missed questions.
type ResultsScreen struct {
	summary *sess.Summary
	bank    *bank.Bank

	missed    []sess.OutcomeRecord
	reviewing bool
	offset    int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen. The bank may be nil; review then falls back
// to question ids.
func New(bnk *bank.Bank, summary *sess.Summary) *ResultsScreen {
	var missed []sess.OutcomeRecord
	for _, o := range summary.Outcomes {
		if !o.Correct {
			missed = append(missed, o)
		}
	}
	return &ResultsScreen{summary: summary, bank: bnk, missed: missed}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	if s.reviewing {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "R", Description: "Score"},
			{Key: "Esc", Description: "Home"},
		}
	}
	hints := []layout.KeyHint{}
	if len(s.missed) > 0 {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Review missed"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Home"},
		layout.KeyHint{Key: "Esc", Description: "Home"},
	)
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "enter", "esc":
		if s.reviewing {
			s.reviewing = false
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "r", "R":
		if len(s.missed) > 0 {
			s.reviewing = !s.reviewing
			s.offset = 0
		}
	case "up", "k":
		if s.reviewing && s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		if s.reviewing && s.offset < len(s.missed)-1 {
			s.offset++
		}
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	if s.reviewing {
		return s.renderReview(width, height)
	}
	return s.renderScore(width, height)
}

func (s *ResultsScreen) renderScore(width, height int) string {
	sum := s.summary
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(modeTitle(sum.Mode) + " complete"))
	b.WriteString("\n\n")

	// Scaled score with pass/fail verdict.
	verdict := theme.Fail.Render("BELOW PASSING")
	if sum.ScaledScore >= score.Passing {
		verdict = theme.Pass.Render("PASSING")
	}
	scoreLine := fmt.Sprintf("%s   %s",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
			Render(fmt.Sprintf("Scaled score: %d", sum.ScaledScore)),
		verdict)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, scoreLine))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("(%d-%d scale, %d to pass)", score.Floor, score.Ceiling, score.Passing)))
	b.WriteString("\n\n")

	// Raw result and elapsed time.
	mins := sum.ElapsedSeconds / 60
	secs := sum.ElapsedSeconds % 60
	statsLine := fmt.Sprintf("Correct: %d/%d        Time: %d:%02d",
		sum.RawScore, sum.Total, mins, secs)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	// Per-domain accuracy bars.
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Domains")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	barWidth := min(width-8, 60)
	for _, dr := range score.Breakdown(scoredOutcomes(sum)) {
		label := fmt.Sprintf("%-38s %2d/%2d", bank.DomainName(dr.Domain), dr.Correct, dr.Total)
		bar := components.NewProgressBar(label, dr.Accuracy(), true, barWidth)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n")
	}

	if len(s.missed) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Press R to review %d missed question(s)", len(s.missed))))
	}

	return b.String()
}

// renderReview shows the missed questions starting at the scroll offset.
func (s *ResultsScreen) renderReview(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("Missed questions (%d)", len(s.missed))))
	b.WriteString("\n\n")

	textWidth := min(width-8, 80)
	for i := s.offset; i < len(s.missed); i++ {
		o := s.missed[i]

		prompt := o.QuestionID
		var chosenText, correctText, chosenWhy, correctWhy string
		if s.bank != nil {
			if q := s.bank.ByID(o.QuestionID); q != nil {
				prompt = q.Prompt
				chosenText = q.Options[o.ChosenLabel]
				correctText = q.Options[o.CorrectLabel]
				chosenWhy = q.Rationale[o.ChosenLabel]
				correctWhy = q.Rationale[o.CorrectLabel]
			}
		}

		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Bold(true).
				Render(fmt.Sprintf("%d. %s", i+1, prompt))))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Width(textWidth).Foreground(theme.Error).
				Render(fmt.Sprintf("   Your answer: %s) %s", o.ChosenLabel, chosenText))))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Width(textWidth).Foreground(theme.Success).
				Render(fmt.Sprintf("   Correct:     %s) %s", o.CorrectLabel, correctText))))
		b.WriteString("\n")
		if correctWhy != "" {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).
					Render("   "+correctWhy)))
			b.WriteString("\n")
		}
		if chosenWhy != "" {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Width(textWidth).Foreground(theme.TextDim).
					Render("   "+chosenWhy)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func scoredOutcomes(sum *sess.Summary) []score.Outcome {
	out := make([]score.Outcome, 0, len(sum.Outcomes))
	for _, o := range sum.Outcomes {
		out = append(out, score.Outcome{Domain: o.Domain, Correct: o.Correct})
	}
	return out
}

func modeTitle(m sess.Mode) string {
	switch m {
	case sess.ModeExam:
		return "Exam simulation"
	case sess.ModeQuiz:
		return "Quiz"
	default:
		return "Practice"
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
