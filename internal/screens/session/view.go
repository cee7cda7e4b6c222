package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/jvance/examdeck/internal/bank"
	sess "github.com/jvance/examdeck/internal/session"
	"github.com/jvance/examdeck/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if !s.started {
		return renderLoading(width)
	}
	if s.quitConfirm {
		return s.renderQuitConfirm(width)
	}
	return s.renderQuestion(width, height)
}

// renderQuestion renders the current question, its options, and in
// practice mode the post-confirm feedback.
func (s *SessionScreen) renderQuestion(width, height int) string {
	q := s.engine.Current()
	if q == nil {
		return ""
	}

	var b strings.Builder

	// Info line: domain left, progress (and correct count in practice) right.
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + bank.DomainName(q.Domain))

	progress := fmt.Sprintf("Q %d/%d", s.engine.Cursor()+1, s.engine.Len())
	if s.engine.Mode() == sess.ModePractice {
		correct := 0
		for _, o := range s.engine.Outcomes() {
			if o.Correct {
				correct++
			}
		}
		progress = fmt.Sprintf("%s  %s %d", progress,
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"), correct)
	}
	infoRight := lipgloss.NewStyle().Foreground(theme.TextDim).Render(progress)

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	// Prompt, wrapped to a readable column.
	promptWidth := min(width-8, 80)
	prompt := lipgloss.NewStyle().
		Width(promptWidth).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Prompt)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, prompt))
	b.WriteString("\n\n")

	options := lipgloss.NewStyle().Width(promptWidth).Render(s.options.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, options))

	if s.engine.Mode() == sess.ModePractice && s.engine.Confirmed() {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(width, q))
	}

	return b.String()
}

// renderFeedback shows correctness and the rationale after a practice
// answer is locked in.
func (s *SessionScreen) renderFeedback(width int, q *bank.Question) string {
	var b strings.Builder

	outcomes := s.engine.Outcomes()
	if len(outcomes) == 0 {
		return ""
	}
	last := outcomes[len(outcomes)-1]

	if last.Correct {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("Correct"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render(fmt.Sprintf("Incorrect — the answer is %s", q.CorrectLabel)))
	}
	b.WriteString("\n")

	rationaleWidth := min(width-8, 80)
	if r := q.Rationale[q.CorrectLabel]; r != "" {
		text := lipgloss.NewStyle().
			Width(rationaleWidth).
			Foreground(theme.Text).
			Render(fmt.Sprintf("%s) %s", q.CorrectLabel, r))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, text))
		b.WriteString("\n")
	}
	if !last.Correct {
		if r := q.Rationale[last.ChosenLabel]; r != "" {
			text := lipgloss.NewStyle().
				Width(rationaleWidth).
				Foreground(theme.TextDim).
				Render(fmt.Sprintf("%s) %s", last.ChosenLabel, r))
			b.WriteString("\n")
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, text))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press Enter for the next question"))

	return b.String()
}

func (s *SessionScreen) renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("End session early?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Answered questions are scored; the rest are discarded."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Drawing questions...")
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
