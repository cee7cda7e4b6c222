package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/jvance/examdeck/internal/bank"
	"github.com/jvance/examdeck/internal/history"
	"github.com/jvance/examdeck/internal/router"
	"github.com/jvance/examdeck/internal/score"
	"github.com/jvance/examdeck/internal/screen"
	sess "github.com/jvance/examdeck/internal/session"
	"github.com/jvance/examdeck/internal/ui/layout"
	"github.com/jvance/examdeck/internal/ui/theme"
)

type historyLoadedMsg struct {
	Summaries []sess.Summary
}

// HistoryScreen lists past sessions, most recent first, with an expanding
// per-domain breakdown.
type HistoryScreen struct {
	store     *history.Store
	summaries []sess.Summary
	selected  int
	expanded  map[int]bool
	loaded    bool
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(store *history.Store) *HistoryScreen {
	return &HistoryScreen{
		store:    store,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		return historyLoadedMsg{Summaries: s.store.LoadAll(context.Background())}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.summaries = msg.Summaries
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.summaries)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.summaries) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sum := range s.summaries {
		dateStr := sum.Date.Format("Jan 02, 2006")
		mins := sum.ElapsedSeconds / 60
		secs := sum.ElapsedSeconds % 60

		verdict := "fail"
		verdictColor := theme.Error
		if sum.ScaledScore >= score.Passing {
			verdict = "pass"
			verdictColor = theme.Success
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-8s  %d:%02d  %d/%d correct  scaled %d %s",
			prefix, dateStr, sum.Mode, mins, secs, sum.RawScore, sum.Total,
			sum.ScaledScore,
			lipgloss.NewStyle().Foreground(verdictColor).Render(verdict))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, dr := range score.Breakdown(scoredOutcomes(&sum)) {
				detail := fmt.Sprintf("    %-38s %2d/%2d  %3.0f%%",
					bank.DomainName(dr.Domain), dr.Correct, dr.Total, dr.Accuracy()*100)
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)))
				b.WriteString("\n")
			}
		}
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
