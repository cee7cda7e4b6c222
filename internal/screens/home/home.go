package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jvance/examdeck/internal/bank"
	"github.com/jvance/examdeck/internal/exposure"
	"github.com/jvance/examdeck/internal/history"
	"github.com/jvance/examdeck/internal/router"
	"github.com/jvance/examdeck/internal/sampler"
	"github.com/jvance/examdeck/internal/screen"
	historyscreen "github.com/jvance/examdeck/internal/screens/history"
	sessionscreen "github.com/jvance/examdeck/internal/screens/session"
	"github.com/jvance/examdeck/internal/screens/setup"
	sess "github.com/jvance/examdeck/internal/session"
	"github.com/jvance/examdeck/internal/ui/components"
	"github.com/jvance/examdeck/internal/ui/theme"
)

// HomeScreen is the main menu. When the bank failed to load it shows the
// load error and keeps every session entry disabled; browsing history
// still works.
type HomeScreen struct {
	menu      components.Menu
	bank      *bank.Bank
	bankErr   error
	seenCount int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(bnk *bank.Bank, bankErr error, smp *sampler.Sampler, tracker *exposure.Tracker, hist *history.Store) *HomeScreen {
	bankReady := bnk != nil

	// Count distinct questions already seen, for the coverage line.
	var seenCount int
	if bankReady && tracker != nil {
		for id, n := range tracker.Counts(context.Background()) {
			if n > 0 && bnk.ByID(id) != nil {
				seenCount++
			}
		}
	}

	items := []components.MenuItem{
		{Label: "PRACTICE", Disabled: !bankReady, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: setup.New(smp, tracker, hist, bnk, sess.ModePractice)}
			}
		}},
		{Label: "TIMED QUIZ", Disabled: !bankReady, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: setup.New(smp, tracker, hist, bnk, sess.ModeQuiz)}
			}
		}},
		{Label: "EXAM SIMULATION", Disabled: !bankReady, Action: func() tea.Cmd {
			return func() tea.Msg {
				cfg := sess.Config{Mode: sess.ModeExam}
				return router.PushScreenMsg{Screen: sessionscreen.New(smp, tracker, hist, bnk, cfg)}
			}
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: historyscreen.New(hist)}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:      components.NewMenu(items),
		bank:      bnk,
		bankErr:   bankErr,
		seenCount: seenCount,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := width < 100 || height < 22

	var sections []string
	sections = append(sections, renderTitle(width, compact))
	sections = append(sections, h.renderBankLine(width))
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// renderBankLine shows bank size and coverage, or the load failure.
func (h *HomeScreen) renderBankLine(width int) string {
	if h.bank == nil {
		msg := "Question bank unavailable"
		if h.bankErr != nil {
			msg = h.bankErr.Error()
		}
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(msg + "\nRun 'examdeck extract' or point EXAMDECK_BANK at a questions file.")
	}

	line := fmt.Sprintf("%d questions loaded   %d/%d seen",
		h.bank.Count(), h.seenCount, h.bank.Count())
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(line)
}

// Block-letter title with a compact fallback for narrow terminals.
const bannerFull = ` ███████╗██╗  ██╗ █████╗ ███╗   ███╗██████╗ ███████╗ ██████╗██╗  ██╗
 ██╔════╝╚██╗██╔╝██╔══██╗████╗ ████║██╔══██╗██╔════╝██╔════╝██║ ██╔╝
 █████╗   ╚███╔╝ ███████║██╔████╔██║██║  ██║█████╗  ██║     █████╔╝
 ██╔══╝   ██╔██╗ ██╔══██║██║╚██╔╝██║██║  ██║██╔══╝  ██║     ██╔═██╗
 ███████╗██╔╝ ██╗██║  ██║██║ ╚═╝ ██║██████╔╝███████╗╚██████╗██║  ██╗
 ╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝╚═════╝ ╚══════╝ ╚═════╝╚═╝  ╚═╝`

const bannerCompact = "E · X · A · M · D · E · C · K"

func renderTitle(width int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	banner := bannerFull
	if compact || width < 72 {
		banner = bannerCompact
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(style.Render(banner))
}
