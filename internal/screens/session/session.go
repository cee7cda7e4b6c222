package session

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/jvance/examdeck/internal/bank"
	"github.com/jvance/examdeck/internal/exposure"
	"github.com/jvance/examdeck/internal/history"
	"github.com/jvance/examdeck/internal/router"
	"github.com/jvance/examdeck/internal/sampler"
	"github.com/jvance/examdeck/internal/screen"
	"github.com/jvance/examdeck/internal/screens/results"
	sess "github.com/jvance/examdeck/internal/session"
	"github.com/jvance/examdeck/internal/ui/components"
	"github.com/jvance/examdeck/internal/ui/layout"
)

// SessionScreen drives one run of the session engine. All engine
// transitions happen here, synchronously, in response to key presses and
// clock ticks.
type SessionScreen struct {
	engine *sess.Engine
	hist   *history.Store
	bank   *bank.Bank
	cfg    sess.Config

	options     components.OptionList
	quitConfirm bool
	started     bool
	errMsg      string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)

// New creates a SessionScreen; the engine starts in Init.
func New(smp *sampler.Sampler, tracker *exposure.Tracker, hist *history.Store, bnk *bank.Bank, cfg sess.Config) *SessionScreen {
	return &SessionScreen{
		engine: sess.New(smp, tracker),
		hist:   hist,
		bank:   bnk,
		cfg:    cfg,
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{Err: s.engine.Start(context.Background(), s.cfg, time.Now())}
	}
}

func (s *SessionScreen) Title() string {
	switch s.cfg.Mode {
	case sess.ModeExam:
		return "Exam Simulation"
	case sess.ModeQuiz:
		return "Quiz"
	default:
		return "Practice"
	}
}

// HeaderStatus fills the header's right slot: the countdown when timed,
// progress otherwise.
func (s *SessionScreen) HeaderStatus() string {
	if !s.started || s.engine.Phase() != sess.PhaseInProgress {
		return ""
	}
	if s.engine.Timed() {
		return formatDuration(s.engine.Remaining(time.Now()))
	}
	return fmt.Sprintf("Q %d/%d", s.engine.Cursor()+1, s.engine.Len())
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.quitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.engine.Mode() == sess.ModePractice && s.engine.Confirmed() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
	}
	if s.engine.Mode() == sess.ModePractice {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Check"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s.handleStarted(msg)
	case tickMsg:
		return s.handleTick(time.Time(msg))
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.started = true
	s.syncOptions()
	if s.engine.Timed() {
		return s, tickCmd()
	}
	return s, nil
}

// handleTick ends the session exactly once when the deadline passes.
func (s *SessionScreen) handleTick(now time.Time) (screen.Screen, tea.Cmd) {
	if s.engine.Phase() != sess.PhaseInProgress {
		return s, nil
	}
	if s.engine.Expired(now) {
		return s.finishSession(now)
	}
	return s, tickCmd()
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if !s.started {
		return s, nil
	}

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			s.quitConfirm = false
			return s.finishSession(time.Now())
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	// Practice feedback: answer locked, rationale on screen.
	if s.engine.Mode() == sess.ModePractice && s.engine.Confirmed() {
		switch key {
		case "enter", "space", "n":
			return s.advance()
		case "esc":
			s.quitConfirm = true
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.quitConfirm = true
		return s, nil
	case "enter":
		if s.engine.Mode() == sess.ModePractice {
			if s.engine.Confirm(context.Background()) {
				s.options = s.options.Reveal(s.engine.Selected())
			}
			return s, nil
		}
		return s.advance()
	}

	// Cursor movement or a direct label key.
	s.options, _ = s.options.Update(msg)
	s.engine.Select(s.options.SelectedLabel())
	return s, nil
}

// advance moves the engine to the next question or, past the last one,
// hands off to the results screen.
func (s *SessionScreen) advance() (screen.Screen, tea.Cmd) {
	now := time.Now()
	if !s.engine.Next(context.Background(), now) {
		return s, nil
	}
	if s.engine.Phase() == sess.PhaseFinished {
		return s.persistAndShowResults()
	}
	s.syncOptions()
	return s, nil
}

// finishSession ends an in-progress session (early quit or expiry) and
// shows the results for whatever was answered.
func (s *SessionScreen) finishSession(now time.Time) (screen.Screen, tea.Cmd) {
	s.engine.FinishEarly(now)
	return s.persistAndShowResults()
}

func (s *SessionScreen) persistAndShowResults() (screen.Screen, tea.Cmd) {
	summary := s.engine.Summarize()
	_ = s.hist.Append(context.Background(), summary)

	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: results.New(s.bank, summary)}
	}
}

// syncOptions rebuilds the option list for the question under the cursor.
func (s *SessionScreen) syncOptions() {
	q := s.engine.Current()
	if q == nil {
		return
	}
	opts := make([]components.Option, 0, len(q.Options))
	for _, label := range q.OptionLabels() {
		opts = append(opts, components.Option{Label: label, Text: q.Options[label]})
	}
	s.options = components.NewOptionList(opts, q.CorrectLabel)
	s.engine.Select(s.options.SelectedLabel())
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
