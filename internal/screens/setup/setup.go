package setup

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jvance/examdeck/internal/bank"
	"github.com/jvance/examdeck/internal/exposure"
	"github.com/jvance/examdeck/internal/history"
	"github.com/jvance/examdeck/internal/router"
	"github.com/jvance/examdeck/internal/sampler"
	"github.com/jvance/examdeck/internal/screen"
	sessionscreen "github.com/jvance/examdeck/internal/screens/session"
	sess "github.com/jvance/examdeck/internal/session"
	"github.com/jvance/examdeck/internal/ui/components"
	"github.com/jvance/examdeck/internal/ui/layout"
	"github.com/jvance/examdeck/internal/ui/theme"
)

// Form rows, top to bottom.
const (
	rowCount = iota
	rowDomain1
	rowDomain2
	rowDomain3
	rowDomain4
	rowTimer
	rowMinutes
	rowStart
	rowMax
)

const (
	minCount = 1
	maxCount = 150
	stepSize = 5

	minMinutes = 5
	maxMinutes = 240

	defaultMinutes = 30
)

// SetupScreen configures a practice or quiz session before starting it.
type SetupScreen struct {
	smp     *sampler.Sampler
	tracker *exposure.Tracker
	hist    *history.Store
	bank    *bank.Bank

	mode         sess.Mode
	countInput   components.TextInput
	minutesInput components.TextInput
	domains      [bank.NumDomains + 1]bool // 1-indexed
	timer        bool
	row          int
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a SetupScreen for the given mode. Quiz mode starts with the
// timer on; practice starts untimed.
func New(smp *sampler.Sampler, tracker *exposure.Tracker, hist *history.Store, bnk *bank.Bank, mode sess.Mode) *SetupScreen {
	countInput := components.NewTextInput("", true, 3)
	countInput.SetValue(strconv.Itoa(sess.DefaultCount))
	minutesInput := components.NewTextInput("", true, 3)
	minutesInput.SetValue(strconv.Itoa(defaultMinutes))
	minutesInput.Model.Blur()

	s := &SetupScreen{
		smp:          smp,
		tracker:      tracker,
		hist:         hist,
		bank:         bnk,
		mode:         mode,
		countInput:   countInput,
		minutesInput: minutesInput,
		timer:        mode == sess.ModeQuiz,
	}
	for d := 1; d <= bank.NumDomains; d++ {
		s.domains[d] = true
	}
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	return s.countInput.Init()
}

func (s *SetupScreen) Title() string {
	if s.mode == sess.ModeQuiz {
		return "Quiz Setup"
	}
	return "Practice Setup"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "←→", Description: "Adjust"},
		{Key: "Space", Description: "Toggle"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		s.setRow(s.prevRow())
	case "down", "j":
		s.setRow(s.nextRow())
	case "left":
		s.adjust(-1)
	case "right":
		s.adjust(+1)
	case "space":
		s.toggle()
	case "enter":
		if s.row == rowStart {
			return s, s.start()
		}
		s.toggle()
	default:
		// Digits and backspace go to the numeric field under the cursor.
		var cmd tea.Cmd
		switch s.row {
		case rowCount:
			s.countInput, cmd = s.countInput.Update(msg)
		case rowMinutes:
			s.minutesInput, cmd = s.minutesInput.Update(msg)
		}
		return s, cmd
	}

	return s, nil
}

// setRow moves the cursor and the input focus together.
func (s *SetupScreen) setRow(r int) {
	s.row = r
	if r == rowCount {
		s.countInput.Model.Focus()
	} else {
		s.countInput.Model.Blur()
	}
	if r == rowMinutes {
		s.minutesInput.Model.Focus()
	} else {
		s.minutesInput.Model.Blur()
	}
}

// prevRow and nextRow skip the minutes row while the timer is off.
func (s *SetupScreen) prevRow() int {
	r := s.row
	for r > 0 {
		r--
		if r != rowMinutes || s.timer {
			return r
		}
	}
	return s.row
}

func (s *SetupScreen) nextRow() int {
	r := s.row
	for r < rowMax-1 {
		r++
		if r != rowMinutes || s.timer {
			return r
		}
	}
	return s.row
}

func (s *SetupScreen) adjust(dir int) {
	switch s.row {
	case rowCount:
		v := clamp(s.count()+dir*stepSize, minCount, maxCount)
		s.countInput.SetValue(strconv.Itoa(v))
	case rowMinutes:
		v := clamp(s.minutes()+dir*stepSize, minMinutes, maxMinutes)
		s.minutesInput.SetValue(strconv.Itoa(v))
	}
}

func (s *SetupScreen) toggle() {
	switch s.row {
	case rowDomain1, rowDomain2, rowDomain3, rowDomain4:
		d := s.row - rowDomain1 + 1
		s.domains[d] = !s.domains[d]
	case rowTimer:
		s.timer = !s.timer
	}
}

// count returns the entered question count, falling back to the default
// when the field is empty or unparsable.
func (s *SetupScreen) count() int {
	v, err := s.countInput.NumericValue()
	if err != nil {
		return sess.DefaultCount
	}
	return v
}

func (s *SetupScreen) minutes() int {
	v, err := s.minutesInput.NumericValue()
	if err != nil {
		return defaultMinutes
	}
	return v
}

// start swaps this screen for the running session, so backing out of the
// results lands on home.
func (s *SetupScreen) start() tea.Cmd {
	cfg := s.config()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{
			Screen: sessionscreen.New(s.smp, s.tracker, s.hist, s.bank, cfg),
		}
	}
}

func (s *SetupScreen) config() sess.Config {
	domains := make(map[int]bool)
	for d := 1; d <= bank.NumDomains; d++ {
		if s.domains[d] {
			domains[d] = true
		}
	}
	// All domains selected means no filter.
	if len(domains) == bank.NumDomains {
		domains = nil
	}
	return sess.Config{
		Count:        clamp(s.count(), minCount, maxCount),
		Domains:      domains,
		Mode:         s.mode,
		TimerEnabled: s.timer,
		TimerMinutes: clamp(s.minutes(), minMinutes, maxMinutes),
	}
}

func (s *SetupScreen) View(width, height int) string {
	label := lipgloss.NewStyle().Foreground(theme.Text)
	active := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	row := func(r int, text string) string {
		prefix := "    "
		style := label
		if r == s.row {
			prefix = "  ▸ "
			style = active
		}
		return style.Render(prefix + text)
	}

	// Numeric rows mix a styled label with the live input view.
	numericRow := func(r int, name string, input components.TextInput) string {
		prefix := "    "
		style := label
		if r == s.row {
			prefix = "  ▸ "
			style = active
		}
		return style.Render(prefix+name+"◂ ") + input.View() + style.Render(" ▸")
	}

	var b strings.Builder
	b.WriteString(numericRow(rowCount, "Questions      ", s.countInput))
	b.WriteString("\n\n")

	for d := 1; d <= bank.NumDomains; d++ {
		mark := "[ ]"
		if s.domains[d] {
			mark = "[x]"
		}
		pool := len(s.bank.ByDomain(d))
		b.WriteString(row(rowDomain1+d-1,
			fmt.Sprintf("%s Domain %d  %-38s %s", mark, d, bank.DomainName(d),
				dim.Render(fmt.Sprintf("(%d)", pool)))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	timerMark := "[ ]"
	if s.timer {
		timerMark = "[x]"
	}
	b.WriteString(row(rowTimer, fmt.Sprintf("%s Timer", timerMark)))
	b.WriteString("\n")
	if s.timer {
		b.WriteString(numericRow(rowMinutes, "Minutes        ", s.minutesInput))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	startStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if s.row == rowStart {
		startStyle = lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.Primary).Bold(true)
	}
	b.WriteString("  " + startStyle.Render("  START  "))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
