package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jvance/examdeck/internal/bank"
	"github.com/jvance/examdeck/internal/exposure"
	"github.com/jvance/examdeck/internal/history"
	"github.com/jvance/examdeck/internal/router"
	"github.com/jvance/examdeck/internal/sampler"
	"github.com/jvance/examdeck/internal/screen"
	"github.com/jvance/examdeck/internal/screens/home"
	"github.com/jvance/examdeck/internal/ui/layout"
)

// Options carries the dependencies the TUI needs. Bank may be nil when
// loading failed; BankErr then explains why and session entries stay
// disabled.
type Options struct {
	Bank    *bank.Bank
	BankErr error
	Sampler *sampler.Sampler
	Tracker *exposure.Tracker
	History *history.Store
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	opts   Options
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(opts.Bank, opts.BankErr, opts.Sampler, opts.Tracker, opts.History)
	return AppModel{
		router: router.New(homeScreen),
		opts:   opts,
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Esc is owned by the screens: the session screen turns it into
		// a quit confirmation, the others pop themselves.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	status := m.defaultStatus()
	if sp, ok := active.(screen.StatusProvider); ok {
		if s := sp.HeaderStatus(); s != "" {
			status = s
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	footerHints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); len(hints) > 0 {
			footerHints = hints
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// defaultStatus shows the bank size when no screen claims the slot.
func (m AppModel) defaultStatus() string {
	if m.opts.Bank == nil {
		return ""
	}
	return fmt.Sprintf("%d questions", m.opts.Bank.Count())
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
