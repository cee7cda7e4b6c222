package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/jvance/examdeck/internal/ui/theme"
)

// Option is one labeled answer choice.
type Option struct {
	Label string
	Text  string
}

// OptionList is a multiple-choice answer selector. Labels are dynamic;
// a question may carry two options or five. After Reveal the list is
// frozen and colors the correct and chosen rows.
type OptionList struct {
	Options      []Option
	Selected     int
	CorrectLabel string
	Revealed     bool
	ChosenLabel  string
}

// NewOptionList creates an option list with the cursor on the first row.
func NewOptionList(options []Option, correctLabel string) OptionList {
	return OptionList{
		Options:      options,
		CorrectLabel: correctLabel,
		Selected:     0,
	}
}

// Init returns nil.
func (o OptionList) Init() tea.Cmd {
	return nil
}

// Update handles cursor movement and direct label keys. Input is ignored
// once revealed.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if o.Revealed {
		return o, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if o.Selected > 0 {
			o.Selected--
		}
	case "down", "j":
		if o.Selected < len(o.Options)-1 {
			o.Selected++
		}
	default:
		// A label key jumps straight to its row.
		for i, opt := range o.Options {
			if strings.EqualFold(key, opt.Label) {
				o.Selected = i
				break
			}
		}
	}

	return o, nil
}

// SelectedLabel returns the label under the cursor, or "".
func (o OptionList) SelectedLabel() string {
	if o.Selected < 0 || o.Selected >= len(o.Options) {
		return ""
	}
	return o.Options[o.Selected].Label
}

// Reveal freezes the list and marks the chosen label for display.
func (o OptionList) Reveal(chosenLabel string) OptionList {
	o.Revealed = true
	o.ChosenLabel = chosenLabel
	return o
}

// View renders the option rows.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Selected && !o.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, opt.Label, opt.Text)

		if o.Revealed {
			switch opt.Label {
			case o.CorrectLabel:
				b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line))
			case o.ChosenLabel:
				b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(line))
			default:
				b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(line))
			}
		} else if i == o.Selected {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
