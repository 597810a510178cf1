package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/patientdesk/patientdesk/internal/desk"
	"github.com/patientdesk/patientdesk/internal/domain/patient"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	labelStyle   = lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("#a6adc8"))
	focusStyle   = lipgloss.NewStyle().Width(16).Bold(true).Foreground(lipgloss.Color("#f9e2af"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	choiceStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a6e3a1"))
	dialogStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#89b4fa")).Padding(1, 3)
	errDialogBox = dialogStyle.BorderForeground(lipgloss.Color("#f38ba8"))
)

const helpLine = "tab/shift+tab focus · ctrl+a add · ctrl+u update · ctrl+d delete · ctrl+r reset · " +
	"enter search/select · ctrl+l all · ctrl+s sort · ctrl+e export · esc quit"

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(lipgloss.Color("#1e1e2e")).Background(lipgloss.Color("#89b4fa"))
	return s
}

func (m *Model) View() string {
	if m.dialog != nil {
		return m.dialogView()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Patient Desk"))
	b.WriteString("\n\n")

	for _, f := range desk.Fields() {
		b.WriteString(m.label(int(f), f.Label(), f.Required()))
		if f == desk.FieldGender {
			b.WriteString(m.genderView())
		} else {
			b.WriteString(m.inputs[f].View())
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(m.label(focusSearch, "Search", false))
	b.WriteString(m.search.View())
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	status := fmt.Sprintf("%d patient(s)", m.session.View().Len())
	if id, ok := m.session.View().SelectedID(); ok {
		status += fmt.Sprintf(" · selected %d", id)
	}
	if m.status != "" {
		status += " · " + m.status
	}
	b.WriteString(mutedStyle.Render(status))
	b.WriteByte('\n')
	b.WriteString(mutedStyle.Render(helpLine))
	return b.String()
}

func (m *Model) label(slot int, text string, required bool) string {
	if required {
		text += " *"
	}
	if m.focus == slot {
		return focusStyle.Render(text)
	}
	return labelStyle.Render(text)
}

// genderView renders the suggested options with the current one marked. A
// stored value outside the options is shown on its own.
func (m *Model) genderView() string {
	cur := m.session.Form().Get(desk.FieldGender)
	if !patient.IsKnownGender(cur) {
		return choiceStyle.Render(cur) + mutedStyle.Render("  (←/→ to choose)")
	}
	parts := make([]string, 0, len(patient.GenderOptions))
	for _, opt := range patient.GenderOptions {
		if opt == cur {
			parts = append(parts, choiceStyle.Render("("+opt+")"))
		} else {
			parts = append(parts, mutedStyle.Render(" "+opt+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) dialogView() string {
	box := dialogStyle
	if m.dialog.isErr {
		box = errDialogBox
	}
	hint := "press any key"
	if m.dialog.confirm != nil {
		hint = "y to confirm, any other key to cancel"
	}
	content := titleStyle.Render(m.dialog.title) + "\n\n" + m.dialog.body + "\n\n" + mutedStyle.Render(hint)
	rendered := box.Render(content)
	if m.width == 0 || m.height == 0 {
		return rendered
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, rendered)
}
