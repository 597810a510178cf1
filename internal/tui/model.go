// Package tui is the full-screen terminal desk: entry form, search box,
// patient table and modal dialogs on top of a desk.Session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/patientdesk/patientdesk/internal/desk"
	"github.com/patientdesk/patientdesk/internal/domain/patient"
)

// Focus slots after the form fields.
const (
	focusSearch = int(desk.NumFields) + iota
	focusTable
	focusCount
)

type dialog struct {
	title   string
	body    string
	isErr   bool
	confirm func() tea.Cmd
}

// Model is the bubbletea model of the desk.
type Model struct {
	ctx     context.Context
	session *desk.Session

	inputs []textinput.Model
	search textinput.Model
	table  table.Model
	focus  int

	dialog *dialog
	status string
	width  int
	height int
}

// New builds the model and loads every record.
func New(ctx context.Context, session *desk.Session) *Model {
	m := &Model{ctx: ctx, session: session}

	for _, f := range desk.Fields() {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Width = 40
		ti.Placeholder = f.Label()
		m.inputs = append(m.inputs, ti)
	}
	m.search = textinput.New()
	m.search.Prompt = ""
	m.search.Width = 40
	m.search.Placeholder = "name or patient code"

	cols := make([]table.Column, 0, len(patient.ColumnLabels))
	for i, label := range patient.ColumnLabels {
		w := 14
		if i == 0 {
			w = 5
		}
		cols = append(cols, table.Column{Title: label, Width: w})
	}
	m.table = table.New(table.WithColumns(cols), table.WithHeight(10))
	m.table.SetStyles(tableStyles())

	m.setFocus(0)
	m.syncInputs()
	if err := session.Reload(ctx); err != nil {
		m.showError(err)
	}
	m.refreshTable()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, session *desk.Session) error {
	p := tea.NewProgram(New(ctx, session), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if h := msg.Height - len(m.inputs) - 10; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.forward(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.dialog != nil {
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		d := m.dialog
		m.dialog = nil
		if d.confirm != nil && strings.ToLower(key) == "y" {
			return m, d.confirm()
		}
		if d.confirm != nil {
			m.status = "delete cancelled"
		}
		return m, nil
	}

	switch key {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case "ctrl+a":
		return m, m.add()
	case "ctrl+u":
		return m, m.update()
	case "ctrl+d":
		return m, m.askDelete()
	case "ctrl+r":
		m.session.Reset()
		m.syncInputs()
		m.refreshTable()
		m.status = "form cleared"
		return m, nil
	case "ctrl+l":
		m.search.SetValue("")
		m.reload()
		return m, nil
	case "ctrl+e":
		return m, m.export()
	case "ctrl+s":
		m.cycleSort()
		return m, nil
	}

	switch {
	case m.focus == int(desk.FieldGender):
		switch key {
		case "left":
			m.session.Form().CycleGender(-1)
		case "right", " ":
			m.session.Form().CycleGender(1)
		}
		return m, nil
	case m.focus == focusSearch && key == "enter":
		if err := m.session.Search(m.ctx, m.search.Value()); err != nil {
			m.showError(err)
		}
		m.refreshTable()
		m.status = fmt.Sprintf("%d patient(s) found", m.session.View().Len())
		return m, nil
	case m.focus == focusTable && key == "enter":
		if m.session.Select(m.table.Cursor()) {
			m.syncInputs()
			if id, ok := m.session.View().SelectedID(); ok {
				m.status = fmt.Sprintf("patient %d selected", id)
			}
		}
		return m, nil
	}
	return m.forward(msg)
}

// forward hands msg to the focused component.
func (m *Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.focus == focusSearch:
		m.search, cmd = m.search.Update(msg)
	case m.focus == focusTable:
		m.table, cmd = m.table.Update(msg)
	case m.focus >= 0 && m.focus < len(m.inputs):
		f := desk.Field(m.focus)
		m.inputs[f], cmd = m.inputs[f].Update(msg)
		m.session.Form().Set(f, m.inputs[f].Value())
	}
	return m, cmd
}

func (m *Model) add() tea.Cmd {
	p, err := m.session.Add(m.ctx)
	m.afterMutation()
	if err != nil {
		m.showError(err)
		return nil
	}
	m.showInfo("Patient added", fmt.Sprintf("%s %s was saved with id %d.", p.PatientCode, p.FullName, p.ID))
	return nil
}

func (m *Model) update() tea.Cmd {
	p, err := m.session.Update(m.ctx)
	m.afterMutation()
	if err != nil {
		m.showError(err)
		return nil
	}
	m.showInfo("Patient updated", fmt.Sprintf("Patient %d was updated.", p.ID))
	return nil
}

func (m *Model) askDelete() tea.Cmd {
	id, err := m.session.RequireSelection("delete")
	if err != nil {
		m.showError(err)
		return nil
	}
	p, _ := m.session.View().Selected()
	m.dialog = &dialog{
		title: "Delete patient",
		body:  fmt.Sprintf("Delete patient %d (%s %s)? [y/n]", id, p.PatientCode, p.FullName),
		confirm: func() tea.Cmd {
			id, err := m.session.Delete(m.ctx)
			m.afterMutation()
			if err != nil {
				m.showError(err)
				return nil
			}
			m.showInfo("Patient deleted", fmt.Sprintf("Patient %d was deleted.", id))
			return nil
		},
	}
	return nil
}

func (m *Model) export() tea.Cmd {
	path, err := m.session.Export(m.ctx)
	if err != nil {
		m.showError(err)
		return nil
	}
	m.showInfo("Export complete", fmt.Sprintf("%d patient(s) written to %s.", m.session.View().Len(), path))
	return nil
}

func (m *Model) reload() {
	if err := m.session.Reload(m.ctx); err != nil {
		m.showError(err)
	}
	m.refreshTable()
	m.status = fmt.Sprintf("%d patient(s) loaded", m.session.View().Len())
}

// cycleSort walks the columns ascending; past the last one the rows go back
// to the order they were loaded in.
func (m *Model) cycleSort() {
	view := m.session.View()
	col, _ := view.SortColumn()
	next := col + 1
	if next >= len(patient.Columns) {
		view.ClearSort()
		m.refreshTable()
		m.status = "sort cleared"
		return
	}
	view.SortBy(next, false)
	m.refreshTable()
	m.status = "sorted by " + patient.ColumnLabels[next]
}

func (m *Model) afterMutation() {
	m.syncInputs()
	m.refreshTable()
}

func (m *Model) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.search.Blur()
	m.table.Blur()

	switch {
	case i == focusSearch:
		m.search.Focus()
	case i == focusTable:
		m.table.Focus()
	case i != int(desk.FieldGender) && i < len(m.inputs):
		m.inputs[i].Focus()
	}
}

// syncInputs copies the form into the text inputs.
func (m *Model) syncInputs() {
	form := m.session.Form()
	for _, f := range desk.Fields() {
		m.inputs[f].SetValue(form.Get(f))
	}
}

func (m *Model) refreshTable() {
	view := m.session.View()
	rows := make([]table.Row, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		rows = append(rows, table.Row(view.Cells(i)))
	}
	m.table.SetRows(rows)
	switch c := m.table.Cursor(); {
	case view.SelectedIndex() >= 0:
		m.table.SetCursor(view.SelectedIndex())
	case len(rows) > 0 && (c < 0 || c >= len(rows)):
		m.table.SetCursor(0)
	}
}

func (m *Model) showInfo(title, body string) {
	m.dialog = &dialog{title: title, body: body}
	m.status = title
}

func (m *Model) showError(err error) {
	d := &dialog{title: "Error", body: err.Error(), isErr: true}

	var verr *patient.ValidationError
	var serr *desk.SelectionRequiredError
	var nf *patient.NotFoundError
	var stErr *patient.StorageError
	switch {
	case errors.As(err, &verr):
		d.title = "Missing information"
		labels := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			labels = append(labels, fieldLabel(f))
		}
		d.body = strings.Join(labels, " and ") + " required."
	case errors.As(err, &serr):
		d.title = "No selection"
		d.body = fmt.Sprintf("Select a patient in the table to %s.", serr.Action)
	case errors.As(err, &nf):
		d.title = "Not found"
		d.body = fmt.Sprintf("Patient %d no longer exists. The list was reloaded.", nf.ID)
	case errors.As(err, &stErr):
		d.title = "Database error"
	}
	m.dialog = d
	m.status = d.title
}

func fieldLabel(column string) string {
	for i, c := range patient.Columns {
		if c == column {
			return patient.ColumnLabels[i]
		}
	}
	return column
}
