package desk

import (
	"sort"
	"strings"

	"github.com/patientdesk/patientdesk/internal/domain/patient"
)

// NoSort is the sort column of a list that shows rows in received order.
const NoSort = -1

// ListView is the displayed, selectable copy of the loaded records. It holds
// at most one selection, addressed by row index.
type ListView struct {
	rows     []patient.Patient
	received []patient.Patient
	selected int
	onSelect func(patient.Patient)

	sortCol  int
	sortDesc bool
}

func NewListView() *ListView {
	return &ListView{selected: -1, sortCol: NoSort}
}

// OnSelect registers the callback run with the record of every new selection.
func (v *ListView) OnSelect(fn func(patient.Patient)) {
	v.onSelect = fn
}

// ReplaceAll drops the current rows and selection and shows rows in the order
// given. Any client-side sort is cleared.
func (v *ListView) ReplaceAll(rows []*patient.Patient) {
	v.received = make([]patient.Patient, 0, len(rows))
	for _, p := range rows {
		v.received = append(v.received, *p)
	}
	v.rows = make([]patient.Patient, len(v.received))
	copy(v.rows, v.received)
	v.selected = -1
	v.sortCol = NoSort
	v.sortDesc = false
}

// Select highlights row index and fires the on-select callback. It returns
// false and leaves the selection alone when index is out of range.
func (v *ListView) Select(index int) bool {
	if index < 0 || index >= len(v.rows) {
		return false
	}
	v.selected = index
	if v.onSelect != nil {
		v.onSelect(v.rows[index])
	}
	return true
}

// SelectByID selects the row carrying id, if it is displayed.
func (v *ListView) SelectByID(id int64) bool {
	for i := range v.rows {
		if v.rows[i].ID == id {
			return v.Select(i)
		}
	}
	return false
}

func (v *ListView) ClearSelection() {
	v.selected = -1
}

// Selected returns the highlighted record.
func (v *ListView) Selected() (patient.Patient, bool) {
	if v.selected < 0 {
		return patient.Patient{}, false
	}
	return v.rows[v.selected], true
}

// SelectedID returns the id of the highlighted record.
func (v *ListView) SelectedID() (int64, bool) {
	p, ok := v.Selected()
	return p.ID, ok
}

// SelectedIndex is the highlighted row, or -1.
func (v *ListView) SelectedIndex() int {
	return v.selected
}

// SortBy orders the rows by one of patient.Columns. The sort is stable and
// the selection stays on the same record.
func (v *ListView) SortBy(column int, descending bool) {
	if column < 0 || column >= len(patient.Columns) {
		return
	}
	selID, hadSel := v.SelectedID()

	sort.SliceStable(v.rows, func(i, j int) bool {
		c := compareColumn(&v.rows[i], &v.rows[j], column)
		if descending {
			return c > 0
		}
		return c < 0
	})
	v.sortCol = column
	v.sortDesc = descending
	if hadSel {
		v.reselect(selID)
	}
}

// ClearSort puts the rows back in the order they were received, keeping the
// selection on the same record.
func (v *ListView) ClearSort() {
	selID, hadSel := v.SelectedID()
	copy(v.rows, v.received)
	v.sortCol = NoSort
	v.sortDesc = false
	if hadSel {
		v.reselect(selID)
	}
}

func (v *ListView) reselect(id int64) {
	for i := range v.rows {
		if v.rows[i].ID == id {
			v.selected = i
			return
		}
	}
}

// SortColumn reports the active sort, NoSort when rows are in received order.
func (v *ListView) SortColumn() (column int, descending bool) {
	return v.sortCol, v.sortDesc
}

func (v *ListView) Rows() []patient.Patient {
	out := make([]patient.Patient, len(v.rows))
	copy(out, v.rows)
	return out
}

func (v *ListView) Len() int {
	return len(v.rows)
}

// Cells returns the display strings of row i, id first.
func (v *ListView) Cells(i int) []string {
	if i < 0 || i >= len(v.rows) {
		return nil
	}
	return v.rows[i].Cells()
}

func compareColumn(a, b *patient.Patient, column int) int {
	if column == 0 {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	}
	return strings.Compare(a.Values()[column-1], b.Values()[column-1])
}
