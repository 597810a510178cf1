package patient

import (
	"strconv"
)

// Suggested gender options. The first one is the default for new records.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// GenderOptions is the closed set offered for new entries. Stored values are
// not checked against it.
var GenderOptions = []string{GenderMale, GenderFemale, GenderOther}

// DefaultGender returns the option preselected on a blank form.
func DefaultGender() string {
	return GenderOptions[0]
}

// Patient maps to the patients table.
type Patient struct {
	ID            int64  `db:"id" json:"id"`
	PatientCode   string `db:"patient_code" json:"patient_code"`
	FullName      string `db:"full_name" json:"full_name"`
	Gender        string `db:"gender" json:"gender"`
	BirthDate     string `db:"birth_date" json:"birth_date"`
	Phone         string `db:"phone" json:"phone"`
	Address       string `db:"address" json:"address"`
	Diagnosis     string `db:"diagnosis" json:"diagnosis"`
	AdmissionDate string `db:"admission_date" json:"admission_date"`
	Note          string `db:"note" json:"note"`
}

// Columns lists the table columns in schema order, id first.
var Columns = []string{
	"id", "patient_code", "full_name", "gender", "birth_date",
	"phone", "address", "diagnosis", "admission_date", "note",
}

// ColumnLabels are the human-readable headers matching Columns.
var ColumnLabels = []string{
	"ID", "Patient Code", "Full Name", "Gender", "Birth Date",
	"Phone", "Address", "Diagnosis", "Admission Date", "Note",
}

// Values returns the nine non-id attributes in schema order.
func (p *Patient) Values() []string {
	return []string{
		p.PatientCode, p.FullName, p.Gender, p.BirthDate, p.Phone,
		p.Address, p.Diagnosis, p.AdmissionDate, p.Note,
	}
}

// Cells returns the display row for the record: id followed by Values.
func (p *Patient) Cells() []string {
	return append([]string{strconv.FormatInt(p.ID, 10)}, p.Values()...)
}

// Row returns the record as spreadsheet cells; the id stays numeric.
func (p *Patient) Row() []any {
	row := make([]any, 0, len(Columns))
	row = append(row, p.ID)
	for _, v := range p.Values() {
		row = append(row, v)
	}
	return row
}

// MissingRequired reports the required attributes that are empty.
func (p *Patient) MissingRequired() []string {
	var missing []string
	if p.PatientCode == "" {
		missing = append(missing, "patient_code")
	}
	if p.FullName == "" {
		missing = append(missing, "full_name")
	}
	return missing
}

// IsKnownGender reports whether g is one of GenderOptions.
func IsKnownGender(g string) bool {
	for _, opt := range GenderOptions {
		if opt == g {
			return true
		}
	}
	return false
}
