// Package desk holds the interactive state shared by every shell: the entry
// form, the list of loaded records with its selection, and the session that
// drives the patient service.
package desk

import (
	"github.com/patientdesk/patientdesk/internal/domain/patient"
)

// Field names one editable attribute of the form.
type Field int

const (
	FieldPatientCode Field = iota
	FieldFullName
	FieldGender
	FieldBirthDate
	FieldPhone
	FieldAddress
	FieldDiagnosis
	FieldAdmissionDate
	FieldNote

	// NumFields counts the form fields.
	NumFields
)

var fieldLabels = [NumFields]string{
	"Patient Code", "Full Name", "Gender", "Birth Date", "Phone",
	"Address", "Diagnosis", "Admission Date", "Note",
}

func (f Field) Label() string {
	if f < 0 || f >= NumFields {
		return ""
	}
	return fieldLabels[f]
}

// Required reports whether the field must be non-empty when adding.
func (f Field) Required() bool {
	return f == FieldPatientCode || f == FieldFullName
}

// Fields returns every field in attribute order.
func Fields() []Field {
	out := make([]Field, 0, NumFields)
	for f := Field(0); f < NumFields; f++ {
		out = append(out, f)
	}
	return out
}

// Form mirrors the nine non-id attributes of a patient.
type Form struct {
	values [NumFields]string
}

// NewForm returns a form in its reset state.
func NewForm() *Form {
	f := &Form{}
	f.Reset()
	return f
}

// Reset empties every field and preselects the default gender.
func (f *Form) Reset() {
	f.values = [NumFields]string{}
	f.values[FieldGender] = patient.DefaultGender()
}

// PopulateFrom copies the record's values into the form. Gender is taken as
// stored even when it is not one of the suggested options.
func (f *Form) PopulateFrom(p patient.Patient) {
	copy(f.values[:], p.Values())
}

// Snapshot returns the current values as a record with no id.
func (f *Form) Snapshot() patient.Patient {
	v := f.values
	return patient.Patient{
		PatientCode:   v[FieldPatientCode],
		FullName:      v[FieldFullName],
		Gender:        v[FieldGender],
		BirthDate:     v[FieldBirthDate],
		Phone:         v[FieldPhone],
		Address:       v[FieldAddress],
		Diagnosis:     v[FieldDiagnosis],
		AdmissionDate: v[FieldAdmissionDate],
		Note:          v[FieldNote],
	}
}

func (f *Form) Get(field Field) string {
	if field < 0 || field >= NumFields {
		return ""
	}
	return f.values[field]
}

func (f *Form) Set(field Field, value string) {
	if field < 0 || field >= NumFields {
		return
	}
	f.values[field] = value
}

// CycleGender moves the gender through the suggested options by step,
// wrapping at both ends. A value outside the options moves to the first one.
func (f *Form) CycleGender(step int) string {
	opts := patient.GenderOptions
	cur := -1
	for i, o := range opts {
		if o == f.values[FieldGender] {
			cur = i
			break
		}
	}
	if cur < 0 {
		f.values[FieldGender] = opts[0]
		return opts[0]
	}
	n := len(opts)
	next := ((cur+step)%n + n) % n
	f.values[FieldGender] = opts[next]
	return opts[next]
}
