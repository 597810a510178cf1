package desk

import (
	"testing"

	"github.com/patientdesk/patientdesk/internal/domain/patient"
)

func TestForm_ResetSnapshot(t *testing.T) {
	f := NewForm()
	f.Set(FieldFullName, "Nguyen Van A")
	f.Reset()

	want := patient.Patient{Gender: patient.GenderMale}
	if got := f.Snapshot(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestForm_PopulateSnapshotRoundTrip(t *testing.T) {
	p := patient.Patient{
		ID: 5, PatientCode: "BN005", FullName: "Vo Thi E", Gender: "Unspecified",
		BirthDate: "1970-07-07", Phone: "028 123", Address: "Can Tho",
		Diagnosis: "Diabetes", AdmissionDate: "2024-03-03", Note: "insulin",
	}
	f := NewForm()
	f.PopulateFrom(p)

	want := p
	want.ID = 0
	if got := f.Snapshot(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if f.Get(FieldGender) != "Unspecified" {
		t.Errorf("expected stored gender kept verbatim, got %q", f.Get(FieldGender))
	}
}

func TestForm_FieldsOrderAndLabels(t *testing.T) {
	fields := Fields()
	if len(fields) != 9 {
		t.Fatalf("expected 9 fields, got %d", len(fields))
	}
	for i, f := range fields {
		if f.Label() != patient.ColumnLabels[i+1] {
			t.Errorf("field %d: label %q does not match column %q", i, f.Label(), patient.ColumnLabels[i+1])
		}
	}
	if !FieldPatientCode.Required() || !FieldFullName.Required() || FieldNote.Required() {
		t.Error("expected only code and name to be required")
	}
	if Field(42).Label() != "" {
		t.Error("expected empty label for unknown field")
	}
}

func TestForm_CycleGender(t *testing.T) {
	f := NewForm()

	if g := f.CycleGender(1); g != patient.GenderFemale {
		t.Errorf("expected Female, got %q", g)
	}
	if g := f.CycleGender(1); g != patient.GenderOther {
		t.Errorf("expected Other, got %q", g)
	}
	if g := f.CycleGender(1); g != patient.GenderMale {
		t.Errorf("expected wrap to Male, got %q", g)
	}
	if g := f.CycleGender(-1); g != patient.GenderOther {
		t.Errorf("expected wrap back to Other, got %q", g)
	}

	f.Set(FieldGender, "Unknown")
	if g := f.CycleGender(-1); g != patient.GenderMale {
		t.Errorf("expected out-of-set value to step to first option, got %q", g)
	}
}
