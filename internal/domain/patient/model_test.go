package patient

import (
	"reflect"
	"testing"
)

func TestPatient_Cells(t *testing.T) {
	p := &Patient{
		ID: 12, PatientCode: "BN012", FullName: "Pham Thi D", Gender: GenderFemale,
		BirthDate: "2001-03-04", Phone: "0912", Address: "Hanoi",
		Diagnosis: "Asthma", AdmissionDate: "2024-02-02", Note: "",
	}

	want := []string{"12", "BN012", "Pham Thi D", "Female", "2001-03-04", "0912", "Hanoi", "Asthma", "2024-02-02", ""}
	if got := p.Cells(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if len(p.Cells()) != len(Columns) || len(ColumnLabels) != len(Columns) {
		t.Error("expected cells, columns and labels to line up")
	}

	row := p.Row()
	if id, ok := row[0].(int64); !ok || id != 12 {
		t.Errorf("expected numeric id first, got %#v", row[0])
	}
	if row[2] != "Pham Thi D" {
		t.Errorf("expected full name in third cell, got %v", row[2])
	}
}

func TestPatient_MissingRequired(t *testing.T) {
	if m := (&Patient{PatientCode: "A", FullName: "B"}).MissingRequired(); len(m) != 0 {
		t.Errorf("expected nothing missing, got %v", m)
	}
	if m := (&Patient{PatientCode: " ", FullName: "\t"}).MissingRequired(); len(m) != 0 {
		t.Errorf("expected whitespace to count as a value, got %v", m)
	}
	m := (&Patient{}).MissingRequired()
	if !reflect.DeepEqual(m, []string{"patient_code", "full_name"}) {
		t.Errorf("unexpected missing fields %v", m)
	}
}

func TestGenderOptions(t *testing.T) {
	if DefaultGender() != GenderMale {
		t.Errorf("expected Male default, got %q", DefaultGender())
	}
	if !IsKnownGender(GenderOther) {
		t.Error("expected Other to be a known option")
	}
	if IsKnownGender("male") {
		t.Error("expected option match to be exact")
	}
}

func TestLikePattern(t *testing.T) {
	cases := map[string]string{
		"Van":    "%Van%",
		"10%":    `%10\%%`,
		"a_b":    `%a\_b%`,
		`c:\tmp`: `%c:\\tmp%`,
	}
	for in, want := range cases {
		if got := likePattern(in); got != want {
			t.Errorf("likePattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: []string{"patient_code", "full_name"}}
	if err.Error() != "patient_code and full_name required" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
