package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/patientdesk/patientdesk/internal/config"
	"github.com/patientdesk/patientdesk/internal/domain/patient"
	"github.com/patientdesk/patientdesk/internal/platform/db"
	"github.com/patientdesk/patientdesk/internal/platform/middleware"
)

func runCLI(t *testing.T, dbPath, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--db", dbPath, "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func readPatient(t *testing.T, dbPath string, id int64) (*patient.Patient, error) {
	t.Helper()
	conn, err := db.OpenSQLite(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()
	return patient.NewPatientRepoSQLite(conn).GetByID(context.Background(), id)
}

func TestCLI_AddAndList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "patients.db")

	out, err := runCLI(t, dbPath, "", "add", "--code", "BN001", "--name", "Nguyen Van A", "--diagnosis", "Flu")
	if err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}
	if !strings.Contains(out, "added patient 1") {
		t.Errorf("unexpected add output %q", out)
	}

	out, err = runCLI(t, dbPath, "", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"Patient Code", "BN001", "Nguyen Van A", "Male", "Flu", "1 patient(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected list output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestCLI_AddRequiresFields(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "patients.db")

	_, err := runCLI(t, dbPath, "", "add", "--name", "Nguyen Van A")
	var verr *patient.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCLI_UpdateKeepsUnsetFields(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "patients.db")
	runCLI(t, dbPath, "", "add", "--code", "BN001", "--name", "Nguyen Van A", "--diagnosis", "Flu")

	if out, err := runCLI(t, dbPath, "", "update", "1", "--note", "recovering"); err != nil {
		t.Fatalf("update: %v\n%s", err, out)
	}
	p, err := readPatient(t, dbPath, 1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if p.Note != "recovering" || p.Diagnosis != "Flu" || p.FullName != "Nguyen Van A" {
		t.Errorf("unexpected record after update %+v", p)
	}

	if out, err := runCLI(t, dbPath, "", "update", "1", "--code", ""); err != nil {
		t.Fatalf("update: %v\n%s", err, out)
	}
	p, err = readPatient(t, dbPath, 1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if p.PatientCode != "" || p.FullName != "Nguyen Van A" {
		t.Errorf("expected code cleared and name kept, got %+v", p)
	}
}

func TestCLI_UpdateMissing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "patients.db")

	_, err := runCLI(t, dbPath, "", "update", "9", "--note", "x")
	if !errors.Is(err, patient.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := runCLI(t, dbPath, "", "update", "abc"); err == nil {
		t.Error("expected error for invalid id")
	}
}

func TestCLI_DeleteConfirmation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "patients.db")
	runCLI(t, dbPath, "", "add", "--code", "BN001", "--name", "Nguyen Van A")
	runCLI(t, dbPath, "", "add", "--code", "BN002", "--name", "Tran Thi B")

	out, err := runCLI(t, dbPath, "n\n", "delete", "1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out, "cancelled") {
		t.Errorf("expected cancel, got %q", out)
	}
	if _, err := readPatient(t, dbPath, 1); err != nil {
		t.Fatalf("expected patient kept: %v", err)
	}

	if _, err := runCLI(t, dbPath, "yes\n", "delete", "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := readPatient(t, dbPath, 1); !errors.Is(err, patient.ErrNotFound) {
		t.Errorf("expected patient 1 deleted, got %v", err)
	}

	if _, err := runCLI(t, dbPath, "", "delete", "2", "--yes"); err != nil {
		t.Fatalf("delete --yes: %v", err)
	}
	if _, err := readPatient(t, dbPath, 2); !errors.Is(err, patient.ErrNotFound) {
		t.Errorf("expected patient 2 deleted, got %v", err)
	}
}

func TestCLI_Search(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "patients.db")
	runCLI(t, dbPath, "", "add", "--code", "BN001", "--name", "Nguyen Van A")
	runCLI(t, dbPath, "", "add", "--code", "BN002", "--name", "Tran Thi B")

	out, err := runCLI(t, dbPath, "", "search", "BN002")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Tran Thi B") || strings.Contains(out, "Nguyen Van A") {
		t.Errorf("unexpected search output:\n%s", out)
	}
}

func TestCLI_Export(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "patients.db")
	outPath := filepath.Join(dir, "patients.csv")
	runCLI(t, dbPath, "", "add", "--code", "BN001", "--name", "Nguyen Van A")
	runCLI(t, dbPath, "", "add", "--code", "BN002", "--name", "Tran Thi B")

	out, err := runCLI(t, dbPath, "", "export", "--out", outPath)
	if err != nil {
		t.Fatalf("export: %v\n%s", err, out)
	}
	if !strings.Contains(out, "exported 2 patient(s)") {
		t.Errorf("unexpected output %q", out)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 3 || recs[0][0] != "ID" || recs[2][2] != "Tran Thi B" {
		t.Errorf("unexpected csv %v", recs)
	}

	if _, err := runCLI(t, dbPath, "", "export", "--out", filepath.Join(dir, "patients.ods")); err == nil {
		t.Error("expected unsupported extension to be rejected")
	}
}

func newTestApp(t *testing.T) *app {
	t.Helper()
	ctx := context.Background()
	handle, err := db.Open(ctx, filepath.Join(t.TempDir(), "patients.db"), 4, 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { handle.Close() })

	svc := patient.NewService(newRepository(handle), zerolog.Nop())
	if err := svc.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	return &app{
		cfg:      &config.Config{ListenAddr: "127.0.0.1:0"},
		logger:   zerolog.Nop(),
		handle:   handle,
		svc:      svc,
		closeLog: func() error { return nil },
	}
}

func TestServer_Routes(t *testing.T) {
	e := newServer(newTestApp(t))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients",
		strings.NewReader(`{"patient_code":"BN001","full_name":"Nguyen Van A"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected request id header")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/health/db", http.StatusOK},
		{http.MethodGet, "/api/v1/patients", http.StatusOK},
		{http.MethodGet, "/api/v1/patients/1", http.StatusOK},
		{http.MethodGet, "/api/v1/patients/2", http.StatusNotFound},
		{http.MethodGet, "/api/v1/patients/x", http.StatusBadRequest},
		{http.MethodDelete, "/api/v1/patients/1", http.StatusNoContent},
		{http.MethodDelete, "/api/v1/patients/1", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.want {
			t.Errorf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, rec.Code)
		}
	}
}

func TestServer_ValidationIs400(t *testing.T) {
	e := newServer(newTestApp(t))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(`{"patient_code":"BN001"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "full_name required") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestApplyFlags(t *testing.T) {
	cmd := exportCmd()
	cmd.Flags().String("db", "", "")
	cmd.ParseFlags([]string{"--out", "x.csv", "--db", "other.db"})

	cfg := &config.Config{DatabaseURL: "patients.db", ExportPath: "patients.xlsx", ListenAddr: "127.0.0.1:8000"}
	applyFlags(cmd, cfg)
	if cfg.ExportPath != "x.csv" || cfg.DatabaseURL != "other.db" {
		t.Errorf("expected flag overrides, got %+v", cfg)
	}
	if cfg.ListenAddr != "127.0.0.1:8000" {
		t.Error("expected unset flags to leave config alone")
	}
}

func TestCLI_ListIgnoresListenAddr(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "0.0.0.0:8000")
	dbPath := filepath.Join(t.TempDir(), "patients.db")

	if out, err := runCLI(t, dbPath, "", "list"); err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
}

func TestRunServer_RejectsNonLoopback(t *testing.T) {
	a := newTestApp(t)
	a.cfg.ListenAddr = "0.0.0.0:0"

	err := runServer(context.Background(), a)
	if err == nil || !strings.Contains(err.Error(), "loopback") {
		t.Errorf("expected loopback error, got %v", err)
	}
}
