package patient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AUTOINCREMENT keeps ids from being reused after the highest row is deleted.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS patients (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	patient_code TEXT NOT NULL DEFAULT '',
	full_name TEXT NOT NULL DEFAULT '',
	gender TEXT NOT NULL DEFAULT '',
	birth_date TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	diagnosis TEXT NOT NULL DEFAULT '',
	admission_date TEXT NOT NULL DEFAULT '',
	note TEXT NOT NULL DEFAULT ''
)`

type patientRepoSQLite struct {
	db *sql.DB
}

// NewPatientRepoSQLite returns a Repository backed by a local SQLite file.
func NewPatientRepoSQLite(db *sql.DB) Repository {
	return &patientRepoSQLite{db: db}
}

func (r *patientRepoSQLite) Init(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, sqliteSchema)
	return err
}

func (r *patientRepoSQLite) Create(ctx context.Context, p *Patient) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (
			patient_code, full_name, gender, birth_date, phone,
			address, diagnosis, admission_date, note
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PatientCode, p.FullName, p.Gender, p.BirthDate, p.Phone,
		p.Address, p.Diagnosis, p.AdmissionDate, p.Note,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *patientRepoSQLite) GetByID(ctx context.Context, id int64) (*Patient, error) {
	p, err := scanPatientSQL(r.db.QueryRowContext(ctx, `SELECT `+patientCols+` FROM patients WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *patientRepoSQLite) Update(ctx context.Context, p *Patient) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE patients SET
			patient_code=?, full_name=?, gender=?, birth_date=?, phone=?,
			address=?, diagnosis=?, admission_date=?, note=?
		WHERE id = ?`,
		p.PatientCode, p.FullName, p.Gender, p.BirthDate, p.Phone,
		p.Address, p.Diagnosis, p.AdmissionDate, p.Note, p.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *patientRepoSQLite) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *patientRepoSQLite) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+patientCols+` FROM patients ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectPatientsSQL(rows)
}

func (r *patientRepoSQLite) Search(ctx context.Context, keyword string) ([]*Patient, error) {
	pattern := likePattern(keyword)
	rows, err := r.db.QueryContext(ctx, `SELECT `+patientCols+` FROM patients
		WHERE full_name LIKE ? ESCAPE '\' OR patient_code LIKE ? ESCAPE '\'
		ORDER BY id`, pattern, pattern)
	if err != nil {
		return nil, err
	}
	return collectPatientsSQL(rows)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func collectPatientsSQL(rows *sql.Rows) ([]*Patient, error) {
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatientSQL(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("patient rows: %w", err)
	}
	return patients, nil
}

func scanPatientSQL(row rowScanner) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.PatientCode, &p.FullName, &p.Gender, &p.BirthDate, &p.Phone,
		&p.Address, &p.Diagnosis, &p.AdmissionDate, &p.Note,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
