package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS patients (
	id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
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

const patientCols = `id, patient_code, full_name, gender, birth_date, phone,
	address, diagnosis, admission_date, note`

type patientRepoPG struct {
	pool *pgxpool.Pool
}

// NewPatientRepoPG returns a Repository backed by PostgreSQL.
func NewPatientRepoPG(pool *pgxpool.Pool) Repository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn() querier {
	return r.pool
}

func (r *patientRepoPG) Init(ctx context.Context) error {
	_, err := r.conn().Exec(ctx, pgSchema)
	return err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	return r.conn().QueryRow(ctx, `
		INSERT INTO patients (
			patient_code, full_name, gender, birth_date, phone,
			address, diagnosis, admission_date, note
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id`,
		p.PatientCode, p.FullName, p.Gender, p.BirthDate, p.Phone,
		p.Address, p.Diagnosis, p.AdmissionDate, p.Note,
	).Scan(&p.ID)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	p, err := scanPatient(r.conn().QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn().Exec(ctx, `
		UPDATE patients SET
			patient_code=$2, full_name=$3, gender=$4, birth_date=$5, phone=$6,
			address=$7, diagnosis=$8, admission_date=$9, note=$10
		WHERE id = $1`,
		p.ID, p.PatientCode, p.FullName, p.Gender, p.BirthDate, p.Phone,
		p.Address, p.Diagnosis, p.AdmissionDate, p.Note,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn().Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.conn().Query(ctx, `SELECT `+patientCols+` FROM patients ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectPatients(rows)
}

func (r *patientRepoPG) Search(ctx context.Context, keyword string) ([]*Patient, error) {
	pattern := likePattern(keyword)
	rows, err := r.conn().Query(ctx, `SELECT `+patientCols+` FROM patients
		WHERE full_name LIKE $1 ESCAPE '\' OR patient_code LIKE $1 ESCAPE '\'
		ORDER BY id`, pattern)
	if err != nil {
		return nil, err
	}
	return collectPatients(rows)
}

func collectPatients(rows pgx.Rows) ([]*Patient, error) {
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
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

func scanPatient(row pgx.Row) (*Patient, error) {
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

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}
