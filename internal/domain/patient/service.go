package patient

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

type Service struct {
	patients Repository
	logger   zerolog.Logger
}

func NewService(patients Repository, logger zerolog.Logger) *Service {
	return &Service{patients: patients, logger: logger.With().Str("component", "patient").Logger()}
}

// Init ensures the patients table exists. Safe to call on every startup.
func (s *Service) Init(ctx context.Context) error {
	if err := s.patients.Init(ctx); err != nil {
		return s.storageErr("init", 0, err)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if missing := p.MissingRequired(); len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	if p.Gender == "" {
		p.Gender = DefaultGender()
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return s.storageErr("create", 0, err)
	}
	s.logger.Info().Int64("patient_id", p.ID).Str("op", "create").Msg("patient created")
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, s.storageErr("get", id, err)
	}
	return p, nil
}

// Update overwrites every attribute of the record with p.ID as given.
func (s *Service) Update(ctx context.Context, p *Patient) error {
	if err := s.patients.Update(ctx, p); err != nil {
		return s.storageErr("update", p.ID, err)
	}
	s.logger.Info().Int64("patient_id", p.ID).Str("op", "update").Msg("patient updated")
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.patients.Delete(ctx, id); err != nil {
		return s.storageErr("delete", id, err)
	}
	s.logger.Info().Int64("patient_id", id).Str("op", "delete").Msg("patient deleted")
	return nil
}

func (s *Service) List(ctx context.Context) ([]*Patient, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, s.storageErr("list", 0, err)
	}
	s.logger.Debug().Int("count", len(patients)).Msg("patients listed")
	return patients, nil
}

// Search matches keyword against full_name and patient_code. An empty keyword
// lists everything; whitespace is matched literally.
func (s *Service) Search(ctx context.Context, keyword string) ([]*Patient, error) {
	if keyword == "" {
		return s.List(ctx)
	}
	patients, err := s.patients.Search(ctx, keyword)
	if err != nil {
		return nil, s.storageErr("search", 0, err)
	}
	s.logger.Debug().Str("keyword", keyword).Int("count", len(patients)).Msg("patients searched")
	return patients, nil
}

func (s *Service) storageErr(op string, id int64, err error) error {
	if errors.Is(err, ErrNotFound) {
		return &NotFoundError{ID: id}
	}
	s.logger.Error().Err(err).Str("op", op).Msg("patient storage failure")
	return &StorageError{Op: op, Err: err}
}
