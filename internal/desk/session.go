package desk

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/patientdesk/patientdesk/internal/domain/patient"
)

// Store is the part of the patient service the session drives.
type Store interface {
	List(ctx context.Context) ([]*patient.Patient, error)
	Search(ctx context.Context, keyword string) ([]*patient.Patient, error)
	Create(ctx context.Context, p *patient.Patient) error
	Update(ctx context.Context, p *patient.Patient) error
	Delete(ctx context.Context, id int64) error
}

// Exporter writes a header and rows to a spreadsheet file.
type Exporter interface {
	Write(header []string, rows [][]any) error
	Path() string
}

// SelectionRequiredError is returned when update or delete runs with no
// selected row. Nothing is changed.
type SelectionRequiredError struct {
	Action string
}

func (e *SelectionRequiredError) Error() string {
	return fmt.Sprintf("select a patient to %s", e.Action)
}

// Session is the application context of one desk: the store, the displayed
// list with its selection, and the entry form.
type Session struct {
	store    Store
	exporter Exporter
	logger   zerolog.Logger

	view *ListView
	form *Form
}

// NewSession wires the list view's selection to the form.
func NewSession(store Store, exporter Exporter, logger zerolog.Logger) *Session {
	s := &Session{
		store:    store,
		exporter: exporter,
		logger:   logger.With().Str("component", "desk").Logger(),
		view:     NewListView(),
		form:     NewForm(),
	}
	s.view.OnSelect(s.form.PopulateFrom)
	return s
}

func (s *Session) View() *ListView { return s.view }
func (s *Session) Form() *Form     { return s.form }

// Reload shows every stored record in id order.
func (s *Session) Reload(ctx context.Context) error {
	rows, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	s.view.ReplaceAll(rows)
	return nil
}

// Search shows the records matching keyword. The keyword is not kept; the
// next mutation reloads the full list.
func (s *Session) Search(ctx context.Context, keyword string) error {
	rows, err := s.store.Search(ctx, keyword)
	if err != nil {
		return err
	}
	s.view.ReplaceAll(rows)
	return nil
}

// Add stores the form as a new record, reloads and clears the form.
func (s *Session) Add(ctx context.Context) (*patient.Patient, error) {
	p := s.form.Snapshot()
	if err := s.store.Create(ctx, &p); err != nil {
		return nil, err
	}
	if err := s.Reload(ctx); err != nil {
		return &p, err
	}
	s.form.Reset()
	return &p, nil
}

// Update overwrites the selected record with the form values.
func (s *Session) Update(ctx context.Context) (*patient.Patient, error) {
	id, err := s.RequireSelection("update")
	if err != nil {
		return nil, err
	}
	p := s.form.Snapshot()
	p.ID = id
	if err := s.store.Update(ctx, &p); err != nil {
		return nil, s.dropStale(ctx, err)
	}
	if err := s.Reload(ctx); err != nil {
		return &p, err
	}
	s.form.Reset()
	return &p, nil
}

// Delete removes the selected record. Asking for confirmation is up to the
// caller; see RequireSelection.
func (s *Session) Delete(ctx context.Context) (int64, error) {
	id, err := s.RequireSelection("delete")
	if err != nil {
		return 0, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return 0, s.dropStale(ctx, err)
	}
	if err := s.Reload(ctx); err != nil {
		return id, err
	}
	s.form.Reset()
	return id, nil
}

// RequireSelection returns the selected id, or a SelectionRequiredError
// naming action.
func (s *Session) RequireSelection(action string) (int64, error) {
	id, ok := s.view.SelectedID()
	if !ok {
		return 0, &SelectionRequiredError{Action: action}
	}
	return id, nil
}

// Select highlights row index and loads it into the form.
func (s *Session) Select(index int) bool {
	return s.view.Select(index)
}

// Reset clears the form and the selection.
func (s *Session) Reset() {
	s.form.Reset()
	s.view.ClearSelection()
}

// Export writes the displayed rows, in display order, and returns the path.
func (s *Session) Export(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rows := s.view.Rows()
	data := make([][]any, 0, len(rows))
	for i := range rows {
		data = append(data, rows[i].Row())
	}
	if err := s.exporter.Write(patient.ColumnLabels, data); err != nil {
		s.logger.Error().Err(err).Str("path", s.exporter.Path()).Msg("export failed")
		return "", fmt.Errorf("export: %w", err)
	}
	s.logger.Info().Str("path", s.exporter.Path()).Int("rows", len(data)).Msg("patients exported")
	return s.exporter.Path(), nil
}

// dropStale reloads after a not-found so the vanished row leaves the list.
func (s *Session) dropStale(ctx context.Context, err error) error {
	if !errors.Is(err, patient.ErrNotFound) {
		return err
	}
	if rerr := s.Reload(ctx); rerr != nil {
		s.logger.Warn().Err(rerr).Msg("reload after stale selection failed")
	}
	return err
}
