package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/patientdesk/patientdesk/internal/config"
	"github.com/patientdesk/patientdesk/internal/desk"
	"github.com/patientdesk/patientdesk/internal/domain/patient"
	"github.com/patientdesk/patientdesk/internal/logging"
	"github.com/patientdesk/patientdesk/internal/platform/db"
	"github.com/patientdesk/patientdesk/internal/platform/export"
)

// app is everything one command run needs. It owns the store handle.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	handle *db.Handle
	svc    *patient.Service

	closeLog func() error
}

// openApp loads config, applies flag overrides, opens the store and makes
// sure the patients table exists. quiet discards logs unless LOG_FILE is set.
func openApp(cmd *cobra.Command, quiet bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w, closeLog, err := logging.Output(cfg, quiet)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg, w)

	ctx := commandContext(cmd)
	handle, err := db.Open(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug().Str("driver", handle.Driver).Msg("connected to database")

	svc := patient.NewService(newRepository(handle), logger)
	if err := svc.Init(ctx); err != nil {
		handle.Close()
		closeLog()
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, handle: handle, svc: svc, closeLog: closeLog}, nil
}

func (a *app) Close() error {
	err := a.handle.Close()
	if cerr := a.closeLog(); err == nil {
		err = cerr
	}
	return err
}

// session builds the interactive context on top of the service.
func (a *app) session() *desk.Session {
	return desk.NewSession(a.svc, export.New(a.cfg.ExportPath, a.cfg.ExportSheet), a.logger)
}

func newRepository(h *db.Handle) patient.Repository {
	if h.Pool != nil {
		return patient.NewPatientRepoPG(h.Pool)
	}
	return patient.NewPatientRepoSQLite(h.SQL)
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	overrides := map[string]*string{
		"db":        &cfg.DatabaseURL,
		"log-level": &cfg.LogLevel,
		"addr":      &cfg.ListenAddr,
		"out":       &cfg.ExportPath,
	}
	for name, dst := range overrides {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
