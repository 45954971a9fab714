package leads

import (
	"context"
	"log/slog"
	"time"
)

// DefaultAutoSaveInterval is how often AutoSave persists a snapshot.
const DefaultAutoSaveInterval = 20 * time.Second

// Service ties draft persistence to submission validation.
type Service struct {
	store     DraftStore
	validator *Validator
	logger    *slog.Logger
	autosave  time.Duration
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithAutoSaveInterval sets the cadence advertised to clients and used by
// AutoSave when no interval is given.
func WithAutoSaveInterval(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.autosave = d
		}
	}
}

// NewService creates a lead form service.
func NewService(store DraftStore, validator *Validator, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{store: store, validator: validator, logger: logger, autosave: DefaultAutoSaveInterval}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AutoSaveInterval returns the configured autosave cadence.
func (s *Service) AutoSaveInterval() time.Duration { return s.autosave }

// Store returns the underlying draft store.
func (s *Service) Store() DraftStore { return s.store }

// Validator returns the submission validator.
func (s *Service) Validator() *Validator { return s.validator }

// Submit validates fields for form and passes the result to onSubmit, if
// set. A valid submission clears the saved draft.
func (s *Service) Submit(ctx context.Context, form string, fields map[string]string, onSubmit func(Result)) (Result, error) {
	res, err := s.validator.Validate(form, fields)
	if err != nil {
		return Result{}, err
	}
	if onSubmit != nil {
		onSubmit(res)
	}
	if res.FormIsValid {
		if err := s.store.ClearDraft(ctx, form); err != nil {
			return res, err
		}
	}
	s.logger.Debug("leads: submitted",
		slog.String("form", form),
		slog.Bool("valid", res.FormIsValid))
	return res, nil
}

// AutoSave saves snapshot() as the draft for form every interval until ctx
// is done. interval <= 0 means AutoSaveInterval(). Save failures are
// logged and the loop keeps going.
func (s *Service) AutoSave(ctx context.Context, form string, interval time.Duration, snapshot func() map[string]string) {
	if interval <= 0 {
		interval = s.autosave
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.store.SaveDraft(ctx, form, snapshot()); err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("leads: autosave failed",
					slog.String("form", form),
					slog.String("error", err.Error()))
			}
		}
	}
}
