package server

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"shipment-tracker/internal/store"
	"shipment-tracker/internal/usecase"
)

// ErrLoadInFlight is returned when a refresh is requested while another load
// is still running. Loads are never raced: the manual trigger is rejected
// for the duration of the running one.
var ErrLoadInFlight = errors.New("a load is already in flight")

// Service ties the reconciliation use case to the snapshot store.
type Service struct {
	uc     *usecase.ReconciliationUseCase
	store  *store.Store
	logger zerolog.Logger
}

// NewService creates the load service.
func NewService(uc *usecase.ReconciliationUseCase, st *store.Store, logger zerolog.Logger) *Service {
	return &Service{uc: uc, store: st, logger: logger}
}

// Store exposes the snapshot store for read paths.
func (s *Service) Store() *store.Store {
	return s.store
}

// Refresh performs one full load and installs the result as the current
// snapshot. On failure the previous snapshot stays in place and the single
// wrapped error is returned.
func (s *Service) Refresh(ctx context.Context) (*store.Snapshot, error) {
	if !s.store.BeginLoad() {
		return nil, ErrLoadInFlight
	}
	defer s.store.EndLoad()

	records, err := s.uc.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("load failed, keeping previous snapshot")
		return nil, err
	}
	items := s.uc.LoadItems(ctx)

	snap := s.store.Swap(records, items)
	s.logger.Info().
		Str("load_id", snap.ID.String()).
		Int("records", len(snap.Records)).
		Int("item_groups", len(snap.Items)).
		Msg("snapshot installed")
	return snap, nil
}

// RunPeriodic reloads on the given interval until ctx is done. An interval
// of zero disables periodic reloads.
func (s *Service) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrLoadInFlight) {
				s.logger.Warn().Err(err).Msg("periodic refresh failed")
			}
		}
	}
}
