package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vbonduro/sitelog/internal/attachment"
	"github.com/vbonduro/sitelog/internal/backup"
	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/geocode"
	"github.com/vbonduro/sitelog/internal/metrics"
)

var ErrUnknownCollection = errors.New("unknown collection")

// stateRepository is the subset of store.StateRepository that SiteService
// requires.
type stateRepository interface {
	LoadState(ctx context.Context) (domain.State, error)
	SaveState(ctx context.Context, s domain.State) error
	LoadSettings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings) error
}

// photoReader is the subset of attachment.Reader that SiteService requires.
type photoReader interface {
	ReadAll(ctx context.Context, files []attachment.Source) []domain.Photo
}

// SiteService owns the in-memory site state. Every mutation is applied to a
// copy, persisted as a whole document, and only then made visible.
type SiteService struct {
	repo     stateRepository
	photos   photoReader
	geocoder geocode.Geocoder
	backups  backup.Store
	logger   *slog.Logger
	now      func() time.Time
	loc      *time.Location

	mu       sync.RWMutex
	state    domain.State
	settings domain.Settings
}

type Option func(*SiteService)

// WithGeocoder enables address lookups. Without it geocoding reports that it
// is disabled.
func WithGeocoder(g geocode.Geocoder) Option {
	return func(s *SiteService) { s.geocoder = g }
}

// WithBackups enables Backup, Restore and ListBackups.
func WithBackups(b backup.Store) Option {
	return func(s *SiteService) { s.backups = b }
}

// WithLocation sets the zone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *SiteService) { s.loc = loc }
}

func WithClock(now func() time.Time) Option {
	return func(s *SiteService) { s.now = now }
}

func NewSiteService(repo stateRepository, photos photoReader, logger *slog.Logger, opts ...Option) *SiteService {
	s := &SiteService{
		repo:     repo,
		photos:   photos,
		logger:   logger,
		now:      time.Now,
		loc:      time.UTC,
		state:    domain.NewState(),
		settings: domain.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted documents. Missing or unreadable documents load
// as defaults.
func (s *SiteService) Load(ctx context.Context) error {
	st, err := s.repo.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	settings, err := s.repo.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	s.mu.Lock()
	s.state = st
	s.settings = settings
	s.mu.Unlock()

	s.logger.Info("state loaded", "counts", st.Counts())
	return nil
}

// Snapshot returns a copy of the current state that the caller may modify.
func (s *SiteService) Snapshot() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *SiteService) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Today is the current date in the configured location.
func (s *SiteService) Today() time.Time {
	return s.now().In(s.loc)
}

func (s *SiteService) timestamp() time.Time {
	return s.now().UTC()
}

// mutate applies fn to a copy of the state and persists the result. The
// in-memory state is only replaced when both succeed.
func (s *SiteService) mutate(ctx context.Context, collection, op string, fn func(*domain.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	err := fn(&next)
	if err == nil {
		err = s.repo.SaveState(ctx, next)
		if err != nil {
			err = fmt.Errorf("failed to save state: %w", err)
		}
	}
	metrics.MutationsTotal.WithLabelValues(collection, op, metrics.Status(err)).Inc()
	if err != nil {
		return err
	}
	s.state = next
	return nil
}
