package service

import (
	"context"
	"fmt"

	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/metrics"
)

// UpdateSettings validates and stores the settings document. An empty
// company name or currency falls back to its default.
func (s *SiteService) UpdateSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	if err := settings.Validate(); err != nil {
		metrics.MutationsTotal.WithLabelValues("settings", "save", "error").Inc()
		return domain.Settings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storeSettings(ctx, settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// ToggleTheme flips between the dark and light themes.
func (s *SiteService) ToggleTheme(ctx context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	if next.Theme == domain.ThemeLight {
		next.Theme = domain.ThemeDark
	} else {
		next.Theme = domain.ThemeLight
	}
	if err := s.storeSettings(ctx, next); err != nil {
		return domain.Settings{}, err
	}
	return next, nil
}

// storeSettings persists settings and makes them current. Callers hold mu.
func (s *SiteService) storeSettings(ctx context.Context, settings domain.Settings) error {
	err := s.repo.SaveSettings(ctx, settings)
	metrics.MutationsTotal.WithLabelValues("settings", "save", metrics.Status(err)).Inc()
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.settings = settings
	return nil
}
