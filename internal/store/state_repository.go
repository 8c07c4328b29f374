package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/sitelog/internal/domain"
)

const (
	StateKey    = "site_manager_state_v1"
	SettingsKey = "site_manager_settings_v1"
)

// StateRepository persists the main store and the settings as two
// independent documents. A missing or unreadable document loads as the
// default rather than failing.
type StateRepository struct {
	docs   *DocumentStore
	logger *slog.Logger
}

func NewStateRepository(docs *DocumentStore, logger *slog.Logger) *StateRepository {
	return &StateRepository{docs: docs, logger: logger}
}

func (r *StateRepository) LoadState(ctx context.Context) (domain.State, error) {
	doc, err := r.docs.Get(ctx, StateKey)
	if errors.Is(err, ErrNotFound) {
		return domain.NewState(), nil
	}
	if err != nil {
		return domain.State{}, err
	}

	s := domain.NewState()
	if err := json.Unmarshal(doc.Payload, &s); err != nil {
		r.logger.Warn("stored state is unreadable, starting empty", "key", StateKey, "error", err)
		return domain.NewState(), nil
	}
	return s.Normalize(), nil
}

func (r *StateRepository) SaveState(ctx context.Context, s domain.State) error {
	payload, err := json.Marshal(s.Normalize())
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return r.docs.Put(ctx, StateKey, payload)
}

// LoadSettings decodes the stored settings over the defaults, so keys the
// document lacks keep their default value.
func (r *StateRepository) LoadSettings(ctx context.Context) (domain.Settings, error) {
	doc, err := r.docs.Get(ctx, SettingsKey)
	if errors.Is(err, ErrNotFound) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, err
	}

	settings := domain.DefaultSettings()
	if err := json.Unmarshal(doc.Payload, &settings); err != nil {
		r.logger.Warn("stored settings are unreadable, using defaults", "key", SettingsKey, "error", err)
		return domain.DefaultSettings(), nil
	}
	if err := settings.Validate(); err != nil {
		r.logger.Warn("stored settings are invalid, using defaults", "key", SettingsKey, "error", err)
		return domain.DefaultSettings(), nil
	}
	return settings, nil
}

func (r *StateRepository) SaveSettings(ctx context.Context, settings domain.Settings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return r.docs.Put(ctx, SettingsKey, payload)
}
