package service

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/metrics"
)

var ErrImportInvalid = errors.New("import failed, check the file")

//go:embed export.schema.json
var exportSchemaJSON string

var exportSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(exportSchemaJSON))
})

// ExportDocument is the backup file format.
type ExportDocument struct {
	State      domain.State    `json:"state"`
	Settings   domain.Settings `json:"settings"`
	ExportedAt time.Time       `json:"exportedAt"`
}

func (s *SiteService) Export() ExportDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ExportDocument{
		State:      s.state.Clone(),
		Settings:   s.settings,
		ExportedAt: s.timestamp(),
	}
}

// WriteExport writes the export document as indented JSON.
func (s *SiteService) WriteExport(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Export()); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportFilename names a downloaded export by date.
func (s *SiteService) ExportFilename() string {
	return "sitelog-export-" + domain.FormatDate(s.Today()) + ".json"
}

// Import replaces the state and settings with those in an export document.
// Each section is decoded over its defaults, so keys the file lacks take
// their default value; a section missing from the file leaves the current
// one in place. Nothing changes unless the whole document is valid.
func (s *SiteService) Import(ctx context.Context, data []byte) error {
	st, settings, err := decodeImport(data)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues("all", "import", "error").Inc()
		return err
	}

	if st != nil {
		err := s.mutate(ctx, "all", "import", func(cur *domain.State) error {
			*cur = *st
			return nil
		})
		if err != nil {
			return err
		}
	}
	if settings != nil {
		s.mu.Lock()
		err := s.storeSettings(ctx, *settings)
		s.mu.Unlock()
		if err != nil {
			return err
		}
	}
	s.logger.Info("import complete", "state", st != nil, "settings", settings != nil)
	return nil
}

func decodeImport(data []byte) (*domain.State, *domain.Settings, error) {
	schema, err := exportSchema()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile export schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrImportInvalid, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, nil, fmt.Errorf("%w: %s", ErrImportInvalid, strings.Join(msgs, "; "))
	}

	var doc struct {
		State    json.RawMessage `json:"state"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrImportInvalid, err)
	}

	var st *domain.State
	if present(doc.State) {
		next := domain.NewState()
		if err := json.Unmarshal(doc.State, &next); err != nil {
			return nil, nil, fmt.Errorf("%w: state: %v", ErrImportInvalid, err)
		}
		next = next.Normalize()
		st = &next
	}

	var settings *domain.Settings
	if present(doc.Settings) {
		next := domain.DefaultSettings()
		if err := json.Unmarshal(doc.Settings, &next); err != nil {
			return nil, nil, fmt.Errorf("%w: settings: %v", ErrImportInvalid, err)
		}
		if err := next.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%w: settings: %v", ErrImportInvalid, err)
		}
		settings = &next
	}
	return st, settings, nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Wipe clears every record. Settings are kept.
func (s *SiteService) Wipe(ctx context.Context) error {
	err := s.mutate(ctx, "all", "wipe", func(st *domain.State) error {
		*st = domain.NewState()
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Warn("all records wiped")
	return nil
}
