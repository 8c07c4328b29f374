package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/geocode"
	"github.com/vbonduro/sitelog/internal/metrics"
)

// GeocodeOutcome reports a lookup to the user. Lookup failures are
// described in Message rather than returned as errors.
type GeocodeOutcome struct {
	Project domain.Project `json:"project"`
	Found   bool           `json:"found"`
	Display string         `json:"display,omitempty"`
	Message string         `json:"message"`
}

// GeocodeProject looks up the project's address and, on a match, stores the
// coordinates. The only errors returned are an unknown project and a failure
// to persist the coordinates.
func (s *SiteService) GeocodeProject(ctx context.Context, id string) (*GeocodeOutcome, error) {
	p, err := s.GetProject(id)
	if err != nil {
		return nil, err
	}
	out := &GeocodeOutcome{Project: p}

	if s.geocoder == nil {
		metrics.GeocodeTotal.WithLabelValues("disabled").Inc()
		out.Message = "Geocoding is disabled."
		return out, nil
	}
	addr := strings.TrimSpace(p.Address)
	if addr == "" {
		out.Message = "Enter an address first."
		return out, nil
	}

	res, err := s.geocoder.Lookup(ctx, addr)
	switch {
	case errors.Is(err, geocode.ErrNotFound):
		metrics.GeocodeTotal.WithLabelValues("not_found").Inc()
		out.Message = "No match for that address. Try a more specific one or just save the address."
		return out, nil
	case err != nil:
		metrics.GeocodeTotal.WithLabelValues("error").Inc()
		s.logger.Warn("geocode failed", "project_id", id, "error", err)
		out.Message = "Geocode failed (try again later or just save address)."
		return out, nil
	}
	metrics.GeocodeTotal.WithLabelValues("ok").Inc()

	err = s.mutate(ctx, projects.name, "geocode", func(st *domain.State) error {
		target, ok := st.Project(id)
		if !ok {
			return fmt.Errorf("projects %q: %w", id, domain.ErrNotFound)
		}
		lat, lng := res.Lat, res.Lng
		target.Lat = &lat
		target.Lng = &lng
		target.UpdatedAt = s.timestamp()
		out.Project = *target
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Found = true
	out.Display = res.Display
	out.Message = fmt.Sprintf("Saved coords: %.5f, %.5f", res.Lat, res.Lng)
	return out, nil
}
