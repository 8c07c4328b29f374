package service

import (
	"fmt"

	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/geocode"
	"github.com/vbonduro/sitelog/internal/metrics"
	"github.com/vbonduro/sitelog/internal/query"
	"github.com/vbonduro/sitelog/internal/report"
)

// Reports read a snapshot, so they never block writers for long and never
// see a half-applied mutation.

func (s *SiteService) JobReport(projectID, from, to string) (*report.JobReport, error) {
	if err := domain.ValidateRange(from, to); err != nil {
		return nil, err
	}
	metrics.ReportsTotal.WithLabelValues("job").Inc()
	return report.BuildJobReport(s.Snapshot(), s.Settings(), projectID, from, to, s.Today())
}

func (s *SiteService) BillableExport(projectID, from, to string) (*report.BillableExport, error) {
	if err := domain.ValidateRange(from, to); err != nil {
		return nil, err
	}
	metrics.ReportsTotal.WithLabelValues("invoice").Inc()
	return report.BuildBillableExport(s.Snapshot(), s.Settings(), projectID, from, to, s.Today())
}

// Upcoming lists tasks, deliveries and inspections due in the next days.
// Non-positive arguments use the defaults.
func (s *SiteService) Upcoming(days, limit int) []report.UpcomingItem {
	if days <= 0 {
		days = report.DefaultUpcomingDays
	}
	if limit <= 0 {
		limit = report.DefaultUpcomingLimit
	}
	metrics.ReportsTotal.WithLabelValues("upcoming").Inc()
	return report.Upcoming(s.Snapshot(), s.Today(), days, limit)
}

func (s *SiteService) Overview(projectID string) (*report.Overview, error) {
	metrics.ReportsTotal.WithLabelValues("overview").Inc()
	return report.BuildOverview(s.Snapshot(), projectID, s.Today())
}

// CCC reports which code-compliance stages have a passed inspection.
func (s *SiteService) CCC(projectID string) ([]report.StageStatus, error) {
	st := s.Snapshot()
	if _, ok := st.Project(projectID); !ok {
		return nil, fmt.Errorf("ccc for %q: %w", projectID, report.ErrProjectNotFound)
	}
	metrics.ReportsTotal.WithLabelValues("ccc").Inc()
	return report.CCCStatus(query.Select(st.Inspections, query.Criteria{ProjectID: projectID})), nil
}

func (s *SiteService) SubbieUsage(projectID string) ([]report.SubbieUse, error) {
	st := s.Snapshot()
	if _, ok := st.Project(projectID); !ok {
		return nil, fmt.Errorf("subbies for %q: %w", projectID, report.ErrProjectNotFound)
	}
	return report.SubbieUsage(st, projectID), nil
}

// MapLinks returns map and navigation links for a project. ok is false when
// the project has neither coordinates nor an address.
func (s *SiteService) MapLinks(projectID string) (geocode.Links, bool, error) {
	p, err := s.GetProject(projectID)
	if err != nil {
		return geocode.Links{}, false, err
	}
	links, ok := geocode.MapLinks(p)
	return links, ok, nil
}
