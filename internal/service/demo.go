package service

import (
	"context"

	"github.com/vbonduro/sitelog/internal/domain"
)

// LoadDemo adds a sample project with one record of each kind in front of
// the existing records. It returns the new project's id.
func (s *SiteService) LoadDemo(ctx context.Context) (string, error) {
	now := s.timestamp()
	today := s.Today()
	date := func(days int) string { return domain.FormatDate(today.AddDate(0, 0, days)) }
	meta := func() domain.Meta { return domain.Meta{ID: domain.NewID(), CreatedAt: now, UpdatedAt: now} }
	lat, lng := -36.8485, 174.7633

	project := domain.Project{
		Meta:        meta(),
		Name:        "14 Kowhai Road Renovation",
		Address:     "14 Kowhai Road, Auckland, New Zealand",
		Lat:         &lat,
		Lng:         &lng,
		ClientName:  "Client Example",
		ClientPhone: "0210000000",
		Notes:       "Gate code 1234. Watch the dog. Power in garage.",
	}
	pid := project.ID

	err := s.mutate(ctx, "all", "demo", func(st *domain.State) error {
		st.Projects = append([]domain.Project{project}, st.Projects...)
		st.Subbies = append([]domain.Subcontractor{{
			Meta:  meta(),
			Name:  "Sparkies Ltd",
			Trade: "Electrician",
			Phone: "0211111111",
			Email: "spark@example.com",
			Notes: "Prefers Fridays",
		}}, st.Subbies...)
		st.Tasks = append([]domain.Task{{
			Meta:      meta(),
			ProjectID: pid,
			Title:     "Book pre-line inspection",
			Details:   "Call council",
			Status:    domain.TaskToDo,
			DueDate:   date(3),
			Photos:    []domain.Photo{},
		}}, st.Tasks...)
		st.Diary = append([]domain.DiaryEntry{{
			Meta:      meta(),
			ProjectID: pid,
			Date:      date(0),
			Summary:   "Framing progress in lounge + checked bracing fixings.",
			Hours:     "7.5",
			Billable:  true,
			Category:  domain.CategoryLabour,
			Photos:    []domain.Photo{},
		}}, st.Diary...)
		st.Variations = append([]domain.Variation{{
			Meta:        meta(),
			ProjectID:   pid,
			Date:        date(0),
			Title:       "Extra LVL beam",
			Description: "Client requested opening widening; requires LVL + extra labour.",
			Amount:      "480",
			Status:      domain.VariationSent,
			Photos:      []domain.Photo{},
		}}, st.Variations...)
		st.Deliveries = append([]domain.Delivery{{
			Meta:      meta(),
			ProjectID: pid,
			Supplier:  "PlaceMakers",
			Date:      date(0),
			Status:    domain.DeliveryExpected,
			Items:     "Timber pack + fixings",
			DropPoint: "Driveway",
			Notes:     "Call ahead",
			Photos:    []domain.Photo{},
		}}, st.Deliveries...)
		st.Inspections = append([]domain.Inspection{{
			Meta:      meta(),
			ProjectID: pid,
			Type:      "Pre-line",
			Date:      date(2),
			Result:    domain.InspectionBooked,
			Notes:     "Ensure smoke alarms locations confirmed",
			Photos:    []domain.Photo{},
		}}, st.Inspections...)
		return nil
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("demo data loaded", "project_id", pid)
	return pid, nil
}
