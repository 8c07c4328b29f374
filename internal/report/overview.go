package report

import (
	"fmt"
	"time"

	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/query"
)

// Overview is the at-a-glance summary shown on a project's front page.
type Overview struct {
	ProjectID      string             `json:"projectId"`
	ProjectName    string             `json:"projectName"`
	OpenTasks      int                `json:"openTasks"`
	DiaryEntries   int                `json:"diaryEntries"`
	OpenVariations int                `json:"openVariations"`
	NextInspection *domain.Inspection `json:"nextInspection"`
	CCC            []StageStatus      `json:"ccc"`
}

// BuildOverview counts a project's open work. A variation stays open until
// it is Approved; the next inspection is the earliest dated today or later.
func BuildOverview(s domain.State, projectID string, today time.Time) (*Overview, error) {
	p, ok := s.Project(projectID)
	if !ok {
		return nil, fmt.Errorf("overview for %q: %w", projectID, ErrProjectNotFound)
	}
	byProject := query.Criteria{ProjectID: projectID}
	o := &Overview{ProjectID: p.ID, ProjectName: p.Name}

	for _, t := range query.Select(s.Tasks, byProject) {
		if t.Status != domain.TaskDone {
			o.OpenTasks++
		}
	}
	o.DiaryEntries = len(query.Select(s.Diary, byProject))
	for _, v := range query.Select(s.Variations, byProject) {
		if v.Status != domain.VariationApproved {
			o.OpenVariations++
		}
	}

	inspections := query.Select(s.Inspections, byProject)
	upcoming := query.Select(inspections, query.Criteria{From: domain.FormatDate(today)})
	if sorted := query.ByDate(upcoming, query.Asc); len(sorted) > 0 {
		next := sorted[0]
		o.NextInspection = &next
	}
	o.CCC = CCCStatus(inspections)
	return o, nil
}
