package report

import (
	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/query"
)

// SubbieUse is a subcontractor as listed on a project page. Used is set when
// the subcontractor is assigned to at least one of the project's tasks.
type SubbieUse struct {
	domain.Subcontractor
	Used bool `json:"used"`
}

// SubbieUsage lists every subcontractor by name, marking those assigned to
// the project's tasks.
func SubbieUsage(s domain.State, projectID string) []SubbieUse {
	used := make(map[string]bool)
	for _, t := range query.Select(s.Tasks, query.Criteria{ProjectID: projectID}) {
		if t.AssignedSubbieID != nil {
			used[*t.AssignedSubbieID] = true
		}
	}
	subs := query.ByName(s.Subbies)
	out := make([]SubbieUse, 0, len(subs))
	for _, sc := range subs {
		out = append(out, SubbieUse{Subcontractor: sc, Used: used[sc.ID]})
	}
	return out
}
