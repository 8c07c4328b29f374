package report

import (
	"strings"

	"github.com/vbonduro/sitelog/internal/domain"
)

// CCCStages are the inspection milestones towards a Code Compliance
// Certificate, in order.
var CCCStages = []string{"Pre-slab", "Pre-line", "Post-line", "Final"}

type StageState string

const (
	StagePassed  StageState = "Passed"
	StagePending StageState = "Pending"
)

type StageStatus struct {
	Stage string     `json:"stage"`
	State StageState `json:"state"`
}

// CCCStatus marks a stage Passed when a passing inspection's type contains
// the stage name, compared lowercase with hyphens removed. The match is a
// plain substring test, so "Pre-line addendum" also passes Pre-line.
func CCCStatus(inspections []domain.Inspection) []StageStatus {
	out := make([]StageStatus, 0, len(CCCStages))
	for _, stage := range CCCStages {
		want := stageKey(stage)
		state := StagePending
		for _, i := range inspections {
			if i.Result == domain.InspectionPass && strings.Contains(stageKey(i.Type), want) {
				state = StagePassed
				break
			}
		}
		out = append(out, StageStatus{Stage: stage, State: state})
	}
	return out
}

func stageKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "-", "")
}
