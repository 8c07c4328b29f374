package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/vbonduro/sitelog/internal/domain"
)

const (
	DefaultUpcomingDays  = 7
	DefaultUpcomingLimit = 12
)

type Kind string

const (
	KindTask       Kind = "Task"
	KindDelivery   Kind = "Delivery"
	KindInspection Kind = "Inspection"
)

// Nav tells a front end which view to open for an item.
type Nav struct {
	View   string            `json:"view"`
	Params map[string]string `json:"params"`
}

type UpcomingItem struct {
	When    string `json:"when"`
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Project string `json:"project"`
	Badge   string `json:"badge"`
	Nav     Nav    `json:"nav"`
}

// Upcoming merges open tasks due, deliveries and inspections dated within
// [today, today+days] into one list ordered by date then kind, truncated to
// limit. Non-positive days or limit use the defaults.
func Upcoming(s domain.State, today time.Time, days, limit int) []UpcomingItem {
	if days <= 0 {
		days = DefaultUpcomingDays
	}
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	from := domain.FormatDate(today)
	to := domain.FormatDate(today.AddDate(0, 0, days))
	inWindow := func(date string) bool {
		return date != "" && date >= from && date <= to
	}

	items := []UpcomingItem{}
	for _, t := range s.Tasks {
		if !inWindow(t.DueDate) || t.Status == domain.TaskDone {
			continue
		}
		items = append(items, UpcomingItem{
			When:    t.DueDate,
			Kind:    KindTask,
			Title:   t.Title,
			Project: s.ProjectName(t.ProjectID),
			Badge:   orDefault(string(t.Status), string(domain.TaskToDo)),
			Nav:     projectTab(t.ProjectID, "tasks"),
		})
	}
	for _, d := range s.Deliveries {
		if !inWindow(d.Date) {
			continue
		}
		items = append(items, UpcomingItem{
			When:    d.Date,
			Kind:    KindDelivery,
			Title:   orDefault(d.Supplier, "Delivery"),
			Project: s.ProjectName(d.ProjectID),
			Badge:   orDefault(string(d.Status), string(domain.DeliveryExpected)),
			Nav:     projectTab(d.ProjectID, "deliveries"),
		})
	}
	for _, i := range s.Inspections {
		if !inWindow(i.Date) {
			continue
		}
		items = append(items, UpcomingItem{
			When:    i.Date,
			Kind:    KindInspection,
			Title:   orDefault(i.Type, "Inspection"),
			Project: s.ProjectName(i.ProjectID),
			Badge:   orDefault(string(i.Result), string(domain.InspectionBooked)),
			Nav:     projectTab(i.ProjectID, "inspections"),
		})
	}

	slices.SortStableFunc(items, func(a, b UpcomingItem) int {
		return cmp.Or(cmp.Compare(a.When, b.When), cmp.Compare(a.Kind, b.Kind))
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func projectTab(projectID, tab string) Nav {
	return Nav{View: "project", Params: map[string]string{"id": projectID, "tab": tab}}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
