// Package report derives read-only summaries from a site state: the job
// report, the billable export, upcoming items, CCC readiness and the project
// overview. Nothing in this package writes to the state it is given.
package report

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/query"
)

var ErrProjectNotFound = errors.New("project not found")

// DefaultRangeDays is the length of the default report period ending today.
const DefaultRangeDays = 7

const cellLimit = 120

// DiaryLine is one diary entry as shown in the job report.
type DiaryLine struct {
	Date     string          `json:"date"`
	Billable bool            `json:"billable"`
	Hours    string          `json:"hours"`
	Category domain.Category `json:"category"`
	Summary  string          `json:"summary"`
}

type TaskLine struct {
	Title    string            `json:"title"`
	Status   domain.TaskStatus `json:"status"`
	Due      string            `json:"due"`
	Assignee string            `json:"assignee"`
}

type VariationLine struct {
	Title  string                 `json:"title"`
	Status domain.VariationStatus `json:"status"`
	Date   string                 `json:"date"`
	Amount string                 `json:"amount"`
}

type DeliveryLine struct {
	Supplier string                `json:"supplier"`
	Date     string                `json:"date"`
	Status   domain.DeliveryStatus `json:"status"`
	Items    string                `json:"items"`
}

type InspectionLine struct {
	Type   string                  `json:"type"`
	Date   string                  `json:"date"`
	Result domain.InspectionResult `json:"result"`
	Notes  string                  `json:"notes"`
}

// JobReport is the printable per-project rollup for a date range.
type JobReport struct {
	CompanyName string           `json:"companyName"`
	ProjectID   string           `json:"projectId"`
	ProjectName string           `json:"projectName"`
	Address     string           `json:"address"`
	From        string           `json:"from"`
	To          string           `json:"to"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Diary       []DiaryLine      `json:"diary"`
	OpenTasks   []TaskLine       `json:"openTasks"`
	Variations  []VariationLine  `json:"variations"`
	Deliveries  []DeliveryLine   `json:"deliveries"`
	Inspections []InspectionLine `json:"inspections"`
}

// Period fills in the default range: from is DefaultRangeDays before now and
// to is now, both as storage dates.
func Period(from, to string, now time.Time) (string, string) {
	if to == "" {
		to = domain.FormatDate(now)
	}
	if from == "" {
		from = domain.FormatDate(now.AddDate(0, 0, -DefaultRangeDays))
	}
	return from, to
}

// BuildJobReport collects every record of a project relevant to [from, to].
// Diary entries, variations, deliveries and inspections are filtered by their
// own date; open tasks are listed regardless of date.
func BuildJobReport(s domain.State, settings domain.Settings, projectID, from, to string, now time.Time) (*JobReport, error) {
	p, ok := s.Project(projectID)
	if !ok {
		return nil, fmt.Errorf("job report for %q: %w", projectID, ErrProjectNotFound)
	}
	from, to = Period(from, to, now)
	c := query.Criteria{ProjectID: projectID, From: from, To: to}

	r := &JobReport{
		CompanyName: settings.CompanyName,
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Address:     p.Address,
		From:        from,
		To:          to,
		GeneratedAt: now,
		Diary:       []DiaryLine{},
		OpenTasks:   []TaskLine{},
		Variations:  []VariationLine{},
		Deliveries:  []DeliveryLine{},
		Inspections: []InspectionLine{},
	}

	for _, d := range query.ByDate(query.Select(s.Diary, c), query.Asc) {
		r.Diary = append(r.Diary, DiaryLine{
			Date:     d.Date,
			Billable: d.Billable,
			Hours:    d.Hours,
			Category: d.Category,
			Summary:  d.Summary,
		})
	}

	open := query.Where(s.Tasks, func(t domain.Task) bool {
		return t.ProjectID == projectID && t.Status != domain.TaskDone
	})
	slices.SortStableFunc(open, compareOpenTasks)
	for _, t := range open {
		line := TaskLine{Title: t.Title, Status: t.Status, Due: t.DueDate}
		if t.AssignedSubbieID != nil {
			if sub, ok := s.Subbie(*t.AssignedSubbieID); ok {
				line.Assignee = sub.Name
			}
		}
		r.OpenTasks = append(r.OpenTasks, line)
	}

	for _, v := range query.ByDate(query.Select(s.Variations, c), query.Asc) {
		line := VariationLine{Title: v.Title, Status: v.Status, Date: v.Date, Amount: v.Amount}
		if amt, ok := domain.ParseNumber(v.Amount); ok {
			line.Amount = FormatMoney(amt, settings.Currency)
		}
		r.Variations = append(r.Variations, line)
	}

	for _, d := range query.ByDate(query.Select(s.Deliveries, c), query.Asc) {
		r.Deliveries = append(r.Deliveries, DeliveryLine{
			Supplier: d.Supplier,
			Date:     d.Date,
			Status:   d.Status,
			Items:    truncate(d.Items, cellLimit),
		})
	}

	for _, i := range query.ByDate(query.Select(s.Inspections, c), query.Asc) {
		r.Inspections = append(r.Inspections, InspectionLine{
			Type:   i.Type,
			Date:   i.Date,
			Result: i.Result,
			Notes:  truncate(i.Notes, cellLimit),
		})
	}

	return r, nil
}

// compareOpenTasks orders by due date with undated tasks last, then by title.
func compareOpenTasks(a, b domain.Task) int {
	switch {
	case a.DueDate == "" && b.DueDate != "":
		return 1
	case a.DueDate != "" && b.DueDate == "":
		return -1
	}
	if c := cmp.Compare(a.DueDate, b.DueDate); c != 0 {
		return c
	}
	return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
}

// WriteJobReportText renders r as aligned plain-text tables.
func WriteJobReportText(w io.Writer, r *JobReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	p := func(format string, args ...any) {
		_, _ = fmt.Fprintf(tw, format, args...)
	}

	p("%s\n", r.CompanyName)
	p("Job Report: %s\n", r.ProjectName)
	if r.Address != "" {
		p("Address: %s\n", r.Address)
	}
	p("Period: %s to %s\n", r.From, r.To)

	p("\nDiary\n")
	if len(r.Diary) == 0 {
		p("No diary entries in range.\n")
	} else {
		p("Date\tBillable\tHours\tCategory\tSummary\n")
		for _, d := range r.Diary {
			billable := "No"
			if d.Billable {
				billable = "Yes"
			}
			p("%s\t%s\t%s\t%s\t%s\n", d.Date, billable, d.Hours, d.Category, oneLine(d.Summary))
		}
	}

	p("\nOpen tasks\n")
	if len(r.OpenTasks) == 0 {
		p("No open tasks.\n")
	} else {
		p("Task\tStatus\tDue\tAssigned\n")
		for _, t := range r.OpenTasks {
			p("%s\t%s\t%s\t%s\n", t.Title, t.Status, t.Due, t.Assignee)
		}
	}

	p("\nVariations\n")
	if len(r.Variations) == 0 {
		p("No variations in range.\n")
	} else {
		p("Title\tStatus\tDate\tAmount\n")
		for _, v := range r.Variations {
			p("%s\t%s\t%s\t%s\n", v.Title, v.Status, v.Date, v.Amount)
		}
	}

	p("\nDeliveries\n")
	if len(r.Deliveries) == 0 {
		p("No deliveries in range.\n")
	} else {
		p("Supplier\tDate\tStatus\tItems\n")
		for _, d := range r.Deliveries {
			p("%s\t%s\t%s\t%s\n", d.Supplier, d.Date, d.Status, oneLine(d.Items))
		}
	}

	p("\nInspections\n")
	if len(r.Inspections) == 0 {
		p("No inspections in range.\n")
	} else {
		p("Type\tDate\tResult\tNotes\n")
		for _, i := range r.Inspections {
			p("%s\t%s\t%s\t%s\n", i.Type, i.Date, i.Result, oneLine(i.Notes))
		}
	}

	p("\nGenerated %s\n", r.GeneratedAt.Format("2 Jan 2006 15:04"))
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write job report: %w", err)
	}
	return nil
}

// oneLine keeps multi-line notes from breaking table alignment.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
