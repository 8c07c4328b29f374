package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/query"
)

// CategoryTotal is one invoice line: the billable entries of a category.
type CategoryTotal struct {
	Category domain.Category `json:"category"`
	Hours    decimal.Decimal `json:"hours"`
	Amount   decimal.Decimal `json:"amount"`
	Entries  int             `json:"entries"`
}

// BillableExport groups a project's billable diary entries into invoice lines.
type BillableExport struct {
	CompanyName string          `json:"companyName"`
	ProjectName string          `json:"projectName"`
	Address     string          `json:"address"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Currency    string          `json:"currency"`
	Lines       []CategoryTotal `json:"lines"`
	TotalHours  decimal.Decimal `json:"totalHours"`
	LabourHours decimal.Decimal `json:"labourHours"`
	Total       decimal.Decimal `json:"total"`
}

// BuildBillableExport totals the billable diary entries of a project within
// [from, to]. Labour is charged per hour at the entry's rate, or at
// settings.LabourRate when the entry has none; the default is read here, at
// report time, so changing it reprices past unrated labour. Any other
// category is charged the entry's rate as a flat amount, or nothing.
func BuildBillableExport(s domain.State, settings domain.Settings, projectID, from, to string, now time.Time) (*BillableExport, error) {
	p, ok := s.Project(projectID)
	if !ok {
		return nil, fmt.Errorf("billable export for %q: %w", projectID, ErrProjectNotFound)
	}
	from, to = Period(from, to, now)

	entries := query.Select(s.Diary, query.Criteria{ProjectID: projectID, From: from, To: to})
	entries = query.Where(entries, func(d domain.DiaryEntry) bool { return d.Billable })
	entries = query.ByDate(entries, query.Asc)

	x := &BillableExport{
		CompanyName: settings.CompanyName,
		ProjectName: p.Name,
		Address:     p.Address,
		From:        from,
		To:          to,
		Currency:    settings.Currency,
		Lines:       []CategoryTotal{},
	}
	defaultRate := decimal.NewFromFloat(settings.LabourRate)
	index := make(map[domain.Category]int)

	for _, d := range entries {
		cat := d.Category
		if cat == "" {
			cat = domain.CategoryOther
		}
		i, seen := index[cat]
		if !seen {
			i = len(x.Lines)
			index[cat] = i
			x.Lines = append(x.Lines, CategoryTotal{Category: cat})
		}
		line := &x.Lines[i]

		hours, _ := domain.ParseNumber(d.Hours)
		rate, hasRate := domain.ParseNumber(d.Rate)

		line.Hours = line.Hours.Add(hours)
		line.Entries++
		if cat == domain.CategoryLabour {
			if !hasRate {
				rate = defaultRate
			}
			line.Amount = line.Amount.Add(hours.Mul(rate))
			x.LabourHours = x.LabourHours.Add(hours)
		} else if hasRate {
			line.Amount = line.Amount.Add(rate)
		}
		x.TotalHours = x.TotalHours.Add(hours)
	}

	for _, line := range x.Lines {
		x.Total = x.Total.Add(line.Amount)
	}
	return x, nil
}

// Text renders the copy-paste block for an invoicing tool.
func (x *BillableExport) Text() string {
	lines := []string{
		x.CompanyName,
		"Project: " + x.ProjectName,
	}
	if x.Address != "" {
		lines = append(lines, "Address: "+x.Address)
	}
	lines = append(lines, fmt.Sprintf("Period: %s to %s", x.From, x.To))
	for _, l := range x.Lines {
		if l.Category == domain.CategoryLabour {
			lines = append(lines, fmt.Sprintf("Site labour – %s (%s hrs)    %s",
				x.ProjectName, FormatHours(l.Hours), FormatMoney(l.Amount, x.Currency)))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s    %s", l.Category, FormatMoney(l.Amount, x.Currency)))
	}
	lines = append(lines,
		fmt.Sprintf("Total billable hours:    %s h", FormatHours(x.TotalHours)),
		fmt.Sprintf("Labour hours:    %s h", FormatHours(x.LabourHours)),
		fmt.Sprintf("Total (ex GST):    %s", FormatMoney(x.Total, x.Currency)),
	)
	return strings.Join(lines, "\n")
}
