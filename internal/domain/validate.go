package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/shopspring/decimal"
)

// DateLayout is the storage format of every date field.
const DateLayout = "2006-01-02"

var ErrNotFound = errors.New("record not found")

// ValidationError reports a missing or malformed field. Saves that fail
// validation leave the store untouched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

const (
	idSize     = 21
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NewID generates an opaque record identifier.
func NewID() string {
	return gonanoid.MustGenerate(idAlphabet, idSize)
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// FormatDate renders t as a storage date in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AddDays shifts a storage date by n days.
func AddDays(date string, n int) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// ParseNumber parses a numeric form field. Empty or non-numeric input yields
// ok=false.
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "required")
	}
	return nil
}

func optionalDate(field, value string) error {
	if value != "" && !ValidDate(value) {
		return invalid(field, "must be a YYYY-MM-DD date")
	}
	return nil
}

// ValidateRange checks optional report bounds. Dates compare as strings, so
// anything other than YYYY-MM-DD would select the wrong records.
func ValidateRange(from, to string) error {
	if err := optionalDate("from", from); err != nil {
		return err
	}
	return optionalDate("to", to)
}

func projectRef(s *State, id string) error {
	if err := required("projectId", id); err != nil {
		return err
	}
	if _, ok := s.Project(id); !ok {
		return invalid("projectId", "project %q does not exist", id)
	}
	return nil
}

// The Validate methods trim text fields, fill enum defaults and check
// references against s.

func (p *Project) Validate(_ *State) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	p.ClientName = strings.TrimSpace(p.ClientName)
	p.ClientPhone = strings.TrimSpace(p.ClientPhone)
	p.Notes = strings.TrimSpace(p.Notes)
	if err := required("name", p.Name); err != nil {
		return err
	}
	if (p.Lat == nil) != (p.Lng == nil) {
		return invalid("lat", "lat and lng must be set together")
	}
	return nil
}

func (t *Task) Validate(s *State) error {
	t.Title = strings.TrimSpace(t.Title)
	t.Details = strings.TrimSpace(t.Details)
	if err := projectRef(s, t.ProjectID); err != nil {
		return err
	}
	if err := required("title", t.Title); err != nil {
		return err
	}
	status, err := ParseTaskStatus(string(t.Status))
	if err != nil {
		return invalid("status", "%v", err)
	}
	t.Status = status
	if err := optionalDate("dueDate", t.DueDate); err != nil {
		return err
	}
	if t.AssignedSubbieID != nil && *t.AssignedSubbieID == "" {
		t.AssignedSubbieID = nil
	}
	if t.AssignedSubbieID != nil {
		if _, ok := s.Subbie(*t.AssignedSubbieID); !ok {
			return invalid("assignedSubbieId", "subcontractor %q does not exist", *t.AssignedSubbieID)
		}
	}
	return nil
}

func (d *DiaryEntry) Validate(s *State) error {
	d.Summary = strings.TrimSpace(d.Summary)
	d.Hours = strings.TrimSpace(d.Hours)
	d.Rate = strings.TrimSpace(d.Rate)
	if err := projectRef(s, d.ProjectID); err != nil {
		return err
	}
	if err := required("date", d.Date); err != nil {
		return err
	}
	if err := optionalDate("date", d.Date); err != nil {
		return err
	}
	category, err := ParseCategory(string(d.Category))
	if err != nil {
		return invalid("category", "%v", err)
	}
	d.Category = category
	return nil
}

func (v *Variation) Validate(s *State) error {
	v.Title = strings.TrimSpace(v.Title)
	v.Description = strings.TrimSpace(v.Description)
	v.Amount = strings.TrimSpace(v.Amount)
	if err := projectRef(s, v.ProjectID); err != nil {
		return err
	}
	if err := required("title", v.Title); err != nil {
		return err
	}
	if err := optionalDate("date", v.Date); err != nil {
		return err
	}
	status, err := ParseVariationStatus(string(v.Status))
	if err != nil {
		return invalid("status", "%v", err)
	}
	v.Status = status
	return nil
}

func (sc *Subcontractor) Validate(_ *State) error {
	sc.Name = strings.TrimSpace(sc.Name)
	sc.Trade = strings.TrimSpace(sc.Trade)
	sc.Phone = strings.TrimSpace(sc.Phone)
	sc.Email = strings.TrimSpace(sc.Email)
	sc.Notes = strings.TrimSpace(sc.Notes)
	return required("name", sc.Name)
}

func (d *Delivery) Validate(s *State) error {
	d.Supplier = strings.TrimSpace(d.Supplier)
	d.Items = strings.TrimSpace(d.Items)
	d.DropPoint = strings.TrimSpace(d.DropPoint)
	d.Notes = strings.TrimSpace(d.Notes)
	if err := projectRef(s, d.ProjectID); err != nil {
		return err
	}
	if err := optionalDate("date", d.Date); err != nil {
		return err
	}
	status, err := ParseDeliveryStatus(string(d.Status))
	if err != nil {
		return invalid("status", "%v", err)
	}
	d.Status = status
	return nil
}

func (i *Inspection) Validate(s *State) error {
	i.Type = strings.TrimSpace(i.Type)
	i.Inspector = strings.TrimSpace(i.Inspector)
	i.Notes = strings.TrimSpace(i.Notes)
	if err := projectRef(s, i.ProjectID); err != nil {
		return err
	}
	if err := required("type", i.Type); err != nil {
		return err
	}
	if err := optionalDate("date", i.Date); err != nil {
		return err
	}
	result, err := ParseInspectionResult(string(i.Result))
	if err != nil {
		return invalid("result", "%v", err)
	}
	i.Result = result
	return nil
}

func (s *Settings) Validate() error {
	theme, err := ParseTheme(string(s.Theme))
	if err != nil {
		return invalid("theme", "%v", err)
	}
	s.Theme = theme
	s.CompanyName = strings.TrimSpace(s.CompanyName)
	if s.CompanyName == "" {
		s.CompanyName = DefaultCompanyName
	}
	if s.LabourRate < 0 {
		return invalid("labourRate", "must not be negative")
	}
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	if s.Currency == "" {
		s.Currency = DefaultCurrency
	}
	return nil
}
