package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type TaskStatus string

const (
	TaskToDo       TaskStatus = "To do"
	TaskInProgress TaskStatus = "In progress"
	TaskBlocked    TaskStatus = "Blocked"
	TaskDone       TaskStatus = "Done"
)

var TaskStatuses = []TaskStatus{TaskToDo, TaskInProgress, TaskBlocked, TaskDone}

type Category string

const (
	CategoryLabour    Category = "Labour"
	CategoryMaterials Category = "Materials"
	CategoryTravel    Category = "Travel"
	CategoryPlant     Category = "Plant"
	CategoryOther     Category = "Other"
)

var Categories = []Category{CategoryLabour, CategoryMaterials, CategoryTravel, CategoryPlant, CategoryOther}

type VariationStatus string

const (
	VariationDraft    VariationStatus = "Draft"
	VariationSent     VariationStatus = "Sent"
	VariationApproved VariationStatus = "Approved"
	VariationDeclined VariationStatus = "Declined"
)

var VariationStatuses = []VariationStatus{VariationDraft, VariationSent, VariationApproved, VariationDeclined}

type DeliveryStatus string

const (
	DeliveryExpected         DeliveryStatus = "Expected"
	DeliveryDelivered        DeliveryStatus = "Delivered"
	DeliveryMissingOrDamaged DeliveryStatus = "Missing/Damaged"
)

var DeliveryStatuses = []DeliveryStatus{DeliveryExpected, DeliveryDelivered, DeliveryMissingOrDamaged}

type InspectionResult string

const (
	InspectionBooked      InspectionResult = "Booked"
	InspectionPass        InspectionResult = "Pass"
	InspectionFail        InspectionResult = "Fail"
	InspectionConditional InspectionResult = "Conditional"
)

var InspectionResults = []InspectionResult{InspectionBooked, InspectionPass, InspectionFail, InspectionConditional}

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

var Themes = []Theme{ThemeDark, ThemeLight}

// parseEnum matches s case-insensitively against the allowed labels. An empty
// string yields def.
func parseEnum[T ~string](kind, s string, def T, allowed []T) (T, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	for _, v := range allowed {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return def, fmt.Errorf("invalid %s %q", kind, s)
}

// decodeEnum parses a stored or submitted value. A blank value stays blank:
// defaults are filled by Validate on save, and reports read blanks with
// their own fallbacks.
func decodeEnum[T ~string](s string, dst *T, parse func(string) (T, error)) error {
	if strings.TrimSpace(s) == "" {
		*dst = ""
		return nil
	}
	v, err := parse(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func unmarshalEnum[T ~string](data []byte, dst *T, parse func(string) (T, error)) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return decodeEnum(s, dst, parse)
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	return parseEnum("task status", s, TaskToDo, TaskStatuses)
}

func ParseCategory(s string) (Category, error) {
	return parseEnum("category", s, CategoryLabour, Categories)
}

func ParseVariationStatus(s string) (VariationStatus, error) {
	return parseEnum("variation status", s, VariationDraft, VariationStatuses)
}

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	return parseEnum("delivery status", s, DeliveryExpected, DeliveryStatuses)
}

func ParseInspectionResult(s string) (InspectionResult, error) {
	return parseEnum("inspection result", s, InspectionBooked, InspectionResults)
}

func ParseTheme(s string) (Theme, error) {
	return parseEnum("theme", s, ThemeDark, Themes)
}

func (s *TaskStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, ParseTaskStatus)
}

func (c *Category) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, c, ParseCategory)
}

func (s *VariationStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, ParseVariationStatus)
}

func (s *DeliveryStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, ParseDeliveryStatus)
}

func (r *InspectionResult) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, r, ParseInspectionResult)
}

func (t *Theme) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, t, ParseTheme)
}

// UnmarshalText lets form decoders and flag parsers share the JSON rules.

func (s *TaskStatus) UnmarshalText(b []byte) error {
	return decodeEnum(string(b), s, ParseTaskStatus)
}

func (c *Category) UnmarshalText(b []byte) error {
	return decodeEnum(string(b), c, ParseCategory)
}

func (s *VariationStatus) UnmarshalText(b []byte) error {
	return decodeEnum(string(b), s, ParseVariationStatus)
}

func (s *DeliveryStatus) UnmarshalText(b []byte) error {
	return decodeEnum(string(b), s, ParseDeliveryStatus)
}

func (r *InspectionResult) UnmarshalText(b []byte) error {
	return decodeEnum(string(b), r, ParseInspectionResult)
}
