package domain

import "slices"

const (
	DefaultCompanyName = "My Building Company"
	DefaultLabourRate  = 90
	DefaultCurrency    = "NZD"
)

// State is the main store document: every collection, owned by one value.
type State struct {
	Projects    []Project       `json:"projects"`
	Tasks       []Task          `json:"tasks"`
	Diary       []DiaryEntry    `json:"diary"`
	Variations  []Variation     `json:"variations"`
	Subbies     []Subcontractor `json:"subbies"`
	Deliveries  []Delivery      `json:"deliveries"`
	Inspections []Inspection    `json:"inspections"`
}

// Settings is the singleton settings document, persisted separately.
type Settings struct {
	Theme       Theme   `json:"theme"`
	CompanyName string  `json:"companyName"`
	LabourRate  float64 `json:"labourRate"`
	Currency    string  `json:"currency"`
}

func NewState() State {
	return State{
		Projects:    []Project{},
		Tasks:       []Task{},
		Diary:       []DiaryEntry{},
		Variations:  []Variation{},
		Subbies:     []Subcontractor{},
		Deliveries:  []Delivery{},
		Inspections: []Inspection{},
	}
}

func DefaultSettings() Settings {
	return Settings{
		Theme:       ThemeDark,
		CompanyName: DefaultCompanyName,
		LabourRate:  DefaultLabourRate,
		Currency:    DefaultCurrency,
	}
}

// Normalize replaces nil collections (e.g. from a JSON null) with empty ones.
func (s State) Normalize() State {
	if s.Projects == nil {
		s.Projects = []Project{}
	}
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	if s.Diary == nil {
		s.Diary = []DiaryEntry{}
	}
	if s.Variations == nil {
		s.Variations = []Variation{}
	}
	if s.Subbies == nil {
		s.Subbies = []Subcontractor{}
	}
	if s.Deliveries == nil {
		s.Deliveries = []Delivery{}
	}
	if s.Inspections == nil {
		s.Inspections = []Inspection{}
	}
	return s
}

// Clone returns a copy whose slices (including photo lists) can be modified
// without affecting s.
func (s State) Clone() State {
	c := State{
		Projects:    slices.Clone(s.Projects),
		Tasks:       slices.Clone(s.Tasks),
		Diary:       slices.Clone(s.Diary),
		Variations:  slices.Clone(s.Variations),
		Subbies:     slices.Clone(s.Subbies),
		Deliveries:  slices.Clone(s.Deliveries),
		Inspections: slices.Clone(s.Inspections),
	}
	for i := range c.Tasks {
		c.Tasks[i].Photos = slices.Clone(c.Tasks[i].Photos)
	}
	for i := range c.Diary {
		c.Diary[i].Photos = slices.Clone(c.Diary[i].Photos)
	}
	for i := range c.Variations {
		c.Variations[i].Photos = slices.Clone(c.Variations[i].Photos)
	}
	for i := range c.Deliveries {
		c.Deliveries[i].Photos = slices.Clone(c.Deliveries[i].Photos)
	}
	for i := range c.Inspections {
		c.Inspections[i].Photos = slices.Clone(c.Inspections[i].Photos)
	}
	return c.Normalize()
}

func (s *State) Project(id string) (*Project, bool) {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return &s.Projects[i], true
		}
	}
	return nil, false
}

func (s *State) Subbie(id string) (*Subcontractor, bool) {
	for i := range s.Subbies {
		if s.Subbies[i].ID == id {
			return &s.Subbies[i], true
		}
	}
	return nil, false
}

// ProjectName returns the name of the project or "" when it no longer exists.
func (s *State) ProjectName(id string) string {
	if p, ok := s.Project(id); ok {
		return p.Name
	}
	return ""
}

// Counts returns the number of records per collection, keyed by collection name.
func (s *State) Counts() map[string]int {
	return map[string]int{
		"projects":    len(s.Projects),
		"tasks":       len(s.Tasks),
		"diary":       len(s.Diary),
		"variations":  len(s.Variations),
		"subbies":     len(s.Subbies),
		"deliveries":  len(s.Deliveries),
		"inspections": len(s.Inspections),
	}
}
