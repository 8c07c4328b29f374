package domain

import "time"

// Meta holds the identity and timestamps shared by every record.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RecordMeta exposes the embedded Meta so generic helpers can stamp records.
func (m *Meta) RecordMeta() *Meta { return m }

// Record is implemented by pointers to every stored entity.
type Record interface {
	RecordMeta() *Meta
}

type Project struct {
	Meta
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	ClientName  string   `json:"clientName"`
	ClientPhone string   `json:"clientPhone"`
	Notes       string   `json:"notes"`
}

// HasCoords reports whether the project has been geocoded.
func (p *Project) HasCoords() bool {
	return p.Lat != nil && p.Lng != nil
}

type Task struct {
	Meta
	ProjectID        string     `json:"projectId"`
	Title            string     `json:"title"`
	Details          string     `json:"details"`
	Status           TaskStatus `json:"status"`
	DueDate          string     `json:"dueDate"`
	AssignedSubbieID *string    `json:"assignedSubbieId"`
	Photos           []Photo    `json:"photos"`
}

type DiaryEntry struct {
	Meta
	ProjectID string   `json:"projectId"`
	Date      string   `json:"date"`
	Summary   string   `json:"summary"`
	Hours     string   `json:"hours"`
	Billable  bool     `json:"billable"`
	Category  Category `json:"category"`
	Rate      string   `json:"rate"`
	Photos    []Photo  `json:"photos"`
}

type Variation struct {
	Meta
	ProjectID   string          `json:"projectId"`
	Date        string          `json:"date"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Amount      string          `json:"amount"`
	Status      VariationStatus `json:"status"`
	Photos      []Photo         `json:"photos"`
}

// Subcontractor is global: tasks reference it by id but never own it.
type Subcontractor struct {
	Meta
	Name  string `json:"name"`
	Trade string `json:"trade"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

type Delivery struct {
	Meta
	ProjectID string         `json:"projectId"`
	Supplier  string         `json:"supplier"`
	Date      string         `json:"date"`
	Status    DeliveryStatus `json:"status"`
	Items     string         `json:"items"`
	DropPoint string         `json:"dropPoint"`
	Notes     string         `json:"notes"`
	Photos    []Photo        `json:"photos"`
}

type Inspection struct {
	Meta
	ProjectID string           `json:"projectId"`
	Type      string           `json:"type"`
	Date      string           `json:"date"`
	Result    InspectionResult `json:"result"`
	Inspector string           `json:"inspector"`
	Notes     string           `json:"notes"`
	Photos    []Photo          `json:"photos"`
}

// Photo is an inline-encoded image owned by exactly one record.
type Photo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Size      int64     `json:"size"`
	DataURL   string    `json:"dataUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// Accessors used by the query layer.

func (p Project) GetDate() string      { return "" }
func (p Project) GetProjectID() string { return p.ID }
func (p Project) GetName() string      { return p.Name }

func (t Task) GetDate() string      { return t.DueDate }
func (t Task) GetProjectID() string { return t.ProjectID }

func (d DiaryEntry) GetDate() string      { return d.Date }
func (d DiaryEntry) GetProjectID() string { return d.ProjectID }

func (v Variation) GetDate() string      { return v.Date }
func (v Variation) GetProjectID() string { return v.ProjectID }

func (s Subcontractor) GetDate() string      { return "" }
func (s Subcontractor) GetProjectID() string { return "" }
func (s Subcontractor) GetName() string      { return s.Name }

func (d Delivery) GetDate() string      { return d.Date }
func (d Delivery) GetProjectID() string { return d.ProjectID }

func (i Inspection) GetDate() string      { return i.Date }
func (i Inspection) GetProjectID() string { return i.ProjectID }

func (m Meta) GetID() string           { return m.ID }
func (m Meta) GetUpdatedAt() time.Time { return m.UpdatedAt }

// PhotoHolder is implemented by pointers to records that carry photos.
type PhotoHolder interface {
	Attachments() *[]Photo
}

func (t *Task) Attachments() *[]Photo       { return &t.Photos }
func (d *DiaryEntry) Attachments() *[]Photo { return &d.Photos }
func (v *Variation) Attachments() *[]Photo  { return &v.Photos }
func (d *Delivery) Attachments() *[]Photo   { return &d.Photos }
func (i *Inspection) Attachments() *[]Photo { return &i.Photos }
