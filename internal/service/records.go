package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/vbonduro/sitelog/internal/domain"
	"github.com/vbonduro/sitelog/internal/query"
)

// entity is a pointer to a stored record type.
type entity[T any] interface {
	*T
	domain.Record
	Validate(*domain.State) error
}

// collection binds a record type to its slice in the state and its default
// list order.
type collection[T any, P entity[T]] struct {
	name  string
	items func(*domain.State) *[]T
	order func([]T) []T
	// global collections ignore the project filter.
	global bool
}

var (
	projects = collection[domain.Project, *domain.Project]{
		name:  "projects",
		items: func(s *domain.State) *[]domain.Project { return &s.Projects },
		order: query.ByUpdatedDesc[domain.Project],
	}
	tasks = collection[domain.Task, *domain.Task]{
		name:  "tasks",
		items: func(s *domain.State) *[]domain.Task { return &s.Tasks },
		order: query.ByUpdatedDesc[domain.Task],
	}
	diary = collection[domain.DiaryEntry, *domain.DiaryEntry]{
		name:  "diary",
		items: func(s *domain.State) *[]domain.DiaryEntry { return &s.Diary },
		order: func(d []domain.DiaryEntry) []domain.DiaryEntry { return query.ByDate(d, query.Desc) },
	}
	variations = collection[domain.Variation, *domain.Variation]{
		name:  "variations",
		items: func(s *domain.State) *[]domain.Variation { return &s.Variations },
		order: func(v []domain.Variation) []domain.Variation { return query.ByDate(v, query.Desc) },
	}
	subbies = collection[domain.Subcontractor, *domain.Subcontractor]{
		name:   "subbies",
		items:  func(s *domain.State) *[]domain.Subcontractor { return &s.Subbies },
		order:  query.ByName[domain.Subcontractor],
		global: true,
	}
	deliveries = collection[domain.Delivery, *domain.Delivery]{
		name:  "deliveries",
		items: func(s *domain.State) *[]domain.Delivery { return &s.Deliveries },
		order: func(d []domain.Delivery) []domain.Delivery { return query.ByDate(d, query.Asc) },
	}
	inspections = collection[domain.Inspection, *domain.Inspection]{
		name:  "inspections",
		items: func(s *domain.State) *[]domain.Inspection { return &s.Inspections },
		order: func(i []domain.Inspection) []domain.Inspection { return query.ByDate(i, query.Asc) },
	}
)

// Collections lists the collection names accepted by the service.
var Collections = []string{"projects", "tasks", "diary", "variations", "subbies", "deliveries", "inspections"}

// save validates rec against the state and stores it. A record whose id is
// already present is replaced in place, keeping its creation time; anything
// else is prepended as a new record.
func (c collection[T, P]) save(ctx context.Context, s *SiteService, rec T) (T, error) {
	err := s.mutate(ctx, c.name, "save", func(st *domain.State) error {
		p := P(&rec)
		if err := p.Validate(st); err != nil {
			return err
		}
		now := s.timestamp()
		m := p.RecordMeta()
		items := c.items(st)

		if m.ID != "" {
			if existing, ok := domain.Find[T, P](*items, m.ID); ok {
				m.CreatedAt = existing.RecordMeta().CreatedAt
				m.UpdatedAt = now
				keepPhotos(existing, p)
				*existing = rec
				return nil
			}
		} else {
			m.ID = domain.NewID()
		}
		m.CreatedAt = now
		m.UpdatedAt = now
		if h, ok := any(p).(domain.PhotoHolder); ok && *h.Attachments() == nil {
			*h.Attachments() = []domain.Photo{}
		}
		*items = append([]T{rec}, *items...)
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

// keepPhotos carries photos across a replace when the incoming record has
// none at all. Photos are managed through AttachPhotos and DetachPhoto.
func keepPhotos(existing, incoming any) {
	old, ok := existing.(domain.PhotoHolder)
	if !ok {
		return
	}
	next := incoming.(domain.PhotoHolder)
	if *next.Attachments() == nil {
		*next.Attachments() = *old.Attachments()
	}
}

func (c collection[T, P]) get(s *SiteService, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := domain.Find[T, P](*c.items(&s.state), id)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %q: %w", c.name, id, domain.ErrNotFound)
	}
	out := *p
	if h, ok := any(P(&out)).(domain.PhotoHolder); ok {
		*h.Attachments() = slices.Clone(*h.Attachments())
	}
	return out, nil
}

func (c collection[T, P]) remove(ctx context.Context, s *SiteService, id string) error {
	return s.mutate(ctx, c.name, "delete", func(st *domain.State) error {
		items := c.items(st)
		out, found := domain.Remove[T, P](*items, id)
		if !found {
			return fmt.Errorf("%s %q: %w", c.name, id, domain.ErrNotFound)
		}
		*items = out
		return nil
	})
}

// list returns the records matching crit in the collection's default order.
func (c collection[T, P]) list(s *SiteService, filter func([]T, query.Criteria) []T, crit query.Criteria) []T {
	st := s.Snapshot()
	items := *c.items(&st)
	if c.global {
		crit.ProjectID = ""
	}
	if filter != nil {
		items = filter(items, crit)
	}
	return c.order(items)
}

// Projects

func (s *SiteService) SaveProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	return projects.save(ctx, s, p)
}

func (s *SiteService) GetProject(id string) (domain.Project, error) {
	return projects.get(s, id)
}

// ListProjects returns every project, most recently updated first.
func (s *SiteService) ListProjects() []domain.Project {
	return projects.list(s, nil, query.Criteria{})
}

// DeleteProject removes the project together with all records that belong
// to it. Subcontractors are not touched.
func (s *SiteService) DeleteProject(ctx context.Context, id string) error {
	return s.mutate(ctx, projects.name, "delete", func(st *domain.State) error {
		if _, ok := st.Project(id); !ok {
			return fmt.Errorf("projects %q: %w", id, domain.ErrNotFound)
		}
		before := st.Counts()
		*st = domain.DeleteProject(*st, id)
		after := st.Counts()
		s.logger.Info("project deleted",
			"project_id", id,
			"tasks", before["tasks"]-after["tasks"],
			"diary", before["diary"]-after["diary"],
			"variations", before["variations"]-after["variations"],
			"deliveries", before["deliveries"]-after["deliveries"],
			"inspections", before["inspections"]-after["inspections"],
		)
		return nil
	})
}

// Tasks

func (s *SiteService) SaveTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	return tasks.save(ctx, s, t)
}

func (s *SiteService) GetTask(id string) (domain.Task, error) {
	return tasks.get(s, id)
}

// ListTasks returns tasks most recently updated first. A date range applies
// to the due date.
func (s *SiteService) ListTasks(c query.Criteria) []domain.Task {
	return tasks.list(s, query.Select[domain.Task], c)
}

func (s *SiteService) DeleteTask(ctx context.Context, id string) error {
	return tasks.remove(ctx, s, id)
}

// Diary

func (s *SiteService) SaveDiaryEntry(ctx context.Context, d domain.DiaryEntry) (domain.DiaryEntry, error) {
	return diary.save(ctx, s, d)
}

func (s *SiteService) GetDiaryEntry(id string) (domain.DiaryEntry, error) {
	return diary.get(s, id)
}

// ListDiary returns diary entries newest first.
func (s *SiteService) ListDiary(c query.Criteria) []domain.DiaryEntry {
	return diary.list(s, query.Select[domain.DiaryEntry], c)
}

func (s *SiteService) DeleteDiaryEntry(ctx context.Context, id string) error {
	return diary.remove(ctx, s, id)
}

// Variations

func (s *SiteService) SaveVariation(ctx context.Context, v domain.Variation) (domain.Variation, error) {
	return variations.save(ctx, s, v)
}

func (s *SiteService) GetVariation(id string) (domain.Variation, error) {
	return variations.get(s, id)
}

func (s *SiteService) ListVariations(c query.Criteria) []domain.Variation {
	return variations.list(s, query.Select[domain.Variation], c)
}

func (s *SiteService) DeleteVariation(ctx context.Context, id string) error {
	return variations.remove(ctx, s, id)
}

// Subcontractors

func (s *SiteService) SaveSubbie(ctx context.Context, sc domain.Subcontractor) (domain.Subcontractor, error) {
	return subbies.save(ctx, s, sc)
}

func (s *SiteService) GetSubbie(id string) (domain.Subcontractor, error) {
	return subbies.get(s, id)
}

// ListSubbies returns every subcontractor by name.
func (s *SiteService) ListSubbies() []domain.Subcontractor {
	return subbies.list(s, nil, query.Criteria{})
}

// DeleteSubbie removes the subcontractor and unassigns it from every task.
func (s *SiteService) DeleteSubbie(ctx context.Context, id string) error {
	return s.mutate(ctx, subbies.name, "delete", func(st *domain.State) error {
		if _, ok := st.Subbie(id); !ok {
			return fmt.Errorf("subbies %q: %w", id, domain.ErrNotFound)
		}
		*st = domain.DeleteSubcontractor(*st, id)
		return nil
	})
}

// Deliveries

func (s *SiteService) SaveDelivery(ctx context.Context, d domain.Delivery) (domain.Delivery, error) {
	return deliveries.save(ctx, s, d)
}

func (s *SiteService) GetDelivery(id string) (domain.Delivery, error) {
	return deliveries.get(s, id)
}

func (s *SiteService) ListDeliveries(c query.Criteria) []domain.Delivery {
	return deliveries.list(s, query.Select[domain.Delivery], c)
}

func (s *SiteService) DeleteDelivery(ctx context.Context, id string) error {
	return deliveries.remove(ctx, s, id)
}

// Inspections

func (s *SiteService) SaveInspection(ctx context.Context, i domain.Inspection) (domain.Inspection, error) {
	return inspections.save(ctx, s, i)
}

func (s *SiteService) GetInspection(id string) (domain.Inspection, error) {
	return inspections.get(s, id)
}

func (s *SiteService) ListInspections(c query.Criteria) []domain.Inspection {
	return inspections.list(s, query.Select[domain.Inspection], c)
}

func (s *SiteService) DeleteInspection(ctx context.Context, id string) error {
	return inspections.remove(ctx, s, id)
}
