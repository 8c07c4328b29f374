package domain

// keep returns the elements of items for which pred is true, in order, as a
// new slice. items is never modified.
func keep[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// DeleteProject removes the project and every task, diary entry, variation,
// delivery and inspection that belongs to it. Subcontractors are global and
// are left alone.
func DeleteProject(s State, id string) State {
	out := s.Clone()
	out.Projects = keep(s.Projects, func(p Project) bool { return p.ID != id })
	out.Tasks = keep(out.Tasks, func(t Task) bool { return t.ProjectID != id })
	out.Diary = keep(out.Diary, func(d DiaryEntry) bool { return d.ProjectID != id })
	out.Variations = keep(out.Variations, func(v Variation) bool { return v.ProjectID != id })
	out.Deliveries = keep(out.Deliveries, func(d Delivery) bool { return d.ProjectID != id })
	out.Inspections = keep(out.Inspections, func(i Inspection) bool { return i.ProjectID != id })
	return out
}

// DeleteSubcontractor removes the subcontractor and clears the assignment on
// every task that referenced it. The tasks themselves are kept.
func DeleteSubcontractor(s State, id string) State {
	out := s.Clone()
	out.Subbies = keep(out.Subbies, func(sc Subcontractor) bool { return sc.ID != id })
	for i := range out.Tasks {
		if a := out.Tasks[i].AssignedSubbieID; a != nil && *a == id {
			out.Tasks[i].AssignedSubbieID = nil
		}
	}
	return out
}

// Remove drops the record with the given id from items. It reports whether
// a record was removed.
func Remove[T any, P interface {
	*T
	Record
}](items []T, id string) ([]T, bool) {
	found := false
	out := keep(items, func(it T) bool {
		if P(&it).RecordMeta().ID == id {
			found = true
			return false
		}
		return true
	})
	return out, found
}

// Find returns a pointer into items for the record with the given id.
func Find[T any, P interface {
	*T
	Record
}](items []T, id string) (P, bool) {
	for i := range items {
		p := P(&items[i])
		if p.RecordMeta().ID == id {
			return p, true
		}
	}
	return nil, false
}
