package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedState() State {
	s := NewState()
	s.Projects = []Project{
		{Meta: Meta{ID: "p1"}, Name: "Kowhai Road"},
		{Meta: Meta{ID: "p2"}, Name: "Rimu Street"},
	}
	s.Subbies = []Subcontractor{
		{Meta: Meta{ID: "s1"}, Name: "Sparkies Ltd"},
		{Meta: Meta{ID: "s2"}, Name: "Plumb Co"},
	}
	s.Tasks = []Task{
		{Meta: Meta{ID: "t1"}, ProjectID: "p1", Title: "Frame lounge", AssignedSubbieID: strPtr("s1")},
		{Meta: Meta{ID: "t2"}, ProjectID: "p2", Title: "Wire kitchen", AssignedSubbieID: strPtr("s1")},
		{Meta: Meta{ID: "t3"}, ProjectID: "p2", Title: "Plumb bathroom", AssignedSubbieID: strPtr("s2")},
	}
	s.Diary = []DiaryEntry{
		{Meta: Meta{ID: "d1"}, ProjectID: "p1", Date: "2024-06-01"},
		{Meta: Meta{ID: "d2"}, ProjectID: "p2", Date: "2024-06-02"},
	}
	s.Variations = []Variation{{Meta: Meta{ID: "v1"}, ProjectID: "p1", Title: "LVL beam"}}
	s.Deliveries = []Delivery{{Meta: Meta{ID: "del1"}, ProjectID: "p1", Supplier: "PlaceMakers"}}
	s.Inspections = []Inspection{
		{Meta: Meta{ID: "i1"}, ProjectID: "p1", Type: "Pre-line"},
		{Meta: Meta{ID: "i2"}, ProjectID: "p2", Type: "Final"},
	}
	return s
}

func TestDeleteProjectCascades(t *testing.T) {
	before := seedState()
	after := DeleteProject(before, "p1")

	_, ok := after.Project("p1")
	assert.False(t, ok)
	for _, task := range after.Tasks {
		assert.NotEqual(t, "p1", task.ProjectID)
	}
	for _, d := range after.Diary {
		assert.NotEqual(t, "p1", d.ProjectID)
	}
	assert.Empty(t, after.Variations)
	assert.Empty(t, after.Deliveries)
	require.Len(t, after.Inspections, 1)
	assert.Equal(t, "i2", after.Inspections[0].ID)

	assert.Equal(t, before.Subbies, after.Subbies)
	assert.Len(t, after.Tasks, 2)
}

func TestDeleteProjectLeavesInputUntouched(t *testing.T) {
	before := seedState()
	_ = DeleteProject(before, "p1")

	assert.Len(t, before.Projects, 2)
	assert.Len(t, before.Tasks, 3)
	assert.Len(t, before.Inspections, 2)
}

func TestDeleteProjectUnknownIDIsNoop(t *testing.T) {
	before := seedState()
	after := DeleteProject(before, "missing")

	assert.Equal(t, before.Counts(), after.Counts())
}

func TestDeleteSubcontractorClearsAssignments(t *testing.T) {
	before := seedState()
	after := DeleteSubcontractor(before, "s1")

	_, ok := after.Subbie("s1")
	assert.False(t, ok)
	require.Len(t, after.Tasks, 3)
	assert.Nil(t, after.Tasks[0].AssignedSubbieID)
	assert.Nil(t, after.Tasks[1].AssignedSubbieID)
	require.NotNil(t, after.Tasks[2].AssignedSubbieID)
	assert.Equal(t, "s2", *after.Tasks[2].AssignedSubbieID)

	// The original state still carries the assignment.
	require.NotNil(t, before.Tasks[0].AssignedSubbieID)
	assert.Equal(t, "s1", *before.Tasks[0].AssignedSubbieID)
}

func TestRemoveAndFind(t *testing.T) {
	s := seedState()

	task, ok := Find(s.Tasks, "t2")
	require.True(t, ok)
	assert.Equal(t, "Wire kitchen", task.Title)

	_, ok = Find(s.Tasks, "nope")
	assert.False(t, ok)

	out, removed := Remove(s.Tasks, "t2")
	assert.True(t, removed)
	assert.Len(t, out, 2)
	assert.Len(t, s.Tasks, 3)

	_, removed = Remove(out, "t2")
	assert.False(t, removed)
}

func TestCloneIsolatesPhotos(t *testing.T) {
	s := seedState()
	s.Tasks[0].Photos = make([]Photo, 1, 4)
	s.Tasks[0].Photos[0] = Photo{ID: "ph1"}

	c := s.Clone()
	c.Tasks[0].Photos = append(c.Tasks[0].Photos, Photo{ID: "ph2"})
	c.Tasks[0].Photos[0].Name = "changed"

	assert.Len(t, s.Tasks[0].Photos, 1)
	assert.Empty(t, s.Tasks[0].Photos[0].Name)
}

func TestNormalizeFillsNilCollections(t *testing.T) {
	s := State{Projects: []Project{{Meta: Meta{ID: "p1"}}}}.Normalize()

	assert.Len(t, s.Projects, 1)
	assert.NotNil(t, s.Tasks)
	assert.NotNil(t, s.Diary)
	assert.NotNil(t, s.Variations)
	assert.NotNil(t, s.Subbies)
	assert.NotNil(t, s.Deliveries)
	assert.NotNil(t, s.Inspections)
}
