package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProject(t *testing.T) {
	doc := testDocument()

	require.NoError(t, doc.AddProject("Garden"))
	assert.Equal(t, []string{"Personal", "Work", "Garden"}, doc.Projects)
	assert.Equal(t, []string{}, doc.Themes["Garden"])

	assert.ErrorIs(t, doc.AddProject("garden"), ErrProjectExists)
}

func TestRemoveProject_InUse(t *testing.T) {
	doc := testDocument()

	assert.ErrorIs(t, doc.RemoveProject("work", false), ErrProjectInUse)
	assert.Contains(t, doc.Projects, "Work")

	require.NoError(t, doc.RemoveProject("work", true))
	assert.NotContains(t, doc.Projects, "Work")
	assert.NotContains(t, doc.Themes, "Work")
	task, _ := doc.Task("a")
	assert.Equal(t, "", task.Project)
	assert.Empty(t, task.Themes)
	assert.NoError(t, doc.Validate())
}

func TestRemoveTheme_StripsTasks(t *testing.T) {
	doc := testDocument()

	require.NoError(t, doc.RemoveTheme("Work", "q4 goals"))
	assert.Equal(t, []string{"Client Projects"}, doc.Themes["Work"])
	task, _ := doc.Task("a")
	assert.Empty(t, task.Themes)

	assert.ErrorIs(t, doc.RemoveTheme("Work", "nope"), ErrUnknownTheme)
}

func TestAddTheme(t *testing.T) {
	doc := testDocument()
	require.NoError(t, doc.AddTheme("personal", "Finances"))
	assert.Equal(t, []string{"Hobbies", "Finances"}, doc.Themes["Personal"])
	assert.ErrorIs(t, doc.AddTheme("Personal", "finances"), ErrProjectExists)
	assert.ErrorIs(t, doc.AddTheme("Garden", "Beds"), ErrUnknownProject)
}

func TestValidate_ReportsViolations(t *testing.T) {
	doc := testDocument()
	doc.Tasks[1].Project = "Ghost"
	doc.Tasks[2].Completed = true

	err := doc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ghost")
	assert.Contains(t, err.Error(), "completedAt")
}

func TestTagRegistryAndSearch(t *testing.T) {
	tasks := []Task{
		{Tags: []string{"work", "urgent"}},
		{Tags: []string{"Work", "home"}},
		{Tags: []string{"homework"}},
	}
	reg := TagRegistry(tasks)
	assert.Equal(t, map[string]int{"work": 2, "urgent": 1, "home": 1, "homework": 1}, reg)

	assert.Equal(t, []TagStat{{"work", 2}, {"home", 1}}, FrequentTags(reg, 2))

	got := SearchTags(reg, "work")
	require.Len(t, got, 2)
	assert.Equal(t, "work", got[0].Name)
	assert.Equal(t, "homework", got[1].Name)

	got = SearchTags(reg, "ho")
	require.Len(t, got, 2)
	assert.Equal(t, "home", got[0].Name)
	assert.Nil(t, SearchTags(reg, "!!"))
}

func TestRenameTag_MergesAndCaps(t *testing.T) {
	doc := NewDocument(nil, nil)
	doc.Tasks = []Task{
		{ID: "1", Tags: []string{"old", "new"}},
		{ID: "2", Tags: []string{"a", "old", "b"}},
		{ID: "3", Tags: []string{"x"}},
	}

	assert.Equal(t, 2, doc.RenameTag("OLD", "new"))
	assert.Equal(t, []string{"new"}, doc.Tasks[0].Tags)
	assert.Equal(t, []string{"a", "b", "new"}, doc.Tasks[1].Tags)
	assert.Equal(t, []string{"x"}, doc.Tasks[2].Tags)

	assert.Equal(t, 0, doc.RenameTag("new", "new"))
}

func TestDeleteTag(t *testing.T) {
	doc := NewDocument(nil, nil)
	doc.Tasks = []Task{{ID: "1", Tags: []string{"a", "b"}}, {ID: "2", Tags: []string{"c"}}}
	assert.Equal(t, 1, doc.DeleteTag("A"))
	assert.Equal(t, []string{"b"}, doc.Tasks[0].Tags)
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "my-tag_1", NormalizeTag("  My-Tag_1! "))
	assert.Equal(t, "", NormalizeTag("###"))
}

func TestTagColor_Stable(t *testing.T) {
	a := TagColor("urgent", 8)
	assert.Equal(t, a, TagColor("urgent", 8))
	assert.GreaterOrEqual(t, a, 0)
	assert.Less(t, a, 8)
	assert.Equal(t, 0, TagColor("x", 0))
}

func TestSubtasks(t *testing.T) {
	doc := testDocument()

	for _, title := range []string{"one", "two", "three"} {
		_, err := doc.AddSubtask("a", title, testNow)
		require.NoError(t, err)
	}
	_, err := doc.AddSubtask("a", "  ", testNow)
	assert.ErrorIs(t, err, ErrEmptyTitle)

	require.NoError(t, doc.ToggleSubtask("a", 2, testNow))
	task, _ := doc.Task("a")
	assert.Equal(t, Progress{Completed: 1, Total: 3, Percentage: 33}, SubtaskProgress(task.Subtasks))
	require.NotNil(t, task.Subtasks[1].CompletedAt)

	require.NoError(t, doc.ReorderSubtasks("a", 3, 1))
	task, _ = doc.Task("a")
	assert.Equal(t, []string{"three", "one", "two"}, subtaskTitles(task.Subtasks))
	assert.Equal(t, []int{0, 1, 2}, []int{task.Subtasks[0].Order, task.Subtasks[1].Order, task.Subtasks[2].Order})

	notes := "ask Bob"
	require.NoError(t, doc.UpdateSubtask("a", 1, nil, &notes))
	task, _ = doc.Task("a")
	assert.Equal(t, "ask Bob", task.Subtasks[0].Notes)

	require.NoError(t, doc.DeleteSubtask("a", 1))
	task, _ = doc.Task("a")
	assert.Equal(t, []string{"one", "two"}, subtaskTitles(task.Subtasks))
	assert.Equal(t, 1, task.Subtasks[1].Order)

	assert.ErrorIs(t, doc.ToggleSubtask("a", 5, testNow), ErrSubtaskNotFound)
}

func TestSubtaskProgress_Empty(t *testing.T) {
	assert.Equal(t, Progress{}, SubtaskProgress(nil))
}

func subtaskTitles(subs []Subtask) []string {
	out := make([]string, len(subs))
	for i, s := range SortedSubtasks(subs) {
		out[i] = s.Title
	}
	return out
}

func TestFilter_Views(t *testing.T) {
	today := testNow
	yesterday := testNow.AddDate(0, 0, -1)
	tomorrow := testNow.AddDate(0, 0, 1)
	doneAt := testNow.Add(time.Hour)

	tasks := []Task{
		{ID: "due-today", Priority: P0, DueDate: &today},
		{ID: "late", Priority: P1, DueDate: &yesterday, Project: "Work", Themes: []string{"Q4 Goals"}},
		{ID: "later", Priority: P1, DueDate: &tomorrow, Project: "Work", Themes: []string{"Q4 Goals"}, Tags: []string{"home"}},
		{ID: "no-date", Priority: P1},
		{ID: "done-today", Priority: P1, DueDate: &today, Completed: true, CompletedAt: &doneAt},
	}

	tests := []struct {
		opts FilterOptions
		want []int
	}{
		{FilterOptions{View: ViewAll}, []int{0, 1, 2, 3}},
		{FilterOptions{View: ViewAll, ShowCompleted: true}, []int{0, 1, 2, 3, 4}},
		{FilterOptions{View: ViewToday}, []int{0}},
		{FilterOptions{View: ViewOverdue}, []int{1, 3}},
		{FilterOptions{View: ViewUnassigned}, []int{0, 3}},
		{FilterOptions{View: ViewSummary}, []int{4}},
		{FilterOptions{Priority: P0}, []int{0}},
		{FilterOptions{Project: "Work"}, []int{1, 2}},
		{FilterOptions{Tags: []string{"HOME", "nope"}}, []int{2}},
	}
	for _, tt := range tests {
		tt.opts.Now = testNow
		assert.Equal(t, tt.want, Filter(tasks, tt.opts), "%+v", tt.opts)
	}
}

func TestParseView(t *testing.T) {
	v, err := ParseView("")
	require.NoError(t, err)
	assert.Equal(t, ViewAll, v)
	_, err = ParseView("weekly")
	assert.Error(t, err)
}

func TestFilterRecurring(t *testing.T) {
	rs := []RecurringTask{{Project: "Work"}, {}, {Project: "Work"}}
	assert.Equal(t, []int{0, 2}, FilterRecurring(rs, "Work"))
	assert.Equal(t, []int{0, 1, 2}, FilterRecurring(rs, ""))
}
