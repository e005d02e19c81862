package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"taskhub/internal/model"
)

var now = time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)

var (
	projects = []string{"Personal", "Work"}
	themes   = map[string][]string{
		"Work":     {"Q4 Goals", "Client Projects"},
		"Personal": {"Self Improvement", "Hobbies"},
	}
)

func midnight(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestParseAt(t *testing.T) {
	tomorrow := now.AddDate(0, 0, 1)

	tests := []struct {
		name  string
		input string
		want  Draft
	}{
		{
			name:  "priority date and tag",
			input: "Meeting p0 12/25 #Work",
			want: Draft{
				Title: "Meeting", Priority: model.P0,
				Themes: []string{}, Tags: []string{"work"},
				DueDate: midnight(2026, time.December, 25),
			},
		},
		{
			name:  "plain text",
			input: "  buy   milk ",
			want:  Draft{Title: "buy milk", Priority: model.P1, Themes: []string{}, Tags: []string{}},
		},
		{
			name:  "tag cap",
			input: "buy milk #a #b #c #d",
			want:  Draft{Title: "buy milk", Priority: model.P1, Themes: []string{}, Tags: []string{"a", "b", "c"}},
		},
		{
			name:  "duplicate tags",
			input: "#Home fix sink #home",
			want:  Draft{Title: "fix sink", Priority: model.P1, Themes: []string{}, Tags: []string{"home"}},
		},
		{
			name:  "project theme tomorrow",
			input: "Finish deck @work +q4 +client tomorrow",
			want: Draft{
				Title: "Finish deck", Priority: model.P1, Project: "Work",
				Themes: []string{"Q4 Goals", "Client Projects"}, Tags: []string{},
				DueDate: &tomorrow,
			},
		},
		{
			name:  "unknown project dropped",
			input: "Task @Nonexistent",
			want:  Draft{Title: "Task", Priority: model.P1, Themes: []string{}, Tags: []string{}},
		},
		{
			name:  "themes ignored without project",
			input: "Read +hobbies",
			want:  Draft{Title: "Read +hobbies", Priority: model.P1, Themes: []string{}, Tags: []string{}},
		},
		{
			name:  "today",
			input: "P1 call mom TODAY",
			want: Draft{
				Title: "call mom", Priority: model.P1,
				Themes: []string{}, Tags: []string{}, DueDate: &now,
			},
		},
		{
			name:  "month name",
			input: "party december 31",
			want: Draft{
				Title: "party", Priority: model.P1,
				Themes: []string{}, Tags: []string{}, DueDate: midnight(2026, time.December, 31),
			},
		},
		{
			name:  "explicit two digit year",
			input: "renew 3-1-27 passport",
			want: Draft{
				Title: "renew passport", Priority: model.P1,
				Themes: []string{}, Tags: []string{}, DueDate: midnight(2027, time.March, 1),
			},
		},
		{
			name:  "impossible date kept",
			input: "file 2/30",
			want:  Draft{Title: "file 2/30", Priority: model.P1, Themes: []string{}, Tags: []string{}},
		},
		{
			name:  "not a month",
			input: "Decide 3 things",
			want:  Draft{Title: "Decide 3 things", Priority: model.P1, Themes: []string{}, Tags: []string{}},
		},
		{
			name:  "markers inside words",
			input: "mail a@b.com about C++ #1",
			want:  Draft{Title: "mail a@b.com about C++", Priority: model.P1, Themes: []string{}, Tags: []string{"1"}},
		},
		{
			name:  "iso date keeps its year",
			input: "release 2024-12-25",
			want: Draft{
				Title: "release", Priority: model.P1,
				Themes: []string{}, Tags: []string{}, DueDate: midnight(2024, time.December, 25),
			},
		},
		{
			name:  "only the first date counts",
			input: "ship 2/30 or 3/5",
			want:  Draft{Title: "ship 2/30 or 3/5", Priority: model.P1, Themes: []string{}, Tags: []string{}},
		},
		{
			name:  "date glued to a number",
			input: "build 12024-12-25",
			want:  Draft{Title: "build 12024-12-25", Priority: model.P1, Themes: []string{}, Tags: []string{}},
		},
		{
			name:  "points",
			input: "Buy milk pts:5",
			want:  Draft{Title: "Buy milk", Priority: model.P1, Themes: []string{}, Tags: []string{}, Points: intPtr(5)},
		},
		{
			name:  "points long form",
			input: "Read POINTS: 12 chapters p0",
			want:  Draft{Title: "Read chapters", Priority: model.P0, Themes: []string{}, Tags: []string{}, Points: intPtr(12)},
		},
		{
			name:  "points inside a word",
			input: "file receipts:3",
			want:  Draft{Title: "file receipts:3", Priority: model.P1, Themes: []string{}, Tags: []string{}},
		},
		{
			name:  "non ascii tag stays literal",
			input: "café #tëst",
			want:  Draft{Title: "café #tëst", Priority: model.P1, Themes: []string{}, Tags: []string{}},
		},
		{
			name:  "tag must be the whole word",
			input: "#foo.bar done #ok",
			want:  Draft{Title: "#foo.bar done", Priority: model.P1, Themes: []string{}, Tags: []string{"ok"}},
		},
		{
			name:  "only markers",
			input: "p0 #x @work",
			want:  Draft{Title: "", Priority: model.P0, Project: "Work", Themes: []string{}, Tags: []string{"x"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAt(now, tt.input, projects, themes))
		})
	}
}

func intPtr(n int) *int { return &n }

func TestParseAt_NonASCIIProject(t *testing.T) {
	d := ParseAt(now, "Croissants @café +pât", []string{"Café"}, map[string][]string{"Café": {"Pâtisserie"}})
	assert.Equal(t, "Croissants", d.Title)
	assert.Equal(t, "Café", d.Project)
	assert.Equal(t, []string{"Pâtisserie"}, d.Themes)
}

func TestParseAt_TomorrowCrossesMonth(t *testing.T) {
	end := time.Date(2026, time.October, 31, 23, 0, 0, 0, time.UTC)
	d := ParseAt(end, "pay rent tomorrow", nil, nil)
	require.NotNil(t, d.DueDate)
	assert.Equal(t, time.November, d.DueDate.Month())
	assert.Equal(t, 1, d.DueDate.Day())
}

func TestDraftTask(t *testing.T) {
	d := ParseAt(now, "Finish deck @work +q4 #urgent p0 12/1", projects, themes)
	task := d.Task(now)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Finish deck", task.Title)
	assert.Equal(t, model.P0, task.Priority)
	assert.Equal(t, "Work", task.Project)
	assert.Equal(t, []string{"Q4 Goals"}, task.Themes)
	assert.Equal(t, []string{"urgent"}, task.Tags)
	assert.Equal(t, midnight(2026, time.December, 1), task.DueDate)
	assert.Nil(t, task.Points)
	assert.False(t, task.Completed)
	assert.Equal(t, now, task.Created)

	doc := model.NewDocument(projects, themes)
	assert.NoError(t, doc.AddTask(task))
}

func TestDraftTask_Points(t *testing.T) {
	task := ParseAt(now, "stretch pts:3", nil, nil).Task(now)
	require.NotNil(t, task.Points)
	assert.Equal(t, 3, *task.Points)
}

func TestDraftTask_NoTags(t *testing.T) {
	task := ParseAt(now, "plain", nil, nil).Task(now)
	assert.Nil(t, task.Tags)
	assert.Equal(t, []string{}, task.Themes)
}

func TestParseAt_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		input := rapid.StringMatching(`[a-z0-9#@+/ -]{0,40}`).Draw(t, "input")

		a := ParseAt(now, input, projects, themes)
		b := ParseAt(now, input, projects, themes)
		if !assert.ObjectsAreEqual(a, b) {
			t.Fatalf("non-deterministic parse of %q: %+v vs %+v", input, a, b)
		}
		if len(a.Tags) > model.MaxTagsPerTask {
			t.Fatalf("too many tags for %q: %v", input, a.Tags)
		}
		if a.Title != "" && (a.Title[0] == ' ' || a.Title[len(a.Title)-1] == ' ') {
			t.Fatalf("title not trimmed: %q", a.Title)
		}
		if a.Project == "" && len(a.Themes) > 0 {
			t.Fatalf("themes without project for %q", input)
		}
		for _, tag := range a.Tags {
			if tag != model.NormalizeTag(tag) {
				t.Fatalf("tag %q not normalized", tag)
			}
		}
	})
}
