package issuesync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskhub/internal/model"
)

var created = time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)

func sampleSubtasks() []model.Subtask {
	return []model.Subtask{
		{ID: "s2", Title: "Review", Order: 1, Notes: "  ask Dana  ", CreatedAt: created},
		{ID: "s1", Title: "Draft", Order: 0, Completed: true, CreatedAt: created},
		{ID: "s3", Title: "Ship", Order: 2, CreatedAt: created},
	}
}

func TestFormatSubtasks(t *testing.T) {
	want := "\n\n---\n\n## Subtasks\n\n" +
		"- [x] Draft\n" +
		"- [ ] Review\n" +
		"  - *ask Dana*\n" +
		"- [ ] Ship\n" +
		"\n**Progress: 1/3 complete (33%)**\n"
	assert.Equal(t, want, FormatSubtasks(sampleSubtasks()))
	assert.Equal(t, "", FormatSubtasks(nil))
}

func TestExtractMainDescription(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"", ""},
		{"Plain body", "Plain body"},
		{"Intro\n\n---\n\n## Subtasks\n\n- [ ] a\n", "Intro"},
		{"Intro\n\n\n---\n\n## Subtasks\n\n- [ ] a\n", "Intro\n"},
		{"Intro\n---\nfooter", "Intro\n---\nfooter"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractMainDescription(tt.body), "body %q", tt.body)
	}
}

func TestBuildBody_Idempotent(t *testing.T) {
	subs := sampleSubtasks()
	for _, desc := range []string{"", "Fix the login flow.", "Trailing newline\n"} {
		once := BuildBody(desc, subs)
		twice := BuildBody(once, subs)
		assert.Equal(t, once, twice, "description %q", desc)
		assert.Equal(t, desc, ExtractMainDescription(once))
	}
}

func TestBuildBody_ReplacesStaleSection(t *testing.T) {
	subs := sampleSubtasks()
	stale := BuildBody("Intro", subs[:1])

	subs[0].Completed = true
	got := BuildBody(stale, subs)
	assert.Equal(t, BuildBody("Intro", subs), got)

	assert.Equal(t, "Intro", BuildBody(stale, nil))
}

func TestValidateTarget(t *testing.T) {
	assert.NoError(t, ValidateTarget(Target{Owner: "o", Repo: "r", Token: "t", Issue: 3}))

	err := ValidateTarget(Target{Issue: -1})
	if assert.Error(t, err) {
		for _, msg := range []string{"owner", "repository name", "token", "issue number"} {
			assert.Contains(t, err.Error(), msg)
		}
	}
}
