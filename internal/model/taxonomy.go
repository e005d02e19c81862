package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrUnknownProject is returned when a name is not in Document.Projects.
	ErrUnknownProject = errors.New("project not found")

	// ErrUnknownTheme is returned when a theme is not in the vocabulary of
	// its project.
	ErrUnknownTheme = errors.New("theme not found")

	// ErrProjectExists is returned when adding a project or theme that is
	// already present (case-insensitive).
	ErrProjectExists = errors.New("already exists")

	// ErrProjectInUse is returned when removing a project that tasks still
	// reference without forcing.
	ErrProjectInUse = errors.New("project in use")
)

// FindProject returns the canonical spelling of name from Projects,
// matching case-insensitively after trimming.
func (d *Document) FindProject(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, p := range d.Projects {
		if strings.EqualFold(p, name) {
			return p, true
		}
	}
	return "", false
}

func (d *Document) canonicalProject(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", nil
	}
	p, ok := d.FindProject(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProject, name)
	}
	return p, nil
}

// AddProject appends a new project with an empty theme vocabulary.
func (d *Document) AddProject(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("project name required")
	}
	if _, ok := d.FindProject(name); ok {
		return fmt.Errorf("project %w: %s", ErrProjectExists, name)
	}
	d.Projects = append(d.Projects, name)
	if d.Themes == nil {
		d.Themes = make(map[string][]string)
	}
	if _, ok := d.Themes[name]; !ok {
		d.Themes[name] = []string{}
	}
	return nil
}

// ProjectUsage counts tasks and recurring tasks referencing project.
func (d *Document) ProjectUsage(project string) int {
	n := 0
	for _, t := range d.Tasks {
		if t.Project == project {
			n++
		}
	}
	for _, r := range d.RecurringTasks {
		if r.Project == project {
			n++
		}
	}
	return n
}

// RemoveProject deletes a project and its themes. Unless force is set it
// refuses while anything still references the project; with force the
// references are cleared along with their themes.
func (d *Document) RemoveProject(name string, force bool) error {
	project, ok := d.FindProject(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProject, name)
	}
	if n := d.ProjectUsage(project); n > 0 && !force {
		return fmt.Errorf("%w: %s has %d tasks", ErrProjectInUse, project, n)
	}
	for i := range d.Tasks {
		if d.Tasks[i].Project == project {
			d.Tasks[i].Project = ""
			d.Tasks[i].Themes = []string{}
		}
	}
	for i := range d.RecurringTasks {
		if d.RecurringTasks[i].Project == project {
			d.RecurringTasks[i].Project = ""
		}
	}
	d.Projects = slices.DeleteFunc(d.Projects, func(p string) bool { return p == project })
	delete(d.Themes, project)
	return nil
}

// AddTheme appends a theme to a project's vocabulary.
func (d *Document) AddTheme(projectName, theme string) error {
	project, ok := d.FindProject(projectName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProject, projectName)
	}
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return errors.New("theme name required")
	}
	for _, existing := range d.Themes[project] {
		if strings.EqualFold(existing, theme) {
			return fmt.Errorf("theme %w: %s", ErrProjectExists, theme)
		}
	}
	if d.Themes == nil {
		d.Themes = make(map[string][]string)
	}
	d.Themes[project] = append(d.Themes[project], theme)
	return nil
}

// RemoveTheme deletes a theme from a project's vocabulary and from every
// task of that project.
func (d *Document) RemoveTheme(projectName, theme string) error {
	project, ok := d.FindProject(projectName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProject, projectName)
	}
	i := slices.IndexFunc(d.Themes[project], func(t string) bool { return strings.EqualFold(t, theme) })
	if i < 0 {
		return fmt.Errorf("%w: %s (project %s)", ErrUnknownTheme, theme, project)
	}
	canonical := d.Themes[project][i]
	d.Themes[project] = slices.Delete(d.Themes[project], i, i+1)
	for j := range d.Tasks {
		t := &d.Tasks[j]
		if t.Project == project {
			t.Themes = slices.DeleteFunc(t.Themes, func(s string) bool { return s == canonical })
		}
	}
	return nil
}

// Validate reports every invariant violation in d.
func (d *Document) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(d.Projects))
	for _, p := range d.Projects {
		if seen[p] {
			errs = append(errs, fmt.Errorf("duplicate project: %s", p))
		}
		seen[p] = true
	}
	for _, t := range d.Tasks {
		if err := d.checkTaskRefs(t); err != nil {
			errs = append(errs, fmt.Errorf("task %s: %w", t.ID, err))
		}
		if t.Completed != (t.CompletedAt != nil) {
			errs = append(errs, fmt.Errorf("task %s: completedAt does not match completed", t.ID))
		}
	}
	for _, r := range d.RecurringTasks {
		if r.Project != "" && !seen[r.Project] {
			errs = append(errs, fmt.Errorf("recurring task %s: %w: %s", r.ID, ErrUnknownProject, r.Project))
		}
	}
	return errors.Join(errs...)
}

// FindTheme returns the canonical spelling of a theme in project's
// vocabulary, matching case-insensitively.
func (d *Document) FindTheme(project, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, t := range d.Themes[project] {
		if strings.EqualFold(t, name) {
			return t, true
		}
	}
	return "", false
}
