// Package mirror pushes the task Document one way into a service.Mirror.
// Tasks are matched to mirror entries by title; nothing is read back.
package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"taskhub/internal/model"
	"taskhub/internal/service"
)

// Result counts what an Export did.
type Result struct {
	Created   int
	Completed int
	Unchanged int
}

// Export makes the list listID reflect doc:
//   - an open task whose title is not in the list is created there
//   - a completed task completes every open list entry with its title
//
// Export stops at the first failing call and returns what it did so far.
func Export(ctx context.Context, m service.Mirror, listID string, doc model.Document, log *slog.Logger) (Result, error) {
	var res Result
	existing, err := m.ListTasks(ctx, listID)
	if err != nil {
		return res, fmt.Errorf("list mirror tasks: %w", err)
	}
	byTitle := make(map[string][]service.MirrorTask)
	for _, t := range existing {
		key := titleKey(t.Title)
		byTitle[key] = append(byTitle[key], t)
	}

	for _, t := range doc.Tasks {
		key := titleKey(t.Title)
		mirrored := byTitle[key]

		if !t.Completed {
			if len(mirrored) > 0 {
				res.Unchanged++
				continue
			}
			mt := Task(t)
			if err := m.CreateTask(ctx, listID, mt); err != nil {
				return res, fmt.Errorf("create %q: %w", t.Title, err)
			}
			byTitle[key] = append(byTitle[key], mt)
			log.Debug("mirror task created", "title", t.Title)
			res.Created++
			continue
		}

		changed := false
		for i, mt := range mirrored {
			if mt.Completed() || mt.ID == "" {
				continue
			}
			if err := m.CompleteTask(ctx, listID, mt.ID); err != nil {
				return res, fmt.Errorf("complete %q: %w", t.Title, err)
			}
			mirrored[i].Status = service.StatusCompleted
			log.Debug("mirror task completed", "title", t.Title, "id", mt.ID)
			changed = true
		}
		if changed {
			res.Completed++
		} else {
			res.Unchanged++
		}
	}
	return res, nil
}

// Task converts an open task into its mirror form. Notes carry the project,
// themes, tags and description, since the mirror has no fields for them.
func Task(t model.Task) service.MirrorTask {
	var notes []string
	if t.Project != "" {
		line := "@" + t.Project
		for _, th := range t.Themes {
			line += " +" + th
		}
		notes = append(notes, line)
	}
	if len(t.Tags) > 0 {
		notes = append(notes, "#"+strings.Join(t.Tags, " #"))
	}
	if t.Priority == model.P0 {
		notes = append(notes, string(model.P0))
	}
	if d := strings.TrimSpace(t.Description); d != "" {
		notes = append(notes, d)
	}

	mt := service.MirrorTask{
		Title:  strings.TrimSpace(t.Title),
		Notes:  strings.Join(notes, "\n"),
		Status: service.StatusNeedsAction,
	}
	if t.DueDate != nil {
		due := *t.DueDate
		mt.Due = &due
	}
	return mt
}

func titleKey(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
