package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"taskhub/internal/model"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num       int    // 1-based position, 0 when Prefix is set
	Recurring bool   // true for an "r<N>" reference
	Prefix    string // id prefix
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// minPrefixLen keeps id prefixes from colliding with short words.
const minPrefixLen = 4

// idRefPrefix marks an explicit id prefix, needed for numeric legacy ids
// that would otherwise read as positions.
const idRefPrefix = "id:"

// ParseTaskRef parses a task reference from the first arg.
//
// Parsing rules:
// 1. All digits → position in the task list as printed by `list`
// 2. r<digits> (e.g., r1, r12) → position in the recurring list
// 3. id:<prefix> → prefix of a task id, any length, digits included
// 4. At least four characters → prefix of a task id
// 5. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	arg := strings.TrimSpace(args[0])
	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil || num < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	if len(arg) > 1 && arg[0] == 'r' && isAllDigits(arg[1:]) {
		num, err := strconv.Atoi(arg[1:])
		if err != nil || num < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num, Recurring: true}, nil
	}

	if prefix, ok := strings.CutPrefix(arg, idRefPrefix); ok {
		if prefix == "" {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Prefix: prefix}, nil
	}

	if len(arg) >= minPrefixLen {
		return TaskRef{Prefix: arg}, nil
	}
	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ResolveTask returns the id of the task ref points at.
func (r TaskRef) ResolveTask(doc *model.Document) (model.ID, error) {
	if r.Recurring {
		return "", fmt.Errorf("r%d is a recurring task", r.Num)
	}
	ids := make([]model.ID, len(doc.Tasks))
	for i, t := range doc.Tasks {
		ids[i] = t.ID
	}
	return r.resolve(ids)
}

// ResolveRecurring returns the id of the recurring task ref points at. A
// plain number counts as a recurring position here.
func (r TaskRef) ResolveRecurring(doc *model.Document) (model.ID, error) {
	ids := make([]model.ID, len(doc.RecurringTasks))
	for i, t := range doc.RecurringTasks {
		ids[i] = t.ID
	}
	return r.resolve(ids)
}

func (r TaskRef) resolve(ids []model.ID) (model.ID, error) {
	if r.Prefix == "" {
		if r.Num > len(ids) {
			return "", fmt.Errorf("task number out of range: %d", r.Num)
		}
		return ids[r.Num-1], nil
	}

	var match model.ID
	for _, id := range ids {
		if strings.HasPrefix(string(id), r.Prefix) {
			if match != "" {
				return "", fmt.Errorf("ambiguous task reference: %s", r.Prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("task not found: %s", r.Prefix)
	}
	return match, nil
}
