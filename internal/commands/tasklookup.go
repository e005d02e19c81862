package commands

import (
	"fmt"
	"strconv"

	"taskhub/internal/model"
)

// lookupTask parses args[0] as a task reference against doc and returns the
// task id along with the remaining args.
func lookupTask(doc *model.Document, args []string) (model.ID, []string, error) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return "", nil, err
	}
	id, err := ref.ResolveTask(doc)
	if err != nil {
		return "", nil, err
	}
	return id, args[1:], nil
}

// lookupRecurring is lookupTask for recurring tasks.
func lookupRecurring(doc *model.Document, args []string) (model.ID, []string, error) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return "", nil, err
	}
	id, err := ref.ResolveRecurring(doc)
	if err != nil {
		return "", nil, err
	}
	return id, args[1:], nil
}

// parsePosition parses a 1-based position argument.
func parsePosition(what string, args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, nil, fmt.Errorf("invalid %s: %s", what, args[0])
	}
	return n, args[1:], nil
}
