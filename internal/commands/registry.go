package commands

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry maps command names and aliases to commands. Lookups are
// case-insensitive; registered names must already be lower case.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Command
	primary []string
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Register adds a command under its name and aliases. Nothing is added when
// any of them is invalid or taken.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, c.Aliases()...)
	for i, key := range keys {
		if err := validName(key); err != nil {
			return err
		}
		if _, taken := r.byName[key]; taken || slices.Contains(keys[:i], key) {
			return fmt.Errorf("command name already registered: %s", key)
		}
	}

	for _, key := range keys {
		r.byName[key] = c
	}
	r.primary = append(r.primary, c.Name())
	slices.Sort(r.primary)
	return nil
}

func validName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty command name")
	case strings.HasPrefix(name, "-"), strings.ContainsAny(name, " \t"), name != strings.ToLower(name):
		return fmt.Errorf("invalid command name: %q", name)
	}
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.byName[strings.ToLower(name)]
	return cmd, ok
}

// All returns every command once, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, len(r.primary))
	for i, name := range r.primary {
		out[i] = r.byName[name]
	}
	return out
}

// DefaultRegistry holds the commands of the taskhub binary.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry and panics on a clash.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
