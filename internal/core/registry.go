package core

import (
	"sort"
	"strings"
	"sync"
)

type Registry struct {
	mu   sync.RWMutex
	cmds map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]Command)}
}

// Register adds cmd, replacing any command with the same name.
func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds[cmd.Name()] = cmd
}

func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.cmds[name]
	return cmd, ok
}

// All returns the registered commands sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Command, 0, len(r.cmds))
	for _, cmd := range r.cmds {
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// ForComponent finds the command owning a component custom ID.
func (r *Registry) ForComponent(customID string) (Command, bool) {
	name, _, _ := strings.Cut(customID, ":")
	return r.Get(name)
}
