// Package commands holds named actions that can be looked up and run by id.
package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

var ErrCommandNotFound = errors.New("command not found")

// Command is a named action. Run may be nil for commands that only exist
// to be listed.
type Command struct {
	ID   string
	Name string
	Run  func(ctx context.Context) error
}

// Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]Command
	order []string
	log   *logrus.Entry
}

func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]Command),
		log:  logrus.WithField("component", "commands"),
	}
}

// Register adds cmd, replacing an earlier command with the same id while
// keeping its position in List.
func (r *Registry) Register(cmd Command) {
	if cmd.ID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[cmd.ID]; !exists {
		r.order = append(r.order, cmd.ID)
	}
	r.byID[cmd.ID] = cmd
}

func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[id]; !exists {
		return
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Registry) Find(id string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.byID[id]
	return cmd, ok
}

// List returns the commands in registration order.
func (r *Registry) List() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *Registry) Execute(ctx context.Context, id string) error {
	cmd, ok := r.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCommandNotFound, id)
	}
	if cmd.Run == nil {
		return nil
	}
	r.log.WithField("command", id).Debug("executing command")
	if err := cmd.Run(ctx); err != nil {
		return fmt.Errorf("command %s: %w", id, err)
	}
	return nil
}

// ExecuteFirst runs the first id that is registered and returns it. When
// none is registered the error wraps ErrCommandNotFound.
func (r *Registry) ExecuteFirst(ctx context.Context, ids ...string) (string, error) {
	for _, id := range ids {
		if _, ok := r.Find(id); !ok {
			continue
		}
		return id, r.Execute(ctx, id)
	}
	return "", fmt.Errorf("%w: tried %v", ErrCommandNotFound, ids)
}
