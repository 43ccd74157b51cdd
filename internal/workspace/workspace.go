// Package workspace is an in-memory implementation of the modeling server's
// state: a component model, a command/output log, and a file tree. It backs
// the stub server used for local development and end-to-end tests.
package workspace

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"mdproxy/pkg/types"
)

type component struct {
	typ   string
	x, y  int
	state map[string]any
}

// Workspace holds one modeling session's state. Safe for concurrent use.
type Workspace struct {
	log zerolog.Logger

	mu         sync.Mutex
	catalog    types.TypeCatalog
	components map[string]*component
	output     []string
	folder     string
	files      map[string]string
	folders    map[string]bool
	commands   []string

	exitOnce sync.Once
	done     chan struct{}
}

// New builds an empty workspace offering the given type catalog.
func New(catalog types.TypeCatalog) *Workspace {
	return &Workspace{
		log:        zerolog.Nop(),
		catalog:    catalog,
		components: make(map[string]*component),
		folder:     "/",
		files:      make(map[string]string),
		folders:    make(map[string]bool),
		done:       make(chan struct{}),
	}
}

// SetLogger installs a structured logger used by the workspace.
func (w *Workspace) SetLogger(l zerolog.Logger) { w.log = l }

// TypeCatalog returns the catalog of creatable types.
func (w *Workspace) TypeCatalog() types.TypeCatalog {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.catalog
}

// ModelJSON renders the current component model as a snapshot tree. Each
// component appears under its name with coordinates at the top level and
// attributes nested under "state".
func (w *Workspace) ModelJSON() types.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	snap := make(types.Snapshot, len(w.components))
	for name, c := range w.components {
		st := make(map[string]any, len(c.state))
		for k, v := range c.state {
			st[k] = v
		}
		snap[name] = map[string]any{
			"type":         c.typ,
			"x":            c.x,
			"y":            c.y,
			types.StateKey: st,
		}
	}
	return snap
}

// AddComponent instantiates a cataloged type under name at (x, y).
func (w *Workspace) AddComponent(typ, name string, x, y int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("component name is required")
	}
	if !w.typeKnown(typ) {
		return ErrUnknownType(typ)
	}
	if _, ok := w.components[name]; ok {
		return ErrDuplicateName(name)
	}
	w.components[name] = &component{typ: typ, x: x, y: y, state: map[string]any{}}
	w.output = append(w.output, fmt.Sprintf("created %s: %s", name, typ))
	w.log.Debug().Str("name", name).Str("type", typ).Msg("component added")
	return nil
}

// SetComponentState replaces one attribute on a named component. Used by
// seeds and tests to shape the snapshot tree.
func (w *Workspace) SetComponentState(name, key string, value any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.components[name]
	if !ok {
		return fmt.Errorf("no such component: %s", name)
	}
	c.state[key] = value
	return nil
}

// RunCommand records and "executes" a statement, returning its textual
// response. The stub echoes the statement into the output queue.
func (w *Workspace) RunCommand(ctx context.Context, cmd string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if strings.TrimSpace(cmd) == "" {
		return "", fmt.Errorf("command is required")
	}
	w.commands = append(w.commands, cmd)
	w.output = append(w.output, ">>> "+cmd)
	w.log.Debug().Str("command", cmd).Msg("command run")
	return "", nil
}

// Commands returns every statement run so far, oldest first.
func (w *Workspace) Commands() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.commands...)
}

// Output drains and returns the queued textual output.
func (w *Workspace) Output() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.output) == 0 {
		return ""
	}
	out := strings.Join(w.output, "\n") + "\n"
	w.output = nil
	return out
}

// Exit marks the session terminated. Idempotent.
func (w *Workspace) Exit() {
	w.exitOnce.Do(func() { close(w.done) })
}

// Done is closed once Exit has been requested; the stub server's main loop
// watches it for shutdown.
func (w *Workspace) Done() <-chan struct{} { return w.done }

func (w *Workspace) typeKnown(typ string) bool {
	if len(w.catalog.Types) == 0 {
		return true
	}
	for _, t := range w.catalog.Types {
		if t.Path == typ || t.Name == typ {
			return true
		}
	}
	return false
}
