package proxy

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"mdproxy/pkg/types"
)

// Types returns the server's catalog of creatable object types. The catalog
// is fetched once and cached for the life of the proxy; call
// InvalidateTypes after registering new types at runtime.
func (p *Proxy) Types(ctx context.Context) (*types.TypeCatalog, error) {
	return p.catalog.get(ctx, func(ctx context.Context) (*types.TypeCatalog, error) {
		b, err := p.get(ctx, "types", nil)
		if err != nil {
			return nil, err
		}
		var cat types.TypeCatalog
		if err := xml.Unmarshal(b, &cat); err != nil {
			return nil, fmt.Errorf("types: decode catalog: %w", err)
		}
		return &cat, nil
	})
}

// InvalidateTypes drops the cached type catalog so the next Types call
// re-fetches it.
func (p *Proxy) InvalidateTypes() { p.catalog.invalidate() }

// Snapshot returns the current model snapshot, fetching it from the server
// when the local cache is empty.
func (p *Proxy) Snapshot(ctx context.Context) (types.Snapshot, error) {
	return p.snapshot.get(ctx, func(ctx context.Context) (types.Snapshot, error) {
		b, err := p.get(ctx, "model.json", nil)
		if err != nil {
			return nil, err
		}
		var snap types.Snapshot
		if err := json.Unmarshal(b, &snap); err != nil {
			return nil, fmt.Errorf("model.json: decode snapshot: %w", err)
		}
		return snap, nil
	})
}

// InvalidateModel drops the cached snapshot so the next read re-fetches.
// Every mutating operation calls this before issuing its request.
func (p *Proxy) InvalidateModel() { p.snapshot.invalidate() }

// ObjectByPath resolves a dotted pathname like "top.driver.workflow"
// against the model snapshot, fetching the snapshot if needed. At each
// segment, a key missing from the current node is also looked up under the
// node's reserved "state" sub-key before the walk fails. A segment missing
// from both locations yields an error satisfying IsPathNotFound.
func (p *Proxy) ObjectByPath(ctx context.Context, pathname string) (any, error) {
	snap, err := p.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var node any = map[string]any(snap)
	for _, seg := range strings.Split(pathname, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, ErrPathNotFound(pathname, seg)
		}
		next, ok := m[seg]
		if !ok {
			if st, sok := m[types.StateKey].(map[string]any); sok {
				next, ok = st[seg]
			}
		}
		if !ok {
			return nil, ErrPathNotFound(pathname, seg)
		}
		node = next
	}
	return node, nil
}

// AddComponent asks the server to instantiate typ under the given name at
// canvas position (x, y). Coordinates outside the canvas (less than 1)
// fall back to 1, matching the server's placement default.
func (p *Proxy) AddComponent(ctx context.Context, typ, name string, x, y int) error {
	if x < 1 {
		x = 1
	}
	if y < 1 {
		y = 1
	}
	p.InvalidateModel()
	if _, err := p.post(ctx, "add", types.AddRequest{Type: typ, Name: name, X: x, Y: y}); err != nil {
		return err
	}
	p.notify()
	return nil
}

// RunCommand executes a statement on the server and returns its textual
// response. The model cache is invalidated before the request is sent.
func (p *Proxy) RunCommand(ctx context.Context, command string) (string, error) {
	p.InvalidateModel()
	b, err := p.post(ctx, "command", types.CommandRequest{Command: command})
	if err != nil {
		return "", err
	}
	p.notify()
	return string(b), nil
}

// Output returns queued textual output from the model run.
func (p *Proxy) Output(ctx context.Context) (string, error) {
	b, err := p.get(ctx, "output", nil)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Exit asks the server to terminate the session.
func (p *Proxy) Exit(ctx context.Context) error {
	_, err := p.get(ctx, "exit", nil)
	return err
}
