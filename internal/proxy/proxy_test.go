package proxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"mdproxy/pkg/types"
)

// fakeServer is a minimal in-process modeling server that counts requests
// per endpoint and captures the last decoded POST body.
type fakeServer struct {
	t *testing.T

	mu     sync.Mutex
	hits   map[string]int
	bodies map[string]map[string]any

	model    map[string]any
	typesXML string
	folder   string
	failCode int
}

func newFakeServer(t *testing.T) (*fakeServer, *Proxy) {
	t.Helper()
	fs := &fakeServer{
		t:      t,
		hits:   map[string]int{},
		bodies: map[string]map[string]any{},
		model:  map[string]any{"top": map[string]any{"a": float64(1)}},
		typesXML: `<?xml version="1.0" encoding="UTF-8"?>` +
			`<types><type name="Assembly" path="main.assembly.Assembly"/></types>`,
		folder: "/projects/demo",
	}
	srv := httptest.NewServer(fs)
	t.Cleanup(srv.Close)
	p, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new proxy: %v", err)
	}
	return fs, p
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Path[1:]
	f.mu.Lock()
	f.hits[endpoint]++
	if r.Method == http.MethodPost {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			f.t.Errorf("decode %s body: %v", endpoint, err)
		}
		f.bodies[endpoint] = body
	}
	fail := f.failCode
	f.mu.Unlock()
	if fail > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(fail)
		json.NewEncoder(w).Encode(types.ErrorResponse{Error: "boom", Code: fail})
		return
	}
	switch endpoint {
	case "types":
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(f.typesXML))
	case "model.json":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(f.model)
	case "folder":
		if r.Method == http.MethodGet {
			w.Write([]byte(f.folder))
			return
		}
		w.Write([]byte("ok"))
	case "files.json":
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sub":{"a.py":7}}`))
	case "command":
		w.Write([]byte("ran"))
	case "output":
		w.Write([]byte("line1\n"))
	case "file":
		if r.Method == http.MethodGet {
			w.Write([]byte("contents of " + r.URL.Query().Get("file")))
			return
		}
		w.Write([]byte("ok"))
	default:
		w.Write([]byte("ok"))
	}
}

func (f *fakeServer) count(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[endpoint]
}

func (f *fakeServer) body(endpoint string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[endpoint]
}

func TestSnapshotCachedUntilInvalidated(t *testing.T) {
	fs, p := newFakeServer(t)
	ctx := context.Background()
	if _, err := p.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := p.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if n := fs.count("model.json"); n != 1 {
		t.Fatalf("model.json fetches=%d, want 1", n)
	}
	p.InvalidateModel()
	if _, err := p.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if n := fs.count("model.json"); n != 2 {
		t.Fatalf("model.json fetches=%d, want 2", n)
	}
}

func TestMutationsInvalidateSnapshot(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name   string
		mutate func(p *Proxy) error
	}{
		{"add", func(p *Proxy) error { return p.AddComponent(ctx, "main.assembly.Assembly", "asm1", 10, 20) }},
		{"command", func(p *Proxy) error { _, err := p.RunCommand(ctx, "top.run()"); return err }},
		{"write", func(p *Proxy) error { return p.WriteFile(ctx, "a.py", "pass") }},
		{"remove", func(p *Proxy) error { return p.DeleteFile(ctx, "a.py") }},
		{"exec", func(p *Proxy) error { return p.ExecFile(ctx, "a.py") }},
		{"mkdir", func(p *Proxy) error { return p.CreateFolder(ctx, "sub") }},
		{"folder", func(p *Proxy) error { return p.SetWorkingFolder(ctx, "/tmp") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs, p := newFakeServer(t)
			if _, err := p.Snapshot(ctx); err != nil {
				t.Fatalf("prefetch: %v", err)
			}
			if err := tc.mutate(p); err != nil {
				t.Fatalf("mutate: %v", err)
			}
			if _, err := p.Snapshot(ctx); err != nil {
				t.Fatalf("refetch: %v", err)
			}
			if n := fs.count("model.json"); n != 2 {
				t.Fatalf("model.json fetches=%d, want 2 after %s", n, tc.name)
			}
		})
	}
}

func TestTypesFetchedOnce(t *testing.T) {
	fs, p := newFakeServer(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		cat, err := p.Types(ctx)
		if err != nil {
			t.Fatalf("types: %v", err)
		}
		if len(cat.Types) != 1 || cat.Types[0].Name != "Assembly" {
			t.Fatalf("unexpected catalog: %+v", cat)
		}
	}
	// Mutations must not invalidate the catalog.
	if _, err := p.RunCommand(ctx, "x=1"); err != nil {
		t.Fatalf("command: %v", err)
	}
	if _, err := p.Types(ctx); err != nil {
		t.Fatalf("types: %v", err)
	}
	if n := fs.count("types"); n != 1 {
		t.Fatalf("types fetches=%d, want 1", n)
	}
	p.InvalidateTypes()
	if _, err := p.Types(ctx); err != nil {
		t.Fatalf("types: %v", err)
	}
	if n := fs.count("types"); n != 2 {
		t.Fatalf("types fetches=%d, want 2", n)
	}
}

func TestAddComponentCoordinateFloor(t *testing.T) {
	fs, p := newFakeServer(t)
	if err := p.AddComponent(context.Background(), "main.assembly.Assembly", "asm1", 0, -3); err != nil {
		t.Fatalf("add: %v", err)
	}
	body := fs.body("add")
	if body["x"] != float64(1) || body["y"] != float64(1) {
		t.Fatalf("unexpected add body: %v", body)
	}
	if body["type"] != "main.assembly.Assembly" || body["name"] != "asm1" {
		t.Fatalf("unexpected add body: %v", body)
	}
}

func TestWorkingFolderReturnedToCaller(t *testing.T) {
	_, p := newFakeServer(t)
	f, err := p.WorkingFolder(context.Background())
	if err != nil {
		t.Fatalf("folder: %v", err)
	}
	if f != "/projects/demo" {
		t.Fatalf("folder=%q", f)
	}
}

func TestRunCommandReturnsResponseText(t *testing.T) {
	fs, p := newFakeServer(t)
	out, err := p.RunCommand(context.Background(), "top.run()")
	if err != nil {
		t.Fatalf("command: %v", err)
	}
	if out != "ran" {
		t.Fatalf("out=%q", out)
	}
	if fs.body("command")["command"] != "top.run()" {
		t.Fatalf("unexpected command body: %v", fs.body("command"))
	}
}

func TestStatusErrorDecoded(t *testing.T) {
	fs, p := newFakeServer(t)
	fs.failCode = http.StatusNotFound
	_, err := p.ReadFile(context.Background(), "missing.py")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsStatus(err, http.StatusNotFound) {
		t.Fatalf("err=%v, want 404 status error", err)
	}
	var se *StatusError
	if !asStatus(err, &se) || se.Message != "boom" {
		t.Fatalf("err=%v, want decoded server message", err)
	}
}

func asStatus(err error, se **StatusError) bool {
	s, ok := err.(*StatusError)
	if ok {
		*se = s
	}
	return ok
}

func TestListFiles(t *testing.T) {
	_, p := newFakeServer(t)
	tree, err := p.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ls: %v", err)
	}
	sub, ok := tree["sub"].(map[string]any)
	if !ok || sub["a.py"] != float64(7) {
		t.Fatalf("unexpected tree: %v", tree)
	}
}
