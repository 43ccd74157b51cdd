package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadSeedYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "seed.yaml", `
folder: /projects/demo
types:
  - name: Assembly
    path: main.assembly.Assembly
components:
  - type: Assembly
    name: asm1
    x: 2
    y: 3
    state:
      k: v
files:
  sub/a.py: pass
`)
	seed, err := LoadSeed(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	w, err := FromSeed(seed)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if w.Folder() != "/projects/demo" {
		t.Fatalf("folder=%q", w.Folder())
	}
	snap := w.ModelJSON()
	if _, ok := snap["asm1"]; !ok {
		t.Fatalf("snapshot=%v", snap)
	}
	contents, err := w.ReadFile("sub/a.py")
	if err != nil || contents != "pass" {
		t.Fatalf("read=%q err=%v", contents, err)
	}
	// Seed creation chatter must not leak into run output.
	if out := w.Output(); out != "" {
		t.Fatalf("output=%q", out)
	}
}

func TestLoadSeedJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "seed.json", `{"types":[{"name":"A","path":"a.A"}],"files":{"f.py":"x"}}`)
	seed, err := LoadSeed(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(seed.Types) != 1 || seed.Files["f.py"] != "x" {
		t.Fatalf("seed=%+v", seed)
	}
}

func TestLoadSeedErrors(t *testing.T) {
	if _, err := LoadSeed(""); err == nil {
		t.Fatal("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "seed.txt", "not supported")
	if _, err := LoadSeed(p); err == nil {
		t.Fatal("expected unsupported extension error")
	}
}

func TestSeedUnknownComponentType(t *testing.T) {
	seed := Seed{
		Types:      nil,
		Components: []SeedComponent{{Type: "T", Name: "c1"}},
	}
	if _, err := FromSeed(seed); err != nil {
		t.Fatalf("empty catalog should accept any type: %v", err)
	}
}

func TestImportDir(t *testing.T) {
	d := t.TempDir()
	if err := os.MkdirAll(filepath.Join(d, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTempFile(t, d, "a.py", "pass")
	writeTempFile(t, filepath.Join(d, "sub"), "b.py", "pass2")

	w := New(catalog())
	if err := w.ImportDir(d); err != nil {
		t.Fatalf("import: %v", err)
	}
	if contents, err := w.ReadFile("a.py"); err != nil || contents != "pass" {
		t.Fatalf("read a.py=%q err=%v", contents, err)
	}
	if contents, err := w.ReadFile("sub/b.py"); err != nil || contents != "pass2" {
		t.Fatalf("read sub/b.py=%q err=%v", contents, err)
	}
}
