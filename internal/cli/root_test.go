package cli

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"mdproxy/internal/httpapi"
	"mdproxy/internal/workspace"
	"mdproxy/pkg/types"
)

func newStubServer(t *testing.T) (*workspace.Workspace, string) {
	t.Helper()
	ws := workspace.New(types.TypeCatalog{Types: []types.ObjectType{
		{Name: "Assembly", Path: "main.assembly.Assembly"},
	}})
	srv := httptest.NewServer(httpapi.NewMux(ws))
	t.Cleanup(srv.Close)
	return ws, srv.URL
}

func run(t *testing.T, url string, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(&out, strings.NewReader(stdin))
	root.SetArgs(append([]string{"--server", url}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestModelTypesCommand(t *testing.T) {
	_, url := newStubServer(t)
	out, err := run(t, url, "", "model", "types")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Assembly\tmain.assembly.Assembly") {
		t.Fatalf("out=%q", out)
	}
}

func TestModelAddAndGet(t *testing.T) {
	_, url := newStubServer(t)
	if _, err := run(t, url, "", "model", "add", "Assembly", "asm1", "2", "3"); err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := run(t, url, "", "model", "get", "asm1.x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if strings.TrimSpace(out) != "2" {
		t.Fatalf("out=%q", out)
	}
}

func TestImportCommand(t *testing.T) {
	ws, url := newStubServer(t)
	if _, err := run(t, url, "", "import", "pkg/mod.py"); err != nil {
		t.Fatalf("import: %v", err)
	}
	cmds := ws.Commands()
	if len(cmds) != 1 || cmds[0] != "from pkg.mod import *" {
		t.Fatalf("commands=%v", cmds)
	}
}

func TestFilesWriteFromStdinAndCat(t *testing.T) {
	_, url := newStubServer(t)
	if _, err := run(t, url, "print('hi')\n", "files", "write", "a.py"); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, url, "", "files", "cat", "a.py")
	if err != nil {
		t.Fatalf("cat: %v", err)
	}
	if out != "print('hi')\n" {
		t.Fatalf("out=%q", out)
	}
}

func TestFilesNewPromptsForName(t *testing.T) {
	ws, url := newStubServer(t)
	out, err := run(t, url, "thing.py\n", "files", "new", "sub")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !strings.Contains(out, "sub/thing.py") {
		t.Fatalf("out=%q", out)
	}
	if _, err := ws.ReadFile("sub/thing.py"); err != nil {
		t.Fatalf("stub file missing: %v", err)
	}
}

func TestFolderCommands(t *testing.T) {
	_, url := newStubServer(t)
	if _, err := run(t, url, "", "folder", "set", "/p"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := run(t, url, "", "folder", "get")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if strings.TrimSpace(out) != "/p" {
		t.Fatalf("out=%q", out)
	}
}

func TestCoordDefaults(t *testing.T) {
	args := []string{"T", "n", "x", "7"}
	if coord(args, 2) != 1 {
		t.Fatal("non-numeric coordinate should default to 1")
	}
	if coord(args, 3) != 7 {
		t.Fatal("numeric coordinate should parse")
	}
	if coord(args, 4) != 1 {
		t.Fatal("absent coordinate should default to 1")
	}
}

func TestModelGetConvertsUnits(t *testing.T) {
	ws, url := newStubServer(t)
	if _, err := run(t, url, "", "model", "add", "Assembly", "asm1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := ws.SetComponentState("asm1", "span", "2 m"); err != nil {
		t.Fatalf("state: %v", err)
	}
	out, err := run(t, url, "", "model", "get", "asm1.span", "--as", "cm")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if strings.TrimSpace(out) != "200 cm" {
		t.Fatalf("out=%q", out)
	}
	if _, err := run(t, url, "", "model", "get", "asm1.x", "--as", "cm"); err == nil {
		t.Fatal("bare number should not convert")
	}
}

func TestConvertCommand(t *testing.T) {
	_, url := newStubServer(t)
	out, err := run(t, url, "", "convert", "1.5 km", "m")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if strings.TrimSpace(out) != "1500 m" {
		t.Fatalf("out=%q", out)
	}
	if _, err := run(t, url, "", "convert", "3 kg", "m"); err == nil {
		t.Fatal("incompatible units should error")
	}
}
