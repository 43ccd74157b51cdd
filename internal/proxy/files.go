package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"mdproxy/pkg/types"
)

// WorkingFolder returns the server's current working folder.
func (p *Proxy) WorkingFolder(ctx context.Context) (string, error) {
	b, err := p.get(ctx, "folder", nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// SetWorkingFolder changes the server's working folder.
func (p *Proxy) SetWorkingFolder(ctx context.Context, folder string) error {
	p.InvalidateModel()
	if _, err := p.post(ctx, "folder", types.FolderRequest{Folder: folder}); err != nil {
		return err
	}
	p.notify()
	return nil
}

// ListFiles returns the recursive listing of the server's working folder.
func (p *Proxy) ListFiles(ctx context.Context) (types.FileTree, error) {
	b, err := p.get(ctx, "files.json", nil)
	if err != nil {
		return nil, err
	}
	var tree types.FileTree
	if err := json.Unmarshal(b, &tree); err != nil {
		return nil, fmt.Errorf("files.json: decode listing: %w", err)
	}
	return tree, nil
}

// ReadFile returns the raw contents of a server file.
func (p *Proxy) ReadFile(ctx context.Context, path string) (string, error) {
	q := url.Values{"file": []string{path}}
	b, err := p.get(ctx, "file", q)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteFile persists contents to path on the server.
func (p *Proxy) WriteFile(ctx context.Context, path, contents string) error {
	p.InvalidateModel()
	if _, err := p.post(ctx, "file", types.FileRequest{Filename: path, Contents: contents}); err != nil {
		return err
	}
	p.notify()
	return nil
}

// CreateFolder creates a folder at path on the server.
func (p *Proxy) CreateFolder(ctx context.Context, path string) error {
	p.InvalidateModel()
	if _, err := p.post(ctx, "file", types.FileRequest{Filename: path, IsFolder: true}); err != nil {
		return err
	}
	p.notify()
	return nil
}

// DeleteFile removes a file or folder on the server.
func (p *Proxy) DeleteFile(ctx context.Context, path string) error {
	p.InvalidateModel()
	if _, err := p.post(ctx, "remove", types.RemoveRequest{File: path}); err != nil {
		return err
	}
	p.notify()
	return nil
}

// NewFile prompts for a name via the configured Prompter and writes a
// templated stub file under parent (or the working folder when parent is
// empty). Returns the created path.
func (p *Proxy) NewFile(ctx context.Context, parent string) (string, error) {
	name, err := p.promptName(ctx, "file")
	if err != nil {
		return "", err
	}
	path := joinParent(parent, name)
	if err := p.WriteFile(ctx, path, fileStub(name)); err != nil {
		return "", err
	}
	return path, nil
}

// NewFolder prompts for a name via the configured Prompter and creates a
// folder under parent. Returns the created path.
func (p *Proxy) NewFolder(ctx context.Context, parent string) (string, error) {
	name, err := p.promptName(ctx, "folder")
	if err != nil {
		return "", err
	}
	path := joinParent(parent, name)
	if err := p.CreateFolder(ctx, path); err != nil {
		return "", err
	}
	return path, nil
}

// UploadFile opens the external upload surface. Transfer completion is the
// collaborator's concern; no change notification fires here.
func (p *Proxy) UploadFile(ctx context.Context) error {
	if p.uploader == nil {
		return ErrNoUploader
	}
	return p.uploader.OpenUpload(ctx)
}

// ImportFile converts a file path into a dotted module path and executes a
// star import of it on the server. Returns the command's textual response.
func (p *Proxy) ImportFile(ctx context.Context, path string) (string, error) {
	return p.RunCommand(ctx, fmt.Sprintf("from %s import *", modulePath(path)))
}

// ExecFile asks the server to execute the file at path. The path is
// normalized to forward slashes with a single leading slash stripped, so
// "/a/b.py" and "\a\b.py" both execute "a/b.py".
func (p *Proxy) ExecFile(ctx context.Context, path string) error {
	p.InvalidateModel()
	if _, err := p.post(ctx, "exec", types.ExecRequest{Filename: serverPath(path)}); err != nil {
		return err
	}
	p.notify()
	return nil
}

func (p *Proxy) promptName(ctx context.Context, purpose string) (string, error) {
	if p.prompter == nil {
		return "", ErrNoPrompter
	}
	name, err := p.prompter.PromptName(ctx, purpose)
	if err != nil {
		return "", fmt.Errorf("prompt %s name: %w", purpose, err)
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("prompt %s name: empty name", purpose)
	}
	return strings.TrimSpace(name), nil
}

func joinParent(parent, name string) string {
	parent = strings.TrimRight(serverPath(parent), "/")
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// modulePath converts a filesystem path into a dotted module path: known
// source extension dropped, separators converted to dots.
func modulePath(path string) string {
	p := serverPath(path)
	p = strings.TrimSuffix(p, ".py")
	return strings.ReplaceAll(strings.Trim(p, "/"), "/", ".")
}

// serverPath normalizes backslashes to forward slashes and strips a single
// leading separator, yielding the server-relative form.
func serverPath(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	return strings.TrimPrefix(p, "/")
}

// fileStub is the templated body written for newly created files.
func fileStub(name string) string {
	return "\"\"\"\n   " + name + "\n\"\"\"\n\n"
}
