package workspace

import (
	"context"
	"fmt"
	"strings"

	"mdproxy/pkg/types"
)

// normalize converts a client-supplied path to the canonical stored form:
// forward slashes, no leading or trailing separator.
func normalize(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	return strings.Trim(p, "/")
}

// Folder returns the current working folder.
func (w *Workspace) Folder() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.folder
}

// SetFolder changes the working folder.
func (w *Workspace) SetFolder(folder string) error {
	if strings.TrimSpace(folder) == "" {
		return fmt.Errorf("folder is required")
	}
	w.mu.Lock()
	w.folder = folder
	w.mu.Unlock()
	return nil
}

// FileTree renders the recursive listing: folders as nested maps, files as
// their size in bytes.
func (w *Workspace) FileTree() types.FileTree {
	w.mu.Lock()
	defer w.mu.Unlock()
	root := types.FileTree{}
	for f := range w.folders {
		ensureDir(root, strings.Split(f, "/"))
	}
	for f, contents := range w.files {
		segs := strings.Split(f, "/")
		dir := ensureDir(root, segs[:len(segs)-1])
		dir[segs[len(segs)-1]] = len(contents)
	}
	return root
}

func ensureDir(root types.FileTree, segs []string) map[string]any {
	cur := map[string]any(root)
	for _, s := range segs {
		if s == "" {
			continue
		}
		next, ok := cur[s].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[s] = next
		}
		cur = next
	}
	return cur
}

// ReadFile returns the raw contents at path.
func (w *Workspace) ReadFile(path string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	contents, ok := w.files[normalize(path)]
	if !ok {
		return "", ErrFileNotFound(path)
	}
	return contents, nil
}

// WriteFile stores contents at path, creating parent folders as needed.
func (w *Workspace) WriteFile(path, contents string) error {
	p := normalize(path)
	if p == "" {
		return fmt.Errorf("filename is required")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[p] = contents
	if i := strings.LastIndex(p, "/"); i > 0 {
		w.folders[p[:i]] = true
	}
	w.log.Debug().Str("path", p).Int("bytes", len(contents)).Msg("file written")
	return nil
}

// CreateFolder records a folder at path.
func (w *Workspace) CreateFolder(path string) error {
	p := normalize(path)
	if p == "" {
		return fmt.Errorf("filename is required")
	}
	w.mu.Lock()
	w.folders[p] = true
	w.mu.Unlock()
	return nil
}

// RemoveFile deletes the file or folder at path. Removing a folder removes
// everything beneath it.
func (w *Workspace) RemoveFile(path string) error {
	p := normalize(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[p]; ok {
		delete(w.files, p)
		return nil
	}
	if w.folders[p] {
		delete(w.folders, p)
		for f := range w.files {
			if strings.HasPrefix(f, p+"/") {
				delete(w.files, f)
			}
		}
		for f := range w.folders {
			if strings.HasPrefix(f, p+"/") {
				delete(w.folders, f)
			}
		}
		return nil
	}
	return ErrFileNotFound(path)
}

// ExecFile "executes" the file at path: the stub requires the file to exist
// and records the execution in the output queue.
func (w *Workspace) ExecFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := normalize(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[p]; !ok {
		return ErrFileNotFound(path)
	}
	w.output = append(w.output, "executing "+p)
	w.log.Debug().Str("path", p).Msg("file executed")
	return nil
}
