package workspace

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"mdproxy/pkg/types"
)

// Seed describes initial workspace contents for the stub server.
type Seed struct {
	Types      []types.ObjectType `json:"types" yaml:"types" toml:"types"`
	Components []SeedComponent    `json:"components" yaml:"components" toml:"components"`
	Files      map[string]string  `json:"files" yaml:"files" toml:"files"`
	Folder     string             `json:"folder" yaml:"folder" toml:"folder"`
}

// SeedComponent is one pre-instantiated component in a seed file.
type SeedComponent struct {
	Type  string         `json:"type" yaml:"type" toml:"type"`
	Name  string         `json:"name" yaml:"name" toml:"name"`
	X     int            `json:"x" yaml:"x" toml:"x"`
	Y     int            `json:"y" yaml:"y" toml:"y"`
	State map[string]any `json:"state" yaml:"state" toml:"state"`
}

// LoadSeed reads a seed file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func LoadSeed(path string) (Seed, error) {
	var seed Seed
	if path == "" {
		return seed, fmt.Errorf("empty seed path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return seed, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &seed); err != nil {
			return seed, err
		}
	case ".json":
		if err := json.Unmarshal(b, &seed); err != nil {
			return seed, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &seed); err != nil {
			return seed, err
		}
	default:
		return seed, fmt.Errorf("unsupported seed extension: %s", ext)
	}
	return seed, nil
}

// FromSeed builds a workspace populated from a seed.
func FromSeed(seed Seed) (*Workspace, error) {
	w := New(types.TypeCatalog{Types: seed.Types})
	if seed.Folder != "" {
		if err := w.SetFolder(seed.Folder); err != nil {
			return nil, err
		}
	}
	for _, c := range seed.Components {
		if err := w.AddComponent(c.Type, c.Name, c.X, c.Y); err != nil {
			return nil, fmt.Errorf("seed component %s: %w", c.Name, err)
		}
		for k, v := range c.State {
			if err := w.SetComponentState(c.Name, k, v); err != nil {
				return nil, err
			}
		}
	}
	for p, contents := range seed.Files {
		if err := w.WriteFile(p, contents); err != nil {
			return nil, fmt.Errorf("seed file %s: %w", p, err)
		}
	}
	// Seed creation output is noise, not model activity.
	w.Output()
	return w, nil
}

// ImportDir walks a real directory and copies every regular file into the
// workspace file tree, keyed by its path relative to dir.
func (w *Workspace) ImportDir(dir string) error {
	base, err := expandHome(dir)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return fmt.Errorf("abs path: %w", err)
	}
	return filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, rerr := filepath.Rel(abs, path)
		if rerr != nil {
			return rerr
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			return w.CreateFolder(rel)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		b, rerr := os.ReadFile(path)
		if rerr != nil {
			return fmt.Errorf("read %s: %w", path, rerr)
		}
		return w.WriteFile(rel, string(b))
	})
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/projects/model
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
