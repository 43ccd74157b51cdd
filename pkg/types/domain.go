package types

import "encoding/xml"

// Snapshot is the full tree representation of the remote model's current
// state: string keys mapping to leaf values or nested subtrees. The shape is
// server-defined; clients treat it as opaque except for path walking.
type Snapshot map[string]any

// StateKey is the reserved sub-key a path walk falls back to when a segment
// is missing from a node directly.
const StateKey = "state"

// ObjectType describes one creatable object type from the server catalog.
type ObjectType struct {
	// Short display name.
	// example: Assembly
	Name string `xml:"name,attr" json:"name"`
	// Fully qualified module path used when instantiating.
	// example: openmdao.main.assembly.Assembly
	Path string `xml:"path,attr" json:"path"`
	// Optional version string.
	Version string `xml:"version,attr,omitempty" json:"version,omitempty"`
}

// TypeCatalog is the XML document returned by GET /types.
type TypeCatalog struct {
	XMLName xml.Name     `xml:"types" json:"-"`
	Types   []ObjectType `xml:"type" json:"types"`
}

// FileTree is the recursive listing returned by GET /files.json.
// Keys are entry names; a value is either a nested FileTree-shaped map for a
// folder or a number (file size in bytes) for a regular file.
type FileTree map[string]any
