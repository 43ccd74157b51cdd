package types

// AddRequest is the payload for POST /add, creating a component instance.
type AddRequest struct {
	// Type identifier from the catalog.
	// example: openmdao.main.assembly.Assembly
	Type string `json:"type"`
	// Instance name for the new component.
	// example: asm1
	Name string `json:"name"`
	// Canvas X coordinate.
	// example: 1
	X int `json:"x"`
	// Canvas Y coordinate.
	// example: 1
	Y int `json:"y"`
}

// CommandRequest is the payload for POST /command.
type CommandRequest struct {
	// Statement to execute remotely.
	// example: top.run()
	Command string `json:"command"`
}

// FolderRequest is the payload for POST /folder.
type FolderRequest struct {
	// New working folder path.
	// example: /projects/demo
	Folder string `json:"folder"`
}

// FileRequest is the payload for POST /file. Exactly one of Contents or
// IsFolder is meaningful: a write carries Contents, a folder creation sets
// IsFolder.
type FileRequest struct {
	Filename string `json:"filename"`
	Contents string `json:"contents,omitempty"`
	IsFolder bool   `json:"isFolder,omitempty"`
}

// RemoveRequest is the payload for POST /remove.
type RemoveRequest struct {
	File string `json:"file"`
}

// ExecRequest is the payload for POST /exec.
type ExecRequest struct {
	// Server-relative path of the file to execute.
	// example: a/b.py
	Filename string `json:"filename"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: file not found: a/b.py
	Error string `json:"error"`
	// HTTP status code.
	// example: 404
	Code int `json:"code"`
}
