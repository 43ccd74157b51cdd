package workspace

// fileNotFoundError signals a missing file or folder for 404 mapping.
type fileNotFoundError struct{ path string }

func (e fileNotFoundError) Error() string { return "file not found: " + e.path }

// ErrFileNotFound constructs a fileNotFoundError.
func ErrFileNotFound(path string) error { return fileNotFoundError{path: path} }

// IsFileNotFound reports whether err indicates a missing file path.
func IsFileNotFound(err error) bool {
	_, ok := err.(fileNotFoundError)
	return ok
}

// unknownTypeError signals a creation request for an uncataloged type.
type unknownTypeError struct{ typ string }

func (e unknownTypeError) Error() string { return "unknown type: " + e.typ }

// ErrUnknownType constructs an unknownTypeError.
func ErrUnknownType(typ string) error { return unknownTypeError{typ: typ} }

// IsUnknownType reports whether err indicates an uncataloged type id.
func IsUnknownType(err error) bool {
	_, ok := err.(unknownTypeError)
	return ok
}

// duplicateNameError signals a component name collision for 409 mapping.
type duplicateNameError struct{ name string }

func (e duplicateNameError) Error() string { return "name already in use: " + e.name }

// ErrDuplicateName constructs a duplicateNameError.
func ErrDuplicateName(name string) error { return duplicateNameError{name: name} }

// IsDuplicateName reports whether err indicates a component name collision.
func IsDuplicateName(err error) bool {
	_, ok := err.(duplicateNameError)
	return ok
}
