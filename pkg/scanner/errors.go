package scanner

// RootNotFoundError is returned when the scan root does not exist.
type RootNotFoundError struct {
	Path string
}

func (e RootNotFoundError) Error() string {
	return "directory not found: " + e.Path
}

// NotADirectoryError is returned when the scan root is not a directory.
type NotADirectoryError struct {
	Path string
}

func (e NotADirectoryError) Error() string {
	return "path is not a directory: " + e.Path
}
