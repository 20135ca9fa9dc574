package models

// ItemError records a per-item failure that did not abort the overall
// operation.
type ItemError struct {
	Path string `json:"path"`
	Err  error  `json:"error"`
}

func (e ItemError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e ItemError) Unwrap() error {
	return e.Err
}
