package models

import "time"

// FileInfo represents a scanned file. Checksum is empty until the scanner's
// EnsureChecksum populates it; it is computed at most once per scan session.
type FileInfo struct {
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"mod_time"`
	Depth    int       `json:"depth"`
	Checksum string    `json:"checksum,omitempty"`
}
