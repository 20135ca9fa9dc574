package models

// DirectoryInfo represents a fingerprinted directory subtree. Size and
// FileCount aggregate every file below the directory, not just immediate
// children.
type DirectoryInfo struct {
	Path      string `json:"path"`
	Checksum  string `json:"checksum"`
	Size      int64  `json:"size"`
	FileCount int    `json:"file_count"`
	Depth     int    `json:"depth"`
}
