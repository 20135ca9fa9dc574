package models

// FileGroup is a set of files sharing one checksum. Keep is the canonical
// copy; Remove holds every other member in selection order.
type FileGroup struct {
	Checksum  string      `json:"checksum"`
	Keep      *FileInfo   `json:"keep"`
	Remove    []*FileInfo `json:"remove"`
	TotalSize int64       `json:"total_size"`
}

// ReclaimableSize returns the bytes freed by removing the non-kept members.
func (g FileGroup) ReclaimableSize() int64 {
	var total int64
	for _, f := range g.Remove {
		total += f.Size
	}
	return total
}

// DirectoryGroup is a set of directory subtrees sharing one checksum.
type DirectoryGroup struct {
	Checksum   string          `json:"checksum"`
	Keep       DirectoryInfo   `json:"keep"`
	Remove     []DirectoryInfo `json:"remove"`
	TotalSize  int64           `json:"total_size"`
	TotalFiles int             `json:"total_files"`
}

// ReclaimableSize returns the bytes freed by removing the non-kept members.
func (g DirectoryGroup) ReclaimableSize() int64 {
	var total int64
	for _, d := range g.Remove {
		total += d.Size
	}
	return total
}
