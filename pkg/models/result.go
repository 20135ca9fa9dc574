package models

// Result is the outcome of duplicate analysis: file and directory groups
// ranked by reclaimable space, aggregate counts, and every error gathered
// during the fingerprinting phases.
type Result struct {
	FileGroups          []FileGroup      `json:"file_groups"`
	DirectoryGroups     []DirectoryGroup `json:"directory_groups"`
	FilesToRemove       int              `json:"files_to_remove"`
	DirectoriesToRemove int              `json:"directories_to_remove"`
	SpaceToFree         int64            `json:"space_to_free"`
	Errors              []ItemError      `json:"errors,omitempty"`
}

// CacheStats summarizes the persistent checksum cache.
type CacheStats struct {
	TotalEntries    int `json:"total_entries"`
	UniqueChecksums int `json:"unique_checksums"`
}
