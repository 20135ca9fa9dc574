package dedupe

import (
	"sort"
	"strings"

	"dedupetree/pkg/models"
)

// undesirable paths lose the keep slot to any clean path in their group.
var undesirablePatterns = []string{"new folder", "recycle"}

// undesirabilityFlag is 1 when the path looks like an auto-generated or
// recycle location, 0 otherwise.
func undesirabilityFlag(path string) int {
	lower := strings.ToLower(path)
	for _, pattern := range undesirablePatterns {
		if strings.Contains(lower, pattern) {
			return 1
		}
	}
	return 0
}

// preferKeep is the three-key comparator that decides the canonical copy:
// clean path before undesirable, shallower before deeper, then path order.
func preferKeep(pathA string, depthA int, pathB string, depthB int) bool {
	flagA, flagB := undesirabilityFlag(pathA), undesirabilityFlag(pathB)
	if flagA != flagB {
		return flagA < flagB
	}
	if depthA != depthB {
		return depthA < depthB
	}
	return pathA < pathB
}

// Analyze selects a keep item per duplicate group, ranks groups by
// reclaimable space descending, and accumulates totals. Scan errors are
// carried through to the result.
func Analyze(fileGroups map[string][]*models.FileInfo, dirGroups map[string][]models.DirectoryInfo, scanErrors []models.ItemError) models.Result {
	result := models.Result{
		Errors: append([]models.ItemError(nil), scanErrors...),
	}

	for _, checksum := range sortedKeys(fileGroups) {
		members := fileGroups[checksum]
		if len(members) < 2 {
			continue
		}

		ordered := append([]*models.FileInfo(nil), members...)
		sort.SliceStable(ordered, func(i, j int) bool {
			return preferKeep(ordered[i].Path, ordered[i].Depth, ordered[j].Path, ordered[j].Depth)
		})

		group := models.FileGroup{
			Checksum: checksum,
			Keep:     ordered[0],
			Remove:   ordered[1:],
		}
		for _, f := range ordered {
			group.TotalSize += f.Size
		}

		result.FileGroups = append(result.FileGroups, group)
		result.FilesToRemove += len(group.Remove)
		result.SpaceToFree += group.ReclaimableSize()
	}

	for _, checksum := range sortedKeys(dirGroups) {
		members := dirGroups[checksum]
		if len(members) < 2 {
			continue
		}

		ordered := append([]models.DirectoryInfo(nil), members...)
		sort.SliceStable(ordered, func(i, j int) bool {
			return preferKeep(ordered[i].Path, ordered[i].Depth, ordered[j].Path, ordered[j].Depth)
		})

		group := models.DirectoryGroup{
			Checksum: checksum,
			Keep:     ordered[0],
			Remove:   ordered[1:],
		}
		for _, d := range ordered {
			group.TotalSize += d.Size
			group.TotalFiles += d.FileCount
		}

		result.DirectoryGroups = append(result.DirectoryGroups, group)
		result.DirectoriesToRemove += len(group.Remove)
		result.SpaceToFree += group.ReclaimableSize()
	}

	// Largest savings first; the pre-sort above keeps ties deterministic
	sort.SliceStable(result.FileGroups, func(i, j int) bool {
		return result.FileGroups[i].ReclaimableSize() > result.FileGroups[j].ReclaimableSize()
	})
	sort.SliceStable(result.DirectoryGroups, func(i, j int) bool {
		return result.DirectoryGroups[i].ReclaimableSize() > result.DirectoryGroups[j].ReclaimableSize()
	})

	return result
}

// sortedKeys fixes the group visit order; Go map iteration is randomized.
func sortedKeys[V any](groups map[string]V) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
