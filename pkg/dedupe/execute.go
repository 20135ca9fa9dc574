package dedupe

import (
	"os"
	"path/filepath"

	"dedupetree/pkg/log"
	"dedupetree/pkg/models"
)

// Execute applies the keep/remove decision: every remove item is deleted and
// replaced by a symbolic link to its group's keep item. Directory members
// are removed recursively and replaced by a single link for the whole
// subtree. Each item is a best-effort unit; a failure is recorded and the
// batch continues. If the delete succeeds but the link fails, the item stays
// deleted and the failure is recorded.
//
// With dryRun the filesystem is untouched and the returned paths are exactly
// those an apply run would process.
func Execute(result models.Result, dryRun bool) (removedFiles, removedDirs []string, errs []models.ItemError) {
	for _, group := range result.FileGroups {
		// The link target must be absolute: a relative target would resolve
		// against each link's own directory, not the scan root
		target, err := filepath.Abs(group.Keep.Path)
		if err != nil {
			errs = append(errs, models.ItemError{Path: group.Keep.Path, Err: err})
			continue
		}

		for _, file := range group.Remove {
			if dryRun {
				removedFiles = append(removedFiles, file.Path)
				continue
			}

			if err := os.Remove(file.Path); err != nil {
				log.Error().Err(err).Str("path", file.Path).Msg("Failed to delete duplicate file")
				errs = append(errs, models.ItemError{Path: file.Path, Err: err})
				continue
			}
			if err := os.Symlink(target, file.Path); err != nil {
				log.Error().Err(err).Str("path", file.Path).Str("target", target).Msg("Deleted file but failed to create link")
				errs = append(errs, models.ItemError{Path: file.Path, Err: err})
				continue
			}

			log.Debug().Str("path", file.Path).Str("target", target).Msg("Replaced duplicate file with link")
			removedFiles = append(removedFiles, file.Path)
		}
	}

	for _, group := range result.DirectoryGroups {
		target, err := filepath.Abs(group.Keep.Path)
		if err != nil {
			errs = append(errs, models.ItemError{Path: group.Keep.Path, Err: err})
			continue
		}

		for _, dir := range group.Remove {
			if dryRun {
				removedDirs = append(removedDirs, dir.Path)
				continue
			}

			if err := os.RemoveAll(dir.Path); err != nil {
				log.Error().Err(err).Str("path", dir.Path).Msg("Failed to delete duplicate directory")
				errs = append(errs, models.ItemError{Path: dir.Path, Err: err})
				continue
			}
			if err := os.Symlink(target, dir.Path); err != nil {
				log.Error().Err(err).Str("path", dir.Path).Str("target", target).Msg("Deleted directory but failed to create link")
				errs = append(errs, models.ItemError{Path: dir.Path, Err: err})
				continue
			}

			log.Debug().Str("path", dir.Path).Str("target", target).Msg("Replaced duplicate directory with link")
			removedDirs = append(removedDirs, dir.Path)
		}
	}

	return removedFiles, removedDirs, errs
}
