package dirscan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"dedupetree/pkg/cache"
	"dedupetree/pkg/log"
	"dedupetree/pkg/models"
	"dedupetree/pkg/scanner"
)

// dirMeta holds a directory's subtree aggregates.
type dirMeta struct {
	size  int64
	files int
}

// Scanner fingerprints every directory in a tree bottom-up. A directory's
// checksum is the SHA256 of its sorted immediate-entry descriptors, so it is
// independent of traversal order and changes whenever any contained file's
// bytes or the subtree's structure changes.
type Scanner struct {
	cache *cache.Store

	Directories []models.DirectoryInfo
	Errors      []models.ItemError

	// Session memo arena, populated strictly in post-order.
	checksums map[string]string
	meta      map[string]dirMeta
	order     []string
}

// New creates a directory scanner backed by the given cache. A nil cache
// disables file-checksum caching.
func New(c *cache.Store) *Scanner {
	return &Scanner{
		cache:     c,
		checksums: make(map[string]string),
		meta:      make(map[string]dirMeta),
	}
}

// Scan fingerprints the whole tree under root and emits a DirectoryInfo for
// every directory whose subtree holds at least minFiles files. Directories
// below the threshold are still fingerprinted since their parents depend on
// them.
func (s *Scanner) Scan(ctx context.Context, root string, minFiles int) error {
	info, err := os.Stat(root)
	if err != nil {
		return scanner.RootNotFoundError{Path: root}
	}
	if !info.IsDir() {
		return scanner.NotADirectoryError{Path: root}
	}

	if _, err := s.checksumDir(ctx, root); err != nil {
		return err
	}

	for _, dir := range s.order {
		m := s.meta[dir]
		if m.files < minFiles {
			continue
		}
		s.Directories = append(s.Directories, models.DirectoryInfo{
			Path:      dir,
			Checksum:  s.checksums[dir],
			Size:      m.size,
			FileCount: m.files,
			Depth:     segmentsBelow(root, dir),
		})
	}

	log.Debug().
		Int("fingerprinted", len(s.order)).
		Int("candidates", len(s.Directories)).
		Str("root", root).
		Msg("Directory tree scan complete")
	return nil
}

// checksumDir computes the checksum for dir, recursing into subdirectories
// first. Each directory is computed exactly once per session; the memo arena
// is keyed by path. The only error returned is context cancellation; all
// filesystem failures degrade to sentinel checksums or ERROR descriptors.
func (s *Scanner) checksumDir(ctx context.Context, dir string) (string, error) {
	if checksum, ok := s.checksums[dir]; ok {
		return checksum, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unlistable directory: sentinel checksum, zero aggregates, keep going
		s.Errors = append(s.Errors, models.ItemError{Path: dir, Err: err})
		return s.finish(dir, hashString("ERROR:"+dir), dirMeta{}), nil
	}

	// Case-insensitive name order keeps the fingerprint stable across
	// filesystems
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	descriptors := make([]string, 0, len(entries))
	var total dirMeta

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		name := entry.Name()
		path := filepath.Join(dir, name)

		switch {
		case entry.IsDir():
			subChecksum, err := s.checksumDir(ctx, path)
			if err != nil {
				return "", err
			}
			descriptors = append(descriptors, "D:"+name+":"+subChecksum)
			subMeta := s.meta[path]
			total.size += subMeta.size
			total.files += subMeta.files

		case entry.Type().IsRegular():
			info, statErr := entry.Info()
			if statErr != nil {
				s.Errors = append(s.Errors, models.ItemError{Path: path, Err: statErr})
				descriptors = append(descriptors, "ERROR:"+name)
				continue
			}
			fileChecksum, hashErr := scanner.Checksum(s.cache, path, info.Size(), info.ModTime())
			if hashErr != nil {
				s.Errors = append(s.Errors, models.ItemError{Path: path, Err: hashErr})
				descriptors = append(descriptors, "ERROR:"+name)
				continue
			}
			descriptors = append(descriptors, fileDescriptor(name, info.Size(), fileChecksum))
			total.size += info.Size()
			total.files++

		default:
			// Symlinks and other special entries carry no content to
			// fingerprint
			continue
		}
	}

	return s.finish(dir, hashString(strings.Join(descriptors, "\n")), total), nil
}

// finish memoizes a directory's result and records its post-order position.
func (s *Scanner) finish(dir, checksum string, m dirMeta) string {
	s.checksums[dir] = checksum
	s.meta[dir] = m
	s.order = append(s.order, dir)
	return checksum
}

// Duplicates groups candidate directories by checksum, keeping only groups
// with at least two members.
func (s *Scanner) Duplicates() map[string][]models.DirectoryInfo {
	groups := make(map[string][]models.DirectoryInfo)
	for _, dir := range s.Directories {
		groups[dir.Checksum] = append(groups[dir.Checksum], dir)
	}

	for checksum, members := range groups {
		if len(members) < 2 {
			delete(groups, checksum)
		}
	}
	return groups
}

// Fingerprint rebuilds the descriptor text a scanned directory was hashed
// from, for diagnostics. ok is false if dir was not part of this session or
// can no longer be listed.
func (s *Scanner) Fingerprint(dir string) (string, bool) {
	if _, scanned := s.checksums[dir]; !scanned {
		return "", false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	descriptors := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		switch {
		case entry.IsDir():
			if subChecksum, ok := s.checksums[path]; ok {
				descriptors = append(descriptors, "D:"+name+":"+subChecksum)
			}
		case entry.Type().IsRegular():
			info, statErr := entry.Info()
			if statErr != nil {
				descriptors = append(descriptors, "ERROR:"+name)
				continue
			}
			fileChecksum, hashErr := scanner.Checksum(s.cache, path, info.Size(), info.ModTime())
			if hashErr != nil {
				descriptors = append(descriptors, "ERROR:"+name)
				continue
			}
			descriptors = append(descriptors, fileDescriptor(name, info.Size(), fileChecksum))
		}
	}

	return strings.Join(descriptors, "\n"), true
}

// Clear drops all session state so the scanner can be reused.
func (s *Scanner) Clear() {
	s.Directories = nil
	s.Errors = nil
	s.checksums = make(map[string]string)
	s.meta = make(map[string]dirMeta)
	s.order = nil
}

func fileDescriptor(name string, size int64, checksum string) string {
	return "F:" + name + ":" + strconv.FormatInt(size, 10) + ":" + checksum
}

func hashString(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// segmentsBelow counts the path segments of dir relative to root; the root
// itself is depth zero.
func segmentsBelow(root, dir string) int {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
