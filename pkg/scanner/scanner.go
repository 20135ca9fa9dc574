package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"dedupetree/pkg/cache"
	"dedupetree/pkg/log"
	"dedupetree/pkg/models"
)

// Options controls which files a scan considers.
type Options struct {
	// Extensions is a case-insensitive allow-list; entries are normalized to
	// a leading dot. Empty means all files.
	Extensions []string
	// MinSize excludes files smaller than this many bytes.
	MinSize int64
}

// Scanner walks a directory tree, records file metadata, and computes
// content checksums through the cache. Per-item failures are accumulated in
// Errors; only a missing or non-directory scan root aborts a scan.
type Scanner struct {
	cache *cache.Store

	Files  []*models.FileInfo
	Errors []models.ItemError

	mu sync.Mutex
}

// New creates a scanner backed by the given cache. A nil cache disables
// caching and every checksum is computed directly.
func New(c *cache.Store) *Scanner {
	return &Scanner{cache: c}
}

// NormalizeExtensions lowercases entries and ensures each carries a leading
// dot.
func NormalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	return normalized
}

// Scan walks root collecting every matching file, then computes all
// checksums with a bounded worker pool. Grouping must not be consulted
// before Scan returns.
func (s *Scanner) Scan(ctx context.Context, root string, opts Options) error {
	info, err := os.Stat(root)
	if err != nil {
		return RootNotFoundError{Path: root}
	}
	if !info.IsDir() {
		return NotADirectoryError{Path: root}
	}

	extFilter := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range NormalizeExtensions(opts.Extensions) {
		extFilter[ext] = struct{}{}
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if walkErr != nil {
			s.recordError(path, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		if len(extFilter) > 0 {
			if _, ok := extFilter[strings.ToLower(filepath.Ext(path))]; !ok {
				return nil
			}
		}

		fileInfo, statErr := d.Info()
		if statErr != nil {
			s.recordError(path, statErr)
			return nil
		}
		if fileInfo.Size() < opts.MinSize {
			return nil
		}

		s.Files = append(s.Files, &models.FileInfo{
			Path:    path,
			Size:    fileInfo.Size(),
			ModTime: fileInfo.ModTime(),
			Depth:   depthBelow(root, path),
		})
		return nil
	})
	if err != nil {
		return err
	}

	log.Debug().Int("files", len(s.Files)).Str("root", root).Msg("File walk complete")
	return s.hashAll(ctx)
}

// hashAll fills in every file's checksum using up to NumCPU workers. Hash
// failures are recorded per item and leave the checksum empty, which
// excludes the file from grouping.
func (s *Scanner) hashAll(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())

	for _, file := range s.Files {
		file := file
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.EnsureChecksum(file); err != nil {
				s.recordError(file.Path, err)
			}
			return nil
		})
	}

	return group.Wait()
}

// EnsureChecksum populates the file's checksum exactly once, consulting the
// cache before reading content. Stat and read failures propagate to the
// caller.
func (s *Scanner) EnsureChecksum(f *models.FileInfo) error {
	if f.Checksum != "" {
		return nil
	}

	checksum, err := Checksum(s.cache, f.Path, f.Size, f.ModTime)
	if err != nil {
		return err
	}

	f.Checksum = checksum
	return nil
}

// Duplicates groups scanned files by checksum, keeping only groups with at
// least two members. Files whose checksum failed are excluded.
func (s *Scanner) Duplicates() map[string][]*models.FileInfo {
	groups := make(map[string][]*models.FileInfo)
	for _, file := range s.Files {
		if file.Checksum == "" {
			continue
		}
		groups[file.Checksum] = append(groups[file.Checksum], file)
	}

	for checksum, members := range groups {
		if len(members) < 2 {
			delete(groups, checksum)
		}
	}
	return groups
}

// Clear drops all scanned state so the scanner can be reused.
func (s *Scanner) Clear() {
	s.Files = nil
	s.Errors = nil
}

func (s *Scanner) recordError(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, models.ItemError{Path: path, Err: err})
}

// depthBelow counts the directory segments between root and path.
func depthBelow(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator))
}
