package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite"

	"dedupetree/pkg/models"
)

const cacheDirPerm = 0o750

// Store is the persistent checksum cache backed by SQLite. A cached checksum
// is returned only while the file's size and modification time both match the
// stored record exactly; any mismatch is a miss.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// DefaultPath returns the default database location in the user cache
// directory.
func DefaultPath() string {
	return filepath.Join(xdg.CacheHome, appDirName, dbFileName)
}

// Open opens (creating if needed) the cache database at dbPath. An empty
// dbPath selects the default user-scoped location.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), cacheDirPerm); err != nil {
		return nil, fmt.Errorf("%w: failed to create cache directory: %w", ErrDatabaseError, err)
	}

	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrDatabaseError, err)
	}

	ctx := context.Background()

	// Enable WAL mode so a crash between writes cannot lose committed rows
	if _, err := database.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: failed to enable WAL mode: %w", ErrDatabaseError, err)
	}

	if _, err := database.ExecContext(ctx, Schema); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: failed to initialize schema: %w", ErrDatabaseError, err)
	}

	return &Store{db: database}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached checksum for path if the stored record matches both
// size and modification time exactly. ok is false on a miss.
func (s *Store) Get(path string, size int64, modTime time.Time) (checksum string, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.db.QueryRowContext(context.Background(),
		`SELECT checksum FROM file_cache
		 WHERE file_path = ? AND file_size = ? AND modification_time = ?`,
		path, size, modTime.UnixNano(),
	).Scan(&checksum)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return checksum, true, nil
}

// Put upserts the checksum record for path.
func (s *Store) Put(path string, size int64, modTime time.Time, checksum string) error {
	if len(checksum) != checksumLength {
		return fmt.Errorf("%w: expected %d hex characters", ErrInvalidChecksum, checksumLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO file_cache (file_path, file_size, modification_time, checksum)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(file_path) DO UPDATE SET
		 file_size = excluded.file_size,
		 modification_time = excluded.modification_time,
		 checksum = excluded.checksum`,
		path, size, modTime.UnixNano(), checksum,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return nil
}

// Cleanup removes every record whose stored modification time is older than
// maxAgeDays and returns the number removed. Note the cutoff compares the
// cached file's own modification time, not the time the record was written.
func (s *Store) Cleanup(maxAgeDays int) (int64, error) {
	cutoff := time.Now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(context.Background(),
		`DELETE FROM file_cache WHERE modification_time < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return removed, nil
}

// Stats returns entry counts for the cache.
func (s *Store) Stats() (models.CacheStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	var stats models.CacheStats

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM file_cache`).Scan(&stats.TotalEntries); err != nil {
		return models.CacheStats{}, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT checksum) FROM file_cache`).Scan(&stats.UniqueChecksums); err != nil {
		return models.CacheStats{}, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return stats, nil
}

// Clear removes all cache records.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(context.Background(), `DELETE FROM file_cache`); err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return nil
}
