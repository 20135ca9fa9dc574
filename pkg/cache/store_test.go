package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// StoreTestSuite tests the checksum cache Store functionality.
type StoreTestSuite struct {
	suite.Suite
	tempDir      string
	dbPath       string
	store        *Store
	testChecksum string
}

// SetupSuite runs once before all tests.
func (s *StoreTestSuite) SetupSuite() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "cache-store-test-*")
	s.Require().NoError(err)

	// Valid SHA256 checksum for testing.
	s.testChecksum = "a1b2c3d4e5f67890123456789abcdef0123456789abcdef0123456789abcdef0"
}

// TearDownSuite runs once after all tests.
func (s *StoreTestSuite) TearDownSuite() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
	}
}

// SetupTest runs before each test.
func (s *StoreTestSuite) SetupTest() {
	s.dbPath = filepath.Join(s.tempDir, "test.db")
	var err error
	s.store, err = Open(s.dbPath)
	s.Require().NoError(err)
}

// TearDownTest runs after each test.
func (s *StoreTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
	os.Remove(s.dbPath)
}

// TestOpen tests store creation.
func (s *StoreTestSuite) TestOpen() {
	s.NotNil(s.store)
}

// TestGetMiss tests querying an unknown path.
func (s *StoreTestSuite) TestGetMiss() {
	_, ok, err := s.store.Get("/nowhere/file.txt", 100, time.Now())
	s.NoError(err)
	s.False(ok)
}

// TestPutAndGet tests the round trip with exact metadata.
func (s *StoreTestSuite) TestPutAndGet() {
	modTime := time.Now()

	err := s.store.Put("/data/file.txt", 100, modTime, s.testChecksum)
	s.Require().NoError(err)

	checksum, ok, err := s.store.Get("/data/file.txt", 100, modTime)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(s.testChecksum, checksum)
}

// TestGetSizeMismatch tests that a size change invalidates the record.
func (s *StoreTestSuite) TestGetSizeMismatch() {
	modTime := time.Now()

	err := s.store.Put("/data/file.txt", 100, modTime, s.testChecksum)
	s.Require().NoError(err)

	_, ok, err := s.store.Get("/data/file.txt", 200, modTime)
	s.NoError(err)
	s.False(ok)
}

// TestGetModTimeMismatch tests that an mtime change invalidates the record.
func (s *StoreTestSuite) TestGetModTimeMismatch() {
	modTime := time.Now()

	err := s.store.Put("/data/file.txt", 100, modTime, s.testChecksum)
	s.Require().NoError(err)

	_, ok, err := s.store.Get("/data/file.txt", 100, modTime.Add(time.Second))
	s.NoError(err)
	s.False(ok)
}

// TestPutUpsert tests that Put overwrites an existing record.
func (s *StoreTestSuite) TestPutUpsert() {
	modTime := time.Now()
	newChecksum := "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"

	s.Require().NoError(s.store.Put("/data/file.txt", 100, modTime, s.testChecksum))

	newModTime := modTime.Add(time.Minute)
	s.Require().NoError(s.store.Put("/data/file.txt", 150, newModTime, newChecksum))

	// Old metadata no longer matches
	_, ok, err := s.store.Get("/data/file.txt", 100, modTime)
	s.NoError(err)
	s.False(ok)

	checksum, ok, err := s.store.Get("/data/file.txt", 150, newModTime)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(newChecksum, checksum)
}

// TestPutInvalidChecksum tests checksum format validation.
func (s *StoreTestSuite) TestPutInvalidChecksum() {
	err := s.store.Put("/data/file.txt", 100, time.Now(), "short")
	s.ErrorIs(err, ErrInvalidChecksum)
}

// TestCleanup tests age-based pruning on the file's own modification time.
func (s *StoreTestSuite) TestCleanup() {
	old := time.Now().AddDate(0, 0, -60)
	recent := time.Now()

	s.Require().NoError(s.store.Put("/data/old.txt", 10, old, s.testChecksum))
	s.Require().NoError(s.store.Put("/data/recent.txt", 10, recent, s.testChecksum))

	removed, err := s.store.Cleanup(30)
	s.Require().NoError(err)
	s.Equal(int64(1), removed)

	_, ok, err := s.store.Get("/data/old.txt", 10, old)
	s.NoError(err)
	s.False(ok)

	_, ok, err = s.store.Get("/data/recent.txt", 10, recent)
	s.NoError(err)
	s.True(ok)
}

// TestCleanupCutoffIsExactSeconds tests that the cutoff is maxAgeDays worth
// of seconds, with entries just inside the window surviving.
func (s *StoreTestSuite) TestCleanupCutoffIsExactSeconds() {
	window := 30 * 24 * time.Hour
	justInside := time.Now().Add(-window + time.Hour)
	justOutside := time.Now().Add(-window - time.Hour)

	s.Require().NoError(s.store.Put("/data/inside.txt", 10, justInside, s.testChecksum))
	s.Require().NoError(s.store.Put("/data/outside.txt", 10, justOutside, s.testChecksum))

	removed, err := s.store.Cleanup(30)
	s.Require().NoError(err)
	s.Equal(int64(1), removed)

	_, ok, err := s.store.Get("/data/inside.txt", 10, justInside)
	s.NoError(err)
	s.True(ok)

	_, ok, err = s.store.Get("/data/outside.txt", 10, justOutside)
	s.NoError(err)
	s.False(ok)
}

// TestCleanupKeepsEverythingRecent tests cleanup with no stale entries.
func (s *StoreTestSuite) TestCleanupKeepsEverythingRecent() {
	s.Require().NoError(s.store.Put("/data/a.txt", 10, time.Now(), s.testChecksum))

	removed, err := s.store.Cleanup(30)
	s.Require().NoError(err)
	s.Equal(int64(0), removed)
}

// TestStats tests entry counting.
func (s *StoreTestSuite) TestStats() {
	other := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	now := time.Now()

	s.Require().NoError(s.store.Put("/data/a.txt", 10, now, s.testChecksum))
	s.Require().NoError(s.store.Put("/data/b.txt", 10, now, s.testChecksum))
	s.Require().NoError(s.store.Put("/data/c.txt", 10, now, other))

	stats, err := s.store.Stats()
	s.Require().NoError(err)
	s.Equal(3, stats.TotalEntries)
	s.Equal(2, stats.UniqueChecksums)
}

// TestClear tests removing all records.
func (s *StoreTestSuite) TestClear() {
	s.Require().NoError(s.store.Put("/data/a.txt", 10, time.Now(), s.testChecksum))

	s.Require().NoError(s.store.Clear())

	stats, err := s.store.Stats()
	s.Require().NoError(err)
	s.Equal(0, stats.TotalEntries)
}

// TestPersistsAcrossReopen tests that records survive a close/reopen cycle.
func (s *StoreTestSuite) TestPersistsAcrossReopen() {
	modTime := time.Now()
	s.Require().NoError(s.store.Put("/data/a.txt", 10, modTime, s.testChecksum))
	s.Require().NoError(s.store.Close())

	reopened, err := Open(s.dbPath)
	s.Require().NoError(err)
	defer reopened.Close()

	checksum, ok, err := reopened.Get("/data/a.txt", 10, modTime)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(s.testChecksum, checksum)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
