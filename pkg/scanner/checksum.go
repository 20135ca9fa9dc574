package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"time"

	"dedupetree/pkg/cache"
	"dedupetree/pkg/log"
)

// Checksum returns the SHA256 hex digest of the file content at path,
// consulting the cache first. On a hit the file content is never read. The
// cache is fail-open: a store failure falls back to direct hashing.
func Checksum(c *cache.Store, path string, size int64, modTime time.Time) (string, error) {
	if c != nil {
		cached, ok, err := c.Get(path, size, modTime)
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("Cache lookup failed, hashing directly")
		} else if ok {
			return cached, nil
		}
	}

	checksum, err := hashFile(path)
	if err != nil {
		return "", err
	}

	if c != nil {
		if err := c.Put(path, size, modTime, checksum); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("Cache store failed")
		}
	}

	return checksum, nil
}

// hashFile streams the full file content through SHA256.
func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
