package cache

// Schema contains the SQL statements to create the cache database schema.
const Schema = `
-- file_cache: one row per file path holding the last computed checksum
CREATE TABLE IF NOT EXISTS file_cache (
    file_path         TEXT PRIMARY KEY,
    file_size         INTEGER NOT NULL,
    modification_time INTEGER NOT NULL,
    checksum          TEXT NOT NULL
);

-- Secondary ordering on modification time for age-based cleanup
CREATE INDEX IF NOT EXISTS idx_modification_time
ON file_cache(modification_time);
`

// appDirName is the subdirectory under the user cache directory holding the
// database file.
const appDirName = "dedupe-tree"

// dbFileName is the default database file name.
const dbFileName = "checksums.db"

// checksumLength is the expected length of a SHA256 checksum in hexadecimal
// format.
const checksumLength = 64
