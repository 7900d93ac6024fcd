// Package indexcache is the persistent index-run cache: a small SQLite
// table recording the content hash and timestamp of the last
// successful index of each file, so a fresh CLI invocation can skip
// re-indexing files untouched since the previous run without keeping
// an in-process cache alive between runs.
package indexcache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shivasurya/semindex/internal/ids"
)

// IndexedFile is one row: the last known content hash and index time
// for a project file.
type IndexedFile struct {
	FilePath    string `gorm:"primaryKey;type:varchar(1024)"`
	ContentHash string `gorm:"type:varchar(64);not null"`
	IndexedAt   time.Time
	Language    string `gorm:"type:varchar(20)"`
}

// Store wraps a gorm-backed SQLite connection holding the IndexedFile
// table.
type Store struct {
	db *gorm.DB
}

// Open connects to (creating if absent) the SQLite database at dsn and
// runs its migration. debug enables gorm's query logger.
func Open(dsn string, debug bool) (*Store, error) {
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("indexcache: create db directory: %w", err)
		}
	}

	config := &gorm.Config{}
	if debug {
		config.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("indexcache: connect: %w", err)
	}
	if err := db.AutoMigrate(&IndexedFile{}); err != nil {
		return nil, fmt.Errorf("indexcache: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NeedsReindex reports whether file must be re-extracted: either it has
// no recorded row, or its recorded content hash no longer matches
// contentHash.
func (s *Store) NeedsReindex(file ids.FilePath, contentHash string) (bool, error) {
	var row IndexedFile
	err := s.db.First(&row, "file_path = ?", string(file)).Error
	if err == gorm.ErrRecordNotFound {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("indexcache: lookup %s: %w", file, err)
	}
	return row.ContentHash != contentHash, nil
}

// Record upserts file's content hash and index timestamp after a
// successful (re-)index.
func (s *Store) Record(file ids.FilePath, contentHash, language string) error {
	row := IndexedFile{
		FilePath:    string(file),
		ContentHash: contentHash,
		IndexedAt:   time.Now(),
		Language:    language,
	}
	return s.db.Save(&row).Error
}

// Forget removes file's recorded row, e.g. after project.Project.RemoveFile.
func (s *Store) Forget(file ids.FilePath) error {
	return s.db.Delete(&IndexedFile{}, "file_path = ?", string(file)).Error
}

// Files returns every file path currently recorded, for a caller that
// wants to diff the recorded set against a fresh discovery.DiscoverFiles
// result to find files deleted since the last run.
func (s *Store) Files() ([]ids.FilePath, error) {
	var rows []IndexedFile
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("indexcache: listing files: %w", err)
	}
	files := make([]ids.FilePath, len(rows))
	for i, r := range rows {
		files[i] = ids.FilePath(r.FilePath)
	}
	return files, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
