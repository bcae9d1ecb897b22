// Package catalog loads category-scoped record data from semicolon-delimited
// CSV files and caches it with a time-to-live.
//
// The cache is owned by the Store and passed by handle to request handlers;
// there is no ambient global state. Entries are replaced wholesale, never
// mutated in place, so concurrent readers always see a fully-formed record
// list. A per-category singleflight group collapses concurrent reloads of
// an expired entry into one disk read.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/periplo/periplo/internal/log"
)

var (
	// ErrNotFound indicates the category has no backing CSV resource.
	ErrNotFound = errors.New("category data not found")

	// ErrParse indicates the backing CSV resource is malformed.
	ErrParse = errors.New("malformed category data")
)

// DefaultTTL is how long a cached category entry stays valid.
const DefaultTTL = 5 * time.Minute

// cacheEntry owns the records for one category plus their load time.
// Valid iff now - loadedAt < TTL; expired entries are treated as absent.
type cacheEntry struct {
	records  []Record
	loadedAt time.Time
}

// Store loads and caches category record data.
type Store struct {
	dir    string
	ttl    time.Duration
	logger log.Logger

	mu    sync.RWMutex
	cache map[string]cacheEntry
	group singleflight.Group

	now func() time.Time // injectable clock for TTL tests
}

// NewStore creates a store reading <dir>/<category>.csv files.
// A non-positive ttl falls back to DefaultTTL.
func NewStore(dir string, ttl time.Duration, logger log.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		dir:    dir,
		ttl:    ttl,
		logger: logger,
		cache:  make(map[string]cacheEntry),
		now:    time.Now,
	}
}

// Load returns the records for category, reading and normalizing the
// backing CSV only when no valid cache entry exists. The returned slice is
// shared across callers and must not be mutated.
func (s *Store) Load(ctx context.Context, category string) ([]Record, error) {
	if records, ok := s.cached(category); ok {
		s.logger.Debug("cache hit", "category", category)
		return records, nil
	}

	v, err, _ := s.group.Do(category, func() (any, error) {
		// Another caller may have refreshed the entry while we queued.
		if records, ok := s.cached(category); ok {
			return records, nil
		}
		records, err := s.readFile(category)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[category] = cacheEntry{records: records, loadedAt: s.now()}
		s.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.([]Record), nil
}

// cached returns the valid cache entry for category, if any.
func (s *Store) cached(category string) ([]Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[category]
	if !ok || s.now().Sub(entry.loadedAt) >= s.ttl {
		return nil, false
	}
	return entry.records, true
}

// readFile parses <dir>/<category>.csv into records and normalizes the
// price-tier field of each row.
func (s *Store) readFile(category string) ([]Record, error) {
	path := filepath.Join(s.dir, category+".csv")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	// Rows may have fewer columns than the header; missing cells are
	// treated as absent fields rather than a parse failure.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no header row", ErrParse, path)
	}
	// Spreadsheet exports often prepend a UTF-8 BOM.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
		}
		record := make(Record, len(header))
		for i, field := range header {
			if i < len(row) {
				record[field] = row[i]
			}
		}
		record[FieldPriceTier] = normalizePriceTier(record[FieldPriceTier])
		records = append(records, record)
	}

	s.logger.Info("loaded category data", "category", category, "records", len(records))
	return records, nil
}
