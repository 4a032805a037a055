package rotation

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jypelle/karuselo/apimodel"
	"github.com/sirupsen/logrus"
)

const fetchTimeout = 30 * time.Second

// FetchFunc retrieves the current payload of a source. It is invoked
// from a background goroutine and must honor ctx.
type FetchFunc func(ctx context.Context) (json.RawMessage, error)

// SourceStore holds the last successfully fetched payload of each
// source. Reads never block on an in-flight refresh, and at most one
// refresh runs per source at a time.
type SourceStore struct {
	lock    sync.Mutex
	dir     string
	records map[string]*sourceRecord
}

type sourceRecord struct {
	payload    json.RawMessage
	lastFetch  time.Time
	refreshing bool
}

// NewSourceStore creates a store backed by a side-cache folder. An
// empty dir disables the side-cache.
func NewSourceStore(dir string) *SourceStore {
	if dir != "" {
		if err := os.MkdirAll(dir, 0770); err != nil {
			logrus.Warnf("Unable to create side-cache folder %s: %v", dir, err)
			dir = ""
		}
	}
	return &SourceStore{
		dir:     dir,
		records: make(map[string]*sourceRecord),
	}
}

// Read returns the last known payload of identity and when it was
// fetched. ok is false while the source has never delivered data.
func (s *SourceStore) Read(identity string) (payload json.RawMessage, lastFetch time.Time, ok bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	record := s.record(identity)
	if record.payload == nil {
		return nil, time.Time{}, false
	}
	return record.payload, record.lastFetch, true
}

// RequestRefresh starts a background fetch for identity unless one is
// already in flight, in which case it reports false and does nothing.
func (s *SourceStore) RequestRefresh(identity string, fetch FetchFunc) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	record := s.record(identity)
	if record.refreshing {
		logrus.Debugf("Refresh of %s already in flight, skipping", identity)
		return false
	}
	record.refreshing = true

	go s.refresh(identity, record, fetch)
	return true
}

func (s *SourceStore) refresh(identity string, record *sourceRecord, fetch FetchFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	payload, err := fetch(ctx)
	if err != nil {
		logrus.Errorf("Unable to refresh source %s: %v", identity, err)
		s.lock.Lock()
		record.refreshing = false
		s.lock.Unlock()
		return
	}

	// The refreshing flag guarantees this goroutine is the only writer
	// of the side-cache file for this source.
	s.writeSideCache(identity, payload)

	s.lock.Lock()
	record.payload = payload
	record.lastFetch = time.Now()
	record.refreshing = false
	s.lock.Unlock()

	logrus.Debugf("Refreshed source %s (%d bytes)", identity, len(payload))
}

// Statuses reports every known source, sorted by identity.
func (s *SourceStore) Statuses() []apimodel.SourceStatus {
	s.lock.Lock()
	defer s.lock.Unlock()

	statuses := make([]apimodel.SourceStatus, 0, len(s.records))
	for identity, record := range s.records {
		status := apimodel.SourceStatus{
			Identity:   identity,
			Refreshing: record.refreshing,
			HasPayload: record.payload != nil,
		}
		if !record.lastFetch.IsZero() {
			status.LastFetchAt = record.lastFetch.Format(time.RFC3339)
		}
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Identity < statuses[j].Identity })
	return statuses
}

// record returns the entry for identity, creating and seeding it from
// the side-cache on first reference. Caller must hold the lock.
func (s *SourceStore) record(identity string) *sourceRecord {
	record, ok := s.records[identity]
	if !ok {
		record = &sourceRecord{}
		s.seed(identity, record)
		s.records[identity] = record
	}
	return record
}

// seed loads the side-cache file of identity, if any. The file
// modification time stands in for the last fetch time. Any problem
// with the file just means no seed.
func (s *SourceStore) seed(identity string, record *sourceRecord) {
	if s.dir == "" {
		return
	}
	filename := s.sideCacheFilename(identity)
	info, err := os.Stat(filename)
	if err != nil {
		return
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		logrus.Warnf("Unable to read side-cache of %s: %v", identity, err)
		return
	}
	if !json.Valid(raw) {
		logrus.Warnf("Corrupt side-cache of %s, ignoring", identity)
		return
	}
	record.payload = raw
	record.lastFetch = info.ModTime()
	logrus.Debugf("Seeded source %s from side-cache (%s)", identity, record.lastFetch.Format(time.RFC3339))
}

func (s *SourceStore) writeSideCache(identity string, payload json.RawMessage) {
	if s.dir == "" {
		return
	}
	filename := s.sideCacheFilename(identity)
	if err := os.WriteFile(filename, payload, 0660); err != nil {
		logrus.Warnf("Unable to write side-cache of %s: %v", identity, err)
	}
}

func (s *SourceStore) sideCacheFilename(identity string) string {
	return filepath.Join(s.dir, flattenIdentity(identity)+".json")
}

// flattenIdentity turns a source identity, typically a URL, into a
// safe file name.
func flattenIdentity(identity string) string {
	flat := make([]rune, 0, len(identity))
	for _, r := range identity {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			flat = append(flat, r)
		default:
			flat = append(flat, '_')
		}
	}
	return string(flat)
}
