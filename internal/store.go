package internal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Store holds every accepted message in observation order together with the
// dedup index (known ids) and per-author history used for reply resolution.
//
// A Store is owned by a single goroutine. It is not safe for concurrent
// writers and must not be shared between processes.
type Store struct {
	paths    LogPaths
	records  []MessageRecord
	known    map[string]int // id -> index of first occurrence
	byAuthor map[string][]int

	// SnapshotSession enables the per-run session snapshot written by Persist.
	SnapshotSession bool

	now func() time.Time
}

// LoadResult describes what LoadOrInit found on disk
type LoadResult struct {
	Loaded     int    // records read from the master log
	Indexed    int    // distinct ids registered
	BackupPath string // backup taken during load, if any
	Recovered  bool   // the master log was unreadable and the store starts empty
}

// NewStore creates an empty store persisting to paths.
func NewStore(paths LogPaths) *Store {
	return &Store{
		paths:           paths,
		known:           make(map[string]int),
		byAuthor:        make(map[string][]int),
		SnapshotSession: paths.SessionLog != "",
		now:             time.Now,
	}
}

// Paths returns the store's on-disk layout.
func (s *Store) Paths() LogPaths {
	return s.paths
}

// Exists reports whether id has been accepted, either in a previous run or
// since startup.
func (s *Store) Exists(id string) bool {
	_, ok := s.known[id]
	return ok
}

// Len returns the number of records in the log.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of the log in insertion order.
func (s *Store) Records() []MessageRecord {
	out := make([]MessageRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the first record with the given id.
func (s *Store) Get(id string) (MessageRecord, bool) {
	i, ok := s.known[id]
	if !ok {
		return MessageRecord{}, false
	}
	return s.records[i], true
}

// HistoryFor returns all records by author in insertion order.
func (s *Store) HistoryFor(author string) []MessageRecord {
	idx := s.byAuthor[author]
	out := make([]MessageRecord, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.records[i])
	}
	return out
}

// Authors returns the number of distinct authors seen.
func (s *Store) Authors() int {
	return len(s.byAuthor)
}

// Append adds a record at the tail of the log. It fails if the id is empty or
// already known.
func (s *Store) Append(rec MessageRecord) error {
	if rec.ID == "" {
		return errors.New("cannot append record without id")
	}
	if s.Exists(rec.ID) {
		return &DuplicateIDError{ID: rec.ID}
	}
	s.insert(rec)
	return nil
}

// insert adds rec to the log and the indexes without checking for
// duplicates. Records without an id stay in the log but are not indexed,
// so they can never be chosen as a reply target.
func (s *Store) insert(rec MessageRecord) {
	s.records = append(s.records, rec)
	if rec.ID == "" {
		return
	}
	i := len(s.records) - 1
	if !s.Exists(rec.ID) {
		s.known[rec.ID] = i
	}
	if rec.Author != "" {
		s.byAuthor[rec.Author] = append(s.byAuthor[rec.Author], i)
	}
}

func (s *Store) reset() {
	s.records = nil
	s.known = make(map[string]int)
	s.byAuthor = make(map[string][]int)
}

// LoadOrInit reads the master log if present and rebuilds the indexes from
// it. An existing log is backed up first. A log that cannot be read or parsed
// is kept as a backup and the store starts empty; the only error returned is
// a failure to take that backup, since persisting afterwards would destroy
// the unreadable file.
func (s *Store) LoadOrInit() (LoadResult, error) {
	s.reset()

	if !s.paths.MasterLogExists() {
		LogInfo("No existing master log found at %s, starting with empty log", s.paths.MasterLog)
		return LoadResult{}, nil
	}

	var result LoadResult
	backupPath := s.paths.BackupPath(s.now())
	backupErr := copyFile(s.paths.MasterLog, backupPath)
	if backupErr == nil {
		result.BackupPath = backupPath
		LogDebug("Created backup of master log at %s", backupPath)
	}

	records, err := s.readMasterLog()
	if err != nil {
		if backupErr != nil {
			return result, &StorageError{Path: s.paths.MasterLog, Op: "backup", Err: backupErr}
		}
		LogWarn("Error loading master log: %v", err)
		LogWarn("Unreadable master log preserved at %s; starting with empty log", backupPath)
		result.Recovered = true
		return result, nil
	}
	if backupErr != nil {
		LogWarn("Failed to back up master log: %v", backupErr)
	}

	duplicates := 0
	for _, rec := range records {
		if rec.ID != "" && s.Exists(rec.ID) {
			duplicates++
		}
		s.insert(rec)
	}
	if duplicates > 0 {
		LogWarn("Master log contains %d repeated id(s); run 'dedupe' to clean it", duplicates)
	}

	result.Loaded = len(records)
	result.Indexed = len(s.known)
	LogInfo("Loaded %d existing messages from master log", len(records))
	return result, nil
}

// Load reads the master log without backup or recovery. Unlike LoadOrInit it
// fails on a missing or unreadable log; maintenance commands use it so they
// never operate on an empty substitute.
func (s *Store) Load() error {
	records, err := s.readMasterLog()
	if err != nil {
		return err
	}
	s.ReplaceAll(records)
	return nil
}

// Backup copies the current master log to a fresh backup path.
func (s *Store) Backup() (string, error) {
	path := s.paths.BackupPath(s.now())
	if err := copyFile(s.paths.MasterLog, path); err != nil {
		return "", &StorageError{Path: s.paths.MasterLog, Op: "backup", Err: err}
	}
	return path, nil
}

func (s *Store) readMasterLog() ([]MessageRecord, error) {
	data, err := os.ReadFile(s.paths.MasterLog)
	if err != nil {
		return nil, &StorageError{Path: s.paths.MasterLog, Op: "read", Err: err}
	}
	records, err := ParseMessageLog(data)
	if err != nil {
		return nil, &ParseError{Source: "master_log", Key: s.paths.MasterLog, Err: err}
	}
	return records, nil
}

// Persist durably writes the full log. The new content is staged in a
// temporary file in the same directory and renamed over the master log, so
// an interrupted write leaves the previous version intact.
func (s *Store) Persist() error {
	data, err := MarshalMessageLog(s.records)
	if err != nil {
		return fmt.Errorf("failed to marshal message log: %w", err)
	}

	if err := s.paths.EnsureDir(); err != nil {
		return &StorageError{Path: s.paths.Dir, Op: "mkdir", Err: err}
	}

	if s.SnapshotSession && s.paths.SessionLog != "" {
		if err := os.WriteFile(s.paths.SessionLog, data, 0644); err != nil {
			LogWarn("Failed to write session snapshot %s: %v", s.paths.SessionLog, err)
		}
	}

	return writeFileAtomic(s.paths.MasterLog, data)
}

// ReplaceAll swaps the whole log, as done by the offline maintenance pass,
// and rebuilds the indexes.
func (s *Store) ReplaceAll(records []MessageRecord) {
	s.reset()
	for _, rec := range records {
		s.insert(rec)
	}
}

// writeFileAtomic writes data to a temp file next to path and renames it into
// place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.temp")
	if err != nil {
		return &StorageError{Path: path, Op: "write", Err: err}
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return &StorageError{Path: tmpPath, Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return &StorageError{Path: tmpPath, Op: "sync", Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &StorageError{Path: tmpPath, Op: "close", Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		LogDebug("Failed to chmod %s: %v", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return &StorageError{Path: path, Op: "rename", Err: err}
	}
	return nil
}

// copyFile copies src to dst, preserving the modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
