package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MasterLogName is the file holding the full ordered message log.
	MasterLogName = "MASTER_LOG.json"
	// DefaultLogDir is used when neither config nor flags name a directory.
	DefaultLogDir = "chat_logs"

	stampLayout = "20060102_150405"
)

// LogPaths holds the on-disk locations used by a recorder run
type LogPaths struct {
	Dir        string // log directory
	MasterLog  string // durable master log
	SessionLog string // best-effort snapshot for this run
}

// NewLogPaths returns the layout for dir; the session snapshot is named after
// the run's start time.
func NewLogPaths(dir string, started time.Time) LogPaths {
	return LogPaths{
		Dir:        dir,
		MasterLog:  filepath.Join(dir, MasterLogName),
		SessionLog: filepath.Join(dir, fmt.Sprintf("session_%s.json", started.Format(stampLayout))),
	}
}

// PathsForLogFile returns a layout around an explicit log file, as used by the
// maintenance commands. No session snapshot is written for it.
func PathsForLogFile(path string) LogPaths {
	return LogPaths{
		Dir:       filepath.Dir(path),
		MasterLog: path,
	}
}

// ResolveLogDir expands a leading "~" and makes dir absolute.
func ResolveLogDir(dir string) (string, error) {
	if dir == "" {
		dir = DefaultLogDir
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve log directory: %w", err)
	}
	return abs, nil
}

// EnsureDir ensures the log directory exists
func (p LogPaths) EnsureDir() error {
	return os.MkdirAll(p.Dir, 0755)
}

// MasterLogExists checks if the master log file exists
func (p LogPaths) MasterLogExists() bool {
	_, err := os.Stat(p.MasterLog)
	return err == nil
}

// BackupPath returns a backup location for the master log that does not exist
// yet. Backups taken within the same second get a numeric suffix.
func (p LogPaths) BackupPath(now time.Time) string {
	base := fmt.Sprintf("%s.backup_%s", p.MasterLog, now.Format(stampLayout))
	candidate := base
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
}

// FindBackups lists existing backups of the master log, oldest first.
func (p LogPaths) FindBackups() ([]string, error) {
	matches, err := filepath.Glob(p.MasterLog + ".backup_*")
	if err != nil {
		return nil, err
	}
	return matches, nil
}
