package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/iksnae/chat-recorder/internal"
)

// logPaths returns the layout for the configured log directory
func logPaths() (internal.LogPaths, error) {
	dir, err := internal.ResolveLogDir(cfg.LogDir)
	if err != nil {
		return internal.LogPaths{}, err
	}
	return internal.PathsForLogFile(filepath.Join(dir, internal.MasterLogName)), nil
}

// openLog loads the master log for read-only commands
func openLog() (*internal.Store, error) {
	paths, err := logPaths()
	if err != nil {
		return nil, err
	}
	if !paths.MasterLogExists() {
		return nil, fmt.Errorf("no master log at %s (run 'chat-recorder watch' first or pass --log-dir)", paths.MasterLog)
	}

	store := internal.NewStore(paths)
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}
