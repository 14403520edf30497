package internal

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// OpenDatabase opens a SQLite database in read-only mode
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

const latestPollQuery = `
SELECT text, timestamp, username, body, reply_header, reply_icon
FROM observed_elements
WHERE poll_id = (SELECT MAX(poll_id) FROM observed_elements)
ORDER BY position`

// SQLiteSource reads captured polls from a feed database written by the
// capture process. Each fetch returns the newest poll.
type SQLiteSource struct {
	path string
	db   *sql.DB
}

// OpenSQLiteSource opens the feed database at path read-only
func OpenSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &SourceError{Source: SourceSQLite, Err: err}
	}
	return &SQLiteSource{path: path, db: db}, nil
}

// Fetch returns the elements of the newest poll ordered by position
func (s *SQLiteSource) Fetch(ctx context.Context) ([]ObservedElement, error) {
	rows, err := s.db.QueryContext(ctx, latestPollQuery)
	if err != nil {
		return nil, &SourceError{Source: SourceSQLite, Err: fmt.Errorf("query failed: %w", err)}
	}
	defer rows.Close()

	var elements []ObservedElement
	for rows.Next() {
		var (
			text, timestamp, username, body, header sql.NullString
			icon                                    sql.NullBool
		)
		if err := rows.Scan(&text, &timestamp, &username, &body, &header, &icon); err != nil {
			return nil, &SourceError{Source: SourceSQLite, Err: fmt.Errorf("scan failed: %w", err)}
		}
		elements = append(elements, ObservedElement{
			Text:        text.String,
			Timestamp:   timestamp.String,
			Username:    username.String,
			Body:        body.String,
			ReplyHeader: header.String,
			ReplyIcon:   icon.Bool,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, &SourceError{Source: SourceSQLite, Err: fmt.Errorf("rows iteration error: %w", err)}
	}

	return elements, nil
}

// Close closes the database handle
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
