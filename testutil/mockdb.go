package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// FeedRow is one captured element row in a feed database
type FeedRow struct {
	Text        string
	Timestamp   string
	Username    string
	Body        string
	ReplyHeader string
	ReplyIcon   bool
}

const createFeedTableSQL = `
CREATE TABLE IF NOT EXISTS observed_elements (
	poll_id      INTEGER NOT NULL,
	position     INTEGER NOT NULL,
	text         TEXT,
	timestamp    TEXT,
	username     TEXT,
	body         TEXT,
	reply_header TEXT,
	reply_icon   INTEGER DEFAULT 0,
	PRIMARY KEY (poll_id, position)
)`

// CreateFeedDB creates a feed database file in a temp directory and returns
// its path and an open handle for inserting rows
func CreateFeedDB(t *testing.T) (string, *sql.DB) {
	t.Helper()
	path := filepath.Join(CreateTempDir(t), "feed.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to create feed database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(createFeedTableSQL); err != nil {
		t.Fatalf("Failed to create observed_elements table: %v", err)
	}
	return path, db
}

// InsertPoll inserts the rows of one poll in order
func InsertPoll(t *testing.T, db *sql.DB, pollID int, rows []FeedRow) {
	t.Helper()
	insertSQL := `INSERT INTO observed_elements
		(poll_id, position, text, timestamp, username, body, reply_header, reply_icon)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for i, row := range rows {
		icon := 0
		if row.ReplyIcon {
			icon = 1
		}
		if _, err := db.Exec(insertSQL, pollID, i, row.Text, row.Timestamp, row.Username, row.Body, nullable(row.ReplyHeader), icon); err != nil {
			t.Fatalf("Failed to insert row %d of poll %d: %v", i, pollID, err)
		}
	}
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
