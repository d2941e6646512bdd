package storage

import (
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"todo/internal/todotxt"

	_ "modernc.org/sqlite"
)

// ArchivedRecord is one row of the SQLite archive.
type ArchivedRecord struct {
	ID         int
	Record     *todotxt.Record
	ArchivedAt time.Time
}

// SQLiteSink archives records into an `archived` table.
type SQLiteSink struct {
	path string
	db   *sql.DB
	now  func() time.Time
}

// OpenSQLite opens or creates the archive database at dbPath.
func OpenSQLite(dbPath string) (*SQLiteSink, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, &PersistenceError{Path: dbPath, Op: OpArchiveAppend, Err: err}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, &PersistenceError{Path: dbPath, Op: OpArchiveAppend, Err: err}
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteSink{path: dbPath, db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, &PersistenceError{Path: dbPath, Op: OpArchiveAppend, Err: err}
	}
	return s, nil
}

func (s *SQLiteSink) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteSink) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS archived (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	line TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL DEFAULT '',
	due TEXT NOT NULL DEFAULT '',
	archived_at TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Append inserts every record in one transaction.
func (s *SQLiteSink) Append(records []*todotxt.Record) error {
	if len(records) == 0 {
		return nil
	}
	now := s.now().UTC().Format(time.RFC3339)
	tx, err := s.db.Begin()
	if err != nil {
		return &PersistenceError{Path: s.path, Op: OpArchiveAppend, Err: err}
	}
	for _, r := range records {
		_, err := tx.Exec(`INSERT INTO archived (line, title, priority, due, archived_at) VALUES (?, ?, ?, ?, ?);`,
			r.String(), r.Title(), r.Priority.Letter(), r.Deadline.String(), now)
		if err != nil {
			tx.Rollback()
			return &PersistenceError{Path: s.path, Op: OpArchiveAppend, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &PersistenceError{Path: s.path, Op: OpArchiveAppend, Err: err}
	}
	return nil
}

// Fetch reads the archive back in insertion order. It is the only reader of
// an archive database; the task file never loads from it.
func (s *SQLiteSink) Fetch() ([]ArchivedRecord, error) {
	rows, err := s.db.Query(`SELECT id, line, archived_at FROM archived ORDER BY id;`)
	if err != nil {
		return nil, &PersistenceError{Path: s.path, Op: OpRead, Err: err}
	}
	defer rows.Close()

	var out []ArchivedRecord
	for rows.Next() {
		var a ArchivedRecord
		var line, archivedStr string
		if err := rows.Scan(&a.ID, &line, &archivedStr); err != nil {
			return nil, &PersistenceError{Path: s.path, Op: OpRead, Err: err}
		}
		a.Record, err = todotxt.Parse(line)
		if err != nil {
			return nil, err
		}
		if at, err := time.Parse(time.RFC3339, archivedStr); err == nil {
			a.ArchivedAt = at
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Path: s.path, Op: OpRead, Err: err}
	}
	return out, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
