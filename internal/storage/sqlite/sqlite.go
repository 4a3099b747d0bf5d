// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. It is fast enough for most projects and trivial to set up.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded — we never call anything from it directly.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aanand-mishra/student-management/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	// Without this the sql.Open("sqlite3", ...) call would fail with
	// "unknown driver".
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at the given path, creates the students
// table if it does not already exist, and returns a ready-to-use *SQLite.
//
// Naming convention: New() acts as a constructor. Go has no constructors,
// so the community convention is a package-level New() function that
// returns an initialised instance (and an error as the second value).
func New(path string) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet — it just validates
	// the driver name and data source name (DSN).
	// The first actual connection happens on the first query.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup. If the table already exists nothing happens.
	//
	// Schema:
	//   sid    — student ID, the natural primary key (e.g. "S101")
	//   name   — student's full name
	//   age    — age in years
	//   gender — "Male" or "Female"
	//   major  — field of study
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			sid    TEXT    PRIMARY KEY,
			name   TEXT    NOT NULL,
			age    INTEGER NOT NULL,
			gender TEXT    NOT NULL,
			major  TEXT    NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Load reads every student row into a roster map keyed by SID.
//
// Query (unlike QueryRow) returns *sql.Rows — a cursor over multiple
// rows. We iterate with rows.Next() which advances the cursor and
// returns false when there are no more rows. Always defer rows.Close()
// to release the database connection.
func (s *SQLite) Load(ctx context.Context) (map[string]types.Student, error) {
	rows, err := s.Db.QueryContext(ctx,
		// Explicitly list columns — never use SELECT * in production code.
		// If a column is added later, SELECT * would break Scan's ordering.
		"SELECT sid, name, age, gender, major FROM students",
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Load: query: %w", err)
	}
	defer rows.Close() // must close rows to free the DB connection

	// Always return a non-nil map so callers can index and range over
	// it without a nil check.
	students := make(map[string]types.Student)

	for rows.Next() { // advances cursor; returns false when exhausted
		var student types.Student

		// Scan reads the columns from the current row into Go variables
		// IN ORDER. The order must match the SELECT column list. We pass
		// pointers so Scan can write into those locations.
		if err := rows.Scan(
			&student.SID,
			&student.Name,
			&student.Age,
			&student.Gender,
			&student.Major,
		); err != nil {
			return nil, fmt.Errorf("sqlite.Load: scan row: %w", err)
		}

		students[student.SID] = student
	}

	// rows.Err() captures any error that occurred during iteration.
	// This is separate from Scan errors.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite.Load: rows iteration: %w", err)
	}

	return students, nil
}

// Save replaces the table contents with the given roster.
//
// The delete and the inserts run inside one transaction, so a failure
// anywhere rolls everything back and the previously saved roster
// survives intact. Without the transaction a crash between the DELETE
// and the INSERTs would lose data.
func (s *SQLite) Save(ctx context.Context, students map[string]types.Student) error {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite.Save: begin tx: %w", err)
	}
	// Rollback after a successful Commit is a no-op, so defer it
	// unconditionally to cover every early-return error path.
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM students"); err != nil {
		return fmt.Errorf("sqlite.Save: clear table: %w", err)
	}

	// Prepared statements use placeholders (?). The database driver
	// sends the query and the values separately, so the values are
	// treated as pure data, never as SQL syntax — no injection risk.
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO students (sid, name, age, gender, major) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("sqlite.Save: prepare insert: %w", err)
	}
	// defer ensures the statement is closed when this function returns,
	// even if we return early due to an error. Prevents resource leaks.
	defer stmt.Close()

	for _, student := range students {
		// Exec substitutes ? in the same order the arguments are listed
		// here. Order matters!
		if _, err := stmt.ExecContext(ctx,
			student.SID,
			student.Name,
			student.Age,
			student.Gender,
			student.Major,
		); err != nil {
			return fmt.Errorf("sqlite.Save: insert %s: %w", student.SID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite.Save: commit: %w", err)
	}

	return nil
}

// Close releases the underlying connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}
