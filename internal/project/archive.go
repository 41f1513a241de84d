package project

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/piwi3910/TrussCut/internal/model"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned when an archive lookup names an unknown run.
var ErrRunNotFound = errors.New("run not found")

// RunInfo describes one stored extraction run.
type RunInfo struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Members   int
}

// Archive stores the raw members of extraction runs so that later batches can
// be combined by recomputing bars from the pieces themselves.
type Archive struct {
	conn *sql.DB
}

// DefaultArchivePath returns ~/.trusscut/archive.db.
func DefaultArchivePath() string {
	return filepath.Join(DefaultConfigDir(), "archive.db")
}

// OpenArchive opens or creates the archive database at path.
func OpenArchive(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	a := &Archive{conn: conn}
	if err := a.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the database.
func (a *Archive) Close() error {
	return a.conn.Close()
}

func (a *Archive) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  source TEXT NOT NULL,
  createdAt TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS members (
  runId TEXT NOT NULL,
  position INTEGER NOT NULL,
  type TEXT NOT NULL,
  profile TEXT NOT NULL,
  length REAL NOT NULL,
  source TEXT NOT NULL,
  PRIMARY KEY(runId, position),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
`
	_, err := a.conn.Exec(schema)
	return err
}

// SaveRun stores the members of one extraction run and returns its id.
func (a *Archive) SaveRun(source string, members []model.Member) (string, error) {
	id := uuid.NewString()

	tx, err := a.conn.Begin()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT INTO runs (id, source, createdAt) VALUES (?, ?, ?)`,
		id, source, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
INSERT INTO members (runId, position, type, profile, length, source)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, m := range members {
		if _, err := stmt.Exec(id, i, string(m.Type), m.Profile, m.Length, m.Source); err != nil {
			return "", fmt.Errorf("insert member %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// Runs lists stored runs, oldest first.
func (a *Archive) Runs() ([]RunInfo, error) {
	rows, err := a.conn.Query(`
SELECT r.id, r.source, r.createdAt, COUNT(m.position)
FROM runs r LEFT JOIN members m ON m.runId = r.id
GROUP BY r.seq
ORDER BY r.seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var info RunInfo
		var created string
		if err := rows.Scan(&info.ID, &info.Source, &created, &info.Members); err != nil {
			return nil, err
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Members returns the members of the given runs concatenated in argument
// order, each run in its stored order.
func (a *Archive) Members(runIDs ...string) ([]model.Member, error) {
	var out []model.Member
	for _, id := range runIDs {
		var exists int
		err := a.conn.QueryRow(`SELECT COUNT(*) FROM runs WHERE id = ?`, id).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if exists == 0 {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}

		members, err := a.runMembers(id)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", id, err)
		}
		out = append(out, members...)
	}
	return out, nil
}

func (a *Archive) runMembers(id string) ([]model.Member, error) {
	rows, err := a.conn.Query(`
SELECT type, profile, length, source FROM members
WHERE runId = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Member
	for rows.Next() {
		var m model.Member
		var typ string
		if err := rows.Scan(&typ, &m.Profile, &m.Length, &m.Source); err != nil {
			return nil, err
		}
		m.Type = model.MemberType(strings.ToUpper(typ))
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its members.
func (a *Archive) DeleteRun(id string) error {
	tx, err := a.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM members WHERE runId = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return tx.Commit()
}
