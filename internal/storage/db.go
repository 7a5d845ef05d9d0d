package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"eolgames/internal"
)

type DB struct {
	conn *sql.DB
}

type RunRow struct {
	ID        int64
	TraceID   string
	Timings   map[string]float64
	Counts    map[string]int
	CreatedAt string
}

func Open(path string) (*DB, error) {
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

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS games (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  console TEXT NOT NULL,
  category TEXT NOT NULL,
  position INTEGER NOT NULL,
  title TEXT NOT NULL,
  recordJson TEXT NOT NULL,
  UNIQUE(console, category, position),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_games_title ON games(title);

CREATE TABLE IF NOT EXISTS warnings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  console TEXT,
  file TEXT,
  category TEXT,
  kind TEXT NOT NULL,
  tableIdx INTEGER NOT NULL,
  rowNo INTEGER,
  message TEXT NOT NULL,
  FOREIGN KEY(runId) REFERENCES runs(id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(traceID string, timings map[string]float64, counts map[string]int) (int64, error) {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	result, err := d.conn.Exec(`INSERT INTO runs (traceId, timingsJson, countsJson) VALUES (?, ?, ?)`, traceID, string(timingsJSON), string(countsJSON))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) ListRuns(limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(`SELECT id, traceId, timingsJson, countsJson, createdAt FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		var timingsJSON, countsJSON string
		if err := rows.Scan(&r.ID, &r.TraceID, &timingsJSON, &countsJSON, &r.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(timingsJSON), &r.Timings)
		_ = json.Unmarshal([]byte(countsJSON), &r.Counts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ReplaceConsoleGames swaps the stored games of one console for the
// records of d, keeping per-category positions.
func (d *DB) ReplaceConsoleGames(runID int64, ds internal.ConsoleDataset) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM games WHERE console = ?`, ds.Console); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO games (runId, console, category, position, title, recordJson)
VALUES (?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range internal.Categories {
		for i, rec := range ds.Records(c) {
			blob, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if _, err := stmt.Exec(runID, ds.Console, string(c), i, rec.Title(), string(blob)); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ListGames returns the stored records of console, optionally limited to
// one category. Records come back in combined order with their category
// stamped.
func (d *DB) ListGames(console string, category internal.Category) ([]internal.GameRecord, error) {
	rows, err := d.conn.Query(`
SELECT category, recordJson FROM games
WHERE console = ? AND (? = '' OR category = ?)
ORDER BY
  CASE category WHEN 'licensed' THEN 1 WHEN 'unreleased' THEN 2 ELSE 3 END,
  position ASC
`, console, string(category), string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.GameRecord
	for rows.Next() {
		var cat, blob string
		if err := rows.Scan(&cat, &blob); err != nil {
			return nil, err
		}
		rec := internal.GameRecord{}
		if err := json.Unmarshal([]byte(blob), &rec); err != nil {
			return nil, err
		}
		rec[internal.FieldCategory] = cat
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *DB) ListConsoles() ([]string, error) {
	rows, err := d.conn.Query(`SELECT DISTINCT console FROM games ORDER BY console`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountGames returns per-console, per-category record counts.
func (d *DB) CountGames() (map[string]map[internal.Category]int, error) {
	rows, err := d.conn.Query(`SELECT console, category, COUNT(*) FROM games GROUP BY console, category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]map[internal.Category]int{}
	for rows.Next() {
		var console, cat string
		var n int
		if err := rows.Scan(&console, &cat, &n); err != nil {
			return nil, err
		}
		if out[console] == nil {
			out[console] = map[internal.Category]int{}
		}
		out[console][internal.Category(cat)] = n
	}
	return out, rows.Err()
}

func (d *DB) InsertWarnings(runID int64, warnings []internal.Warning) error {
	if len(warnings) == 0 {
		return nil
	}
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO warnings (runId, console, file, category, kind, tableIdx, rowNo, message)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, w := range warnings {
		if _, err := stmt.Exec(runID, w.Console, w.File, string(w.Category), string(w.Kind), w.Table, w.Row, w.Message); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (d *DB) CountWarnings(runID int64) (map[internal.WarningKind]int, error) {
	rows, err := d.conn.Query(`SELECT kind, COUNT(*) FROM warnings WHERE runId = ? GROUP BY kind`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[internal.WarningKind]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out[internal.WarningKind(kind)] = n
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
