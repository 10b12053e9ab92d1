// Package golden keeps a regression corpus of analyses in SQLite and
// re-verifies it against the current engine.
package golden

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/f3rmion/bazi/internal/engine"
)

// ErrNotFound is returned when no case has the requested name.
var ErrNotFound = errors.New("golden case not found")

const schema = `
CREATE TABLE IF NOT EXISTS cases (
	name     TEXT PRIMARY KEY,
	input    TEXT NOT NULL,
	expected TEXT NOT NULL,
	chart    TEXT NOT NULL,
	created  INTEGER NOT NULL
)`

// Case is one stored input with the analysis it must keep producing.
type Case struct {
	Name     string
	Input    engine.Input
	Chart    string
	Expected []byte // canonical JSON of the analysis
	Created  time.Time
}

// Store is a golden corpus backed by a SQLite file.
type Store struct {
	path string
	db   *sql.DB
	now  func() time.Time
}

// Open opens or creates the corpus at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{path: path, db: db, now: time.Now}, nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Canonical returns the bytes an analysis is stored and compared as.
func Canonical(a *engine.ChartAnalysis) ([]byte, error) {
	out, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshaling analysis: %w", err)
	}
	return out, nil
}

// Put stores a under name, replacing any case with the same name.
func (s *Store) Put(ctx context.Context, name string, a *engine.ChartAnalysis) error {
	if a.Input == nil {
		return fmt.Errorf("golden case %q: analysis has no input", name)
	}
	input, err := json.Marshal(a.Input)
	if err != nil {
		return fmt.Errorf("marshaling input: %w", err)
	}
	expected, err := Canonical(a)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cases (name, input, expected, chart, created) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET input = excluded.input, expected = excluded.expected,
			chart = excluded.chart, created = excluded.created
	`, name, string(input), string(expected), a.Chart, s.now().Unix())
	if err != nil {
		return fmt.Errorf("storing golden case %q: %w", name, err)
	}
	return nil
}

// Get returns the named case.
func (s *Store) Get(ctx context.Context, name string) (*Case, error) {
	row := s.db.QueryRowContext(ctx, `SELECT name, input, expected, chart, created FROM cases WHERE name = ?`, name)
	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return c, err
}

// List returns every case ordered by name.
func (s *Store) List(ctx context.Context) ([]*Case, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, input, expected, chart, created FROM cases ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying cases: %w", err)
	}
	defer rows.Close()

	var cases []*Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// Delete removes the named case.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cases WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting golden case %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCase(row scanner) (*Case, error) {
	var (
		c        Case
		input    string
		expected string
		created  int64
	)
	if err := row.Scan(&c.Name, &input, &expected, &c.Chart, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning case: %w", err)
	}
	if err := json.Unmarshal([]byte(input), &c.Input); err != nil {
		return nil, fmt.Errorf("parsing input of %q: %w", c.Name, err)
	}
	c.Expected = []byte(expected)
	c.Created = time.Unix(created, 0)
	return &c, nil
}
