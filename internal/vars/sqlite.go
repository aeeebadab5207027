package vars

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/palaver/internal/dialogue"
)

//go:embed schema.sql
var schemaSQL string

// SQLite is a Store backed by a single-file SQLite database. Suitable for
// variables that must survive process restarts.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// Open creates or opens a SQLite variable store at the given path.
// Applies required pragmas and the schema automatically; safe to call
// against an existing database.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open variable store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to variable store: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply variable schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) Get(ctx context.Context, name string) (dialogue.Value, bool, error) {
	var kind, text string
	err := s.db.QueryRowContext(ctx,
		`SELECT kind, value FROM variables WHERE name = ?`, name,
	).Scan(&kind, &text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read variable %q: %w", name, err)
	}
	v, err := decodeValue(kind, text)
	if err != nil {
		return nil, false, fmt.Errorf("read variable %q: %w", name, err)
	}
	return v, true, nil
}

func (s *SQLite) Set(ctx context.Context, name string, v dialogue.Value) error {
	kind, text, err := encodeValue(v)
	if err != nil {
		return fmt.Errorf("write variable %q: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO variables (name, kind, value)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET kind = excluded.kind, value = excluded.value
	`, name, kind, text)
	if err != nil {
		return fmt.Errorf("write variable %q: %w", name, err)
	}
	return nil
}

func (s *SQLite) Has(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM variables WHERE name = ?`, name,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check variable %q: %w", name, err)
	}
	return true, nil
}

func (s *SQLite) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM variables WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete variable %q: %w", name, err)
	}
	return nil
}

func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM variables`); err != nil {
		return fmt.Errorf("clear variables: %w", err)
	}
	return nil
}

func (s *SQLite) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM variables ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list variables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list variables: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list variables: %w", err)
	}
	return names, nil
}

func encodeValue(v dialogue.Value) (kind, text string, err error) {
	switch v := v.(type) {
	case dialogue.String:
		return "string", string(v), nil
	case dialogue.Number:
		return "number", strconv.FormatFloat(float64(v), 'g', -1, 64), nil
	case dialogue.Bool:
		return "bool", strconv.FormatBool(bool(v)), nil
	default:
		return "", "", fmt.Errorf("unsupported value type %T", v)
	}
}

func decodeValue(kind, text string) (dialogue.Value, error) {
	switch kind {
	case "string":
		return dialogue.String(text), nil
	case "number":
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt number %q: %w", text, err)
		}
		return dialogue.Number(n), nil
	case "bool":
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("corrupt bool %q: %w", text, err)
		}
		return dialogue.Bool(b), nil
	default:
		return nil, fmt.Errorf("unknown value kind %q", kind)
	}
}
