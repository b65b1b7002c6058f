package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/bep-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS projects (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	inputs      TEXT NOT NULL,
	result      TEXT NOT NULL,
	sensitivity TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_projects_name ON projects(name);
CREATE INDEX IF NOT EXISTS idx_projects_created_at ON projects(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveProject(ctx context.Context, name string, res model.ValidationResult) (*model.Project, error) {
	p, err := newProject(name, res)
	if err != nil {
		return nil, err
	}
	cols, err := marshalProject(p)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal project")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, inputs, result, sensitivity, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(cols.inputs), string(cols.result), string(cols.sensitivity), p.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert project")
	}
	return &p, nil
}

func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, inputs, result, sensitivity, created_at FROM projects WHERE id = ?`,
		id,
	)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: get project %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get project %s", id)
	}
	return p, nil
}

func (s *SQLiteStore) ListProjects(ctx context.Context, filter ProjectFilter) ([]model.Project, error) {
	query := `SELECT id, name, inputs, result, sensitivity, created_at FROM projects WHERE 1=1`
	var args []any

	if filter.Name != "" {
		query += ` AND name LIKE ?`
		args = append(args, "%"+filter.Name+"%")
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, filter.limit())
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list projects")
	}
	defer rows.Close() //nolint:errcheck

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan project")
		}
		projects = append(projects, *p)
	}
	return projects, eris.Wrap(rows.Err(), "sqlite: iterate projects")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanProject(row scannable) (*model.Project, error) {
	var p model.Project
	var inputs, result, sensitivity string
	if err := row.Scan(&p.ID, &p.Name, &inputs, &result, &sensitivity, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalProject(&p, []byte(inputs), []byte(result), []byte(sensitivity)); err != nil {
		return nil, err
	}
	return &p, nil
}

// projectColumns holds the JSON encodings of a project's composite fields.
type projectColumns struct {
	inputs, result, sensitivity []byte
}

func marshalProject(p model.Project) (projectColumns, error) {
	var (
		c   projectColumns
		err error
	)
	if c.inputs, err = json.Marshal(p.Inputs); err != nil {
		return c, eris.Wrap(err, "marshal inputs")
	}
	if c.result, err = json.Marshal(p.Result); err != nil {
		return c, eris.Wrap(err, "marshal result")
	}
	if c.sensitivity, err = json.Marshal(p.Sensitivity); err != nil {
		return c, eris.Wrap(err, "marshal sensitivity")
	}
	return c, nil
}

func unmarshalProject(p *model.Project, inputs, result, sensitivity []byte) error {
	if err := json.Unmarshal(inputs, &p.Inputs); err != nil {
		return eris.Wrap(err, "unmarshal inputs")
	}
	if err := json.Unmarshal(result, &p.Result); err != nil {
		return eris.Wrap(err, "unmarshal result")
	}
	if err := json.Unmarshal(sensitivity, &p.Sensitivity); err != nil {
		return eris.Wrap(err, "unmarshal sensitivity")
	}
	return nil
}
