package project

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PostgresStore persists projects in the projects table:
//
//	projects(id, client_uid, developer_uid, title, description, status,
//	         quote_minor, currency, created_at, updated_at)
type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, clock: time.Now}
}

const projectColumns = `id, client_uid, developer_uid, title, description, status, quote_minor, currency, created_at, updated_at`

func (s *PostgresStore) ListForUser(ctx context.Context, uid string) ([]Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM projects
WHERE client_uid = $1 OR developer_uid = $1
ORDER BY updated_at DESC
`
	rows, err := s.db.QueryContext(ctx, q, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	p, err := scanProject(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return p, nil
}

func (s *PostgresStore) Insert(ctx context.Context, p Project) (Project, error) {
	now := s.clock().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = StatusQuoteRequested
	}

	const q = `
INSERT INTO projects (` + projectColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := s.db.ExecContext(ctx, q,
		p.ID, p.ClientUID, p.DeveloperUID, p.Title, p.Description, p.Status,
		p.QuoteMinor, p.Currency, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(r rowScanner) (Project, error) {
	var p Project
	err := r.Scan(
		&p.ID,
		&p.ClientUID,
		&p.DeveloperUID,
		&p.Title,
		&p.Description,
		&p.Status,
		&p.QuoteMinor,
		&p.Currency,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
