package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"dukkan/backend/internal/store"
)

const schema = `
	CREATE TABLE IF NOT EXISTS collections (
		name       TEXT PRIMARY KEY,
		body       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(16)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate collections table: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Read(ctx context.Context, name store.Collection) ([]byte, error) {
	if !store.ValidCollection(name) {
		return nil, store.ErrInvalidInput
	}
	var body string
	err := s.db.QueryRowContext(ctx, `
		SELECT body::text
		FROM collections
		WHERE name = $1
	`, string(name)).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(body), nil
}

func (s *Store) Write(ctx context.Context, docs ...store.Document) error {
	for _, doc := range docs {
		if !store.ValidCollection(doc.Name) {
			return store.ErrInvalidInput
		}
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, doc := range docs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO collections (name, body, updated_at)
			VALUES ($1, $2::jsonb, now())
			ON CONFLICT (name)
			DO UPDATE SET body = EXCLUDED.body, updated_at = now()
		`, string(doc.Name), string(doc.Body))
		if err != nil {
			if isInvalidJSON(err) {
				return fmt.Errorf("%w: %s body is not valid JSON", store.ErrInvalidInput, doc.Name)
			}
			return err
		}
	}

	return tx.Commit()
}

func isInvalidJSON(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02"
	}
	return false
}
