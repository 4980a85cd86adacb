package storage

import (
	"context"
	"errors"
	"fmt"
	"launcher/internal/domain"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxPool - подмножество методов *pgxpool.Pool, используемых хранилищем.
type pgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresOfflineStore хранит офлайн-документы в таблице offline_documents.
// Тело документа хранится как текст без изменений, чтобы отдавать его побайтно.
type PostgresOfflineStore struct {
	pool pgxPool
	log  *slog.Logger
}

func NewPostgresOfflineStore(pool pgxPool, log *slog.Logger) *PostgresOfflineStore {
	log = log.With(slog.String("component", "offline-store"), slog.String("backend", "postgres"))
	log.Info("Initializing Postgres offline storage")
	return &PostgresOfflineStore{
		pool: pool,
		log:  log,
	}
}

func (db *PostgresOfflineStore) Close() {
	db.log.Info("Closing database connection pool")
	db.pool.Close()
}

func (db *PostgresOfflineStore) Load(ctx context.Context, name string) ([]byte, error) {
	const op = "storage.postgres.Load"
	var body string
	err := db.pool.QueryRow(ctx, `SELECT body FROM offline_documents WHERE name = $1;`, name).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s: document %q not found", domain.ErrOfflineRead, op, name)
		}
		db.log.Error("Database query failed", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s: failed to execute query: %v", domain.ErrOfflineRead, op, err)
	}
	return []byte(body), nil
}

func (db *PostgresOfflineStore) Save(ctx context.Context, name string, body []byte) error {
	const op = "storage.postgres.Save"
	query := `
	INSERT INTO offline_documents (name, body, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at;
	`
	if _, err := db.pool.Exec(ctx, query, name, string(body)); err != nil {
		db.log.Error("Failed to save offline document", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: failed to save %q: %w", op, name, err)
	}
	db.log.Info("Offline document saved", slog.String("document", name), slog.Int("bytes", len(body)))
	return nil
}
