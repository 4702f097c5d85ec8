package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"projectmap/models"
	"projectmap/utils"
)

const projectColumns = 12

// PostgresWriter stores a snapshot of the normalized project set. The table
// is replaced wholesale on every write; it is an export, never queried by
// the viewer.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres-ping", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS projects (
			id            TEXT             PRIMARY KEY,
			name          TEXT             NOT NULL DEFAULT '',
			province      TEXT             NOT NULL DEFAULT '',
			district      TEXT             NOT NULL DEFAULT '',
			lat           DOUBLE PRECISION NOT NULL,
			lng           DOUBLE PRECISION NOT NULL,
			area          TEXT             NOT NULL DEFAULT '',
			investor      TEXT             NOT NULL DEFAULT '',
			price_range   TEXT             NOT NULL DEFAULT '',
			url           TEXT             NOT NULL DEFAULT '',
			price_history JSONB,
			position      INTEGER          NOT NULL,
			created_at    TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_projects_province ON projects(province);
		CREATE INDEX IF NOT EXISTS idx_projects_investor ON projects(investor);
	`)
	return err
}

// Write replaces the stored snapshot with projects in one transaction.
func (pw *PostgresWriter) Write(projects []*models.Project) error {
	return pw.WriteContext(context.Background(), projects)
}

// WriteContext is Write with a caller-supplied context.
func (pw *PostgresWriter) WriteContext(ctx context.Context, projects []*models.Project) error {
	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM projects"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(projects); i += batchSize {
		end := i + batchSize
		if end > len(projects) {
			end = len(projects)
		}
		if err := insertBatch(ctx, tx, projects[i:end], i); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, batch []*models.Project, offset int) error {
	query, args, err := buildInsert(batch, offset)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: insert batch at %d: %w", offset, err)
	}
	return nil
}

func buildInsert(batch []*models.Project, offset int) (string, []any, error) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*projectColumns)

	for idx, p := range batch {
		base := idx * projectColumns
		placeholders := make([]string, projectColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		var history any
		if !p.PriceHistory.Empty() {
			b, err := json.Marshal(p.PriceHistory)
			if err != nil {
				return "", nil, fmt.Errorf("postgres: encode price history for %s: %w", p.ID, err)
			}
			history = string(b)
		}

		valueArgs = append(valueArgs,
			p.ID, p.Name, p.Province, p.District, p.Lat, p.Lng,
			p.Area, p.Investor, p.PriceRange, p.URL, history, offset+idx)
	}

	query := fmt.Sprintf(`
		INSERT INTO projects (id, name, province, district, lat, lng, area, investor, price_range, url, price_history, position)
		VALUES %s
	`, strings.Join(valueStrings, ","))
	return query, valueArgs, nil
}

// Count returns the number of stored projects.
func (pw *PostgresWriter) Count(ctx context.Context) (int, error) {
	var n int
	if err := pw.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	return n, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
