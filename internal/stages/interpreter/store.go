package interpreter

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"sync"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // postgres driver
	"github.com/liftlab/liftwire/pkg/models"
)

// DefaultInsightsTable is used when no table is configured.
const DefaultInsightsTable = "agent_insights"

// InsightStore persists insight records.
type InsightStore interface {
	Save(ctx context.Context, record *models.InsightRecord) error
	Close() error
}

var tableNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresInsightStore writes records into a jsonb column, one row per run.
type PostgresInsightStore struct {
	db    *sql.DB
	table string

	bootstrap sync.Once
	bootErr   error
}

// NewPostgresStore opens the insights database. The table name is restricted
// to a safe identifier because it is interpolated into DDL.
func NewPostgresStore(dsn, table string) (*PostgresInsightStore, error) {
	if table == "" {
		table = DefaultInsightsTable
	}

	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid insights table name: %q", table)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open insights database: %w", err)
	}

	return &PostgresInsightStore{db: db, table: table}, nil
}

func (s *PostgresInsightStore) Save(ctx context.Context, record *models.InsightRecord) error {
	s.bootstrap.Do(func() {
		ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			insight_id uuid PRIMARY KEY,
			insight_data jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, s.table)

		_, s.bootErr = s.db.ExecContext(ctx, ddl)
	})

	if s.bootErr != nil {
		return fmt.Errorf("failed to create insights table %s: %w", s.table, s.bootErr)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode insight record: %w", err)
	}

	query := fmt.Sprintf("INSERT INTO %s (insight_id, insight_data) VALUES ($1, $2)", s.table)

	if _, err := s.db.ExecContext(ctx, query, uuid.New().String(), payload); err != nil {
		return fmt.Errorf("failed to insert insight: %w", err)
	}

	return nil
}

func (s *PostgresInsightStore) Close() error {
	return s.db.Close()
}
