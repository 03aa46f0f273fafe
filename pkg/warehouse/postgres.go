package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	_ "github.com/lib/pq" // postgres driver
)

const dollarTag = "$liftwire_handler$"

var procNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresOpener opens sessions against a PostgreSQL warehouse with the
// plpython3u extension. Generated handlers are installed as SQL functions and
// invoked with a plain SELECT.
type PostgresOpener struct {
	dsn    string
	logger *slog.Logger
}

func NewPostgresOpener(dsn string, logger *slog.Logger) *PostgresOpener {
	return &PostgresOpener{dsn: dsn, logger: logger.With("module", "warehouse")}
}

func (o *PostgresOpener) Open(ctx context.Context) (Session, error) {
	if o.dsn == "" {
		return nil, fmt.Errorf("warehouse DSN is not configured")
	}

	db, err := sql.Open("postgres", o.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	o.logger.InfoContext(ctx, "Warehouse session opened")

	return &pgSession{db: db, logger: o.logger}, nil
}

type pgSession struct {
	db     *sql.DB
	logger *slog.Logger
}

func (s *pgSession) Deploy(ctx context.Context, procName, source string) error {
	stmt, err := buildCreateFunction(procName, source)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to deploy procedure %s: %w", procName, err)
	}

	s.logger.InfoContext(ctx, "Procedure deployed", "procedure", procName)

	return nil
}

// Call invokes the procedure and returns its text result. There is no
// client-side timeout; duration is bounded by the warehouse itself.
func (s *pgSession) Call(ctx context.Context, procName string) (any, error) {
	if !procNameRe.MatchString(procName) {
		return nil, fmt.Errorf("invalid procedure name %q", procName)
	}

	var out string
	if err := s.db.QueryRowContext(ctx, "SELECT "+procName+"()").Scan(&out); err != nil {
		return nil, fmt.Errorf("failed to call procedure %s: %w", procName, err)
	}

	return out, nil
}

func (s *pgSession) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close warehouse session: %w", err)
	}

	return nil
}

// buildCreateFunction wraps the generated handler source into a plpython3u
// function. The handler defines main(context); the wrapper invokes it with
// the plpy module as its execution context and serializes the returned
// mapping to JSON text.
func buildCreateFunction(procName, source string) (string, error) {
	if !procNameRe.MatchString(procName) {
		return "", fmt.Errorf("invalid procedure name %q", procName)
	}

	if strings.Contains(source, dollarTag) {
		return "", fmt.Errorf("source contains reserved quoting tag %s", dollarTag)
	}

	var b strings.Builder
	b.WriteString("CREATE OR REPLACE FUNCTION ")
	b.WriteString(procName)
	b.WriteString("() RETURNS text LANGUAGE plpython3u AS ")
	b.WriteString(dollarTag)
	b.WriteString("\n")
	b.WriteString(source)
	b.WriteString("\n\nimport json\nreturn json.dumps(main(plpy))\n")
	b.WriteString(dollarTag)
	b.WriteString(";")

	return b.String(), nil
}
