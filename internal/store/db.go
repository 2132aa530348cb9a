package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/lib/pq"  // Postgres driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// SQLBackend stores each collection document as one row of the documents
// table. It is an alternative to FileBackend for hosts without a writable
// data directory; the document semantics are identical.
type SQLBackend struct {
	DB      *sql.DB
	dialect Dialect
}

func NewSQLBackend(db *sql.DB, dialect Dialect) *SQLBackend {
	return &SQLBackend{DB: db, dialect: dialect}
}

// OpenSQL opens and pings the database, then applies pending migrations.
func OpenSQL(dialect Dialect, dataSourceName string) (*SQLBackend, error) {
	db, err := sql.Open(string(dialect), dataSourceName)
	if err != nil {
		return nil, err
	}
	if dialect == DialectSQLite {
		// One writer at a time; also keeps :memory: databases on a single connection.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	b := NewSQLBackend(db, dialect)
	if err := b.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("SQL document store ready", "driver", dialect)
	return b, nil
}

func (b *SQLBackend) Close() error {
	return b.DB.Close()
}

// rebind rewrites ? placeholders into $n for Postgres.
func (b *SQLBackend) rebind(query string) string {
	if b.dialect != DialectPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (b *SQLBackend) Read(ctx context.Context, collection string) ([]byte, error) {
	var body string
	err := b.DB.QueryRowContext(ctx, b.rebind(`SELECT body FROM documents WHERE collection = ?`), collection).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

func (b *SQLBackend) Write(ctx context.Context, collection string, doc []byte) error {
	query := `
		INSERT INTO documents (collection, body, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (collection) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`
	if _, err := b.DB.ExecContext(ctx, b.rebind(query), collection, string(doc)); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}
