package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteBackendRoundTrip(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "store.db")
	s, err := Open("sqlite", dsn)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	empty, err := s.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	want := sampleOrders()
	require.NoError(t, s.orders.Save(ctx, want))
	got, err := s.orders.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// A second write upserts the same row.
	require.NoError(t, s.orders.Save(ctx, want[:1]))
	got, err = s.orders.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "store.db")
	b, err := OpenSQL(DialectSQLite, dsn)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Migrate())

	var n int
	require.NoError(t, b.DB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLBackendWriteFailureIsIOFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT body FROM documents").
		WithArgs("products").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(`[{"id": 1, "name": "Ring"}]`))
	mock.ExpectExec("INSERT INTO documents").
		WithArgs("products", sqlmock.AnyArg()).
		WillReturnError(errors.New("disk I/O error"))

	s := NewStore(NewSQLBackend(db, DialectSQLite))
	_, err = s.CreateProduct(context.Background(), models.ProductPatch{Name: ptr("Bangle")})
	require.Error(t, err)
	assert.True(t, IsIOFailure(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLBackendMissingRowLoadsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT body FROM documents WHERE collection = \$1`).
		WithArgs("customers").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	s := NewStore(NewSQLBackend(db, DialectPostgres))
	customers, err := s.ListCustomers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, customers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRebind(t *testing.T) {
	pg := &SQLBackend{dialect: DialectPostgres}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))

	lite := &SQLBackend{dialect: DialectSQLite}
	assert.Equal(t, "x = ?", lite.rebind("x = ?"))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("mongo", "")
	assert.Error(t, err)
}
