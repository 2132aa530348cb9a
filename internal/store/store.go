package store

import (
	"fmt"
	"io"
	"time"

	"github.com/Akash-rengaraj/sanjana-creations/internal/models"
)

const (
	ProductsCollection  = "products"
	OrdersCollection    = "orders"
	CustomersCollection = "customers"
	UsersCollection     = "users"
)

type Store struct {
	backend Backend

	products  *Collection[models.Product]
	orders    *Collection[models.Order]
	customers *Collection[models.Customer]
	users     *Collection[models.User]

	now func() time.Time
}

func NewStore(backend Backend) *Store {
	return &Store{
		backend:   backend,
		products:  NewCollection[models.Product](ProductsCollection, backend),
		orders:    NewCollection[models.Order](OrdersCollection, backend),
		customers: NewCollection[models.Customer](CustomersCollection, backend),
		users:     NewCollection[models.User](UsersCollection, backend),
		now:       time.Now,
	}
}

// Open builds a Store on the backend named by driver: "file" (dsn is the
// data directory), "sqlite" or "postgres".
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case "", "file":
		b, err := NewFileBackend(dsn)
		if err != nil {
			return nil, err
		}
		return NewStore(b), nil
	case string(DialectSQLite), string(DialectPostgres):
		b, err := OpenSQL(Dialect(driver), dsn)
		if err != nil {
			return nil, err
		}
		return NewStore(b), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// Close releases the backend if it holds a connection.
func (s *Store) Close() error {
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// nextID derives a creation-time id, bumped past the highest existing id so
// two creates within the same millisecond still get distinct ids.
func nextID(now time.Time, maxExisting int64) int64 {
	id := now.UnixMilli()
	if id <= maxExisting {
		id = maxExisting + 1
	}
	return id
}
