package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/Akash-rengaraj/sanjana-creations/internal/store")

// Collection is a named array of T persisted as a single JSON document.
//
// Every Load decodes the whole document and every Save rewrites it. Update
// holds the collection lock across load, mutate and save, so writers inside
// one process are serialized and cannot lose each other's changes. Separate
// processes sharing a backend are still last-write-wins.
type Collection[T any] struct {
	name    string
	backend Backend
	mu      sync.Mutex
}

func NewCollection[T any](name string, backend Backend) *Collection[T] {
	return &Collection[T]{name: name, backend: backend}
}

func (c *Collection[T]) Name() string { return c.name }

// Load returns the current contents. A collection that was never written
// loads as an empty, non-nil slice.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Save overwrites the document with items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, items)
}

// Update runs fn on the current contents and saves what it returns, all
// under the collection lock. If fn fails nothing is written.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) (err error) {
	ctx, span := tracer.Start(ctx, "store.Update")
	span.SetAttributes(attribute.String("store.collection", c.name))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(items)
	if err != nil {
		return err
	}
	return c.save(ctx, updated)
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	raw, err := c.backend.Read(ctx, c.name)
	if err != nil {
		return nil, &IOError{Collection: c.name, Op: "read", Err: err}
	}

	items := []T{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &IOError{Collection: c.name, Op: "decode", Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.MarshalIndent(items, "", "    ")
	if err != nil {
		return &IOError{Collection: c.name, Op: "encode", Err: err}
	}
	if err := c.backend.Write(ctx, c.name, raw); err != nil {
		return &IOError{Collection: c.name, Op: "write", Err: err}
	}
	return nil
}
