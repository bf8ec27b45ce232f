package in_memory

import (
	"context"
	"sync"

	"github.com/okulova/allocation-engine/internal/domain"
	"github.com/okulova/allocation-engine/internal/port"
)

var _ port.Cache = (*Cache)(nil)

type Cache struct {
	mu    sync.Mutex
	store map[int]*domain.BookSnapshot
}

func NewCache() *Cache {
	return &Cache{store: make(map[int]*domain.BookSnapshot)}
}

func (c *Cache) SetBook(ctx context.Context, bookID int, snap *domain.BookSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *snap
	c.store[bookID] = &cp
	return nil
}

func (c *Cache) GetBook(ctx context.Context, bookID int) (*domain.BookSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.store[bookID]
	if !ok {
		return nil, nil
	}
	cp := *snap
	return &cp, nil
}
