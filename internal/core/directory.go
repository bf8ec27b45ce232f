package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okulova/allocation-engine/internal/domain"
	"github.com/okulova/allocation-engine/internal/port"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrOrderNotFound = errors.New("order not found")
)

// Directory owns the collection of order books and routes operations to
// one by index. It holds no matching logic: every mutation goes through
// the book itself. Each book carries its own lock, so operations on
// different books proceed in parallel while operations on one book are
// serialized.
type Directory struct {
	journal port.Journal
	cache   port.Cache

	mu    sync.RWMutex
	books []*bookEntry
}

type bookEntry struct {
	mu   sync.Mutex
	book *OrderBook
}

func NewDirectory(journal port.Journal, cache port.Cache) *Directory {
	return &Directory{journal: journal, cache: cache}
}

// CreateBook registers a closed, unopened, unprocessed book and returns
// its index. Indices are stable for the lifetime of the directory.
func (d *Directory) CreateBook(instrument domain.Instrument) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.books = append(d.books, &bookEntry{book: NewOrderBook(instrument)})
	return len(d.books) - 1
}

func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.books)
}

func (d *Directory) entry(bookID int) (*bookEntry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if bookID < 0 || bookID >= len(d.books) {
		return nil, ErrBookNotFound
	}
	return d.books[bookID], nil
}

func (d *Directory) OpenBook(ctx context.Context, bookID int) error {
	ent, err := d.entry(bookID)
	if err != nil {
		return err
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	if err := ent.book.Open(); err != nil {
		return err
	}
	d.refreshCache(ctx, bookID, ent.book)
	return nil
}

func (d *Directory) CloseBook(ctx context.Context, bookID int) error {
	ent, err := d.entry(bookID)
	if err != nil {
		return err
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	if err := ent.book.Close(); err != nil {
		return err
	}
	d.refreshCache(ctx, bookID, ent.book)
	return nil
}

func (d *Directory) AddOrder(ctx context.Context, bookID int, o *domain.Order) error {
	ent, err := d.entry(bookID)
	if err != nil {
		return err
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	if err := ent.book.AddOrder(o); err != nil {
		return err
	}
	if d.journal != nil {
		_ = d.journal.RecordOrder(ctx, bookID, o)
	}
	d.refreshCache(ctx, bookID, ent.book)
	return nil
}

func (d *Directory) AddExecution(ctx context.Context, bookID int, e *domain.Execution) error {
	ent, err := d.entry(bookID)
	if err != nil {
		return err
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	wasProcessed := ent.book.Processed()
	if err := ent.book.AddExecution(e); err != nil {
		return err
	}
	if d.journal != nil {
		_ = d.journal.RecordExecution(ctx, bookID, e)
		// the execution may have tipped the book into auto-processing
		if !wasProcessed && ent.book.Processed() {
			_ = d.journal.RecordAllocations(ctx, bookID, ent.book.Orders())
		}
	}
	d.refreshCache(ctx, bookID, ent.book)
	return nil
}

func (d *Directory) ProcessBook(ctx context.Context, bookID int) error {
	ent, err := d.entry(bookID)
	if err != nil {
		return err
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	if err := ent.book.ProcessExecutions(); err != nil {
		return err
	}
	if d.journal != nil {
		_ = d.journal.RecordAllocations(ctx, bookID, ent.book.Orders())
	}
	d.refreshCache(ctx, bookID, ent.book)
	return nil
}

func (d *Directory) Statistics(bookID int) (BookStatistics, error) {
	ent, err := d.entry(bookID)
	if err != nil {
		return BookStatistics{}, err
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	return ent.book.Statistics(), nil
}

// Snapshot returns the read model of one book, serving from the cache
// when it can.
func (d *Directory) Snapshot(ctx context.Context, bookID int) (*domain.BookSnapshot, error) {
	ent, err := d.entry(bookID)
	if err != nil {
		return nil, err
	}
	if d.cache != nil {
		if snap, err := d.cache.GetBook(ctx, bookID); err == nil && snap != nil {
			return snap, nil
		}
	}
	ent.mu.Lock()
	defer ent.mu.Unlock()
	snap := d.snapshotLocked(bookID, ent.book)
	if d.cache != nil {
		_ = d.cache.SetBook(ctx, bookID, snap)
	}
	return snap, nil
}

// Books lists every book's snapshot in index order.
func (d *Directory) Books() []domain.BookSnapshot {
	d.mu.RLock()
	entries := make([]*bookEntry, len(d.books))
	copy(entries, d.books)
	d.mu.RUnlock()

	out := make([]domain.BookSnapshot, len(entries))
	for i, ent := range entries {
		ent.mu.Lock()
		out[i] = *d.snapshotLocked(i, ent.book)
		ent.mu.Unlock()
	}
	return out
}

// FindOrder scans every book for the order id and returns its report
// (the per-order statistics view).
func (d *Directory) FindOrder(orderID string) (OrderReport, error) {
	d.mu.RLock()
	entries := make([]*bookEntry, len(d.books))
	copy(entries, d.books)
	d.mu.RUnlock()

	for _, ent := range entries {
		ent.mu.Lock()
		report, ok := ent.book.ReportFor(orderID)
		ent.mu.Unlock()
		if ok {
			return report, nil
		}
	}
	return OrderReport{}, ErrOrderNotFound
}

func (d *Directory) snapshotLocked(bookID int, b *OrderBook) *domain.BookSnapshot {
	snap := b.Snapshot()
	snap.BookID = bookID
	snap.Timestamp = time.Now()
	return snap
}

func (d *Directory) refreshCache(ctx context.Context, bookID int, b *OrderBook) {
	if d.cache == nil {
		return
	}
	_ = d.cache.SetBook(ctx, bookID, d.snapshotLocked(bookID, b))
}

// Seed fills the directory with a handful of demonstration books in
// every lifecycle state: open with orders, empty and closed, closed
// with a pending execution, and auto-processed.
func (d *Directory) Seed(ctx context.Context) error {
	type seedOrder struct {
		kind  domain.OrderKind
		qty   int64
		price int64
	}
	type seedBook struct {
		name      string
		close     bool
		orders    []seedOrder
		execQty   int64
		execPrice int64
	}

	books := []seedBook{
		{name: "A", orders: []seedOrder{
			{domain.Market, 20, 0}, {domain.Market, 15, 0},
			{domain.Limit, 50, 20}, {domain.Limit, 30, 10},
		}},
		{name: "B", orders: []seedOrder{{domain.Limit, 40, 10}, {domain.Limit, 20, 5}}},
		{name: "C", orders: []seedOrder{{domain.Market, 25, 0}, {domain.Market, 10, 0}}},
		{name: "D"}, // stays closed and empty
		{name: "E", close: true, orders: []seedOrder{
			{domain.Market, 12, 0}, {domain.Market, 15, 0},
			{domain.Limit, 2, 25}, {domain.Limit, 2, 15},
		}, execQty: 10, execPrice: 20},
		// total demand equals the offer here, so the book processes
		// itself the moment the execution lands
		{name: "F", close: true, orders: []seedOrder{
			{domain.Market, 16, 0}, {domain.Market, 16, 0},
			{domain.Limit, 10, 26},
		}, execQty: 42, execPrice: 20},
	}

	for _, sb := range books {
		id := d.CreateBook(domain.NewInstrument(sb.name))
		if len(sb.orders) == 0 && !sb.close {
			continue
		}
		if err := d.OpenBook(ctx, id); err != nil {
			return err
		}
		for _, so := range sb.orders {
			var (
				o   *domain.Order
				err error
			)
			if so.kind == domain.Market {
				o, err = domain.NewMarketOrder(so.qty)
			} else {
				o, err = domain.NewLimitOrder(so.qty, decimal.NewFromInt(so.price))
			}
			if err != nil {
				return err
			}
			if err := d.AddOrder(ctx, id, o); err != nil {
				return err
			}
		}
		if !sb.close {
			continue
		}
		if err := d.CloseBook(ctx, id); err != nil {
			return err
		}
		if sb.execQty > 0 {
			e, err := domain.NewExecution(sb.execQty, decimal.NewFromInt(sb.execPrice))
			if err != nil {
				return err
			}
			if err := d.AddExecution(ctx, id, e); err != nil {
				return err
			}
		}
	}
	return nil
}
