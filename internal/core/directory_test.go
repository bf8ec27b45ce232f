package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/okulova/allocation-engine/internal/adapter/in_memory"
	"github.com/okulova/allocation-engine/internal/domain"
)

func TestDirectoryRoutesByIndex(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory(in_memory.NewJournal(), in_memory.NewCache())

	a := d.CreateBook(domain.NewInstrument("A"))
	b := d.CreateBook(domain.NewInstrument("B"))
	if a != 0 || b != 1 {
		t.Fatalf("indices = %d, %d; want 0, 1", a, b)
	}
	if d.Count() != 2 {
		t.Fatalf("count = %d, want 2", d.Count())
	}

	if err := d.OpenBook(ctx, a); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := d.AddOrder(ctx, a, mustMarket(t, 10)); err != nil {
		t.Fatalf("add order: %v", err)
	}
	// book B stays closed, so the same call is rejected there
	err := d.AddOrder(ctx, b, mustMarket(t, 10))
	if rejectionCode(t, err) != domain.RejectOrderOnClosedBook {
		t.Fatalf("wrong code for closed book")
	}

	if err := d.OpenBook(ctx, 42); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("unknown index: %v", err)
	}
	if err := d.OpenBook(ctx, -1); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("negative index: %v", err)
	}
}

func TestDirectoryFindOrderAcrossBooks(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory(nil, nil)

	first := d.CreateBook(domain.NewInstrument("A"))
	second := d.CreateBook(domain.NewInstrument("B"))
	for _, id := range []int{first, second} {
		if err := d.OpenBook(ctx, id); err != nil {
			t.Fatalf("open: %v", err)
		}
	}
	o := mustMarket(t, 10)
	if err := d.AddOrder(ctx, second, o); err != nil {
		t.Fatalf("add order: %v", err)
	}

	report, err := d.FindOrder(o.ID)
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if report.OrderID != o.ID {
		t.Fatalf("found wrong order: %s", report.OrderID)
	}

	if _, err := d.FindOrder("missing"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("unknown order: %v", err)
	}
}

func TestDirectoryJournalsAllocations(t *testing.T) {
	ctx := context.Background()
	journal := in_memory.NewJournal()
	d := NewDirectory(journal, in_memory.NewCache())

	id := d.CreateBook(domain.NewInstrument("A"))
	if err := d.OpenBook(ctx, id); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := d.AddOrder(ctx, id, mustMarket(t, 10)); err != nil {
		t.Fatalf("add order: %v", err)
	}
	if err := d.CloseBook(ctx, id); err != nil {
		t.Fatalf("close: %v", err)
	}
	if journal.OrderCount(id) != 1 {
		t.Fatalf("order not journaled")
	}

	// offer == valid demand: auto-processing must journal allocations
	if err := d.AddExecution(ctx, id, mustExecution(t, 10, 20)); err != nil {
		t.Fatalf("add execution: %v", err)
	}
	allocs := journal.Allocations(id)
	if len(allocs) != 1 {
		t.Fatalf("allocations journaled = %d, want 1", len(allocs))
	}
	if allocs[0].SatisfiedQuantity != 10 {
		t.Fatalf("journaled satisfied = %d, want 10", allocs[0].SatisfiedQuantity)
	}
}

func TestDirectorySnapshotServedFromCache(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory(nil, in_memory.NewCache())

	id := d.CreateBook(domain.NewInstrument("A"))
	if err := d.OpenBook(ctx, id); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := d.AddOrder(ctx, id, mustMarket(t, 5)); err != nil {
		t.Fatalf("add order: %v", err)
	}

	snap, err := d.Snapshot(ctx, id)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.BookID != id || len(snap.Orders) != 1 || !snap.Open {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if _, err := d.Snapshot(ctx, 99); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("unknown book: %v", err)
	}
}

func TestDirectoryParallelBooksDoNotInterfere(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory(nil, nil)

	const books = 4
	const ordersPerBook = 50
	for i := 0; i < books; i++ {
		id := d.CreateBook(domain.NewInstrument("P"))
		if err := d.OpenBook(ctx, id); err != nil {
			t.Fatalf("open: %v", err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < books; i++ {
		wg.Add(1)
		go func(bookID int) {
			defer wg.Done()
			for j := 0; j < ordersPerBook; j++ {
				o, err := domain.NewMarketOrder(1)
				if err != nil {
					t.Errorf("market order: %v", err)
					return
				}
				if err := d.AddOrder(ctx, bookID, o); err != nil {
					t.Errorf("book %d: %v", bookID, err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < books; i++ {
		stats, err := d.Statistics(i)
		if err != nil {
			t.Fatalf("statistics: %v", err)
		}
		if stats.TotalOrders != ordersPerBook {
			t.Errorf("book %d: %d orders, want %d", i, stats.TotalOrders, ordersPerBook)
		}
	}
}

func TestDirectorySeed(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory(in_memory.NewJournal(), in_memory.NewCache())
	if err := d.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if d.Count() != 6 {
		t.Fatalf("seeded %d books, want 6", d.Count())
	}

	books := d.Books()
	if !books[0].Open || len(books[0].Orders) != 4 {
		t.Errorf("book A should be open with 4 orders")
	}
	if books[3].Open || books[3].OpenedOnce || len(books[3].Orders) != 0 {
		t.Errorf("book D should be untouched")
	}
	if books[4].Processed {
		t.Errorf("book E must wait for a manual process trigger")
	}
	// book F: offer 42 equals the valid demand, so it auto-processed
	stats, err := d.Statistics(5)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if !stats.Processed {
		t.Errorf("book F should be auto-processed")
	}
	if stats.TotalExecutionOffer != 42 {
		t.Errorf("book F offer = %d, want 42", stats.TotalExecutionOffer)
	}
}
