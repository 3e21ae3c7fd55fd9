package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/serviceerrors"
)

func sequentialIDs() func() domain.ID {
	var n int
	return func() domain.ID {
		n++
		return domain.ID(fmt.Sprintf("p%d", n))
	}
}

func TestProductStore_InsertAndGet(t *testing.T) {
	s := NewProductStore(sequentialIDs())

	created, err := s.Insert(domain.NewProduct("Tea", "Black tea", "Beverage", 1550, 20))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.ID != "p1" {
		t.Fatalf("expected generated id p1, got %q", created.ID)
	}

	found, err := s.Get("p1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found.Name != "Tea" || found.Quantity != 20 {
		t.Fatalf("unexpected product: %+v", found)
	}

	_, err = s.Get("missing")
	if !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func TestProductStore_InsertDuplicate(t *testing.T) {
	s := NewProductStore(nil)

	if _, err := s.Insert(&domain.Product{ID: "same", Name: "A"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, err := s.Insert(&domain.Product{ID: "same", Name: "B"})
	if !serviceerrors.IsOfKind(err, serviceerrors.KindConflict) {
		t.Fatalf("expected KindConflict, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 product, got %d", s.Len())
	}
}

func TestProductStore_ListPreservesInsertionOrder(t *testing.T) {
	s := NewProductStore(sequentialIDs())
	for _, name := range []string{"Tea", "Coffee", "Scone"} {
		if _, err := s.Insert(domain.NewProduct(name, "", "Cafe", 100, 1)); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
	}
	if _, err := s.Remove("p2"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Insert(domain.NewProduct("Muffin", "", "Cafe", 100, 1)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var names []string
	for _, p := range s.List() {
		names = append(names, p.Name)
	}
	want := []string{"Tea", "Scone", "Muffin"}
	if fmt.Sprint(names) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestProductStore_ReadsAreSnapshots(t *testing.T) {
	s := NewProductStore(sequentialIDs())
	_, _ = s.Insert(domain.NewProduct("Tea", "", "Beverage", 100, 10))

	listed := s.List()
	listed[0].Quantity = 999

	got, _ := s.Get("p1")
	if got.Quantity != 10 {
		t.Fatalf("mutating a listed product leaked into the store: %d", got.Quantity)
	}

	again := s.List()
	if len(again) != 1 || again[0].Quantity != 10 || again[0].Name != "Tea" {
		t.Fatalf("repeated list returned different data: %+v", again[0])
	}
}

func TestProductStore_Update(t *testing.T) {
	s := NewProductStore(sequentialIDs())
	_, _ = s.Insert(domain.NewProduct("Tea", "", "Beverage", 100, 10))

	t.Run("applies mutation", func(t *testing.T) {
		updated, err := s.Update("p1", func(p *domain.Product) error {
			p.Restock(5)
			return nil
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if updated.Quantity != 15 || updated.TotalStocked != 15 {
			t.Fatalf("unexpected product: %+v", updated)
		}
	})

	t.Run("failed mutation leaves product untouched", func(t *testing.T) {
		_, err := s.Update("p1", func(p *domain.Product) error {
			p.Quantity = 0
			return errors.New("rejected")
		})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		got, _ := s.Get("p1")
		if got.Quantity != 15 {
			t.Fatalf("expected quantity 15, got %d", got.Quantity)
		}
	})

	t.Run("mutation cannot change the id", func(t *testing.T) {
		updated, _ := s.Update("p1", func(p *domain.Product) error {
			p.ID = "other"
			return nil
		})
		if updated.ID != "p1" {
			t.Fatalf("expected id p1, got %q", updated.ID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.Update("missing", func(*domain.Product) error { return nil })
		if !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			t.Fatalf("expected KindNotFound, got %v", err)
		}
	})
}

func TestProductStore_Remove(t *testing.T) {
	s := NewProductStore(sequentialIDs())
	_, _ = s.Insert(domain.NewProduct("Tea", "", "Beverage", 100, 7))

	removed, err := s.Remove("p1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if removed.Quantity != 7 {
		t.Fatalf("expected removed quantity 7, got %d", removed.Quantity)
	}
	if _, err := s.Remove("p1"); !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
		t.Fatalf("expected KindNotFound on second remove, got %v", err)
	}
}

func TestProductStore_SnapshotRestore(t *testing.T) {
	s := NewProductStore(sequentialIDs())
	_, _ = s.Insert(domain.NewProduct("Tea", "", "Beverage", 100, 7))
	_, _ = s.Insert(domain.NewProduct("Coffee", "", "Beverage", 100, 3))

	snapshot := s.Snapshot()
	_, _ = s.Remove("p1")
	_, _ = s.Update("p2", func(p *domain.Product) error { p.Quantity = 0; return nil })

	s.Restore(snapshot)

	products := s.List()
	if len(products) != 2 || products[0].ID != "p1" || products[1].Quantity != 3 {
		t.Fatalf("restore did not bring back the previous state: %+v", products)
	}
}

func TestProductStore_Load(t *testing.T) {
	s := NewProductStore(nil)
	err := s.Load([]*domain.Product{{ID: "a"}, {ID: "a"}})
	if !serviceerrors.IsOfKind(err, serviceerrors.KindConflict) {
		t.Fatalf("expected KindConflict for duplicate ids, got %v", err)
	}
}

func TestProductStore_ConcurrentUpdates(t *testing.T) {
	s := NewProductStore(sequentialIDs())
	_, _ = s.Insert(domain.NewProduct("Tea", "", "Beverage", 100, 0))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update("p1", func(p *domain.Product) error {
				p.Restock(1)
				return nil
			})
			_ = s.List()
		}()
	}
	wg.Wait()

	got, _ := s.Get("p1")
	if got.Quantity != 100 || got.TotalStocked != 100 {
		t.Fatalf("expected 100 units after concurrent restocks, got %+v", got)
	}
}
