// Package storetest holds the behavior every store.Store must share.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// Run exercises a fresh, empty store returned by open.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty list", func(t *testing.T) {
		s := open(t)
		items, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if items == nil || len(items) != 0 {
			t.Errorf("List = %#v, want empty non-nil slice", items)
		}
	})

	t.Run("create assigns ids and list keeps order", func(t *testing.T) {
		s := open(t)
		a, err := s.Create(ctx, model.Item{ItemID: 99, ItemName: "Buy milk", DueDate: "09/01/24", ItemImportance: 2})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		b, err := s.Create(ctx, model.Item{ItemName: "Call mom", DueDate: "09/02/24", ItemImportance: 1})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if a.ItemID == 0 || b.ItemID == 0 || a.ItemID == b.ItemID {
			t.Fatalf("ids not assigned uniquely: %d %d", a.ItemID, b.ItemID)
		}
		if a.ItemID == 99 {
			t.Error("store accepted a client-supplied id")
		}
		items, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 2 || items[0] != a || items[1] != b {
			t.Errorf("List = %+v, want [%+v %+v]", items, a, b)
		}
	})

	t.Run("get and update", func(t *testing.T) {
		s := open(t)
		created, err := s.Create(ctx, model.Item{ItemName: "X", DueDate: "01/01/25", ItemImportance: 1})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := s.Get(ctx, created.ItemID)
		if err != nil || got != created {
			t.Fatalf("Get = %+v, %v; want %+v", got, err, created)
		}

		updated, err := s.Update(ctx, created.ItemID, model.Item{ItemID: 1234, ItemName: "Y", DueDate: "02/02/25", ItemImportance: 5})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		want := model.Item{ItemID: created.ItemID, ItemName: "Y", DueDate: "02/02/25", ItemImportance: 5}
		if updated != want {
			t.Errorf("Update = %+v, want %+v", updated, want)
		}
		got, err = s.Get(ctx, created.ItemID)
		if err != nil || got != want {
			t.Errorf("Get after update = %+v, %v; want %+v", got, err, want)
		}
	})

	t.Run("update with same values", func(t *testing.T) {
		s := open(t)
		created, err := s.Create(ctx, model.Item{ItemName: "Same"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := s.Update(ctx, created.ItemID, created); err != nil {
			t.Fatalf("no-op update failed: %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t)
		created, err := s.Create(ctx, model.Item{ItemName: "Finish me"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := s.Delete(ctx, created.ItemID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Get(ctx, created.ItemID); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get after delete err = %v, want ErrNotFound", err)
		}
	})

	t.Run("missing ids", func(t *testing.T) {
		s := open(t)
		if _, err := s.Get(ctx, 404); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get err = %v", err)
		}
		if _, err := s.Update(ctx, 404, model.Item{ItemName: "ghost"}); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Update err = %v", err)
		}
		if err := s.Delete(ctx, 404); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Delete err = %v", err)
		}
	})
}
