package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"server/internal/domain"
)

func item(id string) domain.HistoryItem {
	return domain.HistoryItem{
		ID:        id,
		Type:      domain.KindTextToImage,
		Prompt:    "prompt " + id,
		Outputs:   []string{"data:image/jpeg;base64,aaaa"},
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryStoreNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 1; i <= 3; i++ {
		if err := store.Append(ctx, "u1", item(fmt.Sprintf("h%d", i))); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	items, err := store.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	for i, want := range []string{"h3", "h2", "h1"} {
		if items[i].ID != want {
			t.Errorf("items[%d].ID = %q, want %q", i, items[i].ID, want)
		}
	}
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 1; i <= domain.HistoryLimit+5; i++ {
		if err := store.Append(ctx, "u1", item(fmt.Sprintf("h%d", i))); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	items, _ := store.List(ctx, "u1")
	if len(items) != domain.HistoryLimit {
		t.Fatalf("len = %d, want %d", len(items), domain.HistoryLimit)
	}
	if items[0].ID != fmt.Sprintf("h%d", domain.HistoryLimit+5) {
		t.Errorf("newest = %q", items[0].ID)
	}
	if items[len(items)-1].ID != "h6" {
		t.Errorf("oldest surviving = %q, want h6", items[len(items)-1].ID)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Append(ctx, "u1", item("h1"))
	store.Append(ctx, "u1", item("h2"))

	if err := store.Delete(ctx, "u1", "h1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	items, _ := store.List(ctx, "u1")
	if len(items) != 1 || items[0].ID != "h2" {
		t.Errorf("items after delete = %+v", items)
	}

	if err := store.Delete(ctx, "u1", "h1"); !errors.Is(err, domain.ErrHistoryItemNotFound) {
		t.Errorf("Delete missing = %v, want ErrHistoryItemNotFound", err)
	}
	if err := store.Delete(ctx, "u2", "h2"); !errors.Is(err, domain.ErrHistoryItemNotFound) {
		t.Errorf("Delete for other user = %v, want ErrHistoryItemNotFound", err)
	}
}

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Append(ctx, "u1", item("h1"))
	store.Append(ctx, "u2", item("h2"))

	if err := store.Clear(ctx, "u1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	items, _ := store.List(ctx, "u1")
	if len(items) != 0 {
		t.Errorf("u1 items after clear = %d", len(items))
	}
	items, _ = store.List(ctx, "u2")
	if len(items) != 1 {
		t.Errorf("u2 items = %d, want 1", len(items))
	}
}
