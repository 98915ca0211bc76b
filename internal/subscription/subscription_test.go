package subscription

import (
	"context"
	"errors"
	"testing"

	"server/internal/domain"
)

func TestCatalog(t *testing.T) {
	if len(Catalog) != 4 {
		t.Fatalf("catalog size = %d, want 4", len(Catalog))
	}
	if Catalog[0].Name != PlanStarter || Catalog[0].ImageLimit != 10 || Catalog[0].VideoLimit != 3 {
		t.Errorf("starter plan = %+v", Catalog[0])
	}

	pro, ok := PlanByName(PlanPro)
	if !ok {
		t.Fatal("Pro Plan missing from catalog")
	}
	if !pro.Highlight || pro.HighlightText != "Most Popular" {
		t.Errorf("pro highlight = %v %q", pro.Highlight, pro.HighlightText)
	}
	if pro.ImageLimit != 50 || pro.VideoLimit != 10 {
		t.Errorf("pro limits = %d/%d", pro.ImageLimit, pro.VideoLimit)
	}

	if _, ok := PlanByName("Ultimate Plan"); ok {
		t.Error("unknown plan resolved")
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, "u1"); !errors.Is(err, domain.ErrNoSubscription) {
		t.Fatalf("Get before SetPlan = %v, want ErrNoSubscription", err)
	}

	if err := store.SetPlan(ctx, "u1", StarterPlan()); err != nil {
		t.Fatalf("SetPlan: %v", err)
	}

	sub, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sub.Plan.Name != PlanStarter || sub.ImageCount != 0 || sub.VideoCount != 0 {
		t.Errorf("fresh sub = %+v", sub)
	}

	for i := 0; i < 3; i++ {
		if err := store.IncrementUsage(ctx, "u1", domain.KindTextToImage); err != nil {
			t.Fatalf("IncrementUsage: %v", err)
		}
	}
	if err := store.IncrementUsage(ctx, "u1", domain.KindVeoVideo); err != nil {
		t.Fatalf("IncrementUsage video: %v", err)
	}

	sub, _ = store.Get(ctx, "u1")
	if sub.ImageCount != 3 || sub.VideoCount != 1 {
		t.Errorf("usage = %d/%d, want 3/1", sub.ImageCount, sub.VideoCount)
	}
	if sub.Remaining(domain.KindTextToImage) != 7 {
		t.Errorf("remaining images = %d, want 7", sub.Remaining(domain.KindTextToImage))
	}

	// Plan change resets the counters.
	pro, _ := PlanByName(PlanPro)
	if err := store.SetPlan(ctx, "u1", pro); err != nil {
		t.Fatalf("SetPlan pro: %v", err)
	}
	sub, _ = store.Get(ctx, "u1")
	if sub.ImageCount != 0 || sub.VideoCount != 0 {
		t.Errorf("counters after upgrade = %d/%d, want 0/0", sub.ImageCount, sub.VideoCount)
	}
	if sub.Plan.Name != PlanPro {
		t.Errorf("plan after upgrade = %q", sub.Plan.Name)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.SetPlan(ctx, "u1", StarterPlan())

	sub, _ := store.Get(ctx, "u1")
	sub.ImageCount = 99

	again, _ := store.Get(ctx, "u1")
	if again.ImageCount != 0 {
		t.Error("Get leaked internal state")
	}
}

func TestIncrementUnknownUser(t *testing.T) {
	store := NewMemoryStore()
	err := store.IncrementUsage(context.Background(), "ghost", domain.KindTextToImage)
	if !errors.Is(err, domain.ErrNoSubscription) {
		t.Errorf("err = %v, want ErrNoSubscription", err)
	}
}
