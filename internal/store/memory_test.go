package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/icz3us/medical-inv-v2/domain"
)

func newItem(id string, createdAt time.Time) domain.InventoryItem {
	return domain.InventoryItem{
		ID:           id,
		Name:         "Gauze",
		Description:  "Sterile gauze pads",
		Category:     domain.CategorySupplies,
		Quantity:     100,
		Unit:         "boxes",
		CostPerUnit:  decimal.NewFromFloat(2.50),
		MinThreshold: 20,
		Supplier:     "MedCo",
		CreatedAt:    createdAt,
	}
}

func TestMemoryItemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryItemStore()

	item := newItem("ITEMAAAA0001", time.Now().UTC())
	created, err := s.Create(ctx, item)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != item.ID {
		t.Errorf("expected echoed id %s, got %s", item.ID, created.ID)
	}

	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	got := items[0]
	if got.Name != item.Name || got.Quantity != item.Quantity || got.MinThreshold != item.MinThreshold {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if !got.CostPerUnit.Equal(item.CostPerUnit) {
		t.Errorf("expected cost %s, got %s", item.CostPerUnit, got.CostPerUnit)
	}
}

func TestMemoryItemStoreListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryItemStore()

	base := time.Now().UTC()
	for i, id := range []string{"ITEMAAAA0001", "ITEMAAAA0002", "ITEMAAAA0003"} {
		item := newItem(id, base.Add(time.Duration(i)*time.Minute))
		if _, err := s.Create(ctx, item); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	items, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if items[0].ID != "ITEMAAAA0003" || items[2].ID != "ITEMAAAA0001" {
		t.Errorf("expected newest-first ordering, got %s, %s, %s", items[0].ID, items[1].ID, items[2].ID)
	}
}

func TestMemoryItemStoreUpdateMergesPartialFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryItemStore()

	item := newItem("ITEMAAAA0001", time.Now().UTC())
	if _, err := s.Create(ctx, item); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	quantity := int64(40)
	category := "Surgical"
	updated, err := s.Update(ctx, item.ID, ItemUpdate{Quantity: &quantity, Category: &category})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Quantity != 40 {
		t.Errorf("expected quantity 40, got %d", updated.Quantity)
	}
	if updated.Category != domain.CategorySurgical {
		t.Errorf("expected normalized category surgical, got %s", updated.Category)
	}
	// Untouched fields survive the merge.
	if updated.Name != item.Name || updated.MinThreshold != item.MinThreshold {
		t.Errorf("merge clobbered untouched fields: %+v", updated)
	}
}

func TestMemoryItemStoreUpdateUnknownID(t *testing.T) {
	s := NewMemoryItemStore()
	quantity := int64(1)
	_, err := s.Update(context.Background(), "ITEMMISSING1", ItemUpdate{Quantity: &quantity})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryItemStoreDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryItemStore()

	item := newItem("ITEMAAAA0001", time.Now().UTC())
	if _, err := s.Create(ctx, item); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	// Deleting an already-deleted id is not an error.
	if err := s.Delete(ctx, item.ID); err != nil {
		t.Errorf("second Delete returned error: %v", err)
	}

	items, _ := s.List(ctx)
	if len(items) != 0 {
		t.Errorf("expected empty list after delete, got %d items", len(items))
	}
}

func newRequest(id string, date time.Time) domain.Request {
	return domain.Request{
		ID:                id,
		ItemID:            "ITEMAAAA0001",
		RequesterID:       "PHARM001",
		QuantityRequested: 10,
		Status:            domain.StatusPending,
		RequestDate:       date,
		Department:        "Emergency",
		Reason:            "Restocking ward supplies",
	}
}

func TestMemoryRequestStoreApproveStampsDate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryRequestStore()

	if _, err := s.Create(ctx, newRequest("REQAAAA00001", time.Now().UTC())); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	approved, err := s.SetStatus(ctx, "REQAAAA00001", domain.StatusApproved)
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if approved.Status != domain.StatusApproved {
		t.Errorf("expected status approved, got %s", approved.Status)
	}
	if approved.ApprovedDate == nil {
		t.Error("expected approved_date to be stamped")
	}
}

func TestMemoryRequestStoreRejectDoesNotStampDate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryRequestStore()

	if _, err := s.Create(ctx, newRequest("REQAAAA00001", time.Now().UTC())); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rejected, err := s.SetStatus(ctx, "REQAAAA00001", domain.StatusRejected)
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if rejected.Status != domain.StatusRejected {
		t.Errorf("expected status rejected, got %s", rejected.Status)
	}
	if rejected.ApprovedDate != nil {
		t.Error("reject must not stamp approved_date")
	}
}

func TestMemoryRequestStoreTerminalStateIsImmutable(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryRequestStore()

	if _, err := s.Create(ctx, newRequest("REQAAAA00001", time.Now().UTC())); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	approved, err := s.SetStatus(ctx, "REQAAAA00001", domain.StatusApproved)
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	// A second decision must not change the status or the stamp.
	again, err := s.SetStatus(ctx, "REQAAAA00001", domain.StatusRejected)
	if !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
	if again.Status != domain.StatusApproved {
		t.Errorf("terminal status changed to %s", again.Status)
	}
	if again.ApprovedDate == nil || !again.ApprovedDate.Equal(*approved.ApprovedDate) {
		t.Error("approved_date changed on second decision")
	}
}

func TestMemoryRequestStoreSetStatusUnknownID(t *testing.T) {
	s := NewMemoryRequestStore()
	_, err := s.SetStatus(context.Background(), "REQMISSING01", domain.StatusApproved)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRequestStoreListByRequester(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryRequestStore()

	base := time.Now().UTC()
	first := newRequest("REQAAAA00001", base)
	second := newRequest("REQAAAA00002", base.Add(time.Minute))
	other := newRequest("REQAAAA00003", base.Add(2*time.Minute))
	other.RequesterID = "PHARM002"
	for _, request := range []domain.Request{first, second, other} {
		if _, err := s.Create(ctx, request); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	mine, err := s.ListByRequester(ctx, "PHARM001")
	if err != nil {
		t.Fatalf("ListByRequester failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(mine))
	}
	if mine[0].ID != "REQAAAA00002" {
		t.Errorf("expected newest-first ordering, got %s first", mine[0].ID)
	}
}

func TestApprovalDoesNotTouchItemQuantity(t *testing.T) {
	// Approving a request never decrements stock; the two collections are
	// reconciled manually outside this system.
	ctx := context.Background()
	stores := NewMemoryStores()

	item := newItem("ITEMAAAA0001", time.Now().UTC())
	if _, err := stores.Items.Create(ctx, item); err != nil {
		t.Fatalf("Create item failed: %v", err)
	}
	if _, err := stores.Requests.Create(ctx, newRequest("REQAAAA00001", time.Now().UTC())); err != nil {
		t.Fatalf("Create request failed: %v", err)
	}

	if _, err := stores.Requests.SetStatus(ctx, "REQAAAA00001", domain.StatusApproved); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	got, err := stores.Items.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("Get item failed: %v", err)
	}
	if got.Quantity != item.Quantity {
		t.Errorf("approval changed item quantity from %d to %d", item.Quantity, got.Quantity)
	}
}

func TestMemoryUserStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore(domain.DefaultStaff())

	user, err := s.Get(ctx, "PHARM001")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if user.Role != domain.RolePharmacist {
		t.Errorf("expected pharmacist role, got %s", user.Role)
	}

	if _, err := s.Get(ctx, "NOBODY"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	users, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 9 {
		t.Errorf("expected 9 staff members, got %d", len(users))
	}
}
