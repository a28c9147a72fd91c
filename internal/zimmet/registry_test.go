package zimmet

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestCreateItemDuplicateAssetTag(t *testing.T) {
	orm := newTestDB(t)
	registry, _ := NewRegistry(orm)
	ctx := context.Background()

	tag := "INV-001"
	if _, err := registry.CreateItem(ctx, ItemParams{Name: "First", AssetTag: &tag}); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	_, err := registry.CreateItem(ctx, ItemParams{Name: "Second", AssetTag: &tag})
	if KindOf(err) != KindDuplicateKey {
		t.Fatalf("expected duplicate_key error, got %v", err)
	}
	var ze *Error
	if !errors.As(err, &ze) || ze.Field != "asset_tag" {
		t.Errorf("error should name asset_tag, got %+v", ze)
	}
}

func TestCreateItemDuplicateSerial(t *testing.T) {
	orm := newTestDB(t)
	registry, _ := NewRegistry(orm)
	ctx := context.Background()

	serial := "SN-42"
	if _, err := registry.CreateItem(ctx, ItemParams{Name: "First", SerialNo: &serial}); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	_, err := registry.CreateItem(ctx, ItemParams{Name: "Second", SerialNo: &serial})
	if KindOf(err) != KindDuplicateKey {
		t.Fatalf("expected duplicate_key error, got %v", err)
	}
	var ze *Error
	if !errors.As(err, &ze) || ze.Field != "serial_no" {
		t.Errorf("error should name serial_no, got %+v", ze)
	}
}

func TestCreateItemEmptyOptionalFieldsDoNotCollide(t *testing.T) {
	orm := newTestDB(t)
	registry, _ := NewRegistry(orm)
	ctx := context.Background()

	empty := ""
	if _, err := registry.CreateItem(ctx, ItemParams{Name: "First", AssetTag: &empty}); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if _, err := registry.CreateItem(ctx, ItemParams{Name: "Second", AssetTag: &empty}); err != nil {
		t.Fatalf("second item with empty tag: %v", err)
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	orm := newTestDB(t)
	registry, _ := NewRegistry(orm)

	name := "x"
	_, err := registry.UpdateItem(context.Background(), uuid.New(), ItemUpdate{Name: &name})
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found error, got %v", err)
	}
}

func TestUpdateItemClearsFields(t *testing.T) {
	orm := newTestDB(t)
	registry, _ := NewRegistry(orm)
	ctx := context.Background()

	tag := "TAG-1"
	item, err := registry.CreateItem(ctx, ItemParams{
		Name:     "Laptop",
		Brand:    "Lenovo",
		AssetTag: &tag,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	// Explicit empty strings clear, omitted fields stay.
	empty := ""
	updated, err := registry.UpdateItem(ctx, item.ID, ItemUpdate{
		Brand:    &empty,
		AssetTag: &empty,
	})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Brand != "" {
		t.Errorf("brand = %q, want cleared", updated.Brand)
	}
	if updated.AssetTag != nil {
		t.Errorf("asset_tag = %q, want cleared", *updated.AssetTag)
	}
	if updated.Name != "Laptop" {
		t.Errorf("name = %q, want untouched", updated.Name)
	}

	// A cleared tag no longer occupies the unique index.
	if _, err := registry.CreateItem(ctx, ItemParams{Name: "Other", AssetTag: &tag}); err != nil {
		t.Fatalf("reuse cleared tag: %v", err)
	}
}

func TestListItemsStatusFilter(t *testing.T) {
	orm := newTestDB(t)
	engine := newTestEngine(t, orm)
	registry, _ := NewRegistry(orm)
	ctx := context.Background()

	laptop := mustItem(t, orm, "Laptop")
	mustItem(t, orm, "Radio")
	holder := mustPerson(t, orm, "Alice")

	if _, err := engine.CreateAssignment(ctx, testActor, CreateParams{
		ItemIDs:  []uuid.UUID{laptop.ID},
		HolderID: holder.ID,
	}); err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}

	idle, err := registry.ListItems(ctx, ItemIdle)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(idle) != 1 || idle[0].Name != "Radio" {
		t.Errorf("idle filter returned %d items", len(idle))
	}

	all, err := registry.ListItems(ctx, "")
	if err != nil {
		t.Fatalf("ListItems all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 items, got %d", len(all))
	}
}

func TestFindAvailable(t *testing.T) {
	orm := newTestDB(t)
	engine := newTestEngine(t, orm)
	registry, _ := NewRegistry(orm)
	ctx := context.Background()

	free := mustItem(t, orm, "Free")
	taken := mustItem(t, orm, "Taken")
	holder := mustPerson(t, orm, "Alice")

	if _, err := engine.CreateAssignment(ctx, testActor, CreateParams{
		ItemIDs:  []uuid.UUID{taken.ID},
		HolderID: holder.ID,
	}); err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}

	available, err := registry.FindAvailable(ctx, []uuid.UUID{free.ID, taken.ID})
	if err != nil {
		t.Fatalf("FindAvailable: %v", err)
	}
	if len(available) != 1 || available[0] != free.ID {
		t.Errorf("FindAvailable = %v, want just %s", available, free.ID)
	}
}

func TestItemMetadataRoundTrip(t *testing.T) {
	orm := newTestDB(t)
	registry, _ := NewRegistry(orm)
	ctx := context.Background()

	item, err := registry.CreateItem(ctx, ItemParams{
		Name:     "Laptop",
		Metadata: map[string]any{"ram_gb": "16", "color": "grey"},
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	got, err := registry.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Metadata["color"] != "grey" {
		t.Errorf("metadata color = %v, want grey", got.Metadata["color"])
	}
}
