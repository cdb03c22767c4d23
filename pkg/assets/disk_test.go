package assets

import (
	"context"
	"errors"
	"testing"
)

func TestDiskStore_PutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	ctx := context.Background()
	if err := store.Put(ctx, "react", "text/javascript", []byte("export default {}")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	mod, err := store.Get(ctx, "react")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if mod.Name != "react" || mod.ContentType != "text/javascript" || string(mod.Content) != "export default {}" {
		t.Fatalf("unexpected module: %+v", mod)
	}
}

func TestDiskStore_GetMissing(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDiskStore_Overwrite(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ctx := context.Background()

	store.Put(ctx, "chart", "text/javascript", []byte("v1"))
	store.Put(ctx, "chart", "text/javascript", []byte("v2"))

	mod, err := store.Get(ctx, "chart")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(mod.Content) != "v2" {
		t.Fatalf("expected overwritten content v2, got %q", mod.Content)
	}
}

func TestDiskStore_Delete(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ctx := context.Background()

	store.Put(ctx, "chart", "text/javascript", []byte("v1"))
	if err := store.Delete(ctx, "chart"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "chart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an absent module is not an error.
	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("Delete of absent module returned error: %v", err)
	}
}

func TestDiskStore_List(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	ctx := context.Background()

	store.Put(ctx, "b-lib", "text/javascript", []byte("b"))
	store.Put(ctx, "a-lib", "text/javascript", []byte("a"))

	names, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "a-lib" || names[1] != "b-lib" {
		t.Fatalf("expected sorted [a-lib b-lib], got %v", names)
	}
}

func TestDiskStore_ReopenReloadsIndex(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	first.Put(ctx, "react", "text/javascript", []byte("export default {}"))

	second, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("NewDiskStore (reopen): %v", err)
	}
	mod, err := second.Get(ctx, "react")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(mod.Content) != "export default {}" {
		t.Fatalf("unexpected content after reopen: %q", mod.Content)
	}
}
