package storage

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewStore_RequiresDir(t *testing.T) {
	if _, err := NewStore(""); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestSaveExistsDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Save("photo.png", bytes.NewReader([]byte("png-bytes"))); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !store.Exists("photo.png") {
		t.Fatal("saved file missing")
	}

	if err := store.Delete("photo.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Exists("photo.png") {
		t.Fatal("file still present after delete")
	}

	// deleting again is a no-op
	if err := store.Delete("photo.png"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestSave_RejectsPathEscape(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	for _, name := range []string{"../escape.png", "a/b.png", `a\b.png`, ""} {
		if err := store.Save(name, bytes.NewReader(nil)); err == nil {
			t.Errorf("save accepted invalid filename %q", name)
		}
	}
}

func TestGenerateFilename(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	a := store.GenerateFilename("Foto Desa.JPG")
	b := store.GenerateFilename("Foto Desa.JPG")
	if a == b {
		t.Fatal("generated filenames collide")
	}
	if !strings.HasSuffix(a, ".jpg") {
		t.Errorf("extension not preserved lowercase: %q", a)
	}
	if strings.ContainsAny(a, `/\ `) {
		t.Errorf("generated filename contains unsafe characters: %q", a)
	}
}
