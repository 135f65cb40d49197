package imageio

import (
	"os"
	"path/filepath"
	"testing"
)

var jpegMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "b.jpg"), []byte("x"))
	writeFile(t, filepath.Join(dir, "a.PNG"), []byte("x"))
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("not an image"))
	writeFile(t, filepath.Join(dir, "archive.zip"), []byte("PK"))
	writeFile(t, filepath.Join(dir, "nested", "c.jpeg"), []byte("x"))
	writeFile(t, filepath.Join(dir, "noext-jpeg"), jpegMagic)
	writeFile(t, filepath.Join(dir, "noext-text"), []byte("just some words"))

	paths, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.PNG"),
		filepath.Join(dir, "b.jpg"),
		filepath.Join(dir, "nested", "c.jpeg"),
		filepath.Join(dir, "noext-jpeg"),
	}

	if len(paths) != len(want) {
		t.Fatalf("List: got %d paths %v, want %d", len(paths), paths, len(want))
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d]: got %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestList_EmptyDir(t *testing.T) {
	paths, err := List(t.TempDir())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("List: got %v, want empty", paths)
	}
}

func TestList_MissingDir(t *testing.T) {
	if _, err := List(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Error("List: expected error for missing directory")
	}
}
