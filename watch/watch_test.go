package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tonemap.glsl")
	err := os.WriteFile(path, []byte("vec3 tonemap(vec3 x) { return x; }\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	f, err := New(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	// Writes to neighbours are ignored.
	err = os.WriteFile(filepath.Join(dir, "other.glsl"), []byte("x"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-f.Changed():
		t.Fatal("unexpected notification for another file")
	case <-time.After(200 * time.Millisecond):
	}

	for i := 0; i < 3; i++ {
		err = os.WriteFile(path, []byte("vec3 tonemap(vec3 x) { return x*x; }\n"), 0o644)
		if err != nil {
			t.Fatal(err)
		}
	}
	select {
	case <-f.Changed():
	case <-time.After(5 * time.Second):
		t.Fatal("no notification after write")
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New("", nil); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := New(filepath.Join(t.TempDir(), "missing", "x.glsl"), nil); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.glsl")
	f, err := New(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Path() != path {
		t.Errorf("want %q, got %q", path, f.Path())
	}
	if err := f.Close(); err != nil {
		t.Error(err)
	}
}
