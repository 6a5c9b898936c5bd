package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherReportsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan string, 16)

	w, err := New([]string{dir}, []string{".yaml"}, 20*time.Millisecond, func(path string) {
		changed <- path
	})
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	w.Start()
	defer w.Stop()

	ignored := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(ignored, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "web.yaml")
	if err := os.WriteFile(target, []byte("name: web\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if got != target {
			t.Errorf("changed = %q, want %q", got, target)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherMatches(t *testing.T) {
	w := &Watcher{extensions: []string{".yaml", ".yml"}}
	tests := []struct {
		path string
		want bool
	}{
		{"a.yaml", true},
		{"dir/b.YML", true},
		{"c.json", false},
		{".hidden.yaml", false},
	}
	for _, tt := range tests {
		if got := w.matches(tt.path); got != tt.want {
			t.Errorf("matches(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcherReportsOnlyNamedFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "one.yaml")
	if err := os.WriteFile(target, []byte("name: one\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	changed := make(chan string, 16)

	w, err := New([]string{target}, []string{".yaml"}, 0, func(path string) {
		changed <- path
	})
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	w.Start()
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("name: other\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("name: one\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if got != target {
			t.Errorf("changed = %q, want %q", got, target)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherMatchesNamedFiles(t *testing.T) {
	w := &Watcher{
		extensions: []string{".yaml"},
		files:      map[string]bool{filepath.Join("a", "one.yaml"): true},
		dirs:       map[string]bool{"b": true},
	}
	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join("a", "one.yaml"), true},
		{filepath.Join("a", "other.yaml"), false},
		{filepath.Join("b", "other.yaml"), true},
		{filepath.Join("b", "notes.txt"), false},
		{filepath.Join("c", "one.yaml"), false},
	}
	for _, tt := range tests {
		if got := w.matches(tt.path); got != tt.want {
			t.Errorf("matches(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestStopWaitsForRunningCallback(t *testing.T) {
	dir := t.TempDir()
	started := make(chan struct{}, 16)
	var finished atomic.Bool

	w, err := New([]string{dir}, []string{".yaml"}, 10*time.Millisecond, func(string) {
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(100 * time.Millisecond)
		finished.Store(true)
	})
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	w.Start()

	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("name: a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		w.Stop()
		t.Fatal("no change reported")
	}

	w.Stop()
	if !finished.Load() {
		t.Error("Stop returned while a callback was still running")
	}
}

func TestNewMissingPath(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing")}, nil, 0, func(string) {})
	if err == nil {
		t.Error("expected error for missing path")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w, err := New([]string{t.TempDir()}, nil, 0, func(string) {})
	if err != nil {
		t.Fatal(err)
	}
	w.Start()
	w.Stop()
	w.Stop()
}
