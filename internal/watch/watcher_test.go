package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	writeFile(t, path, `{"v": 1}`)

	w, err := New(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	var count atomic.Int32
	var lastPath atomic.Value
	w.OnChange(func(event Event) {
		count.Add(1)
		lastPath.Store(event.Path)
	})

	writeFile(t, path, `{"v": 2}`)

	waitFor(t, func() bool { return count.Load() >= 1 }, "write not detected")
	if got := lastPath.Load(); got != w.Path() {
		t.Errorf("event path = %v, want %v", got, w.Path())
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	writeFile(t, path, `{}`)

	w, err := New(path, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	var count atomic.Int32
	w.OnChange(func(Event) { count.Add(1) })

	writeFile(t, filepath.Join(dir, "other.json"), `{}`)

	time.Sleep(200 * time.Millisecond)
	if got := count.Load(); got != 0 {
		t.Errorf("sibling write triggered %d events", got)
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	writeFile(t, path, `{}`)

	w, err := New(path, WithDebounce(150*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	var count atomic.Int32
	w.OnChange(func(Event) { count.Add(1) })

	for i := 0; i < 5; i++ {
		writeFile(t, path, `{}`)
		time.Sleep(10 * time.Millisecond)
	}

	waitFor(t, func() bool { return count.Load() >= 1 }, "burst not detected")
	time.Sleep(300 * time.Millisecond)
	if got := count.Load(); got != 1 {
		t.Errorf("burst of writes triggered %d events, want 1", got)
	}
}

func TestWatcher_Close(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	writeFile(t, path, `{}`)

	w, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
