package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherFiresOnceForWriteBurst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.json")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	var fired atomic.Int32
	w := New(path, func() { fired.Add(1) })
	w.debounce = 50 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	// A burst of writes within the debounce window.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte(`{"enabled": true}`), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	deadline := time.After(2 * time.Second)
	for fired.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("watcher never fired")
		case <-time.After(10 * time.Millisecond):
		}
	}
	// Let any spurious extra callbacks arrive.
	time.Sleep(150 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("want 1 callback for the burst, got %d", got)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.json")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	var fired atomic.Int32
	w := New(path, func() { fired.Add(1) })
	w.debounce = 20 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("unrelated file triggered %d callbacks", got)
	}
}

func TestWatcherSeesRenameInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.json")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	var fired atomic.Int32
	w := New(path, func() { fired.Add(1) })
	w.debounce = 20 * time.Millisecond
	if err := w.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	// Same shape as Repository.Save: temp file renamed over the target.
	tmp := filepath.Join(dir, ".schedule-tmp.json")
	if err := os.WriteFile(tmp, []byte(`{"enabled": true}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for fired.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("rename-in-place not observed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
