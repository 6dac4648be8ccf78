package pledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestChannelWatcher_Watch(t *testing.T) {
	ch := make(chan []byte, 1)
	ch <- []byte("draft")

	out, err := NewChannelWatcher(ch).Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if got := string(<-out); got != "draft" {
		t.Errorf("expected 'draft', got %q", got)
	}
}

func TestFileWatcher_EmitsInitialAndUpdates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft.yaml")
	if err := os.WriteFile(path, []byte("firstName: Ana\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := NewFileWatcher(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	select {
	case data := <-out:
		if string(data) != "firstName: Ana\n" {
			t.Errorf("unexpected initial data %q", data)
		}
	case <-time.After(time.Second):
		t.Fatal("no initial data")
	}

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("firstName: Bia\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case data := <-out:
			if string(data) == "x: 1\n" {
				t.Fatal("received data of an unrelated file")
			}
			if string(data) == "firstName: Bia\n" {
				return
			}
		case <-deadline:
			t.Fatal("update not observed")
		}
	}
}

func TestFileWatcher_ClosesOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out, err := NewFileWatcher(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	<-out
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestFileWatcher_MissingFile(t *testing.T) {
	_, err := NewFileWatcher(filepath.Join(t.TempDir(), "missing.json")).Watch(context.Background())
	if err == nil {
		t.Error("expected error for missing file")
	}
}
