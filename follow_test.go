package pledge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func draft(name string) []byte {
	return []byte(`{"firstName": "` + name + `", "donations": [{"institution": "Red Cross", "percentage": 100}]}`)
}

func TestFollow_FirstDraftLoadsImmediately(t *testing.T) {
	clock := clockz.NewFakeClock()
	metrics := &recordingMetrics{}
	ch := make(chan []byte, 10)
	ch <- draft("Ana")

	store := New(nil).Clock(clock).Debounce(100 * time.Millisecond).Metrics(metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- store.Follow(ctx, NewChannelWatcher(ch), JSONCodec{}) }()

	waitFor(t, time.Second, func() bool { return metrics.editCount("load") == 1 })

	v := store.Values()
	if v.FirstName != "Ana" {
		t.Errorf("expected firstName Ana, got %q", v.FirstName)
	}
	if len(v.Donations) != 1 || v.Donations[0].Key == "" {
		t.Errorf("expected one keyed donation, got %+v", v.Donations)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFollow_DebounceCoalescesDrafts(t *testing.T) {
	clock := clockz.NewFakeClock()
	metrics := &recordingMetrics{}
	ch := make(chan []byte, 10)
	ch <- draft("Ana")

	store := New(nil).Clock(clock).Debounce(100 * time.Millisecond).Metrics(metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = store.Follow(ctx, NewChannelWatcher(ch), JSONCodec{}) }() //nolint:errcheck // Canceled on cleanup

	waitFor(t, time.Second, func() bool { return metrics.editCount("load") == 1 })

	ch <- draft("Bia")
	ch <- draft("Caio")
	ch <- draft("Duda")

	// Allow goroutine to receive drafts
	time.Sleep(10 * time.Millisecond)

	if n := metrics.editCount("load"); n != 1 {
		t.Errorf("expected still 1 load (debouncing), got %d", n)
	}

	clock.Advance(150 * time.Millisecond)
	clock.BlockUntilReady()

	waitFor(t, time.Second, func() bool { return metrics.editCount("load") == 2 })

	if v := store.Values(); v.FirstName != "Duda" {
		t.Errorf("expected last draft to win, got %q", v.FirstName)
	}
}

func TestFollow_NoDebounceLoadsEveryDraft(t *testing.T) {
	metrics := &recordingMetrics{}
	ch := make(chan []byte, 10)
	ch <- draft("Ana")
	ch <- draft("Bia")
	ch <- draft("Caio")
	close(ch)

	store := New(nil).Debounce(0).Metrics(metrics)

	if err := store.Follow(context.Background(), NewChannelWatcher(ch), JSONCodec{}); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if n := metrics.editCount("load"); n != 3 {
		t.Errorf("expected 3 loads, got %d", n)
	}
	if v := store.Values(); v.FirstName != "Caio" {
		t.Errorf("expected firstName Caio, got %q", v.FirstName)
	}
}

func TestFollow_BadDraftKeepsValues(t *testing.T) {
	metrics := &recordingMetrics{}
	ch := make(chan []byte, 10)
	ch <- draft("Ana")
	ch <- []byte(`{not valid json}`)
	ch <- []byte(`{"donationsAmount": {"nested": true}}`)
	close(ch)

	store := New(nil).Debounce(0).Metrics(metrics)

	if err := store.Follow(context.Background(), NewChannelWatcher(ch), JSONCodec{}); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if n := metrics.editCount("load"); n != 1 {
		t.Errorf("expected only the good draft loaded, got %d loads", n)
	}
	if v := store.Values(); v.FirstName != "Ana" {
		t.Errorf("expected values of the last good draft, got %q", v.FirstName)
	}
}

func TestFollow_PendingDraftLoadsOnClose(t *testing.T) {
	clock := clockz.NewFakeClock()
	metrics := &recordingMetrics{}
	ch := make(chan []byte, 10)
	ch <- draft("Ana")

	store := New(nil).Clock(clock).Debounce(100 * time.Millisecond).Metrics(metrics)

	done := make(chan error, 1)
	go func() { done <- store.Follow(context.Background(), NewChannelWatcher(ch), YAMLCodec{}) }()

	waitFor(t, time.Second, func() bool { return metrics.editCount("load") == 1 })

	ch <- []byte("firstName: Bia\ndonations:\n  - institution: WWF\n    percentage: 100\n")
	time.Sleep(10 * time.Millisecond)
	close(ch)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Follow failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Follow did not return after close")
	}

	if n := metrics.editCount("load"); n != 2 {
		t.Errorf("expected 2 loads after close, got %d", n)
	}
	v := store.Values()
	if v.FirstName != "Bia" || v.Donations[0].Institution != "WWF" {
		t.Errorf("expected pending draft loaded, got %+v", v)
	}
}

func TestFollow_WatcherError(t *testing.T) {
	store := New(nil)
	err := store.Follow(context.Background(), NewFileWatcher("/nonexistent/draft.json"), JSONCodec{})
	if err == nil {
		t.Fatal("expected error for missing draft file")
	}
}
