package pledge

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Follow loads drafts from w into the store until ctx is canceled or the
// watcher closes its channel.
//
// The first draft is loaded immediately. Later drafts are debounced: drafts
// arriving within the debounce duration are coalesced and only the last one
// is loaded. A draft that cannot be decoded is reported through the
// DraftDecodeFailed signal and the current values are kept. A pending draft
// is loaded before Follow returns on channel close.
func (s *Store) Follow(ctx context.Context, w Watcher, codec Codec) error {
	changes, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	var (
		timer      clockz.Timer
		pending    []byte
		hasPending bool
		first      = true
	)

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case raw, ok := <-changes:
			if !ok {
				if hasPending {
					_ = s.loadDraft(ctx, codec, pending) //nolint:errcheck // Reported via signals
				}
				return nil
			}

			capitan.Emit(ctx, DraftReceived, KeyDebounce.Field(s.debounce))
			if first || s.debounce <= 0 {
				first = false
				_ = s.loadDraft(ctx, codec, raw) //nolint:errcheck // Reported via signals
				continue
			}
			pending = raw
			hasPending = true

			if timer == nil {
				timer = s.clock.NewTimer(s.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C():
					default:
					}
				}
				timer.Reset(s.debounce)
			}

		case <-timerC:
			if hasPending {
				_ = s.loadDraft(ctx, codec, pending) //nolint:errcheck // Reported via signals
				hasPending = false
			}
		}
	}
}

// loadDraft decodes raw and loads it into the store.
func (s *Store) loadDraft(ctx context.Context, codec Codec, raw []byte) error {
	var v Values
	if err := codec.Unmarshal(raw, &v); err != nil {
		capitan.Emit(ctx, DraftDecodeFailed, KeyError.Field(err.Error()))
		return fmt.Errorf("decode draft: %w", err)
	}
	if err := s.Load(ctx, v); err != nil {
		capitan.Emit(ctx, FieldRejected,
			KeyPath.Field(FieldDonations),
			KeyError.Field(err.Error()),
		)
		return err
	}
	return nil
}
