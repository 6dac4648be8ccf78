package pledge

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
)

// Append adds d at the end of the donations list and revalidates. A row
// without a key, or with the key of a row already in the list, gets a new
// one. There is no upper bound on the number of rows.
func (s *Store) Append(ctx context.Context, d Donation) error {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return ErrSubmitting
	}
	if d.Key == "" || s.values.indexOf(d.Key) >= 0 {
		d.Key = uuid.NewString()
	}
	next := s.values.Clone()
	next.Donations = append(next.Donations, d)
	res := s.applyLocked(next)
	s.mu.Unlock()

	capitan.Emit(ctx, DonationAppended,
		KeyIndex.Field(len(next.Donations)-1),
		KeyCount.Field(len(next.Donations)),
	)
	s.edited(ctx, "append", res)
	return nil
}

// AppendEmpty adds an empty donation row (see EmptyDonation).
func (s *Store) AppendEmpty(ctx context.Context) error {
	return s.Append(ctx, EmptyDonation())
}

// RemoveAt removes the donation at index and revalidates. Later rows move
// down one position and keep their keys, touched marks and errors. The list
// may be emptied; validation then reports the minimum-rows error.
func (s *Store) RemoveAt(ctx context.Context, index int) error {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return ErrSubmitting
	}
	if index < 0 || index >= len(s.values.Donations) {
		n := len(s.values.Donations)
		s.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, n)
	}
	next := s.values.Clone()
	next.Donations = slices.Delete(next.Donations, index, index+1)
	res := s.applyLocked(next)
	s.mu.Unlock()

	capitan.Emit(ctx, DonationRemoved,
		KeyIndex.Field(index),
		KeyCount.Field(len(next.Donations)),
	)
	s.edited(ctx, "remove", res)
	return nil
}

// Len returns the number of donation rows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values.Donations)
}

// Keys returns the stable keys of the donation rows in list order. A
// renderer should use these, not indexes, to identify rows.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, len(s.values.Donations))
	for i, d := range s.values.Donations {
		keys[i] = d.Key
	}
	return keys
}
