package pledge

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func threeRows() Values {
	v := validValues()
	v.Donations = []Donation{
		NewDonation("Red Cross", 50),
		NewDonation("WWF", 30),
		NewDonation("MSF", 20),
	}
	return v
}

func TestAppend_AddsDefaultRowAtEnd(t *testing.T) {
	ctx := context.Background()
	store := New(nil).Initial(validValues())

	if err := store.AppendEmpty(ctx); err != nil {
		t.Fatalf("AppendEmpty failed: %v", err)
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", store.Len())
	}
	last, _ := store.Get("donations[2]")
	d := last.(Donation)
	if d.Institution != "" || d.Percentage != Num(0) {
		t.Errorf("expected empty row, got %+v", d)
	}
	if d.Key == "" {
		t.Error("expected appended row to have a key")
	}

	// The new row is invalid on its own but the sum is still 100.
	errs := store.Errors()
	if errs.Aggregate != nil {
		t.Errorf("expected no aggregate error, got %v", errs.Aggregate)
	}
	if errs.Item(2, FieldInstitution) == nil {
		t.Error("expected institution error on the new row")
	}
}

func TestAppend_AssignsKey(t *testing.T) {
	ctx := context.Background()
	store := New(nil)

	if err := store.Append(ctx, Donation{Institution: "WWF", Percentage: Num(10)}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	keys := store.Keys()
	if len(keys) != 2 || keys[1] == "" || keys[0] == keys[1] {
		t.Errorf("expected two distinct keys, got %v", keys)
	}
}

func TestRemoveAt_ShiftsLaterRows(t *testing.T) {
	ctx := context.Background()
	store := New(nil).Initial(threeRows())
	keys := store.Keys()

	if err := store.RemoveAt(ctx, 0); err != nil {
		t.Fatalf("RemoveAt failed: %v", err)
	}

	got, _ := store.Get("donations[0].institution")
	if got != "WWF" {
		t.Errorf("expected WWF at index 0, got %v", got)
	}
	got, _ = store.Get("donations[1].institution")
	if got != "MSF" {
		t.Errorf("expected MSF at index 1, got %v", got)
	}
	if _, err := store.Get("donations[2].institution"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected index 2 to be gone, got %v", err)
	}
	if diff := cmp.Diff(keys[1:], store.Keys()); diff != "" {
		t.Errorf("keys did not shift with their rows (-want +got):\n%s", diff)
	}

	agg := store.Errors().Aggregate
	if agg == nil || agg.Sum != 50 {
		t.Errorf("expected aggregate sum 50, got %v", agg)
	}
}

func TestRemoveAt_LastIndex(t *testing.T) {
	ctx := context.Background()
	store := New(nil).Initial(threeRows())

	if err := store.RemoveAt(ctx, 2); err != nil {
		t.Fatalf("RemoveAt failed: %v", err)
	}
	if _, err := store.Get("donations[2]"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected removed index to be absent, got %v", err)
	}
}

func TestRemoveAt_ErrorsFollowTheRow(t *testing.T) {
	ctx := context.Background()
	v := threeRows()
	v.Donations[2].Institution = "M" // invalid, at index 2
	store := New(nil).Initial(v)
	badKey := store.Keys()[2]

	if ie := store.Errors().Item(2, FieldInstitution); ie == nil || ie.Key != badKey {
		t.Fatalf("expected error on row 2, got %v", ie)
	}

	if err := store.RemoveAt(ctx, 0); err != nil {
		t.Fatalf("RemoveAt failed: %v", err)
	}

	errs := store.Errors()
	if errs.Item(2, FieldInstitution) != nil {
		t.Error("stale error left at the old index")
	}
	ie := errs.Item(1, FieldInstitution)
	if ie == nil || ie.Key != badKey {
		t.Errorf("expected error to move to index 1 with its row, got %v", ie)
	}
	if got := errs.ItemsFor(badKey); len(got) != 1 {
		t.Errorf("expected one error for the row key, got %d", len(got))
	}
}

func TestRemoveAt_TouchedFollowsTheRow(t *testing.T) {
	ctx := context.Background()
	store := New(nil).Initial(threeRows())

	if err := store.Touch(ctx, "donations[1].percentage"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}
	if err := store.Touch(ctx, "donations[0].institution"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	if err := store.RemoveAt(ctx, 0); err != nil {
		t.Fatalf("RemoveAt failed: %v", err)
	}

	if !store.Touched("donations[0].percentage") {
		t.Error("touched mark did not move with its row")
	}
	if store.Touched("donations[1].percentage") {
		t.Error("touched mark left behind at the old index")
	}
	if store.Touched("donations[0].institution") {
		t.Error("removed row's touched mark was inherited by the next row")
	}
}

func TestAppend_CopiedRowGetsItsOwnKey(t *testing.T) {
	ctx := context.Background()
	store := New(nil).Initial(threeRows())

	copied := store.Values().Donations[0]
	if err := store.Append(ctx, copied); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	keys := store.Keys()
	if keys[3] == keys[0] {
		t.Fatalf("appended copy shares key %s with row 0", keys[0])
	}
	if err := store.Touch(ctx, "donations[3].institution"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}
	if store.Touched("donations[0].institution") {
		t.Error("touching the copy marked the original row")
	}
	if !store.Touched("donations[3].institution") {
		t.Error("expected the copy to be touched")
	}
}

func TestSetDonations_DuplicateKeysAreReplaced(t *testing.T) {
	ctx := context.Background()
	store := New(nil).Initial(threeRows())

	rows := store.Values().Donations
	rows = append(rows, rows[1])
	if err := store.SetFieldValue(ctx, "donations", rows); err != nil {
		t.Fatalf("SetFieldValue failed: %v", err)
	}

	keys := store.Keys()
	if keys[1] != rows[1].Key {
		t.Errorf("first occurrence should keep its key")
	}
	if keys[3] == keys[1] {
		t.Error("repeated row kept a duplicate key")
	}

	v := store.Values()
	v.Donations = append(v.Donations, v.Donations[0])
	if err := store.Load(ctx, v); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	seen := make(map[string]bool)
	for _, k := range store.Keys() {
		if seen[k] {
			t.Fatalf("duplicate key %s after Load", k)
		}
		seen[k] = true
	}
}

func TestAppendThenRemoveIsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := New(nil).Initial(threeRows())
	before := store.Values()

	if err := store.AppendEmpty(ctx); err != nil {
		t.Fatalf("AppendEmpty failed: %v", err)
	}
	if err := store.RemoveAt(ctx, store.Len()-1); err != nil {
		t.Fatalf("RemoveAt failed: %v", err)
	}

	if diff := cmp.Diff(before, store.Values()); diff != "" {
		t.Errorf("append+remove changed the list (-before +after):\n%s", diff)
	}
}

func TestRemoveAt_EmptyListFailsValidation(t *testing.T) {
	ctx := context.Background()
	store := New(nil)

	if err := store.RemoveAt(ctx, 0); err != nil {
		t.Fatalf("removing the last row should be allowed, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty list, got %d", store.Len())
	}
	agg := store.Errors().Aggregate
	if agg == nil || agg.Rule != RuleMinItems {
		t.Errorf("expected minimum rows error, got %v", agg)
	}
}

func TestRemoveAt_OutOfRange(t *testing.T) {
	ctx := context.Background()
	store := New(nil)

	for _, i := range []int{-1, 1, 10} {
		if err := store.RemoveAt(ctx, i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("RemoveAt(%d) error = %v, want ErrIndexOutOfRange", i, err)
		}
	}
	if store.Len() != 1 {
		t.Errorf("expected list unchanged, got %d rows", store.Len())
	}
}

func TestEditor_Metrics(t *testing.T) {
	ctx := context.Background()
	metrics := &recordingMetrics{}
	store := New(nil).Metrics(metrics)

	_ = store.AppendEmpty(ctx)
	_ = store.RemoveAt(ctx, 1)
	_ = store.RemoveAt(ctx, 5)

	if metrics.editCount("append") != 1 {
		t.Errorf("expected one append, got %v", metrics.edits)
	}
	if metrics.editCount("remove") != 1 {
		t.Errorf("expected one remove (failed removals are not edits), got %v", metrics.edits)
	}
}
