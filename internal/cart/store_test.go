package cart

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(NewMemStorage())
}

func TestStore_AddNewLine(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Add(ctx, "Widget", AddOptions{Price: 10, Qty: 2})

	lines := s.Lines(ctx)
	if len(lines) != 1 {
		t.Fatalf("lines=%d want=1", len(lines))
	}
	if lines[0].Qty != 2 || lines[0].Price != 10 {
		t.Fatalf("qty=%d price=%v", lines[0].Qty, lines[0].Price)
	}
	if !strings.HasPrefix(lines[0].ID, "p_") {
		t.Fatalf("id=%q want p_ prefix", lines[0].ID)
	}

	tot := s.Totals(ctx)
	if tot.Subtotal != 20.00 || tot.Shipping != 6.00 || tot.Tax != 1.40 || tot.Total != 27.40 || tot.ItemCount != 2 {
		t.Fatalf("totals=%+v", tot)
	}
}

func TestStore_AddDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Add(ctx, "Mystery Box", AddOptions{})

	lines := s.Lines(ctx)
	if len(lines) != 1 {
		t.Fatalf("lines=%d want=1", len(lines))
	}
	if lines[0].Price != DefaultPrice {
		t.Fatalf("price=%v want default %v", lines[0].Price, float64(DefaultPrice))
	}
	if lines[0].Qty != 1 {
		t.Fatalf("qty=%d want=1", lines[0].Qty)
	}
}

func TestStore_AddDedupByName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Add(ctx, "Widget", AddOptions{Price: 10, Qty: 2})
	s.Add(ctx, "Widget", AddOptions{})

	lines := s.Lines(ctx)
	if len(lines) != 1 {
		t.Fatalf("lines=%d want=1", len(lines))
	}
	if lines[0].Qty != 3 {
		t.Fatalf("qty=%d want=3", lines[0].Qty)
	}
	if lines[0].Price != 10 {
		t.Fatalf("price=%v want=10 (duplicate add must not touch price)", lines[0].Price)
	}
}

func TestStore_DuplicateAddIgnoresOptions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Add(ctx, "Widget", AddOptions{ID: "p_one", Price: 10, Img: "a.jpg"})
	s.Add(ctx, "Widget", AddOptions{ID: "p_two", Price: 99, Qty: 7, Img: "b.jpg"})

	lines := s.Lines(ctx)
	if len(lines) != 1 {
		t.Fatalf("lines=%d want=1", len(lines))
	}
	l := lines[0]
	if l.ID != "p_one" || l.Price != 10 || l.Qty != 2 || l.Img != "a.jpg" {
		t.Fatalf("line=%+v", l)
	}
}

func TestStore_AddPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Add(ctx, "Widget", AddOptions{Price: 10})
	s.Add(ctx, "Gadget", AddOptions{Price: 5})
	s.Add(ctx, "Widget", AddOptions{})

	lines := s.Lines(ctx)
	if len(lines) != 2 {
		t.Fatalf("lines=%d want=2", len(lines))
	}
	if lines[0].Name != "Widget" || lines[1].Name != "Gadget" {
		t.Fatalf("order=%q,%q", lines[0].Name, lines[1].Name)
	}
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Add(ctx, "Widget", AddOptions{Price: 10})
	s.Add(ctx, "Gadget", AddOptions{Price: 5})

	s.Remove(ctx, 0)

	lines := s.Lines(ctx)
	if len(lines) != 1 || lines[0].Name != "Gadget" {
		t.Fatalf("lines=%+v", lines)
	}
}

func TestStore_RemoveOutOfRangeIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Add(ctx, "Widget", AddOptions{Price: 10})
	s.Add(ctx, "Gadget", AddOptions{Price: 5})

	s.Remove(ctx, 5)
	s.Remove(ctx, -1)

	if got := len(s.Lines(ctx)); got != 2 {
		t.Fatalf("lines=%d want=2", got)
	}
}

func TestStore_SetQty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Add(ctx, "Widget", AddOptions{Price: 10, Qty: 3})

	s.SetQty(ctx, 0, 5)
	if got := s.Lines(ctx)[0].Qty; got != 5 {
		t.Fatalf("qty=%d want=5", got)
	}

	// fractional input floors
	s.SetQty(ctx, 0, 2.7)
	if got := s.Lines(ctx)[0].Qty; got != 2 {
		t.Fatalf("qty=%d want=2", got)
	}

	// negative clamps to zero, which removes the line
	s.SetQty(ctx, 0, -4)
	if got := len(s.Lines(ctx)); got != 0 {
		t.Fatalf("lines=%d want=0", got)
	}
}

func TestStore_SetQtyZeroEmptiesCart(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Add(ctx, "Widget", AddOptions{Price: 10, Qty: 3})
	s.SetQty(ctx, 0, 0)

	if got := len(s.Lines(ctx)); got != 0 {
		t.Fatalf("lines=%d want=0", got)
	}

	tot := s.Totals(ctx)
	if tot.Subtotal != 0 || tot.Shipping != 0 || tot.Tax != 0 || tot.Total != 0 || tot.ItemCount != 0 {
		t.Fatalf("totals=%+v want all zero", tot)
	}
}

func TestStore_SetQtyNonNumericCoercesToZero(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Add(ctx, "Widget", AddOptions{Price: 10, Qty: 3})
	s.SetQty(ctx, 0, math.NaN())

	if got := len(s.Lines(ctx)); got != 0 {
		t.Fatalf("lines=%d want=0", got)
	}
}

func TestStore_SetQtyOutOfRangeIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Add(ctx, "Widget", AddOptions{Price: 10, Qty: 3})
	s.SetQty(ctx, 3, 1)

	if got := s.Lines(ctx)[0].Qty; got != 3 {
		t.Fatalf("qty=%d want=3", got)
	}
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Add(ctx, "Widget", AddOptions{Price: 10})
	s.Add(ctx, "Gadget", AddOptions{Price: 5})
	s.Clear(ctx)

	if got := len(s.Lines(ctx)); got != 0 {
		t.Fatalf("lines=%d want=0", got)
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Add(ctx, "Widget", AddOptions{Price: 10})

	lines := s.Lines(ctx)
	lines[0].Qty = 99

	if got := s.Lines(ctx)[0].Qty; got != 1 {
		t.Fatalf("qty=%d want=1 (caller mutated a snapshot)", got)
	}
}

func TestStore_PersistsAcrossStores(t *testing.T) {
	ctx := context.Background()
	storage := NewMemStorage()

	s1 := NewStore(storage)
	s1.Add(ctx, "Widget", AddOptions{Price: 10, Qty: 2})
	s1.Add(ctx, "Gadget", AddOptions{Price: 5, Img: "g.jpg", DataHigh: "g-high.jpg"})

	s2 := NewStore(storage)
	lines := s2.Lines(ctx)
	if len(lines) != 2 {
		t.Fatalf("lines=%d want=2", len(lines))
	}
	if lines[1].Img != "g.jpg" || lines[1].DataHigh != "g-high.jpg" {
		t.Fatalf("line=%+v", lines[1])
	}
}

type failingStorage struct {
	loadErr error
	saveErr error
}

func (f *failingStorage) Load(ctx context.Context) ([]Line, error)     { return nil, f.loadErr }
func (f *failingStorage) Save(ctx context.Context, lines []Line) error { return f.saveErr }
func (f *failingStorage) Ping(ctx context.Context) error               { return errors.New("down") }

func TestStore_StorageFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	s := NewStore(&failingStorage{
		loadErr: errors.New("store unavailable"),
		saveErr: errors.New("quota exceeded"),
	})

	// neither the failed load nor the failed save may surface
	s.Add(ctx, "Widget", AddOptions{Price: 10})

	lines := s.Lines(ctx)
	if len(lines) != 1 {
		t.Fatalf("lines=%d want=1 (in-memory cart stays authoritative)", len(lines))
	}
}

func TestStore_NotifiesAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var seen []Snapshot
	cancel := s.Subscribe(func(snap Snapshot) { seen = append(seen, snap) })

	s.Add(ctx, "Widget", AddOptions{Price: 10})
	s.SetQty(ctx, 0, 4)
	s.Remove(ctx, 0)

	if len(seen) != 3 {
		t.Fatalf("broadcasts=%d want=3", len(seen))
	}
	if seen[1].Totals.ItemCount != 4 {
		t.Fatalf("itemCount=%d want=4", seen[1].Totals.ItemCount)
	}
	if len(seen[2].Lines) != 0 {
		t.Fatalf("final snapshot lines=%d want=0", len(seen[2].Lines))
	}

	cancel()
	s.Add(ctx, "Gadget", AddOptions{})
	if len(seen) != 3 {
		t.Fatalf("broadcast after unsubscribe")
	}
}

func TestStore_NoopMutationDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.Add(ctx, "Widget", AddOptions{Price: 10})

	calls := 0
	s.Subscribe(func(Snapshot) { calls++ })

	s.Remove(ctx, 5)
	s.SetQty(ctx, 9, 1)

	if calls != 0 {
		t.Fatalf("broadcasts=%d want=0 for no-op mutations", calls)
	}
}

func TestBroadcaster_NilSubscriberIsSkipped(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Subscribe(nil)
	s.Add(ctx, "Widget", AddOptions{Price: 10})

	if got := len(s.Lines(ctx)); got != 1 {
		t.Fatalf("lines=%d want=1", got)
	}
}
