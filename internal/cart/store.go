package cart

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Store is the exclusive owner of one cart. All mutation goes through its
// operations so the quantity and dedup invariants are enforced in one place;
// callers only ever see snapshot copies.
//
// The cart is loaded lazily on first access and persisted best-effort after
// every mutation. Two processes sharing one storage key race last-writer-wins
// with no merge; stale index tolerance (Remove/SetQty treating out-of-range
// as a no-op) is the only race guarantee on offer.
type Store struct {
	mu      sync.Mutex
	storage Storage
	log     *zap.Logger

	defaultPrice float64

	loaded bool
	lines  []Line

	broadcast *Broadcaster
}

type Option func(*Store)

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithDefaultPrice(p float64) Option {
	return func(s *Store) {
		if p > 0 {
			s.defaultPrice = p
		}
	}
}

func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage:      storage,
		log:          zap.NewNop(),
		defaultPrice: DefaultPrice,
		broadcast:    NewBroadcaster(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Subscribe registers a presentation surface for post-mutation snapshots.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	return s.broadcast.Subscribe(fn)
}

// Add appends a new line, or bumps the quantity of an existing line with the
// same name by one. On a duplicate add the options are ignored: the existing
// line's price and images stay authoritative.
//
// Name is the sole identity key, so two distinct products sharing a display
// name collapse into one line. Known limitation, kept on purpose.
func (s *Store) Add(ctx context.Context, name string, opts AddOptions) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	s.mutate(ctx, func() bool {
		for i := range s.lines {
			if s.lines[i].Name == name {
				s.lines[i].Qty++
				return true
			}
		}

		l := Line{
			ID:       opts.ID,
			Name:     name,
			Price:    opts.Price,
			Qty:      opts.Qty,
			Img:      opts.Img,
			DataHigh: opts.DataHigh,
		}
		if l.ID == "" {
			l.ID = newLineID()
		}
		if l.Price <= 0 {
			l.Price = s.defaultPrice
		}
		if l.Qty <= 0 {
			l.Qty = 1
		}

		s.lines = append(s.lines, l)
		return true
	})
}

// Remove deletes the line at idx. Indexes come from rendered views and may
// be stale by the time they arrive, so out-of-range is a silent no-op.
func (s *Store) Remove(ctx context.Context, idx int) {
	s.mutate(ctx, func() bool {
		if idx < 0 || idx >= len(s.lines) {
			return false
		}
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
		return true
	})
}

// SetQty replaces the quantity at idx after clamping it to a non-negative
// whole number. A quantity of zero removes the line entirely; zero-qty lines
// never persist. Out-of-range idx is a silent no-op.
func (s *Store) SetQty(ctx context.Context, idx int, qty float64) {
	s.mutate(ctx, func() bool {
		if idx < 0 || idx >= len(s.lines) {
			return false
		}

		q := ClampQty(qty)
		if q == 0 {
			s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
			return true
		}
		s.lines[idx].Qty = q
		return true
	})
}

// Clear replaces the cart with an empty one.
func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, func() bool {
		s.lines = nil
		return true
	})
}

// Lines returns a copy of the current cart in display order.
func (s *Store) Lines(ctx context.Context) []Line {
	return s.Snapshot(ctx).Lines
}

// Totals recomputes the pricing breakdown from the current cart.
func (s *Store) Totals(ctx context.Context) Totals {
	return s.Snapshot(ctx).Totals
}

// Snapshot returns the cart and its totals as one consistent view.
func (s *Store) Snapshot(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load(ctx)
	return s.snapshotLocked()
}

// mutate runs fn over the loaded cart, persists and broadcasts if fn
// reports a change. The lock is dropped before the broadcast so surfaces
// may call back into the store.
func (s *Store) mutate(ctx context.Context, fn func() bool) {
	s.mu.Lock()

	s.load(ctx)
	if !fn() {
		s.mu.Unlock()
		return
	}

	snap := s.snapshotLocked()
	if err := s.storage.Save(ctx, snap.Lines); err != nil {
		// best-effort persistence: the in-memory cart stays authoritative
		s.log.Info("cart save failed", zap.Error(err))
	}
	s.mu.Unlock()

	s.broadcast.publish(snap)
}

func (s *Store) load(ctx context.Context) {
	if s.loaded {
		return
	}

	lines, err := s.storage.Load(ctx)
	if err != nil {
		s.log.Info("cart load failed, starting empty", zap.Error(err))
		lines = nil
	}

	s.lines = sanitize(lines)
	s.loaded = true
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Lines:  copyLines(s.lines),
		Totals: ComputeTotals(s.lines),
	}
}

// sanitize re-establishes the line invariants on whatever a load produced:
// quantities whole and positive, ids present, prices non-negative.
func sanitize(lines []Line) []Line {
	out := lines[:0]
	for _, l := range lines {
		if l.Name == "" || l.Qty <= 0 {
			continue
		}
		if l.ID == "" {
			l.ID = newLineID()
		}
		if l.Price < 0 {
			l.Price = 0
		}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
