package cart

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/multierr"

	"github.com/mkohara/roastery/internal/storefront"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
)

// MaxQuantity caps what a single cart line can hold.
const MaxQuantity = 99

// client is the slice of the REST client the store needs.
type client interface {
	FetchCart(ctx context.Context) ([]storefront.CartLine, error)
	UpdateCartItem(ctx context.Context, lineID string, quantity int) error
	DeleteCartItem(ctx context.Context, lineID string) error
}

// Store holds the cart page's working state. Quantity edits stay local until
// Close, which pushes only the lines whose quantity differs from the loaded
// snapshot. Removals are immediate.
type Store struct {
	client client
	notify func(error)

	mu       sync.Mutex
	snapshot map[string]storefront.CartLine
	working  map[string]storefront.CartLine
	order    []string
	closed   bool

	flushed chan struct{}
}

// StoreOption configures optional store behavior.
type StoreOption func(*Store)

// WithNotify registers a callback for flush failures. Close does not block on
// the flush, so errors surface here instead of a return value.
func WithNotify(fn func(error)) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.notify = fn
		}
	}
}

// NewStore builds an empty store over the given client.
func NewStore(c client, opts ...StoreOption) *Store {
	s := &Store{
		client:   c,
		snapshot: make(map[string]storefront.CartLine),
		working:  make(map[string]storefront.CartLine),
		flushed:  make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load fetches the cart and resets both the snapshot and the working copy to
// it, discarding any unflushed local edits.
func (s *Store) Load(ctx context.Context) error {
	lines, err := s.client.FetchCart(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = make(map[string]storefront.CartLine, len(lines))
	s.working = make(map[string]storefront.CartLine, len(lines))
	s.order = make([]string, 0, len(lines))
	for _, line := range lines {
		s.snapshot[line.ID] = line
		s.working[line.ID] = line
		s.order = append(s.order, line.ID)
	}
	return nil
}

// SetQuantity changes a line's quantity in the working copy only. Zero and
// negative values are ignored; values above MaxQuantity clamp to it. An
// unknown line is a no-op.
func (s *Store) SetQuantity(lineID string, quantity int) {
	if quantity <= 0 {
		return
	}
	if quantity > MaxQuantity {
		quantity = MaxQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.working[lineID]
	if !ok {
		return
	}
	line.Quantity = quantity
	s.working[lineID] = line
}

// RemoveItem deletes a line on the server, then drops it from both copies so
// the flush never touches it. On failure the store is left as it was.
func (s *Store) RemoveItem(ctx context.Context, lineID string) error {
	s.mu.Lock()
	_, ok := s.working[lineID]
	s.mu.Unlock()
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if err := s.client.DeleteCartItem(ctx, lineID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshot, lineID)
	delete(s.working, lineID)
	for i, id := range s.order {
		if id == lineID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Items returns the working copy in load order.
func (s *Store) Items() []storefront.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]storefront.CartLine, 0, len(s.working))
	for _, id := range s.order {
		if line, ok := s.working[id]; ok {
			items = append(items, line)
		}
	}
	return items
}

// Total returns the working copy's price times quantity sum.
func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, line := range s.working {
		total += line.Price * line.Quantity
	}
	return total
}

// Close flushes local quantity edits to the server and returns without
// waiting for them. Each changed line gets its own request; failures are
// collected and passed to the notify callback in one call. Only the first
// Close does anything.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true

	type change struct {
		lineID   string
		quantity int
	}
	changes := make([]change, 0)
	for id, line := range s.working {
		if prev, ok := s.snapshot[id]; ok && prev.Quantity != line.Quantity {
			changes = append(changes, change{lineID: id, quantity: line.Quantity})
		}
	}
	s.mu.Unlock()

	sort.Slice(changes, func(i, j int) bool { return changes[i].lineID < changes[j].lineID })

	go func() {
		defer close(s.flushed)

		var (
			wg       sync.WaitGroup
			errMu    sync.Mutex
			flushErr error
		)
		for _, ch := range changes {
			wg.Add(1)
			go func(lineID string, quantity int) {
				defer wg.Done()
				if err := s.client.UpdateCartItem(context.Background(), lineID, quantity); err != nil {
					errMu.Lock()
					flushErr = multierr.Append(flushErr, err)
					errMu.Unlock()
				}
			}(ch.lineID, ch.quantity)
		}
		wg.Wait()

		if flushErr != nil && s.notify != nil {
			s.notify(flushErr)
		}
	}()
}

// Flushed closes once the Close flush has finished, including when there was
// nothing to push. Tests wait on it instead of sleeping.
func (s *Store) Flushed() <-chan struct{} {
	return s.flushed
}
