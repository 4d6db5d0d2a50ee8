// Package basket caches the signed-in customer's basket and applies
// item mutations through whole-basket replacement.
//
// Key Responsibilities:
//   - Share one in-flight fetch between concurrent readers
//   - Serve the cached basket until a mutation succeeds
//   - Notify one listener after every successful mutation
//
// Thread Safety:
//   - State is safe for concurrent use. Mutations are not serialized with
//     each other; two overlapping mutations both replace the whole basket
//     and the last write wins.
package basket

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/metrics"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/models"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/result"
)

// ErrNoCustomerMessage is returned by mutations when no customer is signed in.
const ErrNoCustomerMessage = "Sign in to update your basket."

// Store reads and replaces baskets. The basket resource client implements it.
type Store interface {
	GetBasket(ctx context.Context, customerID string) (*models.CustomerBasket, error)
	UpdateBasket(ctx context.Context, basket *models.CustomerBasket) result.CommandResult
}

type phase int

const (
	phaseIdle phase = iota
	phaseFetching
	phaseReady
)

// fetch is one shared GetBasket call. done is closed once basket or err is set.
type fetch struct {
	done    chan struct{}
	waiters int
	basket  *models.CustomerBasket
	err     error
}

// State is the basket cache for one customer.
type State struct {
	store      Store
	customerID string
	logger     *zap.Logger

	mu         sync.Mutex
	phase      phase
	inflight   *fetch
	cached     *models.CustomerBasket
	generation uint64
	onUpdated  func()
}

// NewState creates a basket cache. An empty customerID means no one is
// signed in: reads return an empty basket and never touch the network.
func NewState(store Store, customerID string, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{
		store:      store,
		customerID: customerID,
		logger:     logger.With(zap.String("customer_id", customerID)),
	}
}

// CustomerID returns the customer whose basket is cached.
func (s *State) CustomerID() string {
	return s.customerID
}

// SetOnBasketUpdated registers the listener called after each successful
// mutation, replacing any previous one. A nil fn removes it.
func (s *State) SetOnBasketUpdated(fn func()) {
	s.mu.Lock()
	s.onUpdated = fn
	s.mu.Unlock()
}

// GetBasket returns a copy of the customer's basket, fetching it when the
// cache is empty. Concurrent callers share a single fetch. A failed fetch
// leaves the cache empty so the next call retries.
func (s *State) GetBasket(ctx context.Context) (*models.CustomerBasket, error) {
	if s.customerID == "" {
		return models.EmptyBasket(), nil
	}

	s.mu.Lock()
	switch s.phase {
	case phaseReady:
		basket := s.cached.Clone()
		s.mu.Unlock()
		metrics.RecordBasketCacheHit()
		return basket, nil
	case phaseIdle:
		f := &fetch{done: make(chan struct{}), waiters: 1}
		s.phase = phaseFetching
		s.inflight = f
		gen := s.generation
		s.mu.Unlock()

		// The fetch outlives a cancelled caller because other waiters may share it.
		go s.runFetch(context.WithoutCancel(ctx), f, gen)
		return s.wait(ctx, f)
	default:
		f := s.inflight
		f.waiters++
		s.mu.Unlock()
		return s.wait(ctx, f)
	}
}

func (s *State) wait(ctx context.Context, f *fetch) (*models.CustomerBasket, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.basket.Clone(), nil
}

func (s *State) runFetch(ctx context.Context, f *fetch, gen uint64) {
	basket, err := s.store.GetBasket(ctx, s.customerID)
	if err == nil && basket == nil {
		basket = &models.CustomerBasket{CustomerID: s.customerID, Items: []models.BasketItem{}}
	}
	metrics.RecordBasketFetch(err == nil)

	s.mu.Lock()
	f.basket, f.err = basket, err
	// A fetch superseded by Invalidate must not repopulate the cache.
	if s.inflight == f {
		s.inflight = nil
		if err == nil && gen == s.generation {
			s.phase = phaseReady
			s.cached = basket
		} else {
			s.phase = phaseIdle
		}
	}
	close(f.done)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("basket fetch failed", zap.Error(err))
		return
	}
	s.logger.Debug("basket fetched", zap.Int("items", len(basket.Items)))
}

// Invalidate drops the cached basket. The next read fetches again.
func (s *State) Invalidate() {
	s.mu.Lock()
	s.generation++
	s.phase = phaseIdle
	s.inflight = nil
	s.cached = nil
	s.mu.Unlock()
}

// AddItem appends item to the basket and persists it. Items with an id
// already in the basket are appended as a second line.
func (s *State) AddItem(ctx context.Context, item models.BasketItem) result.CommandResult {
	return s.mutate(ctx, "add", func(b *models.CustomerBasket) bool {
		b.Items = append(b.Items, item)
		return true
	})
}

// UpdateQuantity sets the quantity of the item with id. An unknown id is a
// successful no-op: nothing is persisted and no listener is called.
func (s *State) UpdateQuantity(ctx context.Context, id string, quantity int) result.CommandResult {
	return s.mutate(ctx, "update_quantity", func(b *models.CustomerBasket) bool {
		i := b.FindItem(id)
		if i < 0 {
			return false
		}
		b.Items[i].Quantity = quantity
		return true
	})
}

// RemoveItem removes every line with id and persists the basket.
func (s *State) RemoveItem(ctx context.Context, id string) result.CommandResult {
	return s.mutate(ctx, "remove", func(b *models.CustomerBasket) bool {
		kept := b.Items[:0]
		for _, item := range b.Items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		b.Items = kept
		return true
	})
}

// mutate applies change to a copy of the current basket and persists it.
// change reports false when there is nothing to persist.
func (s *State) mutate(ctx context.Context, op string, change func(*models.CustomerBasket) bool) result.CommandResult {
	if s.customerID == "" {
		metrics.RecordBasketMutation(op, "rejected")
		return result.Failed(ErrNoCustomerMessage)
	}

	basket, err := s.GetBasket(ctx)
	if err != nil {
		metrics.RecordBasketMutation(op, "failure")
		return result.FailedFrom(err)
	}

	if !change(basket) {
		metrics.RecordBasketMutation(op, "noop")
		return result.Succeeded()
	}

	res := s.store.UpdateBasket(ctx, basket)
	if !res.Succeeded {
		metrics.RecordBasketMutation(op, "failure")
		s.logger.Warn("basket update rejected", zap.String("operation", op), zap.Strings("errors", res.Errors))
		return res
	}

	metrics.RecordBasketMutation(op, "success")
	s.Invalidate()
	s.notify()
	return res
}

func (s *State) notify() {
	s.mu.Lock()
	fn := s.onUpdated
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
