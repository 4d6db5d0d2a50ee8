package basket

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/models"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/result"
)

// fakeStore is an in-memory Store that counts calls and can block fetches.
type fakeStore struct {
	mu       sync.Mutex
	basket   models.CustomerBasket
	fetchErr error
	update   func(*models.CustomerBasket) result.CommandResult
	release  chan struct{}
	started  chan struct{}

	fetches atomic.Int32
	updates atomic.Int32
}

func newFakeStore(items ...models.BasketItem) *fakeStore {
	if items == nil {
		items = []models.BasketItem{}
	}
	return &fakeStore{basket: models.CustomerBasket{CustomerID: "alice", Items: items}}
}

func (f *fakeStore) GetBasket(ctx context.Context, customerID string) (*models.CustomerBasket, error) {
	f.fetches.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.basket.Clone(), nil
}

func (f *fakeStore) UpdateBasket(ctx context.Context, basket *models.CustomerBasket) result.CommandResult {
	f.updates.Add(1)
	if f.update != nil {
		return f.update(basket)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.basket = *basket.Clone()
	return result.Succeeded()
}

func listenerCounter() (func(), *atomic.Int32) {
	var n atomic.Int32
	return func() { n.Add(1) }, &n
}

func TestGetBasket_NoCustomerSkipsNetwork(t *testing.T) {
	store := newFakeStore()
	state := NewState(store, "", nil)

	basket, err := state.GetBasket(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.EmptyBasket(), basket)
	assert.Equal(t, int32(0), store.fetches.Load())
}

func TestGetBasket_ConcurrentCallersShareOneFetch(t *testing.T) {
	store := newFakeStore(models.BasketItem{ID: "1", Quantity: 2})
	store.release = make(chan struct{})
	store.started = make(chan struct{}, 1)
	state := NewState(store, "alice", nil)

	const callers = 5
	results := make([]*models.CustomerBasket, callers)
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < callers; i++ {
		i := i
		g.Go(func() error {
			b, err := state.GetBasket(ctx)
			results[i] = b
			return err
		})
	}

	<-store.started
	require.Eventually(t, func() bool { return state.pendingWaiters() == callers }, time.Second, time.Millisecond)
	close(store.release)

	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), store.fetches.Load())
	for _, b := range results {
		require.NotNil(t, b)
		assert.Equal(t, []models.BasketItem{{ID: "1", Quantity: 2}}, b.Items)
	}

	_, err := state.GetBasket(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), store.fetches.Load(), "resolved basket is served from cache")
}

func TestGetBasket_FailureReachesEveryWaiterAndResets(t *testing.T) {
	store := newFakeStore()
	store.fetchErr = errors.New("backend down")
	store.release = make(chan struct{})
	store.started = make(chan struct{}, 1)
	state := NewState(store, "alice", nil)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := state.GetBasket(context.Background())
			errs <- err
		}()
	}
	<-store.started
	require.Eventually(t, func() bool { return state.pendingWaiters() == 2 }, time.Second, time.Millisecond)
	close(store.release)

	for i := 0; i < 2; i++ {
		assert.EqualError(t, <-errs, "backend down")
	}

	store.mu.Lock()
	store.fetchErr = nil
	store.mu.Unlock()
	store.release = nil
	store.started = nil

	basket, err := state.GetBasket(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", basket.CustomerID)
	assert.Equal(t, int32(2), store.fetches.Load())
}

func TestGetBasket_ReturnsIndependentCopies(t *testing.T) {
	store := newFakeStore(models.BasketItem{ID: "1", Quantity: 1})
	state := NewState(store, "alice", nil)

	first, err := state.GetBasket(context.Background())
	require.NoError(t, err)
	first.Items[0].Quantity = 99
	first.Items = append(first.Items, models.BasketItem{ID: "2"})

	second, err := state.GetBasket(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.BasketItem{{ID: "1", Quantity: 1}}, second.Items)
}

func TestGetBasket_CancelledWaiterDoesNotCancelFetch(t *testing.T) {
	store := newFakeStore(models.BasketItem{ID: "1", Quantity: 1})
	store.release = make(chan struct{})
	store.started = make(chan struct{}, 1)
	state := NewState(store, "alice", nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := state.GetBasket(ctx)
		errCh <- err
	}()
	<-store.started
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(store.release)
	require.Eventually(t, func() bool {
		state.mu.Lock()
		defer state.mu.Unlock()
		return state.phase == phaseReady
	}, time.Second, time.Millisecond)

	basket, err := state.GetBasket(context.Background())
	require.NoError(t, err)
	assert.Len(t, basket.Items, 1)
	assert.Equal(t, int32(1), store.fetches.Load())
}

func TestInvalidate_DuringFetchDoesNotRepopulate(t *testing.T) {
	store := newFakeStore()
	store.release = make(chan struct{})
	store.started = make(chan struct{}, 1)
	state := NewState(store, "alice", nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = state.GetBasket(context.Background())
	}()
	<-store.started
	state.Invalidate()
	close(store.release)
	<-done

	state.mu.Lock()
	assert.Equal(t, phaseIdle, state.phase)
	state.mu.Unlock()
}

func TestAddItem_ReflectedAndNotifiesOnce(t *testing.T) {
	store := newFakeStore(models.BasketItem{ID: "1", Quantity: 1})
	state := NewState(store, "alice", nil)
	listener, calls := listenerCounter()
	state.SetOnBasketUpdated(listener)

	_, err := state.GetBasket(context.Background())
	require.NoError(t, err)

	res := state.AddItem(context.Background(), models.BasketItem{ID: "2", Quantity: 3})
	require.True(t, res.Succeeded)
	assert.Equal(t, []string{}, res.Errors)
	assert.Equal(t, int32(1), calls.Load())

	basket, err := state.GetBasket(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.BasketItem{{ID: "1", Quantity: 1}, {ID: "2", Quantity: 3}}, basket.Items)
	assert.Equal(t, int32(2), store.fetches.Load(), "successful mutation invalidates the cache")
}

func TestAddItem_FailureKeepsCacheAndSkipsListener(t *testing.T) {
	store := newFakeStore(models.BasketItem{ID: "1", Quantity: 1})
	store.update = func(*models.CustomerBasket) result.CommandResult {
		return result.Failed("Quantity must be greater than 0.")
	}
	state := NewState(store, "alice", nil)
	listener, calls := listenerCounter()
	state.SetOnBasketUpdated(listener)

	before, err := state.GetBasket(context.Background())
	require.NoError(t, err)

	res := state.AddItem(context.Background(), models.BasketItem{ID: "2", Quantity: 0})
	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{"Quantity must be greater than 0."}, res.Errors)
	assert.Equal(t, int32(0), calls.Load())

	after, err := state.GetBasket(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, int32(1), store.fetches.Load(), "cache kept after failed persist")
}

func TestAddItem_DoesNotDeduplicate(t *testing.T) {
	store := newFakeStore(models.BasketItem{ID: "1", Quantity: 1})
	state := NewState(store, "alice", nil)

	require.True(t, state.AddItem(context.Background(), models.BasketItem{ID: "1", Quantity: 2}).Succeeded)

	basket, err := state.GetBasket(context.Background())
	require.NoError(t, err)
	assert.Len(t, basket.Items, 2)
}

func TestMutations_OverlappingWritesLastWins(t *testing.T) {
	store := newFakeStore()
	state := NewState(store, "alice", nil)
	_, err := state.GetBasket(context.Background())
	require.NoError(t, err)
	listener, calls := listenerCounter()
	state.SetOnBasketUpdated(listener)

	// Both mutations must have read the cached basket before either persists,
	// and the write carrying "b" lands after the one carrying "a".
	var arrivals sync.WaitGroup
	arrivals.Add(2)
	aPersisted := make(chan struct{})
	store.update = func(b *models.CustomerBasket) result.CommandResult {
		arrivals.Done()
		arrivals.Wait()

		ids := make([]string, 0, len(b.Items))
		for _, item := range b.Items {
			ids = append(ids, item.ID)
		}
		if len(ids) == 1 && ids[0] == "b" {
			<-aPersisted
		}

		store.mu.Lock()
		store.basket = *b.Clone()
		store.mu.Unlock()

		if len(ids) == 1 && ids[0] == "a" {
			close(aPersisted)
		}
		return result.Succeeded()
	}

	var g errgroup.Group
	for _, id := range []string{"a", "b"} {
		id := id
		g.Go(func() error {
			if res := state.AddItem(context.Background(), models.BasketItem{ID: id, Quantity: 1}); !res.Succeeded {
				return errors.New(id + " failed")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(2), store.updates.Load())
	assert.Equal(t, int32(2), calls.Load())

	store.mu.Lock()
	persisted := store.basket.Clone()
	store.mu.Unlock()
	assert.Equal(t, []models.BasketItem{{ID: "b", Quantity: 1}}, persisted.Items)

	basket, err := state.GetBasket(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.BasketItem{{ID: "b", Quantity: 1}}, basket.Items)
}

func TestUpdateQuantity(t *testing.T) {
	store := newFakeStore(models.BasketItem{ID: "1", Quantity: 1}, models.BasketItem{ID: "2", Quantity: 1})
	state := NewState(store, "alice", nil)
	listener, calls := listenerCounter()
	state.SetOnBasketUpdated(listener)

	res := state.UpdateQuantity(context.Background(), "2", 4)
	require.True(t, res.Succeeded)
	assert.Equal(t, int32(1), calls.Load())

	basket, err := state.GetBasket(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, basket.Items[1].Quantity)
}

func TestUpdateQuantity_UnknownIDIsSilentNoop(t *testing.T) {
	store := newFakeStore(models.BasketItem{ID: "1", Quantity: 1})
	state := NewState(store, "alice", nil)
	listener, calls := listenerCounter()
	state.SetOnBasketUpdated(listener)

	res := state.UpdateQuantity(context.Background(), "missing", 5)
	assert.Equal(t, result.CommandResult{Succeeded: true, Errors: []string{}}, res)
	assert.Equal(t, int32(0), store.updates.Load())
	assert.Equal(t, int32(0), calls.Load())

	basket, err := state.GetBasket(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.BasketItem{{ID: "1", Quantity: 1}}, basket.Items)
}

func TestRemoveItem(t *testing.T) {
	store := newFakeStore(models.BasketItem{ID: "1", Quantity: 1}, models.BasketItem{ID: "2", Quantity: 1})
	state := NewState(store, "alice", nil)
	listener, calls := listenerCounter()
	state.SetOnBasketUpdated(listener)

	require.True(t, state.RemoveItem(context.Background(), "1").Succeeded)
	assert.Equal(t, int32(1), calls.Load())

	basket, err := state.GetBasket(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.BasketItem{{ID: "2", Quantity: 1}}, basket.Items)
}

func TestMutation_FetchFailureBecomesFailedResult(t *testing.T) {
	store := newFakeStore()
	store.fetchErr = errors.New("backend down")
	state := NewState(store, "alice", nil)

	res := state.AddItem(context.Background(), models.BasketItem{ID: "1", Quantity: 1})
	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{"backend down"}, res.Errors)
	assert.Equal(t, int32(0), store.updates.Load())
}

func TestMutation_NoCustomerRejected(t *testing.T) {
	store := newFakeStore()
	state := NewState(store, "", nil)

	res := state.AddItem(context.Background(), models.BasketItem{ID: "1", Quantity: 1})
	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{ErrNoCustomerMessage}, res.Errors)
	assert.Equal(t, int32(0), store.fetches.Load())
	assert.Equal(t, int32(0), store.updates.Load())
}

func TestSetOnBasketUpdated_ReplacesListener(t *testing.T) {
	store := newFakeStore(models.BasketItem{ID: "1", Quantity: 1})
	state := NewState(store, "alice", nil)

	first, firstCalls := listenerCounter()
	second, secondCalls := listenerCounter()
	state.SetOnBasketUpdated(first)
	state.SetOnBasketUpdated(second)

	require.True(t, state.UpdateQuantity(context.Background(), "1", 2).Succeeded)
	assert.Equal(t, int32(0), firstCalls.Load())
	assert.Equal(t, int32(1), secondCalls.Load())

	state.SetOnBasketUpdated(nil)
	require.True(t, state.UpdateQuantity(context.Background(), "1", 3).Succeeded)
	assert.Equal(t, int32(1), secondCalls.Load())
}
