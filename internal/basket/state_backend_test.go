package basket

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/client"
	basketclient "github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/client/basket"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/models"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/stubbackend"
)

func newBackendState(t *testing.T, backend *stubbackend.Backend, customerID string) *State {
	t.Helper()
	srv := backend.Start()
	t.Cleanup(srv.Close)

	router := client.NewRouter(
		client.WithAccessToken("test-access-token"),
		client.WithSleep(func(context.Context, time.Duration) error { return nil }),
	)
	return NewState(basketclient.NewClient(srv.URL, router), customerID, nil)
}

func TestState_AgainstBackend(t *testing.T) {
	backend := stubbackend.New(stubbackend.WithGames(
		models.GameDetails{ID: "tetris", Name: "Tetris", Price: 5},
		models.GameDetails{ID: "portal", Name: "Portal", Price: 10},
	))
	state := newBackendState(t, backend, "alice")
	ctx := context.Background()

	require.True(t, state.AddItem(ctx, models.BasketItem{ID: "tetris", Quantity: 2}).Succeeded)
	require.True(t, state.AddItem(ctx, models.BasketItem{ID: "portal", Quantity: 1}).Succeeded)
	require.True(t, state.UpdateQuantity(ctx, "portal", 3).Succeeded)

	basket, err := state.GetBasket(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.UpdateBasketDto{Items: []models.UpdateBasketItemDto{
		{ID: "tetris", Quantity: 2},
		{ID: "portal", Quantity: 3},
	}}, basket.ToUpdateDto())
	assert.Equal(t, 40.0, basket.TotalAmount)
	assert.Equal(t, "Portal", basket.Items[1].Name)

	require.True(t, state.RemoveItem(ctx, "tetris").Succeeded)
	basket, err = state.GetBasket(ctx)
	require.NoError(t, err)
	require.Len(t, basket.Items, 1)
	assert.Equal(t, "portal", basket.Items[0].ID)
}

func TestState_PersistFailureAgainstBackend(t *testing.T) {
	backend := stubbackend.New(stubbackend.WithBasket(models.CustomerBasket{
		CustomerID: "alice",
		Items:      []models.BasketItem{{ID: "tetris", Quantity: 1}},
	}))
	state := newBackendState(t, backend, "alice")
	ctx := context.Background()

	notified := 0
	state.SetOnBasketUpdated(func() { notified++ })

	_, err := state.GetBasket(ctx)
	require.NoError(t, err)

	backend.FailNext(stubbackend.RouteUpdateBasket, stubbackend.Failure{
		Status: http.StatusConflict,
		Body:   `{"title":"Conflict","errors":["basket changed"]}`,
	})
	res := state.AddItem(ctx, models.BasketItem{ID: "portal", Quantity: 1})
	assert.False(t, res.Succeeded)
	assert.Equal(t, []string{"Conflict", "basket changed"}, res.Errors)
	assert.Equal(t, 0, notified)

	basket, err := state.GetBasket(ctx)
	require.NoError(t, err)
	assert.Len(t, basket.Items, 1)
	assert.Equal(t, 1, backend.Hits(stubbackend.RouteGetBasket))
}
