package games

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/client"
	apierrors "github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/errors"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/models"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/stubbackend"
)

func strPtr(s string) *string { return &s }

func newTestClient(t *testing.T, backend *stubbackend.Backend) *Client {
	t.Helper()
	srv := backend.Start()
	t.Cleanup(srv.Close)

	router := client.NewRouter(
		client.WithSleep(func(context.Context, time.Duration) error { return nil }),
	)
	return NewClient(srv.URL, router)
}

func TestGetGames(t *testing.T) {
	backend := stubbackend.New(
		stubbackend.WithGenres(models.Genre{ID: "g1", Name: "Puzzle"}),
		stubbackend.WithGames(
			models.GameDetails{ID: "1", Name: "Tetris", GenreID: strPtr("g1"), Price: 5, ReleaseDate: "1984-06-06"},
			models.GameDetails{ID: "2", Name: "Portal", GenreID: strPtr("g1"), Price: 10, ReleaseDate: "2007-10-10"},
		),
	)
	c := newTestClient(t, backend)

	res := c.GetGames(context.Background(), 1, 10, "")
	require.True(t, res.IsSuccess())
	page := res.MustData()
	assert.Equal(t, 2, page.Count)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Portal", page.Data[0].Name)
	assert.Equal(t, "Puzzle", page.Data[0].Genre)

	res = c.GetGames(context.Background(), 1, 10, "tet")
	require.True(t, res.IsSuccess())
	assert.Equal(t, 1, res.Value().Count)
}

func TestGetGames_FailureCarriesNormalizedMessages(t *testing.T) {
	backend := stubbackend.New()
	backend.FailNext(stubbackend.RouteListGames, stubbackend.Failure{
		Status: http.StatusInternalServerError,
		Body:   `{"title":"Boom","errors":["db down"]}`,
	})
	c := newTestClient(t, backend)

	res := c.GetGames(context.Background(), 1, 5, "")
	require.True(t, res.IsFailure())
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode())
	assert.Equal(t, []string{"Boom", "db down"}, res.Messages())
	assert.Equal(t, "Boom\ndb down", res.Err().Error())
	assert.Equal(t, 1, backend.Hits(stubbackend.RouteListGames))
}

func TestGetGames_ConnectivityFailure(t *testing.T) {
	backend := stubbackend.New()
	backend.DropNext(stubbackend.RouteListGames, 3)
	c := newTestClient(t, backend)

	res := c.GetGames(context.Background(), 1, 5, "")
	require.True(t, res.IsFailure())
	assert.True(t, apierrors.IsConnectivity(res.Err()))
	assert.Equal(t, []string{apierrors.ConnectivityMessage}, res.Messages())
	assert.Equal(t, 3, backend.Hits(stubbackend.RouteListGames))
}

func TestGetGame_NotFound(t *testing.T) {
	c := newTestClient(t, stubbackend.New())

	res := c.GetGame(context.Background(), "missing")
	require.True(t, res.IsFailure())
	assert.Equal(t, http.StatusNotFound, res.StatusCode())
	assert.Equal(t, []string{"Resource not found."}, res.Messages())
}

func TestCreateGame_UploadsImage(t *testing.T) {
	backend := stubbackend.New()
	c := newTestClient(t, backend)

	cmd := c.CreateGame(context.Background(), models.GameDetails{
		Name:        "Celeste",
		GenreID:     strPtr("g1"),
		Description: "Climb",
		Price:       19.99,
		ReleaseDate: "2018-01-25",
		ImageFile:   &models.FileUpload{Name: "celeste.png", Content: strings.NewReader("png-bytes")},
	})
	require.True(t, cmd.Succeeded, cmd.Errors)
	assert.Empty(t, cmd.Errors)

	games := backend.Games()
	require.Len(t, games, 1)
	assert.Equal(t, "Celeste", games[0].Name)
	assert.Equal(t, 19.99, games[0].Price)
	require.NotNil(t, games[0].GenreID)
	assert.Equal(t, "g1", *games[0].GenreID)
	assert.Equal(t, "/images/celeste.png", games[0].ImageURI)

	data, ok := backend.Upload(games[0].ID)
	require.True(t, ok)
	assert.Equal(t, "png-bytes", string(data))
}

func TestUpdateGame(t *testing.T) {
	backend := stubbackend.New(stubbackend.WithGames(
		models.GameDetails{ID: "1", Name: "Tetris", GenreID: strPtr("g1"), Price: 5},
	))
	c := newTestClient(t, backend)

	cmd := c.UpdateGame(context.Background(), models.GameDetails{ID: "1", Name: "Tetris 99", Price: 7.5, ReleaseDate: "2019-02-13"})
	require.True(t, cmd.Succeeded, cmd.Errors)

	g, ok := backend.Game("1")
	require.True(t, ok)
	assert.Equal(t, "Tetris 99", g.Name)
	assert.Equal(t, 7.5, g.Price)
	assert.Nil(t, g.GenreID, "genreId is omitted from the form when unset")
}

func TestUpdateGame_ValidationErrors(t *testing.T) {
	backend := stubbackend.New(stubbackend.WithGames(models.GameDetails{ID: "1", Name: "Tetris", Price: 5}))
	c := newTestClient(t, backend)

	cmd := c.UpdateGame(context.Background(), models.GameDetails{ID: "1", Name: "", Price: 500})
	assert.False(t, cmd.Succeeded)
	assert.Equal(t, []string{
		"One or more validation errors occurred.",
		"The Name field is required.",
		"The field Price must be between 1 and 100.",
	}, cmd.Errors)
}

func TestUpdateGame_RequiresID(t *testing.T) {
	backend := stubbackend.New()
	c := newTestClient(t, backend)

	cmd := c.UpdateGame(context.Background(), models.GameDetails{Name: "x", Price: 1})
	assert.False(t, cmd.Succeeded)
	assert.Equal(t, 0, backend.Hits(stubbackend.RouteUpdateGame))
}

func TestDeleteGame(t *testing.T) {
	backend := stubbackend.New(stubbackend.WithGames(models.GameDetails{ID: "1", Name: "Tetris", Price: 5}))
	c := newTestClient(t, backend)

	cmd := c.DeleteGame(context.Background(), "1")
	assert.True(t, cmd.Succeeded)
	_, ok := backend.Game("1")
	assert.False(t, ok)

	cmd = c.DeleteGame(context.Background(), "1")
	assert.False(t, cmd.Succeeded)
	assert.Equal(t, []string{"Resource not found."}, cmd.Errors)
}
