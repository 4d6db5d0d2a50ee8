package genres

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/client"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/client/problem"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/models"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/stubbackend"
)

func TestGetGenres(t *testing.T) {
	backend := stubbackend.New(stubbackend.WithGenres(
		models.Genre{ID: "2", Name: "Racing"},
		models.Genre{ID: "1", Name: "Fighting"},
	))
	srv := backend.Start()
	defer srv.Close()

	c := NewClient(srv.URL+"/", client.NewRouter())
	res := c.GetGenres(context.Background())

	require.True(t, res.IsSuccess())
	assert.Equal(t, []models.Genre{{ID: "1", Name: "Fighting"}, {ID: "2", Name: "Racing"}}, res.MustData())
}

func TestGetGenres_EmptyList(t *testing.T) {
	srv := stubbackend.New().Start()
	defer srv.Close()

	res := NewClient(srv.URL, client.NewRouter()).GetGenres(context.Background())
	require.True(t, res.IsSuccess())
	assert.Empty(t, res.MustData())
}

func TestGetGenres_UsesNormalizer(t *testing.T) {
	backend := stubbackend.New()
	backend.FailNext(stubbackend.RouteListGenres,
		stubbackend.Failure{Status: http.StatusServiceUnavailable, Body: `{"detail":"Genres are unavailable"}`},
		stubbackend.Failure{Status: http.StatusBadGateway, ContentType: "text/plain", Body: "bad gateway"},
	)
	srv := backend.Start()
	defer srv.Close()

	c := NewClient(srv.URL, client.NewRouter(), WithNormalizer(problem.New(problem.WithRawTextFallback())))

	res := c.GetGenres(context.Background())
	require.True(t, res.IsFailure())
	assert.Equal(t, []string{"Genres are unavailable"}, res.Messages())
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode())

	res = c.GetGenres(context.Background())
	require.True(t, res.IsFailure())
	assert.Equal(t, []string{"bad gateway"}, res.Messages())

	_, err := res.Data()
	assert.Error(t, err)
}

func TestGetGenres_LogsUndecodableBody(t *testing.T) {
	backend := stubbackend.New()
	backend.FailNext(stubbackend.RouteListGenres,
		stubbackend.Failure{Status: http.StatusOK, ContentType: "application/json", Body: `{"not":"a list"}`},
	)
	srv := backend.Start()
	defer srv.Close()

	core, logs := observer.New(zapcore.WarnLevel)
	c := NewClient(srv.URL, client.NewRouter(), WithLogger(zap.New(core)))

	res := c.GetGenres(context.Background())
	require.True(t, res.IsFailure())
	assert.Equal(t, 1, logs.FilterMessage("failed to decode genres response").Len())
}
