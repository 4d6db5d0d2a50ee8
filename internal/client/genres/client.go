// Package genres provides the API client for catalog genres.
package genres

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/client"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/client/problem"
	apierrors "github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/errors"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/models"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/result"
)

// Option configures a Client.
type Option func(*Client)

// WithNormalizer replaces the error body normalizer.
func WithNormalizer(n *problem.Normalizer) Option {
	return func(c *Client) {
		if n != nil {
			c.problems = n
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client provides access to the genres API.
type Client struct {
	baseURL  string
	router   *client.Router
	problems *problem.Normalizer
	logger   *zap.Logger
}

// NewClient creates a genres client.
func NewClient(baseURL string, router *client.Router, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		router:   router,
		problems: problem.New(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetGenres lists every genre.
func (c *Client) GetGenres(ctx context.Context) result.Result[[]models.Genre] {
	resp, err := c.router.RouteRequestWithRetries(ctx, c.baseURL+"/genres", &client.RequestOptions{
		Method:   http.MethodGet,
		CallName: "genres.list",
	})
	if err != nil {
		return result.Fail[[]models.Genre](err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return result.Fail[[]models.Genre](apierrors.NewApplicationError(resp.StatusCode, c.problems.HandleRequestError(resp)))
	}
	defer resp.Body.Close()

	genres := []models.Genre{}
	if err := json.NewDecoder(resp.Body).Decode(&genres); err != nil {
		c.logger.Warn("failed to decode genres response", zap.Error(err))
		return result.Fail[[]models.Genre](fmt.Errorf("decode genres: %w", err))
	}
	return result.Ok(genres)
}
