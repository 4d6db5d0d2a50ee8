// Package basket provides the API client for customer baskets.
//
// GetBasket reports failures as errors because the basket cache needs the
// error path. UpdateBasket and DeleteBasket report through CommandResult and
// never return an error.
package basket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
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

// Client provides access to the baskets API.
type Client struct {
	baseURL  string
	router   *client.Router
	problems *problem.Normalizer
	logger   *zap.Logger
}

// NewClient creates a basket client.
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

func (c *Client) basketURL(customerID string) string {
	return fmt.Sprintf("%s/baskets/%s", c.baseURL, url.PathEscape(customerID))
}

// GetBasket fetches the basket of customerID. A non-2xx response becomes an
// *errors.ApplicationError whose message is the newline-joined error list.
func (c *Client) GetBasket(ctx context.Context, customerID string) (*models.CustomerBasket, error) {
	resp, err := c.router.RouteRequestWithRetries(ctx, c.basketURL(customerID), &client.RequestOptions{
		Method:   http.MethodGet,
		CallName: "basket.get",
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apierrors.NewApplicationError(resp.StatusCode, c.problems.HandleRequestError(resp))
	}
	defer resp.Body.Close()

	var basket models.CustomerBasket
	if err := json.NewDecoder(resp.Body).Decode(&basket); err != nil {
		return nil, fmt.Errorf("decode basket: %w", err)
	}
	if basket.Items == nil {
		basket.Items = []models.BasketItem{}
	}
	return &basket, nil
}

// UpdateBasket replaces the stored basket with the id/quantity pairs of basket.
func (c *Client) UpdateBasket(ctx context.Context, basket *models.CustomerBasket) result.CommandResult {
	if basket == nil {
		return result.Failed("basket is required")
	}

	body, err := client.JSONBody(basket.ToUpdateDto())
	if err != nil {
		return result.FailedFrom(err)
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")

	resp, err := c.router.RouteRequestWithRetries(ctx, c.basketURL(basket.CustomerID), &client.RequestOptions{
		Method:   http.MethodPut,
		Header:   header,
		Body:     body,
		CallName: "basket.update",
	})
	if err != nil {
		c.logger.Warn("basket update failed", zap.String("customer_id", basket.CustomerID), zap.Error(err))
		return result.FailedFrom(err)
	}
	return c.commandResult(resp)
}

// DeleteBasket removes the stored basket of customerID.
func (c *Client) DeleteBasket(ctx context.Context, customerID string) result.CommandResult {
	resp, err := c.router.RouteRequestWithRetries(ctx, c.basketURL(customerID), &client.RequestOptions{
		Method:   http.MethodDelete,
		CallName: "basket.delete",
	})
	if err != nil {
		return result.FailedFrom(err)
	}
	return c.commandResult(resp)
}

func (c *Client) commandResult(resp *http.Response) result.CommandResult {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return result.Failed(c.problems.HandleRequestError(resp)...)
	}
	_ = resp.Body.Close()
	return result.Succeeded()
}
