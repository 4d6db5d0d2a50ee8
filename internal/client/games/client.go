// Package games provides the API client for the game catalog.
package games

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
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

// Client provides access to the games API.
type Client struct {
	baseURL  string
	router   *client.Router
	problems *problem.Normalizer
	logger   *zap.Logger
}

// NewClient creates a games client. Every call goes through router.
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

// GetGames retrieves one page of games, optionally filtered by name.
func (c *Client) GetGames(ctx context.Context, pageNumber, pageSize int, nameSearch string) result.Result[models.GamesPage] {
	query := url.Values{}
	query.Set("pageNumber", strconv.Itoa(pageNumber))
	query.Set("pageSize", strconv.Itoa(pageSize))
	if nameSearch != "" {
		query.Set("name", nameSearch)
	}
	endpoint := fmt.Sprintf("%s/games?%s", c.baseURL, query.Encode())

	var page models.GamesPage
	if err := c.getJSON(ctx, endpoint, "games.list", &page); err != nil {
		return result.Fail[models.GamesPage](err)
	}
	if page.Data == nil {
		page.Data = []models.GameSummary{}
	}
	return result.Ok(page)
}

// GetGame retrieves the editable details of one game.
func (c *Client) GetGame(ctx context.Context, id string) result.Result[models.GameDetails] {
	endpoint := fmt.Sprintf("%s/games/%s", c.baseURL, url.PathEscape(id))

	var game models.GameDetails
	if err := c.getJSON(ctx, endpoint, "games.get", &game); err != nil {
		return result.Fail[models.GameDetails](err)
	}
	return result.Ok(game)
}

// CreateGame posts a new game as multipart form data.
func (c *Client) CreateGame(ctx context.Context, game models.GameDetails) result.CommandResult {
	return c.sendForm(ctx, http.MethodPost, c.baseURL+"/games", "games.create", game)
}

// UpdateGame replaces an existing game as multipart form data.
func (c *Client) UpdateGame(ctx context.Context, game models.GameDetails) result.CommandResult {
	if game.ID == "" {
		return result.Failed("game id is required")
	}
	endpoint := fmt.Sprintf("%s/games/%s", c.baseURL, url.PathEscape(game.ID))
	return c.sendForm(ctx, http.MethodPut, endpoint, "games.update", game)
}

// DeleteGame removes a game.
func (c *Client) DeleteGame(ctx context.Context, id string) result.CommandResult {
	endpoint := fmt.Sprintf("%s/games/%s", c.baseURL, url.PathEscape(id))
	resp, err := c.router.RouteRequestWithRetries(ctx, endpoint, &client.RequestOptions{
		Method:   http.MethodDelete,
		CallName: "games.delete",
	})
	if err != nil {
		return result.FailedFrom(err)
	}
	return c.commandResult(resp)
}

func (c *Client) sendForm(ctx context.Context, method, endpoint, call string, game models.GameDetails) result.CommandResult {
	form := gameForm(game)
	body, contentType, err := form.Build()
	if err != nil {
		return result.FailedFrom(fmt.Errorf("build game form: %w", err))
	}

	header := http.Header{}
	header.Set("Content-Type", contentType)

	resp, err := c.router.RouteRequestWithRetries(ctx, endpoint, &client.RequestOptions{
		Method:   method,
		Header:   header,
		Body:     body,
		CallName: call,
	})
	if err != nil {
		return result.FailedFrom(err)
	}
	return c.commandResult(resp)
}

func (c *Client) commandResult(resp *http.Response) result.CommandResult {
	if !isSuccess(resp.StatusCode) {
		return result.Failed(c.problems.HandleRequestError(resp)...)
	}
	_ = resp.Body.Close()
	return result.Succeeded()
}

func (c *Client) getJSON(ctx context.Context, endpoint, call string, out any) error {
	resp, err := c.router.RouteRequestWithRetries(ctx, endpoint, &client.RequestOptions{
		Method:   http.MethodGet,
		CallName: call,
	})
	if err != nil {
		return err
	}

	if !isSuccess(resp.StatusCode) {
		return apierrors.NewApplicationError(resp.StatusCode, c.problems.HandleRequestError(resp))
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("failed to decode games response", zap.String("call", call), zap.Error(err))
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// gameForm lays out the multipart fields the catalog API expects.
func gameForm(game models.GameDetails) *client.MultipartForm {
	form := &client.MultipartForm{}
	form.AddField("name", game.Name)
	if game.GenreID != nil {
		form.AddField("genreId", *game.GenreID)
	}
	form.AddField("description", game.Description)
	form.AddField("price", strconv.FormatFloat(game.Price, 'f', -1, 64))
	form.AddField("releaseDate", game.ReleaseDate)
	if game.ImageFile != nil && game.ImageFile.Content != nil {
		form.AddFile(client.FormFile{
			Field:    "imageFile",
			FileName: game.ImageFile.Name,
			Content:  game.ImageFile.Content,
		})
	}
	return form
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
