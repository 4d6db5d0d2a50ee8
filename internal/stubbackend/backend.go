// Package stubbackend provides an in-memory storefront backend for tests.
//
// Purpose:
//
//	Serves the games, genres and baskets endpoints the resource clients call,
//	backed by maps instead of a database. Tests can queue failures per route,
//	drop connections to simulate transport errors, hold requests open to
//	observe in-flight behavior, and count hits.
//
// Routes:
//   - GET    /games?pageNumber=&pageSize=&name=
//   - GET    /games/{id}
//   - POST   /games            (multipart/form-data)
//   - PUT    /games/{id}       (multipart/form-data)
//   - DELETE /games/{id}
//   - GET    /genres
//   - GET    /baskets/{customerId}
//   - PUT    /baskets/{customerId}  ({"items":[{"id","quantity"}]})
//   - DELETE /baskets/{customerId}
//
// Thread Safety:
//   - All state is guarded by one mutex; handlers are safe for concurrent use.
package stubbackend

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/models"
)

// Route keys used for failure injection and hit counting.
const (
	RouteListGames    = "GET /games"
	RouteGetGame      = "GET /games/{id}"
	RouteCreateGame   = "POST /games"
	RouteUpdateGame   = "PUT /games/{id}"
	RouteDeleteGame   = "DELETE /games/{id}"
	RouteListGenres   = "GET /genres"
	RouteGetBasket    = "GET /baskets/{customerId}"
	RouteUpdateBasket = "PUT /baskets/{customerId}"
	RouteDeleteBasket = "DELETE /baskets/{customerId}"
)

// Failure is a queued response that replaces the next normal one on a route.
// A zero Status drops the connection without writing a response.
type Failure struct {
	Status      int
	ContentType string
	Body        string
}

// Backend is an in-memory storefront API.
type Backend struct {
	mu       sync.Mutex
	genres   []models.Genre
	games    map[string]models.GameDetails
	baskets  map[string]models.CustomerBasket
	uploads  map[string][]byte
	failures map[string][]Failure
	gates    map[string]chan struct{}
	hits     map[string]int
	logger   *zap.Logger

	handler http.Handler
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the backend logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithGenres seeds the genre list.
func WithGenres(genres ...models.Genre) Option {
	return func(b *Backend) {
		b.genres = append(b.genres, genres...)
	}
}

// WithGames seeds the catalog. Games without an id get a generated one.
func WithGames(games ...models.GameDetails) Option {
	return func(b *Backend) {
		for _, g := range games {
			if g.ID == "" {
				g.ID = uuid.NewString()
			}
			g.ImageFile = nil
			b.games[g.ID] = g
		}
	}
}

// WithBasket seeds a customer's basket.
func WithBasket(basket models.CustomerBasket) Option {
	return func(b *Backend) {
		b.baskets[basket.CustomerID] = *basket.Clone()
	}
}

// New creates a Backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		games:    make(map[string]models.GameDetails),
		baskets:  make(map[string]models.CustomerBasket),
		uploads:  make(map[string][]byte),
		failures: make(map[string][]Failure),
		gates:    make(map[string]chan struct{}),
		hits:     make(map[string]int),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.handler = b.routes()
	return b
}

// Start serves the backend on an httptest server. The caller must Close it.
// Keep-alives are off so a dropped connection is never a reused one, which
// net/http would silently retry.
func (b *Backend) Start() *httptest.Server {
	srv := httptest.NewUnstartedServer(b)
	srv.Config.SetKeepAlivesEnabled(false)
	srv.Start()
	return srv
}

// ServeHTTP implements http.Handler.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.handler.ServeHTTP(w, r)
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/games", b.route(RouteListGames, b.listGames))
	r.Post("/games", b.route(RouteCreateGame, b.createGame))
	r.Get("/games/{id}", b.route(RouteGetGame, b.getGame))
	r.Put("/games/{id}", b.route(RouteUpdateGame, b.updateGame))
	r.Delete("/games/{id}", b.route(RouteDeleteGame, b.deleteGame))

	r.Get("/genres", b.route(RouteListGenres, b.listGenres))

	r.Get("/baskets/{customerId}", b.route(RouteGetBasket, b.getBasket))
	r.Put("/baskets/{customerId}", b.route(RouteUpdateBasket, b.updateBasket))
	r.Delete("/baskets/{customerId}", b.route(RouteDeleteBasket, b.deleteBasket))

	return r
}

// route counts the hit, applies any gate or queued failure, then serves.
func (b *Backend) route(key string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[key]++
		gate := b.gates[key]
		var failure *Failure
		if queue := b.failures[key]; len(queue) > 0 {
			failure = &queue[0]
			b.failures[key] = queue[1:]
		}
		b.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}

		if failure != nil {
			b.logger.Debug("injecting failure", zap.String("route", key), zap.Int("status", failure.Status))
			if failure.Status == 0 {
				dropConnection(w)
				return
			}
			contentType := failure.ContentType
			if contentType == "" {
				contentType = "application/problem+json"
			}
			w.Header().Set("Content-Type", contentType)
			w.WriteHeader(failure.Status)
			_, _ = w.Write([]byte(failure.Body))
			return
		}

		next(w, r)
	}
}

// FailNext queues failures returned by the next calls to route.
func (b *Backend) FailNext(route string, failures ...Failure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = append(b.failures[route], failures...)
}

// DropNext makes the next n calls to route end with a closed connection.
func (b *Backend) DropNext(route string, n int) {
	drops := make([]Failure, n)
	b.FailNext(route, drops...)
}

// Hold blocks calls to route until the returned release func is called.
func (b *Backend) Hold(route string) (release func()) {
	gate := make(chan struct{})
	b.mu.Lock()
	b.gates[route] = gate
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.gates, route)
			b.mu.Unlock()
			close(gate)
		})
	}
}

// Hits returns how many requests reached route, including failed ones.
func (b *Backend) Hits(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

// Basket returns a copy of the stored basket for customerID.
func (b *Backend) Basket(customerID string) (models.CustomerBasket, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	basket, ok := b.baskets[customerID]
	if !ok {
		return models.CustomerBasket{}, false
	}
	return *basket.Clone(), true
}

// Game returns the stored game with id.
func (b *Backend) Game(id string) (models.GameDetails, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.games[id]
	return g, ok
}

// Upload returns the bytes of the image uploaded for game id.
func (b *Backend) Upload(id string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.uploads[id]
	return data, ok
}

// Games returns all stored games ordered by name.
func (b *Backend) Games() []models.GameDetails {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sortedGamesLocked()
}

func (b *Backend) sortedGamesLocked() []models.GameDetails {
	out := make([]models.GameDetails, 0, len(b.games))
	for _, g := range b.games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func dropConnection(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		panic("stubbackend: response writer does not support hijacking")
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		panic(err)
	}
	_ = conn.Close()
}
