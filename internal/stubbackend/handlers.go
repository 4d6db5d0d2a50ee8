package stubbackend

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/models"
)

const maxFormMemory = 10 << 20

func (b *Backend) listGames(w http.ResponseWriter, r *http.Request) {
	pageNumber, err := positiveQueryInt(r, "pageNumber", 1)
	if err != nil {
		writeValidation(w, map[string][]string{"pageNumber": {err.Error()}})
		return
	}
	pageSize, err := positiveQueryInt(r, "pageSize", 5)
	if err != nil {
		writeValidation(w, map[string][]string{"pageSize": {err.Error()}})
		return
	}
	name := strings.ToLower(r.URL.Query().Get("name"))

	b.mu.Lock()
	genreNames := make(map[string]string, len(b.genres))
	for _, g := range b.genres {
		genreNames[g.ID] = g.Name
	}
	var matched []models.GameSummary
	for _, g := range b.sortedGamesLocked() {
		if name != "" && !strings.Contains(strings.ToLower(g.Name), name) {
			continue
		}
		summary := models.GameSummary{
			ID:          g.ID,
			Name:        g.Name,
			Price:       g.Price,
			ReleaseDate: g.ReleaseDate,
			ImageURI:    g.ImageURI,
		}
		if g.GenreID != nil {
			summary.Genre = genreNames[*g.GenreID]
		}
		matched = append(matched, summary)
	}
	b.mu.Unlock()

	page := models.GamesPage{Count: len(matched), Data: []models.GameSummary{}}
	start := (pageNumber - 1) * pageSize
	if start < len(matched) {
		end := start + pageSize
		if end > len(matched) {
			end = len(matched)
		}
		page.Data = matched[start:end]
	}
	writeJSON(w, http.StatusOK, page)
}

func (b *Backend) getGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, ok := b.Game(id)
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (b *Backend) createGame(w http.ResponseWriter, r *http.Request) {
	game, image, ok := b.readGameForm(w, r)
	if !ok {
		return
	}
	game.ID = uuid.NewString()

	b.mu.Lock()
	b.storeGameLocked(game, image)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, game)
}

func (b *Backend) updateGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	game, image, ok := b.readGameForm(w, r)
	if !ok {
		return
	}
	game.ID = id

	b.mu.Lock()
	existing, found := b.games[id]
	if found {
		if image == nil {
			game.ImageURI = existing.ImageURI
		}
		b.storeGameLocked(game, image)
	}
	b.mu.Unlock()

	if !found {
		writeNotFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) deleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	_, found := b.games[id]
	delete(b.games, id)
	delete(b.uploads, id)
	b.mu.Unlock()

	if !found {
		writeNotFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) storeGameLocked(game models.GameDetails, image *upload) {
	if image != nil {
		b.uploads[game.ID] = image.data
		game.ImageURI = "/images/" + image.name
	}
	b.games[game.ID] = game
}

type upload struct {
	name string
	data []byte
}

func (b *Backend) readGameForm(w http.ResponseWriter, r *http.Request) (models.GameDetails, *upload, bool) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		b.logger.Debug("invalid game form", zap.Error(err))
		writeProblem(w, http.StatusBadRequest, map[string]any{"detail": "Request body must be multipart/form-data."})
		return models.GameDetails{}, nil, false
	}

	game := models.GameDetails{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		ReleaseDate: r.FormValue("releaseDate"),
	}
	if _, ok := r.MultipartForm.Value["genreId"]; ok {
		genreID := r.FormValue("genreId")
		game.GenreID = &genreID
	}

	fieldErrors := map[string][]string{}
	if strings.TrimSpace(game.Name) == "" {
		fieldErrors["Name"] = append(fieldErrors["Name"], "The Name field is required.")
	}
	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	switch {
	case err != nil:
		fieldErrors["Price"] = append(fieldErrors["Price"], "The Price field must be a number.")
	case price < 1 || price > 100:
		fieldErrors["Price"] = append(fieldErrors["Price"], "The field Price must be between 1 and 100.")
	}
	game.Price = price
	if len(fieldErrors) > 0 {
		writeValidation(w, fieldErrors)
		return models.GameDetails{}, nil, false
	}

	file, header, err := r.FormFile("imageFile")
	if err != nil {
		return game, nil, true
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, map[string]any{"detail": "Unable to read image file."})
		return models.GameDetails{}, nil, false
	}
	return game, &upload{name: header.Filename, data: data}, true
}

func (b *Backend) listGenres(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	genres := append([]models.Genre{}, b.genres...)
	b.mu.Unlock()

	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })
	writeJSON(w, http.StatusOK, genres)
}

// getBasket returns an empty basket for customers that never saved one.
func (b *Backend) getBasket(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")
	basket, ok := b.Basket(customerID)
	if !ok {
		basket = models.CustomerBasket{CustomerID: customerID, Items: []models.BasketItem{}}
	}
	writeJSON(w, http.StatusOK, basket)
}

// updateBasket replaces the whole basket and fills display fields from the catalog.
func (b *Backend) updateBasket(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")

	var dto models.UpdateBasketDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeProblem(w, http.StatusBadRequest, map[string]any{
			"title":  "Invalid request body.",
			"errors": []string{err.Error()},
		})
		return
	}

	var problems []string
	for _, item := range dto.Items {
		if item.ID == "" {
			problems = append(problems, "Item id is required.")
		}
		if item.Quantity <= 0 {
			problems = append(problems, "Quantity must be greater than 0.")
		}
	}
	if len(problems) > 0 {
		writeProblem(w, http.StatusBadRequest, map[string]any{
			"title":  "One or more validation errors occurred.",
			"errors": problems,
		})
		return
	}

	b.mu.Lock()
	previous := b.baskets[customerID]
	basket := models.CustomerBasket{CustomerID: customerID, Items: make([]models.BasketItem, 0, len(dto.Items))}
	for _, item := range dto.Items {
		line := models.BasketItem{ID: item.ID, Quantity: item.Quantity, CatalogItemID: item.ID}
		if g, ok := b.games[item.ID]; ok {
			line.Name = g.Name
			line.UnitPrice = g.Price
			line.ImageURL = g.ImageURI
		} else if i := previous.FindItem(item.ID); i >= 0 {
			prev := previous.Items[i]
			line.CatalogItemID = prev.CatalogItemID
			line.Name = prev.Name
			line.UnitPrice = prev.UnitPrice
			line.ImageURL = prev.ImageURL
		}
		basket.TotalAmount += line.UnitPrice * float64(line.Quantity)
		basket.Items = append(basket.Items, line)
	}
	b.baskets[customerID] = basket
	b.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) deleteBasket(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")
	b.mu.Lock()
	delete(b.baskets, customerID)
	b.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func positiveQueryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, errInvalidQuery(key)
	}
	return v, nil
}

type errInvalidQuery string

func (e errInvalidQuery) Error() string {
	return "The field " + string(e) + " must be a positive integer."
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, body map[string]any) {
	if _, ok := body["status"]; !ok {
		body["status"] = status
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeValidation(w http.ResponseWriter, fieldErrors map[string][]string) {
	writeProblem(w, http.StatusBadRequest, map[string]any{
		"title":  "One or more validation errors occurred.",
		"errors": fieldErrors,
	})
}

func writeNotFound(w http.ResponseWriter) {
	writeProblem(w, http.StatusNotFound, map[string]any{"detail": "Resource not found."})
}
