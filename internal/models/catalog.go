package models

import "io"

// Genre is a catalog genre.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GameSummary is a row of the paged games listing.
type GameSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Genre       string  `json:"genre"`
	Price       float64 `json:"price"`
	ReleaseDate string  `json:"releaseDate"`
	ImageURI    string  `json:"imageUri,omitempty"`
}

// GamesPage is one page of the games listing.
type GamesPage struct {
	Count int           `json:"count"`
	Data  []GameSummary `json:"data"`
}

// FileUpload is a binary attachment sent as a multipart file field.
type FileUpload struct {
	Name    string
	Content io.Reader
}

// GameDetails is the editable representation of a game. GenreID is a
// pointer because the form omits the field when no genre is chosen.
type GameDetails struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	GenreID     *string     `json:"genreId" yaml:"genreId"`
	Description string      `json:"description" yaml:"description"`
	Price       float64     `json:"price" yaml:"price"`
	ReleaseDate string      `json:"releaseDate" yaml:"releaseDate"`
	ImageURI    string      `json:"imageUri,omitempty" yaml:"imageUri,omitempty"`
	ImageFile   *FileUpload `json:"-" yaml:"-"`
}
