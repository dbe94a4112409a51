package book

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned when creating or updating a book with an
	// ISBN that already exists.
	ErrDuplicateISBN = errors.New("isbn already exists")
)

// Book represents a catalog entry. AvailableCopies counts copies currently
// not on loan and is mutated only inside loan transactions.
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	PublishedDate   *string   `json:"published_date,omitempty"`
	Pages           int       `json:"pages"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Query defines filters and pagination for listing books.
type Query struct {
	Q      string
	Author string
	Limit  int
	Offset int
}
