// Package catalog holds the book catalog domain: the flattened catalog row
// produced by the join query, filtering, lookup label resolution, card
// rendering and the Service that drives the create and edit forms.
//
// The package has no storage dependency. Persistence is reached through the
// Repository interface, implemented by internal/database.
package catalog

import "strings"

// Row is one book joined against its four lookup tables. Lookup labels are
// nil when the foreign key does not match any lookup row.
type Row struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	ISBN          string `json:"isbn"`
	Category      string `json:"category"`
	PublishedDate string `json:"published_date"`

	AuthorID   uint `json:"author_id"`
	LanguageID uint `json:"language_id"`
	OwnerID    uint `json:"owner_id"`
	StatusID   uint `json:"status_id"`

	Author   *string `json:"author"`
	Language *string `json:"language"`
	Owner    *string `json:"owner"`
	Status   *string `json:"status"`
}

// BookRef is a (id, title) pair for the edit selector.
type BookRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// BookFields is the full field set written by the create path.
type BookFields struct {
	Title         string
	Summary       string
	ISBN          string
	Category      string
	PublishedDate string
	AuthorID      uint
	LanguageID    uint
	OwnerID       uint
	StatusID      uint
}

// EditFields is the field set written by the edit path.
type EditFields struct {
	Title    string
	Summary  string
	AuthorID uint
}

// AuthorDisplayName renders "Lastname, Firstname", dropping whichever part is
// empty. It returns "" when both are empty.
func AuthorDisplayName(firstName, lastName string) string {
	first := strings.TrimSpace(firstName)
	last := strings.TrimSpace(lastName)
	switch {
	case first == "" && last == "":
		return ""
	case first == "":
		return last
	case last == "":
		return first
	}
	return last + ", " + first
}

func labelValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
