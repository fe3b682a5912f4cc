// Package seed loads a YAML description of lookup rows and books into the
// catalog. Lookups are inserted when missing; books go through the same
// create path as the add form, so they are validated and their labels
// resolved exactly as a form submission would be.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/bookcatalog/internal/catalog"
)

type File struct {
	Authors   []Author `yaml:"authors"`
	Languages []string `yaml:"languages"`
	Owners    []string `yaml:"owners"`
	Statuses  []string `yaml:"statuses"`
	Books     []Book   `yaml:"books"`
}

type Author struct {
	FirstName string `yaml:"firstname"`
	LastName  string `yaml:"lastname"`
}

// Book refers to its lookups by display label, authors as "Lastname, Firstname".
type Book struct {
	Title         string `yaml:"title"`
	Summary       string `yaml:"summary"`
	ISBN          string `yaml:"isbn"`
	Category      string `yaml:"category"`
	PublishedDate string `yaml:"published_date"`
	Author        string `yaml:"author"`
	Language      string `yaml:"language"`
	Owner         string `yaml:"owner"`
	Status        string `yaml:"status"`
}

func (b Book) input() catalog.CreateInput {
	return catalog.CreateInput{
		Title:         b.Title,
		Summary:       b.Summary,
		ISBN:          b.ISBN,
		Category:      b.Category,
		PublishedDate: b.PublishedDate,
		Author:        b.Author,
		Language:      b.Language,
		Owner:         b.Owner,
		Status:        b.Status,
	}
}

// LookupWriter inserts lookup rows that do not exist yet.
type LookupWriter interface {
	EnsureAuthor(ctx context.Context, firstName, lastName string) (uint, error)
	EnsureLabel(ctx context.Context, kind catalog.LookupKind, name string) (uint, error)
}

// BookCreator is the catalog write path.
type BookCreator interface {
	Titles(ctx context.Context) ([]catalog.BookRef, error)
	CreateBook(ctx context.Context, in catalog.CreateInput) (catalog.MutationResult, error)
}

type Result struct {
	Lookups      int
	BooksCreated int
	BooksSkipped int
	Rejected     []Rejection
}

// Rejection is a book the create path refused.
type Rejection struct {
	Title string
	Err   error
}

func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a seed document. Unknown keys are rejected so typos in
// field names do not silently drop data.
func Parse(r io.Reader) (*File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &file, nil
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &file, nil
}

// Apply writes the lookups, then creates every book whose title is not in
// the catalog yet. A rejected book is reported in Result and does not stop
// the remaining ones; only store failures abort.
func Apply(ctx context.Context, file *File, lookups LookupWriter, books BookCreator) (*Result, error) {
	result := &Result{}

	for _, a := range file.Authors {
		if _, err := lookups.EnsureAuthor(ctx, a.FirstName, a.LastName); err != nil {
			return result, err
		}
		result.Lookups++
	}
	labels := []struct {
		kind  catalog.LookupKind
		names []string
	}{
		{catalog.LookupLanguage, file.Languages},
		{catalog.LookupOwner, file.Owners},
		{catalog.LookupStatus, file.Statuses},
	}
	for _, group := range labels {
		for _, name := range group.names {
			if _, err := lookups.EnsureLabel(ctx, group.kind, name); err != nil {
				return result, err
			}
			result.Lookups++
		}
	}

	refs, err := books.Titles(ctx)
	if err != nil {
		return result, err
	}
	existing := make(map[string]bool, len(refs))
	for _, ref := range refs {
		existing[ref.Title] = true
	}

	for _, b := range file.Books {
		if existing[b.Title] {
			result.BooksSkipped++
			continue
		}
		_, err := books.CreateBook(ctx, b.input())
		if errors.Is(err, catalog.ErrPersistence) {
			return result, err
		}
		if err != nil {
			result.Rejected = append(result.Rejected, Rejection{Title: b.Title, Err: err})
			continue
		}
		existing[b.Title] = true
		result.BooksCreated++
	}

	return result, nil
}
