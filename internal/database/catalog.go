package database

import (
	"context"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/database/lookups"
)

// CatalogStore combines the book and lookup repositories into the single
// persistence boundary the catalog service expects.
type CatalogStore struct {
	Books   *books.Repository
	Lookups *lookups.Repository
}

func (d *Database) CatalogStore() *CatalogStore {
	return &CatalogStore{
		Books:   books.NewRepository(d.DB),
		Lookups: lookups.NewRepository(d.DB),
	}
}

func (s *CatalogStore) ListCatalog(ctx context.Context) ([]catalog.Row, error) {
	return s.Books.ListCatalog(ctx)
}

func (s *CatalogStore) GetBook(ctx context.Context, id uint) (*catalog.Row, error) {
	return s.Books.GetBook(ctx, id)
}

func (s *CatalogStore) CreateBook(ctx context.Context, fields catalog.BookFields) (uint, error) {
	return s.Books.CreateBook(ctx, fields)
}

func (s *CatalogStore) UpdateBook(ctx context.Context, id uint, fields catalog.EditFields) error {
	return s.Books.UpdateBook(ctx, id, fields)
}

func (s *CatalogStore) ListLookup(ctx context.Context, kind catalog.LookupKind) ([]catalog.LookupOption, error) {
	return s.Lookups.ListLookup(ctx, kind)
}
