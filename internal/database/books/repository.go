// Package books provides the catalog read path (book joined against its
// lookup tables) and the create and edit write paths.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	rows, err := repo.ListCatalog(ctx)
package books

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Repository handles book reads and writes.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// catalogColumns mirrors the flattened join. Every column is nullable since
// rows written by other tools may leave any of them empty.
type catalogColumns struct {
	ID            uint    `gorm:"column:id"`
	Title         *string `gorm:"column:title"`
	Summary       *string `gorm:"column:summary"`
	ISBN          *string `gorm:"column:isbn"`
	Categories    *string `gorm:"column:categories"`
	PublishedDate *string `gorm:"column:published_date"`
	AuthorID      *uint   `gorm:"column:author_id"`
	LanguageID    *uint   `gorm:"column:language_id"`
	OwnerID       *uint   `gorm:"column:owner_id"`
	StatusID      *uint   `gorm:"column:status_id"`
	AuthorRef     *uint   `gorm:"column:author_ref"`
	AuthorFirst   *string `gorm:"column:author_firstname"`
	AuthorLast    *string `gorm:"column:author_lastname"`
	LanguageName  *string `gorm:"column:language_name"`
	OwnerName     *string `gorm:"column:owner_name"`
	StatusName    *string `gorm:"column:status_name"`
}

// Every column carries an alias: without one SQLite reports the declared
// name (TITLE in older files) and the scan would not find its field.
const catalogSelect = `b.id AS id, b.title AS title, b.summary AS summary, b.isbn AS isbn,
	b.categories AS categories, b.published_date AS published_date,
	b.author AS author_id, b.language AS language_id, b.owner AS owner_id, b.status AS status_id,
	a.id AS author_ref, a.firstname AS author_firstname, a.lastname AS author_lastname,
	l.name AS language_name, o.name AS owner_name, s.name AS status_name`

func catalogQuery(tx *gorm.DB) *gorm.DB {
	return tx.Table("book AS b").
		Select(catalogSelect).
		Joins("LEFT JOIN author AS a ON a.id = b.author").
		Joins("LEFT JOIN language AS l ON l.id = b.language").
		Joins("LEFT JOIN owner AS o ON o.id = b.owner").
		Joins("LEFT JOIN status AS s ON s.id = b.status")
}

// ListCatalog returns every book joined against its lookups, in the order the
// store yields them. A foreign key without a matching lookup row produces a
// nil label, not an error.
func (r *Repository) ListCatalog(ctx context.Context) ([]catalog.Row, error) {
	var cols []catalogColumns
	err := r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return catalogQuery(tx).Scan(&cols).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	rows := make([]catalog.Row, 0, len(cols))
	for _, c := range cols {
		rows = append(rows, c.row())
	}
	return rows, nil
}

// GetBook returns a single joined row. Returns catalog.ErrBookNotFound when no
// book has the id.
func (r *Repository) GetBook(ctx context.Context, id uint) (*catalog.Row, error) {
	var cols []catalogColumns
	err := r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return catalogQuery(tx).Where("b.id = ?", id).Limit(1).Scan(&cols).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load book %d: %w", id, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("book %d: %w", id, catalog.ErrBookNotFound)
	}
	row := cols[0].row()
	return &row, nil
}

const insertBook = `INSERT INTO book
	(title, summary, isbn, categories, published_date, author, language, owner, status)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`

// CreateBook inserts a book and returns its generated id.
func (r *Repository) CreateBook(ctx context.Context, fields catalog.BookFields) (uint, error) {
	var id uint
	err := r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return tx.Raw(insertBook,
			fields.Title, fields.Summary, fields.ISBN, fields.Category, fields.PublishedDate,
			fields.AuthorID, fields.LanguageID, fields.OwnerID, fields.StatusID,
		).Scan(&id).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert book: %w", err)
	}
	if id == 0 {
		return 0, fmt.Errorf("failed to insert book: no id returned")
	}
	return id, nil
}

// UpdateBook overwrites title, summary and author of the book with the given
// id. No other column is touched.
func (r *Repository) UpdateBook(ctx context.Context, id uint, fields catalog.EditFields) error {
	var affected int64
	err := r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Book{}).Where("id = ?", id).Updates(map[string]interface{}{
			"title":   fields.Title,
			"summary": fields.Summary,
			"author":  fields.AuthorID,
		})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return fmt.Errorf("failed to update book %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("book %d: %w", id, catalog.ErrBookNotFound)
	}
	return nil
}

// Count returns the number of stored books.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}

func (c catalogColumns) row() catalog.Row {
	row := catalog.Row{
		ID:            c.ID,
		Title:         deref(c.Title),
		Summary:       deref(c.Summary),
		ISBN:          deref(c.ISBN),
		Category:      deref(c.Categories),
		PublishedDate: deref(c.PublishedDate),
		AuthorID:      derefID(c.AuthorID),
		LanguageID:    derefID(c.LanguageID),
		OwnerID:       derefID(c.OwnerID),
		StatusID:      derefID(c.StatusID),
		Language:      c.LanguageName,
		Owner:         c.OwnerName,
		Status:        c.StatusName,
	}
	if c.AuthorRef != nil {
		name := catalog.AuthorDisplayName(deref(c.AuthorFirst), deref(c.AuthorLast))
		row.Author = &name
	}
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefID(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}
