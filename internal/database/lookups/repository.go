// Package lookups reads and seeds the four reference tables a book points
// into: author, language, owner and status.
package lookups

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

var ErrUnknownKind = errors.New("unknown lookup kind")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type labelColumns struct {
	ID   uint    `gorm:"column:id"`
	Name *string `gorm:"column:name"`
}

type authorColumns struct {
	ID        uint    `gorm:"column:id"`
	FirstName *string `gorm:"column:firstname"`
	LastName  *string `gorm:"column:lastname"`
}

// ListLookup returns every row of one lookup table ordered by id. Authors
// are labelled "Lastname, Firstname".
func (r *Repository) ListLookup(ctx context.Context, kind catalog.LookupKind) ([]catalog.LookupOption, error) {
	if kind == catalog.LookupAuthor {
		return r.listAuthors(ctx)
	}

	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var cols []labelColumns
	err = r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return tx.Table(table).Select("id AS id, name AS name").Order("id").Scan(&cols).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	options := make([]catalog.LookupOption, 0, len(cols))
	for _, c := range cols {
		label := ""
		if c.Name != nil {
			label = *c.Name
		}
		options = append(options, catalog.LookupOption{ID: c.ID, Label: label})
	}
	return options, nil
}

func (r *Repository) listAuthors(ctx context.Context) ([]catalog.LookupOption, error) {
	var cols []authorColumns
	err := r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return tx.Table("author").Select("id AS id, firstname AS firstname, lastname AS lastname").Order("id").Scan(&cols).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}

	options := make([]catalog.LookupOption, 0, len(cols))
	for _, c := range cols {
		var first, last string
		if c.FirstName != nil {
			first = *c.FirstName
		}
		if c.LastName != nil {
			last = *c.LastName
		}
		options = append(options, catalog.LookupOption{ID: c.ID, Label: catalog.AuthorDisplayName(first, last)})
	}
	return options, nil
}

// EnsureAuthor returns the id of the author with exactly these names,
// creating the row when it does not exist yet.
func (r *Repository) EnsureAuthor(ctx context.Context, firstName, lastName string) (uint, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" && lastName == "" {
		return 0, fmt.Errorf("author name is empty")
	}

	var id uint
	err := r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return ensureRow(tx, "author",
			"firstname = ? AND lastname = ?", []interface{}{firstName, lastName},
			"(firstname, lastname) VALUES (?, ?)", &id)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to ensure author %s %s: %w", firstName, lastName, err)
	}
	return id, nil
}

// EnsureLabel returns the id of the language, owner or status row with the
// given name, creating it when missing.
func (r *Repository) EnsureLabel(ctx context.Context, kind catalog.LookupKind, name string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%s name is empty", kind)
	}
	if kind == catalog.LookupAuthor {
		return 0, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	var id uint
	err = r.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return ensureRow(tx, table, "name = ?", []interface{}{name}, "(name) VALUES (?)", &id)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to ensure %s %q: %w", kind, name, err)
	}
	return id, nil
}

// ensureRow looks up the lowest id in table matching where and inserts the
// values when nothing matches. Ids are read positionally so the declared
// case of the id column does not matter.
func ensureRow(tx *gorm.DB, table, where string, args []interface{}, values string, id *uint) error {
	var ids []uint
	query := "SELECT id FROM " + table + " WHERE " + where + " ORDER BY id LIMIT 1"
	if err := tx.Raw(query, args...).Scan(&ids).Error; err != nil {
		return err
	}
	if len(ids) > 0 {
		*id = ids[0]
		return nil
	}
	if err := tx.Raw("INSERT INTO "+table+" "+values+" RETURNING id", args...).Scan(id).Error; err != nil {
		return err
	}
	if *id == 0 {
		return errors.New("no id returned")
	}
	return nil
}

func tableFor(kind catalog.LookupKind) (string, error) {
	switch kind {
	case catalog.LookupAuthor:
		return entities.Author{}.TableName(), nil
	case catalog.LookupLanguage:
		return entities.Language{}.TableName(), nil
	case catalog.LookupOwner:
		return entities.Owner{}.TableName(), nil
	case catalog.LookupStatus:
		return entities.Status{}.TableName(), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}
