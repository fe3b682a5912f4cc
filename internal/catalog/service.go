package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

// Repository is the persistence boundary of the catalog. Every call reads
// the store afresh; nothing is cached between calls.
type Repository interface {
	ListCatalog(ctx context.Context) ([]Row, error)
	GetBook(ctx context.Context, id uint) (*Row, error)
	CreateBook(ctx context.Context, fields BookFields) (uint, error)
	UpdateBook(ctx context.Context, id uint, fields EditFields) error
	ListLookup(ctx context.Context, kind LookupKind) ([]LookupOption, error)
}

// Command is an instruction a successful mutation hands back to the caller.
type Command string

// CommandReloadCatalog asks the presentation layer to reload the catalog view.
const CommandReloadCatalog Command = "reload_catalog"

// MutationResult is returned by successful create and update calls.
type MutationResult struct {
	BookID   uint      `json:"id"`
	Commands []Command `json:"commands"`
}

// Has reports whether cmd was issued.
func (r MutationResult) Has(cmd Command) bool {
	for _, c := range r.Commands {
		if c == cmd {
			return true
		}
	}
	return false
}

type MutationAction string

const (
	ActionCreate MutationAction = "create"
	ActionUpdate MutationAction = "update"
)

// Mutation describes a write that reached the store.
type Mutation struct {
	Action MutationAction
	BookID uint
	Title  string
}

// Recorder observes mutations and rejected submissions.
type Recorder interface {
	RecordMutation(ctx context.Context, m Mutation)
	RecordRejection(ctx context.Context, action MutationAction, err error)
}

// CreateInput is the add form as submitted. Lookups are given by label.
type CreateInput struct {
	Title         string `form:"title" json:"title"`
	Summary       string `form:"summary" json:"summary"`
	ISBN          string `form:"isbn" json:"isbn"`
	Category      string `form:"category" json:"category"`
	PublishedDate string `form:"published_date" json:"published_date"`
	Author        string `form:"author" json:"author"`
	Language      string `form:"language" json:"language"`
	Owner         string `form:"owner" json:"owner"`
	Status        string `form:"status" json:"status"`
}

func (in CreateInput) label(kind LookupKind) string {
	switch kind {
	case LookupAuthor:
		return in.Author
	case LookupLanguage:
		return in.Language
	case LookupOwner:
		return in.Owner
	case LookupStatus:
		return in.Status
	}
	return ""
}

// UpdateInput is the edit form as submitted. Only title, summary and author
// are written by the edit path; language, owner and status stay as stored.
type UpdateInput struct {
	Title   string `form:"title" json:"title"`
	Summary string `form:"summary" json:"summary"`
	Author  string `form:"author" json:"author"`
}

// View is everything the catalog page needs from one catalog load.
type View struct {
	Rows    []Row
	Total   int
	Options Options
}

// EditForm is a book with its dropdown defaults resolved to labels.
type EditForm struct {
	Book          Row
	Choices       Choices
	AuthorLabel   string
	LanguageLabel string
	OwnerLabel    string
	StatusLabel   string
}

type Service struct {
	repo      Repository
	recorders []Recorder
	log       logrus.FieldLogger
}

type Option func(*Service)

// WithRecorders attaches mutation observers such as audit and metrics.
func WithRecorders(recorders ...Recorder) Option {
	return func(s *Service) {
		for _, r := range recorders {
			if r != nil {
				s.recorders = append(s.recorders, r)
			}
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) {
		s.log = log
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListBooks loads the catalog and applies the filter.
func (s *Service) ListBooks(ctx context.Context, f Filter) ([]Row, error) {
	rows, err := s.repo.ListCatalog(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list books", Err: err}
	}
	return Apply(rows, f), nil
}

// Browse loads the catalog once and returns the filtered rows together with
// the total count and the filter options of the unfiltered catalog.
func (s *Service) Browse(ctx context.Context, f Filter) (*View, error) {
	rows, err := s.repo.ListCatalog(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list books", Err: err}
	}
	return &View{
		Rows:    Apply(rows, f),
		Total:   len(rows),
		Options: BuildOptions(rows),
	}, nil
}

// FilterOptions returns the values offered by the categorical filters.
func (s *Service) FilterOptions(ctx context.Context) (Options, error) {
	rows, err := s.repo.ListCatalog(ctx)
	if err != nil {
		return Options{}, &PersistenceError{Op: "list books", Err: err}
	}
	return BuildOptions(rows), nil
}

// Titles lists every book for the edit selector, in catalog order.
func (s *Service) Titles(ctx context.Context) ([]BookRef, error) {
	rows, err := s.repo.ListCatalog(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list books", Err: err}
	}
	refs := make([]BookRef, 0, len(rows))
	for _, r := range rows {
		refs = append(refs, BookRef{ID: r.ID, Title: r.Title})
	}
	return refs, nil
}

func (s *Service) GetBook(ctx context.Context, id uint) (*Row, error) {
	row, err := s.repo.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return nil, err
		}
		return nil, &PersistenceError{Op: "get book", Err: err}
	}
	return row, nil
}

func (s *Service) ListLookup(ctx context.Context, kind LookupKind) ([]LookupOption, error) {
	options, err := s.repo.ListLookup(ctx, kind)
	if err != nil {
		return nil, &PersistenceError{Op: "list " + string(kind), Err: err}
	}
	return options, nil
}

// LoadChoices reads all four lookup tables for the book forms.
func (s *Service) LoadChoices(ctx context.Context) (*Choices, error) {
	var choices Choices
	for _, kind := range LookupKinds {
		options, err := s.ListLookup(ctx, kind)
		if err != nil {
			return nil, err
		}
		choices.set(kind, options)
	}
	return &choices, nil
}

// EditForm fetches a book and resolves each of its foreign keys back to the
// label the matching dropdown should default to.
func (s *Service) EditForm(ctx context.Context, id uint) (*EditForm, error) {
	row, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	choices, err := s.LoadChoices(ctx)
	if err != nil {
		return nil, err
	}
	return &EditForm{
		Book:          *row,
		Choices:       *choices,
		AuthorLabel:   LabelFor(choices.Authors, row.AuthorID),
		LanguageLabel: LabelFor(choices.Languages, row.LanguageID),
		OwnerLabel:    LabelFor(choices.Owners, row.OwnerID),
		StatusLabel:   LabelFor(choices.Statuses, row.StatusID),
	}, nil
}

// CreateBook validates the add form, resolves every dropdown label against
// freshly loaded lookup rows and inserts the book.
func (s *Service) CreateBook(ctx context.Context, in CreateInput) (MutationResult, error) {
	result, err := s.createBook(ctx, in)
	if err != nil {
		s.rejected(ctx, ActionCreate, err)
		return MutationResult{}, err
	}
	s.mutated(ctx, Mutation{Action: ActionCreate, BookID: result.BookID, Title: in.Title})
	return result, nil
}

func (s *Service) createBook(ctx context.Context, in CreateInput) (MutationResult, error) {
	if strings.TrimSpace(in.Title) == "" {
		return MutationResult{}, &ValidationError{Field: "title", Message: "title is required"}
	}
	for _, kind := range LookupKinds {
		if in.label(kind) == "" {
			return MutationResult{}, &ValidationError{Field: string(kind), Message: "please choose a value"}
		}
	}

	ids := make(map[LookupKind]uint, len(LookupKinds))
	for _, kind := range LookupKinds {
		id, err := s.resolve(ctx, kind, in.label(kind))
		if err != nil {
			return MutationResult{}, err
		}
		ids[kind] = id
	}

	id, err := s.repo.CreateBook(ctx, BookFields{
		Title:         in.Title,
		Summary:       in.Summary,
		ISBN:          in.ISBN,
		Category:      in.Category,
		PublishedDate: in.PublishedDate,
		AuthorID:      ids[LookupAuthor],
		LanguageID:    ids[LookupLanguage],
		OwnerID:       ids[LookupOwner],
		StatusID:      ids[LookupStatus],
	})
	if err != nil {
		return MutationResult{}, &PersistenceError{Op: "create book", Err: err}
	}

	return MutationResult{BookID: id, Commands: []Command{CommandReloadCatalog}}, nil
}

// UpdateBook overwrites title, summary and author of an existing book.
func (s *Service) UpdateBook(ctx context.Context, id uint, in UpdateInput) (MutationResult, error) {
	result, err := s.updateBook(ctx, id, in)
	if err != nil {
		s.rejected(ctx, ActionUpdate, err)
		return MutationResult{}, err
	}
	s.mutated(ctx, Mutation{Action: ActionUpdate, BookID: id, Title: in.Title})
	return result, nil
}

func (s *Service) updateBook(ctx context.Context, id uint, in UpdateInput) (MutationResult, error) {
	if id == 0 {
		return MutationResult{}, &ValidationError{Field: "book", Message: "please select a book"}
	}
	if strings.TrimSpace(in.Title) == "" {
		return MutationResult{}, &ValidationError{Field: "title", Message: "title is required"}
	}
	if in.Author == "" {
		return MutationResult{}, &ValidationError{Field: string(LookupAuthor), Message: "please choose a value"}
	}

	authorID, err := s.resolve(ctx, LookupAuthor, in.Author)
	if err != nil {
		return MutationResult{}, err
	}

	err = s.repo.UpdateBook(ctx, id, EditFields{Title: in.Title, Summary: in.Summary, AuthorID: authorID})
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return MutationResult{}, err
		}
		return MutationResult{}, &PersistenceError{Op: "update book", Err: err}
	}

	return MutationResult{BookID: id, Commands: []Command{CommandReloadCatalog}}, nil
}

func (s *Service) resolve(ctx context.Context, kind LookupKind, label string) (uint, error) {
	options, err := s.ListLookup(ctx, kind)
	if err != nil {
		return 0, err
	}
	return Resolve(kind, options, label)
}

func (s *Service) mutated(ctx context.Context, m Mutation) {
	s.log.WithFields(logrus.Fields{
		"action":  m.Action,
		"book_id": m.BookID,
		"title":   m.Title,
	}).Info("book saved")
	for _, r := range s.recorders {
		r.RecordMutation(ctx, m)
	}
}

func (s *Service) rejected(ctx context.Context, action MutationAction, err error) {
	entry := s.log.WithFields(logrus.Fields{
		"action": action,
		"reason": Reason(err),
	})
	if errors.Is(err, ErrPersistence) {
		entry.WithError(err).Error("book not saved")
	} else {
		entry.WithError(err).Warn("submission rejected")
	}
	for _, r := range s.recorders {
		r.RecordRejection(ctx, action, err)
	}
}
