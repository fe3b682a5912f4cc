package catalog

// LookupKind names one of the reference tables a book points into.
type LookupKind string

const (
	LookupAuthor   LookupKind = "author"
	LookupLanguage LookupKind = "language"
	LookupOwner    LookupKind = "owner"
	LookupStatus   LookupKind = "status"
)

// LookupKinds lists every lookup table in form order.
var LookupKinds = []LookupKind{LookupAuthor, LookupLanguage, LookupOwner, LookupStatus}

// ParseLookupKind converts a user supplied kind name.
func ParseLookupKind(s string) (LookupKind, bool) {
	for _, k := range LookupKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// LookupOption is a single lookup row as shown in a dropdown.
type LookupOption struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// Resolve maps a display label back to its identifier by exact match.
// No match yields a ResolutionError wrapping ErrLabelNotFound and more than
// one match a ResolutionError wrapping ErrLabelAmbiguous.
func Resolve(kind LookupKind, options []LookupOption, label string) (uint, error) {
	var (
		id      uint
		matches int
	)
	for _, opt := range options {
		if opt.Label == label {
			id = opt.ID
			matches++
		}
	}
	if matches != 1 {
		return 0, &ResolutionError{Kind: kind, Label: label, Matches: matches}
	}
	return id, nil
}

// LabelFor returns the label of the option with the given id, or "" when the
// id is unknown.
func LabelFor(options []LookupOption, id uint) string {
	for _, opt := range options {
		if opt.ID == id {
			return opt.Label
		}
	}
	return ""
}

// Choices are the dropdown contents for the book forms.
type Choices struct {
	Authors   []LookupOption `json:"authors"`
	Languages []LookupOption `json:"languages"`
	Owners    []LookupOption `json:"owners"`
	Statuses  []LookupOption `json:"statuses"`
}

// For returns the options of a single lookup kind.
func (c *Choices) For(kind LookupKind) []LookupOption {
	switch kind {
	case LookupAuthor:
		return c.Authors
	case LookupLanguage:
		return c.Languages
	case LookupOwner:
		return c.Owners
	case LookupStatus:
		return c.Statuses
	}
	return nil
}

func (c *Choices) set(kind LookupKind, options []LookupOption) {
	switch kind {
	case LookupAuthor:
		c.Authors = options
	case LookupLanguage:
		c.Languages = options
	case LookupOwner:
		c.Owners = options
	case LookupStatus:
		c.Statuses = options
	}
}
