package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// ShowAll is the "no filter" selection for a categorical control. Real
// option values are never empty, so it cannot collide with data.
const ShowAll = ""

// ShowAllLabel is how the ShowAll selection is presented to the user.
// Callers that send the label back instead of ShowAll get the same result.
const ShowAllLabel = "All"

// active reports whether a categorical control narrows the catalog.
func active(v string) bool {
	return v != ShowAll && v != ShowAllLabel
}

// Filter describes the catalog search controls.
type Filter struct {
	Search   string `form:"q" json:"q" binding:"max=200"`
	Category string `form:"category" json:"category" binding:"max=256"`
	Language string `form:"language" json:"language" binding:"max=256"`
	Owner    string `form:"owner" json:"owner" binding:"max=256"`
	Status   string `form:"status" json:"status" binding:"max=256"`
}

// IsEmpty reports whether no predicate is active.
func (f Filter) IsEmpty() bool {
	return f.Search == "" && !active(f.Category) && !active(f.Language) &&
		!active(f.Owner) && !active(f.Status)
}

// Apply narrows rows by each active predicate in turn: substring search on
// title or summary, then exact matches on category, language, owner and
// status. The input order is preserved and rows is never modified.
func Apply(rows []Row, f Filter) []Row {
	result := make([]Row, 0, len(rows))
	result = append(result, rows...)

	if f.Search != "" {
		folder := cases.Fold()
		term := folder.String(f.Search)
		result = keep(result, func(r Row) bool {
			return strings.Contains(folder.String(r.Title), term) ||
				strings.Contains(folder.String(r.Summary), term)
		})
	}

	if active(f.Category) {
		result = keep(result, func(r Row) bool { return r.Category == f.Category })
	}
	if active(f.Language) {
		result = keep(result, func(r Row) bool { return r.Language != nil && *r.Language == f.Language })
	}
	if active(f.Owner) {
		result = keep(result, func(r Row) bool { return r.Owner != nil && *r.Owner == f.Owner })
	}
	if active(f.Status) {
		result = keep(result, func(r Row) bool { return r.Status != nil && *r.Status == f.Status })
	}

	return result
}

func keep(rows []Row, pred func(Row) bool) []Row {
	out := rows[:0]
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Options holds the distinct values offered by each categorical control.
// ShowAll is not included; presentation layers add it first.
type Options struct {
	Categories []string `json:"categories"`
	Languages  []string `json:"languages"`
	Owners     []string `json:"owners"`
	Statuses   []string `json:"statuses"`
}

// BuildOptions collects the distinct non-empty values of each categorical
// column in first-seen order.
func BuildOptions(rows []Row) Options {
	var opts Options
	seen := map[string]map[string]bool{
		"category": {}, "language": {}, "owner": {}, "status": {},
	}
	add := func(list *[]string, column, value string) {
		if value == "" || seen[column][value] {
			return
		}
		seen[column][value] = true
		*list = append(*list, value)
	}

	for _, r := range rows {
		add(&opts.Categories, "category", r.Category)
		add(&opts.Languages, "language", labelValue(r.Language))
		add(&opts.Owners, "owner", labelValue(r.Owner))
		add(&opts.Statuses, "status", labelValue(r.Status))
	}
	return opts
}
