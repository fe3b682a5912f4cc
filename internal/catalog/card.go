package catalog

// Unknown is shown in place of a lookup label that did not join.
const Unknown = "Unknown"

// Card is the read-only presentation of a catalog row.
type Card struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Category   string `json:"category"`
	Language   string `json:"language"`
	Owner      string `json:"owner"`
	Status     string `json:"status"`
	Summary    string `json:"summary"`
	HasSummary bool   `json:"has_summary"`
}

func NewCard(r Row) Card {
	return Card{
		ID:         r.ID,
		Title:      r.Title,
		Author:     orUnknown(labelValue(r.Author)),
		Category:   orUnknown(r.Category),
		Language:   orUnknown(labelValue(r.Language)),
		Owner:      orUnknown(labelValue(r.Owner)),
		Status:     orUnknown(labelValue(r.Status)),
		Summary:    r.Summary,
		HasSummary: r.Summary != "",
	}
}

func NewCards(rows []Row) []Card {
	cards := make([]Card, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, NewCard(r))
	}
	return cards
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
