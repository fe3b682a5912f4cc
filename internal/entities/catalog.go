package entities

// Table and column names follow the catalog file layout (book, author, language,
// owner, status) so an existing books.db can be opened without conversion.
// SQLite matches identifiers case-insensitively, so files created with
// BOOK or TITLE work too; queries alias every column they read back.

type Book struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Title         string `gorm:"column:title;not null" json:"title"`
	Summary       string `gorm:"column:summary;type:text" json:"summary"`
	ISBN          string `gorm:"column:isbn;size:20" json:"isbn,omitempty"`
	Category      string `gorm:"column:categories;size:256" json:"category,omitempty"`
	PublishedDate string `gorm:"column:published_date;size:32" json:"published_date,omitempty"`
	AuthorID      uint   `gorm:"column:author;index" json:"author_id"`
	LanguageID    uint   `gorm:"column:language;index" json:"language_id"`
	OwnerID       uint   `gorm:"column:owner;index" json:"owner_id"`
	StatusID      uint   `gorm:"column:status;index" json:"status_id"`
}

type Author struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"column:firstname;size:128" json:"firstname"`
	LastName  string `gorm:"column:lastname;size:128" json:"lastname"`
}

type Language struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:name;size:128" json:"name"`
}

type Owner struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:name;size:128" json:"name"`
}

type Status struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:name;size:128" json:"name"`
}

func (Book) TableName() string {
	return "book"
}

func (Author) TableName() string {
	return "author"
}

func (Language) TableName() string {
	return "language"
}

func (Owner) TableName() string {
	return "owner"
}

func (Status) TableName() string {
	return "status"
}
