package term

import (
	"time"

	"github.com/google/uuid"
)

// Term is a single glossary entry. The full study content lives in its
// ordered Sections (introduction, applications, code examples, quiz, ...).
type Term struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Slug            string    `json:"slug" db:"slug"`
	Title           string    `json:"title" db:"title"`
	ShortDefinition string    `json:"short_definition" db:"short_definition"`
	Category        string    `json:"category" db:"category"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	Sections []Section `json:"sections,omitempty" db:"-"`
}

// Section is one block of a term's standardized content architecture.
type Section struct {
	ID       uuid.UUID `json:"id" db:"id"`
	TermID   uuid.UUID `json:"term_id" db:"term_id"`
	Name     string    `json:"name" db:"name"`
	Position int       `json:"position" db:"position"`
	Content  string    `json:"content" db:"content"`
}

// ListFilter narrows term listings.
type ListFilter struct {
	Query    string
	Category string
	Limit    int
	Offset   int
}

// Normalize clamps pagination to sane bounds.
func (f *ListFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
