package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	return validate.Struct(p)
}

// BeforeCreate stamps the display date when the caller left it empty.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.Date == "" {
		p.Date = FormatDate(time.Now())
	}
	return nil
}

// SetAuthor sets the author and updates AuthorID
func (p *Post) SetAuthor(author *User) error {
	if author == nil {
		return errors.New("author cannot be nil")
	}

	p.Author = author
	p.AuthorID = author.ID
	return nil
}

// FormatDate renders t the way posts display their publish date.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
