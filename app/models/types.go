package models

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// DateFormat is the display format of BlogPost.Date, e.g. "August 24, 2026".
const DateFormat = "January 02, 2006"

// User is a registered account. Password holds the encoded hash, never the plaintext.
type User struct {
	ID       uint       `gorm:"primaryKey"`
	Email    string     `gorm:"size:100;uniqueIndex;not null" validate:"required,email,max=100"`
	Password string     `gorm:"size:255;not null" validate:"required"`
	Name     string     `gorm:"size:100;not null" validate:"required,max=100"`
	Posts    []*Post    `gorm:"foreignKey:AuthorID" validate:"-"`
	Comments []*Comment `gorm:"foreignKey:AuthorID" validate:"-"`
}

// Post is a blog post authored by the administrator.
type Post struct {
	ID       uint       `gorm:"primaryKey"`
	Title    string     `gorm:"size:250;uniqueIndex;not null" validate:"required,max=250"`
	Subtitle string     `gorm:"size:250;not null" validate:"required,max=250"`
	Date     string     `gorm:"size:250;not null" validate:"required"`
	Body     string     `gorm:"type:text;not null" validate:"required"`
	ImgURL   string     `gorm:"column:img_url;size:250;not null" validate:"required,url,max=250"`
	AuthorID uint       `gorm:"not null" validate:"required"`
	Author   *User      `gorm:"foreignKey:AuthorID" validate:"-"`
	Comments []*Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" validate:"-"`
}

// Comment is a reply left on a post by a registered user.
type Comment struct {
	ID       uint   `gorm:"primaryKey"`
	Text     string `gorm:"type:text" validate:"required"`
	AuthorID uint   `gorm:"not null" validate:"required"`
	Author   *User  `gorm:"foreignKey:AuthorID" validate:"-"`
	PostID   uint   `gorm:"not null" validate:"required"`
	Post     *Post  `gorm:"foreignKey:PostID" validate:"-"`
}

func (User) TableName() string    { return "user" }
func (Post) TableName() string    { return "blog_posts" }
func (Comment) TableName() string { return "comment" }
