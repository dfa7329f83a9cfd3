package models

import "time"

// NewsPost is a marketing news/announcement entry. Unpublished posts are
// visible only to authenticated staff.
type NewsPost struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	Body        string     `db:"body" json:"body"`
	Category    string     `db:"category" json:"category"`
	Locale      string     `db:"locale" json:"locale"`
	Published   bool       `db:"published" json:"published"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	AuthorID    *string    `db:"author_id" json:"author_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// NewsFilter captures list criteria for news posts.
type NewsFilter struct {
	Category  string
	Locale    string
	Published *bool
	Search    string
	Page      int
	Limit     int
}
