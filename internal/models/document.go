package models

import "time"

// Document is a downloadable file (policy wording, brochure, form) managed
// from the dashboard. Published documents appear on the public site.
type Document struct {
	ID         string    `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Category   string    `db:"category" json:"category"`
	FileID     string    `db:"file_id" json:"file_id"`
	FileURL    string    `db:"file_url" json:"file_url"`
	MimeType   string    `db:"mime_type" json:"mime_type"`
	SizeBytes  int64     `db:"size_bytes" json:"size_bytes"`
	Published  bool      `db:"published" json:"published"`
	UploadedBy *string   `db:"uploaded_by" json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// DocumentFilter captures list criteria for documents.
type DocumentFilter struct {
	Category  string
	Published *bool
	Search    string
	Page      int
	Limit     int
}
