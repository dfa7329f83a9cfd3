package models

import "time"

// ApplicationStatus enumerates recruiting workflow states.
type ApplicationStatus string

const (
	ApplicationStatusReceived    ApplicationStatus = "received"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusHired       ApplicationStatus = "hired"
)

// JobApplication is a public job application from the careers page.
type JobApplication struct {
	ID          string            `db:"id" json:"id"`
	FullName    string            `db:"full_name" json:"full_name"`
	Email       string            `db:"email" json:"email"`
	Phone       string            `db:"phone" json:"phone"`
	Position    string            `db:"position" json:"position"`
	CoverLetter string            `db:"cover_letter" json:"cover_letter"`
	ResumeURL   *string           `db:"resume_url" json:"resume_url,omitempty"`
	Status      ApplicationStatus `db:"status" json:"status"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// ApplicationFilter captures list criteria for job applications.
type ApplicationFilter struct {
	Status   *ApplicationStatus
	Position string
	Search   string
	Page     int
	Limit    int
}
