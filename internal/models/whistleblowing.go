package models

import "time"

// ReportStatus enumerates whistleblowing report handling states.
type ReportStatus string

const (
	ReportStatusNew           ReportStatus = "new"
	ReportStatusInvestigating ReportStatus = "investigating"
	ReportStatusResolved      ReportStatus = "resolved"
	ReportStatusDismissed     ReportStatus = "dismissed"
)

// ReportPriority ranks reports for triage.
type ReportPriority string

const (
	ReportPriorityLow    ReportPriority = "low"
	ReportPriorityMedium ReportPriority = "medium"
	ReportPriorityHigh   ReportPriority = "high"
)

// WhistleblowingReport is a misconduct report. Reporter identity is optional:
// anonymous reports carry no contact fields at all.
type WhistleblowingReport struct {
	ID            string         `db:"id" json:"id"`
	Category      string         `db:"category" json:"category"`
	Description   string         `db:"description" json:"description"`
	Anonymous     bool           `db:"anonymous" json:"anonymous"`
	ReporterName  *string        `db:"reporter_name" json:"reporter_name,omitempty"`
	ReporterEmail *string        `db:"reporter_email" json:"reporter_email,omitempty"`
	Status        ReportStatus   `db:"status" json:"status"`
	Priority      ReportPriority `db:"priority" json:"priority"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// ReportFilter captures list criteria for whistleblowing reports.
type ReportFilter struct {
	Status   *ReportStatus
	Priority *ReportPriority
	Category string
	Page     int
	Limit    int
}
