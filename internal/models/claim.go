package models

import "time"

// ClaimStatus enumerates the claim workflow states.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// Claim is a policyholder claim submitted through the public site or filed by
// staff on a customer's behalf.
type Claim struct {
	ID           string      `db:"id" json:"id"`
	ClaimantName string      `db:"claimant_name" json:"claimant_name"`
	Email        string      `db:"email" json:"email"`
	Phone        string      `db:"phone" json:"phone"`
	PolicyNumber string      `db:"policy_number" json:"policy_number"`
	ProductType  string      `db:"product_type" json:"product_type"`
	IncidentDate *time.Time  `db:"incident_date" json:"incident_date,omitempty"`
	Description  string      `db:"description" json:"description"`
	DocumentURL  *string     `db:"document_url" json:"document_url,omitempty"`
	Status       ClaimStatus `db:"status" json:"status"`
	CreatedBy    *string     `db:"created_by" json:"created_by,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// ClaimFilter captures list criteria for the claims register.
type ClaimFilter struct {
	Status      *ClaimStatus
	ProductType string
	Search      string
	Page        int
	Limit       int
}
