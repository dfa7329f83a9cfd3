package models

import "time"

// QuoteStatus enumerates the quote follow-up states.
type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusContacted QuoteStatus = "contacted"
	QuoteStatusConverted QuoteStatus = "converted"
	QuoteStatusExpired   QuoteStatus = "expired"
)

// Quote is a public quote request captured from the product pages.
type Quote struct {
	ID           string      `db:"id" json:"id"`
	CustomerName string      `db:"customer_name" json:"customer_name"`
	Email        string      `db:"email" json:"email"`
	Phone        string      `db:"phone" json:"phone"`
	ProductType  string      `db:"product_type" json:"product_type"`
	Amount       float64     `db:"amount" json:"amount"`
	ExpiryDate   *time.Time  `db:"expiry_date" json:"expiry_date,omitempty"`
	Message      string      `db:"message" json:"message"`
	Status       QuoteStatus `db:"status" json:"status"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// QuoteFilter captures list criteria for the quotes register.
type QuoteFilter struct {
	Status      *QuoteStatus
	ProductType string
	Search      string
	Page        int
	Limit       int
}
