package models

import "time"

// ContactStatus enumerates contact-request handling states.
type ContactStatus string

const (
	ContactStatusNew       ContactStatus = "new"
	ContactStatusResponded ContactStatus = "responded"
	ContactStatusClosed    ContactStatus = "closed"
)

// ContactRequest is a public "talk to us" submission.
type ContactRequest struct {
	ID        string        `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Email     string        `db:"email" json:"email"`
	Subject   string        `db:"subject" json:"subject"`
	Message   string        `db:"message" json:"message"`
	Status    ContactStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// CallbackStatus enumerates callback-request states.
type CallbackStatus string

const (
	CallbackStatusPending CallbackStatus = "pending"
	CallbackStatusCalled  CallbackStatus = "called"
	CallbackStatusClosed  CallbackStatus = "closed"
)

// CallbackRequest is a public "call me back" submission.
type CallbackRequest struct {
	ID            string         `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Phone         string         `db:"phone" json:"phone"`
	PreferredTime string         `db:"preferred_time" json:"preferred_time"`
	Status        CallbackStatus `db:"status" json:"status"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// ContactFilter captures list criteria shared by contact and callback lists.
type ContactFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}
