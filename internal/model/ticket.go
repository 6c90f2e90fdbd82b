package model

import "time"

// TicketStatus is the review state of a ticket-like record (inbound
// inquiries and membership applications).
type TicketStatus string

const (
	TicketNew      TicketStatus = "new"
	TicketInReview TicketStatus = "in_review"
	TicketResolved TicketStatus = "resolved"
	TicketArchived TicketStatus = "archived"
)

// String returns the string representation of the status.
func (s TicketStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketNew, TicketInReview, TicketResolved, TicketArchived:
		return true
	}
	return false
}

// TicketPatchFields is the whitelist of fields a partial update may touch on
// ticket-like records. Everything else on the record is preserved as stored.
var TicketPatchFields = []string{"status", "priority", "notes", "reviewed_by", "reviewed_at"}

// Inquiry is an inbound contact-form message.
type Inquiry struct {
	ID         string       `json:"id"`
	Email      string       `json:"email"`
	Name       string       `json:"name,omitempty"`
	Subject    string       `json:"subject,omitempty"`
	Message    string       `json:"message"`
	Status     TicketStatus `json:"status"`
	Priority   int          `json:"priority,omitempty"`
	Notes      string       `json:"notes,omitempty"`
	ReviewedBy string       `json:"reviewed_by,omitempty"`
	ReviewedAt string       `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (i *Inquiry) RecordID() string      { return i.ID }
func (i *Inquiry) SetRecordID(id string) { i.ID = id }
func (i *Inquiry) Touch(t time.Time) {
	if i.CreatedAt.IsZero() {
		i.CreatedAt = t
	}
	i.UpdatedAt = t
}

// Application is a membership application awaiting review.
type Application struct {
	ID         string       `json:"id"`
	Email      string       `json:"email"`
	Name       string       `json:"name"`
	Phone      string       `json:"phone,omitempty"`
	Address    string       `json:"address,omitempty"`
	Message    string       `json:"message,omitempty"`
	Status     TicketStatus `json:"status"`
	Priority   int          `json:"priority,omitempty"`
	Notes      string       `json:"notes,omitempty"`
	ReviewedBy string       `json:"reviewed_by,omitempty"`
	ReviewedAt string       `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (a *Application) RecordID() string      { return a.ID }
func (a *Application) SetRecordID(id string) { a.ID = id }
func (a *Application) Touch(t time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = t
	}
	a.UpdatedAt = t
}
