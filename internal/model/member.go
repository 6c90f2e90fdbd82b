package model

import "time"

// Member is an association-membership profile. A member may exist with or
// without a corresponding account.
type Member struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	JoinDate     string    `json:"join_date,omitempty"`
	MemberNumber string    `json:"member_number,omitempty"`
	Password     string    `json:"password,omitempty"` // inbound only, never persisted
	PasswordHash string    `json:"password_hash,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (m *Member) RecordID() string      { return m.ID }
func (m *Member) SetRecordID(id string) { m.ID = id }
func (m *Member) Touch(t time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = t
	}
	m.UpdatedAt = t
}

func (m *Member) EmailAddress() string { return m.Email }

func (m *Member) PlainPassword() string       { return m.Password }
func (m *Member) HashedPassword() string      { return m.PasswordHash }
func (m *Member) SetPasswordHash(hash string) { m.PasswordHash = hash }
func (m *Member) ClearPlainPassword()         { m.Password = "" }
