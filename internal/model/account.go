package model

import "time"

// Role is the authorization role attached to an account. The store does not
// verify permissions itself; it only uses the role value on a record to
// decide reconciliation behavior.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
	RoleMember Role = "member"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks whether the role is a known value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer, RoleMember:
		return true
	}
	return false
}

// Account is an authentication principal. An account with role "member" is
// linked 1:1 to a Member profile via MemberID; accounts with any other role
// must have no linked member.
type Account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	Password     string `json:"password,omitempty"` // inbound only, never persisted
	PasswordHash string `json:"password_hash,omitempty"`
	Active       bool   `json:"active"`
	MemberID     string `json:"member_id,omitempty"`

	// Membership profile fields, used when role is "member": the admin
	// account form carries the full profile and the reconciliation engine
	// propagates these onto the linked Member record.
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	JoinDate string `json:"join_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Account) RecordID() string      { return a.ID }
func (a *Account) SetRecordID(id string) { a.ID = id }
func (a *Account) Touch(t time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = t
	}
	a.UpdatedAt = t
}

func (a *Account) EmailAddress() string { return a.Email }

func (a *Account) PlainPassword() string       { return a.Password }
func (a *Account) HashedPassword() string      { return a.PasswordHash }
func (a *Account) SetPasswordHash(hash string) { a.PasswordHash = hash }
func (a *Account) ClearPlainPassword()         { a.Password = "" }
