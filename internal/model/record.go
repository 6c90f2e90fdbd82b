// Package model defines the typed record shapes persisted by the document
// store, the collection registry that maps each collection to its envelope
// and backing file, and field-level validation.
package model

import (
	"strings"
	"time"
)

// Record is implemented by every persisted record shape. Record IDs are
// opaque strings; they are compared only with string equality, never by
// numeric value.
type Record interface {
	RecordID() string
	SetRecordID(id string)
	Touch(t time.Time)
}

// EmailBearer is implemented by record shapes keyed by an email address.
// Collections flagged UniqueEmail in the registry enforce uniqueness of the
// case-folded address.
type EmailBearer interface {
	EmailAddress() string
}

// CredentialBearer is implemented by record shapes that carry a login
// credential. The plain password only ever appears on inbound payloads; the
// pipeline hashes it and clears the plain text before anything is persisted
// or published.
type CredentialBearer interface {
	PlainPassword() string
	HashedPassword() string
	SetPasswordHash(hash string)
	ClearPlainPassword()
}

// EmailKey case-folds an email address for identity comparison. It is the
// join key between accounts and members.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
