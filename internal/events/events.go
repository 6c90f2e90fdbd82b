// Package events defines the domain events emitted by the mutation pipeline
// and the publisher/subscriber interfaces for the optional NATS bus.
// External collaborators (push delivery, cache invalidation) subscribe to
// these topics; the reconciliation engine consumes the account events
// synchronously, before anything is committed or published.
package events

import (
	"context"

	"github.com/alderbrook/civicd/internal/model"
)

// Event topic constants
const (
	TopicAccountCreated     = "civicd.account.created"
	TopicAccountUpdated     = "civicd.account.updated"
	TopicAccountRoleChanged = "civicd.account.role_changed"
	TopicAccountDeleted     = "civicd.account.deleted"

	TopicMemberUpserted = "civicd.member.upserted"
	TopicMemberRemoved  = "civicd.member.removed"

	TopicContentCreated = "civicd.content.created"
	TopicContentUpdated = "civicd.content.updated"
	TopicContentDeleted = "civicd.content.deleted"

	TopicTicketPatched = "civicd.ticket.patched"
	TopicSectionSaved  = "civicd.pages.section_saved"
)

// AccountChanged describes an account create or update. It is handed to the
// reconciliation engine before the mutation is committed and published on
// the account topics afterwards. NewPasswordHash is set only when the
// mutation supplied a fresh credential; it never leaves the process.
type AccountChanged struct {
	Account  *model.Account `json:"account"`
	Previous *model.Account `json:"previous,omitempty"`

	NewPasswordHash string `json:"-"`
}

// RoleChangedOutOfMember reports whether the mutation moved the account out
// of the member role.
func (e AccountChanged) RoleChangedOutOfMember() bool {
	return e.Previous != nil && e.Previous.Role == model.RoleMember && e.Account.Role != model.RoleMember
}

// AccountDeleted describes a committed account deletion and the member
// record removed with it, if any.
type AccountDeleted struct {
	AccountID       string `json:"account_id"`
	RemovedMemberID string `json:"removed_member_id,omitempty"`
}

// MemberUpserted is published when reconciliation created or refreshed a
// member record.
type MemberUpserted struct {
	Member    *model.Member `json:"member"`
	AccountID string        `json:"account_id,omitempty"`
}

// MemberRemoved is published when reconciliation removed a member record.
type MemberRemoved struct {
	MemberID  string `json:"member_id"`
	AccountID string `json:"account_id,omitempty"`
}

// ContentChanged describes a create or update on a content collection.
type ContentChanged struct {
	Collection model.CollectionType `json:"collection"`
	Record     model.Record         `json:"record"`
}

// ContentDeleted describes a committed deletion on a content collection.
type ContentDeleted struct {
	Collection model.CollectionType `json:"collection"`
	ID         string               `json:"id"`
}

// TicketPatched describes a partial update on a ticket-like record.
type TicketPatched struct {
	Collection model.CollectionType `json:"collection"`
	Record     model.Record         `json:"record"`
	Fields     []string             `json:"fields"` // whitelisted keys actually supplied
}

// SectionSaved describes a keyed-section save.
type SectionSaved struct {
	Collection model.CollectionType `json:"collection"`
	Section    string               `json:"section"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
