package reconcile

import (
	"fmt"
	"time"

	"github.com/alderbrook/civicd/internal/events"
	"github.com/alderbrook/civicd/internal/idgen"
	"github.com/alderbrook/civicd/internal/model"
)

// ReconciliationError reports that an account mutation's member-side
// propagation could not complete. The pipeline fails the whole mutation in
// that case so the two collections never diverge.
type ReconciliationError struct {
	Op  string
	Err error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconcile %s: %v", e.Op, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }

// Engine computes member-side effects of account mutations.
type Engine struct {
	now func() time.Time
}

// New returns an engine using the wall clock.
func New() *Engine {
	return &Engine{now: time.Now}
}

// NewWithClock returns an engine with a fixed clock, for tests.
func NewWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// findMember locates a member first by linked id, then by case-folded email.
func findMember(members []*model.Member, memberID, email string) int {
	if memberID != "" {
		for i, m := range members {
			if m.ID == memberID {
				return i
			}
		}
	}
	key := model.EmailKey(email)
	if key == "" {
		return -1
	}
	for i, m := range members {
		if model.EmailKey(m.Email) == key {
			return i
		}
	}
	return -1
}

// ApplyAccountWrite stages the member-side effect of an account create or
// update. It mutates ev.Account's member link in place and returns the
// replacement member list along with the upserted or removed member, when
// the write touched one. Role changes among the non-member roles are pure
// and stage nothing.
func (e *Engine) ApplyAccountWrite(ev events.AccountChanged, members []*model.Member) ([]*model.Member, *model.Member, error) {
	acct := ev.Account

	if acct.Role == model.RoleMember {
		return e.upsertLinkedMember(ev, members)
	}

	// Only a transition out of the member role removes the linked profile.
	// A viewer whose email happens to match a standalone member must not
	// destroy that record.
	if !ev.RoleChangedOutOfMember() {
		acct.MemberID = ""
		return members, nil, nil
	}

	i := findMember(members, acct.MemberID, acct.Email)
	acct.MemberID = ""
	if i < 0 {
		return members, nil, nil
	}
	removed := members[i]
	return append(members[:i:i], members[i+1:]...), removed, nil
}

func (e *Engine) upsertLinkedMember(ev events.AccountChanged, members []*model.Member) ([]*model.Member, *model.Member, error) {
	acct := ev.Account
	now := e.now().UTC()

	if i := findMember(members, acct.MemberID, acct.Email); i >= 0 {
		m := members[i]
		m.Email = acct.Email
		m.Name = acct.Name
		m.Active = acct.Active
		if acct.Phone != "" {
			m.Phone = acct.Phone
		}
		if acct.Address != "" {
			m.Address = acct.Address
		}
		if acct.JoinDate != "" {
			m.JoinDate = acct.JoinDate
		}
		if ev.NewPasswordHash != "" {
			m.PasswordHash = ev.NewPasswordHash
		}
		if m.MemberNumber == "" {
			number, err := idgen.MemberNumber()
			if err != nil {
				return nil, nil, &ReconciliationError{Op: "allocate member number", Err: err}
			}
			m.MemberNumber = number
		}
		m.Touch(now)
		acct.MemberID = m.ID
		return members, m, nil
	}

	id, err := idgen.GenerateWithPrefix("mem-")
	if err != nil {
		return nil, nil, &ReconciliationError{Op: "allocate member id", Err: err}
	}
	number, err := idgen.MemberNumber()
	if err != nil {
		return nil, nil, &ReconciliationError{Op: "allocate member number", Err: err}
	}
	m := &model.Member{
		ID:           id,
		Email:        acct.Email,
		Name:         acct.Name,
		Phone:        acct.Phone,
		Address:      acct.Address,
		JoinDate:     acct.JoinDate,
		MemberNumber: number,
		PasswordHash: ev.NewPasswordHash,
		Active:       acct.Active,
	}
	m.Touch(now)
	acct.MemberID = m.ID
	return append(members, m), m, nil
}

// ApplyAccountDelete stages the cascade of an account deletion: the member
// matched by the account's link or case-folded email is removed. It returns
// the replacement list and the removed member, if any.
func (e *Engine) ApplyAccountDelete(acct *model.Account, members []*model.Member) ([]*model.Member, *model.Member) {
	i := findMember(members, acct.MemberID, acct.Email)
	if i < 0 {
		return members, nil
	}
	removed := members[i]
	return append(members[:i:i], members[i+1:]...), removed
}
