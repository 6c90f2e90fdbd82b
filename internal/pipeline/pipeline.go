// Package pipeline orchestrates create, update, partial-update and delete
// mutations over the document store. Account mutations additionally run the
// reconciliation engine and commit both affected collections in one staged
// write, so the caller sees them as all-or-nothing.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/alderbrook/civicd/internal/events"
	"github.com/alderbrook/civicd/internal/idgen"
	"github.com/alderbrook/civicd/internal/model"
	"github.com/alderbrook/civicd/internal/reconcile"
	"github.com/alderbrook/civicd/internal/store"
)

// Pipeline applies mutations to collections.
type Pipeline struct {
	store  store.Store
	pub    events.Publisher
	engine *reconcile.Engine
	logger *slog.Logger
	now    func() time.Time
}

// New returns a pipeline over the given store, publisher and engine.
func New(s store.Store, p events.Publisher, e *reconcile.Engine, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{store: s, pub: p, engine: e, logger: logger, now: time.Now}
}

func validationError(field, message string) error {
	return &model.ValidationError{Errors: []model.FieldError{{Field: field, Message: message}}}
}

// lookupList resolves a collection type and requires a list envelope.
func lookupList(typ model.CollectionType) (*model.Collection, error) {
	c, ok := model.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownCollection, typ)
	}
	if c.Envelope == model.EnvelopeSections {
		return nil, validationError("collection", fmt.Sprintf("%s accepts section saves, not record mutations", typ))
	}
	return c, nil
}

// publish emits an event best-effort; a bus failure never fails a committed
// mutation.
func (p *Pipeline) publish(ctx context.Context, topic string, event any) {
	if err := p.pub.Publish(ctx, topic, event); err != nil {
		p.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// hashCredential bcrypt-hashes an inbound plain password, stores the hash on
// the record and wipes the plain text. It returns the new hash, or "" when
// the mutation supplied no credential.
func hashCredential(rec model.Record) (string, error) {
	cb, ok := rec.(model.CredentialBearer)
	if !ok || cb.PlainPassword() == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cb.PlainPassword()), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}
	cb.SetPasswordHash(string(hash))
	cb.ClearPlainPassword()
	return string(hash), nil
}

// checkEmailUnique enforces case-folded email uniqueness within a list,
// ignoring the record with selfID.
func checkEmailUnique(c *model.Collection, list []model.Record, rec model.Record, selfID string) error {
	if !c.UniqueEmail {
		return nil
	}
	eb, ok := rec.(model.EmailBearer)
	if !ok {
		return nil
	}
	key := model.EmailKey(eb.EmailAddress())
	for _, existing := range list {
		if existing.RecordID() == selfID {
			continue
		}
		if other, ok := existing.(model.EmailBearer); ok && model.EmailKey(other.EmailAddress()) == key {
			return &store.ConflictError{Type: c.Type, Field: "email", Value: eb.EmailAddress()}
		}
	}
	return nil
}

func findRecord(list []model.Record, id string) int {
	for i, r := range list {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}

// decode parses an inbound payload into the collection's record shape.
func decode(c *model.Collection, fields json.RawMessage) (model.Record, error) {
	trimmed := string(fields)
	if trimmed == "" || trimmed == "{}" || trimmed == "null" {
		return nil, validationError("fields", "is required")
	}
	rec, err := c.DecodeRecord(fields)
	if err != nil {
		return nil, validationError("fields", err.Error())
	}
	return rec, nil
}

// Create appends a new record to a collection. Account creates reconcile
// the members collection in the same commit.
func (p *Pipeline) Create(ctx context.Context, typ model.CollectionType, fields json.RawMessage) (model.Record, error) {
	c, err := lookupList(typ)
	if err != nil {
		return nil, err
	}
	rec, err := decode(c, fields)
	if err != nil {
		return nil, err
	}

	newHash, err := hashCredential(rec)
	if err != nil {
		return nil, err
	}
	if c.Validate != nil {
		if err := c.Validate(rec); err != nil {
			return nil, err
		}
	}

	unlock := p.lockFor(typ)
	defer unlock()

	list, err := p.store.LoadList(ctx, typ)
	if err != nil {
		return nil, err
	}
	if rec.RecordID() == "" {
		id, err := idgen.GenerateWithPrefix(c.IDPrefix)
		if err != nil {
			return nil, err
		}
		rec.SetRecordID(id)
	}
	if err := checkEmailUnique(c, list, rec, rec.RecordID()); err != nil {
		return nil, err
	}
	rec.Touch(p.now().UTC())

	if typ == model.CollectionAccounts {
		ev := events.AccountChanged{Account: rec.(*model.Account), NewPasswordHash: newHash}
		if err := p.commitAccountWrite(ctx, ev, append(list, rec)); err != nil {
			return nil, err
		}
		p.publish(ctx, events.TopicAccountCreated, ev)
		return rec, nil
	}

	if err := p.store.SaveList(ctx, typ, append(list, rec)); err != nil {
		return nil, err
	}
	p.publish(ctx, events.TopicContentCreated, events.ContentChanged{Collection: typ, Record: rec})
	return rec, nil
}

// Update replaces the field set of an existing record wholesale, keeping
// its identity and creation time and re-stamping updated_at.
func (p *Pipeline) Update(ctx context.Context, typ model.CollectionType, editID string, fields json.RawMessage) (model.Record, error) {
	c, err := lookupList(typ)
	if err != nil {
		return nil, err
	}
	if editID == "" {
		return nil, validationError("edit_id", "is required")
	}
	rec, err := decode(c, fields)
	if err != nil {
		return nil, err
	}

	unlock := p.lockFor(typ)
	defer unlock()

	list, err := p.store.LoadList(ctx, typ)
	if err != nil {
		return nil, err
	}
	i := findRecord(list, editID)
	if i < 0 {
		return nil, &store.NotFoundError{Type: typ, ID: editID}
	}
	prev := list[i]

	rec.SetRecordID(editID)
	newHash, err := hashCredential(rec)
	if err != nil {
		return nil, err
	}
	// Without a fresh credential the stored hash carries over.
	if cb, ok := rec.(model.CredentialBearer); ok && newHash == "" {
		cb.SetPasswordHash(prev.(model.CredentialBearer).HashedPassword())
	}
	// A replace that omits member_id keeps the stored member link, so an
	// email change still reaches the linked profile instead of minting a
	// second one.
	if acct, ok := rec.(*model.Account); ok && acct.MemberID == "" {
		acct.MemberID = prev.(*model.Account).MemberID
	}
	if c.Validate != nil {
		if err := c.Validate(rec); err != nil {
			return nil, err
		}
	}
	if err := checkEmailUnique(c, list, rec, editID); err != nil {
		return nil, err
	}
	rec.Touch(p.now().UTC())
	list[i] = rec

	if typ == model.CollectionAccounts {
		prevAcct := *prev.(*model.Account)
		ev := events.AccountChanged{Account: rec.(*model.Account), Previous: &prevAcct, NewPasswordHash: newHash}
		if err := p.commitAccountWrite(ctx, ev, list); err != nil {
			return nil, err
		}
		p.publish(ctx, events.TopicAccountUpdated, ev)
		if prevAcct.Role != ev.Account.Role {
			p.publish(ctx, events.TopicAccountRoleChanged, ev)
		}
		return rec, nil
	}

	if err := p.store.SaveList(ctx, typ, list); err != nil {
		return nil, err
	}
	p.publish(ctx, events.TopicContentUpdated, events.ContentChanged{Collection: typ, Record: rec})
	return rec, nil
}

// PartialUpdate patches the whitelisted review fields of a ticket-like
// record, leaving everything else as stored.
func (p *Pipeline) PartialUpdate(ctx context.Context, typ model.CollectionType, id string, patch map[string]any) (model.Record, error) {
	c, err := lookupList(typ)
	if err != nil {
		return nil, err
	}
	if !c.Patchable {
		return nil, validationError("collection", fmt.Sprintf("%s does not accept partial updates", typ))
	}
	if id == "" {
		return nil, validationError("id", "is required")
	}
	if len(patch) == 0 {
		return nil, validationError("patch", "is required")
	}

	unlock := p.lockFor(typ)
	defer unlock()

	list, err := p.store.LoadList(ctx, typ)
	if err != nil {
		return nil, err
	}
	i := findRecord(list, id)
	if i < 0 {
		return nil, &store.NotFoundError{Type: typ, ID: id}
	}
	rec := list[i]
	if err := model.ApplyPatch(rec, patch, model.TicketPatchFields); err != nil {
		return nil, err
	}
	if c.Validate != nil {
		if err := c.Validate(rec); err != nil {
			return nil, err
		}
	}
	rec.Touch(p.now().UTC())

	if err := p.store.SaveList(ctx, typ, list); err != nil {
		return nil, err
	}

	var touched []string
	for _, f := range model.TicketPatchFields {
		if _, ok := patch[f]; ok {
			touched = append(touched, f)
		}
	}
	p.publish(ctx, events.TopicTicketPatched, events.TicketPatched{Collection: typ, Record: rec, Fields: touched})
	return rec, nil
}

// Delete removes a record. Deleting a member-role account cascades the
// deletion of its linked member profile in the same commit.
func (p *Pipeline) Delete(ctx context.Context, typ model.CollectionType, id string) error {
	if _, err := lookupList(typ); err != nil {
		return err
	}
	if id == "" {
		return validationError("id", "is required")
	}

	unlock := p.lockFor(typ)
	defer unlock()

	list, err := p.store.LoadList(ctx, typ)
	if err != nil {
		return err
	}
	i := findRecord(list, id)
	if i < 0 {
		return &store.NotFoundError{Type: typ, ID: id}
	}
	removed := list[i]
	list = append(list[:i:i], list[i+1:]...)

	if typ == model.CollectionAccounts {
		acct := removed.(*model.Account)
		deleted := events.AccountDeleted{AccountID: acct.ID}

		if acct.Role == model.RoleMember {
			members, err := p.loadMembers(ctx)
			if err != nil {
				return err
			}
			members, removedMember := p.engine.ApplyAccountDelete(acct, members)
			if err := p.store.Commit(ctx,
				store.Stage{Type: model.CollectionAccounts, List: list},
				store.Stage{Type: model.CollectionMembers, List: memberRecords(members)},
			); err != nil {
				return err
			}
			if removedMember != nil {
				deleted.RemovedMemberID = removedMember.ID
				p.publish(ctx, events.TopicMemberRemoved, events.MemberRemoved{MemberID: removedMember.ID, AccountID: acct.ID})
			}
		} else if err := p.store.SaveList(ctx, typ, list); err != nil {
			return err
		}

		p.publish(ctx, events.TopicAccountDeleted, deleted)
		return nil
	}

	if err := p.store.SaveList(ctx, typ, list); err != nil {
		return err
	}
	p.publish(ctx, events.TopicContentDeleted, events.ContentDeleted{Collection: typ, ID: id})
	return nil
}

// lockFor serializes the mutation's read-modify-write cycle. Account
// mutations take both collections so reconciliation is covered too.
func (p *Pipeline) lockFor(typ model.CollectionType) func() {
	if typ == model.CollectionAccounts {
		return p.store.Lock(model.CollectionAccounts, model.CollectionMembers)
	}
	return p.store.Lock(typ)
}

// loadMembers loads the members collection for reconciliation. A failure
// here fails the whole account mutation: applying only the account half
// would let the two collections diverge.
func (p *Pipeline) loadMembers(ctx context.Context) ([]*model.Member, error) {
	list, err := p.store.LoadList(ctx, model.CollectionMembers)
	if err != nil {
		return nil, &reconcile.ReconciliationError{Op: "load members", Err: err}
	}
	members := make([]*model.Member, len(list))
	for i, r := range list {
		members[i] = r.(*model.Member)
	}
	return members, nil
}

func memberRecords(members []*model.Member) []model.Record {
	records := make([]model.Record, len(members))
	for i, m := range members {
		records[i] = m
	}
	return records
}

// commitAccountWrite runs the reconciliation engine and commits the
// accounts and members collections in one staged write.
func (p *Pipeline) commitAccountWrite(ctx context.Context, ev events.AccountChanged, accounts []model.Record) error {
	members, err := p.loadMembers(ctx)
	if err != nil {
		return err
	}
	members, touched, err := p.engine.ApplyAccountWrite(ev, members)
	if err != nil {
		return err
	}

	if err := p.store.Commit(ctx,
		store.Stage{Type: model.CollectionAccounts, List: accounts},
		store.Stage{Type: model.CollectionMembers, List: memberRecords(members)},
	); err != nil {
		return err
	}

	if touched != nil {
		if ev.Account.Role == model.RoleMember {
			p.publish(ctx, events.TopicMemberUpserted, events.MemberUpserted{Member: touched, AccountID: ev.Account.ID})
		} else {
			p.publish(ctx, events.TopicMemberRemoved, events.MemberRemoved{MemberID: touched.ID, AccountID: ev.Account.ID})
		}
	}
	return nil
}
