package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alderbrook/civicd/internal/events"
	"github.com/alderbrook/civicd/internal/model"
	"github.com/alderbrook/civicd/internal/reconcile"
	"github.com/alderbrook/civicd/internal/store"
)

// List returns all records of a plain-list or config-wrapped collection.
func (p *Pipeline) List(ctx context.Context, typ model.CollectionType) ([]model.Record, error) {
	if _, err := lookupList(typ); err != nil {
		return nil, err
	}
	return p.store.LoadList(ctx, typ)
}

// Get returns one record by ID.
func (p *Pipeline) Get(ctx context.Context, typ model.CollectionType, id string) (model.Record, error) {
	list, err := p.List(ctx, typ)
	if err != nil {
		return nil, err
	}
	i := findRecord(list, id)
	if i < 0 {
		return nil, &store.NotFoundError{Type: typ, ID: id}
	}
	return list[i], nil
}

// Config returns the opaque display config of a config-wrapped collection.
func (p *Pipeline) Config(ctx context.Context, typ model.CollectionType) (json.RawMessage, error) {
	c, ok := model.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownCollection, typ)
	}
	if c.Envelope != model.EnvelopeConfigList {
		return nil, validationError("collection", fmt.Sprintf("%s carries no config", typ))
	}
	return p.store.LoadConfig(ctx, typ)
}

// Sections returns the full section map of a keyed-section collection.
func (p *Pipeline) Sections(ctx context.Context, typ model.CollectionType) (map[string]map[string]any, error) {
	c, ok := model.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownCollection, typ)
	}
	if c.Envelope != model.EnvelopeSections {
		return nil, validationError("collection", fmt.Sprintf("%s holds no sections", typ))
	}
	return p.store.LoadSections(ctx, typ)
}

// Section returns one named section of a keyed-section collection.
func (p *Pipeline) Section(ctx context.Context, typ model.CollectionType, name string) (map[string]any, error) {
	sections, err := p.Sections(ctx, typ)
	if err != nil {
		return nil, err
	}
	s, ok := sections[name]
	if !ok {
		return nil, &store.NotFoundError{Type: typ, ID: name}
	}
	return s, nil
}

// SaveSection replaces one named section of a keyed-section collection,
// leaving sibling sections untouched.
func (p *Pipeline) SaveSection(ctx context.Context, typ model.CollectionType, name string, data map[string]any) error {
	c, ok := model.Lookup(typ)
	if !ok {
		return fmt.Errorf("%w: %q", store.ErrUnknownCollection, typ)
	}
	if c.Envelope != model.EnvelopeSections {
		return validationError("collection", fmt.Sprintf("%s holds no sections", typ))
	}
	if name == "" {
		return validationError("section", "is required")
	}
	if len(data) == 0 {
		return validationError("data", "is required")
	}

	unlock := p.store.Lock(typ)
	defer unlock()

	if err := p.store.SaveSection(ctx, typ, name, data); err != nil {
		return err
	}
	p.publish(ctx, events.TopicSectionSaved, events.SectionSaved{Collection: typ, Section: name})
	return nil
}

// Identities returns the merged account/member identity view.
func (p *Pipeline) Identities(ctx context.Context) ([]reconcile.MergedView, error) {
	accountRecords, err := p.store.LoadList(ctx, model.CollectionAccounts)
	if err != nil {
		return nil, err
	}
	accounts := make([]*model.Account, len(accountRecords))
	for i, r := range accountRecords {
		accounts[i] = r.(*model.Account)
	}
	memberList, err := p.store.LoadList(ctx, model.CollectionMembers)
	if err != nil {
		return nil, err
	}
	members := make([]*model.Member, len(memberList))
	for i, r := range memberList {
		members[i] = r.(*model.Member)
	}
	return reconcile.BuildMergedView(accounts, members), nil
}
