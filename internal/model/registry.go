package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CollectionType names a persisted collection. Each collection is one
// document on disk, addressed through the registry below.
type CollectionType string

const (
	CollectionAccounts     CollectionType = "accounts"
	CollectionMembers      CollectionType = "members"
	CollectionNews         CollectionType = "news"
	CollectionEvents       CollectionType = "events"
	CollectionInquiries    CollectionType = "inquiries"
	CollectionApplications CollectionType = "applications"
	CollectionSlides       CollectionType = "slides"
	CollectionPages        CollectionType = "pages"
)

// String returns the string representation of the collection type.
func (t CollectionType) String() string {
	return string(t)
}

// Envelope is the structural wrapper of a collection document.
type Envelope int

const (
	// EnvelopeList is a bare JSON array of records.
	EnvelopeList Envelope = iota
	// EnvelopeConfigList is a {config, list} pair. The config object is an
	// opaque sibling that must survive list-only rewrites unchanged.
	EnvelopeConfigList
	// EnvelopeSections is a map from section name to a field map. Saves
	// target exactly one section and must not disturb siblings.
	EnvelopeSections
)

// FieldType identifies the type of a declared field.
type FieldType string

const (
	FieldTypeString    FieldType = "string"
	FieldTypeInteger   FieldType = "integer"
	FieldTypeBoolean   FieldType = "boolean"
	FieldTypeTimestamp FieldType = "timestamp"
	FieldTypeEnum      FieldType = "enum"
)

// FieldDef describes a single declared field on a collection's record shape.
// The list drives the admin form renderer, which lives outside this module.
type FieldDef struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required,omitempty"`
	Values   []string  `json:"values,omitempty"` // allowed values for enum fields
}

// Collection describes one registered collection: its envelope, backing
// file, ID prefix, record constructor, and declared fields.
type Collection struct {
	Type     CollectionType
	File     string
	Envelope Envelope
	IDPrefix string
	New      func() Record
	Fields   []FieldDef

	// UniqueEmail enforces case-folded email uniqueness on create/update.
	UniqueEmail bool
	// Patchable marks ticket-like collections that accept partial updates
	// restricted to TicketPatchFields.
	Patchable bool
	// DefaultConfig is the config JSON written when a config-wrapped
	// document has no prior config to reattach.
	DefaultConfig string

	Validate func(Record) error
}

var registry = map[CollectionType]*Collection{
	CollectionAccounts: {
		Type:        CollectionAccounts,
		File:        "accounts.json",
		Envelope:    EnvelopeList,
		IDPrefix:    "acc-",
		New:         func() Record { return &Account{} },
		UniqueEmail: true,
		Validate:    validateAccount,
		Fields: []FieldDef{
			{Name: "email", Type: FieldTypeString, Required: true},
			{Name: "name", Type: FieldTypeString, Required: true},
			{Name: "role", Type: FieldTypeEnum, Required: true, Values: []string{"admin", "editor", "viewer", "member"}},
			{Name: "active", Type: FieldTypeBoolean},
		},
	},
	CollectionMembers: {
		Type:        CollectionMembers,
		File:        "members.json",
		Envelope:    EnvelopeList,
		IDPrefix:    "mem-",
		New:         func() Record { return &Member{} },
		UniqueEmail: true,
		Validate:    validateMember,
		Fields: []FieldDef{
			{Name: "email", Type: FieldTypeString, Required: true},
			{Name: "name", Type: FieldTypeString, Required: true},
			{Name: "phone", Type: FieldTypeString},
			{Name: "address", Type: FieldTypeString},
			{Name: "join_date", Type: FieldTypeString},
			{Name: "active", Type: FieldTypeBoolean},
		},
	},
	CollectionNews: {
		Type:     CollectionNews,
		File:     "news.json",
		Envelope: EnvelopeList,
		IDPrefix: "news-",
		New:      func() Record { return &NewsItem{} },
		Validate: validateNews,
		Fields: []FieldDef{
			{Name: "title", Type: FieldTypeString, Required: true},
			{Name: "body", Type: FieldTypeString},
			{Name: "date", Type: FieldTypeString},
			{Name: "image", Type: FieldTypeString},
			{Name: "published", Type: FieldTypeBoolean},
		},
	},
	CollectionEvents: {
		Type:     CollectionEvents,
		File:     "events.json",
		Envelope: EnvelopeList,
		IDPrefix: "evt-",
		New:      func() Record { return &EventItem{} },
		Validate: validateEvent,
		Fields: []FieldDef{
			{Name: "title", Type: FieldTypeString, Required: true},
			{Name: "location", Type: FieldTypeString},
			{Name: "starts", Type: FieldTypeTimestamp},
			{Name: "ends", Type: FieldTypeTimestamp},
			{Name: "published", Type: FieldTypeBoolean},
		},
	},
	CollectionInquiries: {
		Type:      CollectionInquiries,
		File:      "inquiries.json",
		Envelope:  EnvelopeList,
		IDPrefix:  "inq-",
		New:       func() Record { return &Inquiry{} },
		Patchable: true,
		Validate:  validateInquiry,
		Fields: []FieldDef{
			{Name: "email", Type: FieldTypeString, Required: true},
			{Name: "message", Type: FieldTypeString, Required: true},
			{Name: "status", Type: FieldTypeEnum, Values: []string{"new", "in_review", "resolved", "archived"}},
			{Name: "priority", Type: FieldTypeInteger},
			{Name: "notes", Type: FieldTypeString},
		},
	},
	CollectionApplications: {
		Type:      CollectionApplications,
		File:      "applications.json",
		Envelope:  EnvelopeList,
		IDPrefix:  "app-",
		New:       func() Record { return &Application{} },
		Patchable: true,
		Validate:  validateApplication,
		Fields: []FieldDef{
			{Name: "email", Type: FieldTypeString, Required: true},
			{Name: "name", Type: FieldTypeString, Required: true},
			{Name: "status", Type: FieldTypeEnum, Values: []string{"new", "in_review", "resolved", "archived"}},
			{Name: "priority", Type: FieldTypeInteger},
			{Name: "notes", Type: FieldTypeString},
		},
	},
	CollectionSlides: {
		Type:          CollectionSlides,
		File:          "slides.json",
		Envelope:      EnvelopeConfigList,
		IDPrefix:      "sld-",
		New:           func() Record { return &Slide{} },
		DefaultConfig: DefaultSlideConfig,
		Validate:      validateSlide,
		Fields: []FieldDef{
			{Name: "image", Type: FieldTypeString, Required: true},
			{Name: "caption", Type: FieldTypeString},
			{Name: "link", Type: FieldTypeString},
			{Name: "position", Type: FieldTypeInteger},
		},
	},
	CollectionPages: {
		Type:     CollectionPages,
		File:     "pages.json",
		Envelope: EnvelopeSections,
	},
}

// Lookup returns the registered collection for the given type.
func Lookup(t CollectionType) (*Collection, bool) {
	c, ok := registry[t]
	return c, ok
}

// All returns every registered collection type in stable order.
func All() []CollectionType {
	return []CollectionType{
		CollectionAccounts,
		CollectionMembers,
		CollectionNews,
		CollectionEvents,
		CollectionInquiries,
		CollectionApplications,
		CollectionSlides,
		CollectionPages,
	}
}

// DecodeRecord unmarshals a single record payload into a fresh instance of
// the collection's record shape.
func (c *Collection) DecodeRecord(data []byte) (Record, error) {
	if c.New == nil {
		return nil, fmt.Errorf("collection %s holds no list records", c.Type)
	}
	r := c.New()
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", c.Type, err)
	}
	return r, nil
}

// DecodeList unmarshals a JSON array into records of the collection's shape.
func (c *Collection) DecodeList(data []byte) ([]Record, error) {
	if c.New == nil {
		return nil, fmt.Errorf("collection %s holds no list records", c.Type)
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode %s list: %w", c.Type, err)
	}
	records := make([]Record, 0, len(raws))
	for _, raw := range raws {
		r, err := c.DecodeRecord(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// EncodeList marshals records as an indented JSON array. HTML escaping is
// disabled: content bodies routinely hold markup and the documents are
// hand-inspected.
func EncodeList(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	return buf.Bytes(), nil
}
