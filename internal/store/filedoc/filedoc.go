// Package filedoc implements the document store on plain JSON files, one
// document per collection. Writes go to a temporary file in the same
// directory and are renamed into place, so a failed write never leaves a
// half-written document behind.
package filedoc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/alderbrook/civicd/internal/store"
)

// Store is a file-backed document store rooted at a data directory.
type Store struct {
	dir string

	// One mutex per collection serializes its read-modify-write cycles.
	// Two concurrent whole-document writers would otherwise race and the
	// later rename would silently discard the earlier mutation.
	mu map[model.CollectionType]*sync.Mutex
}

// New creates (if needed) the data directory and returns a store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filedoc: create data dir: %w", err)
	}
	mu := make(map[model.CollectionType]*sync.Mutex)
	for _, typ := range model.All() {
		mu[typ] = &sync.Mutex{}
	}
	return &Store{dir: dir, mu: mu}, nil
}

// Close is a no-op for the file store.
func (s *Store) Close() error { return nil }

// Lock acquires the writer mutex of each given collection in a stable order
// and returns the unlock function.
func (s *Store) Lock(types ...model.CollectionType) func() {
	sorted := make([]model.CollectionType, len(types))
	copy(sorted, types)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, typ := range sorted {
		if m, ok := s.mu[typ]; ok {
			m.Lock()
		}
	}
	return func() {
		for i := len(sorted) - 1; i >= 0; i-- {
			if m, ok := s.mu[sorted[i]]; ok {
				m.Unlock()
			}
		}
	}
}

// lookup resolves a collection type, rejecting unknown types before any I/O.
func lookup(typ model.CollectionType) (*model.Collection, error) {
	c, ok := model.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownCollection, typ)
	}
	return c, nil
}

func (s *Store) path(c *model.Collection) string {
	return filepath.Join(s.dir, c.File)
}

// readDoc returns the raw document bytes, or nil when the document does not
// exist yet.
func (s *Store) readDoc(c *model.Collection) ([]byte, error) {
	data, err := os.ReadFile(s.path(c))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &store.PersistenceError{Op: "read", Type: c.Type, Err: err}
	}
	return data, nil
}

// configList is the on-disk shape of a config-wrapped collection.
type configList struct {
	Config json.RawMessage `json:"config"`
	List   json.RawMessage `json:"list"`
}

// LoadList returns the records of a plain-list or config-wrapped collection.
func (s *Store) LoadList(ctx context.Context, typ model.CollectionType) ([]model.Record, error) {
	c, err := lookup(typ)
	if err != nil {
		return nil, err
	}
	data, err := s.readDoc(c)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []model.Record{}, nil
	}

	switch c.Envelope {
	case model.EnvelopeList:
		return c.DecodeList(data)
	case model.EnvelopeConfigList:
		var doc configList
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &store.PersistenceError{Op: "decode", Type: typ, Err: err}
		}
		if len(doc.List) == 0 {
			return []model.Record{}, nil
		}
		return c.DecodeList(doc.List)
	default:
		return nil, fmt.Errorf("%s is not a list collection", typ)
	}
}

// LoadConfig returns the opaque config object of a config-wrapped
// collection, falling back to the registered default.
func (s *Store) LoadConfig(ctx context.Context, typ model.CollectionType) (json.RawMessage, error) {
	c, err := lookup(typ)
	if err != nil {
		return nil, err
	}
	if c.Envelope != model.EnvelopeConfigList {
		return nil, fmt.Errorf("%s carries no config object", typ)
	}
	data, err := s.readDoc(c)
	if err != nil {
		return nil, err
	}
	if data != nil {
		var doc configList
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &store.PersistenceError{Op: "decode", Type: typ, Err: err}
		}
		if len(doc.Config) > 0 {
			return doc.Config, nil
		}
	}
	return json.RawMessage(c.DefaultConfig), nil
}

// LoadSections returns the full section map of a keyed-section collection.
func (s *Store) LoadSections(ctx context.Context, typ model.CollectionType) (map[string]map[string]any, error) {
	c, err := lookup(typ)
	if err != nil {
		return nil, err
	}
	if c.Envelope != model.EnvelopeSections {
		return nil, fmt.Errorf("%s is not a keyed-section collection", typ)
	}
	data, err := s.readDoc(c)
	if err != nil {
		return nil, err
	}
	sections := make(map[string]map[string]any)
	if data == nil {
		return sections, nil
	}
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, &store.PersistenceError{Op: "decode", Type: typ, Err: err}
	}
	return sections, nil
}

// SaveList replaces the list of a plain-list or config-wrapped collection.
func (s *Store) SaveList(ctx context.Context, typ model.CollectionType, list []model.Record) error {
	return s.Commit(ctx, store.Stage{Type: typ, List: list})
}

// SaveSection replaces exactly one section key of a keyed-section
// collection. Sibling sections are carried over byte-for-byte.
func (s *Store) SaveSection(ctx context.Context, typ model.CollectionType, section string, data map[string]any) error {
	c, err := lookup(typ)
	if err != nil {
		return err
	}
	if c.Envelope != model.EnvelopeSections {
		return fmt.Errorf("%s is not a keyed-section collection", typ)
	}

	// Preserve sibling sections as raw JSON so a save never reshapes them.
	raw := make(map[string]json.RawMessage)
	prior, err := s.readDoc(c)
	if err != nil {
		return err
	}
	if prior != nil {
		if err := json.Unmarshal(prior, &raw); err != nil {
			return &store.PersistenceError{Op: "decode", Type: typ, Err: err}
		}
	}

	updated, err := encodeJSON(data)
	if err != nil {
		return &store.PersistenceError{Op: "encode", Type: typ, Err: err}
	}
	raw[section] = updated

	doc, err := encodeJSON(raw)
	if err != nil {
		return &store.PersistenceError{Op: "encode", Type: typ, Err: err}
	}
	return s.replace(c, doc)
}

// marshalStage renders the full document bytes for one staged list. For
// config-wrapped collections the stored config is re-read and reattached
// verbatim; it is never regenerated from the new list.
func (s *Store) marshalStage(ctx context.Context, st store.Stage) (*model.Collection, []byte, error) {
	c, err := lookup(st.Type)
	if err != nil {
		return nil, nil, err
	}

	listJSON, err := model.EncodeList(st.List)
	if err != nil {
		return nil, nil, &store.PersistenceError{Op: "encode", Type: st.Type, Err: err}
	}

	switch c.Envelope {
	case model.EnvelopeList:
		return c, listJSON, nil
	case model.EnvelopeConfigList:
		cfg, err := s.LoadConfig(ctx, st.Type)
		if err != nil {
			return nil, nil, err
		}
		doc, err := encodeJSON(configList{Config: cfg, List: bytes.TrimSpace(listJSON)})
		if err != nil {
			return nil, nil, &store.PersistenceError{Op: "encode", Type: st.Type, Err: err}
		}
		return c, doc, nil
	default:
		return nil, nil, fmt.Errorf("%s is not a list collection", st.Type)
	}
}

// Commit writes every staged document to a temporary file first, then
// renames them all into place. A failure while staging removes the
// temporaries and leaves every live document untouched.
func (s *Store) Commit(ctx context.Context, stages ...store.Stage) error {
	type staged struct {
		c   *model.Collection
		tmp string
	}
	var pending []staged

	cleanup := func() {
		for _, p := range pending {
			_ = os.Remove(p.tmp)
		}
	}

	for _, st := range stages {
		c, doc, err := s.marshalStage(ctx, st)
		if err != nil {
			cleanup()
			return err
		}
		tmp, err := s.stageTemp(c, doc)
		if err != nil {
			cleanup()
			return err
		}
		pending = append(pending, staged{c: c, tmp: tmp})
	}

	for i, p := range pending {
		if err := os.Rename(p.tmp, s.path(p.c)); err != nil {
			for _, rest := range pending[i:] {
				_ = os.Remove(rest.tmp)
			}
			return &store.PersistenceError{Op: "replace", Type: p.c.Type, Err: err}
		}
	}
	return nil
}

// stageTemp writes doc to a temporary file next to the live document and
// returns its path.
func (s *Store) stageTemp(c *model.Collection, doc []byte) (string, error) {
	f, err := os.CreateTemp(s.dir, c.File+".tmp-*")
	if err != nil {
		return "", &store.PersistenceError{Op: "stage", Type: c.Type, Err: err}
	}
	tmp := f.Name()
	if _, err := f.Write(doc); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", &store.PersistenceError{Op: "stage", Type: c.Type, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", &store.PersistenceError{Op: "stage", Type: c.Type, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", &store.PersistenceError{Op: "stage", Type: c.Type, Err: err}
	}
	return tmp, nil
}

// replace atomically swaps in a fully rendered document.
func (s *Store) replace(c *model.Collection, doc []byte) error {
	tmp, err := s.stageTemp(c, doc)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path(c)); err != nil {
		os.Remove(tmp)
		return &store.PersistenceError{Op: "replace", Type: c.Type, Err: err}
	}
	return nil
}

// encodeJSON marshals v indented with HTML escaping off, matching the
// on-disk style of every collection document.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
