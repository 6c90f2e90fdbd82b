package filedoc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/alderbrook/civicd/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

func TestLoadList_MissingDocument(t *testing.T) {
	s := newTestStore(t)
	list, err := s.LoadList(context.Background(), model.CollectionNews)
	if err != nil {
		t.Fatalf("LoadList() error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("LoadList() = %d records, want empty list", len(list))
	}
}

func TestLoadList_UnknownType(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LoadList(context.Background(), "bogus")
	if !errors.Is(err, store.ErrUnknownCollection) {
		t.Errorf("LoadList(bogus) error = %v, want ErrUnknownCollection", err)
	}
	// The reject happens before any I/O: no document may appear.
	entries, _ := os.ReadDir(s.dir)
	if len(entries) != 0 {
		t.Errorf("data dir has %d entries after rejected load, want 0", len(entries))
	}
}

func TestSaveList_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := []model.Record{
		&model.NewsItem{ID: "news-1", Title: "Summer fair", Published: true},
		&model.NewsItem{ID: "news-2", Title: "Hall renovation"},
	}
	if err := s.SaveList(ctx, model.CollectionNews, in); err != nil {
		t.Fatalf("SaveList() error: %v", err)
	}

	out, err := s.LoadList(ctx, model.CollectionNews)
	if err != nil {
		t.Fatalf("LoadList() error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("LoadList() = %d records, want 2", len(out))
	}
	if got := out[0].(*model.NewsItem); got.Title != "Summer fair" || !got.Published {
		t.Errorf("LoadList()[0] = %+v", got)
	}

	// save(load(type)) must leave the document byte-equivalent.
	before, err := os.ReadFile(filepath.Join(s.dir, "news.json"))
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if err := s.SaveList(ctx, model.CollectionNews, out); err != nil {
		t.Fatalf("SaveList() error: %v", err)
	}
	after, err := os.ReadFile(filepath.Join(s.dir, "news.json"))
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Errorf("save(load()) changed the document:\nbefore: %s\nafter:  %s", before, after)
	}
}

func TestConfigWrapped_PreservesConfig(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Seed a document with a hand-written config.
	seed := `{
  "config": {"auto_slide": true, "interval": 7000},
  "list": []
}`
	if err := os.WriteFile(filepath.Join(s.dir, "slides.json"), []byte(seed), 0o644); err != nil {
		t.Fatalf("seed document: %v", err)
	}

	// Overwrite the list with three new slides.
	slides := []model.Record{
		&model.Slide{ID: "sld-1", Image: "a.jpg"},
		&model.Slide{ID: "sld-2", Image: "b.jpg"},
		&model.Slide{ID: "sld-3", Image: "c.jpg"},
	}
	if err := s.SaveList(ctx, model.CollectionSlides, slides); err != nil {
		t.Fatalf("SaveList() error: %v", err)
	}

	cfg, err := s.LoadConfig(ctx, model.CollectionSlides)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	var got struct {
		AutoSlide bool `json:"auto_slide"`
		Interval  int  `json:"interval"`
	}
	if err := json.Unmarshal(cfg, &got); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if !got.AutoSlide || got.Interval != 7000 {
		t.Errorf("config = %s, want auto_slide=true interval=7000", cfg)
	}

	list, err := s.LoadList(ctx, model.CollectionSlides)
	if err != nil {
		t.Fatalf("LoadList() error: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("LoadList() = %d slides, want 3", len(list))
	}
}

func TestLoadConfig_DefaultWhenMissing(t *testing.T) {
	s := newTestStore(t)
	cfg, err := s.LoadConfig(context.Background(), model.CollectionSlides)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if string(cfg) != model.DefaultSlideConfig {
		t.Errorf("LoadConfig() = %s, want default %s", cfg, model.DefaultSlideConfig)
	}
}

func TestSaveSection_SiblingsUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveSection(ctx, model.CollectionPages, "home", map[string]any{"headline": "Welcome"}); err != nil {
		t.Fatalf("SaveSection(home) error: %v", err)
	}
	if err := s.SaveSection(ctx, model.CollectionPages, "contact", map[string]any{"email": "info@verein.org"}); err != nil {
		t.Fatalf("SaveSection(contact) error: %v", err)
	}
	// Update one section; the other must persist unchanged.
	if err := s.SaveSection(ctx, model.CollectionPages, "home", map[string]any{"headline": "Hello"}); err != nil {
		t.Fatalf("SaveSection(home) error: %v", err)
	}

	sections, err := s.LoadSections(ctx, model.CollectionPages)
	if err != nil {
		t.Fatalf("LoadSections() error: %v", err)
	}
	if got := sections["home"]["headline"]; got != "Hello" {
		t.Errorf("home.headline = %v, want Hello", got)
	}
	if got := sections["contact"]["email"]; got != "info@verein.org" {
		t.Errorf("contact.email = %v, want info@verein.org", got)
	}
}

func TestSaveSection_WrongEnvelope(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveSection(context.Background(), model.CollectionNews, "x", nil); err == nil {
		t.Error("SaveSection(news) = nil, want envelope error")
	}
}

func TestCommit_MultipleCollections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Commit(ctx,
		store.Stage{Type: model.CollectionAccounts, List: []model.Record{
			&model.Account{ID: "acc-1", Email: "a@x.com", Name: "Ana", Role: model.RoleMember, MemberID: "mem-1"},
		}},
		store.Stage{Type: model.CollectionMembers, List: []model.Record{
			&model.Member{ID: "mem-1", Email: "a@x.com", Name: "Ana"},
		}},
	)
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	accounts, err := s.LoadList(ctx, model.CollectionAccounts)
	if err != nil {
		t.Fatalf("LoadList(accounts) error: %v", err)
	}
	members, err := s.LoadList(ctx, model.CollectionMembers)
	if err != nil {
		t.Fatalf("LoadList(members) error: %v", err)
	}
	if len(accounts) != 1 || len(members) != 1 {
		t.Fatalf("got %d accounts, %d members, want 1 each", len(accounts), len(members))
	}
}

func TestCommit_FailureLeavesPriorState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveList(ctx, model.CollectionNews, []model.Record{
		&model.NewsItem{ID: "news-1", Title: "kept"},
	}); err != nil {
		t.Fatalf("SaveList() error: %v", err)
	}

	// A stage with an unknown collection aborts the whole commit.
	err := s.Commit(ctx,
		store.Stage{Type: model.CollectionNews, List: []model.Record{&model.NewsItem{ID: "news-2", Title: "discarded"}}},
		store.Stage{Type: "bogus"},
	)
	if !errors.Is(err, store.ErrUnknownCollection) {
		t.Fatalf("Commit() error = %v, want ErrUnknownCollection", err)
	}

	list, err := s.LoadList(ctx, model.CollectionNews)
	if err != nil {
		t.Fatalf("LoadList() error: %v", err)
	}
	if len(list) != 1 || list[0].(*model.NewsItem).Title != "kept" {
		t.Errorf("prior document disturbed: %+v", list)
	}
	// No stray temp files either.
	entries, _ := os.ReadDir(s.dir)
	if len(entries) != 1 {
		t.Errorf("data dir has %d entries, want 1", len(entries))
	}
}

func TestLock_Reentry(t *testing.T) {
	s := newTestStore(t)
	unlock := s.Lock(model.CollectionMembers, model.CollectionAccounts)
	unlock()
	// Locking again must not deadlock after unlock.
	unlock = s.Lock(model.CollectionAccounts)
	unlock()
}
