package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/alderbrook/civicd/internal/store/filedoc"
)

func nonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func seedStore(t *testing.T) *filedoc.Store {
	t.Helper()
	st, err := filedoc.New(t.TempDir())
	if err != nil {
		t.Fatalf("filedoc.New() error = %v", err)
	}
	ctx := context.Background()

	news := []model.Record{
		&model.NewsItem{ID: "news-b", Title: "Second"},
		&model.NewsItem{ID: "news-a", Title: "First <b>bold</b>"},
	}
	if err := st.SaveList(ctx, model.CollectionNews, news); err != nil {
		t.Fatalf("SaveList(news) error = %v", err)
	}
	slides := []model.Record{
		&model.Slide{ID: "sld-1", Image: "/img/banner.jpg"},
	}
	if err := st.SaveList(ctx, model.CollectionSlides, slides); err != nil {
		t.Fatalf("SaveList(slides) error = %v", err)
	}
	if err := st.SaveSection(ctx, model.CollectionPages, "about", map[string]any{"heading": "About"}); err != nil {
		t.Fatalf("SaveSection() error = %v", err)
	}
	return st
}

func TestExportJSONL(t *testing.T) {
	st := seedStore(t)

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), st, &buf); err != nil {
		t.Fatalf("ExportJSONL() error = %v", err)
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 2 news + 1 slide config + 1 slide + 1 section = 6
	if len(lines) != 6 {
		t.Fatalf("lines = %d, want 6\n%s", len(lines), buf.String())
	}

	var hdr struct {
		Version string `json:"version"`
		Type    string `json:"type"`
		Records int    `json:"records"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &hdr); err != nil {
		t.Fatalf("header not valid JSON: %v", err)
	}
	if hdr.Type != "header" || hdr.Version != "1" || hdr.Records != 5 {
		t.Errorf("header = %+v", hdr)
	}

	// Every following line carries a type and collection.
	counts := map[string]int{}
	for _, l := range lines[1:] {
		var entry struct {
			Type       string          `json:"type"`
			Collection string          `json:"collection"`
			Section    string          `json:"section"`
			Data       json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal([]byte(l), &entry); err != nil {
			t.Fatalf("line not valid JSON: %v\n%s", err, l)
		}
		counts[entry.Type]++
		if entry.Collection == "" {
			t.Errorf("line missing collection: %s", l)
		}
	}
	if counts["record"] != 3 || counts["config"] != 1 || counts["section"] != 1 {
		t.Errorf("counts = %v", counts)
	}

	// HTML in content survives unescaped.
	if !strings.Contains(buf.String(), "<b>bold</b>") {
		t.Error("HTML content was escaped in export")
	}

	// Records are sorted by ID within a collection.
	if strings.Index(buf.String(), "news-a") > strings.Index(buf.String(), "news-b") {
		t.Error("records not sorted by ID")
	}
}

func TestExportJSONL_Deterministic(t *testing.T) {
	st := seedStore(t)

	var a, b bytes.Buffer
	if err := ExportJSONL(context.Background(), st, &a); err != nil {
		t.Fatalf("first export: %v", err)
	}
	if err := ExportJSONL(context.Background(), st, &b); err != nil {
		t.Fatalf("second export: %v", err)
	}

	// Strip the header line; its timestamp differs between runs.
	la, lb := nonEmptyLines(a.String()), nonEmptyLines(b.String())
	if len(la) != len(lb) {
		t.Fatalf("line counts differ: %d vs %d", len(la), len(lb))
	}
	for i := 1; i < len(la); i++ {
		if la[i] != lb[i] {
			t.Errorf("line %d differs:\n%s\n%s", i, la[i], lb[i])
		}
	}
}

func TestExportJSONL_EmptyStore(t *testing.T) {
	st, err := filedoc.New(t.TempDir())
	if err != nil {
		t.Fatalf("filedoc.New() error = %v", err)
	}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), st, &buf); err != nil {
		t.Fatalf("ExportJSONL() error = %v", err)
	}

	lines := nonEmptyLines(buf.String())
	// Header plus the default slide config.
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2\n%s", len(lines), buf.String())
	}
}
