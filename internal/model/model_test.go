package model

import (
	"strings"
	"testing"
)

func TestRole_IsValid(t *testing.T) {
	for _, tc := range []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleEditor, true},
		{RoleViewer, true},
		{RoleMember, true},
		{Role(""), false},
		{Role("bogus"), false},
	} {
		if got := tc.role.IsValid(); got != tc.want {
			t.Errorf("Role(%q).IsValid() = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestTicketStatus_IsValid(t *testing.T) {
	for _, tc := range []struct {
		status TicketStatus
		want   bool
	}{
		{TicketNew, true},
		{TicketInReview, true},
		{TicketResolved, true},
		{TicketArchived, true},
		{TicketStatus(""), false},
		{TicketStatus("open"), false},
	} {
		if got := tc.status.IsValid(); got != tc.want {
			t.Errorf("TicketStatus(%q).IsValid() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestEmailKey(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"A@X.com", "a@x.com"},
		{"  b@x.com  ", "b@x.com"},
		{"already@lower.org", "already@lower.org"},
		{"", ""},
	} {
		if got := EmailKey(tc.in); got != tc.want {
			t.Errorf("EmailKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, typ := range All() {
		c, ok := Lookup(typ)
		if !ok {
			t.Fatalf("Lookup(%q) not found", typ)
		}
		if c.Type != typ {
			t.Errorf("Lookup(%q).Type = %q", typ, c.Type)
		}
		if c.File == "" {
			t.Errorf("Lookup(%q).File is empty", typ)
		}
	}
	if _, ok := Lookup("bogus"); ok {
		t.Error("Lookup(bogus) = ok, want not found")
	}
}

func TestDecodeList_RoundTrip(t *testing.T) {
	c, _ := Lookup(CollectionNews)
	in := []Record{
		&NewsItem{ID: "news-1", Title: "Summer fair", Published: true},
		&NewsItem{ID: "news-2", Title: "Hall renovation"},
	}
	data, err := EncodeList(in)
	if err != nil {
		t.Fatalf("EncodeList() error: %v", err)
	}
	out, err := c.DecodeList(data)
	if err != nil {
		t.Fatalf("DecodeList() error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("DecodeList() returned %d records, want 2", len(out))
	}
	got := out[0].(*NewsItem)
	if got.ID != "news-1" || got.Title != "Summer fair" || !got.Published {
		t.Errorf("DecodeList()[0] = %+v, want news-1 preserved", got)
	}
}

func TestEncodeList_NoHTMLEscape(t *testing.T) {
	data, err := EncodeList([]Record{&NewsItem{ID: "news-1", Title: "a", Body: "<p>hi</p>"}})
	if err != nil {
		t.Fatalf("EncodeList() error: %v", err)
	}
	if !strings.Contains(string(data), "<p>hi</p>") {
		t.Errorf("EncodeList() escaped HTML: %s", data)
	}
}
