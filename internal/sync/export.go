// Package sync exports the collection documents as a JSONL snapshot and
// ships it to configured destinations on a schedule.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/alderbrook/civicd/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version     string    `json:"version"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	Collections int       `json:"collections"`
	Records     int       `json:"records"`
}

// line wraps a single JSONL line with a type discriminator.
type line struct {
	Type       string               `json:"type"`
	Collection model.CollectionType `json:"collection"`
	Section    string               `json:"section,omitempty"`
	Data       any                  `json:"data"`
}

// ExportJSONL writes every collection from the store as JSONL to w. Records
// are sorted by ID and sections by name, so identical stores produce
// identical snapshots.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	var lines []line

	for _, typ := range model.All() {
		c, ok := model.Lookup(typ)
		if !ok {
			continue
		}
		switch c.Envelope {
		case model.EnvelopeSections:
			sections, err := s.LoadSections(ctx, typ)
			if err != nil {
				return fmt.Errorf("load %s sections: %w", typ, err)
			}
			names := make([]string, 0, len(sections))
			for name := range sections {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				lines = append(lines, line{Type: "section", Collection: typ, Section: name, Data: sections[name]})
			}

		case model.EnvelopeConfigList:
			cfg, err := s.LoadConfig(ctx, typ)
			if err != nil {
				return fmt.Errorf("load %s config: %w", typ, err)
			}
			lines = append(lines, line{Type: "config", Collection: typ, Data: json.RawMessage(cfg)})
			fallthrough

		default:
			records, err := s.LoadList(ctx, typ)
			if err != nil {
				return fmt.Errorf("load %s: %w", typ, err)
			}
			sort.Slice(records, func(i, j int) bool {
				return records[i].RecordID() < records[j].RecordID()
			})
			for _, r := range records {
				lines = append(lines, line{Type: "record", Collection: typ, Data: r})
			}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:     "1",
		Type:        "header",
		Timestamp:   time.Now().UTC(),
		Collections: len(model.All()),
		Records:     len(lines),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, l := range lines {
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("encode %s line: %w", l.Collection, err)
		}
	}

	return nil
}
