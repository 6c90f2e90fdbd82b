package model

import "time"

// NewsItem is a public news article.
type NewsItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Date      string    `json:"date,omitempty"`
	Image     string    `json:"image,omitempty"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *NewsItem) RecordID() string      { return n.ID }
func (n *NewsItem) SetRecordID(id string) { n.ID = id }
func (n *NewsItem) Touch(t time.Time) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = t
	}
	n.UpdatedAt = t
}

// EventItem is a calendar entry for the association.
type EventItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Location  string    `json:"location,omitempty"`
	Starts    string    `json:"starts,omitempty"`
	Ends      string    `json:"ends,omitempty"`
	Body      string    `json:"body,omitempty"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *EventItem) RecordID() string      { return e.ID }
func (e *EventItem) SetRecordID(id string) { e.ID = id }
func (e *EventItem) Touch(t time.Time) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = t
	}
	e.UpdatedAt = t
}

// Slide is one entry in the homepage slideshow. The slides collection is
// config-wrapped: its document carries a sibling config object (autoplay
// settings) that list saves must never regenerate.
type Slide struct {
	ID        string    `json:"id"`
	Image     string    `json:"image"`
	Caption   string    `json:"caption,omitempty"`
	Link      string    `json:"link,omitempty"`
	Position  int       `json:"position,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Slide) RecordID() string      { return s.ID }
func (s *Slide) SetRecordID(id string) { s.ID = id }
func (s *Slide) Touch(t time.Time) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = t
	}
	s.UpdatedAt = t
}

// DefaultSlideConfig is the config object written when a config-wrapped
// document is saved for the first time and no prior config exists.
const DefaultSlideConfig = `{"auto_slide":true,"interval":5000}`
