package models

import "strings"

// Query is the caller-facing filter set. Every provider-specific parameter
// is derived from these three fields.
type Query struct {
	Country string `json:"country,omitempty"`
	Topic   string `json:"topic,omitempty"`
	Text    string `json:"q,omitempty"`
}

// NewQuery builds a Query from raw inbound values. Country and topic are
// lower-cased; all three are trimmed.
func NewQuery(country, topic, text string) Query {
	return Query{
		Country: strings.ToLower(strings.TrimSpace(country)),
		Topic:   strings.ToLower(strings.TrimSpace(topic)),
		Text:    strings.TrimSpace(text),
	}
}

// HasText reports whether a free-text search term is present.
func (q Query) HasText() bool {
	return q.Text != ""
}
