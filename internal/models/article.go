package models

import "time"

// Article is a single news item in the canonical shape returned to callers.
// The JSON layout matches the GNews article schema so that passthrough and
// normalized responses look the same to clients.
type Article struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Content     string        `json:"content,omitempty"`
	URL         string        `json:"url"`
	ImageURL    string        `json:"image,omitempty"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty"`
	Source      ArticleSource `json:"source"`
}

// ArticleSource names the publisher of an article.
type ArticleSource struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// ArticleList is the canonical response envelope.
type ArticleList struct {
	TotalArticles int       `json:"totalArticles"`
	Articles      []Article `json:"articles"`
}
