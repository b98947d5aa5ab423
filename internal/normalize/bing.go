package normalize

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hoanghai1803/newsgate/internal/models"
)

// bingResponse is the subset of a Bing News Search response we read. Every
// nested object is a pointer or slice so absent fields decode to nil.
type bingResponse struct {
	Value []bingArticle `json:"value"`
}

type bingArticle struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	Description   string `json:"description"`
	DatePublished string `json:"datePublished"`
	Provider      []struct {
		Name string `json:"name"`
	} `json:"provider"`
	Image *struct {
		Thumbnail *struct {
			ContentURL string `json:"contentUrl"`
		} `json:"thumbnail"`
	} `json:"image"`
}

// Bing decodes a Bing News Search payload and maps each item onto the
// canonical Article. Missing nested fields leave the article field empty.
func Bing(r io.Reader) (*models.ArticleList, error) {
	var resp bingResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding bing response: %w", err)
	}

	list := &models.ArticleList{Articles: make([]models.Article, 0, len(resp.Value))}
	for _, item := range resp.Value {
		a := models.Article{
			Title:       item.Name,
			Description: item.Description,
			URL:         item.URL,
			PublishedAt: parseTime(item.DatePublished),
		}
		if len(item.Provider) > 0 {
			a.Source.Name = item.Provider[0].Name
		}
		if item.Image != nil && item.Image.Thumbnail != nil {
			a.ImageURL = item.Image.Thumbnail.ContentURL
		}
		list.Articles = append(list.Articles, a)
	}
	list.TotalArticles = len(list.Articles)
	return list, nil
}

// parseTime reads an RFC 3339 timestamp, with or without fractional
// seconds. It returns nil when s is empty or malformed.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		// Bing sometimes omits the zone designator.
		t, err = time.Parse("2006-01-02T15:04:05.0000000", s)
		if err != nil {
			return nil
		}
	}
	t = t.UTC()
	return &t
}
