package normalize

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/hoanghai1803/newsgate/internal/models"
	"github.com/mmcdole/gofeed"
)

var htmlTagPattern = regexp.MustCompile("<[^>]*>")

// Feed parses an RSS or Atom payload and maps its items onto canonical
// articles. Items with an empty title or link are skipped.
func Feed(r io.Reader) (*models.ArticleList, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}
	return feedArticles(feed), nil
}

// feedArticles converts gofeed items into canonical articles.
func feedArticles(feed *gofeed.Feed) *models.ArticleList {
	list := &models.ArticleList{Articles: make([]models.Article, 0, len(feed.Items))}
	for _, item := range feed.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}

		title, source := splitSource(item.Title)
		a := models.Article{
			Title:       title,
			Description: stripHTML(item.Description),
			URL:         item.Link,
			Source:      models.ArticleSource{Name: source},
		}
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			a.PublishedAt = &t
		} else if item.UpdatedParsed != nil {
			t := item.UpdatedParsed.UTC()
			a.PublishedAt = &t
		}
		if item.Image != nil {
			a.ImageURL = item.Image.URL
		}
		if a.Source.Name == "" && len(item.Authors) > 0 && item.Authors[0] != nil {
			a.Source.Name = item.Authors[0].Name
		}
		list.Articles = append(list.Articles, a)
	}
	list.TotalArticles = len(list.Articles)
	return list
}

// splitSource separates the "Headline - Publisher" suffix Google News
// appends to every item title.
func splitSource(title string) (string, string) {
	i := strings.LastIndex(title, " - ")
	if i <= 0 || i+3 >= len(title) {
		return title, ""
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
}

// stripHTML removes HTML tags from s and unescapes HTML entities.
func stripHTML(s string) string {
	clean := htmlTagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(clean))
}
