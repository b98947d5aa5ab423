package normalize

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hoanghai1803/newsgate/internal/models"
)

// newsapiResponse is a NewsAPI v2 success payload.
type newsapiResponse struct {
	TotalResults int              `json:"totalResults"`
	Articles     []newsapiArticle `json:"articles"`
}

type newsapiArticle struct {
	Source *struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// NewsAPI decodes a NewsAPI payload into the canonical article list.
// totalResults becomes totalArticles and urlToImage becomes image.
func NewsAPI(r io.Reader) (*models.ArticleList, error) {
	var resp newsapiResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding newsapi response: %w", err)
	}

	list := &models.ArticleList{
		TotalArticles: resp.TotalResults,
		Articles:      make([]models.Article, 0, len(resp.Articles)),
	}
	for _, item := range resp.Articles {
		a := models.Article{
			Title:       item.Title,
			Description: item.Description,
			Content:     item.Content,
			URL:         item.URL,
			ImageURL:    item.URLToImage,
			PublishedAt: parseTime(item.PublishedAt),
		}
		if item.Source != nil {
			a.Source.Name = item.Source.Name
		}
		list.Articles = append(list.Articles, a)
	}
	if list.TotalArticles < len(list.Articles) {
		list.TotalArticles = len(list.Articles)
	}
	return list, nil
}
