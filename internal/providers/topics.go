package providers

import "github.com/hoanghai1803/newsgate/internal/models"

// Topics lists the canonical topic vocabulary accepted from callers.
var Topics = []string{
	"general", "world", "nation", "business", "technology",
	"entertainment", "sports", "science", "health", "crypto",
}

// topicSearchTerms maps topics no provider has a category slot for onto a
// free-text expression, which forces the search endpoint.
var topicSearchTerms = map[string]string{
	"crypto": "cryptocurrency OR bitcoin",
}

// resolveTopic splits a query into the free-text term and the provider
// category to send. Free text always wins: when it is present the topic is
// dropped, since search endpoints take no category. Topics missing from
// categories fall back to a free-text search for the topic itself.
func resolveTopic(q models.Query, categories map[string]string) (text, category string) {
	if q.HasText() {
		return q.Text, ""
	}
	if q.Topic == "" {
		return "", ""
	}
	if term, ok := topicSearchTerms[q.Topic]; ok {
		return term, ""
	}
	if c, ok := categories[q.Topic]; ok {
		return "", c
	}
	return q.Topic, ""
}
