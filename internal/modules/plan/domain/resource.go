package domain

import (
	"net/url"
	"strings"
)

const (
	ResourceVideo   = "video"
	ResourceArticle = "article"
)

// Resource is a parsed "kind: query" suggestion string.
type Resource struct {
	Kind  string
	Query string
}

// ParseResource splits a suggestion on its first colon. A "video"
// prefix selects video search; everything else, prefixed or bare,
// reads as an article lookup on the full remaining text.
func ParseResource(raw string) Resource {
	kind, query, found := strings.Cut(raw, ":")
	if found {
		switch strings.ToLower(strings.TrimSpace(kind)) {
		case ResourceVideo:
			return Resource{Kind: ResourceVideo, Query: strings.TrimSpace(query)}
		case ResourceArticle:
			return Resource{Kind: ResourceArticle, Query: strings.TrimSpace(query)}
		}
	}
	return Resource{Kind: ResourceArticle, Query: strings.TrimSpace(raw)}
}

// SearchURL builds the lookup link for the suggestion.
func (r Resource) SearchURL() string {
	q := url.QueryEscape(r.Query)
	if r.Kind == ResourceVideo {
		return "https://www.youtube.com/results?search_query=" + q
	}
	return "https://www.google.com/search?q=" + q
}
