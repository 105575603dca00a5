package briefing

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses RSS or Atom data into normalized items. Malformed individual
// entries degrade to defaults; entries without a resolvable link are
// dropped, since a link is the minimum viable identity for an item.
func (p *Parser) Run(data []byte) ([]ParsedItem, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]ParsedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Link) == "" {
			continue
		}
		items = append(items, p.normalizeItem(item))
	}

	return items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) ParsedItem {
	normalized := ParsedItem{
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Description: item.Description,
		Content:     item.Content,
	}

	if item.PublishedParsed != nil {
		normalized.PublishedAt = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		normalized.PublishedAt = item.UpdatedParsed
	}

	normalized.ImageURL = p.discoverImage(item)

	return normalized
}

// discoverImage looks for an item image in priority order: media
// content/thumbnail, image enclosures, then the first inline image in the
// item's markup.
func (p *Parser) discoverImage(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, tag := range []string{"content", "thumbnail"} {
			for _, ext := range media[tag] {
				if url := ext.Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}

	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	for _, enclosure := range item.Enclosures {
		if enclosure != nil && strings.HasPrefix(enclosure.Type, "image/") && enclosure.URL != "" {
			return enclosure.URL
		}
	}

	return firstInlineImage(item.Content, item.Description)
}

func firstInlineImage(fragments ...string) string {
	for _, fragment := range fragments {
		if !strings.Contains(fragment, "<img") {
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
		if err != nil {
			continue
		}

		if src, ok := doc.Find("img[src]").First().Attr("src"); ok && src != "" {
			return src
		}
	}

	return ""
}
