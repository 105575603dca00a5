package reader

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Extraction methods, reported for downstream tier decisions.
const (
	MethodArticle = "article"
	MethodOGBody  = "og+body"
	MethodRaw     = "raw"
)

const (
	// MinBodyLength is the acceptance threshold per body strategy.
	MinBodyLength = 200

	minParagraphLength = 80
	minParagraphCount  = 3
)

// ExtractedContent is the ephemeral result of one extraction. It lives for
// a single request and is never persisted by the reader surface.
type ExtractedContent struct {
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ImageURL    string     `json:"image_url"`
	BodyHTML    string     `json:"body_html"`
	BodyText    string     `json:"body_text"`
	WordCount   int        `json:"word_count"`
	Method      string     `json:"method"`
}

// Junk subtrees stripped from any body candidate.
const junkSelector = "script, style, nav, aside, footer, iframe, form, noscript"

// Ranked content-container patterns for the second strategy, most specific
// first. The longest cleaned body among matches wins.
var containerSelectors = []string{
	"[itemprop=articleBody]",
	".article-body",
	".article-content",
	".post-content",
	".post-body",
	".entry-content",
	".story-body",
	"#article",
	"#content",
	"main",
	"[role=main]",
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Run extracts readable content from an arbitrary third-party page. Body
// strategies are attempted in order, each only if the prior one yields too
// little text; metadata extraction is independent of the body strategy.
// An empty body is a defined outcome, not an error.
func (e *Extractor) Run(pageHTML []byte, baseURL string) (*ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	content := &ExtractedContent{Method: MethodRaw}
	e.extractMetadata(doc, baseURL, content)

	if bodyHTML, bodyText := cleanedBody(doc.Find("article").First()); len(bodyText) >= MinBodyLength {
		content.BodyHTML = bodyHTML
		content.BodyText = bodyText
		content.Method = MethodArticle
	}

	if content.BodyText == "" {
		var bestHTML, bestText string
		for _, selector := range containerSelectors {
			doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
				if candidateHTML, candidateText := cleanedBody(sel); len(candidateText) > len(bestText) {
					bestHTML, bestText = candidateHTML, candidateText
				}
			})
		}
		if len(bestText) >= MinBodyLength {
			content.BodyHTML = bestHTML
			content.BodyText = bestText
			content.Method = MethodOGBody
		}
	}

	if content.BodyText == "" {
		var paragraphs []string
		doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
			text := collapseWhitespace(sel.Text())
			if len(text) > minParagraphLength {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= minParagraphCount {
			content.BodyText = strings.Join(paragraphs, "\n\n")
			var b strings.Builder
			for _, p := range paragraphs {
				b.WriteString("<p>")
				b.WriteString(html.EscapeString(p))
				b.WriteString("</p>")
			}
			content.BodyHTML = b.String()
			content.Method = MethodRaw
		}
	}

	content.WordCount = len(strings.Fields(content.BodyText))

	return content, nil
}

func (e *Extractor) extractMetadata(doc *goquery.Document, baseURL string, content *ExtractedContent) {
	content.Title = firstMetaContent(doc, `meta[property="og:title"]`)
	if content.Title == "" {
		content.Title = collapseWhitespace(doc.Find("title").First().Text())
	}

	content.Author = firstMetaContent(doc,
		`meta[name="author"]`,
		`meta[property="article:author"]`,
		`meta[name="twitter:creator"]`)

	if published := firstMetaContent(doc,
		`meta[property="article:published_time"]`,
		`meta[name="date"]`,
		`meta[name="pubdate"]`); published != "" {
		if ts, ok := parsePublished(published); ok {
			content.PublishedAt = &ts
		}
	}

	if image := firstMetaContent(doc, `meta[property="og:image"]`, `meta[name="twitter:image"]`); image != "" {
		content.ImageURL = resolveURL(baseURL, image)
	}
}

// cleanedBody strips junk subtrees and comment nodes from a candidate
// container and returns its markup plus collapsed text.
func cleanedBody(sel *goquery.Selection) (string, string) {
	if sel == nil || sel.Length() == 0 {
		return "", ""
	}

	clone := sel.Clone()
	clone.Find(junkSelector).Remove()
	removeComments(clone)

	bodyHTML, err := goquery.OuterHtml(clone)
	if err != nil {
		bodyHTML = ""
	}

	return strings.TrimSpace(bodyHTML), collapseWhitespace(clone.Text())
}

func removeComments(sel *goquery.Selection) {
	for _, node := range sel.Nodes {
		removeCommentNodes(node)
	}
}

func removeCommentNodes(node *html.Node) {
	child := node.FirstChild
	for child != nil {
		next := child.NextSibling
		if child.Type == html.CommentNode {
			node.RemoveChild(child)
		} else {
			removeCommentNodes(child)
		}
		child = next
	}
}

func firstMetaContent(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		if value, ok := doc.Find(selector).First().Attr("content"); ok {
			if value = strings.TrimSpace(value); value != "" {
				return value
			}
		}
	}
	return ""
}

func parsePublished(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", time.RFC1123, time.RFC1123Z} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func resolveURL(base, ref string) string {
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if refURL.IsAbs() {
		return ref
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}

	return baseURL.ResolveReference(refURL).String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Embeddable reports whether a page permits inline framing by a third
// party, based on its response headers: any frame-options header blocks,
// as does a content-security-policy with a restrictive frame-ancestors
// directive.
func Embeddable(header http.Header) bool {
	if header.Get("X-Frame-Options") != "" {
		return false
	}

	csp := header.Get("Content-Security-Policy")
	if csp == "" {
		return true
	}

	for _, directive := range strings.Split(csp, ";") {
		fields := strings.Fields(directive)
		if len(fields) == 0 || !strings.EqualFold(fields[0], "frame-ancestors") {
			continue
		}
		for _, value := range fields[1:] {
			if value == "*" {
				return true
			}
		}
		return false
	}

	return true
}
