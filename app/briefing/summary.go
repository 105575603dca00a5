package briefing

import (
	"cmp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SummaryBudget is the character limit for derived item summaries.
const SummaryBudget = 300

// Summarize derives a short plain-text summary from an item's description
// or rich content, stripping any markup and truncating at a word boundary
// near the budget.
func Summarize(description, content string) string {
	text := stripMarkup(cmp.Or(description, content))
	return truncateAtWord(text, SummaryBudget)
}

func stripMarkup(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapseWhitespace(html)
	}

	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateAtWord(text string, budget int) string {
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}

	cut := string(runes[:budget])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}

	return strings.TrimRight(cut, " ,;:.") + "…"
}
