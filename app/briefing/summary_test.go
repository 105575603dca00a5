package briefing

import (
	"strings"
	"testing"
)

func TestSummarize_PrefersDescription(t *testing.T) {
	got := Summarize("Short description.", "<p>Much longer content body.</p>")

	if got != "Short description." {
		t.Errorf("Expected description to win, got: %s", got)
	}
}

func TestSummarize_FallsBackToContent(t *testing.T) {
	got := Summarize("", "<p>Content body text.</p>")

	if got != "Content body text." {
		t.Errorf("Expected content fallback, got: %s", got)
	}
}

func TestSummarize_StripsMarkup(t *testing.T) {
	got := Summarize(`<div><b>Bold</b> and <a href="https://example.com">linked</a> text</div>`, "")

	if got != "Bold and linked text" {
		t.Errorf("Expected markup stripped, got: %s", got)
	}
}

func TestSummarize_CollapsesWhitespace(t *testing.T) {
	got := Summarize("Too   many\n\n  spaces\there", "")

	if got != "Too many spaces here" {
		t.Errorf("Expected whitespace collapsed, got: %s", got)
	}
}

func TestSummarize_TruncatesAtWordBoundary(t *testing.T) {
	long := strings.Repeat("word ", 100) // 500 characters

	got := Summarize(long, "")

	if len([]rune(got)) > SummaryBudget+1 {
		t.Errorf("Expected summary within budget plus ellipsis, got %d runes", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("Expected truncated summary to end with ellipsis, got: %s", got)
	}
	if strings.Contains(got, "wor…") {
		t.Errorf("Expected truncation at a word boundary, got: %s", got)
	}
}

func TestSummarize_ShortTextUnchanged(t *testing.T) {
	got := Summarize("Fits within the budget.", "")

	if got != "Fits within the budget." {
		t.Errorf("Expected short text unchanged, got: %s", got)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize("", ""); got != "" {
		t.Errorf("Expected empty summary for empty inputs, got: %s", got)
	}
}
