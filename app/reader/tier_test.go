package reader

import (
	"testing"
)

func TestSelectTier_FullGrid(t *testing.T) {
	cases := []struct {
		name       string
		content    *ExtractedContent
		embeddable bool
		expected   string
	}{
		{"rich extraction embeddable", &ExtractedContent{WordCount: 500}, true, TierReader},
		{"rich extraction blocked", &ExtractedContent{WordCount: 500}, false, TierReader},
		{"threshold exactly met", &ExtractedContent{WordCount: 100}, false, TierReader},
		{"thin extraction embeddable", &ExtractedContent{WordCount: 50}, true, TierIframe},
		{"thin extraction blocked", &ExtractedContent{WordCount: 50}, false, TierExcerpt},
		{"empty extraction embeddable", &ExtractedContent{WordCount: 0}, true, TierIframe},
		{"empty extraction blocked", &ExtractedContent{WordCount: 0}, false, TierExcerpt},
		{"failed extraction embeddable", nil, true, TierIframe},
		{"failed extraction blocked", nil, false, TierExcerpt},
	}

	for _, tc := range cases {
		if got := SelectTier(tc.content, tc.embeddable); got != tc.expected {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.expected, got)
		}
	}
}
