package reader

// Rendering tiers, from best to most degraded.
const (
	TierReader  = "reader"
	TierIframe  = "iframe"
	TierExcerpt = "excerpt"
)

// ReaderWordThreshold is the minimum extracted word count for the full
// reader tier.
const ReaderWordThreshold = 100

// SelectTier picks exactly one rendering tier for the given extraction
// outcome. It is total: every input combination maps to a tier, and
// extraction failure (nil content) degrades rather than erroring.
func SelectTier(content *ExtractedContent, embeddable bool) string {
	if content != nil && content.WordCount >= ReaderWordThreshold {
		return TierReader
	}

	if embeddable {
		return TierIframe
	}

	return TierExcerpt
}
