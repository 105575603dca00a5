package briefing

import (
	"strings"
)

// Category labels assigned by the classifier.
const (
	CategoryRobotics   = "robotics"
	CategoryMedical    = "medical"
	CategoryRegulation = "regulation"
	CategoryBusiness   = "business"
	CategoryResearch   = "research"
	CategorySoftware   = "ai_software"
	CategoryOther      = "other"
)

type keywordGroup struct {
	category string
	keywords []string
}

// Groups are evaluated top to bottom and the first match wins. New groups
// must be inserted at the position matching their intended priority.
var keywordGroups = []keywordGroup{
	{CategoryRobotics, []string{
		"robot", "automation", "autonomous", "drone", "humanoid", "actuator", "self-driving",
	}},
	{CategoryMedical, []string{
		"medical", "clinical", "patient", "diagnos", "hospital", "biotech", "drug", "radiolog", "healthcare",
	}},
	{CategoryRegulation, []string{
		"regulat", "lawsuit", "legislat", "compliance", "antitrust", "copyright", "privacy", "gdpr", "policy", "court",
	}},
	{CategoryBusiness, []string{
		"funding", "raises", "invest", "acquisition", "acquire", "ipo", "valuation", "revenue", "merger", "startup",
	}},
	{CategoryResearch, []string{
		"research", "paper", "study", "benchmark", "arxiv", "university", "breakthrough",
	}},
	{CategorySoftware, []string{
		"launch", "release", "model", "api", "feature", "update", "open source", "app", "software", "platform", "tool", "chatbot", "agent",
	}},
}

type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Run infers the category from the source's hint and the item title. The
// hint participates in matching rather than forcing the result, so a
// general-news source can still yield specific categories per item.
func (c *Classifier) Run(categoryHint, title string) string {
	text := strings.ToLower(categoryHint + " " + title)

	for _, group := range keywordGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(text, keyword) {
				return group.category
			}
		}
	}

	return CategoryOther
}
