package documents

import "legaldocs-backend/internal/summarizer"

func summaryFixture() summarizer.Summary {
	return summarizer.Summary{
		KeyPoints:  []string{"Term is 12 months"},
		Tables:     []summarizer.Table{},
		Highlights: []string{},
	}
}
