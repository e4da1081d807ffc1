package review

import (
	"sync"

	govader "github.com/jonreiter/govader"
)

// Classifier maps free text to a sentiment label. Implementations must be
// deterministic: identical text always yields the identical label.
type Classifier interface {
	Classify(text string) Sentiment
}

// VaderClassifier scores text with the VADER lexicon. The compound score
// decides the label: positive above zero, negative below, neutral at zero.
type VaderClassifier struct {
	mu       sync.Mutex
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (c *VaderClassifier) Classify(text string) Sentiment {
	c.mu.Lock()
	score := c.analyzer.PolarityScores(text)
	c.mu.Unlock()

	switch {
	case score.Compound > 0:
		return SentimentPositive
	case score.Compound < 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
