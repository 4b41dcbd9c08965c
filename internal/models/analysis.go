package models

// Entity is a named entity extracted from text by the AI gateway.
type Entity struct {
	Entity     string  `json:"entity"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Sentiment is the overall sentiment of a piece of text.
// Sentiment is one of "positive", "negative" or "neutral".
type Sentiment struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}
