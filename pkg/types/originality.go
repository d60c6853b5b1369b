// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SentenceClass labels a sentence's likely authorship.
type SentenceClass string

const (
	ClassHuman SentenceClass = "human"
	ClassMixed SentenceClass = "mixed"
	ClassAI    SentenceClass = "ai"
)

// Complexity buckets the average sentence length of a text.
type Complexity string

const (
	ComplexityLow    Complexity = "Low"
	ComplexityMedium Complexity = "Medium"
	ComplexityHigh   Complexity = "High"
)

// SentenceClassification is the per-sentence result of originality scoring.
type SentenceClassification struct {
	// Text is the sentence as scored.
	Text string `json:"text" yaml:"text"`

	// Probability is the likelihood (0-1) that the sentence is AI-generated.
	Probability float64 `json:"probability" yaml:"probability"`

	// Class is derived from Probability and the document percentage.
	Class SentenceClass `json:"class" yaml:"class"`
}

// TextAnalysis aggregates structural statistics about the scored text.
type TextAnalysis struct {
	// TextLength is the number of characters (runes) in the text.
	TextLength int `json:"text_length" yaml:"text_length"`

	// WordCount is the number of whitespace-separated words.
	WordCount int `json:"word_count" yaml:"word_count"`

	SentenceCount int `json:"sentence_count" yaml:"sentence_count"`

	// AvgSentenceLength is words per sentence, rounded to one decimal.
	AvgSentenceLength float64 `json:"avg_sentence_length" yaml:"avg_sentence_length"`

	Complexity Complexity `json:"complexity" yaml:"complexity"`

	HumanSentences int `json:"human_sentences" yaml:"human_sentences"`
	MixedSentences int `json:"mixed_sentences" yaml:"mixed_sentences"`
	AISentences    int `json:"ai_sentences" yaml:"ai_sentences"`
}

// OriginalityReport is the output of a scoring run.
type OriginalityReport struct {
	// Percentage is the aggregate AI-generation estimate, 0-100.
	Percentage int `json:"percentage" yaml:"percentage"`

	// IsHuman holds when Percentage is at or below the human threshold.
	IsHuman bool `json:"is_human" yaml:"is_human"`

	// Confidence is 0-100.
	Confidence int `json:"confidence" yaml:"confidence"`

	Analysis TextAnalysis `json:"analysis" yaml:"analysis"`

	// HighlightedMarkup is HTML with each sentence tagged by its class.
	HighlightedMarkup string `json:"highlighted_markup" yaml:"highlighted_markup"`

	// Sentences are in document order.
	Sentences []SentenceClassification `json:"sentences" yaml:"sentences"`

	// IsSimulated marks reports produced without the remote classifier.
	IsSimulated bool `json:"is_simulated" yaml:"is_simulated"`

	// Recommendation is the user-facing advice for this report.
	Recommendation string `json:"recommendation" yaml:"recommendation"`
}
