// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package originality

import (
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/pdiddy/writing-desk/pkg/types"
)

const (
	// HumanThreshold is the highest percentage still reported as human.
	HumanThreshold = 10

	// aiProbability and mixedProbability bound the sentence classes.
	aiProbability    = 0.65
	mixedProbability = 0.35
)

// IsHuman reports whether a document percentage counts as human-written.
func IsHuman(percentage int) bool {
	return percentage <= HumanThreshold
}

// ClassifySentence labels a sentence probability given the document
// percentage. Borderline sentences are escalated to ai once the document
// itself is over the human threshold.
func ClassifySentence(p float64, percentage int) types.SentenceClass {
	switch {
	case p >= aiProbability:
		return types.ClassAI
	case p >= mixedProbability:
		if IsHuman(percentage) {
			return types.ClassMixed
		}
		return types.ClassAI
	default:
		return types.ClassHuman
	}
}

// ComplexityOf buckets the average words per sentence.
func ComplexityOf(avgWords float64) types.Complexity {
	switch {
	case avgWords < 10:
		return types.ComplexityLow
	case avgWords > 20:
		return types.ComplexityHigh
	default:
		return types.ComplexityMedium
	}
}

// sentenceRe matches a run of text ending in terminal punctuation, or a
// trailing run without it.
var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)

// SplitSentences splits text on terminal punctuation, dropping empty pieces.
func SplitSentences(text string) []string {
	var out []string
	for _, m := range sentenceRe.FindAllString(text, -1) {
		s := strings.TrimSpace(m)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Highlight treatments per class. Each sentence is wrapped in a span with
// one of these.
var highlightStyles = map[types.SentenceClass]string{
	types.ClassHuman: "background-color:#dcfce7;color:#166534",
	types.ClassMixed: "background-color:#fef9c3;color:#854d0e",
	types.ClassAI:    "background-color:#fee2e2;color:#991b1b",
}

// HighlightMarkup concatenates the sentences as HTML spans tagged by class.
func HighlightMarkup(sentences []types.SentenceClassification) string {
	parts := make([]string, len(sentences))
	for i, s := range sentences {
		parts[i] = `<span class="sentence sentence-` + string(s.Class) +
			`" style="` + highlightStyles[s.Class] + `">` +
			html.EscapeString(s.Text) + `</span>`
	}
	return strings.Join(parts, " ")
}

// Analyze computes text statistics and per-class counts.
func Analyze(text string, sentences []types.SentenceClassification) types.TextAnalysis {
	words := len(strings.Fields(text))
	a := types.TextAnalysis{
		TextLength:    len([]rune(text)),
		WordCount:     words,
		SentenceCount: len(sentences),
	}
	if a.SentenceCount > 0 {
		a.AvgSentenceLength = math.Round(float64(words)/float64(a.SentenceCount)*10) / 10
	}
	a.Complexity = ComplexityOf(a.AvgSentenceLength)
	for _, s := range sentences {
		switch s.Class {
		case types.ClassHuman:
			a.HumanSentences++
		case types.ClassMixed:
			a.MixedSentences++
		case types.ClassAI:
			a.AISentences++
		}
	}
	return a
}

// recommendation returns the advice text for a report.
func recommendation(isHuman, simulated bool) string {
	var msg string
	if isHuman {
		msg = "The text reads as original work. Enter your assignment code to submit."
	} else {
		msg = "A large share of the text looks AI-generated. Revise the highlighted sentences and score again before submitting."
	}
	if simulated {
		msg += " This score is an offline estimate because the classifier could not be reached."
	}
	return msg
}
