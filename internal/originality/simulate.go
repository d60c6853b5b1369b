// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package originality

import (
	"math"
	"math/rand/v2"

	"github.com/pdiddy/writing-desk/pkg/types"
)

// planLabels returns the unshuffled class labels for a simulated run over
// total sentences. Mixed sentences take the human share first and come out
// of the ai share only when no human sentence is left, so 66% of three
// sentences plans {ai, ai, mixed}.
func planLabels(percentage, total int) []types.SentenceClass {
	if total <= 0 {
		return nil
	}
	targetAI := int(math.Round(float64(percentage) / 100 * float64(total)))
	targetMixed := 0
	if percentage > HumanThreshold {
		targetMixed = min(total, max(1, int(math.Round(float64(targetAI)*0.3))))
	}
	finalAI := max(0, min(targetAI, total-targetMixed))
	human := max(0, total-finalAI-targetMixed)

	labels := make([]types.SentenceClass, 0, total)
	for range finalAI {
		labels = append(labels, types.ClassAI)
	}
	for range targetMixed {
		labels = append(labels, types.ClassMixed)
	}
	for range human {
		labels = append(labels, types.ClassHuman)
	}
	return labels
}

// drawProbability picks a probability inside the band of label.
func drawProbability(r *rand.Rand, label types.SentenceClass) float64 {
	switch label {
	case types.ClassAI:
		return 0.7 + r.Float64()*0.3
	case types.ClassMixed:
		return 0.4 + r.Float64()*0.3
	default:
		return r.Float64() * 0.4
	}
}

// simulate builds a report for text at the given percentage without the
// remote classifier. The caller holds the scorer lock guarding r.
func simulate(r *rand.Rand, text string, percentage int) *types.OriginalityReport {
	sentences := SplitSentences(text)
	labels := planLabels(percentage, len(sentences))
	r.Shuffle(len(labels), func(i, j int) { labels[i], labels[j] = labels[j], labels[i] })

	scored := make([]types.SentenceClassification, len(sentences))
	for i, s := range sentences {
		p := drawProbability(r, labels[i])
		scored[i] = types.SentenceClassification{
			Text:        s,
			Probability: p,
			Class:       ClassifySentence(p, percentage),
		}
	}

	human := IsHuman(percentage)
	return &types.OriginalityReport{
		Percentage:        percentage,
		IsHuman:           human,
		Confidence:        70 + r.IntN(26),
		Analysis:          Analyze(text, scored),
		HighlightedMarkup: HighlightMarkup(scored),
		Sentences:         scored,
		IsSimulated:       true,
		Recommendation:    recommendation(human, true),
	}
}
