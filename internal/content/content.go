// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package content converts editor snapshots into plain text and the set of
// citation numbers referenced in that text.
package content

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/writing-desk/pkg/types"
)

// paragraphBreak separates blocks in the extracted plain text.
const paragraphBreak = "\n\n"

// markerRe matches numeric citation markers like [1], [12].
var markerRe = regexp.MustCompile(`\[(\d+)\]`)

// Extraction is the result of extracting a document snapshot.
type Extraction struct {
	// Text is the trimmed plain text of the document.
	Text string

	// Cited holds every distinct citation number found in Text.
	Cited map[int]bool
}

// Numbers returns the cited numbers in ascending order.
func (e Extraction) Numbers() []int {
	nums := make([]int, 0, len(e.Cited))
	for n := range e.Cited {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// Extract returns the plain text of doc and the citation numbers it contains.
func Extract(doc types.Document) Extraction {
	text := PlainText(doc)
	return Extraction{Text: text, Cited: CitedNumbers(text)}
}

// PlainText joins block contents with paragraph breaks and trims the result.
func PlainText(doc types.Document) string {
	parts := make([]string, len(doc.Blocks))
	for i, b := range doc.Blocks {
		parts[i] = b.Content()
	}
	return strings.TrimSpace(strings.Join(parts, paragraphBreak))
}

// CitedNumbers returns the set of integers appearing as [n] in text.
func CitedNumbers(text string) map[int]bool {
	cited := make(map[int]bool)
	for _, m := range markerRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// Digit runs too long for int are not citations.
			continue
		}
		cited[n] = true
	}
	return cited
}

// WordCount counts whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Marker returns the citation marker text for number n.
func Marker(n int) string {
	return "[" + strconv.Itoa(n) + "]"
}

// StripMarker returns a copy of doc with every occurrence of marker [n]
// removed from every block. Rich spans left empty are dropped. The input
// snapshot is not modified.
func StripMarker(doc types.Document, n int) types.Document {
	marker := Marker(n)
	out := doc.Clone()
	for i := range out.Blocks {
		b := &out.Blocks[i]
		if b.Kind != types.BlockRich {
			b.Text = strings.ReplaceAll(b.Text, marker, "")
			continue
		}
		b.Spans = stripSpans(b.Spans, marker)
	}
	return out
}

// stripSpans removes marker from spans. A marker split across adjacent
// spans is removed by joining the spans' text, cutting the marker out, and
// redistributing the remainder back onto the spans that held it.
func stripSpans(spans []types.InlineSpan, marker string) []types.InlineSpan {
	var joined strings.Builder
	owners := make([]int, 0)
	for i, s := range spans {
		joined.WriteString(s.Text)
		for range len(s.Text) {
			owners = append(owners, i)
		}
	}
	text := joined.String()
	if !strings.Contains(text, marker) {
		return spans
	}

	keep := make([]bool, len(text))
	for i := range keep {
		keep[i] = true
	}
	for offset := 0; ; {
		idx := strings.Index(text[offset:], marker)
		if idx < 0 {
			break
		}
		start := offset + idx
		for j := start; j < start+len(marker); j++ {
			keep[j] = false
		}
		offset = start + len(marker)
	}

	rebuilt := make([]strings.Builder, len(spans))
	for i := 0; i < len(text); i++ {
		if keep[i] {
			rebuilt[owners[i]].WriteByte(text[i])
		}
	}

	out := make([]types.InlineSpan, 0, len(spans))
	for i, s := range spans {
		t := rebuilt[i].String()
		if t == "" {
			continue
		}
		s.Text = t
		out = append(out, s)
	}
	return out
}
