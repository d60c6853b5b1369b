// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/writing-desk/internal/originality"
	"github.com/pdiddy/writing-desk/pkg/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Estimate how much of the draft is AI-generated",
	Long: `Score sends the draft text to the classification service and prints
the percentage, per-sentence classes and a recommendation. When the service
cannot be reached the configured fallback applies: "simulate" prints an
offline estimate marked as simulated, "fail" reports the error.`,
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	report, err := newScorer().Score(context.Background(), s.text(), printProgress)
	if err != nil {
		return err
	}

	if markup, _ := cmd.Flags().GetString("html"); markup != "" {
		if err := os.WriteFile(markup, []byte(report.HighlightedMarkup), 0o644); err != nil {
			return fmt.Errorf("writing markup: %w", err)
		}
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(report)
	}
	printReport(os.Stdout, report)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProgress(p originality.Progress) {
	fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", p.Percent, p.Status)
}

func printReport(w io.Writer, r *types.OriginalityReport) {
	verdict := "needs revision"
	if r.IsHuman {
		verdict = "human"
	}
	if r.IsSimulated {
		verdict += " (simulated)"
	}
	fmt.Fprintf(w, "AI content: %d%%  confidence: %d%%  verdict: %s\n", r.Percentage, r.Confidence, verdict)
	a := r.Analysis
	fmt.Fprintf(w, "words: %d  sentences: %d  avg length: %.1f  complexity: %s\n",
		a.WordCount, a.SentenceCount, a.AvgSentenceLength, a.Complexity)
	fmt.Fprintf(w, "human: %d  mixed: %d  ai: %d\n", a.HumanSentences, a.MixedSentences, a.AISentences)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, sc := range r.Sentences {
		fmt.Fprintf(w, "%-5s %.2f  %s\n", sc.Class, sc.Probability, sc.Text)
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintln(w, r.Recommendation)
}

func init() {
	scoreCmd.Flags().Bool("json", false, "print the report as JSON")
	scoreCmd.Flags().String("html", "", "write the highlighted markup to this file")
	rootCmd.AddCommand(scoreCmd)
}
