// Package metrics declares the Prometheus collectors for the writing-desk core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Citation metrics
	CitationSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "writing_desk_citation_syncs_total",
			Help: "Total number of citation sync runs by outcome",
		},
		[]string{"outcome"}, // pruned, unchanged, skipped
	)

	CitationEntriesPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "writing_desk_citation_entries_pruned_total",
			Help: "Bibliography entries removed because their marker left the text",
		},
	)

	CitationsAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "writing_desk_citations_added_total",
			Help: "Citations inserted, split by whether a new entry was created",
		},
		[]string{"kind"}, // new, reused
	)

	// Scoring metrics
	ScoringRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "writing_desk_scoring_runs_total",
			Help: "Originality scoring runs by path",
		},
		[]string{"path"}, // remote, simulated, rejected, failed
	)

	ScoringPercentage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "writing_desk_scoring_percentage",
			Help:    "AI percentage reported by scoring runs",
			Buckets: []float64{10, 25, 50, 75, 90, 100},
		},
	)

	// Assignment and submission metrics
	CodeValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "writing_desk_code_validations_total",
			Help: "Assignment code validations by result",
		},
		[]string{"result"}, // valid, invalid, skipped, error
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "writing_desk_submissions_total",
			Help: "Submission attempts by status",
		},
		[]string{"status"}, // submitted, failed, rejected
	)
)
