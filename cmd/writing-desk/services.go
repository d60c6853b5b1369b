// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/pdiddy/writing-desk/internal/assignment"
	"github.com/pdiddy/writing-desk/internal/library"
	"github.com/pdiddy/writing-desk/internal/originality"
	"github.com/pdiddy/writing-desk/internal/submission"
)

// newScorer wires the scorer from cfg. Without an endpoint every run goes
// straight to the fallback policy.
func newScorer() *originality.Scorer {
	var classifier originality.Classifier
	if cfg.Classifier.Endpoint != "" {
		classifier = originality.NewHTTPClassifier(cfg.Classifier, nil, logger)
	}
	return originality.NewScorer(classifier, cfg.Classifier.Fallback, originality.WithLogger(logger))
}

func newValidator() *assignment.Validator {
	client := assignment.NewClient(cfg.Assignment, nil, logger)
	return assignment.NewValidator(client, cfg.Assignment, assignment.WithLogger(logger))
}

func newSubmitter() *submission.Client {
	return submission.NewClient(cfg.Submission, nil, logger)
}

func newLibrary() *library.Client {
	return library.NewClient(cfg.Library, nil, logger)
}
