// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assignment validates assignment codes against the course service.
package assignment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/writing-desk/internal/debounce"
	"github.com/pdiddy/writing-desk/internal/logging"
	"github.com/pdiddy/writing-desk/internal/metrics"
	"github.com/pdiddy/writing-desk/pkg/types"
)

const (
	defaultRejection = "Assignment code not recognised."
	defaultDelay     = 500 * time.Millisecond
	defaultMinLength = 3
)

// Validator checks codes, either directly or debounced behind keystrokes.
type Validator struct {
	checker   Checker
	minLength int
	debouncer *debounce.Debouncer
	logger    *zap.Logger
}

// Option configures a Validator.
type Option func(*validatorOptions)

type validatorOptions struct {
	clock  debounce.Clock
	logger *zap.Logger
}

// WithClock sets the clock used for the keystroke debounce.
func WithClock(c debounce.Clock) Option {
	return func(o *validatorOptions) { o.clock = c }
}

// WithLogger sets the validator logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *validatorOptions) { o.logger = l }
}

// NewValidator returns a Validator using checker for remote lookups.
func NewValidator(checker Checker, cfg types.AssignmentConfig, opts ...Option) *Validator {
	var o validatorOptions
	for _, opt := range opts {
		opt(&o)
	}
	minLength := cfg.MinLength
	if minLength <= 0 {
		minLength = defaultMinLength
	}
	delay := cfg.Delay
	if delay <= 0 {
		delay = defaultDelay
	}
	return &Validator{
		checker:   checker,
		minLength: minLength,
		debouncer: debounce.New(delay, o.clock),
		logger:    logging.OrNop(o.logger),
	}
}

// Validate checks code. Codes shorter than the minimum length are reported
// invalid with an empty message and never reach the service. A rejected or
// uncheckable code returns an error wrapping ErrInvalidAssignmentCode
// alongside the result.
func (v *Validator) Validate(ctx context.Context, code string) (types.AssignmentCodeValidation, error) {
	code = strings.TrimSpace(code)
	result := types.AssignmentCodeValidation{Code: code}
	if len([]rune(code)) < v.minLength {
		metrics.CodeValidations.WithLabelValues("skipped").Inc()
		return result, nil
	}

	res, err := v.checker.Check(ctx, code)
	if err != nil {
		metrics.CodeValidations.WithLabelValues("error").Inc()
		v.logger.Warn("assignment code check failed", zap.String("code", code), zap.Error(err))
		result.Message = "Could not validate the code right now. Check your connection and try again."
		return result, fmt.Errorf("%w: %w", ErrInvalidAssignmentCode, err)
	}

	if !res.Valid {
		metrics.CodeValidations.WithLabelValues("invalid").Inc()
		result.Message = res.Error
		if result.Message == "" {
			result.Message = defaultRejection
		}
		return result, fmt.Errorf("%w: %s", ErrInvalidAssignmentCode, result.Message)
	}

	metrics.CodeValidations.WithLabelValues("valid").Inc()
	result.Valid = true
	result.Assignment = res.Assignment
	result.Message = "Assignment code accepted."
	if res.Assignment != nil {
		result.Message = fmt.Sprintf("Assignment: %s", res.Assignment.Title)
	}
	return result, nil
}

// Trigger schedules validation of code after the debounce delay. A later
// Trigger supersedes it, so only the latest code is checked and fn sees
// only that result.
func (v *Validator) Trigger(ctx context.Context, code string, fn func(types.AssignmentCodeValidation)) {
	v.debouncer.Trigger(func() {
		result, _ := v.Validate(ctx, code)
		if fn != nil {
			fn(result)
		}
	})
}

// Cancel drops a pending debounced validation.
func (v *Validator) Cancel() { v.debouncer.Cancel() }
