// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package submission drives a draft from final save through scoring, code
// validation and submission.
package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/writing-desk/internal/content"
	"github.com/pdiddy/writing-desk/internal/logging"
	"github.com/pdiddy/writing-desk/internal/metrics"
	"github.com/pdiddy/writing-desk/internal/originality"
	"github.com/pdiddy/writing-desk/pkg/types"
)

// Scorer produces originality reports.
type Scorer interface {
	Score(ctx context.Context, text string, progress originality.ProgressFunc) (*types.OriginalityReport, error)
}

// CodeValidator checks assignment codes, synchronously or debounced.
type CodeValidator interface {
	Validate(ctx context.Context, code string) (types.AssignmentCodeValidation, error)
	Trigger(ctx context.Context, code string, fn func(types.AssignmentCodeValidation))
	Cancel()
}

// Workflow is the submission state machine for one writer session. All
// methods are safe for concurrent use; network calls run without the lock.
type Workflow struct {
	scorer    Scorer
	validator CodeValidator
	submitter Submitter
	history   History
	logger    *zap.Logger
	now       func() time.Time

	sessionID string
	fileName  string

	mu         sync.Mutex
	state      State
	report     *types.OriginalityReport
	code       string
	validation *types.AssignmentCodeValidation
	onChange   func(State)
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithSessionID fixes the writer session ID. The default is a new UUID.
func WithSessionID(id string) Option {
	return func(w *Workflow) { w.sessionID = id }
}

// WithFileName sets the file name sent with the submission.
func WithFileName(name string) Option {
	return func(w *Workflow) { w.fileName = name }
}

// WithLogger sets the workflow logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workflow) { w.logger = l }
}

// WithStateHook registers fn to be called after every state change. fn
// runs with the workflow locked and must not call back into it.
func WithStateHook(fn func(State)) Option {
	return func(w *Workflow) { w.onChange = fn }
}

// NewWorkflow returns a Workflow in the Editing state. A nil history uses
// a MemoryHistory.
func NewWorkflow(scorer Scorer, validator CodeValidator, submitter Submitter, history History, opts ...Option) *Workflow {
	w := &Workflow{
		scorer:    scorer,
		validator: validator,
		submitter: submitter,
		history:   history,
		now:       time.Now,
		state:     Editing,
		fileName:  "draft.txt",
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.sessionID == "" {
		w.sessionID = uuid.New().String()
	}
	if w.history == nil {
		w.history = NewMemoryHistory()
	}
	w.logger = logging.OrNop(w.logger).With(zap.String("session", w.sessionID))
	return w
}

// SessionID returns the writer session ID.
func (w *Workflow) SessionID() string { return w.sessionID }

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Report returns the latest originality report, or nil.
func (w *Workflow) Report() *types.OriginalityReport {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.report
}

// Validation returns the result for the current code, or nil.
func (w *Workflow) Validation() *types.AssignmentCodeValidation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.validation
}

// Code returns the current assignment code.
func (w *Workflow) Code() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.code
}

// setState moves to next. Callers hold w.mu.
func (w *Workflow) setState(next State) error {
	if err := checkTransition(w.state, next); err != nil {
		return err
	}
	w.logger.Debug("workflow transition",
		zap.Stringer("from", w.state),
		zap.Stringer("to", next),
	)
	w.state = next
	if w.onChange != nil {
		w.onChange(next)
	}
	return nil
}

// FinalSave scores text. On success the workflow lands in ReviewedHuman or
// NeedsRevision; if scoring fails it returns to Editing.
func (w *Workflow) FinalSave(ctx context.Context, text string, progress originality.ProgressFunc) (*types.OriginalityReport, error) {
	w.mu.Lock()
	if err := w.setState(Scoring); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.mu.Unlock()

	report, err := w.scorer.Score(ctx, text, progress)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		_ = w.setState(Editing)
		return nil, err
	}
	w.report = report
	next := NeedsRevision
	if report.IsHuman {
		next = ReviewedHuman
	}
	if err := w.setState(next); err != nil {
		return nil, err
	}
	return report, nil
}

// ReturnToEditing discards the score and any code so the draft can be
// revised. It is the only way out of NeedsRevision.
func (w *Workflow) ReturnToEditing() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == Editing {
		return nil
	}
	if err := w.setState(Editing); err != nil {
		return err
	}
	w.validator.Cancel()
	w.report = nil
	w.code = ""
	w.validation = nil
	return nil
}

// enterCode records code and clears the previous validation. Callers hold w.mu.
func (w *Workflow) enterCode(code string) error {
	if err := w.setState(CodeEntry); err != nil {
		return err
	}
	w.code = strings.TrimSpace(code)
	w.validation = nil
	return nil
}

// EnterCode records a keystroke-level code change and schedules a
// debounced validation. Only a result for the code still entered is applied.
func (w *Workflow) EnterCode(ctx context.Context, code string) error {
	w.mu.Lock()
	err := w.enterCode(code)
	w.mu.Unlock()
	if err != nil {
		return err
	}
	w.validator.Trigger(ctx, code, w.applyValidation)
	return nil
}

// ValidateCode enters code and validates it immediately.
func (w *Workflow) ValidateCode(ctx context.Context, code string) (types.AssignmentCodeValidation, error) {
	w.mu.Lock()
	err := w.enterCode(code)
	w.mu.Unlock()
	if err != nil {
		return types.AssignmentCodeValidation{}, err
	}
	w.validator.Cancel()
	res, err := w.validator.Validate(ctx, code)
	w.applyValidation(res)
	return res, err
}

func (w *Workflow) applyValidation(res types.AssignmentCodeValidation) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != CodeEntry || res.Code != w.code {
		w.logger.Debug("dropping stale validation", zap.String("code", res.Code))
		return
	}
	w.validation = &res
	if res.Valid {
		_ = w.setState(Validated)
	}
}

// Submit sends text, the draft as it stands now. It requires a human report
// and a valid code at call time. The report is not checked against text, so
// edits made after FinalSave are submitted under the earlier score. A failed
// send leaves the workflow Validated so the user can try again; nothing is
// retried automatically.
func (w *Workflow) Submit(ctx context.Context, student types.StudentIdentity, text string) (*types.SubmissionRecord, error) {
	w.mu.Lock()
	if w.report == nil || !w.report.IsHuman || w.validation == nil || !w.validation.Valid || w.state != Validated {
		w.mu.Unlock()
		metrics.Submissions.WithLabelValues("rejected").Inc()
		return nil, ErrSubmissionNotAllowed
	}
	if err := w.setState(Submitting); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	req := Request{
		AssignmentCode:  w.code,
		Content:         text,
		FileName:        w.fileName,
		StudentID:       student.StudentID,
		AIPercentage:    w.report.Percentage,
		WriterSessionID: w.sessionID,
	}
	validation := *w.validation
	w.mu.Unlock()

	resp, err := w.submitter.Submit(ctx, req)
	if err != nil {
		w.mu.Lock()
		_ = w.setState(Failed)
		_ = w.setState(Validated)
		w.mu.Unlock()
		metrics.Submissions.WithLabelValues("failed").Inc()
		w.logger.Warn("submission failed", zap.String("code", req.AssignmentCode), zap.Error(err))
		if !errors.Is(err, ErrSubmissionTransport) && !errors.Is(err, ErrSubmissionRejected) {
			err = fmt.Errorf("%w: %w", ErrSubmissionTransport, err)
		}
		return nil, err
	}

	rec := w.record(req, resp, validation)
	if herr := w.history.Append(ctx, rec); herr != nil {
		w.logger.Error("recording submission history", zap.Error(herr))
	}

	w.mu.Lock()
	_ = w.setState(Submitted)
	w.code = ""
	w.validation = nil
	w.mu.Unlock()

	metrics.Submissions.WithLabelValues("submitted").Inc()
	w.logger.Info("submitted",
		zap.String("submission", rec.ID),
		zap.String("code", rec.AssignmentCode),
		zap.Int("ai_percentage", rec.AIPercentage),
	)
	return &rec, nil
}

func (w *Workflow) record(req Request, resp *Response, v types.AssignmentCodeValidation) types.SubmissionRecord {
	rec := types.SubmissionRecord{
		ID:              resp.SubmissionID,
		SessionID:       w.sessionID,
		Timestamp:       w.now().UTC(),
		AIPercentage:    req.AIPercentage,
		WordCount:       resp.WordCount,
		AssignmentCode:  req.AssignmentCode,
		AssignmentTitle: resp.AssignmentTitle,
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if ts, err := time.Parse(time.RFC3339, resp.SubmittedAt); err == nil {
		rec.Timestamp = ts.UTC()
	}
	if rec.WordCount == 0 {
		rec.WordCount = content.WordCount(req.Content)
	}
	if rec.AssignmentTitle == "" && v.Assignment != nil {
		rec.AssignmentTitle = v.Assignment.Title
	}
	return rec
}

// History returns the submission records of this session.
func (w *Workflow) History(ctx context.Context) ([]types.SubmissionRecord, error) {
	return w.history.List(ctx, w.sessionID)
}
