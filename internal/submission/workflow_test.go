// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package submission

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/writing-desk/internal/assignment"
	"github.com/pdiddy/writing-desk/internal/debounce"
	"github.com/pdiddy/writing-desk/internal/metrics"
	"github.com/pdiddy/writing-desk/internal/originality"
	"github.com/pdiddy/writing-desk/pkg/types"
)

const draftText = "One two three four five. Six seven eight nine ten. Eleven twelve."

type fixedScorer struct {
	report *types.OriginalityReport
	err    error
}

func (f fixedScorer) Score(_ context.Context, _ string, _ originality.ProgressFunc) (*types.OriginalityReport, error) {
	return f.report, f.err
}

type checkerFunc func(code string) (*assignment.CheckResult, error)

func (f checkerFunc) Check(_ context.Context, code string) (*assignment.CheckResult, error) {
	return f(code)
}

type stubSubmitter struct {
	calls atomic.Int32
	last  Request
	resp  *Response
	err   error
}

func (s *stubSubmitter) Submit(_ context.Context, req Request) (*Response, error) {
	s.calls.Add(1)
	s.last = req
	return s.resp, s.err
}

func validCodes(codes ...string) checkerFunc {
	return func(code string) (*assignment.CheckResult, error) {
		for _, c := range codes {
			if c == code {
				return &assignment.CheckResult{Valid: true, Assignment: &types.AssignmentInfo{Title: "Essay " + c}}, nil
			}
		}
		return &assignment.CheckResult{Valid: false, Error: "Unknown code"}, nil
	}
}

type fixture struct {
	wf        *Workflow
	clock     *debounce.ManualClock
	submitter *stubSubmitter
	history   *MemoryHistory
}

func newFixture(t *testing.T, percentage int, codes ...string) *fixture {
	t.Helper()
	clock := debounce.NewManualClock()
	cfg := types.DefaultConfig().Assignment
	validator := assignment.NewValidator(validCodes(codes...), cfg, assignment.WithClock(clock))
	sub := &stubSubmitter{resp: &Response{SubmissionID: "sub-1", SubmittedAt: "2026-10-14T09:30:00Z", WordCount: 12}}
	hist := NewMemoryHistory()
	report := &types.OriginalityReport{Percentage: percentage, IsHuman: originality.IsHuman(percentage)}
	wf := NewWorkflow(fixedScorer{report: report}, validator, sub, hist,
		WithSessionID("session-1"),
		WithFileName("essay.txt"),
		WithLogger(zaptest.NewLogger(t)),
	)
	return &fixture{wf: wf, clock: clock, submitter: sub, history: hist}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "editing", Editing.String())
	assert.Equal(t, "needs-revision", NeedsRevision.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "state(42)", State(42).String())
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(Editing, Scoring))
	assert.True(t, CanTransition(Failed, Validated))
	assert.False(t, CanTransition(NeedsRevision, CodeEntry))
	assert.False(t, CanTransition(Editing, Submitting))
	assert.False(t, CanTransition(Submitted, Submitting))
}

func TestWorkflow_HappyPath(t *testing.T) {
	f := newFixture(t, 4, "WK3")
	ctx := context.Background()

	report, err := f.wf.FinalSave(ctx, draftText, nil)
	require.NoError(t, err)
	assert.True(t, report.IsHuman)
	assert.Equal(t, ReviewedHuman, f.wf.State())

	require.NoError(t, f.wf.EnterCode(ctx, "WK3"))
	assert.Equal(t, CodeEntry, f.wf.State())
	f.clock.Advance(500 * time.Millisecond)
	assert.Equal(t, Validated, f.wf.State())

	rec, err := f.wf.Submit(ctx, types.StudentIdentity{StudentID: "s-77"}, draftText)
	require.NoError(t, err)
	assert.Equal(t, Submitted, f.wf.State())
	assert.Equal(t, "sub-1", rec.ID)
	assert.Equal(t, 12, rec.WordCount)
	assert.Equal(t, "Essay WK3", rec.AssignmentTitle)
	assert.Equal(t, time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC), rec.Timestamp)

	assert.Equal(t, Request{
		AssignmentCode:  "WK3",
		Content:         draftText,
		FileName:        "essay.txt",
		StudentID:       "s-77",
		AIPercentage:    4,
		WriterSessionID: "session-1",
	}, f.submitter.last)

	assert.Empty(t, f.wf.Code(), "code cleared after submission")
	assert.Nil(t, f.wf.Validation())

	hist, err := f.wf.History(ctx)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "session-1", hist[0].SessionID)
}

func TestWorkflow_NeedsRevisionOnlyExitsToEditing(t *testing.T) {
	f := newFixture(t, 55, "WK3")
	ctx := context.Background()

	_, err := f.wf.FinalSave(ctx, draftText, nil)
	require.NoError(t, err)
	assert.Equal(t, NeedsRevision, f.wf.State())

	err = f.wf.EnterCode(ctx, "WK3")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.wf.Submit(ctx, types.StudentIdentity{StudentID: "s"}, draftText)
	assert.ErrorIs(t, err, ErrSubmissionNotAllowed)
	assert.Zero(t, f.submitter.calls.Load())

	require.NoError(t, f.wf.ReturnToEditing())
	assert.Equal(t, Editing, f.wf.State())
	assert.Nil(t, f.wf.Report())
}

func TestWorkflow_ScoringFailureReturnsToEditing(t *testing.T) {
	wf := NewWorkflow(fixedScorer{err: originality.ErrInsufficientContent}, nil, nil, nil)
	_, err := wf.FinalSave(context.Background(), "too short", nil)
	assert.ErrorIs(t, err, originality.ErrInsufficientContent)
	assert.Equal(t, Editing, wf.State())
	assert.NotEmpty(t, wf.SessionID())
}

func TestWorkflow_StaleValidationDropped(t *testing.T) {
	f := newFixture(t, 0, "OLD", "NEW")
	ctx := context.Background()
	_, err := f.wf.FinalSave(ctx, draftText, nil)
	require.NoError(t, err)

	require.NoError(t, f.wf.EnterCode(ctx, "OLD"))
	// A result for OLD arriving after the user typed NEW is ignored.
	f.wf.applyValidation(types.AssignmentCodeValidation{Code: "OLD", Valid: true})
	assert.Equal(t, Validated, f.wf.State())

	require.NoError(t, f.wf.EnterCode(ctx, "NEW"))
	f.wf.applyValidation(types.AssignmentCodeValidation{Code: "OLD", Valid: true})
	assert.Equal(t, CodeEntry, f.wf.State())
	assert.Nil(t, f.wf.Validation())

	f.clock.Advance(time.Second)
	assert.Equal(t, Validated, f.wf.State())
	assert.Equal(t, "NEW", f.wf.Validation().Code)
}

func TestWorkflow_InvalidCodeBlocksSubmit(t *testing.T) {
	f := newFixture(t, 0, "WK3")
	ctx := context.Background()
	_, err := f.wf.FinalSave(ctx, draftText, nil)
	require.NoError(t, err)

	res, err := f.wf.ValidateCode(ctx, "NOPE")
	assert.ErrorIs(t, err, assignment.ErrInvalidAssignmentCode)
	assert.False(t, res.Valid)
	assert.Equal(t, CodeEntry, f.wf.State())

	_, err = f.wf.Submit(ctx, types.StudentIdentity{StudentID: "s"}, draftText)
	assert.ErrorIs(t, err, ErrSubmissionNotAllowed)
}

func TestWorkflow_TransportFailureReturnsToValidated(t *testing.T) {
	f := newFixture(t, 0, "WK3")
	f.submitter.err = errors.New("connection reset")
	ctx := context.Background()

	var seen []State
	f.wf.onChange = func(s State) { seen = append(seen, s) }

	_, err := f.wf.FinalSave(ctx, draftText, nil)
	require.NoError(t, err)
	_, err = f.wf.ValidateCode(ctx, "WK3")
	require.NoError(t, err)

	before := testutil.ToFloat64(metrics.Submissions.WithLabelValues("failed"))
	_, err = f.wf.Submit(ctx, types.StudentIdentity{StudentID: "s"}, draftText)
	assert.ErrorIs(t, err, ErrSubmissionTransport)
	assert.Equal(t, Validated, f.wf.State())
	assert.Equal(t, int32(1), f.submitter.calls.Load(), "no automatic retry")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Submissions.WithLabelValues("failed")))
	assert.Equal(t, []State{Scoring, ReviewedHuman, CodeEntry, Validated, Submitting, Failed, Validated}, seen)

	hist, _ := f.history.List(ctx, "")
	assert.Empty(t, hist)

	f.submitter.err = nil
	_, err = f.wf.Submit(ctx, types.StudentIdentity{StudentID: "s"}, draftText)
	require.NoError(t, err)
	assert.Equal(t, Submitted, f.wf.State())
}

func TestWorkflow_SubmitsEditedTextUnderEarlierScore(t *testing.T) {
	f := newFixture(t, 3, "WK3")
	ctx := context.Background()
	_, err := f.wf.FinalSave(ctx, draftText, nil)
	require.NoError(t, err)
	_, err = f.wf.ValidateCode(ctx, "WK3")
	require.NoError(t, err)

	// The draft changed after scoring; the old report still gates the send.
	const edited = draftText + " A late paragraph nobody scored."
	rec, err := f.wf.Submit(ctx, types.StudentIdentity{StudentID: "s-9"}, edited)
	require.NoError(t, err)
	assert.Equal(t, edited, f.submitter.last.Content)
	assert.Equal(t, 3, f.submitter.last.AIPercentage)
	assert.Equal(t, 3, rec.AIPercentage)
}

func TestWorkflow_FinalSaveFromWrongState(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.wf.FinalSave(context.Background(), draftText, nil)
	require.NoError(t, err)
	_, err = f.wf.FinalSave(context.Background(), draftText, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestClient_Submit(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "Bearer t0k", r.Header.Get("Authorization"))
		var in Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		switch in.AssignmentCode {
		case "OK":
			w.Write([]byte(`{"submissionId":"x1","submittedAt":"2026-10-14T10:00:00Z","wordCount":120,"assignmentTitle":"Essay"}`))
		case "CLOSED":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"Assignment closed"}`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer ts.Close()

	cfg := types.DefaultConfig().Submission
	cfg.Endpoint = ts.URL
	cfg.Token = "t0k"
	c := NewClient(cfg, ts.Client(), zaptest.NewLogger(t))

	resp, err := c.Submit(context.Background(), Request{AssignmentCode: "OK"})
	require.NoError(t, err)
	assert.Equal(t, "x1", resp.SubmissionID)
	assert.Equal(t, 120, resp.WordCount)

	_, err = c.Submit(context.Background(), Request{AssignmentCode: "CLOSED"})
	assert.ErrorIs(t, err, ErrSubmissionRejected)
	assert.ErrorContains(t, err, "Assignment closed")

	hits.Store(0)
	_, err = c.Submit(context.Background(), Request{AssignmentCode: "BUSY"})
	assert.ErrorIs(t, err, ErrSubmissionTransport)
	assert.Equal(t, int32(1), hits.Load(), "submission is never retried")
}

func TestMemoryHistory(t *testing.T) {
	h := NewMemoryHistory()
	ctx := context.Background()
	require.NoError(t, h.Append(ctx, types.SubmissionRecord{ID: "1", SessionID: "a"}))
	require.NoError(t, h.Append(ctx, types.SubmissionRecord{ID: "2", SessionID: "b"}))

	a, err := h.List(ctx, "a")
	require.NoError(t, err)
	require.Len(t, a, 1)
	assert.Equal(t, "1", a[0].ID)

	all, _ := h.List(ctx, "")
	assert.Len(t, all, 2)
}
