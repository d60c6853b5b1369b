// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/writing-desk/internal/store"
	"github.com/pdiddy/writing-desk/internal/submission"
	"github.com/pdiddy/writing-desk/pkg/types"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Score the draft, validate the code and submit",
	Long: `Submit runs the full workflow: the draft is scored, and only a draft
scored as human may continue. The assignment code is then validated and the
draft is sent once. A failed send can simply be retried by running submit
again.`,
	RunE: runSubmit,
}

func runSubmit(cmd *cobra.Command, args []string) error {
	code, _ := cmd.Flags().GetString("code")
	studentID, _ := cmd.Flags().GetString("student")
	if code == "" || studentID == "" {
		return errors.New("--code and --student are required")
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	// Stale markers would otherwise reach the submitted text's bibliography.
	s.engine.SyncNow()
	if err := s.save(context.Background()); err != nil {
		return err
	}

	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	wf := submission.NewWorkflow(newScorer(), newValidator(), newSubmitter(), st,
		submission.WithSessionID(s.project.SessionID),
		submission.WithFileName(s.project.FileName),
		submission.WithLogger(logger),
	)

	report, err := wf.FinalSave(ctx, s.text(), printProgress)
	if err != nil {
		return err
	}
	if !report.IsHuman {
		printReport(os.Stdout, report)
		return fmt.Errorf("draft scored %d%% AI content; revise it before submitting", report.Percentage)
	}

	res, err := wf.ValidateCode(ctx, code)
	if err != nil {
		return err
	}
	if !res.Valid {
		return fmt.Errorf("assignment code %q is too short", res.Code)
	}

	rec, err := wf.Submit(ctx, types.StudentIdentity{StudentID: studentID}, s.text())
	if err != nil {
		return err
	}
	fmt.Printf("submitted %s to %s at %s (%d words, %d%% AI)\n",
		rec.ID, displayTitle(rec), rec.Timestamp.Format("2006-01-02 15:04"), rec.WordCount, rec.AIPercentage)
	return nil
}

func displayTitle(rec *types.SubmissionRecord) string {
	if rec.AssignmentTitle != "" {
		return rec.AssignmentTitle
	}
	return rec.AssignmentCode
}

func init() {
	submitCmd.Flags().String("code", "", "assignment code")
	submitCmd.Flags().String("student", "", "student ID")
	rootCmd.AddCommand(submitCmd)
}
