// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AssignmentInfo is the assignment metadata bound to a valid code.
type AssignmentInfo struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	WeekNumber  int    `json:"weekNumber" yaml:"week_number"`
	DueDate     string `json:"dueDate" yaml:"due_date"`
	IsOverdue   bool   `json:"isOverdue" yaml:"is_overdue"`
}

// AssignmentCodeValidation is the outcome of checking an assignment code.
type AssignmentCodeValidation struct {
	Code    string `json:"code" yaml:"code"`
	Valid   bool   `json:"valid" yaml:"valid"`
	Message string `json:"message" yaml:"message"`

	// Assignment is set only when Valid is true and the service returned metadata.
	Assignment *AssignmentInfo `json:"assignment,omitempty" yaml:"assignment,omitempty"`
}

// StudentIdentity identifies who is submitting.
type StudentIdentity struct {
	StudentID string `json:"student_id" yaml:"student_id"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
}

// SubmissionRecord is created once per successful submission and never
// modified afterwards.
type SubmissionRecord struct {
	ID              string    `json:"id" yaml:"id"`
	SessionID       string    `json:"session_id" yaml:"session_id"`
	Timestamp       time.Time `json:"timestamp" yaml:"timestamp"`
	AIPercentage    int       `json:"ai_percentage" yaml:"ai_percentage"`
	WordCount       int       `json:"word_count" yaml:"word_count"`
	AssignmentCode  string    `json:"assignment_code" yaml:"assignment_code"`
	AssignmentTitle string    `json:"assignment_title,omitempty" yaml:"assignment_title,omitempty"`
}
