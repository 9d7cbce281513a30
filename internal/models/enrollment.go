package models

import (
	"sort"
	"time"
)

// OperationKind distinguishes bulk enroll from bulk unenroll.
type OperationKind string

// Supported bulk operations.
const (
	OperationEnroll   OperationKind = "enroll"
	OperationUnenroll OperationKind = "unenroll"
)

// Literal outcome strings the portal uses to report a per-course success.
const (
	EnrollSuccessLiteral   = "Enroll successfully"
	UnenrollSuccessLiteral = "Unenroll successfully"
)

// Valid reports whether the kind is known.
func (k OperationKind) Valid() bool {
	return k == OperationEnroll || k == OperationUnenroll
}

// SuccessLiteral returns the outcome string that denotes success for the kind.
func (k OperationKind) SuccessLiteral() string {
	if k == OperationUnenroll {
		return UnenrollSuccessLiteral
	}
	return EnrollSuccessLiteral
}

// Page returns the selection page that feeds the operation.
func (k OperationKind) Page() SelectionPage {
	if k == OperationUnenroll {
		return SelectionPageRegistered
	}
	return SelectionPageOpened
}

// SelectionPage names a page that owns its own selection.
type SelectionPage string

// Pages with a selection.
const (
	SelectionPageOpened     SelectionPage = "opened"
	SelectionPageRegistered SelectionPage = "registered"
)

// Valid reports whether the page is known.
func (p SelectionPage) Valid() bool {
	return p == SelectionPageOpened || p == SelectionPageRegistered
}

// OutcomeKind tags an Outcome.
type OutcomeKind string

// Outcome tags.
const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeFailure OutcomeKind = "failure"
)

// Outcome is the per-course result of a bulk operation.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Reason string      `json:"reason,omitempty"`
}

// Success builds a successful outcome.
func Success() Outcome {
	return Outcome{Kind: OutcomeSuccess}
}

// Failure builds a failed outcome carrying the portal's reason verbatim.
func Failure(reason string) Outcome {
	return Outcome{Kind: OutcomeFailure, Reason: reason}
}

// IsSuccess reports whether the outcome is a success.
func (o Outcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

// ParseOutcome converts a raw portal outcome string for the given operation.
func ParseOutcome(kind OperationKind, raw string) Outcome {
	if raw == kind.SuccessLiteral() {
		return Success()
	}
	return Failure(raw)
}

// ItemOutcome pairs a course code with its outcome.
type ItemOutcome struct {
	CourseCode string `json:"courseCode"`
	Outcome
}

// OperationResult is the reconciled report of one bulk operation. Items are
// keyed by human course code, not internal id.
type OperationResult struct {
	OperationID string        `json:"operationId"`
	Kind        OperationKind `json:"kind"`
	Items       []ItemOutcome `json:"items"`
	CompletedAt time.Time     `json:"completedAt"`
}

// NewOperationResult builds a result with items ordered by course code.
func NewOperationResult(id string, kind OperationKind, outcomes map[string]Outcome, completedAt time.Time) *OperationResult {
	items := make([]ItemOutcome, 0, len(outcomes))
	for code, outcome := range outcomes {
		items = append(items, ItemOutcome{CourseCode: code, Outcome: outcome})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CourseCode < items[j].CourseCode })
	return &OperationResult{OperationID: id, Kind: kind, Items: items, CompletedAt: completedAt}
}

// Outcome looks up the outcome reported for a course code.
func (r *OperationResult) Outcome(code string) (Outcome, bool) {
	if r == nil {
		return Outcome{}, false
	}
	for _, item := range r.Items {
		if item.CourseCode == code {
			return item.Outcome, true
		}
	}
	return Outcome{}, false
}

// Succeeded lists the codes reported as successful.
func (r *OperationResult) Succeeded() []string {
	if r == nil {
		return nil
	}
	codes := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		if item.IsSuccess() {
			codes = append(codes, item.CourseCode)
		}
	}
	return codes
}

// Failed lists the items reported as failures.
func (r *OperationResult) Failed() []ItemOutcome {
	if r == nil {
		return nil
	}
	failed := make([]ItemOutcome, 0)
	for _, item := range r.Items {
		if !item.IsSuccess() {
			failed = append(failed, item)
		}
	}
	return failed
}

// RegistrationSummary is the tally shown on the registered-courses page.
type RegistrationSummary struct {
	NumberOfCourses int `json:"numberOfCourses"`
	CreditNumber    int `json:"creditNumber"`
}
