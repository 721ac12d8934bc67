/*
Copyright 2025 LodgeTix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import "time"

// Match methods, in strategy order. MatchMethodNone marks a payment no
// strategy could resolve.
const (
	MatchMethodPaymentID = "payment_id"
	MatchMethodMetadata  = "metadata"
	MatchMethodFuzzy     = "fuzzy"
	MatchMethodNone      = "none"
)

// Match-run statuses.
const (
	StatusStarted    = "started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// MatchResult is the outcome of matching one payment against the
// registration store. Registration is nil when no candidate was found.
type MatchResult struct {
	Payment      CanonicalPayment       `json:"payment"`
	Registration *CanonicalRegistration `json:"registration,omitempty"`
	Confidence   int                    `json:"confidence"`
	Method       string                 `json:"method"`
	IsValid      bool                   `json:"is_valid"`
	Issues       []string               `json:"issues,omitempty"`
	MatchedAt    time.Time              `json:"matched_at"`
}

// Matched reports whether any strategy produced a candidate registration.
func (m MatchResult) Matched() bool {
	return m.Registration != nil && m.Method != MatchMethodNone
}

// MatchRun records a batch matching pass over a set of payments.
type MatchRun struct {
	MatchRunID        string     `json:"match_run_id"`
	Status            string     `json:"status"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	TotalPayments     int        `json:"total_payments"`
	MatchedPayments   int        `json:"matched_payments"`
	UnmatchedPayments int        `json:"unmatched_payments"`
	ValidMatches      int        `json:"valid_matches"`
}

// NewMatchRun starts a run record with a fresh id.
func NewMatchRun(total int) *MatchRun {
	return &MatchRun{
		MatchRunID:    GenerateUUIDWithSuffix("run"),
		Status:        StatusStarted,
		StartedAt:     time.Now(),
		TotalPayments: total,
	}
}
