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

package database

import (
	"context"
	"time"

	"github.com/lodgetix/reconcile/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	registration // Interface for staged-registration lookups
	matchRun     // Interface for batch-run bookkeeping
}

// registration defines the lookups the matcher and generators run against
// the staged-registration store. Not-found outcomes return (nil, nil): the
// matcher turns them into zero-confidence results, they are not errors.
type registration interface {
	RecordRegistration(ctx context.Context, reg *model.CanonicalRegistration) error                                               // Stages a registration document
	GetRegistration(ctx context.Context, id string) (*model.CanonicalRegistration, error)                                         // Retrieves a registration by id or confirmation number
	GetRegistrationByPaymentRef(ctx context.Context, refs []string) (*model.CanonicalRegistration, error)                         // Finds the registration carrying one of refs in any payment-reference field
	GetRegistrationByAmountAndTime(ctx context.Context, amount float64, from, to time.Time) (*model.CanonicalRegistration, error) // Finds the earliest registration with the exact total inside [from, to]
}

// matchRun defines methods for recording batch matching passes.
type matchRun interface {
	RecordMatchRun(ctx context.Context, run *model.MatchRun) error                                        // Records a new match run
	UpdateMatchRunStatus(ctx context.Context, id string, status string, matched, unmatched, valid int) error // Updates the status and counts of a match run
	GetMatchRun(ctx context.Context, id string) (*model.MatchRun, error)                                  // Retrieves a match run by ID
}
