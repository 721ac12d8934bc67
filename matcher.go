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

package reconcile

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wacul/ptr"
	"go.opentelemetry.io/otel"

	"github.com/lodgetix/reconcile/model"
)

const (
	// Validation thresholds, applied regardless of which strategy matched.
	amountTolerance = 0.01
	timeTolerance   = 7 * 24 * time.Hour

	// Fuzzy lookups search a ±24h window around the payment timestamp.
	fuzzyWindow = 24 * time.Hour
)

// confidenceTable maps a match method to its score: both validations
// passing, and the penalty per failed validation. Fuzzy matches score a
// fixed floor regardless of validation outcome so downstream consumers can
// apply their own threshold.
var confidenceTable = map[string]struct {
	base    int
	penalty int
}{
	model.MatchMethodPaymentID: {base: 100, penalty: 20},
	model.MatchMethodMetadata:  {base: 80, penalty: 20},
	model.MatchMethodFuzzy:     {base: 40, penalty: 0},
}

// MatchPayment reconciles one payment against the registration store. Three
// strategies run in fixed priority order, stopping at the first hit:
// payment-reference identifier, metadata registration id, then fuzzy
// (exact amount inside a time window). Lookup misses are not errors; a
// payment no strategy resolves comes back with confidence 0 and method
// "none".
func (l *Reconcile) MatchPayment(ctx context.Context, payment model.CanonicalPayment) (model.MatchResult, error) {
	result := model.MatchResult{
		Payment:   payment,
		Method:    model.MatchMethodNone,
		MatchedAt: time.Now(),
	}

	registration, method, err := l.findRegistration(ctx, payment)
	if err != nil {
		return result, err
	}
	if registration == nil {
		return result, nil
	}

	result.Registration = registration
	result.Method = method
	result.Confidence, result.IsValid, result.Issues = scoreMatch(payment, registration, method)
	return result, nil
}

func (l *Reconcile) findRegistration(ctx context.Context, payment model.CanonicalPayment) (*model.CanonicalRegistration, string, error) {
	// Strategy 1: processor payment-reference fields, all historical
	// naming variants.
	refs := make([]string, 0, 2)
	if payment.PaymentID != "" {
		refs = append(refs, payment.PaymentID)
	}
	if payment.TransactionID != "" && payment.TransactionID != payment.PaymentID {
		refs = append(refs, payment.TransactionID)
	}
	if len(refs) > 0 {
		registration, err := l.datasource.GetRegistrationByPaymentRef(ctx, refs)
		if err != nil {
			return nil, "", err
		}
		if registration != nil {
			return registration, model.MatchMethodPaymentID, nil
		}
	}

	// Strategy 2: explicit registration-id hint from payment metadata.
	if payment.RegistrationHint != "" {
		registration, err := l.datasource.GetRegistration(ctx, payment.RegistrationHint)
		if err != nil {
			return nil, "", err
		}
		if registration != nil {
			return registration, model.MatchMethodMetadata, nil
		}
	}

	// Strategy 3: exact amount inside the fuzzy time window.
	registration, err := l.datasource.GetRegistrationByAmountAndTime(ctx, payment.Amount(),
		payment.Timestamp.Add(-fuzzyWindow), payment.Timestamp.Add(fuzzyWindow))
	if err != nil {
		return nil, "", err
	}
	if registration != nil {
		return registration, model.MatchMethodFuzzy, nil
	}
	return nil, "", nil
}

// scoreMatch evaluates the two validations — amount and time proximity —
// independently of the strategy that found the match, and derives the
// confidence score from the method's table entry.
func scoreMatch(payment model.CanonicalPayment, registration *model.CanonicalRegistration, method string) (int, bool, []string) {
	var issues []string

	amountDelta := math.Abs(payment.Amount() - registration.TotalAmount)
	if amountDelta > amountTolerance {
		issues = append(issues, fmt.Sprintf("amount mismatch: payment %.2f vs registration %.2f (delta %.2f)",
			payment.Amount(), registration.TotalAmount, amountDelta))
	}

	timeDelta := payment.Timestamp.Sub(registration.CreatedAt)
	if timeDelta < 0 {
		timeDelta = -timeDelta
	}
	if timeDelta > timeTolerance {
		issues = append(issues, fmt.Sprintf("large time gap: %.1f days between payment and registration",
			timeDelta.Hours()/24))
	}

	entry := confidenceTable[method]
	confidence := entry.base - entry.penalty*len(issues)
	if confidence < 0 {
		confidence = 0
	}
	return confidence, len(issues) == 0, issues
}

// MatchPayments matches a batch of payments over a bounded worker pool.
// Results come back in input order; cancellation is checked between items.
func (l *Reconcile) MatchPayments(ctx context.Context, payments []model.CanonicalPayment) ([]model.MatchResult, error) {
	ctx, span := otel.Tracer("reconcile.matcher").Start(ctx, "Matching payment batch")
	defer span.End()

	results := make([]model.MatchResult, len(payments))
	jobs := make(chan int)

	workers := l.workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(payments) {
		workers = len(payments)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				result, err := l.MatchPayment(ctx, payments[i])
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					result = model.MatchResult{
						Payment:   payments[i],
						Method:    model.MatchMethodNone,
						MatchedAt: time.Now(),
					}
				}
				results[i] = result
			}
		}()
	}

feed:
	for i := range payments {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, firstErr
}

// MatchAll runs a recorded batch pass: it books a match run, matches every
// payment, and closes the run with its counts.
func (l *Reconcile) MatchAll(ctx context.Context, payments []model.CanonicalPayment) (*model.MatchRun, []model.MatchResult, error) {
	run := model.NewMatchRun(len(payments))
	if err := l.datasource.RecordMatchRun(ctx, run); err != nil {
		return nil, nil, err
	}

	results, err := l.MatchPayments(ctx, payments)
	if err != nil {
		run.Status = model.StatusFailed
		run.CompletedAt = ptr.Time(time.Now())
		if updateErr := l.datasource.UpdateMatchRunStatus(ctx, run.MatchRunID, model.StatusFailed, 0, 0, 0); updateErr != nil {
			logrus.Error(updateErr)
		}
		return run, nil, err
	}

	for _, r := range results {
		if r.Matched() {
			run.MatchedPayments++
			if r.IsValid {
				run.ValidMatches++
			}
		} else {
			run.UnmatchedPayments++
		}
	}
	run.Status = model.StatusCompleted
	run.CompletedAt = ptr.Time(time.Now())

	if err := l.datasource.UpdateMatchRunStatus(ctx, run.MatchRunID, model.StatusCompleted,
		run.MatchedPayments, run.UnmatchedPayments, run.ValidMatches); err != nil {
		logrus.Error(err)
	}
	return run, results, nil
}
