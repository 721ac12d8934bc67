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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lodgetix/reconcile/config"
	"github.com/lodgetix/reconcile/database/mocks"
	"github.com/lodgetix/reconcile/model"
)

func newTestEngine(mockDS *mocks.MockDataSource) *Reconcile {
	cnf := &config.Configuration{}
	config.MockConfig(cnf)
	return &Reconcile{
		datasource: mockDS,
		fees:       newFeeCalculator(cnf),
		workers:    4,
	}
}

func TestMatchPaymentByReference(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	engine := newTestEngine(mockDS)

	now := time.Now()
	payment := model.CanonicalPayment{
		PaymentID:   "X1",
		GrossAmount: 100.00,
		Timestamp:   now,
		Source:      model.SourceStripe,
	}
	registration := &model.CanonicalRegistration{
		RegistrationID:        "reg_1",
		TotalAmount:           100.00,
		CreatedAt:             now,
		StripePaymentIntentID: "X1",
	}

	mockDS.On("GetRegistrationByPaymentRef", mock.Anything, []string{"X1"}).Return(registration, nil)

	result, err := engine.MatchPayment(context.Background(), payment)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Confidence)
	assert.Equal(t, model.MatchMethodPaymentID, result.Method)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
	mockDS.AssertExpectations(t)
}

func TestMatchPaymentAmountMismatch(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	engine := newTestEngine(mockDS)

	now := time.Now()
	payment := model.CanonicalPayment{
		PaymentID:   "X1",
		GrossAmount: 100.00,
		Timestamp:   now,
	}
	registration := &model.CanonicalRegistration{
		RegistrationID:        "reg_1",
		TotalAmount:           150.00,
		CreatedAt:             now,
		StripePaymentIntentID: "X1",
	}

	mockDS.On("GetRegistrationByPaymentRef", mock.Anything, []string{"X1"}).Return(registration, nil)

	result, err := engine.MatchPayment(context.Background(), payment)
	require.NoError(t, err)
	assert.Equal(t, 80, result.Confidence)
	assert.False(t, result.IsValid)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "amount mismatch")
	mockDS.AssertExpectations(t)
}

func TestMatchPaymentByMetadataHint(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	engine := newTestEngine(mockDS)

	now := time.Now()
	payment := model.CanonicalPayment{
		PaymentID:        "pi_1",
		GrossAmount:      50,
		Timestamp:        now,
		RegistrationHint: "reg_9",
	}
	registration := &model.CanonicalRegistration{
		RegistrationID: "reg_9",
		TotalAmount:    50,
		CreatedAt:      now,
	}

	mockDS.On("GetRegistrationByPaymentRef", mock.Anything, []string{"pi_1"}).Return(nil, nil)
	mockDS.On("GetRegistration", mock.Anything, "reg_9").Return(registration, nil)

	result, err := engine.MatchPayment(context.Background(), payment)
	require.NoError(t, err)
	assert.Equal(t, model.MatchMethodMetadata, result.Method)
	assert.Equal(t, 80, result.Confidence)
	assert.True(t, result.IsValid)
	mockDS.AssertExpectations(t)
}

func TestMatchPaymentFuzzy(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	engine := newTestEngine(mockDS)

	now := time.Now()
	payment := model.CanonicalPayment{
		PaymentID:   "pi_2",
		GrossAmount: 75,
		Timestamp:   now,
	}
	registration := &model.CanonicalRegistration{
		RegistrationID: "reg_7",
		TotalAmount:    75,
		CreatedAt:      now.Add(-2 * time.Hour),
	}

	mockDS.On("GetRegistrationByPaymentRef", mock.Anything, []string{"pi_2"}).Return(nil, nil)
	mockDS.On("GetRegistrationByAmountAndTime", mock.Anything, 75.0,
		now.Add(-fuzzyWindow), now.Add(fuzzyWindow)).Return(registration, nil)

	result, err := engine.MatchPayment(context.Background(), payment)
	require.NoError(t, err)
	assert.Equal(t, model.MatchMethodFuzzy, result.Method)
	assert.Equal(t, 40, result.Confidence)
	assert.True(t, result.IsValid)
	mockDS.AssertExpectations(t)
}

func TestMatchPaymentNoMatch(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	engine := newTestEngine(mockDS)

	payment := model.CanonicalPayment{PaymentID: "pi_3", GrossAmount: 10, Timestamp: time.Now()}

	mockDS.On("GetRegistrationByPaymentRef", mock.Anything, mock.Anything).Return(nil, nil)
	mockDS.On("GetRegistrationByAmountAndTime", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	result, err := engine.MatchPayment(context.Background(), payment)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Confidence)
	assert.Equal(t, model.MatchMethodNone, result.Method)
	assert.Nil(t, result.Registration)
	assert.False(t, result.Matched())
	mockDS.AssertExpectations(t)
}

// Confidence ordering holds for otherwise-identical validation outcomes.
func TestConfidenceMonotonicity(t *testing.T) {
	payment := model.CanonicalPayment{GrossAmount: 100, Timestamp: time.Now()}
	registration := &model.CanonicalRegistration{TotalAmount: 100, CreatedAt: payment.Timestamp}

	idScore, _, _ := scoreMatch(payment, registration, model.MatchMethodPaymentID)
	metaScore, _, _ := scoreMatch(payment, registration, model.MatchMethodMetadata)
	fuzzyScore, _, _ := scoreMatch(payment, registration, model.MatchMethodFuzzy)
	assert.GreaterOrEqual(t, idScore, metaScore)
	assert.GreaterOrEqual(t, metaScore, fuzzyScore)

	// Fuzzy stays at its floor even when both validations fail.
	badPayment := model.CanonicalPayment{GrossAmount: 500, Timestamp: time.Now().Add(30 * 24 * time.Hour)}
	fuzzyBad, valid, issues := scoreMatch(badPayment, registration, model.MatchMethodFuzzy)
	assert.Equal(t, 40, fuzzyBad)
	assert.False(t, valid)
	assert.Len(t, issues, 2)
}

func TestMatchPaymentsPreservesOrder(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	engine := newTestEngine(mockDS)

	now := time.Now()
	var payments []model.CanonicalPayment
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("pay_%d", i)
		payments = append(payments, model.CanonicalPayment{PaymentID: id, GrossAmount: float64(i + 1), Timestamp: now})
		mockDS.On("GetRegistrationByPaymentRef", mock.Anything, []string{id}).Return(&model.CanonicalRegistration{
			RegistrationID:        fmt.Sprintf("reg_%d", i),
			TotalAmount:           float64(i + 1),
			CreatedAt:             now,
			StripePaymentIntentID: id,
		}, nil)
	}

	results, err := engine.MatchPayments(context.Background(), payments)
	require.NoError(t, err)
	require.Len(t, results, 20)
	for i, result := range results {
		assert.Equal(t, fmt.Sprintf("pay_%d", i), result.Payment.PaymentID)
		assert.Equal(t, fmt.Sprintf("reg_%d", i), result.Registration.RegistrationID)
	}
}

func TestMatchPaymentsCancelled(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	engine := newTestEngine(mockDS)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	payments := []model.CanonicalPayment{{PaymentID: "p1"}, {PaymentID: "p2"}}
	_, err := engine.MatchPayments(ctx, payments)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatchAllRecordsRun(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	engine := newTestEngine(mockDS)

	now := time.Now()
	payments := []model.CanonicalPayment{
		{PaymentID: "p1", GrossAmount: 100, Timestamp: now},
		{PaymentID: "p2", GrossAmount: 200, Timestamp: now},
	}

	mockDS.On("RecordMatchRun", mock.Anything, mock.Anything).Return(nil)
	mockDS.On("GetRegistrationByPaymentRef", mock.Anything, []string{"p1"}).Return(&model.CanonicalRegistration{
		RegistrationID: "reg_1", TotalAmount: 100, CreatedAt: now, StripePaymentIntentID: "p1",
	}, nil)
	mockDS.On("GetRegistrationByPaymentRef", mock.Anything, []string{"p2"}).Return(nil, nil)
	mockDS.On("GetRegistrationByAmountAndTime", mock.Anything, 200.0, mock.Anything, mock.Anything).Return(nil, nil)
	mockDS.On("UpdateMatchRunStatus", mock.Anything, mock.Anything, model.StatusCompleted, 1, 1, 1).Return(nil)

	run, results, err := engine.MatchAll(context.Background(), payments)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, model.StatusCompleted, run.Status)
	assert.Equal(t, 1, run.MatchedPayments)
	assert.Equal(t, 1, run.UnmatchedPayments)
	assert.Equal(t, 1, run.ValidMatches)
	assert.NotNil(t, run.CompletedAt)
	mockDS.AssertExpectations(t)
}
