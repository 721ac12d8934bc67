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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodgetix/reconcile/model"
)

func TestAnalyzeMatchHighConfidence(t *testing.T) {
	now := time.Now()
	result := model.MatchResult{
		Payment: model.CanonicalPayment{
			PaymentID:     "pi_1",
			GrossAmount:   100,
			Timestamp:     now,
			CustomerEmail: "john@example.com",
		},
		Registration: &model.CanonicalRegistration{
			RegistrationID:        "reg_1",
			TotalAmount:           100,
			CreatedAt:             now,
			StripePaymentIntentID: "pi_1",
			Raw: map[string]interface{}{
				"bookingContact": map[string]interface{}{
					"firstName": "John",
					"lastName":  "Doe",
					"email":     "john@example.com",
				},
			},
		},
		Method:     model.MatchMethodPaymentID,
		Confidence: 100,
		IsValid:    true,
	}

	analysis := AnalyzeMatch(result)
	assert.Equal(t, RecommendAccept, analysis.Recommendation)
	assert.GreaterOrEqual(t, analysis.EvidenceScore, evidenceWeights["payment_reference"])

	var fields []string
	for _, e := range analysis.Evidence {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "payment_reference")
	assert.Contains(t, fields, "email")
}

// A fuzzy match with corroborating email evidence is safe to accept; the
// same match without it goes to manual review.
func TestAnalyzeMatchFuzzyEscalation(t *testing.T) {
	now := time.Now()
	base := model.MatchResult{
		Payment: model.CanonicalPayment{
			PaymentID:   "pi_2",
			GrossAmount: 75,
			Timestamp:   now,
		},
		Registration: &model.CanonicalRegistration{
			RegistrationID: "reg_2",
			TotalAmount:    75,
			CreatedAt:      now,
		},
		Method:     model.MatchMethodFuzzy,
		Confidence: 40,
		IsValid:    true,
	}

	noEvidence := AnalyzeMatch(base)
	assert.Equal(t, RecommendReview, noEvidence.Recommendation)

	withEmail := base
	withEmail.Payment.CustomerEmail = "jane@example.com"
	withEmail.Registration = &model.CanonicalRegistration{
		RegistrationID: "reg_2",
		TotalAmount:    75,
		CreatedAt:      now,
		Raw: map[string]interface{}{
			"bookingContact": map[string]interface{}{
				"firstName": "Jane",
				"lastName":  "Smith",
				"email":     "jane@example.com",
			},
		},
	}
	corroborated := AnalyzeMatch(withEmail)
	assert.Equal(t, RecommendAccept, corroborated.Recommendation)
}

func TestAnalyzeMatchUnmatched(t *testing.T) {
	analysis := AnalyzeMatch(model.MatchResult{
		Payment: model.CanonicalPayment{PaymentID: "pi_3"},
		Method:  model.MatchMethodNone,
	})
	assert.Equal(t, RecommendReject, analysis.Recommendation)
	assert.Empty(t, analysis.Evidence)
	assert.Zero(t, analysis.EvidenceScore)
}

func TestStringSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, stringSimilarity("John Doe", "john doe"))
	assert.Equal(t, 1.0, stringSimilarity("John", "John Doe"))
	assert.InDelta(t, 0.875, stringSimilarity("Jon Smith", "Jon Smyth"), 0.08)
	assert.Less(t, stringSimilarity("completely", "different!"), 0.5)
	require.Equal(t, 1.0, stringSimilarity("", ""))
}
