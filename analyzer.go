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
	"math"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/lodgetix/reconcile/model"
)

// Review recommendations produced by the analyzer.
const (
	RecommendAccept = "accept"
	RecommendReview = "review"
	RecommendReject = "reject"
)

// FieldEvidence is one field-level agreement finding between a payment and
// its candidate registration.
type FieldEvidence struct {
	Field      string  `json:"field"`
	Payment    string  `json:"payment_value"`
	Candidate  string  `json:"candidate_value"`
	Similarity float64 `json:"similarity"`
	Weight     int     `json:"weight"`
}

// MatchAnalysis is the manual-review diagnostic for a match result:
// weighted contact-field agreement plus a coarse recommendation.
type MatchAnalysis struct {
	Result         model.MatchResult `json:"result"`
	Evidence       []FieldEvidence   `json:"evidence"`
	EvidenceScore  int               `json:"evidence_score"`
	Recommendation string            `json:"recommendation"`
}

// Field weights for evidence scoring. Identifier agreement dominates;
// contact fields corroborate; amount and time are weak indicators.
var evidenceWeights = map[string]int{
	"payment_reference":   30,
	"confirmation_number": 20,
	"email":               8,
	"name":                5,
	"amount":              2,
}

// AnalyzeMatch inspects a match result and scores field-level agreement
// between the payment and the candidate registration, for manual review of
// low-confidence matches. Unmatched results come back with an empty
// evidence list and a reject recommendation.
func AnalyzeMatch(result model.MatchResult) MatchAnalysis {
	analysis := MatchAnalysis{Result: result, Recommendation: RecommendReject}
	if !result.Matched() {
		return analysis
	}

	registration := result.Registration
	processed := ProcessRegistration(registration)

	addEvidence := func(field, paymentValue, candidateValue string) {
		if paymentValue == "" || candidateValue == "" {
			return
		}
		similarity := stringSimilarity(paymentValue, candidateValue)
		analysis.Evidence = append(analysis.Evidence, FieldEvidence{
			Field:      field,
			Payment:    paymentValue,
			Candidate:  candidateValue,
			Similarity: similarity,
			Weight:     evidenceWeights[field],
		})
		if similarity >= 0.8 {
			analysis.EvidenceScore += evidenceWeights[field]
		}
	}

	for _, ref := range registration.PaymentReferences() {
		if ref == result.Payment.PaymentID || ref == result.Payment.TransactionID {
			addEvidence("payment_reference", result.Payment.Reference(), ref)
			break
		}
	}
	addEvidence("email", result.Payment.CustomerEmail, processed.Billing.Email)
	addEvidence("name", result.Payment.CustomerName,
		strings.TrimSpace(processed.Billing.FirstName+" "+processed.Billing.LastName))
	if result.Payment.RegistrationHint != "" {
		addEvidence("confirmation_number", result.Payment.RegistrationHint, registration.ConfirmationNumber)
	}
	if math.Abs(result.Payment.Amount()-registration.TotalAmount) <= amountTolerance {
		analysis.EvidenceScore += evidenceWeights["amount"]
	}

	switch {
	case result.Confidence >= 80:
		analysis.Recommendation = RecommendAccept
	case result.Confidence >= 40 && analysis.EvidenceScore >= evidenceWeights["email"]:
		analysis.Recommendation = RecommendAccept
	case result.Confidence >= 40:
		analysis.Recommendation = RecommendReview
	default:
		analysis.Recommendation = RecommendReject
	}
	return analysis
}

// stringSimilarity returns a [0,1] similarity: 1 for containment, else the
// complement of the normalized Levenshtein distance.
func stringSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 1
	}

	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLength := len(a)
	if len(b) > maxLength {
		maxLength = len(b)
	}
	if maxLength == 0 {
		return 0
	}
	return 1 - float64(distance)/float64(maxLength)
}
