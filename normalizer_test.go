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

	"github.com/lodgetix/reconcile/model"
)

func TestNormalizePaymentStripeDocument(t *testing.T) {
	payment := NormalizePayment(map[string]interface{}{
		"id":          "pi_3abc",
		"grossAmount": 231.8,
		"netAmount":   225.71,
		"currency":    "aud",
		"createdAt":   "2025-06-15T10:00:00Z",
		"customer": map[string]interface{}{
			"email": "jane@example.com",
			"name":  "Jane Smith",
		},
		"paymentMethod": map[string]interface{}{
			"type":  "card",
			"brand": "visa",
			"last4": "4242",
		},
		"status": "succeeded",
		"metadata": map[string]interface{}{
			"registrationId": "reg_42",
		},
	})

	assert.Equal(t, "pi_3abc", payment.PaymentID)
	assert.Equal(t, 231.8, payment.GrossAmount)
	assert.InDelta(t, 6.09, payment.FeeAmount, 0.001)
	assert.Equal(t, "jane@example.com", payment.CustomerEmail)
	assert.Equal(t, "Credit Card", payment.Method)
	assert.Equal(t, "Visa", payment.CardBrand)
	assert.Equal(t, "4242", payment.CardLast4)
	assert.Equal(t, model.PaymentStatusPaid, payment.Status)
	assert.Equal(t, model.SourceStripe, payment.Source)
	assert.Equal(t, "reg_42", payment.RegistrationHint)
	assert.Equal(t, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC), payment.Timestamp.UTC())
}

func TestNormalizePaymentDefaults(t *testing.T) {
	payment := NormalizePayment(map[string]interface{}{"amount": "1,234.50"})

	assert.Equal(t, 1234.50, payment.GrossAmount)
	assert.Equal(t, "AUD", payment.Currency)
	assert.Equal(t, "Credit Card", payment.Method)
	assert.Equal(t, model.PaymentStatusPaid, payment.Status)
	assert.Equal(t, model.SourceUnknown, payment.Source)
	assert.False(t, payment.Timestamp.IsZero())
}

func TestDetectSource(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
		want string
	}{
		{"explicit source wins", map[string]interface{}{"source": "Square", "id": "pi_123"}, model.SourceSquare},
		{"source file hint", map[string]interface{}{"sourceFile": "stripe_payments_2025.csv"}, model.SourceStripe},
		{"stripe intent prefix", map[string]interface{}{"id": "pi_3OqXyz"}, model.SourceStripe},
		{"stripe charge prefix", map[string]interface{}{"id": "ch_3OqXyz"}, model.SourceStripe},
		{"square id shape", map[string]interface{}{"id": "ABCDEF0123456789ABCDEF0123456789"}, model.SourceSquare},
		{"stripe foreign key", map[string]interface{}{"id": "x1", "stripePaymentIntentId": "pi_9"}, model.SourceStripe},
		{"square foreign key", map[string]interface{}{"id": "x1", "squarePaymentId": "sq9"}, model.SourceSquare},
		{"unknown", map[string]interface{}{"id": "x1"}, model.SourceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePayment(tt.raw).Source)
		})
	}
}

func TestNormalizeMethod(t *testing.T) {
	assert.Equal(t, "Credit Card", normalizeMethod("credit_card"))
	assert.Equal(t, "Credit Card", normalizeMethod("card"))
	assert.Equal(t, "Bank Transfer", normalizeMethod("bank"))
	assert.Equal(t, "PayPal", normalizeMethod("paypal"))
	assert.Equal(t, "Cheque", normalizeMethod("check"))
	assert.Equal(t, "Credit Card", normalizeMethod(""))
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, model.PaymentStatusPaid, normalizeStatus("succeeded"))
	assert.Equal(t, model.PaymentStatusPaid, normalizeStatus("COMPLETED"))
	assert.Equal(t, model.PaymentStatusPending, normalizeStatus("processing"))
	assert.Equal(t, model.PaymentStatusFailed, normalizeStatus("canceled"))
	assert.Equal(t, model.PaymentStatusRefunded, normalizeStatus("refunded"))
	// Unrecognized statuses default to paid: staged exports predate the
	// status column and carry settled payments.
	assert.Equal(t, model.PaymentStatusPaid, normalizeStatus("weird"))
}

func TestNormalizeCardBrand(t *testing.T) {
	assert.Equal(t, "Visa", normalizeCardBrand("VISA"))
	assert.Equal(t, "American Express", normalizeCardBrand("amex"))
	assert.Equal(t, "Mastercard", normalizeCardBrand("master_card"))
	assert.Equal(t, "obscure", normalizeCardBrand("obscure"))
	assert.Equal(t, "", normalizeCardBrand(""))
}
