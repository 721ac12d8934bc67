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

// Payment source tags. SourceUnknown is a valid value: payments from
// unrecognized processors still flow through matching and invoicing.
const (
	SourceStripe  = "stripe"
	SourceSquare  = "square"
	SourcePayPal  = "paypal"
	SourceUnknown = "unknown"
)

// Payment status values after normalization.
const (
	PaymentStatusPaid     = "paid"
	PaymentStatusPending  = "pending"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// CanonicalPayment is the processor-agnostic payment fact. It is built once
// per raw payment document by the payment normalizer and never mutated after.
type CanonicalPayment struct {
	PaymentID     string    `json:"payment_id"`
	TransactionID string    `json:"transaction_id"`
	GrossAmount   float64   `json:"gross_amount"`
	NetAmount     float64   `json:"net_amount"`
	FeeAmount     float64   `json:"fee_amount"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
	Method        string    `json:"method"`
	CardBrand     string    `json:"card_brand"`
	CardLast4     string    `json:"card_last4"`
	Status        string    `json:"status"`
	Source        string    `json:"source"`
	// RegistrationHint carries an explicit registration id found in the
	// payment's metadata payload, when the processor recorded one.
	RegistrationHint string `json:"registration_hint,omitempty"`
}

// Amount returns the amount used for matching and invoice totals: the gross
// amount (inclusive of processor fees) when present, else the net amount.
func (p CanonicalPayment) Amount() float64 {
	if p.GrossAmount != 0 {
		return p.GrossAmount
	}
	return p.NetAmount
}

// Reference returns the identifier used for payment-reference lookups,
// preferring the native payment id over the transaction id.
func (p CanonicalPayment) Reference() string {
	if p.PaymentID != "" {
		return p.PaymentID
	}
	return p.TransactionID
}
