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
	"regexp"
	"strings"
	"time"

	"github.com/lodgetix/reconcile/internal/rawdoc"
	"github.com/lodgetix/reconcile/model"
)

// Accessor paths per logical payment field, in field-vintage order. Upstream
// importers have renamed these repeatedly; tolerating a new shape means
// adding a path here, not a branch.
var (
	paymentIDPaths     = []string{"id", "sourcePaymentId", "paymentId", "payment_id"}
	transactionIDPaths = []string{"transactionId", "transaction_id", "stripePaymentIntentId", "squarePaymentId", "rawData.id", "originalData.id", "_id"}
	grossAmountPaths   = []string{"grossAmount", "gross_amount", "amount"}
	netAmountPaths     = []string{"netAmount", "net_amount", "amount"}
	feeAmountPaths     = []string{"fees", "feeAmount", "fee_amount", "processingFees"}
	timestampPaths     = []string{"createdAt", "created_at", "paymentDate", "timestamp", "created"}
	customerEmailPaths = []string{"customerEmail", "customer_email", "customer.email", "billingDetails.email"}
	customerNamePaths  = []string{"customerName", "customer_name", "customer.name", "billingDetails.name"}
	methodPaths        = []string{"paymentMethod.type", "paymentMethod", "method", "payment_method"}
	cardBrandPaths     = []string{"paymentMethod.brand", "cardBrand", "brand", "rawData.cardBrand", "card.brand"}
	cardLast4Paths     = []string{"paymentMethod.last4", "last4", "cardLast4", "rawData.last4", "card.last4"}
	statusPaths        = []string{"status", "paymentStatus", "payment_status"}
	registrationHints  = []string{"metadata.registrationId", "metadata.registration_id", "registrationId", "registration_id"}
)

// methodMap maps lower-cased, underscore-collapsed method strings to their
// display synonym before title-casing.
var methodMap = map[string]string{
	"card":             "credit card",
	"card card":        "credit card",
	"credit card card": "credit card",
	"credit":           "credit card",
	"debit":            "debit card",
	"bank":             "bank transfer",
	"transfer":         "bank transfer",
	"check":            "cheque",
	"paypal":           "PayPal",
	"stripe":           "credit card",
	"square":           "credit card",
}

var cardBrandMap = map[string]string{
	"visa":            "Visa",
	"mastercard":      "Mastercard",
	"master":          "Mastercard",
	"amex":            "American Express",
	"americanexpress": "American Express",
	"discover":        "Discover",
	"diners":          "Diners Club",
	"dinersclub":      "Diners Club",
	"jcb":             "JCB",
	"unionpay":        "UnionPay",
}

var statusMap = map[string]string{
	"paid":       model.PaymentStatusPaid,
	"succeeded":  model.PaymentStatusPaid,
	"success":    model.PaymentStatusPaid,
	"complete":   model.PaymentStatusPaid,
	"completed":  model.PaymentStatusPaid,
	"pending":    model.PaymentStatusPending,
	"processing": model.PaymentStatusPending,
	"failed":     model.PaymentStatusFailed,
	"cancelled":  model.PaymentStatusFailed,
	"canceled":   model.PaymentStatusFailed,
	"refunded":   model.PaymentStatusRefunded,
}

// sourceHintRules map source-file substrings to a provider, tried in order.
var sourceHintRules = []struct {
	substring string
	source    string
}{
	{"stripe", model.SourceStripe},
	{"square", model.SourceSquare},
	{"paypal", model.SourcePayPal},
}

var squareIDPattern = regexp.MustCompile(`^[A-Z0-9]{32}$`)

// NormalizePayment maps a heterogeneous raw payment document into the
// canonical payment record. Missing optional fields degrade to safe
// defaults; this never returns an error.
func NormalizePayment(raw map[string]interface{}) model.CanonicalPayment {
	doc := rawdoc.Document(raw)

	payment := model.CanonicalPayment{
		PaymentID:        doc.GetString(paymentIDPaths...),
		TransactionID:    doc.GetString(transactionIDPaths...),
		GrossAmount:      doc.GetFloat(grossAmountPaths...),
		NetAmount:        doc.GetFloat(netAmountPaths...),
		FeeAmount:        doc.GetFloat(feeAmountPaths...),
		Currency:         doc.GetString("currency"),
		Timestamp:        doc.GetTime(timestampPaths...),
		CustomerEmail:    doc.GetString(customerEmailPaths...),
		CustomerName:     doc.GetString(customerNamePaths...),
		Method:           normalizeMethod(doc.GetString(methodPaths...)),
		CardBrand:        normalizeCardBrand(doc.GetString(cardBrandPaths...)),
		CardLast4:        doc.GetString(cardLast4Paths...),
		Status:           normalizeStatus(doc.GetString(statusPaths...)),
		RegistrationHint: doc.GetString(registrationHints...),
	}
	if payment.Currency == "" {
		payment.Currency = "AUD"
	}
	if payment.Timestamp.IsZero() {
		payment.Timestamp = time.Now()
	}
	if payment.FeeAmount == 0 && payment.GrossAmount > 0 && payment.NetAmount > 0 && payment.GrossAmount != payment.NetAmount {
		payment.FeeAmount = payment.GrossAmount - payment.NetAmount
	}
	payment.Source = detectSource(doc, payment)
	return payment
}

// detectSource resolves the payment's processor using, in priority order:
// the explicit source field, source-file hints, native-id lexical patterns,
// then processor-specific foreign-key fields.
func detectSource(doc rawdoc.Document, payment model.CanonicalPayment) string {
	if source := doc.GetString("source"); source != "" {
		return strings.ToLower(source)
	}

	if sourceFile := strings.ToLower(doc.GetString("sourceFile", "source_file")); sourceFile != "" {
		for _, rule := range sourceHintRules {
			if strings.Contains(sourceFile, rule.substring) {
				return rule.source
			}
		}
	}

	id := payment.Reference()
	if strings.HasPrefix(id, "pi_") || strings.HasPrefix(id, "ch_") {
		return model.SourceStripe
	}
	if squareIDPattern.MatchString(id) {
		return model.SourceSquare
	}

	if doc.GetString("stripePaymentIntentId", "stripeChargeId") != "" {
		return model.SourceStripe
	}
	if doc.GetString("squarePaymentId", "squareOrderId") != "" {
		return model.SourceSquare
	}

	return model.SourceUnknown
}

// normalizeMethod lower-cases, collapses underscores, applies the synonym
// table, then title-cases for display.
func normalizeMethod(method string) string {
	if method == "" {
		method = "credit_card"
	}
	method = strings.ToLower(strings.ReplaceAll(method, "_", " "))
	if mapped, ok := methodMap[method]; ok {
		method = mapped
	}
	return titleCase(method)
}

func normalizeCardBrand(brand string) string {
	if brand == "" {
		return ""
	}
	key := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, strings.ToLower(brand))
	if mapped, ok := cardBrandMap[key]; ok {
		return mapped
	}
	return brand
}

func normalizeStatus(status string) string {
	if status == "" {
		return model.PaymentStatusPaid
	}
	if mapped, ok := statusMap[strings.ToLower(status)]; ok {
		return mapped
	}
	return model.PaymentStatusPaid
}

// titleCase upper-cases the first letter of each space-separated word,
// leaving already-capitalized synonyms (PayPal) alone.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		if strings.ToLower(w) == w {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
