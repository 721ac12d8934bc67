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

	"github.com/lodgetix/reconcile/internal/apierror"
	"github.com/lodgetix/reconcile/internal/rawdoc"
	"github.com/lodgetix/reconcile/model"
)

// Accessor paths for the canonical registration fields, in field-vintage
// order.
var (
	registrationIDPaths   = []string{"registrationId", "registration_id", "_id", "id"}
	confirmationPaths     = []string{"confirmationNumber", "confirmation_number"}
	registrationKindPaths = []string{"registrationType", "registration_type", "type"}
	totalAmountPaths      = []string{"totalAmountPaid", "totalPricePaid", "total_amount", "totalAmount"}
	registrationTimePaths = []string{"createdAt", "created_at", "registrationDate", "registration_date"}
	functionNamePaths     = []string{"functionName", "function_name", "eventName", "event_name"}
)

// NormalizeRegistration maps a heterogeneous staged registration document
// into the canonical registration record, keeping the raw payload attached
// for the extraction the invoice generators do later. Never errors; absent
// fields stay zero-valued.
func NormalizeRegistration(raw map[string]interface{}) model.CanonicalRegistration {
	doc := rawdoc.Document(raw)
	return model.CanonicalRegistration{
		RegistrationID:        doc.GetString(registrationIDPaths...),
		ConfirmationNumber:    doc.GetString(confirmationPaths...),
		Kind:                  doc.GetString(registrationKindPaths...),
		FunctionName:          doc.GetString(functionNamePaths...),
		TotalAmount:           doc.GetFloat(totalAmountPaths...),
		CreatedAt:             doc.GetTime(registrationTimePaths...),
		StripePaymentIntentID: doc.GetString("stripePaymentIntentId", "stripe_payment_intent_id"),
		SquarePaymentID:       doc.GetString("squarePaymentId", "square_payment_id"),
		PaymentIntentID:       doc.GetString("paymentIntentId", "payment_intent_id"),
		TransactionID:         doc.GetString("transactionId", "transaction_id"),
		Raw:                   raw,
	}
}

// StageRegistration normalizes and stores a raw registration document so the
// matcher can find it. A document without any usable registration id is
// rejected; everything else is absorbed as-is.
func (l *Reconcile) StageRegistration(ctx context.Context, raw map[string]interface{}) (*model.CanonicalRegistration, error) {
	registration := NormalizeRegistration(raw)
	if registration.RegistrationID == "" {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest,
			"registration document carries no registration id", nil)
	}
	if err := l.datasource.RecordRegistration(ctx, &registration); err != nil {
		return nil, err
	}
	return &registration, nil
}

// GetRegistration fetches a staged registration by registration id or
// confirmation number. Returns nil without error when absent.
func (l *Reconcile) GetRegistration(ctx context.Context, id string) (*model.CanonicalRegistration, error) {
	return l.datasource.GetRegistration(ctx, id)
}

// GetMatchRun fetches a recorded batch run. Returns nil without error when
// absent.
func (l *Reconcile) GetMatchRun(ctx context.Context, id string) (*model.MatchRun, error) {
	return l.datasource.GetMatchRun(ctx, id)
}
