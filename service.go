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

	"github.com/lodgetix/reconcile/config"
	"github.com/lodgetix/reconcile/internal/apierror"
	"github.com/lodgetix/reconcile/model"
)

// InvoiceNumbers carries caller-supplied numbers for an invoice pair. Empty
// fields are derived: customer numbers are generated, supplier numbers come
// from prefix substitution on the customer number.
type InvoiceNumbers struct {
	CustomerInvoiceNumber string `json:"customer_invoice_number,omitempty"`
	SupplierInvoiceNumber string `json:"supplier_invoice_number,omitempty"`
}

// ValidationResult is the pre-flight report from ValidateInvoiceData.
// Warnings never fail validity on their own.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

func (l *Reconcile) generators() (generatorBase, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return generatorBase{}, err
	}
	return generatorBase{fees: l.fees, cnf: cnf}, nil
}

// GenerateCustomerInvoice synthesizes the customer invoice for a reconciled
// payment/registration pair. The generator is selected by registration kind.
func (l *Reconcile) GenerateCustomerInvoice(ctx context.Context, payment model.CanonicalPayment, registration *model.CanonicalRegistration, numbers InvoiceNumbers) (*model.Invoice, error) {
	if registration == nil {
		return nil, apierror.NewAPIError(apierror.ErrPrecondition,
			"customer invoice requires a registration", nil)
	}
	base, err := l.generators()
	if err != nil {
		return nil, err
	}
	processed := ProcessRegistration(registration)
	return base.generatorFor(registration.Kind).Generate(payment, processed, numbers.CustomerInvoiceNumber)
}

// GenerateSupplierInvoice derives the supplier invoice from an
// already-built customer invoice.
func (l *Reconcile) GenerateSupplierInvoice(ctx context.Context, customerInvoice *model.Invoice, payment model.CanonicalPayment, numbers InvoiceNumbers) (*model.Invoice, error) {
	base, err := l.generators()
	if err != nil {
		return nil, err
	}
	return base.deriveSupplierInvoice(customerInvoice, payment, numbers.SupplierInvoiceNumber)
}

// GenerateInvoicePair runs both generators, the supplier invoice strictly
// after — and derived from — the customer invoice.
func (l *Reconcile) GenerateInvoicePair(ctx context.Context, payment model.CanonicalPayment, registration *model.CanonicalRegistration, numbers InvoiceNumbers) (*model.Invoice, *model.Invoice, error) {
	customer, err := l.GenerateCustomerInvoice(ctx, payment, registration, numbers)
	if err != nil {
		return nil, nil, err
	}
	supplier, err := l.GenerateSupplierInvoice(ctx, customer, payment, numbers)
	if err != nil {
		return nil, nil, err
	}
	return customer, supplier, nil
}

// ValidateInvoiceData pre-flights a payment/registration pair before
// generation. A missing payment amount or date fails validity; a missing
// confirmation number is recommended-but-optional and only produces a
// warning. Findings are reported, never raised.
func (l *Reconcile) ValidateInvoiceData(payment model.CanonicalPayment, registration *model.CanonicalRegistration) ValidationResult {
	result := ValidationResult{IsValid: true, Errors: []string{}}

	if payment.GrossAmount == 0 && payment.NetAmount == 0 {
		result.Errors = append(result.Errors, "Payment amount is required")
	}
	if payment.Timestamp.IsZero() {
		result.Errors = append(result.Errors, "Payment date is required")
	}
	if registration == nil {
		result.Errors = append(result.Errors, "Registration is required")
	} else if registration.ConfirmationNumber == "" {
		result.Warnings = append(result.Warnings, "Confirmation number is recommended")
	}

	result.IsValid = len(result.Errors) == 0
	return result
}
