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
	"strings"
	"time"

	"github.com/lodgetix/reconcile/internal/apierror"
	"github.com/lodgetix/reconcile/internal/money"
	"github.com/lodgetix/reconcile/model"
)

// deriveSupplierInvoice transforms a built customer invoice into the
// supplier invoice billing the organizing body for platform fees. The
// customer invoice is a hard precondition: requesting the transform without
// one is an orchestration bug, not data variance.
func (g generatorBase) deriveSupplierInvoice(customer *model.Invoice, payment model.CanonicalPayment, invoiceNumber string) (*model.Invoice, error) {
	if customer == nil {
		return nil, apierror.NewAPIError(apierror.ErrPrecondition,
			"supplier invoice requires a customer invoice", nil)
	}

	if invoiceNumber == "" {
		invoiceNumber = supplierNumberFrom(customer.InvoiceNumber,
			g.cnf.Invoice.CustomerPrefix, g.cnf.Invoice.SupplierPrefix)
	}

	platform := g.cnf.Platform(payment.Source)
	organizer := g.cnf.Invoice.Organizer

	softwareFee := g.fees.SoftwareUtilizationFee(customer.Total, payment.Source)
	builder := NewLineItemBuilder().
		AddProcessingFeesReimbursement(customer.ProcessingFees).
		AddSoftwareUtilizationFee(softwareFee)
	subtotal := builder.Subtotal()

	snapshot := paymentSnapshot(payment)
	snapshot.Status = model.PaymentStatusPending

	return &model.Invoice{
		InvoiceID:     model.GenerateUUIDWithSuffix("inv"),
		InvoiceNumber: invoiceNumber,
		InvoiceType:   model.InvoiceTypeSupplier,
		Date:          customer.Date,
		DueDate:       customer.DueDate,
		Status:        model.InvoiceStatusPending,
		BillTo: model.BillTo{
			BusinessName:   organizer.Name,
			BusinessNumber: organizer.ABN,
			Email:          customer.BillTo.Email,
			AddressLine1:   organizer.Address,
			StateProvince:  g.cnf.Invoice.DefaultState,
			Country:        g.cnf.Invoice.DefaultCountry,
		},
		Supplier: model.Supplier{
			Name:     platform.Name,
			ABN:      platform.ABN,
			Address:  platform.Address,
			IssuedBy: platform.IssuedBy,
		},
		Items:            builder.Build(),
		Subtotal:         subtotal,
		ProcessingFees:   0,
		GSTIncluded:      money.GSTFromInclusive(subtotal),
		Total:            subtotal,
		Payment:          snapshot,
		RegistrationID:   customer.RegistrationID,
		PaymentID:        customer.PaymentID,
		RelatedInvoiceID: customer.InvoiceNumber,
		CreatedAt:        time.Now(),
	}, nil
}

// supplierNumberFrom derives the supplier invoice number by prefix
// substitution on the customer number, falling back to appending the
// supplier prefix when the customer number does not carry the expected one.
func supplierNumberFrom(customerNumber, customerPrefix, supplierPrefix string) string {
	if strings.HasPrefix(customerNumber, customerPrefix) {
		return supplierPrefix + strings.TrimPrefix(customerNumber, customerPrefix)
	}
	return supplierPrefix + customerNumber
}
