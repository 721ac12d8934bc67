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
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lodgetix/reconcile/config"
	"github.com/lodgetix/reconcile/internal/fees"
	"github.com/lodgetix/reconcile/internal/money"
	"github.com/lodgetix/reconcile/model"
)

// invoiceGenerator renders a customer invoice for one registration kind.
type invoiceGenerator interface {
	Generate(payment model.CanonicalPayment, registration model.ProcessedRegistration, invoiceNumber string) (*model.Invoice, error)
}

// generatorBase carries what every generator needs: the fee table and the
// invoice identities from configuration.
type generatorBase struct {
	fees *fees.Calculator
	cnf  *config.Configuration
}

// generatorFor selects the generator by registration kind: the lower-cased
// kind is substring-matched against "lodge" and "delegation"; anything else
// renders as individuals. The permissive default is deliberate.
func (g generatorBase) generatorFor(kind string) invoiceGenerator {
	k := strings.ToLower(kind)
	if strings.Contains(k, "lodge") || strings.Contains(k, "delegation") {
		return lodgeGenerator{g}
	}
	if k != "" && !strings.Contains(k, "individual") {
		logrus.Infof("unrecognized registration kind %q, rendering as individuals", kind)
	}
	return individualsGenerator{g}
}

// newInvoice builds the document skeleton shared by every customer
// generator: identifiers, dates, supplier of record, payment snapshot.
func (g generatorBase) newInvoice(payment model.CanonicalPayment, registration model.ProcessedRegistration, invoiceNumber string) *model.Invoice {
	if invoiceNumber == "" {
		invoiceNumber = g.nextInvoiceNumber(g.cnf.Invoice.CustomerPrefix, payment.Timestamp)
	}
	date := payment.Timestamp
	if date.IsZero() {
		date = time.Now()
	}
	organizer := g.cnf.Invoice.Organizer
	return &model.Invoice{
		InvoiceID:      model.GenerateUUIDWithSuffix("inv"),
		InvoiceNumber:  invoiceNumber,
		InvoiceType:    model.InvoiceTypeCustomer,
		Date:           date,
		DueDate:        date,
		Status:         invoiceStatus(payment.Status),
		RegistrationID: registration.RegistrationID,
		PaymentID:      payment.Reference(),
		Supplier: model.Supplier{
			Name:     organizer.Name,
			ABN:      organizer.ABN,
			Address:  organizer.Address,
			IssuedBy: organizer.IssuedBy,
		},
		Payment:   paymentSnapshot(payment),
		CreatedAt: time.Now(),
	}
}

// nextInvoiceNumber derives a fresh invoice number: prefix, YYMM of the
// payment date, and a short random suffix. Sequential numbering belongs to
// the external orchestrator; generated numbers only need uniqueness.
func (g generatorBase) nextInvoiceNumber(prefix string, at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s%s-%s", prefix, at.Format("0601"), suffix)
}

// headerLine renders the invoice caption: confirmation, party, function.
func headerLine(registration model.ProcessedRegistration, party string) string {
	function := registration.FunctionName
	if function == "" && registration.Raw != nil {
		if name, ok := registration.Raw["functionName"].(string); ok {
			function = name
		}
	}
	return fmt.Sprintf("%s | %s for %s", registration.ConfirmationNumber, party, function)
}

// applyTotals fills the invoice's monetary summary. Reverse mode engages
// when the payment's gross amount exceeds the itemized subtotal — the
// payment carries more information than the itemization — solving the fee
// equation backwards so the total always reconciles to the amount actually
// paid. Otherwise fees are computed forward from the item subtotal.
func (g generatorBase) applyTotals(invoice *model.Invoice, payment model.CanonicalPayment, itemSubtotal float64) {
	paid := money.Round2(payment.Amount())
	if paid > itemSubtotal {
		invoice.Total = paid
		invoice.Subtotal = g.fees.ReverseSubtotal(paid, payment.Source)
		invoice.ProcessingFees = money.Round2(paid - invoice.Subtotal)
	} else {
		invoice.Subtotal = itemSubtotal
		invoice.ProcessingFees = g.fees.ProcessingFee(itemSubtotal, payment.Source)
		invoice.Total = money.Round2(itemSubtotal + invoice.ProcessingFees)
	}
	invoice.GSTIncluded = g.fees.GSTFromInclusive(invoice.Total)
}

func billTo(billing model.BillingDetails) model.BillTo {
	return model.BillTo{
		FirstName:     billing.FirstName,
		LastName:      billing.LastName,
		BusinessName:  billing.BusinessName,
		Email:         billing.Email,
		Phone:         billing.Phone,
		AddressLine1:  billing.AddressLine1,
		City:          billing.City,
		PostalCode:    billing.PostalCode,
		StateProvince: billing.StateProvince,
		Country:       billing.Country,
	}
}

func paymentSnapshot(payment model.CanonicalPayment) model.InvoicePayment {
	return model.InvoicePayment{
		Method:        payment.Method,
		TransactionID: payment.Reference(),
		PaidDate:      payment.Timestamp,
		Amount:        money.Round2(payment.Amount()),
		Currency:      payment.Currency,
		Last4:         payment.CardLast4,
		CardBrand:     payment.CardBrand,
		Status:        payment.Status,
		Source:        payment.Source,
	}
}

// invoiceStatus maps a payment status to the customer invoice status.
func invoiceStatus(paymentStatus string) string {
	if paymentStatus == model.PaymentStatusPaid {
		return model.InvoiceStatusPaid
	}
	return model.InvoiceStatusPending
}
