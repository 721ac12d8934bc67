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
	"github.com/lodgetix/reconcile/model"
)

// individualsGenerator renders the per-attendee invoice layout: a header
// line, one line per attendee with their tickets as sub-items, and a
// trailing section for tickets no attendee owns.
type individualsGenerator struct {
	generatorBase
}

func (g individualsGenerator) Generate(payment model.CanonicalPayment, registration model.ProcessedRegistration, invoiceNumber string) (*model.Invoice, error) {
	invoice := g.newInvoice(payment, registration, invoiceNumber)
	invoice.BillTo = billTo(registration.Billing)

	builder := NewLineItemBuilder().
		AddHeader(headerLine(registration, "Individuals")).
		AddAttendees(registration.Attendees).
		AddUnassignedTickets(registration.UnassignedTickets)

	invoice.Items = builder.Build()
	g.applyTotals(invoice, payment, builder.Subtotal())
	return invoice, nil
}
