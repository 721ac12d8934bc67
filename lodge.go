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

	"github.com/lodgetix/reconcile/model"
)

// lodgeGenerator renders the grouped layout used for lodge and delegation
// registrations: tickets from every attendee and the lodge itself are
// consolidated by (name, price), one line per group with the holders'
// names parenthesized, instead of one line per attendee.
type lodgeGenerator struct {
	generatorBase
}

type ticketGroup struct {
	name      string
	price     float64
	quantity  int
	attendees []string
}

func (g lodgeGenerator) Generate(payment model.CanonicalPayment, registration model.ProcessedRegistration, invoiceNumber string) (*model.Invoice, error) {
	invoice := g.newInvoice(payment, registration, invoiceNumber)
	invoice.BillTo = billTo(registration.Billing)

	party := registration.ConfirmationNumber
	if registration.Lodge != nil {
		switch {
		case registration.Lodge.LodgeNameNumber != "":
			party = registration.Lodge.LodgeNameNumber
		case registration.Lodge.LodgeName != "":
			party = registration.Lodge.LodgeName
		}
	}
	if registration.Lodge == nil || party == registration.ConfirmationNumber {
		if registration.Billing.BusinessName != "" {
			party = registration.Billing.BusinessName
		}
	}

	builder := NewLineItemBuilder().AddHeader(headerLine(registration, party))
	for _, group := range groupTickets(registration) {
		description := group.name
		if len(group.attendees) > 0 {
			description = fmt.Sprintf("%s (%s)", group.name, strings.Join(group.attendees, ", "))
		}
		builder.AddLineItem(description, group.quantity, group.price)
	}

	invoice.Items = builder.Build()
	g.applyTotals(invoice, payment, builder.Subtotal())
	return invoice, nil
}

// groupTickets consolidates every ticket on the registration by
// (name, price), preserving first-seen order.
func groupTickets(registration model.ProcessedRegistration) []*ticketGroup {
	var order []*ticketGroup
	index := map[string]*ticketGroup{}

	add := func(ticket model.ProcessedTicket, holder string) {
		key := fmt.Sprintf("%s|%.2f", ticket.Name, ticket.Price)
		group, ok := index[key]
		if !ok {
			group = &ticketGroup{name: ticket.Name, price: ticket.Price}
			index[key] = group
			order = append(order, group)
		}
		group.quantity += ticket.Quantity
		if holder != "" {
			group.attendees = append(group.attendees, holder)
		}
	}

	for _, attendee := range registration.Attendees {
		for _, ticket := range attendee.Tickets {
			add(ticket, attendee.DisplayName())
		}
	}
	for _, ticket := range registration.UnassignedTickets {
		add(ticket, "")
	}
	return order
}
