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

	"github.com/lodgetix/reconcile/internal/money"
	"github.com/lodgetix/reconcile/model"
)

// LineItemBuilder accumulates hierarchical invoice line items: header,
// attendee lines with ticket sub-items, fee lines. It is stateful only
// within one invoice's construction and must be built fresh per invoice.
type LineItemBuilder struct {
	items []model.InvoiceItem
}

// NewLineItemBuilder returns an empty builder.
func NewLineItemBuilder() *LineItemBuilder {
	return &LineItemBuilder{}
}

// AddHeader appends a section caption. Header lines always carry quantity 0
// and price 0.
func (b *LineItemBuilder) AddHeader(description string) *LineItemBuilder {
	b.items = append(b.items, model.InvoiceItem{Description: description})
	return b
}

// AddAttendees appends one line per attendee, the attendee's tickets nested
// as sub-items. The attendee line itself carries no price; sub-item
// descriptions get the two-space-plus-dash indent marker for rendering.
func (b *LineItemBuilder) AddAttendees(attendees []model.ProcessedAttendee) *LineItemBuilder {
	for _, attendee := range attendees {
		description := attendee.DisplayName()
		if attendee.LodgeNameNumber != "" {
			description = fmt.Sprintf("%s | %s", description, attendee.LodgeNameNumber)
		}
		line := model.InvoiceItem{Description: description}
		for _, ticket := range attendee.Tickets {
			line.SubItems = append(line.SubItems, ticketItem(ticket))
		}
		b.items = append(b.items, line)
	}
	return b
}

// AddLineItem appends a priced line.
func (b *LineItemBuilder) AddLineItem(description string, quantity int, price float64) *LineItemBuilder {
	b.items = append(b.items, model.InvoiceItem{
		Description: description,
		Quantity:    quantity,
		Price:       price,
		Total:       money.Round2(float64(quantity) * price),
	})
	return b
}

// AddUnassignedTickets appends a section for tickets no assignment strategy
// could place. No-op when the list is empty.
func (b *LineItemBuilder) AddUnassignedTickets(tickets []model.ProcessedTicket) *LineItemBuilder {
	if len(tickets) == 0 {
		return b
	}
	section := model.InvoiceItem{Description: "Additional Tickets"}
	for _, ticket := range tickets {
		section.SubItems = append(section.SubItems, ticketItem(ticket))
	}
	b.items = append(b.items, section)
	return b
}

// AddProcessingFeesReimbursement appends the supplier invoice's processing
// fee reimbursement line.
func (b *LineItemBuilder) AddProcessingFeesReimbursement(amount float64) *LineItemBuilder {
	return b.AddLineItem("Processing Fees Reimbursement", 1, money.Round2(amount))
}

// AddSoftwareUtilizationFee appends the supplier invoice's platform fee line.
func (b *LineItemBuilder) AddSoftwareUtilizationFee(amount float64) *LineItemBuilder {
	return b.AddLineItem("Software Utilization Fee", 1, money.Round2(amount))
}

// Subtotal sums every top-level item's total plus every sub-item's total.
// This is the authoritative subtotal in forward-fee mode.
func (b *LineItemBuilder) Subtotal() float64 {
	var subtotal float64
	for _, item := range b.items {
		subtotal += item.Total
		for _, sub := range item.SubItems {
			subtotal += sub.Total
		}
	}
	return money.Round2(subtotal)
}

// Build returns the accumulated items.
func (b *LineItemBuilder) Build() []model.InvoiceItem {
	return b.items
}

func ticketItem(ticket model.ProcessedTicket) model.InvoiceItem {
	return model.InvoiceItem{
		Description: fmt.Sprintf("  - %s", ticket.Name),
		Quantity:    ticket.Quantity,
		Price:       ticket.Price,
		Total:       money.Round2(float64(ticket.Quantity) * ticket.Price),
	}
}
