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

	"github.com/sirupsen/logrus"

	"github.com/lodgetix/reconcile/config"
	"github.com/lodgetix/reconcile/internal/rawdoc"
	"github.com/lodgetix/reconcile/model"
)

// Accessor paths for registration sub-documents, in field-vintage order.
var (
	attendeeListPaths   = []string{"registrationData.attendees", "attendees"}
	ticketListPaths     = []string{"registrationData.selectedTickets", "selectedTickets", "registrationData.tickets", "tickets"}
	bookingContactPaths = []string{"registrationData.bookingContact", "bookingContact"}
	billingMetaPaths    = []string{"metadata.billingDetails"}
)

// ProcessRegistration extracts attendees, tickets, billing details, and
// lodge info from a staged registration and assigns every ticket to an
// owner. It never fails on malformed input; absent fields degrade to
// defaults.
func ProcessRegistration(reg *model.CanonicalRegistration) model.ProcessedRegistration {
	doc := rawdoc.Document(reg.Raw)

	processed := model.ProcessedRegistration{
		CanonicalRegistration: *reg,
		Attendees:             extractAttendees(doc),
	}

	tickets := extractTickets(doc)
	processed.UnassignedTickets = assignTickets(processed.Attendees, tickets, reg.RegistrationID)
	processed.Billing = resolveBillingDetails(doc, processed.Attendees)
	processed.Lodge = extractLodgeInfo(doc, reg.Kind)
	return processed
}

func extractAttendees(doc rawdoc.Document) []model.ProcessedAttendee {
	list := doc.GetList(attendeeListPaths...)
	attendees := make([]model.ProcessedAttendee, 0, len(list))
	for i, a := range list {
		attendee := model.ProcessedAttendee{
			AttendeeID:      a.GetString("attendeeId", "_id"),
			Title:           a.GetString("title"),
			FirstName:       a.GetString("firstName"),
			LastName:        a.GetString("lastName"),
			LodgeNameNumber: attendeeLodgeDescriptor(a),
			Email:           a.GetString("primaryEmail", "email"),
			Phone:           a.GetString("primaryPhone", "phone", "phoneNumber"),
			IsPrimary:       a.GetBool("isPrimary"),
			Tickets:         []model.ProcessedTicket{},
		}
		if attendee.AttendeeID == "" {
			attendee.AttendeeID = fmt.Sprintf("attendee_%d", i)
		}
		// Positional placeholder when no name parts survive extraction.
		if attendee.DisplayName() == "" {
			if name := a.GetString("name"); name != "" {
				attendee.FirstName = name
			} else {
				attendee.FirstName = fmt.Sprintf("Attendee %d", i+1)
			}
		}
		attendees = append(attendees, attendee)
	}
	return attendees
}

// attendeeLodgeDescriptor builds the lodge descriptor from the membership
// block: the pre-joined nameNumber when present, else name + number.
func attendeeLodgeDescriptor(a rawdoc.Document) string {
	if nameNumber := a.GetString("membership.lodgeNameNumber"); nameNumber != "" {
		return nameNumber
	}
	name := a.GetString("membership.lodgeName")
	number := a.GetString("membership.lodgeNumber")
	if name != "" && number != "" {
		return name + " " + number
	}
	return name
}

func extractTickets(doc rawdoc.Document) []model.ProcessedTicket {
	list := doc.GetList(ticketListPaths...)
	tickets := make([]model.ProcessedTicket, 0, len(list))
	for i, t := range list {
		ticket := model.ProcessedTicket{
			TicketID:    t.GetString("ticketId", "_id"),
			Name:        t.GetString("name", "ticketName", "eventName"),
			Price:       t.GetFloat("price", "amount", "cost"),
			Quantity:    int(t.GetFloat("quantity")),
			OwnerKind:   t.GetString("ownerType"),
			OwnerID:     t.GetString("ownerId", "attendeeId"),
			Description: t.GetString("description"),
		}
		if ticket.TicketID == "" {
			ticket.TicketID = fmt.Sprintf("ticket_%d", i)
		}
		if ticket.Name == "" {
			ticket.Name = "Ticket"
		}
		if ticket.Quantity <= 0 {
			ticket.Quantity = 1
		}
		if ticket.OwnerKind == "" {
			if t.GetString("attendeeId") != "" {
				ticket.OwnerKind = model.OwnerKindAttendee
			} else {
				ticket.OwnerKind = model.OwnerKindRegistration
			}
		}
		tickets = append(tickets, ticket)
	}
	return tickets
}

// assignTickets runs the four ordered assignment strategies, each operating
// only on tickets the prior strategy left unresolved. With at least one
// attendee present every ticket ends up in exactly one attendee's list; the
// returned slice holds leftovers only for attendee-less registrations.
func assignTickets(attendees []model.ProcessedAttendee, tickets []model.ProcessedTicket, registrationID string) []model.ProcessedTicket {
	assigned := make(map[string]bool, len(tickets))

	attach := func(idx int, ticket model.ProcessedTicket) {
		attendees[idx].Tickets = append(attendees[idx].Tickets, ticket)
		assigned[ticket.TicketID] = true
	}

	// Strategy 1: exact owner-id match.
	for _, ticket := range tickets {
		if ticket.OwnerID == "" {
			continue
		}
		for i := range attendees {
			if attendees[i].AttendeeID == ticket.OwnerID {
				attach(i, ticket)
				break
			}
		}
	}

	// Strategy 2: loose match tolerating differing id representations.
	for _, ticket := range tickets {
		if assigned[ticket.TicketID] || ticket.OwnerID == "" {
			continue
		}
		for i := range attendees {
			id := attendees[i].AttendeeID
			if strings.HasSuffix(id, ticket.OwnerID) || strings.HasSuffix(ticket.OwnerID, id) {
				attach(i, ticket)
				break
			}
		}
	}

	// Strategy 3: registration-owned tickets go to the primary attendee.
	if len(attendees) > 0 {
		for _, ticket := range tickets {
			if assigned[ticket.TicketID] || ticket.OwnerKind != model.OwnerKindRegistration {
				continue
			}
			logrus.Infof("registration %s: assigning registration-owned ticket %s to primary attendee", registrationID, ticket.TicketID)
			attach(0, ticket)
		}
	}

	// Strategy 4: round-robin whatever remains.
	var unassigned []model.ProcessedTicket
	n := 0
	for _, ticket := range tickets {
		if assigned[ticket.TicketID] {
			continue
		}
		if len(attendees) == 0 {
			unassigned = append(unassigned, ticket)
			continue
		}
		attach(n%len(attendees), ticket)
		n++
	}
	return unassigned
}

// resolveBillingDetails runs the billing fallback chain: explicit billing
// metadata, booking contact, primary attendee, then registration-level flat
// fields. Required fields always come back populated.
func resolveBillingDetails(doc rawdoc.Document, attendees []model.ProcessedAttendee) model.BillingDetails {
	cnf, err := config.Fetch()
	fallbackEmail := "no-email@lodgetix.io"
	defaultState := "NSW"
	defaultCountry := "Australia"
	if err == nil {
		fallbackEmail = cnf.Invoice.FallbackEmail
		defaultState = cnf.Invoice.DefaultState
		defaultCountry = cnf.Invoice.DefaultCountry
	}

	var billing model.BillingDetails
	switch {
	case doc.GetDocument(billingMetaPaths...) != nil:
		billing = billingFromDocument(doc.GetDocument(billingMetaPaths...))
	case doc.GetDocument(bookingContactPaths...) != nil:
		billing = billingFromDocument(doc.GetDocument(bookingContactPaths...))
	case len(attendees) > 0:
		billing = billingFromAttendee(primaryOf(attendees), doc)
	default:
		billing = billingFromRegistration(doc)
	}

	if billing.FirstName == "" {
		billing.FirstName = "Unknown"
	}
	if billing.LastName == "" {
		billing.LastName = "Customer"
	}
	if billing.Email == "" {
		billing.Email = fallbackEmail
	}
	if billing.StateProvince == "" {
		billing.StateProvince = defaultState
	}
	if billing.Country == "" {
		billing.Country = defaultCountry
	}
	return billing
}

func billingFromDocument(d rawdoc.Document) model.BillingDetails {
	billing := model.BillingDetails{
		FirstName:     d.GetString("firstName"),
		LastName:      d.GetString("lastName"),
		BusinessName:  d.GetString("businessName", "company", "organisation"),
		Email:         d.GetString("email", "emailAddress"),
		Phone:         d.GetString("phone", "phoneNumber", "mobileNumber", "mobile"),
		AddressLine1:  d.GetString("addressLine1", "address.line1", "address"),
		City:          d.GetString("city", "address.city"),
		PostalCode:    d.GetString("postalCode", "postcode", "address.postalCode"),
		StateProvince: d.GetString("stateProvince", "state", "address.state"),
		Country:       d.GetString("country", "address.country"),
	}
	// Split a single name field when no structured parts exist.
	if billing.FirstName == "" && billing.LastName == "" {
		if name := strings.TrimSpace(d.GetString("name")); name != "" {
			parts := strings.SplitN(name, " ", 2)
			billing.FirstName = parts[0]
			if len(parts) > 1 {
				billing.LastName = parts[1]
			}
		}
	}
	return billing
}

func primaryOf(attendees []model.ProcessedAttendee) model.ProcessedAttendee {
	for _, a := range attendees {
		if a.IsPrimary {
			return a
		}
	}
	return attendees[0]
}

func billingFromAttendee(a model.ProcessedAttendee, doc rawdoc.Document) model.BillingDetails {
	email := a.Email
	if email == "" {
		email = doc.GetString("customerEmail")
	}
	return model.BillingDetails{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     email,
		Phone:     a.Phone,
	}
}

func billingFromRegistration(doc rawdoc.Document) model.BillingDetails {
	billing := model.BillingDetails{
		BusinessName:  doc.GetString("businessName", "organisation.name"),
		Email:         doc.GetString("customerEmail"),
		Phone:         doc.GetString("phone", "phoneNumber"),
		AddressLine1:  doc.GetString("addressLine1"),
		City:          doc.GetString("city"),
		PostalCode:    doc.GetString("postalCode"),
		StateProvince: doc.GetString("stateProvince"),
		Country:       doc.GetString("country"),
	}
	if name := strings.TrimSpace(doc.GetString("customerName")); name != "" {
		parts := strings.SplitN(name, " ", 2)
		billing.FirstName = parts[0]
		if len(parts) > 1 {
			billing.LastName = parts[1]
		}
	}
	return billing
}

// extractLodgeInfo returns the lodge block for lodge/delegation
// registrations, nil otherwise.
func extractLodgeInfo(doc rawdoc.Document, kind string) *model.LodgeInfo {
	k := strings.ToLower(kind)
	if !strings.Contains(k, "lodge") && !strings.Contains(k, "delegation") {
		return nil
	}
	return &model.LodgeInfo{
		LodgeID:         doc.GetString("lodgeId", "registrationData.lodge.id"),
		LodgeName:       doc.GetString("lodgeName", "registrationData.lodge.name", "lodge.name"),
		LodgeNumber:     doc.GetString("lodgeNumber", "registrationData.lodge.number", "lodge.number"),
		LodgeNameNumber: doc.GetString("lodgeNameNumber", "registrationData.lodge.nameNumber"),
	}
}
