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

// Registration kinds. The kind drives which invoice generator renders the
// registration: lodge and delegation registrations share the grouped layout,
// everything else falls back to individuals.
const (
	RegistrationKindIndividuals = "individuals"
	RegistrationKindLodge       = "lodge"
	RegistrationKindDelegation  = "delegation"
)

// Ticket owner kinds.
const (
	OwnerKindAttendee     = "attendee"
	OwnerKindRegistration = "registration"
)

// CanonicalRegistration is the uniform registration view used by the matcher.
// The payment-reference fields mirror every historical column the staging
// store has carried for the same fact; lookups consult all of them.
type CanonicalRegistration struct {
	RegistrationID     string    `json:"registration_id"`
	ConfirmationNumber string    `json:"confirmation_number"`
	Kind               string    `json:"kind"`
	FunctionName       string    `json:"function_name"`
	TotalAmount        float64   `json:"total_amount"`
	CreatedAt          time.Time `json:"created_at"`

	// Payment references, most recent naming first.
	StripePaymentIntentID string `json:"stripe_payment_intent_id,omitempty"`
	SquarePaymentID       string `json:"square_payment_id,omitempty"`
	PaymentIntentID       string `json:"payment_intent_id,omitempty"`
	TransactionID         string `json:"transaction_id,omitempty"`

	// Raw carries the staged source document for accessor-path lookups the
	// canonical fields do not cover (metadata, booking contact, attendees).
	Raw map[string]interface{} `json:"raw,omitempty"`
}

// PaymentReferences returns every non-empty payment reference carried by the
// registration, in field-vintage order.
func (r CanonicalRegistration) PaymentReferences() []string {
	refs := make([]string, 0, 4)
	for _, ref := range []string{r.StripePaymentIntentID, r.SquarePaymentID, r.PaymentIntentID, r.TransactionID} {
		if ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

// HasPaymentReference reports whether any reference field equals ref.
func (r CanonicalRegistration) HasPaymentReference(ref string) bool {
	if ref == "" {
		return false
	}
	for _, candidate := range r.PaymentReferences() {
		if candidate == ref {
			return true
		}
	}
	return false
}

// ProcessedTicket is a ticket after extraction and owner resolution.
type ProcessedTicket struct {
	TicketID    string  `json:"ticket_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	OwnerKind   string  `json:"owner_kind"`
	OwnerID     string  `json:"owner_id"`
	Description string  `json:"description,omitempty"`
}

// ProcessedAttendee is an attendee with their assigned tickets.
type ProcessedAttendee struct {
	AttendeeID      string            `json:"attendee_id"`
	Title           string            `json:"title,omitempty"`
	FirstName       string            `json:"first_name"`
	LastName        string            `json:"last_name"`
	LodgeNameNumber string            `json:"lodge_name_number,omitempty"`
	Email           string            `json:"email,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	IsPrimary       bool              `json:"is_primary"`
	Tickets         []ProcessedTicket `json:"tickets"`
}

// DisplayName renders "<title> <first> <last>" with empty parts skipped.
func (a ProcessedAttendee) DisplayName() string {
	name := ""
	for _, part := range []string{a.Title, a.FirstName, a.LastName} {
		if part == "" {
			continue
		}
		if name != "" {
			name += " "
		}
		name += part
	}
	return name
}

// BillingDetails is the resolved bill-to contact for a registration, after
// the fallback chain (explicit billing details, booking contact, primary
// attendee, registration fields) has run.
type BillingDetails struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	BusinessName  string `json:"business_name,omitempty"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	AddressLine1  string `json:"address_line1,omitempty"`
	City          string `json:"city,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	StateProvince string `json:"state_province"`
	Country       string `json:"country"`
}

// LodgeInfo describes the lodge attached to a lodge/delegation registration.
type LodgeInfo struct {
	LodgeID         string `json:"lodge_id,omitempty"`
	LodgeName       string `json:"lodge_name"`
	LodgeNumber     string `json:"lodge_number,omitempty"`
	LodgeNameNumber string `json:"lodge_name_number,omitempty"`
}

// ProcessedRegistration is the fully-extracted registration used by the
// invoice generators: attendees with assigned tickets, resolved billing
// details, and any tickets no assignment strategy could place.
type ProcessedRegistration struct {
	CanonicalRegistration
	Attendees         []ProcessedAttendee `json:"attendees"`
	UnassignedTickets []ProcessedTicket   `json:"unassigned_tickets,omitempty"`
	Billing           BillingDetails      `json:"billing"`
	Lodge             *LodgeInfo          `json:"lodge,omitempty"`
}

// PrimaryAttendee returns the attendee flagged primary, or the first
// attendee when none is flagged. Returns nil for attendee-less registrations.
func (r ProcessedRegistration) PrimaryAttendee() *ProcessedAttendee {
	for i := range r.Attendees {
		if r.Attendees[i].IsPrimary {
			return &r.Attendees[i]
		}
	}
	if len(r.Attendees) > 0 {
		return &r.Attendees[0]
	}
	return nil
}
