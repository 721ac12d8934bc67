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
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodgetix/reconcile/model"
)

func TestProcessRegistrationAssignsByOwnerID(t *testing.T) {
	processed := ProcessRegistration(individualsRegistration())

	require.Len(t, processed.Attendees, 1)
	attendee := processed.Attendees[0]
	assert.Equal(t, "Mr John Doe", attendee.DisplayName())
	assert.Equal(t, "Test Lodge 123", attendee.LodgeNameNumber)
	require.Len(t, attendee.Tickets, 1)
	assert.Equal(t, "Dinner Ticket", attendee.Tickets[0].Name)
	assert.Empty(t, processed.UnassignedTickets)
}

func TestProcessRegistrationLooseIDMatch(t *testing.T) {
	reg := &model.CanonicalRegistration{
		RegistrationID: "reg_1",
		Raw: map[string]interface{}{
			"attendees": []interface{}{
				map[string]interface{}{"attendeeId": "attendee-01998aa1", "firstName": "Ada", "lastName": "Byron"},
			},
			"selectedTickets": []interface{}{
				// Owner id carries only the short suffix of the attendee id.
				map[string]interface{}{"ticketId": "t1", "name": "Gala", "price": 80.0, "attendeeId": "01998aa1"},
			},
		},
	}

	processed := ProcessRegistration(reg)
	require.Len(t, processed.Attendees, 1)
	require.Len(t, processed.Attendees[0].Tickets, 1)
	assert.Empty(t, processed.UnassignedTickets)
}

func TestProcessRegistrationRegistrationOwnedTickets(t *testing.T) {
	reg := &model.CanonicalRegistration{
		RegistrationID: "reg_1",
		Raw: map[string]interface{}{
			"attendees": []interface{}{
				map[string]interface{}{"attendeeId": "a1", "firstName": "First", "lastName": "Person", "isPrimary": true},
				map[string]interface{}{"attendeeId": "a2", "firstName": "Second", "lastName": "Person"},
			},
			"selectedTickets": []interface{}{
				map[string]interface{}{"ticketId": "t1", "name": "Table Package", "price": 500.0, "ownerType": "registration"},
			},
		},
	}

	processed := ProcessRegistration(reg)
	// Registration-owned tickets land on the first attendee.
	require.Len(t, processed.Attendees[0].Tickets, 1)
	assert.Empty(t, processed.Attendees[1].Tickets)
	assert.Empty(t, processed.UnassignedTickets)
}

func TestProcessRegistrationRoundRobin(t *testing.T) {
	reg := &model.CanonicalRegistration{
		RegistrationID: "reg_1",
		Raw: map[string]interface{}{
			"attendees": []interface{}{
				map[string]interface{}{"attendeeId": "a1", "firstName": "One"},
				map[string]interface{}{"attendeeId": "a2", "firstName": "Two"},
			},
			"selectedTickets": []interface{}{
				map[string]interface{}{"ticketId": "t1", "name": "Dinner", "price": 50.0, "attendeeId": "nobody"},
				map[string]interface{}{"ticketId": "t2", "name": "Dinner", "price": 50.0, "attendeeId": "nobody"},
				map[string]interface{}{"ticketId": "t3", "name": "Dinner", "price": 50.0, "attendeeId": "nobody"},
			},
		},
	}

	processed := ProcessRegistration(reg)
	assert.Len(t, processed.Attendees[0].Tickets, 2)
	assert.Len(t, processed.Attendees[1].Tickets, 1)
	assert.Empty(t, processed.UnassignedTickets)
}

func TestProcessRegistrationNoAttendees(t *testing.T) {
	reg := &model.CanonicalRegistration{
		RegistrationID: "reg_1",
		Raw: map[string]interface{}{
			"selectedTickets": []interface{}{
				map[string]interface{}{"ticketId": "t1", "name": "Dinner", "price": 50.0},
			},
		},
	}

	processed := ProcessRegistration(reg)
	assert.Empty(t, processed.Attendees)
	require.Len(t, processed.UnassignedTickets, 1)
	assert.Equal(t, "Dinner", processed.UnassignedTickets[0].Name)
}

// With at least one attendee present, every ticket must end up in exactly
// one attendee's list regardless of how owner ids are mangled.
func TestTicketCoverageProperty(t *testing.T) {
	faker := gofakeit.New(7)

	for trial := 0; trial < 25; trial++ {
		attendeeCount := faker.Number(1, 6)
		ticketCount := faker.Number(0, 12)

		var attendees []interface{}
		for i := 0; i < attendeeCount; i++ {
			attendees = append(attendees, map[string]interface{}{
				"attendeeId": fmt.Sprintf("att_%d", i),
				"firstName":  faker.FirstName(),
				"lastName":   faker.LastName(),
			})
		}
		var tickets []interface{}
		for i := 0; i < ticketCount; i++ {
			owner := ""
			switch faker.Number(0, 2) {
			case 0:
				owner = fmt.Sprintf("att_%d", faker.Number(0, attendeeCount-1))
			case 1:
				owner = faker.UUID()
			}
			tickets = append(tickets, map[string]interface{}{
				"ticketId":   fmt.Sprintf("tkt_%d", i),
				"name":       faker.ProductName(),
				"price":      faker.Price(10, 500),
				"attendeeId": owner,
			})
		}

		processed := ProcessRegistration(&model.CanonicalRegistration{
			RegistrationID: fmt.Sprintf("reg_%d", trial),
			Raw: map[string]interface{}{
				"attendees":       attendees,
				"selectedTickets": tickets,
			},
		})

		assert.Empty(t, processed.UnassignedTickets, "trial %d left tickets unassigned", trial)
		assigned := 0
		for _, attendee := range processed.Attendees {
			assigned += len(attendee.Tickets)
		}
		assert.Equal(t, ticketCount, assigned, "trial %d lost or duplicated tickets", trial)
	}
}

func TestResolveBillingFromMetadata(t *testing.T) {
	reg := &model.CanonicalRegistration{
		Raw: map[string]interface{}{
			"metadata": map[string]interface{}{
				"billingDetails": map[string]interface{}{
					"firstName": "Grace",
					"lastName":  "Hopper",
					"email":     "grace@example.com",
					"city":      "Sydney",
				},
			},
			"registrationData": map[string]interface{}{
				"bookingContact": map[string]interface{}{
					"firstName": "Should",
					"lastName":  "Lose",
				},
			},
		},
	}

	billing := ProcessRegistration(reg).Billing
	assert.Equal(t, "Grace", billing.FirstName)
	assert.Equal(t, "grace@example.com", billing.Email)
	assert.Equal(t, "Sydney", billing.City)
	assert.Equal(t, "NSW", billing.StateProvince)
	assert.Equal(t, "Australia", billing.Country)
}

func TestResolveBillingFromBookingContact(t *testing.T) {
	reg := &model.CanonicalRegistration{
		Raw: map[string]interface{}{
			"bookingContact": map[string]interface{}{
				"name":  "Alan Mathison Turing",
				"email": "alan@example.com",
			},
		},
	}

	billing := ProcessRegistration(reg).Billing
	assert.Equal(t, "Alan", billing.FirstName)
	assert.Equal(t, "Mathison Turing", billing.LastName)
	assert.Equal(t, "alan@example.com", billing.Email)
}

func TestResolveBillingFallsBackToPrimaryAttendee(t *testing.T) {
	reg := &model.CanonicalRegistration{
		Raw: map[string]interface{}{
			"attendees": []interface{}{
				map[string]interface{}{"attendeeId": "a1", "firstName": "Secondary", "lastName": "Person"},
				map[string]interface{}{"attendeeId": "a2", "firstName": "Primary", "lastName": "Person", "isPrimary": true, "primaryEmail": "primary@example.com"},
			},
		},
	}

	billing := ProcessRegistration(reg).Billing
	assert.Equal(t, "Primary", billing.FirstName)
	assert.Equal(t, "primary@example.com", billing.Email)
}

func TestResolveBillingDefaults(t *testing.T) {
	billing := ProcessRegistration(&model.CanonicalRegistration{}).Billing
	assert.Equal(t, "Unknown", billing.FirstName)
	assert.Equal(t, "Customer", billing.LastName)
	assert.Equal(t, "no-email@lodgetix.io", billing.Email)
	assert.Equal(t, "NSW", billing.StateProvince)
	assert.Equal(t, "Australia", billing.Country)
}

func TestExtractLodgeInfo(t *testing.T) {
	reg := &model.CanonicalRegistration{
		Kind: model.RegistrationKindLodge,
		Raw: map[string]interface{}{
			"lodgeName":   "Harmony",
			"lodgeNumber": "42",
		},
	}
	processed := ProcessRegistration(reg)
	require.NotNil(t, processed.Lodge)
	assert.Equal(t, "Harmony", processed.Lodge.LodgeName)
	assert.Equal(t, "42", processed.Lodge.LodgeNumber)

	// Non-lodge kinds carry no lodge block.
	reg.Kind = model.RegistrationKindIndividuals
	assert.Nil(t, ProcessRegistration(reg).Lodge)
}
