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

// Invoice types and statuses.
const (
	InvoiceTypeCustomer = "customer"
	InvoiceTypeSupplier = "supplier"

	InvoiceStatusPaid    = "paid"
	InvoiceStatusPending = "pending"
)

// InvoiceItem is a line item. Items nest exactly one level deep: a header or
// attendee line may carry SubItems (ticket lines), sub-items never do.
type InvoiceItem struct {
	Description string        `json:"description"`
	Quantity    int           `json:"quantity"`
	Price       float64       `json:"price"`
	Total       float64       `json:"total"`
	SubItems    []InvoiceItem `json:"subItems,omitempty"`
}

// BillTo is the customer block on an invoice.
type BillTo struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	BusinessName   string `json:"businessName,omitempty"`
	BusinessNumber string `json:"businessNumber,omitempty"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	AddressLine1   string `json:"addressLine1,omitempty"`
	City           string `json:"city,omitempty"`
	PostalCode     string `json:"postalCode,omitempty"`
	StateProvince  string `json:"stateProvince"`
	Country        string `json:"country"`
}

// Supplier is the supplier-of-record block on an invoice.
type Supplier struct {
	Name     string `json:"name"`
	ABN      string `json:"abn"`
	Address  string `json:"address"`
	IssuedBy string `json:"issuedBy"`
}

// InvoicePayment summarizes the payment an invoice settles.
type InvoicePayment struct {
	Method        string    `json:"method"`
	TransactionID string    `json:"transactionId"`
	PaidDate      time.Time `json:"paidDate"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Last4         string    `json:"last4,omitempty"`
	CardBrand     string    `json:"cardBrand,omitempty"`
	Status        string    `json:"status"`
	Source        string    `json:"source"`
}

// Invoice is the synthesized invoice document.
type Invoice struct {
	InvoiceID        string         `json:"invoiceId"`
	InvoiceNumber    string         `json:"invoiceNumber"`
	InvoiceType      string         `json:"invoiceType"`
	Date             time.Time      `json:"date"`
	DueDate          time.Time      `json:"dueDate"`
	Status           string         `json:"status"`
	BillTo           BillTo         `json:"billTo"`
	Supplier         Supplier       `json:"supplier"`
	Items            []InvoiceItem  `json:"items"`
	Subtotal         float64        `json:"subtotal"`
	ProcessingFees   float64        `json:"processingFees"`
	GSTIncluded      float64        `json:"gstIncluded"`
	Total            float64        `json:"total"`
	Payment          InvoicePayment `json:"payment"`
	RegistrationID   string         `json:"registrationId,omitempty"`
	PaymentID        string         `json:"paymentId,omitempty"`
	RelatedInvoiceID string         `json:"relatedInvoiceId,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}
