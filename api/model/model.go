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

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MatchPayment is the request body for single-payment matching. The payment
// document is passed through the normalizer untouched, so any upstream shape
// the normalizer tolerates is accepted here.
type MatchPayment struct {
	Payment map[string]interface{} `json:"payment"`
	Analyze bool                   `json:"analyze"`
}

func (r *MatchPayment) ValidateMatchPayment() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Payment, validation.Required),
	)
}

// MatchBatch is the request body for batch matching. Each element is one raw
// payment document.
type MatchBatch struct {
	Payments []map[string]interface{} `json:"payments"`
}

func (r *MatchBatch) ValidateMatchBatch() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Payments, validation.Required, validation.Length(1, 0)),
	)
}

// StageRegistration is the request body for staging a raw registration
// document.
type StageRegistration struct {
	Registration map[string]interface{} `json:"registration"`
}

func (r *StageRegistration) ValidateStageRegistration() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Registration, validation.Required),
	)
}

func registrationOrIDValidation(g *GenerateInvoice) validation.RuleFunc {
	return func(value interface{}) error {
		if len(g.Registration) == 0 && g.RegistrationID == "" {
			return errors.New("either registration or registration_id is required")
		}
		return nil
	}
}

// GenerateInvoice is the request body for invoice synthesis. The
// registration arrives either inline as a raw document or as a
// registration_id resolved against the staging store.
type GenerateInvoice struct {
	Payment               map[string]interface{} `json:"payment"`
	Registration          map[string]interface{} `json:"registration"`
	RegistrationID        string                 `json:"registration_id"`
	CustomerInvoiceNumber string                 `json:"customer_invoice_number"`
	SupplierInvoiceNumber string                 `json:"supplier_invoice_number"`
}

func (g *GenerateInvoice) ValidateGenerateInvoice() error {
	return validation.ValidateStruct(g,
		validation.Field(&g.Payment, validation.Required),
		validation.Field(&g.RegistrationID, validation.By(registrationOrIDValidation(g))),
	)
}

// ValidateInvoice is the request body for the pre-flight validation
// endpoint. Shape checks are deliberately absent: the whole point of the
// endpoint is reporting on incomplete data.
type ValidateInvoice struct {
	Payment        map[string]interface{} `json:"payment"`
	Registration   map[string]interface{} `json:"registration"`
	RegistrationID string                 `json:"registration_id"`
}
