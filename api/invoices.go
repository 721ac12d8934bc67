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
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lodgetix/reconcile"
	model2 "github.com/lodgetix/reconcile/api/model"
	"github.com/lodgetix/reconcile/internal/apierror"
	"github.com/lodgetix/reconcile/model"
)

// resolveRegistration materializes the request's registration: the inline
// document when present, otherwise a staging-store lookup by id. Writes the
// error response itself and reports success through the second return.
func (a Api) resolveRegistration(c *gin.Context, inline map[string]interface{}, id string) (*model.CanonicalRegistration, bool) {
	if len(inline) > 0 {
		registration := reconcile.NormalizeRegistration(inline)
		return &registration, true
	}
	if id == "" {
		return nil, true
	}

	registration, err := a.engine.GetRegistration(c.Request.Context(), id)
	if err != nil {
		logrus.Error(err)
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return nil, false
	}
	if registration == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "registration not found"})
		return nil, false
	}
	return registration, true
}

// GenerateCustomerInvoice synthesizes the customer invoice for a
// payment/registration pair.
func (a Api) GenerateCustomerInvoice(c *gin.Context) {
	var req model2.GenerateInvoice
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateGenerateInvoice(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	registration, ok := a.resolveRegistration(c, req.Registration, req.RegistrationID)
	if !ok {
		return
	}

	invoice, err := a.engine.GenerateCustomerInvoice(c.Request.Context(),
		reconcile.NormalizePayment(req.Payment), registration,
		reconcile.InvoiceNumbers{CustomerInvoiceNumber: req.CustomerInvoiceNumber})
	if err != nil {
		logrus.Error(err)
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// GenerateInvoicePair synthesizes the customer invoice and its derived
// supplier invoice in one call.
func (a Api) GenerateInvoicePair(c *gin.Context) {
	var req model2.GenerateInvoice
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateGenerateInvoice(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	registration, ok := a.resolveRegistration(c, req.Registration, req.RegistrationID)
	if !ok {
		return
	}

	customer, supplier, err := a.engine.GenerateInvoicePair(c.Request.Context(),
		reconcile.NormalizePayment(req.Payment), registration,
		reconcile.InvoiceNumbers{
			CustomerInvoiceNumber: req.CustomerInvoiceNumber,
			SupplierInvoiceNumber: req.SupplierInvoiceNumber,
		})
	if err != nil {
		logrus.Error(err)
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer_invoice": customer, "supplier_invoice": supplier})
}

// ValidateInvoiceData pre-flights a payment/registration pair. Findings are
// reported in the body; the endpoint itself always answers 200 for
// well-formed requests.
func (a Api) ValidateInvoiceData(c *gin.Context) {
	var req model2.ValidateInvoice
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	registration, ok := a.resolveRegistration(c, req.Registration, req.RegistrationID)
	if !ok {
		return
	}

	result := a.engine.ValidateInvoiceData(reconcile.NormalizePayment(req.Payment), registration)
	c.JSON(http.StatusOK, result)
}
