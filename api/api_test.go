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
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lodgetix/reconcile"
	"github.com/lodgetix/reconcile/config"
	"github.com/lodgetix/reconcile/database/mocks"
	"github.com/lodgetix/reconcile/model"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	err := json.NewDecoder(resp.Body).Decode(&s.Response)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func setupRouter(t *testing.T, mockDS *mocks.MockDataSource) *gin.Engine {
	config.MockConfig(&config.Configuration{})
	engine, err := reconcile.NewReconcile(mockDS)
	require.NoError(t, err)
	return NewAPI(engine).Router()
}

func TestMatchPaymentEndpoint(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS)

	now := time.Now()
	mockDS.On("GetRegistrationByPaymentRef", mock.Anything, []string{"pi_1"}).Return(&model.CanonicalRegistration{
		RegistrationID:        "reg_1",
		TotalAmount:           100,
		CreatedAt:             now,
		StripePaymentIntentID: "pi_1",
	}, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"payment": map[string]interface{}{
			"id":        "pi_1",
			"amount":    100.0,
			"createdAt": now.Format(time.RFC3339),
		},
	})

	var response model.MatchResult
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  bytes.NewBuffer(body),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/match",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.MatchMethodPaymentID, response.Method)
	assert.Equal(t, 100, response.Confidence)
	mockDS.AssertExpectations(t)
}

func TestMatchPaymentEndpointRejectsEmptyBody(t *testing.T) {
	router := setupRouter(t, new(mocks.MockDataSource))

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  bytes.NewBufferString(`{}`),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/match",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestStageRegistrationEndpoint(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS)

	mockDS.On("RecordRegistration", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{
		"registration": map[string]interface{}{
			"registrationId":     "reg_1",
			"confirmationNumber": "IND-123456",
			"totalAmountPaid":    100.0,
		},
	})

	var response model.CanonicalRegistration
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  bytes.NewBuffer(body),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/registrations",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "reg_1", response.RegistrationID)
	assert.Equal(t, "IND-123456", response.ConfirmationNumber)
	mockDS.AssertExpectations(t)
}

func TestGenerateInvoicePairEndpoint(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS)

	body, _ := json.Marshal(map[string]interface{}{
		"payment": map[string]interface{}{
			"id":        "pi_1",
			"amount":    100.0,
			"status":    "succeeded",
			"createdAt": "2025-06-15T10:00:00Z",
		},
		"registration": map[string]interface{}{
			"registrationId":     "reg_1",
			"confirmationNumber": "IND-123456",
			"registrationType":   "individuals",
			"functionName":       "Grand Proclamation 2025",
		},
	})

	var response struct {
		Customer *model.Invoice `json:"customer_invoice"`
		Supplier *model.Invoice `json:"supplier_invoice"`
	}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  bytes.NewBuffer(body),
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/invoices/pair",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Code)
	require.NotNil(t, response.Customer)
	require.NotNil(t, response.Supplier)
	assert.Equal(t, response.Customer.InvoiceNumber, response.Supplier.RelatedInvoiceID)
	assert.Equal(t, 100.0, response.Customer.Total)
}

func TestGetMatchRunEndpointNotFound(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	router := setupRouter(t, mockDS)

	mockDS.On("GetMatchRun", mock.Anything, "run_missing").Return(nil, nil)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  nil,
		Router:   router,
		Response: &response,
		Method:   http.MethodGet,
		Route:    "/match-runs/run_missing",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockDS.AssertExpectations(t)
}
