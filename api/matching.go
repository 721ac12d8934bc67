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

// MatchPayment normalizes one raw payment document and reconciles it
// against the staged registrations. With analyze set, the response carries
// the field-evidence diagnostic instead of the bare match result.
func (a Api) MatchPayment(c *gin.Context) {
	var req model2.MatchPayment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateMatchPayment(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	payment := reconcile.NormalizePayment(req.Payment)
	result, err := a.engine.MatchPayment(c.Request.Context(), payment)
	if err != nil {
		logrus.Error(err)
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	if req.Analyze {
		c.JSON(http.StatusOK, reconcile.AnalyzeMatch(result))
		return
	}
	c.JSON(http.StatusOK, result)
}

// MatchBatch runs a recorded batch pass over a list of raw payment
// documents.
func (a Api) MatchBatch(c *gin.Context) {
	var req model2.MatchBatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateMatchBatch(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	payments := make([]model.CanonicalPayment, 0, len(req.Payments))
	for _, raw := range req.Payments {
		payments = append(payments, reconcile.NormalizePayment(raw))
	}

	run, results, err := a.engine.MatchAll(c.Request.Context(), payments)
	if err != nil {
		logrus.Error(err)
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"run": run, "results": results})
}

// GetMatchRun returns a recorded batch run by id.
func (a Api) GetMatchRun(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	run, err := a.engine.GetMatchRun(c.Request.Context(), id)
	if err != nil {
		logrus.Error(err)
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "match run not found"})
		return
	}

	c.JSON(http.StatusOK, run)
}
