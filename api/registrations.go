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

	model2 "github.com/lodgetix/reconcile/api/model"
	"github.com/lodgetix/reconcile/internal/apierror"
)

// StageRegistration normalizes and stores one raw registration document.
func (a Api) StageRegistration(c *gin.Context) {
	var req model2.StageRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateStageRegistration(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	registration, err := a.engine.StageRegistration(c.Request.Context(), req.Registration)
	if err != nil {
		logrus.Error(err)
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, registration)
}

// GetRegistration returns a staged registration by registration id or
// confirmation number.
func (a Api) GetRegistration(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	registration, err := a.engine.GetRegistration(c.Request.Context(), id)
	if err != nil {
		logrus.Error(err)
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if registration == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "registration not found"})
		return
	}

	c.JSON(http.StatusOK, registration)
}
