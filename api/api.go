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
	"github.com/gin-gonic/gin"

	"github.com/lodgetix/reconcile"
)

type Api struct {
	engine *reconcile.Reconcile
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/registrations", a.StageRegistration)
	router.GET("/registrations/:id", a.GetRegistration)

	router.POST("/match", a.MatchPayment)
	router.POST("/match/batch", a.MatchBatch)
	router.GET("/match-runs/:id", a.GetMatchRun)

	router.POST("/invoices/customer", a.GenerateCustomerInvoice)
	router.POST("/invoices/pair", a.GenerateInvoicePair)
	router.POST("/invoices/validate", a.ValidateInvoiceData)
	return a.router
}

func NewAPI(engine *reconcile.Reconcile) *Api {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{engine: engine, router: r}
}
