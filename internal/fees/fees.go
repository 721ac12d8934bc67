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

// Package fees computes processing fees, software utilization fees, and GST
// in both forward (subtotal to total) and reverse (total to subtotal)
// directions. All functions are pure; rates come from the calculator's
// provider table, never from literals at call sites.
package fees

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lodgetix/reconcile/internal/money"
)

// ProviderRates holds one payment provider's fee components: a percentage
// rate plus a flat component for processing, and an independent percentage
// for the platform's software utilization fee.
type ProviderRates struct {
	ProcessingRate  float64
	ProcessingFixed float64
	UtilizationRate float64
}

// Calculator resolves fee arithmetic against a per-provider rate table.
// Unknown providers fall back to the table's default entry.
type Calculator struct {
	rates        map[string]ProviderRates
	defaultRates ProviderRates
}

// NewCalculator builds a calculator over the given rate table. defaultRates
// serves any provider key absent from the table.
func NewCalculator(rates map[string]ProviderRates, defaultRates ProviderRates) *Calculator {
	normalized := make(map[string]ProviderRates, len(rates))
	for provider, r := range rates {
		normalized[strings.ToLower(provider)] = r
	}
	return &Calculator{rates: normalized, defaultRates: defaultRates}
}

// Rates returns the rate entry for a provider, falling back to the default.
func (c *Calculator) Rates(provider string) ProviderRates {
	if r, ok := c.rates[strings.ToLower(provider)]; ok {
		return r
	}
	return c.defaultRates
}

// ProcessingFee computes amount × rate + fixed for the provider, 2dp.
func (c *Calculator) ProcessingFee(amount float64, provider string) float64 {
	r := c.Rates(provider)
	fee := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(r.ProcessingRate)).
		Add(decimal.NewFromFloat(r.ProcessingFixed)).
		Round(2)
	f, _ := fee.Float64()
	return f
}

// SoftwareUtilizationFee computes total × utilizationRate for the provider, 2dp.
func (c *Calculator) SoftwareUtilizationFee(total float64, provider string) float64 {
	r := c.Rates(provider)
	return money.Percentage(total, r.UtilizationRate)
}

// ForwardTotal derives the gross total from a known subtotal:
// subtotal + processingFee(subtotal).
func (c *Calculator) ForwardTotal(subtotal float64, provider string) float64 {
	return money.Round2(subtotal + c.ProcessingFee(subtotal, provider))
}

// ReverseSubtotal solves the linear fee equation for the subtotal when only
// the gross total is known: (total − fixed) / (1 + rate).
func (c *Calculator) ReverseSubtotal(total float64, provider string) float64 {
	r := c.Rates(provider)
	subtotal := decimal.NewFromFloat(total).
		Sub(decimal.NewFromFloat(r.ProcessingFixed)).
		Div(decimal.NewFromFloat(1).Add(decimal.NewFromFloat(r.ProcessingRate))).
		Round(2)
	f, _ := subtotal.Float64()
	return f
}

// GSTFromInclusive extracts the GST portion of a tax-inclusive total.
func (c *Calculator) GSTFromInclusive(total float64) float64 {
	return money.GSTFromInclusive(total)
}
