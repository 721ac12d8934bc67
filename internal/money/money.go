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

// Package money provides safe coercion of loosely-typed monetary values and
// the rounding rules shared by fee and invoice arithmetic. Every rounding
// step goes through decimal so binary floating-point drift cannot compound
// across additions.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse coerces a raw document value to a float64 amount. It accepts plain
// numbers, numeric strings (with optional currency symbol and thousands
// separators), and Mongo-style decimal wrapper objects
// ({"$numberDecimal": "100.00"}). Anything else coerces to zero.
func Parse(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return parseString(v)
	case map[string]interface{}:
		if wrapped, ok := v["$numberDecimal"]; ok {
			return Parse(wrapped)
		}
		return 0
	default:
		return 0
	}
}

func parseString(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// Round2 rounds an amount to 2 decimal places, half away from zero.
func Round2(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return f
}

// Percentage returns rate% of amount, rounded to 2 decimal places.
func Percentage(amount, rate float64) float64 {
	result := decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(rate)).Round(2)
	f, _ := result.Float64()
	return f
}

// GSTFromInclusive extracts the GST portion of a tax-inclusive total
// (total/11 under the fixed-rate jurisdiction rule), rounded to 2dp.
func GSTFromInclusive(total float64) float64 {
	f, _ := decimal.NewFromFloat(total).Div(decimal.NewFromInt(11)).Round(2).Float64()
	return f
}

// EqualWithin reports whether two amounts differ by no more than tolerance.
func EqualWithin(a, b, tolerance float64) bool {
	diff := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs()
	return diff.LessThanOrEqual(decimal.NewFromFloat(tolerance))
}
