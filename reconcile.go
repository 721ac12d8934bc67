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
	"github.com/lodgetix/reconcile/config"
	"github.com/lodgetix/reconcile/database"
	"github.com/lodgetix/reconcile/internal/fees"
)

// Reconcile is the engine facade: payment matching and invoice synthesis
// over an injected registration store.
type Reconcile struct {
	datasource database.IDataSource
	fees       *fees.Calculator
	workers    int
}

// NewReconcile initializes a new engine instance over the provided
// datasource. The fee calculator and worker bound come from configuration.
//
// Parameters:
// - db database.IDataSource: The datasource for registration lookups and run bookkeeping.
//
// Returns:
// - *Reconcile: A pointer to the newly created engine instance.
// - error: An error if configuration has not been loaded.
func NewReconcile(db database.IDataSource) (*Reconcile, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	return &Reconcile{
		datasource: db,
		fees:       newFeeCalculator(configuration),
		workers:    configuration.Matcher.Workers,
	}, nil
}

// newFeeCalculator builds the fee calculator from the configured provider
// rate table.
func newFeeCalculator(cnf *config.Configuration) *fees.Calculator {
	table := make(map[string]fees.ProviderRates, len(cnf.Fees.Providers))
	for provider, r := range cnf.Fees.Providers {
		table[provider] = fees.ProviderRates{
			ProcessingRate:  r.ProcessingRate,
			ProcessingFixed: r.ProcessingFixed,
			UtilizationRate: r.UtilizationRate,
		}
	}
	return fees.NewCalculator(table, fees.ProviderRates{
		ProcessingRate:  cnf.Fees.Default.ProcessingRate,
		ProcessingFixed: cnf.Fees.Default.ProcessingFixed,
		UtilizationRate: cnf.Fees.Default.UtilizationRate,
	})
}
