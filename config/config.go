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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5001"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	Port string `json:"port" envconfig:"RECONCILE_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"RECONCILE_DATA_SOURCE_DNS"`
}

// ProviderFees is one payment provider's fee-rate entry: processing
// percentage + flat component, and the independent software utilization
// percentage. Rates are fractions (0.025 = 2.5%).
type ProviderFees struct {
	ProcessingRate  float64 `json:"processing_rate"`
	ProcessingFixed float64 `json:"processing_fixed"`
	UtilizationRate float64 `json:"utilization_rate"`
}

type FeesConfig struct {
	Providers map[string]ProviderFees `json:"providers"`
	Default   ProviderFees            `json:"default"`
}

// Identity is a supplier or organizer party block rendered onto invoices.
type Identity struct {
	Name     string `json:"name"`
	ABN      string `json:"abn"`
	Address  string `json:"address"`
	IssuedBy string `json:"issued_by"`
}

type InvoiceConfig struct {
	CustomerPrefix string `json:"customer_prefix" envconfig:"RECONCILE_INVOICE_CUSTOMER_PREFIX"`
	SupplierPrefix string `json:"supplier_prefix" envconfig:"RECONCILE_INVOICE_SUPPLIER_PREFIX"`
	FallbackEmail  string `json:"fallback_email" envconfig:"RECONCILE_INVOICE_FALLBACK_EMAIL"`
	DefaultState   string `json:"default_state" envconfig:"RECONCILE_INVOICE_DEFAULT_STATE"`
	DefaultCountry string `json:"default_country" envconfig:"RECONCILE_INVOICE_DEFAULT_COUNTRY"`
	// Organizer is the event-organizing body: supplier of record on
	// customer invoices, bill-to party on supplier invoices.
	Organizer Identity `json:"organizer"`
	// Platforms maps a payment source to the platform operator that acts
	// as supplier of record on the derived supplier invoice.
	Platforms map[string]Identity `json:"platforms"`
}

type MatcherConfig struct {
	// Workers bounds the batch-matching worker pool.
	Workers int `json:"workers" envconfig:"RECONCILE_MATCHER_WORKERS"`
}

type Configuration struct {
	ProjectName string           `json:"project_name" envconfig:"RECONCILE_PROJECT_NAME"`
	Server      ServerConfig     `json:"server"`
	DataSource  DataSourceConfig `json:"data_source"`
	Fees        FeesConfig       `json:"fees"`
	Invoice     InvoiceConfig    `json:"invoice"`
	Matcher     MatcherConfig    `json:"matcher"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("reconcile", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called reconcile.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Reconcile Server"
	}

	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Matcher.Workers <= 0 {
		cnf.Matcher.Workers = 8
	}

	cnf.applyFeeDefaults()
	cnf.applyInvoiceDefaults()

	return nil
}

// applyFeeDefaults fills the provider fee table with the shipped rates.
// Stripe's figures are confirmed; Square's processing component is a
// deployment-tunable default. Code outside this package never hardcodes a
// provider rate.
func (cnf *Configuration) applyFeeDefaults() {
	if cnf.Fees.Providers == nil {
		cnf.Fees.Providers = map[string]ProviderFees{}
	}
	if _, ok := cnf.Fees.Providers["stripe"]; !ok {
		cnf.Fees.Providers["stripe"] = ProviderFees{ProcessingRate: 0.025, ProcessingFixed: 0.30, UtilizationRate: 0.033}
	}
	if _, ok := cnf.Fees.Providers["square"]; !ok {
		cnf.Fees.Providers["square"] = ProviderFees{ProcessingRate: 0.016, ProcessingFixed: 0, UtilizationRate: 0.028}
	}
	if cnf.Fees.Default == (ProviderFees{}) {
		cnf.Fees.Default = cnf.Fees.Providers["stripe"]
	}
}

func (cnf *Configuration) applyInvoiceDefaults() {
	inv := &cnf.Invoice
	if inv.CustomerPrefix == "" {
		inv.CustomerPrefix = "LTIV-"
	}
	if inv.SupplierPrefix == "" {
		inv.SupplierPrefix = "LTSP-"
	}
	if inv.FallbackEmail == "" {
		inv.FallbackEmail = "no-email@lodgetix.io"
	}
	if inv.DefaultState == "" {
		inv.DefaultState = "NSW"
	}
	if inv.DefaultCountry == "" {
		inv.DefaultCountry = "Australia"
	}
	if inv.Organizer == (Identity{}) {
		inv.Organizer = Identity{
			Name:     "United Grand Lodge of NSW & ACT",
			ABN:      "93 230 340 687",
			Address:  "Level 5, 279 Castlereagh St Sydney NSW 2000",
			IssuedBy: "LodgeTix as Agent",
		}
	}
	if inv.Platforms == nil {
		inv.Platforms = map[string]Identity{}
	}
	if _, ok := inv.Platforms["stripe"]; !ok {
		inv.Platforms["stripe"] = Identity{
			Name:     "LodgeTix",
			ABN:      "21 013 997 842",
			Address:  "110 Sussex St Sydney NSW 2000",
			IssuedBy: "LodgeTix",
		}
	}
	if _, ok := inv.Platforms["square"]; !ok {
		inv.Platforms["square"] = Identity{
			Name:     "LodgeTix / Lodge Tickets",
			ABN:      "94 687 923 128",
			Address:  "110 Sussex St Sydney NSW 2000",
			IssuedBy: "LodgeTix",
		}
	}
}

// Platform returns the supplier-of-record identity for a payment source,
// falling back to the stripe entry for unknown sources.
func (cnf *Configuration) Platform(source string) Identity {
	if id, ok := cnf.Invoice.Platforms[strings.ToLower(source)]; ok {
		return id
	}
	return cnf.Invoice.Platforms["stripe"]
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	_ = mockConfig.validateAndAddDefaults()
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
