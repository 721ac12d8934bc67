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

package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/lodgetix/reconcile"
	"github.com/lodgetix/reconcile/model"
)

// matchCommands returns the command that runs a recorded batch match over a
// JSON file of raw payment documents and prints the results.
func matchCommands(app *appInstance) *cobra.Command {
	var paymentsFile string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "match a file of staged payments against registrations",
		Run: func(cmd *cobra.Command, args []string) {
			f, err := os.Open(paymentsFile)
			if err != nil {
				log.Fatal(err)
			}
			defer f.Close()

			var rawPayments []map[string]interface{}
			if err := json.NewDecoder(f).Decode(&rawPayments); err != nil {
				log.Fatalf("error decoding payments file: %v", err)
			}

			payments := make([]model.CanonicalPayment, 0, len(rawPayments))
			for _, raw := range rawPayments {
				payments = append(payments, reconcile.NormalizePayment(raw))
			}

			run, results, err := app.engine.MatchAll(context.Background(), payments)
			if err != nil {
				log.Fatal(err)
			}

			out := json.NewEncoder(os.Stdout)
			out.SetIndent("", "  ")
			if err := out.Encode(map[string]interface{}{"run": run, "results": results}); err != nil {
				log.Fatal(err)
			}
		},
	}

	cmd.Flags().StringVar(&paymentsFile, "payments", "payments.json", "JSON file holding an array of raw payment documents")

	return cmd
}
