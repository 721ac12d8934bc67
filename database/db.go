package database

import (
	"database/sql"
	"log"
	"sync"

	"github.com/lodgetix/reconcile/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, err
	}
	err = createRegistrationTable(db)
	if err != nil {
		return nil, err
	}
	err = createMatchRunTable(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// createRegistrationTable creates the staging table for registrations. The
// canonical columns are extracted at import time; the full source document
// lives in raw for accessor-path lookups.
func createRegistrationTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS registrations (
			id SERIAL PRIMARY KEY,
			registration_id TEXT NOT NULL UNIQUE,
			confirmation_number TEXT,
			kind TEXT,
			function_name TEXT,
			total_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			stripe_payment_intent_id TEXT,
			square_payment_id TEXT,
			payment_intent_id TEXT,
			transaction_id TEXT,
			raw JSONB
		)
	`)
	log.Println(err)
	return err
}

// createMatchRunTable creates the batch-run bookkeeping table.
func createMatchRunTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS match_runs (
			id SERIAL PRIMARY KEY,
			match_run_id TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMP,
			total_payments INTEGER NOT NULL DEFAULT 0,
			matched_payments INTEGER NOT NULL DEFAULT 0,
			unmatched_payments INTEGER NOT NULL DEFAULT 0,
			valid_matches INTEGER NOT NULL DEFAULT 0
		)
	`)
	log.Println(err)
	return err
}
