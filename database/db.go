package database

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"github.com/orderstack/saga/cache"

	"github.com/google/uuid"

	"github.com/orderstack/saga/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn  *sql.DB
	Cache cache.Cache
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
		ca, errCache := cache.NewCache()
		if errCache != nil {
			log.Printf("cache unavailable, store lookups will skip the cache: %v", errCache)
			ca = nil
		}
		instance = &Datasource{Conn: con, Cache: ca}
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
	err = createPaymentTable(db)
	if err != nil {
		return nil, err
	}
	err = createValidationTable(db)
	if err != nil {
		return nil, err
	}
	err = createProductTable(db)
	if err != nil {
		return nil, err
	}
	err = seedProducts(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	uuidStr := id.String()
	idWithSuffix := fmt.Sprintf("%s_%s", module, uuidStr)
	return idWithSuffix
}

// createPaymentTable creates a PostgreSQL table for the Payment struct.
// The unique constraint on (order_id, transaction_id) is the processed-once
// guarantee: concurrent duplicates have exactly one winner.
func createPaymentTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS payments (
			id SERIAL PRIMARY KEY,
			payment_id TEXT NOT NULL UNIQUE,
			order_id TEXT NOT NULL,
			transaction_id TEXT NOT NULL,
			total_amount NUMERIC NOT NULL,
			total_items INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE (order_id, transaction_id)
		)
	`)
	if err != nil {
		log.Printf("Error creating payments table: %v", err)
	}
	return err
}

// createValidationTable creates a PostgreSQL table for the Validation struct
func createValidationTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS validations (
			id SERIAL PRIMARY KEY,
			validation_id TEXT NOT NULL UNIQUE,
			order_id TEXT NOT NULL,
			transaction_id TEXT NOT NULL,
			success BOOLEAN NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE (order_id, transaction_id)
		)
	`)
	if err != nil {
		log.Printf("Error creating validations table: %v", err)
	}
	return err
}

// createProductTable creates a PostgreSQL table for the product catalog
func createProductTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating products table: %v", err)
	}
	return err
}

// seedProducts loads the default catalog the validation participant checks
// order lines against.
func seedProducts(db *sql.DB) error {
	_, err := db.Exec(`
		INSERT INTO products (code)
		VALUES ('COMIC_BOOKS'), ('BOOKS'), ('MOVIES'), ('MUSIC')
		ON CONFLICT (code) DO NOTHING
	`)
	if err != nil {
		log.Printf("Error seeding products table: %v", err)
	}
	return err
}
