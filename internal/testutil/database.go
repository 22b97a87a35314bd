package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration test database. Expects a MySQL at
// localhost:3306 with a database named 'stockroom_test'; tests skip when
// it is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/stockroom_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB removes test rows and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"InventoryAudits", "Reservations", "InventoryLots", "TierPrices", "Batches", "Products"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema the integration tests need.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createProducts := `
	CREATE TABLE IF NOT EXISTS Products (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		sku VARCHAR(64) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		defaultPrice DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createBatches := `
	CREATE TABLE IF NOT EXISTS Batches (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		productId INT NOT NULL,
		vendorName VARCHAR(255) NOT NULL,
		unitCost DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		receivedAt DATETIME NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_batch_product (productId)
	)`

	createLots := `
	CREATE TABLE IF NOT EXISTS InventoryLots (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		productId INT NOT NULL,
		batchId INT NOT NULL,
		quantityOnHand INT NOT NULL DEFAULT 0,
		quantityAllocated INT NOT NULL DEFAULT 0,
		quantityAvailable INT NOT NULL DEFAULT 0,
		lastMovementDate DATETIME(6) NOT NULL,
		createdAt DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updatedAt DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
		INDEX idx_lot_fifo (productId, lastMovementDate, createdAt)
	)`

	createReservations := `
	CREATE TABLE IF NOT EXISTS Reservations (
		id CHAR(36) NOT NULL PRIMARY KEY,
		productId INT NOT NULL,
		lotId INT NOT NULL,
		batchId INT NOT NULL,
		quantity INT NOT NULL,
		actor VARCHAR(128) NOT NULL DEFAULT '',
		correlationId VARCHAR(128) NOT NULL DEFAULT '',
		expiresAt DATETIME(6) NOT NULL,
		releasedAt DATETIME(6) NULL,
		createdAt DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_reservation_sweep (releasedAt, expiresAt)
	)`

	createAudits := `
	CREATE TABLE IF NOT EXISTS InventoryAudits (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		lotId INT NOT NULL,
		action VARCHAR(16) NOT NULL,
		quantity INT NOT NULL,
		onHandBefore INT NOT NULL,
		onHandAfter INT NOT NULL,
		allocatedBefore INT NOT NULL,
		allocatedAfter INT NOT NULL,
		actor VARCHAR(128) NOT NULL DEFAULT '',
		correlationId VARCHAR(128) NOT NULL DEFAULT '',
		occurredAt DATETIME(6) NOT NULL,
		INDEX idx_audit_lot (lotId, occurredAt)
	)`

	createTierPrices := `
	CREATE TABLE IF NOT EXISTS TierPrices (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		productId INT NOT NULL,
		customerGroup VARCHAR(64) NOT NULL DEFAULT '',
		minQty INT NOT NULL DEFAULT 1,
		price DECIMAL(10,2) NOT NULL,
		INDEX idx_tier_product (productId, customerGroup, minQty)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Products", createProducts},
		{"Batches", createBatches},
		{"InventoryLots", createLots},
		{"Reservations", createReservations},
		{"InventoryAudits", createAudits},
		{"TierPrices", createTierPrices},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}

// SeedLot inserts one product, batch and lot and returns the lot id.
func SeedLot(t *testing.T, db *sql.DB, sku string, onHand, allocated int, movement time.Time) (productID, batchID, lotID int) {
	res, err := db.Exec(`INSERT INTO Products (sku, name, defaultPrice) VALUES (?, ?, 10.00)`, sku, "product "+sku)
	if err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	pid, _ := res.LastInsertId()

	res, err = db.Exec(`INSERT INTO Batches (productId, vendorName, unitCost, receivedAt) VALUES (?, 'acme', 5.00, ?)`, pid, movement)
	if err != nil {
		t.Fatalf("seeding batch: %v", err)
	}
	bid, _ := res.LastInsertId()

	lid := SeedLotForProduct(t, db, int(pid), int(bid), onHand, allocated, movement)
	return int(pid), int(bid), lid
}

// SeedLotForProduct adds another lot to an existing product/batch pair.
func SeedLotForProduct(t *testing.T, db *sql.DB, productID, batchID, onHand, allocated int, movement time.Time) int {
	res, err := db.Exec(`
		INSERT INTO InventoryLots
			(productId, batchId, quantityOnHand, quantityAllocated, quantityAvailable, lastMovementDate)
		VALUES (?, ?, ?, ?, ?, ?)`,
		productID, batchID, onHand, allocated, onHand-allocated, movement,
	)
	if err != nil {
		t.Fatalf("seeding lot: %v", err)
	}
	id, _ := res.LastInsertId()
	return int(id)
}
