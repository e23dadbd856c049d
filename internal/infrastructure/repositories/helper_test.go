package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createAssociationTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE associations (
		id TEXT PRIMARY KEY,
		cnpj TEXT NOT NULL UNIQUE,
		corporate_name TEXT NOT NULL,
		trade_name TEXT,
		email TEXT NOT NULL UNIQUE,
		phone TEXT,
		address TEXT,
		city TEXT,
		state TEXT,
		zip_code TEXT,
		password_hash TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 0,
		is_approved BOOLEAN NOT NULL DEFAULT 0,
		is_default BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT,
		cpf TEXT,
		password_hash TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		fake BOOLEAN NOT NULL DEFAULT 0,
		payment_day INTEGER NOT NULL,
		association_id TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createUserProfileTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE user_profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		address TEXT,
		city TEXT,
		state TEXT,
		zip_code TEXT,
		birth_date DATETIME,
		marital_status TEXT,
		profession TEXT,
		monthly_income REAL,
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createPaymentTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount REAL NOT NULL,
		due_date DATETIME NOT NULL,
		paid_date DATETIME,
		status TEXT NOT NULL,
		payment_method TEXT,
		transaction_id TEXT,
		notes TEXT,
		charge_id TEXT UNIQUE,
		pix_qr_code TEXT,
		boleto_url TEXT,
		payment_url TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (user_id, due_date)
	);`)
}

func createContactTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE contact_submissions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		message TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createProjectStatusTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE project_statuses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		phase TEXT NOT NULL,
		progress_percentage INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createTermsTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE terms_of_acceptances (
		id TEXT PRIMARY KEY,
		version TEXT NOT NULL,
		content TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE term_acceptances (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		term_id TEXT NOT NULL,
		accepted_at DATETIME,
		UNIQUE (user_id, term_id)
	);`)
}
