package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/db"
)

// SetupTestDB connects to the test database and applies the schema.
// TEST_DATABASE_URL overrides the local default.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		connStr = "host=localhost port=5432 user=postgres password=postgres dbname=prescriptions_test sslmode=disable"
	}

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		t.Skipf("test database unavailable: %v", err)
	}

	if err := db.Migrate(context.Background(), conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// CleanupTestDB removes all prescription data
func CleanupTestDB(t *testing.T, conn *sql.DB) {
	t.Helper()

	_, err := conn.Exec("TRUNCATE TABLE prescription_reference, patient, doctor, medicine RESTART IDENTITY CASCADE")
	if err != nil {
		t.Logf("Warning: Failed to clean up prescription tables: %v", err)
	}
}

// CreateTestPrescription inserts one prescription with fresh patient, doctor and
// medicine rows and returns the reference number
func CreateTestPrescription(t *testing.T, conn *sql.DB, ref, patientName string) string {
	t.Helper()

	_, err := db.Seed(context.Background(), conn, []db.SeedPrescription{{
		ReferenceNumber: ref,
		PatientName:     patientName,
		PatientAge:      40,
		DoctorName:      fmt.Sprintf("Dr. %s", ref),
		Specialization:  "General Practice",
		MedicineName:    "Paracetamol",
		Dosage:          "500mg",
		Frequency:       "2x daily",
	}})
	if err != nil {
		t.Fatalf("Failed to create test prescription: %v", err)
	}
	return ref
}
