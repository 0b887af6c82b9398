package db

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS patient (
		patient_id     SERIAL PRIMARY KEY,
		name           TEXT NOT NULL,
		age            INT CHECK (age >= 0),
		gender         TEXT,
		address        TEXT,
		contact_number TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS doctor (
		doctor_id      SERIAL PRIMARY KEY,
		name           TEXT NOT NULL,
		specialization TEXT,
		contact_number TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS medicine (
		medicine_id SERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		dosage      TEXT,
		frequency   TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS prescription_reference (
		reference_number TEXT PRIMARY KEY,
		patient_id       INT NOT NULL REFERENCES patient (patient_id),
		doctor_id        INT NOT NULL REFERENCES doctor (doctor_id),
		medicine_id      INT NOT NULL REFERENCES medicine (medicine_id),
		prescribed_on    DATE NOT NULL DEFAULT CURRENT_DATE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_patient_name_lower ON patient (lower(name))`,
}

// Migrate creates the prescription tables when they do not exist yet.
// All statements run in one transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}

// SeedPrescription is one demo prescription inserted by Seed
type SeedPrescription struct {
	ReferenceNumber string
	PatientName     string
	PatientAge      int
	DoctorName      string
	Specialization  string
	MedicineName    string
	Dosage          string
	Frequency       string
}

// DemoPrescriptions is the data set inserted by `migrate -seed`
var DemoPrescriptions = []SeedPrescription{
	{"RX-1001", "Jane Doe", 42, "Dr. Gregory House", "Diagnostics", "Amoxicillin", "500mg", "3x daily"},
	{"RX-1002", "John Smith", 67, "Dr. Lisa Cuddy", "Endocrinology", "Metformin", "850mg", "2x daily"},
	{"RX-1003", "Maria Garcia", 29, "Dr. James Wilson", "Oncology", "Ondansetron", "8mg", "as needed"},
	{"RX-2001", "Jane Roe", 35, "Dr. Allison Cameron", "Immunology", "Cetirizine", "10mg", "1x daily"},
}

// Seed inserts prescriptions that are not present yet. It returns the number inserted.
func Seed(ctx context.Context, db *sql.DB, prescriptions []SeedPrescription) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, p := range prescriptions {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM prescription_reference WHERE reference_number = $1)`,
			p.ReferenceNumber,
		).Scan(&exists)
		if err != nil {
			return 0, fmt.Errorf("failed to check reference %s: %w", p.ReferenceNumber, err)
		}
		if exists {
			continue
		}

		var patientID, doctorID, medicineID int64
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO patient (name, age) VALUES ($1, $2) RETURNING patient_id`,
			p.PatientName, p.PatientAge,
		).Scan(&patientID); err != nil {
			return 0, fmt.Errorf("failed to insert patient: %w", err)
		}
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO doctor (name, specialization) VALUES ($1, $2) RETURNING doctor_id`,
			p.DoctorName, p.Specialization,
		).Scan(&doctorID); err != nil {
			return 0, fmt.Errorf("failed to insert doctor: %w", err)
		}
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO medicine (name, dosage, frequency) VALUES ($1, $2, $3) RETURNING medicine_id`,
			p.MedicineName, p.Dosage, p.Frequency,
		).Scan(&medicineID); err != nil {
			return 0, fmt.Errorf("failed to insert medicine: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO prescription_reference (reference_number, patient_id, doctor_id, medicine_id)
			VALUES ($1, $2, $3, $4)
		`, p.ReferenceNumber, patientID, doctorID, medicineID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert prescription %s: %w", p.ReferenceNumber, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed data: %w", err)
	}
	return inserted, nil
}
