package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// MaxReferenceResults bounds the number of rows a reference search returns
const MaxReferenceResults = 100

const patientColumns = `patient_id, name, age, gender, address, contact_number`

const prescriptionSelect = `
		SELECT pr.reference_number, pr.prescribed_on,
		       p.patient_id, p.name, p.age, p.gender, p.address, p.contact_number,
		       d.doctor_id, d.name, d.specialization, d.contact_number,
		       m.medicine_id, m.name, m.dosage, m.frequency
		FROM prescription_reference pr
		JOIN patient p ON p.patient_id = pr.patient_id
		JOIN doctor d ON d.doctor_id = pr.doctor_id
		JOIN medicine m ON m.medicine_id = pr.medicine_id
		WHERE pr.reference_number = $1
	`

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindPatientsByName(ctx context.Context, name string) ([]Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patient
		WHERE name ILIKE $1 ESCAPE '\'
		ORDER BY patient_id
	`

	rows, err := r.db.QueryContext(ctx, query, "%"+escapeLike(name)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	patients, err := scanPatients(rows)
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *Repository) ListPatients(ctx context.Context, limit, offset int) ([]Patient, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query := `
		SELECT ` + patientColumns + `
		FROM patient
		ORDER BY patient_id
		OFFSET $1 ROWS FETCH NEXT $2 ROWS ONLY
	`

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	patients, err := scanPatients(rows)
	if err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *Repository) GetPrescription(ctx context.Context, referenceNumber string) (*Prescription, error) {
	return getPrescription(ctx, r.db, referenceNumber)
}

func (r *Repository) SearchReferences(ctx context.Context, pattern string) ([]Reference, error) {
	query := `
		SELECT pr.reference_number, pr.prescribed_on,
		       p.patient_id, p.name, d.doctor_id, d.name, m.medicine_id, m.name
		FROM prescription_reference pr
		JOIN patient p ON p.patient_id = pr.patient_id
		JOIN doctor d ON d.doctor_id = pr.doctor_id
		JOIN medicine m ON m.medicine_id = pr.medicine_id
		WHERE pr.reference_number LIKE $1 ESCAPE '\'
		ORDER BY pr.reference_number
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, escapeLike(pattern)+"%", MaxReferenceResults)
	if err != nil {
		return nil, fmt.Errorf("failed to query references: %w", err)
	}
	defer rows.Close()

	var refs []Reference
	for rows.Next() {
		var ref Reference
		err := rows.Scan(
			&ref.ReferenceNumber,
			&ref.PrescribedOn,
			&ref.PatientID,
			&ref.PatientName,
			&ref.DoctorID,
			&ref.DoctorName,
			&ref.MedicineID,
			&ref.MedicineName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reference: %w", err)
		}
		refs = append(refs, ref)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating references: %w", err)
	}

	return refs, nil
}

// UpdateDetails applies a partial update to the patient, doctor and medicine rows
// behind referenceNumber in a single transaction. The reference row itself is
// locked but never modified.
func (r *Repository) UpdateDetails(ctx context.Context, req UpdateDetailsRequest) (*Prescription, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var patientID, doctorID, medicineID int64
	err = tx.QueryRowContext(ctx, `
		SELECT patient_id, doctor_id, medicine_id
		FROM prescription_reference
		WHERE reference_number = $1
		FOR UPDATE
	`, req.ReferenceNumber).Scan(&patientID, &doctorID, &medicineID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lookup reference: %w", err)
	}

	if req.Patient.HasChanges() {
		p := req.Patient
		err = execSingleRow(ctx, tx, "patient", `
			UPDATE patient
			SET name = COALESCE($1, name),
			    age = COALESCE($2, age),
			    gender = COALESCE($3, gender),
			    address = COALESCE($4, address),
			    contact_number = COALESCE($5, contact_number)
			WHERE patient_id = $6
		`, p.Name, p.Age, p.Gender, p.Address, p.ContactNumber, patientID)
		if err != nil {
			return nil, err
		}
	}

	if req.Doctor.HasChanges() {
		d := req.Doctor
		err = execSingleRow(ctx, tx, "doctor", `
			UPDATE doctor
			SET name = COALESCE($1, name),
			    specialization = COALESCE($2, specialization),
			    contact_number = COALESCE($3, contact_number)
			WHERE doctor_id = $4
		`, d.Name, d.Specialization, d.ContactNumber, doctorID)
		if err != nil {
			return nil, err
		}
	}

	if req.Medicine.HasChanges() {
		m := req.Medicine
		err = execSingleRow(ctx, tx, "medicine", `
			UPDATE medicine
			SET name = COALESCE($1, name),
			    dosage = COALESCE($2, dosage),
			    frequency = COALESCE($3, frequency)
			WHERE medicine_id = $4
		`, m.Name, m.Dosage, m.Frequency, medicineID)
		if err != nil {
			return nil, err
		}
	}

	updated, err := getPrescription(ctx, tx, req.ReferenceNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to reload prescription: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, nil
}

func execSingleRow(ctx context.Context, tx *sql.Tx, table, query string, args ...interface{}) error {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		if constraintViolation(err) {
			return fmt.Errorf("%w: %s violates a table constraint", ErrInvalidArgument, table)
		}
		return fmt.Errorf("failed to update %s: %w", table, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	// the foreign key guarantees the row exists
	if rows != 1 {
		return fmt.Errorf("failed to update %s: expected 1 row, affected %d", table, rows)
	}
	return nil
}

func getPrescription(ctx context.Context, q queryer, referenceNumber string) (*Prescription, error) {
	var p Prescription
	var age sql.NullInt32
	var gender, address, patientContact sql.NullString
	var specialization, doctorContact sql.NullString
	var dosage, frequency sql.NullString

	err := q.QueryRowContext(ctx, prescriptionSelect, referenceNumber).Scan(
		&p.ReferenceNumber,
		&p.PrescribedOn,
		&p.Patient.PatientID,
		&p.Patient.Name,
		&age,
		&gender,
		&address,
		&patientContact,
		&p.Doctor.DoctorID,
		&p.Doctor.Name,
		&specialization,
		&doctorContact,
		&p.Medicine.MedicineID,
		&p.Medicine.Name,
		&dosage,
		&frequency,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query prescription: %w", err)
	}

	if age.Valid {
		p.Patient.Age = &age.Int32
	}
	p.Patient.Gender = gender.String
	p.Patient.Address = address.String
	p.Patient.ContactNumber = patientContact.String
	p.Doctor.Specialization = specialization.String
	p.Doctor.ContactNumber = doctorContact.String
	p.Medicine.Dosage = dosage.String
	p.Medicine.Frequency = frequency.String

	return &p, nil
}

func scanPatients(rows *sql.Rows) ([]Patient, error) {
	var patients []Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, *patient)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patients: %w", err)
	}
	return patients, nil
}

func scanPatient(row rowScanner) (*Patient, error) {
	var patient Patient
	var age sql.NullInt32
	var gender sql.NullString
	var address sql.NullString
	var contactNumber sql.NullString

	err := row.Scan(
		&patient.PatientID,
		&patient.Name,
		&age,
		&gender,
		&address,
		&contactNumber,
	)
	if err != nil {
		return nil, err
	}

	if age.Valid {
		patient.Age = &age.Int32
	}
	patient.Gender = gender.String
	patient.Address = address.String
	patient.ContactNumber = contactNumber.String

	return &patient, nil
}

// constraintViolation reports check and not-null violations raised by PostgreSQL
func constraintViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23514" || pqErr.Code == "23502"
}

// escapeLike makes s match literally inside a LIKE pattern
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
