package records

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	prescriptionColumns = []string{
		"reference_number", "prescribed_on",
		"patient_id", "name", "age", "gender", "address", "contact_number",
		"doctor_id", "name", "specialization", "contact_number",
		"medicine_id", "name", "dosage", "frequency",
	}
	patientRowColumns = []string{"patient_id", "name", "age", "gender", "address", "contact_number"}

	lookupQuery       = regexp.QuoteMeta("FROM prescription_reference WHERE reference_number = $1 FOR UPDATE")
	prescriptionQuery = regexp.QuoteMeta("WHERE pr.reference_number = $1")
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func prescriptionRow(address string) *sqlmock.Rows {
	return sqlmock.NewRows(prescriptionColumns).AddRow(
		"RX-1001", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		int64(1), "Jane Doe", int64(42), "F", address, nil,
		int64(2), "Dr. House", "Diagnostics", "555-0100",
		int64(3), "Amoxicillin", "250mg", "3x daily",
	)
}

func TestRepositoryFindPatientsByName(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE name ILIKE $1")).
		WithArgs(`%50\%%`).
		WillReturnRows(sqlmock.NewRows(patientRowColumns).
			AddRow(int64(1), "Jane 50%", int64(30), "F", nil, "555-0101").
			AddRow(int64(4), "Joe 50% Smith", nil, nil, nil, nil))

	patients, err := repo.FindPatientsByName(context.Background(), "50%")

	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, int32(30), *patients[0].Age)
	assert.Equal(t, "555-0101", patients[0].ContactNumber)
	assert.Nil(t, patients[1].Age)
	assert.Empty(t, patients[1].Gender)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListPatients(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM patient")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY patient_id OFFSET $1 ROWS FETCH NEXT $2 ROWS ONLY")).
		WithArgs(20, 10).
		WillReturnRows(sqlmock.NewRows(patientRowColumns).
			AddRow(int64(21), "Patient 21", nil, nil, nil, nil))

	patients, total, err := repo.ListPatients(context.Background(), 10, 20)

	require.NoError(t, err)
	assert.Equal(t, 45, total)
	require.Len(t, patients, 1)
	assert.Equal(t, int64(21), patients[0].PatientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetPrescription(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(prescriptionQuery).
		WithArgs("RX-1001").
		WillReturnRows(prescriptionRow("1 Main St"))

	p, err := repo.GetPrescription(context.Background(), "RX-1001")

	require.NoError(t, err)
	assert.Equal(t, "RX-1001", p.ReferenceNumber)
	assert.Equal(t, "Jane Doe", p.Patient.Name)
	assert.Equal(t, "1 Main St", p.Patient.Address)
	assert.Empty(t, p.Patient.ContactNumber)
	assert.Equal(t, "Dr. House", p.Doctor.Name)
	assert.Equal(t, "250mg", p.Medicine.Dosage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetPrescription_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(prescriptionQuery).
		WithArgs("RX-404").
		WillReturnRows(sqlmock.NewRows(prescriptionColumns))

	_, err := repo.GetPrescription(context.Background(), "RX-404")

	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, ErrPrescriptionNotFound)
}

func TestRepositorySearchReferences(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE pr.reference_number LIKE $1")).
		WithArgs(`RX\_1%`, MaxReferenceResults).
		WillReturnRows(sqlmock.NewRows([]string{
			"reference_number", "prescribed_on", "patient_id", "name", "doctor_id", "name", "medicine_id", "name",
		}).AddRow("RX_1001", time.Now(), int64(1), "Jane Doe", int64(2), "Dr. House", int64(3), "Amoxicillin"))

	refs, err := repo.SearchReferences(context.Background(), "RX_1")

	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Dr. House", refs[0].DoctorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateDetails_CommitsOnlyTouchedTables(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lookupQuery).
		WithArgs("RX-1001").
		WillReturnRows(sqlmock.NewRows([]string{"patient_id", "doctor_id", "medicine_id"}).AddRow(1, 2, 3))
	mock.ExpectExec("UPDATE patient").
		WithArgs(nil, nil, nil, "2 New Road", nil, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE medicine").
		WithArgs(nil, "250mg", nil, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(prescriptionQuery).
		WithArgs("RX-1001").
		WillReturnRows(prescriptionRow("2 New Road"))
	mock.ExpectCommit()

	p, err := repo.UpdateDetails(context.Background(), UpdateDetailsRequest{
		ReferenceNumber: "RX-1001",
		Patient:         &PatientFields{Address: strPtr("2 New Road")},
		Doctor:          &DoctorFields{},
		Medicine:        &MedicineFields{Dosage: strPtr("250mg")},
	})

	require.NoError(t, err)
	assert.Equal(t, "2 New Road", p.Patient.Address)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateDetails_UnknownReferenceRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lookupQuery).
		WithArgs("RX-404").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.UpdateDetails(context.Background(), UpdateDetailsRequest{
		ReferenceNumber: "RX-404",
		Patient:         &PatientFields{Name: strPtr("Jane")},
	})

	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateDetails_FailureRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lookupQuery).
		WithArgs("RX-1001").
		WillReturnRows(sqlmock.NewRows([]string{"patient_id", "doctor_id", "medicine_id"}).AddRow(1, 2, 3))
	mock.ExpectExec("UPDATE patient").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE doctor").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := repo.UpdateDetails(context.Background(), UpdateDetailsRequest{
		ReferenceNumber: "RX-1001",
		Patient:         &PatientFields{Name: strPtr("Jane")},
		Doctor:          &DoctorFields{Name: strPtr("Dr. Who")},
		Medicine:        &MedicineFields{Name: strPtr("Ibuprofen")},
	})

	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "failed to update doctor")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateDetails_MissingRowRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lookupQuery).
		WithArgs("RX-1001").
		WillReturnRows(sqlmock.NewRows([]string{"patient_id", "doctor_id", "medicine_id"}).AddRow(1, 2, 3))
	mock.ExpectExec("UPDATE medicine").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.UpdateDetails(context.Background(), UpdateDetailsRequest{
		ReferenceNumber: "RX-1001",
		Medicine:        &MedicineFields{Frequency: strPtr("daily")},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 1 row")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateDetails_ConstraintViolationIsInvalidArgument(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lookupQuery).
		WithArgs("RX-1001").
		WillReturnRows(sqlmock.NewRows([]string{"patient_id", "doctor_id", "medicine_id"}).AddRow(1, 2, 3))
	mock.ExpectExec("UPDATE patient").
		WillReturnError(&pq.Error{Code: "23514", Message: "new row violates check constraint"})
	mock.ExpectRollback()

	_, err := repo.UpdateDetails(context.Background(), UpdateDetailsRequest{
		ReferenceNumber: "RX-1001",
		Patient:         &PatientFields{Age: int32Ptr(-4)},
	})

	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.NotContains(t, err.Error(), "check constraint")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `RX\_10\%`, escapeLike("RX_10%"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
