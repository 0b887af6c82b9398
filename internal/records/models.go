package records

import (
	"time"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/pagination"
)

// Patient represents a row of the patient table
type Patient struct {
	PatientID     int64  `json:"patient_id"`
	Name          string `json:"name"`
	Age           *int32 `json:"age,omitempty"`
	Gender        string `json:"gender,omitempty"`
	Address       string `json:"address,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
}

// Doctor represents a row of the doctor table
type Doctor struct {
	DoctorID       int64  `json:"doctor_id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
	ContactNumber  string `json:"contact_number,omitempty"`
}

// Medicine represents a row of the medicine table
type Medicine struct {
	MedicineID int64  `json:"medicine_id"`
	Name       string `json:"name"`
	Dosage     string `json:"dosage,omitempty"`
	Frequency  string `json:"frequency,omitempty"`
}

// Prescription is a prescription_reference row joined with the rows it points at
type Prescription struct {
	ReferenceNumber string    `json:"reference_number"`
	PrescribedOn    time.Time `json:"prescribed_on"`
	Patient         Patient   `json:"patient"`
	Doctor          Doctor    `json:"doctor"`
	Medicine        Medicine  `json:"medicine"`
}

// Reference is the summary returned by reference searches
type Reference struct {
	ReferenceNumber string    `json:"reference_number"`
	PrescribedOn    time.Time `json:"prescribed_on"`
	PatientID       int64     `json:"patient_id"`
	PatientName     string    `json:"patient_name"`
	DoctorID        int64     `json:"doctor_id"`
	DoctorName      string    `json:"doctor_name"`
	MedicineID      int64     `json:"medicine_id"`
	MedicineName    string    `json:"medicine_name"`
}

// PatientPage is one page of the patient listing
type PatientPage struct {
	Patients   []Patient       `json:"patients"`
	Pagination pagination.Meta `json:"pagination"`
}

// PatientFields holds the patient columns an update may touch. Nil leaves the column unchanged.
type PatientFields struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Age           *int32  `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Gender        *string `json:"gender,omitempty" validate:"omitempty,max=32"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=500"`
	ContactNumber *string `json:"contact_number,omitempty" validate:"omitempty,max=32"`
}

// DoctorFields holds the doctor columns an update may touch
type DoctorFields struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Specialization *string `json:"specialization,omitempty" validate:"omitempty,max=200"`
	ContactNumber  *string `json:"contact_number,omitempty" validate:"omitempty,max=32"`
}

// MedicineFields holds the medicine columns an update may touch
type MedicineFields struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Dosage    *string `json:"dosage,omitempty" validate:"omitempty,max=100"`
	Frequency *string `json:"frequency,omitempty" validate:"omitempty,max=100"`
}

// UpdateDetailsRequest represents a partial update of the rows behind one reference number
type UpdateDetailsRequest struct {
	ReferenceNumber string          `json:"reference_number" validate:"required,max=64"`
	Patient         *PatientFields  `json:"patient,omitempty" validate:"omitempty"`
	Doctor          *DoctorFields   `json:"doctor,omitempty" validate:"omitempty"`
	Medicine        *MedicineFields `json:"medicine,omitempty" validate:"omitempty"`
}

// HasChanges reports whether any patient column is set
func (f *PatientFields) HasChanges() bool {
	if f == nil {
		return false
	}
	return f.Name != nil || f.Age != nil || f.Gender != nil || f.Address != nil || f.ContactNumber != nil
}

// HasChanges reports whether any doctor column is set
func (f *DoctorFields) HasChanges() bool {
	if f == nil {
		return false
	}
	return f.Name != nil || f.Specialization != nil || f.ContactNumber != nil
}

// HasChanges reports whether any medicine column is set
func (f *MedicineFields) HasChanges() bool {
	if f == nil {
		return false
	}
	return f.Name != nil || f.Dosage != nil || f.Frequency != nil
}

// HasChanges reports whether the request touches at least one table
func (r UpdateDetailsRequest) HasChanges() bool {
	return r.Patient.HasChanges() || r.Doctor.HasChanges() || r.Medicine.HasChanges()
}
