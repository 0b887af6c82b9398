package rpc

import (
	"github.com/WailSalutem-Health-Care/prescription-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/records"
)

type GetPatientRequest struct {
	Name string `json:"name"`
}

type GetPatientResponse struct {
	Patients []records.Patient `json:"patients"`
}

// GetAllPatientsRequest leaves Page and PageSize nil to use the defaults
type GetAllPatientsRequest struct {
	Page     *int32 `json:"page,omitempty"`
	PageSize *int32 `json:"page_size,omitempty"`
}

type GetAllPatientsResponse struct {
	Patients   []records.Patient `json:"patients"`
	Pagination pagination.Meta   `json:"pagination"`
}

type GetPrescriptionRequest struct {
	ReferenceNumber string `json:"reference_number"`
}

type GetPrescriptionResponse struct {
	Prescription records.Prescription `json:"prescription"`
}

// GetReferenceRequest matches every reference number starting with ReferenceNumber
type GetReferenceRequest struct {
	ReferenceNumber string `json:"reference_number"`
}

type GetReferenceResponse struct {
	References []records.Reference `json:"references"`
}

type UpdatePatientDetailsRequest struct {
	ReferenceNumber string                  `json:"reference_number"`
	Patient         *records.PatientFields  `json:"patient,omitempty"`
	Doctor          *records.DoctorFields   `json:"doctor,omitempty"`
	Medicine        *records.MedicineFields `json:"medicine,omitempty"`
}

type UpdatePatientDetailsResponse struct {
	Prescription records.Prescription `json:"prescription"`
}
