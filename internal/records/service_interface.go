package records

import (
	"context"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/pagination"
)

// ServiceInterface defines the contract for the records operations served over RPC
type ServiceInterface interface {
	GetPatient(ctx context.Context, name string) ([]Patient, error)
	GetAllPatients(ctx context.Context, params pagination.Params) (*PatientPage, error)
	GetPrescription(ctx context.Context, referenceNumber string) (*Prescription, error)
	GetReference(ctx context.Context, pattern string) ([]Reference, error)
	UpdatePatientDetails(ctx context.Context, req UpdateDetailsRequest) (*Prescription, error)
}

// MetricsRecorder records the outcome of records operations
type MetricsRecorder interface {
	RecordRecordsOperation(ctx context.Context, operation, outcome string)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
