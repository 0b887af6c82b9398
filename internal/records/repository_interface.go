package records

import "context"

// RepositoryInterface defines the contract for prescription data access
type RepositoryInterface interface {
	FindPatientsByName(ctx context.Context, name string) ([]Patient, error)
	ListPatients(ctx context.Context, limit, offset int) ([]Patient, int, error)
	GetPrescription(ctx context.Context, referenceNumber string) (*Prescription, error)
	SearchReferences(ctx context.Context, pattern string) ([]Reference, error)
	UpdateDetails(ctx context.Context, req UpdateDetailsRequest) (*Prescription, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
