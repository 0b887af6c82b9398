package gateway

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/auth"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/logging"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/rpc"
)

// OperationRecorder receives one observation per resolved root field
type OperationRecorder interface {
	RecordGraphQLOperation(ctx context.Context, field, code string)
}

// Resolver is the root resolver. Each field checks a permission and forwards
// to the records service RPC of the same name.
type Resolver struct {
	client  rpc.RecordsClient
	perms   auth.Permissions
	metrics OperationRecorder
	log     zerolog.Logger
}

// NewResolver builds the root resolver. metrics may be nil.
func NewResolver(client rpc.RecordsClient, perms auth.Permissions, metrics OperationRecorder, log zerolog.Logger) *Resolver {
	return &Resolver{
		client:  client,
		perms:   perms,
		metrics: metrics,
		log:     log.With().Str("component", "graphql").Logger(),
	}
}

func (r *Resolver) GetPatient(ctx context.Context, args struct{ Name string }) ([]*PatientResolver, error) {
	const field = "getPatient"
	if err := auth.Authorize(ctx, auth.PermPatientView, r.perms); err != nil {
		return nil, r.fail(ctx, field, fromAuth(err), err)
	}

	resp, err := r.client.GetPatient(ctx, &rpc.GetPatientRequest{Name: args.Name})
	if err != nil {
		return nil, r.fail(ctx, field, fromRPC(err), err)
	}

	r.observe(ctx, field, "OK")
	return patientResolvers(resp.Patients), nil
}

func (r *Resolver) GetAllPatients(ctx context.Context, args struct {
	Page     *int32
	PageSize *int32
}) (*PatientPageResolver, error) {
	const field = "getAllPatients"
	if err := auth.Authorize(ctx, auth.PermPatientView, r.perms); err != nil {
		return nil, r.fail(ctx, field, fromAuth(err), err)
	}

	resp, err := r.client.GetAllPatients(ctx, &rpc.GetAllPatientsRequest{Page: args.Page, PageSize: args.PageSize})
	if err != nil {
		return nil, r.fail(ctx, field, fromRPC(err), err)
	}

	r.observe(ctx, field, "OK")
	return &PatientPageResolver{patients: resp.Patients, meta: resp.Pagination}, nil
}

func (r *Resolver) GetPrescription(ctx context.Context, args struct{ RefNo string }) (*PrescriptionResolver, error) {
	const field = "getPrescription"
	if err := auth.Authorize(ctx, auth.PermPrescriptionView, r.perms); err != nil {
		return nil, r.fail(ctx, field, fromAuth(err), err)
	}

	resp, err := r.client.GetPrescription(ctx, &rpc.GetPrescriptionRequest{ReferenceNumber: args.RefNo})
	if err != nil {
		return nil, r.fail(ctx, field, fromRPC(err), err)
	}

	r.observe(ctx, field, "OK")
	return &PrescriptionResolver{resp.Prescription}, nil
}

func (r *Resolver) GetReference(ctx context.Context, args struct{ RefNo string }) ([]*ReferenceResolver, error) {
	const field = "getReference"
	if err := auth.Authorize(ctx, auth.PermReferenceView, r.perms); err != nil {
		return nil, r.fail(ctx, field, fromAuth(err), err)
	}

	resp, err := r.client.GetReference(ctx, &rpc.GetReferenceRequest{ReferenceNumber: args.RefNo})
	if err != nil {
		return nil, r.fail(ctx, field, fromRPC(err), err)
	}

	out := make([]*ReferenceResolver, len(resp.References))
	for i := range resp.References {
		out[i] = &ReferenceResolver{resp.References[i]}
	}

	r.observe(ctx, field, "OK")
	return out, nil
}

// UpdatePatientDetailsArgs are the arguments of the updatePatientDetails mutation
type UpdatePatientDetailsArgs struct {
	RefNo    string
	Patient  *PatientInput
	Doctor   *DoctorInput
	Medicine *MedicineInput
}

func (r *Resolver) UpdatePatientDetails(ctx context.Context, args UpdatePatientDetailsArgs) (*PrescriptionResolver, error) {
	const field = "updatePatientDetails"
	if err := auth.Authorize(ctx, auth.PermPatientUpdate, r.perms); err != nil {
		return nil, r.fail(ctx, field, fromAuth(err), err)
	}

	resp, err := r.client.UpdatePatientDetails(ctx, &rpc.UpdatePatientDetailsRequest{
		ReferenceNumber: args.RefNo,
		Patient:         args.Patient.fields(),
		Doctor:          args.Doctor.fields(),
		Medicine:        args.Medicine.fields(),
	})
	if err != nil {
		return nil, r.fail(ctx, field, fromRPC(err), err)
	}

	r.observe(ctx, field, "OK")
	return &PrescriptionResolver{resp.Prescription}, nil
}

func (r *Resolver) fail(ctx context.Context, field string, gqlErr *Error, cause error) error {
	evt := r.log.Debug()
	if gqlErr.Code == CodeInternal || gqlErr.Code == CodeUnavailable {
		evt = r.log.Error()
	}
	evt.Err(cause).
		Str("request_id", logging.RequestID(ctx)).
		Str("field", field).
		Str("code", gqlErr.Code).
		Msg("graphql field failed")

	r.observe(ctx, field, gqlErr.Code)
	return gqlErr
}

func (r *Resolver) observe(ctx context.Context, field, code string) {
	if r.metrics != nil {
		r.metrics.RecordGraphQLOperation(ctx, field, code)
	}
}
