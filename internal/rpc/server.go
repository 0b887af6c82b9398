package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/records"
)

// Server exposes a records.ServiceInterface as records.v1.RecordsService
type Server struct {
	svc records.ServiceInterface
}

func NewServer(svc records.ServiceInterface) *Server {
	return &Server{svc: svc}
}

var _ RecordsServer = (*Server)(nil)

func (s *Server) GetPatient(ctx context.Context, req *GetPatientRequest) (*GetPatientResponse, error) {
	patients, err := s.svc.GetPatient(ctx, req.Name)
	if err != nil {
		return nil, toStatus(err)
	}
	return &GetPatientResponse{Patients: patients}, nil
}

func (s *Server) GetAllPatients(ctx context.Context, req *GetAllPatientsRequest) (*GetAllPatientsResponse, error) {
	page, err := s.svc.GetAllPatients(ctx, pagination.FromArgs(req.Page, req.PageSize))
	if err != nil {
		return nil, toStatus(err)
	}
	return &GetAllPatientsResponse{
		Patients:   page.Patients,
		Pagination: page.Pagination,
	}, nil
}

func (s *Server) GetPrescription(ctx context.Context, req *GetPrescriptionRequest) (*GetPrescriptionResponse, error) {
	p, err := s.svc.GetPrescription(ctx, req.ReferenceNumber)
	if err != nil {
		return nil, toStatus(err)
	}
	return &GetPrescriptionResponse{Prescription: *p}, nil
}

func (s *Server) GetReference(ctx context.Context, req *GetReferenceRequest) (*GetReferenceResponse, error) {
	refs, err := s.svc.GetReference(ctx, req.ReferenceNumber)
	if err != nil {
		return nil, toStatus(err)
	}
	return &GetReferenceResponse{References: refs}, nil
}

func (s *Server) UpdatePatientDetails(ctx context.Context, req *UpdatePatientDetailsRequest) (*UpdatePatientDetailsResponse, error) {
	p, err := s.svc.UpdatePatientDetails(ctx, records.UpdateDetailsRequest{
		ReferenceNumber: req.ReferenceNumber,
		Patient:         req.Patient,
		Doctor:          req.Doctor,
		Medicine:        req.Medicine,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &UpdatePatientDetailsResponse{Prescription: *p}, nil
}

var notFoundErrors = []error{
	records.ErrPatientNotFound,
	records.ErrPrescriptionNotFound,
	records.ErrReferenceNotFound,
}

// toStatus maps service errors onto gRPC codes. Internal errors carry a
// fixed message so database details stay on the server.
func toStatus(err error) error {
	switch {
	case records.IsNotFound(err):
		for _, target := range notFoundErrors {
			if errors.Is(err, target) {
				return status.Error(codes.NotFound, target.Error())
			}
		}
		return status.Error(codes.NotFound, records.ErrNotFound.Error())
	case errors.Is(err, records.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
