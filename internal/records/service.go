package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/pagination"
)

var validate = validator.New()

type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
	log       zerolog.Logger
}

// NewService wires the records service. publisher and metrics may be nil.
func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface, metrics MetricsRecorder, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		log:       log.With().Str("component", "records").Logger(),
	}
}

func (s *Service) GetPatient(ctx context.Context, name string) ([]Patient, error) {
	name = strings.TrimSpace(name)
	if validate.Var(name, "required,max=200") != nil {
		err := fmt.Errorf("%w: name is required and must be at most 200 characters", ErrInvalidArgument)
		s.record(ctx, "get_patient", err)
		return nil, err
	}

	patients, err := s.repo.FindPatientsByName(ctx, name)
	if err != nil {
		s.record(ctx, "get_patient", err)
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	if len(patients) == 0 {
		err = ErrPatientNotFound
		s.record(ctx, "get_patient", err)
		return nil, err
	}

	s.record(ctx, "get_patient", nil)
	return patients, nil
}

func (s *Service) GetAllPatients(ctx context.Context, params pagination.Params) (*PatientPage, error) {
	params.Validate()

	patients, total, err := s.repo.ListPatients(ctx, params.PageSize, params.CalculateOffset())
	if err != nil {
		s.record(ctx, "get_all_patients", err)
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	if patients == nil {
		patients = []Patient{}
	}

	s.record(ctx, "get_all_patients", nil)
	return &PatientPage{
		Patients:   patients,
		Pagination: params.CalculateMeta(total),
	}, nil
}

func (s *Service) GetPrescription(ctx context.Context, referenceNumber string) (*Prescription, error) {
	referenceNumber = strings.TrimSpace(referenceNumber)
	if validate.Var(referenceNumber, "required,max=64") != nil {
		err := fmt.Errorf("%w: reference number is required", ErrInvalidArgument)
		s.record(ctx, "get_prescription", err)
		return nil, err
	}

	prescription, err := s.repo.GetPrescription(ctx, referenceNumber)
	if err != nil {
		s.record(ctx, "get_prescription", err)
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}

	s.record(ctx, "get_prescription", nil)
	return prescription, nil
}

func (s *Service) GetReference(ctx context.Context, pattern string) ([]Reference, error) {
	pattern = strings.TrimSpace(pattern)
	if validate.Var(pattern, "required,max=64") != nil {
		err := fmt.Errorf("%w: reference number is required", ErrInvalidArgument)
		s.record(ctx, "get_reference", err)
		return nil, err
	}

	refs, err := s.repo.SearchReferences(ctx, pattern)
	if err != nil {
		s.record(ctx, "get_reference", err)
		return nil, fmt.Errorf("failed to search references: %w", err)
	}
	if len(refs) == 0 {
		err = ErrReferenceNotFound
		s.record(ctx, "get_reference", err)
		return nil, err
	}

	s.record(ctx, "get_reference", nil)
	return refs, nil
}

func (s *Service) UpdatePatientDetails(ctx context.Context, req UpdateDetailsRequest) (*Prescription, error) {
	req.ReferenceNumber = strings.TrimSpace(req.ReferenceNumber)
	if verr := validate.Struct(req); verr != nil {
		err := fmt.Errorf("%w: %s", ErrInvalidArgument, verr.Error())
		s.record(ctx, "update_patient_details", err)
		return nil, err
	}
	if !req.HasChanges() {
		err := fmt.Errorf("%w: %w", ErrInvalidArgument, ErrNoFieldsToUpdate)
		s.record(ctx, "update_patient_details", err)
		return nil, err
	}

	prescription, err := s.repo.UpdateDetails(ctx, req)
	if err != nil {
		s.record(ctx, "update_patient_details", err)
		if Outcome(err) == "internal" {
			s.log.Error().Err(err).Str("reference_number", req.ReferenceNumber).Msg("update transaction rolled back")
		}
		return nil, fmt.Errorf("failed to update patient details: %w", err)
	}

	s.record(ctx, "update_patient_details", nil)
	s.log.Info().
		Str("reference_number", req.ReferenceNumber).
		Strs("tables", updatedTables(req)).
		Msg("patient details updated")

	s.publishUpdated(ctx, req, prescription)
	return prescription, nil
}

// publishUpdated never fails the caller: the transaction is already committed.
func (s *Service) publishUpdated(ctx context.Context, req UpdateDetailsRequest, p *Prescription) {
	if s.publisher == nil {
		return
	}

	event := messaging.PrescriptionUpdatedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventPrescriptionUpdated),
		Data: messaging.PrescriptionUpdatedData{
			ReferenceNumber: p.ReferenceNumber,
			PatientID:       p.Patient.PatientID,
			DoctorID:        p.Doctor.DoctorID,
			MedicineID:      p.Medicine.MedicineID,
			UpdatedTables:   updatedTables(req),
			UpdatedAt:       time.Now().UTC(),
		},
	}

	if err := s.publisher.Publish(ctx, messaging.EventPrescriptionUpdated, event); err != nil {
		s.log.Warn().Err(err).Str("reference_number", p.ReferenceNumber).Msg("failed to publish prescription.updated event")
	}
}

func (s *Service) record(ctx context.Context, operation string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordRecordsOperation(ctx, operation, Outcome(err))
}

// Outcome classifies err for metrics and logs
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsNotFound(err):
		return "not_found"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "internal"
	}
}

func updatedTables(req UpdateDetailsRequest) []string {
	var tables []string
	if req.Patient.HasChanges() {
		tables = append(tables, "patient")
	}
	if req.Doctor.HasChanges() {
		tables = append(tables, "doctor")
	}
	if req.Medicine.HasChanges() {
		tables = append(tables, "medicine")
	}
	return tables
}
