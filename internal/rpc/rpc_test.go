package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/logging"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/records"
)

// mockService implements records.ServiceInterface for testing
type mockService struct {
	getPatientFunc           func(ctx context.Context, name string) ([]records.Patient, error)
	getAllPatientsFunc       func(ctx context.Context, params pagination.Params) (*records.PatientPage, error)
	getPrescriptionFunc      func(ctx context.Context, referenceNumber string) (*records.Prescription, error)
	getReferenceFunc         func(ctx context.Context, pattern string) ([]records.Reference, error)
	updatePatientDetailsFunc func(ctx context.Context, req records.UpdateDetailsRequest) (*records.Prescription, error)
}

func (m *mockService) GetPatient(ctx context.Context, name string) ([]records.Patient, error) {
	if m.getPatientFunc != nil {
		return m.getPatientFunc(ctx, name)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) GetAllPatients(ctx context.Context, params pagination.Params) (*records.PatientPage, error) {
	if m.getAllPatientsFunc != nil {
		return m.getAllPatientsFunc(ctx, params)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) GetPrescription(ctx context.Context, referenceNumber string) (*records.Prescription, error) {
	if m.getPrescriptionFunc != nil {
		return m.getPrescriptionFunc(ctx, referenceNumber)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) GetReference(ctx context.Context, pattern string) ([]records.Reference, error) {
	if m.getReferenceFunc != nil {
		return m.getReferenceFunc(ctx, pattern)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) UpdatePatientDetails(ctx context.Context, req records.UpdateDetailsRequest) (*records.Prescription, error) {
	if m.updatePatientDetailsFunc != nil {
		return m.updatePatientDetailsFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

type recordedCall struct {
	method string
	code   string
}

type mockRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (m *mockRecorder) RecordRPCCall(ctx context.Context, method, code string, durationMs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, recordedCall{method: method, code: code})
}

// startServer serves svc over an in-memory listener and returns a connected client
func startServer(t *testing.T, svc records.ServiceInterface, recorder CallRecorder) RecordsClient {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer(ServerInterceptors(zerolog.Nop(), recorder))
	RegisterRecordsServer(s, NewServer(svc))

	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	client, conn, err := Dial(
		ClientConfig{Address: "bufnet", CallTimeout: 2 * time.Second},
		recorder,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return client
}

func int32Ptr(i int32) *int32 { return &i }
func strPtr(s string) *string  { return &s }

func samplePrescription() *records.Prescription {
	age := int32(42)
	return &records.Prescription{
		ReferenceNumber: "RX-1001",
		PrescribedOn:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Patient:         records.Patient{PatientID: 1, Name: "Jane Doe", Age: &age},
		Doctor:          records.Doctor{DoctorID: 2, Name: "Dr. House"},
		Medicine:        records.Medicine{MedicineID: 3, Name: "Amoxicillin", Dosage: "500mg"},
	}
}

func TestRoundTrip_GetPrescription(t *testing.T) {
	svc := &mockService{
		getPrescriptionFunc: func(ctx context.Context, referenceNumber string) (*records.Prescription, error) {
			assert.Equal(t, "RX-1001", referenceNumber)
			return samplePrescription(), nil
		},
	}
	client := startServer(t, svc, nil)

	resp, err := client.GetPrescription(context.Background(), &GetPrescriptionRequest{ReferenceNumber: "RX-1001"})

	require.NoError(t, err)
	assert.Equal(t, *samplePrescription(), resp.Prescription)
}

func TestRoundTrip_GetAllPatientsAppliesDefaults(t *testing.T) {
	svc := &mockService{
		getAllPatientsFunc: func(ctx context.Context, params pagination.Params) (*records.PatientPage, error) {
			assert.Equal(t, pagination.Params{Page: 3, PageSize: pagination.DefaultPageSize}, params)
			return &records.PatientPage{
				Patients:   []records.Patient{{PatientID: 41, Name: "P41"}},
				Pagination: params.CalculateMeta(41),
			}, nil
		},
	}
	client := startServer(t, svc, nil)

	resp, err := client.GetAllPatients(context.Background(), &GetAllPatientsRequest{Page: int32Ptr(3)})

	require.NoError(t, err)
	require.Len(t, resp.Patients, 1)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.False(t, resp.Pagination.HasNext)
}

func TestRoundTrip_UpdatePatientDetailsPassesPartialFields(t *testing.T) {
	svc := &mockService{
		updatePatientDetailsFunc: func(ctx context.Context, req records.UpdateDetailsRequest) (*records.Prescription, error) {
			require.NotNil(t, req.Patient)
			assert.Nil(t, req.Patient.Name)
			assert.Equal(t, "2 New Road", *req.Patient.Address)
			assert.Nil(t, req.Doctor)
			return samplePrescription(), nil
		},
	}
	client := startServer(t, svc, nil)

	resp, err := client.UpdatePatientDetails(context.Background(), &UpdatePatientDetailsRequest{
		ReferenceNumber: "RX-1001",
		Patient:         &records.PatientFields{Address: strPtr("2 New Road")},
	})

	require.NoError(t, err)
	assert.Equal(t, "RX-1001", resp.Prescription.ReferenceNumber)
}

func TestRoundTrip_ErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode codes.Code
		wantMsg  string
	}{
		{
			name:     "not found",
			err:      fmt.Errorf("failed to get patient: %w", records.ErrPatientNotFound),
			wantCode: codes.NotFound,
			wantMsg:  records.ErrPatientNotFound.Error(),
		},
		{
			name:     "invalid argument",
			err:      fmt.Errorf("%w: name is required", records.ErrInvalidArgument),
			wantCode: codes.InvalidArgument,
			wantMsg:  "invalid argument: name is required",
		},
		{
			name:     "database failure is hidden",
			err:      errors.New(`pq: relation "patient" does not exist`),
			wantCode: codes.Internal,
			wantMsg:  "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{
				getPatientFunc: func(ctx context.Context, name string) ([]records.Patient, error) {
					return nil, tt.err
				},
			}
			client := startServer(t, svc, nil)

			_, err := client.GetPatient(context.Background(), &GetPatientRequest{Name: "x"})

			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, st.Code())
			assert.Equal(t, tt.wantMsg, st.Message())
		})
	}
}

func TestToStatus_Context(t *testing.T) {
	assert.Equal(t, codes.DeadlineExceeded, status.Code(toStatus(fmt.Errorf("query: %w", context.DeadlineExceeded))))
	assert.Equal(t, codes.Canceled, status.Code(toStatus(context.Canceled)))
}

func TestRequestIDAndMetricsPropagate(t *testing.T) {
	var seen string
	svc := &mockService{
		getReferenceFunc: func(ctx context.Context, pattern string) ([]records.Reference, error) {
			seen = logging.RequestID(ctx)
			return []records.Reference{{ReferenceNumber: "RX-1001"}}, nil
		},
	}
	recorder := &mockRecorder{}
	client := startServer(t, svc, recorder)

	ctx := logging.WithRequestID(context.Background(), "req-42")
	resp, err := client.GetReference(ctx, &GetReferenceRequest{ReferenceNumber: "RX"})

	require.NoError(t, err)
	require.Len(t, resp.References, 1)
	assert.Equal(t, "req-42", seen)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	assert.Contains(t, recorder.calls, recordedCall{method: GetReferenceMethod, code: "OK"})
}

func TestClientTimeout(t *testing.T) {
	svc := &mockService{
		getPatientFunc: func(ctx context.Context, name string) ([]records.Patient, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	RegisterRecordsServer(s, NewServer(svc))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	client, conn, err := Dial(
		ClientConfig{Address: "bufnet", CallTimeout: 50 * time.Millisecond},
		nil,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	defer conn.Close()

	_, err = client.GetPatient(context.Background(), &GetPatientRequest{Name: "slow"})

	assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
}

func TestLoadClientConfig(t *testing.T) {
	t.Setenv("RECORDS_SERVICE_ADDR", "")
	t.Setenv("RECORDS_CALL_TIMEOUT", "250ms")

	cfg := LoadClientConfig()

	assert.Equal(t, "localhost:9090", cfg.Address)
	assert.Equal(t, 250*time.Millisecond, cfg.CallTimeout)
}
