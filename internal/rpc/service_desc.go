package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "records.v1.RecordsService"

const (
	GetPatientMethod           = "/" + ServiceName + "/GetPatient"
	GetAllPatientsMethod       = "/" + ServiceName + "/GetAllPatients"
	GetPrescriptionMethod      = "/" + ServiceName + "/GetPrescription"
	GetReferenceMethod         = "/" + ServiceName + "/GetReference"
	UpdatePatientDetailsMethod = "/" + ServiceName + "/UpdatePatientDetails"
)

// RecordsServer is the server API for the records service
type RecordsServer interface {
	GetPatient(context.Context, *GetPatientRequest) (*GetPatientResponse, error)
	GetAllPatients(context.Context, *GetAllPatientsRequest) (*GetAllPatientsResponse, error)
	GetPrescription(context.Context, *GetPrescriptionRequest) (*GetPrescriptionResponse, error)
	GetReference(context.Context, *GetReferenceRequest) (*GetReferenceResponse, error)
	UpdatePatientDetails(context.Context, *UpdatePatientDetailsRequest) (*UpdatePatientDetailsResponse, error)
}

// RegisterRecordsServer attaches srv to s
func RegisterRecordsServer(s grpc.ServiceRegistrar, srv RecordsServer) {
	s.RegisterService(&RecordsServiceDesc, srv)
}

// RecordsServiceDesc describes records.v1.RecordsService
var RecordsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RecordsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetPatient", Handler: getPatientHandler},
		{MethodName: "GetAllPatients", Handler: getAllPatientsHandler},
		{MethodName: "GetPrescription", Handler: getPrescriptionHandler},
		{MethodName: "GetReference", Handler: getReferenceHandler},
		{MethodName: "UpdatePatientDetails", Handler: updatePatientDetailsHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func getPatientHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetPatientRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecordsServer).GetPatient(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetPatientMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecordsServer).GetPatient(ctx, req.(*GetPatientRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getAllPatientsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetAllPatientsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecordsServer).GetAllPatients(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetAllPatientsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecordsServer).GetAllPatients(ctx, req.(*GetAllPatientsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getPrescriptionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetPrescriptionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecordsServer).GetPrescription(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetPrescriptionMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecordsServer).GetPrescription(ctx, req.(*GetPrescriptionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getReferenceHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetReferenceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecordsServer).GetReference(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetReferenceMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecordsServer).GetReference(ctx, req.(*GetReferenceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func updatePatientDetailsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdatePatientDetailsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecordsServer).UpdatePatientDetails(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: UpdatePatientDetailsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecordsServer).UpdatePatientDetails(ctx, req.(*UpdatePatientDetailsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// RecordsClient is the client API for the records service
type RecordsClient interface {
	GetPatient(ctx context.Context, in *GetPatientRequest, opts ...grpc.CallOption) (*GetPatientResponse, error)
	GetAllPatients(ctx context.Context, in *GetAllPatientsRequest, opts ...grpc.CallOption) (*GetAllPatientsResponse, error)
	GetPrescription(ctx context.Context, in *GetPrescriptionRequest, opts ...grpc.CallOption) (*GetPrescriptionResponse, error)
	GetReference(ctx context.Context, in *GetReferenceRequest, opts ...grpc.CallOption) (*GetReferenceResponse, error)
	UpdatePatientDetails(ctx context.Context, in *UpdatePatientDetailsRequest, opts ...grpc.CallOption) (*UpdatePatientDetailsResponse, error)
}

type recordsClient struct {
	cc grpc.ClientConnInterface
}

// NewRecordsClient returns a stub that sends every call with the JSON codec
func NewRecordsClient(cc grpc.ClientConnInterface) RecordsClient {
	return &recordsClient{cc: cc}
}

func (c *recordsClient) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *recordsClient) GetPatient(ctx context.Context, in *GetPatientRequest, opts ...grpc.CallOption) (*GetPatientResponse, error) {
	out := new(GetPatientResponse)
	if err := c.invoke(ctx, GetPatientMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *recordsClient) GetAllPatients(ctx context.Context, in *GetAllPatientsRequest, opts ...grpc.CallOption) (*GetAllPatientsResponse, error) {
	out := new(GetAllPatientsResponse)
	if err := c.invoke(ctx, GetAllPatientsMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *recordsClient) GetPrescription(ctx context.Context, in *GetPrescriptionRequest, opts ...grpc.CallOption) (*GetPrescriptionResponse, error) {
	out := new(GetPrescriptionResponse)
	if err := c.invoke(ctx, GetPrescriptionMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *recordsClient) GetReference(ctx context.Context, in *GetReferenceRequest, opts ...grpc.CallOption) (*GetReferenceResponse, error) {
	out := new(GetReferenceResponse)
	if err := c.invoke(ctx, GetReferenceMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *recordsClient) UpdatePatientDetails(ctx context.Context, in *UpdatePatientDetailsRequest, opts ...grpc.CallOption) (*UpdatePatientDetailsResponse, error) {
	out := new(UpdatePatientDetailsResponse)
	if err := c.invoke(ctx, UpdatePatientDetailsMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
