package grpc

// service.go hand-writes the registration code for amortization.v1.LoanService.
// Messages are plain structs carried by the JSON codec, so there is no
// generated protobuf package.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "amortization.v1.LoanService"

// LoanServiceServer is the server API for LoanService.
type LoanServiceServer interface {
	CreateLoan(context.Context, *CreateLoanRequest) (*CreateLoanResponse, error)
	ListLoans(context.Context, *ListLoansRequest) (*ListLoansResponse, error)
	GetSchedule(context.Context, *GetScheduleRequest) (*GetScheduleResponse, error)
	GetMonthSummary(context.Context, *GetMonthSummaryRequest) (*GetMonthSummaryResponse, error)
	ShareLoan(context.Context, *ShareLoanRequest) (*ShareLoanResponse, error)
	mustEmbedUnimplementedLoanServiceServer()
}

// UnimplementedLoanServiceServer provides forward-compatible default implementations.
type UnimplementedLoanServiceServer struct{}

func (UnimplementedLoanServiceServer) CreateLoan(context.Context, *CreateLoanRequest) (*CreateLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateLoan not implemented")
}
func (UnimplementedLoanServiceServer) ListLoans(context.Context, *ListLoansRequest) (*ListLoansResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListLoans not implemented")
}
func (UnimplementedLoanServiceServer) GetSchedule(context.Context, *GetScheduleRequest) (*GetScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetSchedule not implemented")
}
func (UnimplementedLoanServiceServer) GetMonthSummary(context.Context, *GetMonthSummaryRequest) (*GetMonthSummaryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetMonthSummary not implemented")
}
func (UnimplementedLoanServiceServer) ShareLoan(context.Context, *ShareLoanRequest) (*ShareLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ShareLoan not implemented")
}
func (UnimplementedLoanServiceServer) mustEmbedUnimplementedLoanServiceServer() {}

// RegisterLoanServiceServer registers srv with the gRPC server.
func RegisterLoanServiceServer(s *grpclib.Server, srv LoanServiceServer) {
	s.RegisterService(&loanServiceDesc, srv)
}

// unaryHandler builds the MethodDesc handler for one RPC.
func unaryHandler[Req any, Resp any](
	method string,
	call func(LoanServiceServer, context.Context, *Req) (*Resp, error),
) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LoanServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(LoanServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var loanServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LoanServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "CreateLoan", Handler: unaryHandler("CreateLoan", LoanServiceServer.CreateLoan)},
		{MethodName: "ListLoans", Handler: unaryHandler("ListLoans", LoanServiceServer.ListLoans)},
		{MethodName: "GetSchedule", Handler: unaryHandler("GetSchedule", LoanServiceServer.GetSchedule)},
		{MethodName: "GetMonthSummary", Handler: unaryHandler("GetMonthSummary", LoanServiceServer.GetMonthSummary)},
		{MethodName: "ShareLoan", Handler: unaryHandler("ShareLoan", LoanServiceServer.ShareLoan)},
	},
	Streams: []grpclib.StreamDesc{},
}
