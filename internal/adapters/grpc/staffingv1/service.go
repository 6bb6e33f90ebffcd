// Package staffingv1 は staffing.v1.StaffingService の gRPC 定義です。
// メッセージは JSON コーデック (content-subtype "json") で転送されます。
package staffingv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName は完全修飾サービス名です。
const ServiceName = "staffing.v1.StaffingService"

const (
	MethodRegisterEmployee      = "RegisterEmployee"
	MethodGetEmployee           = "GetEmployee"
	MethodUpdateEmployee        = "UpdateEmployee"
	MethodCreateProject         = "CreateProject"
	MethodGetProject            = "GetProject"
	MethodTransitionProject     = "TransitionProject"
	MethodSetProjectPublication = "SetProjectPublication"
	MethodComputeSkillGaps      = "ComputeSkillGaps"
	MethodDetectSkillGaps       = "DetectSkillGaps"
	MethodValidateAssignment    = "ValidateAssignment"
	MethodCreateAssignment      = "CreateAssignment"
	MethodTransitionAssignment  = "TransitionAssignment"
	MethodGetAssignment         = "GetAssignment"
	MethodRequestExternalSearch = "RequestExternalSearch"
	MethodDecideExternalSearch  = "DecideExternalSearch"
	MethodExecuteExternalSearch = "ExecuteExternalSearch"
	MethodListApprovalTasks     = "ListApprovalTasks"
)

// FullMethod は /staffing.v1.StaffingService/<method> 形式の名前を返します。
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// StaffingServiceServer はサーバー側の実装が満たすインターフェースです。
type StaffingServiceServer interface {
	RegisterEmployee(context.Context, *RegisterEmployeeRequest) (*EmployeeResponse, error)
	GetEmployee(context.Context, *GetEmployeeRequest) (*EmployeeResponse, error)
	UpdateEmployee(context.Context, *UpdateEmployeeRequest) (*EmployeeResponse, error)
	CreateProject(context.Context, *CreateProjectRequest) (*ProjectResponse, error)
	GetProject(context.Context, *GetProjectRequest) (*ProjectResponse, error)
	TransitionProject(context.Context, *TransitionProjectRequest) (*ProjectResponse, error)
	SetProjectPublication(context.Context, *SetProjectPublicationRequest) (*ProjectResponse, error)
	ComputeSkillGaps(context.Context, *ComputeSkillGapsRequest) (*ComputeSkillGapsResponse, error)
	DetectSkillGaps(context.Context, *DetectSkillGapsRequest) (*DetectSkillGapsResponse, error)
	ValidateAssignment(context.Context, *ValidateAssignmentRequest) (*ValidateAssignmentResponse, error)
	CreateAssignment(context.Context, *CreateAssignmentRequest) (*AssignmentResponse, error)
	TransitionAssignment(context.Context, *TransitionAssignmentRequest) (*AssignmentResponse, error)
	GetAssignment(context.Context, *GetAssignmentRequest) (*AssignmentResponse, error)
	RequestExternalSearch(context.Context, *RequestExternalSearchRequest) (*ProjectResponse, error)
	DecideExternalSearch(context.Context, *DecideExternalSearchRequest) (*ProjectResponse, error)
	ExecuteExternalSearch(context.Context, *ExecuteExternalSearchRequest) (*ProjectResponse, error)
	ListApprovalTasks(context.Context, *ListApprovalTasksRequest) (*ListApprovalTasksResponse, error)
}

// UnimplementedStaffingServiceServer は未実装のメソッドに Unimplemented を返します。
type UnimplementedStaffingServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedStaffingServiceServer) RegisterEmployee(context.Context, *RegisterEmployeeRequest) (*EmployeeResponse, error) {
	return nil, unimplemented(MethodRegisterEmployee)
}
func (UnimplementedStaffingServiceServer) GetEmployee(context.Context, *GetEmployeeRequest) (*EmployeeResponse, error) {
	return nil, unimplemented(MethodGetEmployee)
}
func (UnimplementedStaffingServiceServer) UpdateEmployee(context.Context, *UpdateEmployeeRequest) (*EmployeeResponse, error) {
	return nil, unimplemented(MethodUpdateEmployee)
}
func (UnimplementedStaffingServiceServer) CreateProject(context.Context, *CreateProjectRequest) (*ProjectResponse, error) {
	return nil, unimplemented(MethodCreateProject)
}
func (UnimplementedStaffingServiceServer) GetProject(context.Context, *GetProjectRequest) (*ProjectResponse, error) {
	return nil, unimplemented(MethodGetProject)
}
func (UnimplementedStaffingServiceServer) TransitionProject(context.Context, *TransitionProjectRequest) (*ProjectResponse, error) {
	return nil, unimplemented(MethodTransitionProject)
}
func (UnimplementedStaffingServiceServer) SetProjectPublication(context.Context, *SetProjectPublicationRequest) (*ProjectResponse, error) {
	return nil, unimplemented(MethodSetProjectPublication)
}
func (UnimplementedStaffingServiceServer) ComputeSkillGaps(context.Context, *ComputeSkillGapsRequest) (*ComputeSkillGapsResponse, error) {
	return nil, unimplemented(MethodComputeSkillGaps)
}
func (UnimplementedStaffingServiceServer) DetectSkillGaps(context.Context, *DetectSkillGapsRequest) (*DetectSkillGapsResponse, error) {
	return nil, unimplemented(MethodDetectSkillGaps)
}
func (UnimplementedStaffingServiceServer) ValidateAssignment(context.Context, *ValidateAssignmentRequest) (*ValidateAssignmentResponse, error) {
	return nil, unimplemented(MethodValidateAssignment)
}
func (UnimplementedStaffingServiceServer) CreateAssignment(context.Context, *CreateAssignmentRequest) (*AssignmentResponse, error) {
	return nil, unimplemented(MethodCreateAssignment)
}
func (UnimplementedStaffingServiceServer) TransitionAssignment(context.Context, *TransitionAssignmentRequest) (*AssignmentResponse, error) {
	return nil, unimplemented(MethodTransitionAssignment)
}
func (UnimplementedStaffingServiceServer) GetAssignment(context.Context, *GetAssignmentRequest) (*AssignmentResponse, error) {
	return nil, unimplemented(MethodGetAssignment)
}
func (UnimplementedStaffingServiceServer) RequestExternalSearch(context.Context, *RequestExternalSearchRequest) (*ProjectResponse, error) {
	return nil, unimplemented(MethodRequestExternalSearch)
}
func (UnimplementedStaffingServiceServer) DecideExternalSearch(context.Context, *DecideExternalSearchRequest) (*ProjectResponse, error) {
	return nil, unimplemented(MethodDecideExternalSearch)
}
func (UnimplementedStaffingServiceServer) ExecuteExternalSearch(context.Context, *ExecuteExternalSearchRequest) (*ProjectResponse, error) {
	return nil, unimplemented(MethodExecuteExternalSearch)
}
func (UnimplementedStaffingServiceServer) ListApprovalTasks(context.Context, *ListApprovalTasksRequest) (*ListApprovalTasksResponse, error) {
	return nil, unimplemented(MethodListApprovalTasks)
}

// unary は型付きのメソッド呼び出しを grpc.MethodDesc に変換します。
func unary[Req, Resp any](method string, call func(StaffingServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(StaffingServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(StaffingServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc は StaffingService の grpc.ServiceDesc です。
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StaffingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodRegisterEmployee, StaffingServiceServer.RegisterEmployee),
		unary(MethodGetEmployee, StaffingServiceServer.GetEmployee),
		unary(MethodUpdateEmployee, StaffingServiceServer.UpdateEmployee),
		unary(MethodCreateProject, StaffingServiceServer.CreateProject),
		unary(MethodGetProject, StaffingServiceServer.GetProject),
		unary(MethodTransitionProject, StaffingServiceServer.TransitionProject),
		unary(MethodSetProjectPublication, StaffingServiceServer.SetProjectPublication),
		unary(MethodComputeSkillGaps, StaffingServiceServer.ComputeSkillGaps),
		unary(MethodDetectSkillGaps, StaffingServiceServer.DetectSkillGaps),
		unary(MethodValidateAssignment, StaffingServiceServer.ValidateAssignment),
		unary(MethodCreateAssignment, StaffingServiceServer.CreateAssignment),
		unary(MethodTransitionAssignment, StaffingServiceServer.TransitionAssignment),
		unary(MethodGetAssignment, StaffingServiceServer.GetAssignment),
		unary(MethodRequestExternalSearch, StaffingServiceServer.RequestExternalSearch),
		unary(MethodDecideExternalSearch, StaffingServiceServer.DecideExternalSearch),
		unary(MethodExecuteExternalSearch, StaffingServiceServer.ExecuteExternalSearch),
		unary(MethodListApprovalTasks, StaffingServiceServer.ListApprovalTasks),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "staffing/v1/staffing.proto",
}

// RegisterStaffingServiceServer は srv を s に登録します。
func RegisterStaffingServiceServer(s grpc.ServiceRegistrar, srv StaffingServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// StaffingServiceClient は StaffingService のクライアントです。すべての呼び出しは JSON コーデックを使います。
type StaffingServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewStaffingServiceClient は StaffingServiceClient を生成します。
func NewStaffingServiceClient(cc grpc.ClientConnInterface) *StaffingServiceClient {
	return &StaffingServiceClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, c *StaffingServiceClient, method string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StaffingServiceClient) RegisterEmployee(ctx context.Context, in *RegisterEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error) {
	return invoke[RegisterEmployeeRequest, EmployeeResponse](ctx, c, MethodRegisterEmployee, in, opts...)
}

func (c *StaffingServiceClient) GetEmployee(ctx context.Context, in *GetEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error) {
	return invoke[GetEmployeeRequest, EmployeeResponse](ctx, c, MethodGetEmployee, in, opts...)
}

func (c *StaffingServiceClient) UpdateEmployee(ctx context.Context, in *UpdateEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error) {
	return invoke[UpdateEmployeeRequest, EmployeeResponse](ctx, c, MethodUpdateEmployee, in, opts...)
}

func (c *StaffingServiceClient) CreateProject(ctx context.Context, in *CreateProjectRequest, opts ...grpc.CallOption) (*ProjectResponse, error) {
	return invoke[CreateProjectRequest, ProjectResponse](ctx, c, MethodCreateProject, in, opts...)
}

func (c *StaffingServiceClient) GetProject(ctx context.Context, in *GetProjectRequest, opts ...grpc.CallOption) (*ProjectResponse, error) {
	return invoke[GetProjectRequest, ProjectResponse](ctx, c, MethodGetProject, in, opts...)
}

func (c *StaffingServiceClient) TransitionProject(ctx context.Context, in *TransitionProjectRequest, opts ...grpc.CallOption) (*ProjectResponse, error) {
	return invoke[TransitionProjectRequest, ProjectResponse](ctx, c, MethodTransitionProject, in, opts...)
}

func (c *StaffingServiceClient) SetProjectPublication(ctx context.Context, in *SetProjectPublicationRequest, opts ...grpc.CallOption) (*ProjectResponse, error) {
	return invoke[SetProjectPublicationRequest, ProjectResponse](ctx, c, MethodSetProjectPublication, in, opts...)
}

func (c *StaffingServiceClient) ComputeSkillGaps(ctx context.Context, in *ComputeSkillGapsRequest, opts ...grpc.CallOption) (*ComputeSkillGapsResponse, error) {
	return invoke[ComputeSkillGapsRequest, ComputeSkillGapsResponse](ctx, c, MethodComputeSkillGaps, in, opts...)
}

func (c *StaffingServiceClient) DetectSkillGaps(ctx context.Context, in *DetectSkillGapsRequest, opts ...grpc.CallOption) (*DetectSkillGapsResponse, error) {
	return invoke[DetectSkillGapsRequest, DetectSkillGapsResponse](ctx, c, MethodDetectSkillGaps, in, opts...)
}

func (c *StaffingServiceClient) ValidateAssignment(ctx context.Context, in *ValidateAssignmentRequest, opts ...grpc.CallOption) (*ValidateAssignmentResponse, error) {
	return invoke[ValidateAssignmentRequest, ValidateAssignmentResponse](ctx, c, MethodValidateAssignment, in, opts...)
}

func (c *StaffingServiceClient) CreateAssignment(ctx context.Context, in *CreateAssignmentRequest, opts ...grpc.CallOption) (*AssignmentResponse, error) {
	return invoke[CreateAssignmentRequest, AssignmentResponse](ctx, c, MethodCreateAssignment, in, opts...)
}

func (c *StaffingServiceClient) TransitionAssignment(ctx context.Context, in *TransitionAssignmentRequest, opts ...grpc.CallOption) (*AssignmentResponse, error) {
	return invoke[TransitionAssignmentRequest, AssignmentResponse](ctx, c, MethodTransitionAssignment, in, opts...)
}

func (c *StaffingServiceClient) GetAssignment(ctx context.Context, in *GetAssignmentRequest, opts ...grpc.CallOption) (*AssignmentResponse, error) {
	return invoke[GetAssignmentRequest, AssignmentResponse](ctx, c, MethodGetAssignment, in, opts...)
}

func (c *StaffingServiceClient) RequestExternalSearch(ctx context.Context, in *RequestExternalSearchRequest, opts ...grpc.CallOption) (*ProjectResponse, error) {
	return invoke[RequestExternalSearchRequest, ProjectResponse](ctx, c, MethodRequestExternalSearch, in, opts...)
}

func (c *StaffingServiceClient) DecideExternalSearch(ctx context.Context, in *DecideExternalSearchRequest, opts ...grpc.CallOption) (*ProjectResponse, error) {
	return invoke[DecideExternalSearchRequest, ProjectResponse](ctx, c, MethodDecideExternalSearch, in, opts...)
}

func (c *StaffingServiceClient) ExecuteExternalSearch(ctx context.Context, in *ExecuteExternalSearchRequest, opts ...grpc.CallOption) (*ProjectResponse, error) {
	return invoke[ExecuteExternalSearchRequest, ProjectResponse](ctx, c, MethodExecuteExternalSearch, in, opts...)
}

func (c *StaffingServiceClient) ListApprovalTasks(ctx context.Context, in *ListApprovalTasksRequest, opts ...grpc.CallOption) (*ListApprovalTasksResponse, error) {
	return invoke[ListApprovalTasksRequest, ListApprovalTasksResponse](ctx, c, MethodListApprovalTasks, in, opts...)
}
