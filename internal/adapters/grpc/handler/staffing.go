package handler

import (
	"context"

	"github.com/ogurasousui/staffing-workflow/internal/adapters/grpc/staffingv1"
	"github.com/ogurasousui/staffing-workflow/internal/core/assignment"
	"github.com/ogurasousui/staffing-workflow/internal/core/employee"
	"github.com/ogurasousui/staffing-workflow/internal/core/escalation"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
	"github.com/ogurasousui/staffing-workflow/internal/core/skillgap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GapCalculator はスキル不足レポートを算出します。
type GapCalculator interface {
	ComputeSkillGaps(ctx context.Context, projectID string) (*skillgap.Report, error)
}

// TaskLister はワークフローエンジン上の未完了タスクを列挙します。
type TaskLister interface {
	ListOpenTasks(ctx context.Context) ([]escalation.ApprovalTask, error)
}

// Services は StaffingHandler が呼び出すユースケースの集合です。Tasks は省略できます。
type Services struct {
	Employees   employee.UseCase
	Projects    project.UseCase
	Assignments assignment.UseCase
	Gaps        GapCalculator
	Escalation  escalation.UseCase
	Tasks       TaskLister
}

// StaffingHandler は StaffingService の gRPC 実装です。
type StaffingHandler struct {
	svc Services
	staffingv1.UnimplementedStaffingServiceServer
}

// NewStaffingHandler は StaffingHandler を生成します。
func NewStaffingHandler(svc Services) *StaffingHandler {
	return &StaffingHandler{svc: svc}
}

var errRequestRequired = status.Error(codes.InvalidArgument, "request is required")

// RegisterEmployee は社員を登録します。
func (h *StaffingHandler) RegisterEmployee(ctx context.Context, req *staffingv1.RegisterEmployeeRequest) (*staffingv1.EmployeeResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	created, err := h.svc.Employees.RegisterEmployee(ctx, employee.RegisterEmployeeInput{
		Name:       req.Name,
		Skills:     req.Skills,
		Department: req.Department,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.EmployeeResponse{Employee: toWireEmployee(created)}, nil
}

// GetEmployee は社員を取得します。
func (h *StaffingHandler) GetEmployee(ctx context.Context, req *staffingv1.GetEmployeeRequest) (*staffingv1.EmployeeResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	found, err := h.svc.Employees.GetEmployee(ctx, employee.GetEmployeeInput{ID: req.Id})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.EmployeeResponse{Employee: toWireEmployee(found)}, nil
}

// UpdateEmployee は社員の属性を更新します。skills が省略された場合はスキルを変更しません。
func (h *StaffingHandler) UpdateEmployee(ctx context.Context, req *staffingv1.UpdateEmployeeRequest) (*staffingv1.EmployeeResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	in := employee.UpdateEmployeeInput{
		ID:         req.Id,
		Name:       req.Name,
		Department: req.Department,
	}
	if req.Skills != nil {
		in.Skills = *req.Skills
		in.SkillsSet = true
	}

	updated, err := h.svc.Employees.UpdateEmployee(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.EmployeeResponse{Employee: toWireEmployee(updated)}, nil
}

// CreateProject は操作者を作成者としてプロジェクトを作成します。
func (h *StaffingHandler) CreateProject(ctx context.Context, req *staffingv1.CreateProjectRequest) (*staffingv1.ProjectResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	created, err := h.svc.Projects.CreateProject(ctx, project.CreateProjectInput{
		Actor:          actor,
		Name:           req.Name,
		Description:    req.Description,
		RequiredSkills: toDomainRequiredSkills(req.RequiredSkills),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.ProjectResponse{Project: toWireProject(created)}, nil
}

// GetProject はプロジェクトを取得します。
func (h *StaffingHandler) GetProject(ctx context.Context, req *staffingv1.GetProjectRequest) (*staffingv1.ProjectResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	found, err := h.svc.Projects.GetProject(ctx, project.GetProjectInput{ID: req.Id})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.ProjectResponse{Project: toWireProject(found)}, nil
}

// TransitionProject はプロジェクトのライフサイクル状態を遷移させます。
func (h *StaffingHandler) TransitionProject(ctx context.Context, req *staffingv1.TransitionProjectRequest) (*staffingv1.ProjectResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.Projects.TransitionProject(ctx, project.TransitionProjectInput{
		ID:     req.Id,
		Actor:  actor,
		Target: project.Status(req.Status),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.ProjectResponse{Project: toWireProject(updated)}, nil
}

// SetProjectPublication はプロジェクトの公開設定を変更します。
func (h *StaffingHandler) SetProjectPublication(ctx context.Context, req *staffingv1.SetProjectPublicationRequest) (*staffingv1.ProjectResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.Projects.SetPublication(ctx, project.SetPublicationInput{
		ID:           req.Id,
		Actor:        actor,
		Published:    req.Published,
		VisibleToAll: req.VisibleToAll,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.ProjectResponse{Project: toWireProject(updated)}, nil
}

// ComputeSkillGaps はスキル不足レポートを返します。状態は変更しません。
func (h *StaffingHandler) ComputeSkillGaps(ctx context.Context, req *staffingv1.ComputeSkillGapsRequest) (*staffingv1.ComputeSkillGapsResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	report, err := h.svc.Gaps.ComputeSkillGaps(ctx, req.ProjectId)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.ComputeSkillGapsResponse{Report: toWireReport(report)}, nil
}

// DetectSkillGaps はスキル不足を検知し、必要に応じて外部採用フラグを更新します。
func (h *StaffingHandler) DetectSkillGaps(ctx context.Context, req *staffingv1.DetectSkillGapsRequest) (*staffingv1.DetectSkillGapsResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	result, err := h.svc.Escalation.DetectSkillGaps(ctx, req.ProjectId)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.DetectSkillGapsResponse{
		Report:   toWireReport(result.Report),
		Project:  toWireProject(result.Project),
		Notified: result.Notified,
	}, nil
}

// ValidateAssignment は配属可否を判定します。ルール違反はエラーではなく Accepted=false として返します。
func (h *StaffingHandler) ValidateAssignment(ctx context.Context, req *staffingv1.ValidateAssignmentRequest) (*staffingv1.ValidateAssignmentResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	err := h.svc.Assignments.ValidateAssignment(ctx, assignment.ValidateAssignmentInput{
		ProjectID:  req.ProjectId,
		EmployeeID: req.EmployeeId,
	})
	if err == nil {
		return &staffingv1.ValidateAssignmentResponse{Accepted: true}, nil
	}
	if reason, ok := assignment.RejectReason(err); ok {
		return &staffingv1.ValidateAssignmentResponse{Reason: reason, Message: err.Error()}, nil
	}
	return nil, toStatusError(err)
}

// CreateAssignment は操作者を提案者として配属を作成します。
func (h *StaffingHandler) CreateAssignment(ctx context.Context, req *staffingv1.CreateAssignmentRequest) (*staffingv1.AssignmentResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	created, err := h.svc.Assignments.CreateAssignment(ctx, assignment.CreateAssignmentInput{
		ProjectID:  req.ProjectId,
		EmployeeID: req.EmployeeId,
		Actor:      actor,
		Notes:      req.Notes,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.AssignmentResponse{Assignment: toWireAssignment(created)}, nil
}

// TransitionAssignment は配属の状態を遷移させます。
func (h *StaffingHandler) TransitionAssignment(ctx context.Context, req *staffingv1.TransitionAssignmentRequest) (*staffingv1.AssignmentResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.Assignments.TransitionAssignment(ctx, assignment.TransitionAssignmentInput{
		ID:     req.Id,
		Actor:  actor,
		Target: assignment.Status(req.Status),
		Notes:  req.Notes,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.AssignmentResponse{Assignment: toWireAssignment(updated)}, nil
}

// GetAssignment は配属を取得します。
func (h *StaffingHandler) GetAssignment(ctx context.Context, req *staffingv1.GetAssignmentRequest) (*staffingv1.AssignmentResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	found, err := h.svc.Assignments.GetAssignment(ctx, assignment.GetAssignmentInput{ID: req.Id})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.AssignmentResponse{Assignment: toWireAssignment(found)}, nil
}

// RequestExternalSearch は外部採用の承認を依頼します。
func (h *StaffingHandler) RequestExternalSearch(ctx context.Context, req *staffingv1.RequestExternalSearchRequest) (*staffingv1.ProjectResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.Escalation.RequestExternalSearch(ctx, req.ProjectId, actor)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.ProjectResponse{Project: toWireProject(updated)}, nil
}

// DecideExternalSearch は承認者の判断を反映します。判断時刻はサーバー側で記録します。
func (h *StaffingHandler) DecideExternalSearch(ctx context.Context, req *staffingv1.DecideExternalSearchRequest) (*staffingv1.ProjectResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.Escalation.DecideExternalSearch(ctx, escalation.Decision{
		ProjectID: req.ProjectId,
		TaskID:    req.TaskId,
		Approved:  req.Approved,
		Actor:     actor,
		Reason:    req.Reason,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.ProjectResponse{Project: toWireProject(updated)}, nil
}

// ExecuteExternalSearch は承認済みの外部採用を実行します。
func (h *StaffingHandler) ExecuteExternalSearch(ctx context.Context, req *staffingv1.ExecuteExternalSearchRequest) (*staffingv1.ProjectResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.Escalation.ExecuteExternalSearch(ctx, req.ProjectId, actor)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.ProjectResponse{Project: toWireProject(updated)}, nil
}

// ListApprovalTasks は承認待ちタスクを返します。エンジンが無効な場合は空です。
func (h *StaffingHandler) ListApprovalTasks(ctx context.Context, _ *staffingv1.ListApprovalTasksRequest) (*staffingv1.ListApprovalTasksResponse, error) {
	if h.svc.Tasks == nil {
		return &staffingv1.ListApprovalTasksResponse{Tasks: []staffingv1.ApprovalTask{}}, nil
	}

	tasks, err := h.svc.Tasks.ListOpenTasks(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	return &staffingv1.ListApprovalTasksResponse{Tasks: toWireTasks(tasks)}, nil
}
