package staffingv1

import "time"

// Employee は社員の転送表現です。
type Employee struct {
	Id         string    `json:"id"`
	Name       string    `json:"name"`
	Skills     []string  `json:"skills"`
	Available  bool      `json:"available"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RequiredSkill は必要スキルと人数です。
type RequiredSkill struct {
	Skill string `json:"skill"`
	Count int32  `json:"count"`
}

// Project はプロジェクトの転送表現です。
type Project struct {
	Id                        string          `json:"id"`
	Name                      string          `json:"name"`
	Description               string          `json:"description,omitempty"`
	RequiredSkills            []RequiredSkill `json:"requiredSkills"`
	Status                    string          `json:"status"`
	Published                 bool            `json:"published"`
	VisibleToAll              bool            `json:"visibleToAll"`
	WorkflowStatus            string          `json:"workflowStatus,omitempty"`
	ProcessInstanceId         string          `json:"processInstanceId,omitempty"`
	ExternalSearchNeeded      bool            `json:"externalSearchNeeded"`
	ExternalSearchNotes       string          `json:"externalSearchNotes,omitempty"`
	ExternalSearchRequestedAt *time.Time      `json:"externalSearchRequestedAt,omitempty"`
	ExternalSearchCompletedAt *time.Time      `json:"externalSearchCompletedAt,omitempty"`
	CreatedBy                 string          `json:"createdBy"`
	CreatedAt                 time.Time       `json:"createdAt"`
	UpdatedAt                 time.Time       `json:"updatedAt"`
}

// Assignment は配属の転送表現です。
type Assignment struct {
	Id          string     `json:"id"`
	ProjectId   string     `json:"projectId"`
	EmployeeId  string     `json:"employeeId"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	ProposedBy  string     `json:"proposedBy"`
	AssignedAt  time.Time  `json:"assignedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SkillGap はスキル単位の充足状況です。
type SkillGap struct {
	Skill     string `json:"skill"`
	Required  int32  `json:"required"`
	Available int32  `json:"available"`
	Gap       int32  `json:"gap"`
	Shortage  bool   `json:"shortage"`
}

// SkillGapReport はスキル充足レポートです。
type SkillGapReport struct {
	ProjectId          string           `json:"projectId"`
	Skills             []SkillGap       `json:"skills"`
	CriticalGaps       map[string]int32 `json:"criticalGaps"`
	TotalRequired      int32            `json:"totalRequired"`
	TotalUncovered     int32            `json:"totalUncovered"`
	CoveragePercentage float64          `json:"coveragePercentage"`
}

// ApprovalTask はワークフローエンジン上の承認待ちタスクです。
type ApprovalTask struct {
	Id                string            `json:"id"`
	ProcessInstanceId string            `json:"processInstanceId"`
	Name              string            `json:"name"`
	Variables         map[string]string `json:"variables,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
}

type RegisterEmployeeRequest struct {
	Name       string   `json:"name"`
	Skills     []string `json:"skills"`
	Department string   `json:"department,omitempty"`
}

type GetEmployeeRequest struct {
	Id string `json:"id"`
}

// UpdateEmployeeRequest は nil のフィールドを変更しません。
type UpdateEmployeeRequest struct {
	Id         string    `json:"id"`
	Name       *string   `json:"name,omitempty"`
	Skills     *[]string `json:"skills,omitempty"`
	Department *string   `json:"department,omitempty"`
}

type EmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

type CreateProjectRequest struct {
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	RequiredSkills []RequiredSkill `json:"requiredSkills"`
}

type GetProjectRequest struct {
	Id string `json:"id"`
}

type TransitionProjectRequest struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

type SetProjectPublicationRequest struct {
	Id           string `json:"id"`
	Published    bool   `json:"published"`
	VisibleToAll bool   `json:"visibleToAll"`
}

type ProjectResponse struct {
	Project *Project `json:"project"`
}

type ComputeSkillGapsRequest struct {
	ProjectId string `json:"projectId"`
}

type ComputeSkillGapsResponse struct {
	Report *SkillGapReport `json:"report"`
}

type DetectSkillGapsRequest struct {
	ProjectId string `json:"projectId"`
}

type DetectSkillGapsResponse struct {
	Report   *SkillGapReport `json:"report"`
	Project  *Project        `json:"project"`
	Notified bool            `json:"notified"`
}

type ValidateAssignmentRequest struct {
	ProjectId  string `json:"projectId"`
	EmployeeId string `json:"employeeId"`
}

// ValidateAssignmentResponse は Accepted が false のとき Reason に拒否理由を持ちます。
type ValidateAssignmentResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
	Message  string `json:"message,omitempty"`
}

type CreateAssignmentRequest struct {
	ProjectId  string `json:"projectId"`
	EmployeeId string `json:"employeeId"`
	Notes      string `json:"notes,omitempty"`
}

type TransitionAssignmentRequest struct {
	Id     string `json:"id"`
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type GetAssignmentRequest struct {
	Id string `json:"id"`
}

type AssignmentResponse struct {
	Assignment *Assignment `json:"assignment"`
}

type RequestExternalSearchRequest struct {
	ProjectId string `json:"projectId"`
}

type DecideExternalSearchRequest struct {
	ProjectId string `json:"projectId"`
	TaskId    string `json:"taskId,omitempty"`
	Approved  bool   `json:"approved"`
	Reason    string `json:"reason,omitempty"`
}

type ExecuteExternalSearchRequest struct {
	ProjectId string `json:"projectId"`
}

type ListApprovalTasksRequest struct{}

type ListApprovalTasksResponse struct {
	Tasks []ApprovalTask `json:"tasks"`
}
