package escalation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ogurasousui/staffing-workflow/internal/core/project"
	"github.com/ogurasousui/staffing-workflow/internal/core/skillgap"
)

// ApprovalRequest は承認プロセス開始時にワークフローエンジンへ渡す内容です。
type ApprovalRequest struct {
	ProjectID   string
	ProjectName string
	RequestedBy string
	RequestedAt time.Time
}

// Variables はエンジンのプロセス変数へ変換します。
func (r ApprovalRequest) Variables() map[string]string {
	return map[string]string{
		"projectId":   r.ProjectID,
		"projectName": r.ProjectName,
		"requestedBy": r.RequestedBy,
		"requestedAt": r.RequestedAt.UTC().Format(time.RFC3339),
	}
}

// ApprovalTask はワークフローエンジン上の承認タスクです。
type ApprovalTask struct {
	ID                string
	ProcessInstanceID string
	ProcessKey        string
	Name              string
	Status            string
	Variables         map[string]string
	CreatedAt         time.Time
	CompletedAt       *time.Time
}

// Decision は承認者による判断です。コアに入る前に Validate で検証されます。
type Decision struct {
	ProjectID string
	TaskID    string
	Approved  bool
	Actor     string
	Reason    string
	DecidedAt time.Time
}

// Validate は必須項目を検証し、前後の空白を取り除きます。
func (d *Decision) Validate() error {
	d.ProjectID = strings.TrimSpace(d.ProjectID)
	d.TaskID = strings.TrimSpace(d.TaskID)
	d.Actor = strings.TrimSpace(d.Actor)
	d.Reason = strings.TrimSpace(d.Reason)

	if d.ProjectID == "" {
		return fmt.Errorf("project id: %w", project.ErrInvalidID)
	}
	if d.Actor == "" {
		return ErrInvalidActor
	}
	if d.DecidedAt.IsZero() {
		return fmt.Errorf("decided at is required: %w", ErrInvalidDecision)
	}
	return nil
}

// Variables はタスク完了時にエンジンへ渡す変数へ変換します。
func (d Decision) Variables() map[string]string {
	vars := map[string]string{
		"projectId": d.ProjectID,
		"approved":  strconv.FormatBool(d.Approved),
		"decidedBy": d.Actor,
		"decidedAt": d.DecidedAt.UTC().Format(time.RFC3339),
	}
	if d.Reason != "" {
		vars["reason"] = d.Reason
	}
	return vars
}

// resultingStatus は判断が適用された後のワークフロー状態です。
func (d Decision) resultingStatus() project.WorkflowStatus {
	if d.Approved {
		return project.WorkflowExternalSearchApproved
	}
	return project.WorkflowExternalSearchRejected
}

// alreadyApplied は現在の状態が同じ判断の適用結果であるかを返します。
func (d Decision) alreadyApplied(current project.WorkflowStatus) bool {
	if d.Approved {
		return current == project.WorkflowExternalSearchApproved || current == project.WorkflowExternalSearchCompleted
	}
	return current == project.WorkflowExternalSearchRejected
}

// SearchRequest は外部採用の実行依頼です。
type SearchRequest struct {
	ProjectID   string
	ProjectName string
	Notes       string
}

// SearchResult は外部採用の結果です。
type SearchResult struct {
	Candidates int
	Summary    string
}

// DetectResult はスキル不足検知の結果です。
type DetectResult struct {
	Report   *skillgap.Report
	Project  *project.Project
	Notified bool
}

func inFlight(status project.WorkflowStatus) bool {
	return status == project.WorkflowAwaitingApproval || status == project.WorkflowExternalSearchApproved
}
