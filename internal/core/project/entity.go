package project

import "time"

// WorkflowStatus は外部採用エスカレーションの進行状況を表します。ライフサイクルの Status とは独立です。
type WorkflowStatus string

const (
	WorkflowNone                    WorkflowStatus = ""
	WorkflowAwaitingApproval        WorkflowStatus = "AWAITING_APPROVAL"
	WorkflowExternalSearchApproved  WorkflowStatus = "EXTERNAL_SEARCH_APPROVED"
	WorkflowExternalSearchRejected  WorkflowStatus = "EXTERNAL_SEARCH_REJECTED"
	WorkflowExternalSearchCompleted WorkflowStatus = "EXTERNAL_SEARCH_COMPLETED"
)

// RequiredSkill はプロジェクトが必要とするスキルと人数の組です。
type RequiredSkill struct {
	Skill string
	Count int
}

// Project はプロジェクトエンティティです。
type Project struct {
	ID                        string
	Name                      string
	Description               string
	RequiredSkills            []RequiredSkill
	Status                    Status
	Published                 bool
	VisibleToAll              bool
	WorkflowStatus            WorkflowStatus
	ProcessInstanceID         string
	ExternalSearchNeeded      bool
	ExternalSearchNotes       string
	ExternalSearchRequestedAt *time.Time
	ExternalSearchCompletedAt *time.Time
	CreatedBy                 string
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// IsStaffable は配属を受け付けられる状態かどうかを返します。
// 公開済みかつ全体公開で、承認以降の非終端ステータスである必要があります。
func (p *Project) IsStaffable() bool {
	if p == nil || !p.Published || !p.VisibleToAll {
		return false
	}
	switch p.Status {
	case StatusApproved, StatusStaffing, StatusInProgress:
		return true
	default:
		return false
	}
}

// IsCreator は actor がプロジェクト作成者かどうかを返します。
func (p *Project) IsCreator(actor string) bool {
	return p != nil && actor != "" && p.CreatedBy == actor
}
