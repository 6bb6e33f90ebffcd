package assignment

import (
	"errors"

	"github.com/ogurasousui/staffing-workflow/internal/core/employee"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
)

// CanAssign は新しい配属が許可されるかを判定します。nil は受理を表し、
// 最初に失敗した検査のエラーを返します。副作用はありません。
//
// 検査順: プロジェクトの存在、社員の存在、社員の稼働可否、同一ペアの有効な配属の有無、プロジェクトの募集可否。
func CanAssign(p *project.Project, e *employee.Employee, existing []*Assignment) error {
	if p == nil {
		return project.ErrProjectNotFound
	}
	if e == nil {
		return employee.ErrEmployeeNotFound
	}
	if !e.Available {
		return rejected(ErrEmployeeNotAvailable)
	}
	for _, a := range existing {
		if a == nil || a.ProjectID != p.ID || a.EmployeeID != e.ID {
			continue
		}
		if IsActive(a.Status) {
			return rejected(ErrAlreadyAssigned)
		}
	}
	if !p.IsStaffable() {
		return rejected(ErrProjectNotStaffable)
	}
	return nil
}

// RejectReason が返す拒否理由コードです。
const (
	ReasonNotFound        = "NOT_FOUND"
	ReasonNotAvailable    = "NOT_AVAILABLE"
	ReasonAlreadyAssigned = "ALREADY_ASSIGNED"
	ReasonNotStaffable    = "NOT_STAFFABLE"
)

// RejectReason は CanAssign の結果を呼び出し側向けのコードに変換します。
// 判定に由来しないエラーの場合は ok が false になります。
func RejectReason(err error) (reason string, ok bool) {
	switch {
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, employee.ErrEmployeeNotFound):
		return ReasonNotFound, true
	case errors.Is(err, ErrEmployeeNotAvailable):
		return ReasonNotAvailable, true
	case errors.Is(err, ErrAlreadyAssigned):
		return ReasonAlreadyAssigned, true
	case errors.Is(err, ErrProjectNotStaffable):
		return ReasonNotStaffable, true
	default:
		return "", false
	}
}
