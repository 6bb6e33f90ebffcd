package skillgap

import (
	"context"
	"fmt"
	"strings"

	"github.com/ogurasousui/staffing-workflow/internal/core/employee"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
)

// ProjectReader はプロジェクト取得の抽象です。
type ProjectReader interface {
	FindByID(ctx context.Context, id string) (*project.Project, error)
}

// EmployeePool は稼働可能な社員の一覧取得の抽象です。
type EmployeePool interface {
	ListAvailable(ctx context.Context) ([]*employee.Employee, error)
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// Service は保存済みのプロジェクトと現在の社員プールからレポートを算出します。
type Service struct {
	projects  ProjectReader
	employees EmployeePool
	tx        TransactionManager
}

// NewService は Service を生成します。
func NewService(projects ProjectReader, employees EmployeePool, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{projects: projects, employees: employees, tx: tx}
}

// ComputeSkillGaps は projectID のスキル充足レポートを毎回算出し直します。
func (s *Service) ComputeSkillGaps(ctx context.Context, projectID string) (*Report, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("id: %w", project.ErrInvalidID)
	}

	var report *Report
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		p, err := s.projects.FindByID(txCtx, projectID)
		if err != nil {
			return err
		}
		pool, err := s.employees.ListAvailable(txCtx)
		if err != nil {
			return fmt.Errorf("skillgap: list available employees: %w", err)
		}
		report = Analyze(p, pool)
		return nil
	}); err != nil {
		return nil, err
	}

	return report, nil
}
