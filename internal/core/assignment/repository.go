package assignment

import (
	"context"
	"time"

	"github.com/ogurasousui/staffing-workflow/internal/core/employee"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
)

// Repository は配属の永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, assignment *Assignment) (*Assignment, error)
	Update(ctx context.Context, assignment *Assignment) (*Assignment, error)
	FindByID(ctx context.Context, id string) (*Assignment, error)
	// FindByIDForUpdate はトランザクション内で配属行をロックして取得します。
	FindByIDForUpdate(ctx context.Context, id string) (*Assignment, error)
	ListByProjectAndEmployee(ctx context.Context, projectID, employeeID string) ([]*Assignment, error)
	ListByEmployee(ctx context.Context, employeeID string, statuses []Status) ([]*Assignment, error)
}

// EmployeeStore は配属に伴う社員の参照と稼働可否の更新を行います。
type EmployeeStore interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
	FindByIDForUpdate(ctx context.Context, id string) (*employee.Employee, error)
	UpdateAvailability(ctx context.Context, id string, available bool, updatedAt time.Time) error
}

// ProjectReader はプロジェクト参照の抽象です。
type ProjectReader interface {
	FindByID(ctx context.Context, id string) (*project.Project, error)
}
