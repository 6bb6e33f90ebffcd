package employee

import (
	"context"
	"time"
)

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	// FindByIDForUpdate はトランザクション内で社員行をロックして取得します。
	FindByIDForUpdate(ctx context.Context, id string) (*Employee, error)
	ListAvailable(ctx context.Context) ([]*Employee, error)
	UpdateAvailability(ctx context.Context, id string, available bool, updatedAt time.Time) error
}
