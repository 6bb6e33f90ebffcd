package project

import "context"

// Repository はプロジェクトの永続化を行うインターフェースです。
// 必要スキルはプロジェクトに従属し、Create / Update で丸ごと保存されます。
type Repository interface {
	Create(ctx context.Context, project *Project) (*Project, error)
	Update(ctx context.Context, project *Project) (*Project, error)
	FindByID(ctx context.Context, id string) (*Project, error)
	// FindByIDForUpdate はトランザクション内でプロジェクト行をロックして取得します。
	FindByIDForUpdate(ctx context.Context, id string) (*Project, error)
	ListByStatuses(ctx context.Context, statuses []Status) ([]*Project, error)
}
