package escalation

import (
	"context"

	"github.com/ogurasousui/staffing-workflow/internal/core/notification"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
	"github.com/ogurasousui/staffing-workflow/internal/core/skillgap"
)

// ProjectStore はエスカレーションが必要とするプロジェクトの永続化操作です。
type ProjectStore interface {
	FindByID(ctx context.Context, id string) (*project.Project, error)
	FindByIDForUpdate(ctx context.Context, id string) (*project.Project, error)
	Update(ctx context.Context, p *project.Project) (*project.Project, error)
}

// GapAnalyzer はスキル不足レポートを算出します。
type GapAnalyzer interface {
	ComputeSkillGaps(ctx context.Context, projectID string) (*skillgap.Report, error)
}

// WorkflowEngine は外部のワークフローエンジンです。未設定や障害時に StartProcess が失敗することを許容します。
// タスクが存在しない場合は ErrTaskNotFound を、完了済みの場合は ErrTaskCompleted をラップして返します。
type WorkflowEngine interface {
	StartProcess(ctx context.Context, key string, vars map[string]string) (string, error)
	CompleteTask(ctx context.Context, taskID string, vars map[string]string) error
	// CancelProcess はプロセスと未完了のタスクを取り消します。
	CancelProcess(ctx context.Context, processID string) error
	// TaskProcessID はタスクが属するプロセスの ID を返します。
	TaskProcessID(ctx context.Context, taskID string) (string, error)
}

// TaskLocator はプロセスの未完了タスクを特定できるエンジンが実装します。
type TaskLocator interface {
	OpenTaskID(ctx context.Context, processID string) (string, error)
}

// Notifier は通知の送信先です。
type Notifier interface {
	Notify(ctx context.Context, in notification.NotifyInput) (*notification.Notification, error)
}

// Searcher は外部採用を実行します。ctx のキャンセルに従う必要があります。
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
}
