package notification

import "context"

// Repository は通知の永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
}

// Publisher は保存済みの通知を外部の購読者へ配信します。
type Publisher interface {
	Publish(ctx context.Context, n *Notification) error
}

// CommitHooks はトランザクション確定後に処理を実行できるトランザクション管理が実装します。
type CommitHooks interface {
	AfterCommit(ctx context.Context, fn func(context.Context))
}
