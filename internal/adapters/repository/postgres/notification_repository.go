package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/staffing-workflow/internal/core/notification"
	pgdb "github.com/ogurasousui/staffing-workflow/internal/platform/db/postgres"
)

// NotificationRepository は PostgreSQL を利用した通知永続化の実装です。
type NotificationRepository struct {
	pool pgdb.Queryer
}

// NewNotificationRepository は NotificationRepository を生成します。
func NewNotificationRepository(pool pgdb.Queryer) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create は通知を保存します。関連プロジェクトが空の場合は NULL として保存します。
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) (*notification.Notification, error) {
	var projectID any
	if n.ProjectID != "" {
		projectID = n.ProjectID
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO notifications (user_id, title, body, category, project_id, read, created_at)
        VALUES ($1, $2, $3, $4, $5, FALSE, $6)
        RETURNING id
    `, n.UserID, n.Title, n.Body, string(n.Category), projectID, n.CreatedAt)

	var id string
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == checkViolationCode {
			return nil, notification.ErrInvalidTitle
		}
		return nil, err
	}

	created := *n
	created.ID = id
	created.Read = false
	return &created, nil
}
