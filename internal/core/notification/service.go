package notification

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Service は通知を保存し、設定されていれば配信します。配信の失敗は警告ログのみで呼び出し元へは返しません。
type Service struct {
	repo      Repository
	publisher Publisher
	hooks     CommitHooks
	clock     Clock
	logger    *slog.Logger
}

// NewService は Service を生成します。publisher が nil の場合は保存のみ行います。
// hooks を渡すと配信は呼び出し元のトランザクションの確定後に行われ、ロールバック時は配信されません。
func NewService(repo Repository, publisher Publisher, hooks CommitHooks, clock Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, publisher: publisher, hooks: hooks, clock: clock, logger: logger}
}

// NotifyInput は通知作成の入力です。
type NotifyInput struct {
	UserID    string
	Title     string
	Body      string
	Category  Category
	ProjectID string
}

// Notify は通知を作成します。呼び出し元のトランザクションがコンテキストにあればその中で保存されます。
func (s *Service) Notify(ctx context.Context, in NotifyInput) (*Notification, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrInvalidTitle
	}

	created, err := s.repo.Create(ctx, &Notification{
		UserID:    userID,
		Title:     title,
		Body:      in.Body,
		Category:  in.Category,
		ProjectID: in.ProjectID,
		CreatedAt: s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	if s.publisher == nil {
		return created, nil
	}
	publish := func(ctx context.Context) {
		if err := s.publisher.Publish(ctx, created); err != nil {
			s.logger.Warn("publish notification failed", "notificationId", created.ID, "userId", created.UserID, "err", err)
		}
	}
	if s.hooks != nil {
		s.hooks.AfterCommit(ctx, publish)
	} else {
		publish(ctx)
	}

	return created, nil
}
