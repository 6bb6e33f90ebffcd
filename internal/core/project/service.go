package project

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/staffing-workflow/internal/core/employee"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// Service はプロジェクトのライフサイクルと公開設定を管理します。
// WorkflowStatus はエスカレーション側の責務であり、ここでは変更しません。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase はプロジェクトユースケースの公開インターフェースです。
type UseCase interface {
	CreateProject(ctx context.Context, in CreateProjectInput) (*Project, error)
	GetProject(ctx context.Context, in GetProjectInput) (*Project, error)
	TransitionProject(ctx context.Context, in TransitionProjectInput) (*Project, error)
	SetPublication(ctx context.Context, in SetPublicationInput) (*Project, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateProjectInput はプロジェクト作成時の入力です。
type CreateProjectInput struct {
	Actor          string
	Name           string
	Description    string
	RequiredSkills []RequiredSkill
}

// GetProjectInput はプロジェクト取得時の入力です。
type GetProjectInput struct {
	ID string
}

// TransitionProjectInput はライフサイクル遷移の入力です。
type TransitionProjectInput struct {
	ID     string
	Actor  string
	Target Status
}

// SetPublicationInput は公開設定変更の入力です。
type SetPublicationInput struct {
	ID           string
	Actor        string
	Published    bool
	VisibleToAll bool
}

// CreateProject は pending 状態・非公開のプロジェクトを作成します。作成者は Actor です。
func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (*Project, error) {
	actor, err := normalizeActor(in.Actor)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	skills, err := NormalizeRequiredSkills(in.RequiredSkills)
	if err != nil {
		return nil, err
	}

	var created *Project
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Project{
			Name:           name,
			Description:    strings.TrimSpace(in.Description),
			RequiredSkills: skills,
			Status:         StatusPending,
			WorkflowStatus: WorkflowNone,
			CreatedBy:      actor,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// GetProject はプロジェクトを取得します。
func (s *Service) GetProject(ctx context.Context, in GetProjectInput) (*Project, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Project
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// TransitionProject はライフサイクル状態を遷移させます。
// 許可されない遷移は *TransitionError を返し、状態は変更されません。
func (s *Service) TransitionProject(ctx context.Context, in TransitionProjectInput) (*Project, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	if _, err := normalizeActor(in.Actor); err != nil {
		return nil, err
	}
	target, err := ParseStatus(string(in.Target))
	if err != nil {
		return nil, err
	}

	var updated *Project
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByIDForUpdate(txCtx, in.ID)
		if err != nil {
			return err
		}

		if !IsTransitionAllowed(existing.Status, target) {
			return &TransitionError{From: existing.Status, To: target}
		}

		existing.Status = target
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// SetPublication は公開フラグと全体公開フラグを設定します。変更できるのは作成者のみです。
func (s *Service) SetPublication(ctx context.Context, in SetPublicationInput) (*Project, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	actor, err := normalizeActor(in.Actor)
	if err != nil {
		return nil, err
	}

	var updated *Project
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByIDForUpdate(txCtx, in.ID)
		if err != nil {
			return err
		}
		if !existing.IsCreator(actor) {
			return ErrUnauthorized
		}

		existing.Published = in.Published
		existing.VisibleToAll = in.VisibleToAll
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// NormalizeRequiredSkills は必要スキルを検証し、大文字小文字を無視して同名スキルの人数を合算します。
func NormalizeRequiredSkills(raw []RequiredSkill) ([]RequiredSkill, error) {
	index := make(map[string]int, len(raw))
	skills := make([]RequiredSkill, 0, len(raw))
	for _, rs := range raw {
		label := strings.TrimSpace(rs.Skill)
		if label == "" || rs.Count <= 0 {
			return nil, fmt.Errorf("%q x%d: %w", rs.Skill, rs.Count, ErrInvalidRequiredSkill)
		}
		key := employee.NormalizeSkill(label)
		if i, ok := index[key]; ok {
			skills[i].Count += rs.Count
			continue
		}
		index[key] = len(skills)
		skills = append(skills, RequiredSkill{Skill: label, Count: rs.Count})
	}
	return skills, nil
}

func normalizeActor(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidActor
	}
	return trimmed, nil
}
