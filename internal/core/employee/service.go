package employee

import (
	"context"
	"fmt"
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

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const maxSkillLength = 100

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	RegisterEmployee(ctx context.Context, in RegisterEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
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

// RegisterEmployeeInput は社員登録時の入力です。
type RegisterEmployeeInput struct {
	Name       string
	Skills     []string
	Department string
}

// UpdateEmployeeInput は社員更新時の入力です。nil のフィールドは変更しません。
type UpdateEmployeeInput struct {
	ID         string
	Name       *string
	Skills     []string
	SkillsSet  bool
	Department *string
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// RegisterEmployee は新しい社員を登録します。登録直後の社員は常に配属可能です。
func (s *Service) RegisterEmployee(ctx context.Context, in RegisterEmployeeInput) (*Employee, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	skills, err := NormalizeSkills(in.Skills)
	if err != nil {
		return nil, err
	}

	department := strings.TrimSpace(in.Department)

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Employee{
			Name:       name,
			Skills:     skills,
			Available:  true,
			Department: department,
			CreatedAt:  now,
			UpdatedAt:  now,
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

// UpdateEmployee は社員の属性を更新します。稼働可否は配属の状態遷移でのみ変化します。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByIDForUpdate(txCtx, in.ID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name, err := normalizeName(*in.Name)
			if err != nil {
				return err
			}
			existing.Name = name
		}

		if in.SkillsSet {
			skills, err := NormalizeSkills(in.Skills)
			if err != nil {
				return err
			}
			existing.Skills = skills
		}

		if in.Department != nil {
			existing.Department = strings.TrimSpace(*in.Department)
		}

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

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Employee
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

// NormalizeSkills はスキル一覧をトリムし、大文字小文字を無視して重複を除去します。
// 最初に現れた表記を保持します。
func NormalizeSkills(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	skills := make([]string, 0, len(raw))
	for _, s := range raw {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" || len(trimmed) > maxSkillLength {
			return nil, fmt.Errorf("%q: %w", s, ErrInvalidSkill)
		}
		key := NormalizeSkill(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		skills = append(skills, trimmed)
	}
	return skills, nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidName
	}
	return trimmed, nil
}
