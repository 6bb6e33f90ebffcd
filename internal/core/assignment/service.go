package assignment

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

// Service は配属の検証・作成・状態遷移を扱います。
//
// 同一社員に対する操作はプロセス内ではキー単位のロックで、データベース上では
// 社員行の SELECT ... FOR UPDATE で直列化されます。ロック順序は常に社員、配属の順です。
type Service struct {
	repo      Repository
	employees EmployeeStore
	projects  ProjectReader
	clock     Clock
	tx        TransactionManager
	locks     *keyedMutex
}

// UseCase は配属ユースケースの公開インターフェースです。
type UseCase interface {
	ValidateAssignment(ctx context.Context, in ValidateAssignmentInput) error
	CreateAssignment(ctx context.Context, in CreateAssignmentInput) (*Assignment, error)
	TransitionAssignment(ctx context.Context, in TransitionAssignmentInput) (*Assignment, error)
	GetAssignment(ctx context.Context, in GetAssignmentInput) (*Assignment, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, employees EmployeeStore, projects ProjectReader, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{
		repo:      repo,
		employees: employees,
		projects:  projects,
		clock:     clock,
		tx:        tx,
		locks:     newKeyedMutex(),
	}
}

// ValidateAssignmentInput は配属可否判定の入力です。
type ValidateAssignmentInput struct {
	ProjectID  string
	EmployeeID string
}

// CreateAssignmentInput は配属作成の入力です。
type CreateAssignmentInput struct {
	ProjectID  string
	EmployeeID string
	Actor      string
	Notes      string
}

// TransitionAssignmentInput は配属の状態遷移の入力です。Notes が空でなければ上書きします。
type TransitionAssignmentInput struct {
	ID     string
	Actor  string
	Target Status
	Notes  string
}

// GetAssignmentInput は配属取得の入力です。
type GetAssignmentInput struct {
	ID string
}

// ValidateAssignment は配属が可能かを判定します。nil は受理を表します。
func (s *Service) ValidateAssignment(ctx context.Context, in ValidateAssignmentInput) error {
	projectID, employeeID, err := normalizePair(in.ProjectID, in.EmployeeID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		p, err := s.projects.FindByID(txCtx, projectID)
		if err != nil {
			return err
		}
		e, err := s.employees.FindByID(txCtx, employeeID)
		if err != nil {
			return err
		}
		existing, err := s.repo.ListByProjectAndEmployee(txCtx, projectID, employeeID)
		if err != nil {
			return err
		}
		return CanAssign(p, e, existing)
	})
}

// CreateAssignment は検証を通過した場合に proposed 状態の配属を作成します。
// 検証と作成は同一トランザクション内で社員行をロックした状態で行われるため、
// 同一ペアへの同時作成はどちらか一方のみ成功します。
func (s *Service) CreateAssignment(ctx context.Context, in CreateAssignmentInput) (*Assignment, error) {
	projectID, employeeID, err := normalizePair(in.ProjectID, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	actor := strings.TrimSpace(in.Actor)
	if actor == "" {
		return nil, ErrInvalidActor
	}

	unlock := s.locks.Lock(employeeID)
	defer unlock()

	var created *Assignment
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		p, err := s.projects.FindByID(txCtx, projectID)
		if err != nil {
			return err
		}
		e, err := s.employees.FindByIDForUpdate(txCtx, employeeID)
		if err != nil {
			return err
		}
		existing, err := s.repo.ListByProjectAndEmployee(txCtx, projectID, employeeID)
		if err != nil {
			return err
		}
		if err := CanAssign(p, e, existing); err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Assignment{
			ProjectID:  projectID,
			EmployeeID: employeeID,
			Status:     StatusProposed,
			Notes:      strings.TrimSpace(in.Notes),
			ProposedBy: actor,
			AssignedAt: now,
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

// TransitionAssignment は配属の状態を遷移させ、社員の稼働可否を同じトランザクションで更新します。
//
// 拘束状態 (confirmed / in_progress) に入ると社員は稼働不可になり、終端状態に達した時点で
// 他に拘束中の配属が残っていなければ稼働可能に戻ります。すでに他の配属で拘束中の社員は確定できません。
func (s *Service) TransitionAssignment(ctx context.Context, in TransitionAssignmentInput) (*Assignment, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	if strings.TrimSpace(in.Actor) == "" {
		return nil, ErrInvalidActor
	}
	target, err := ParseStatus(string(in.Target))
	if err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(current.EmployeeID)
	defer unlock()

	var updated *Assignment
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		e, err := s.employees.FindByIDForUpdate(txCtx, current.EmployeeID)
		if err != nil {
			return err
		}
		a, err := s.repo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		from := a.Status
		if !IsTransitionAllowed(from, target) {
			return &TransitionError{From: from, To: target}
		}
		if IsCommitted(target) && !IsCommitted(from) && !e.Available {
			return rejected(ErrEmployeeNotAvailable)
		}

		now := s.clock.Now()
		a.Status = target
		a.UpdatedAt = now
		if target == StatusCompleted {
			completedAt := now
			a.CompletedAt = &completedAt
		}
		if notes := strings.TrimSpace(in.Notes); notes != "" {
			a.Notes = notes
		}

		result, err := s.repo.Update(txCtx, a)
		if err != nil {
			return err
		}

		if err := s.syncAvailability(txCtx, e, result, from, now); err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// GetAssignment は配属を取得します。
func (s *Service) GetAssignment(ctx context.Context, in GetAssignmentInput) (*Assignment, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Assignment
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

func (s *Service) syncAvailability(ctx context.Context, e *employee.Employee, a *Assignment, from Status, now time.Time) error {
	switch {
	case IsCommitted(a.Status) && !IsCommitted(from):
		return s.employees.UpdateAvailability(ctx, e.ID, false, now)
	case IsTerminal(a.Status):
		if e.Available {
			return nil
		}
		committed, err := s.repo.ListByEmployee(ctx, e.ID, CommittedStatuses)
		if err != nil {
			return err
		}
		for _, other := range committed {
			if other.ID != a.ID {
				return nil
			}
		}
		return s.employees.UpdateAvailability(ctx, e.ID, true, now)
	default:
		return nil
	}
}

func normalizePair(projectID, employeeID string) (string, string, error) {
	p := strings.TrimSpace(projectID)
	if p == "" {
		return "", "", fmt.Errorf("project id: %w", ErrInvalidID)
	}
	e := strings.TrimSpace(employeeID)
	if e == "" {
		return "", "", fmt.Errorf("employee id: %w", ErrInvalidID)
	}
	return p, e, nil
}
