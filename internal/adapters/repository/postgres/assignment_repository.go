package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/staffing-workflow/internal/core/assignment"
	"github.com/ogurasousui/staffing-workflow/internal/core/employee"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
	pgdb "github.com/ogurasousui/staffing-workflow/internal/platform/db/postgres"
)

const assignmentColumns = `id, project_id, employee_id, status, notes, proposed_by, assigned_at, completed_at, created_at, updated_at`

// AssignmentRepository は PostgreSQL を利用した配属永続化の実装です。
// 同一ペアのアクティブな配属は部分ユニークインデックス assignments_active_pair_key で 1 件に制限されます。
type AssignmentRepository struct {
	pool pgdb.Queryer
}

// NewAssignmentRepository は AssignmentRepository を生成します。
func NewAssignmentRepository(pool pgdb.Queryer) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Create は配属を新規作成します。
func (r *AssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) (*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO assignments (project_id, employee_id, status, notes, proposed_by, assigned_at, completed_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+assignmentColumns,
		a.ProjectID,
		a.EmployeeID,
		string(a.Status),
		a.Notes,
		a.ProposedBy,
		a.AssignedAt,
		nullableTimestamp(a.CompletedAt),
		a.CreatedAt,
		a.UpdatedAt,
	)

	created, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return created, nil
}

// Update は配属の状態とメモを更新します。
func (r *AssignmentRepository) Update(ctx context.Context, a *assignment.Assignment) (*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE assignments
           SET status = $1,
               notes = $2,
               completed_at = $3,
               updated_at = $4
         WHERE id = $5
        RETURNING `+assignmentColumns,
		string(a.Status),
		a.Notes,
		nullableTimestamp(a.CompletedAt),
		a.UpdatedAt,
		a.ID,
	)

	updated, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return updated, nil
}

// FindByID は ID で配属を取得します。
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+assignmentColumns+`
          FROM assignments
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return found, nil
}

// FindByIDForUpdate は配属行をロックして取得します。社員行のロックより後に呼び出してください。
func (r *AssignmentRepository) FindByIDForUpdate(ctx context.Context, id string) (*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+assignmentColumns+`
          FROM assignments
         WHERE id = $1
           FOR UPDATE
    `, id)

	found, err := scanAssignment(row)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return found, nil
}

// ListByProjectAndEmployee は同一ペアの配属履歴を取得します。
func (r *AssignmentRepository) ListByProjectAndEmployee(ctx context.Context, projectID, employeeID string) ([]*assignment.Assignment, error) {
	return r.list(ctx, `
        SELECT `+assignmentColumns+`
          FROM assignments
         WHERE project_id = $1 AND employee_id = $2
         ORDER BY created_at, id
    `, projectID, employeeID)
}

// ListByEmployee は社員の配属のうち statuses に含まれるものを取得します。
func (r *AssignmentRepository) ListByEmployee(ctx context.Context, employeeID string, statuses []assignment.Status) ([]*assignment.Assignment, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	return r.list(ctx, `
        SELECT `+assignmentColumns+`
          FROM assignments
         WHERE employee_id = $1 AND status = ANY($2)
         ORDER BY created_at, id
    `, employeeID, values)
}

func (r *AssignmentRepository) list(ctx context.Context, query string, args ...any) ([]*assignment.Assignment, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateAssignmentPgError(err)
	}
	defer rows.Close()

	assignments := make([]*assignment.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, translateAssignmentPgError(err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, translateAssignmentPgError(err)
	}
	return assignments, nil
}

func scanAssignment(row pgx.Row) (*assignment.Assignment, error) {
	var (
		a           assignment.Assignment
		status      string
		completedAt sql.NullTime
	)

	if err := row.Scan(
		&a.ID,
		&a.ProjectID,
		&a.EmployeeID,
		&status,
		&a.Notes,
		&a.ProposedBy,
		&a.AssignedAt,
		&completedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, assignment.ErrAssignmentNotFound
		}
		return nil, err
	}

	a.Status = assignment.Status(status)
	a.CompletedAt = timePtr(completedAt)
	return &a, nil
}

func translateAssignmentPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return assignment.ErrAssignmentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return assignment.ErrAlreadyAssigned
		case foreignKeyViolationCode:
			switch pgErr.ConstraintName {
			case "assignments_project_id_fkey":
				return project.ErrProjectNotFound
			case "assignments_employee_id_fkey":
				return employee.ErrEmployeeNotFound
			default:
				return err
			}
		case checkViolationCode:
			return assignment.ErrInvalidStatus
		case invalidTextCode:
			return assignment.ErrAssignmentNotFound
		}
	}

	return err
}
