package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/staffing-workflow/internal/core/employee"
	pgdb "github.com/ogurasousui/staffing-workflow/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	invalidTextCode         = "22P02"
)

const employeeColumns = `id, name, skills, available, department, created_at, updated_at`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (name, skills, available, department, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+employeeColumns,
		e.Name,
		skillsOrEmpty(e.Skills),
		e.Available,
		e.Department,
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は社員の属性を更新します。稼働可否は UpdateAvailability でのみ変更します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employees
           SET name = $1,
               skills = $2,
               department = $3,
               updated_at = $4
         WHERE id = $5
        RETURNING `+employeeColumns,
		e.Name,
		skillsOrEmpty(e.Skills),
		e.Department,
		e.UpdatedAt,
		e.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindByIDForUpdate は社員行をロックして取得します。トランザクション外で呼ぶとロックは即座に解放されます。
func (r *EmployeeRepository) FindByIDForUpdate(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
           FOR UPDATE
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// ListAvailable は稼働可能な社員を取得します。
func (r *EmployeeRepository) ListAvailable(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE available = TRUE
         ORDER BY created_at, id
    `)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

// UpdateAvailability は社員の稼働可否を更新します。
func (r *EmployeeRepository) UpdateAvailability(ctx context.Context, id string, available bool, updatedAt time.Time) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `UPDATE employees SET available = $1, updated_at = $2 WHERE id = $3`, available, updatedAt, id)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id         string
		name       string
		skills     []string
		available  bool
		department string
		createdAt  time.Time
		updatedAt  time.Time
	)

	if err := row.Scan(&id, &name, &skills, &available, &department, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	return &employee.Employee{
		ID:         id,
		Name:       name,
		Skills:     skills,
		Available:  available,
		Department: department,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case invalidTextCode:
			return employee.ErrEmployeeNotFound
		case checkViolationCode:
			return employee.ErrInvalidName
		}
	}

	return err
}

func skillsOrEmpty(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}
