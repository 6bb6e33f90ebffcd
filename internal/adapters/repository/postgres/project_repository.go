package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
	pgdb "github.com/ogurasousui/staffing-workflow/internal/platform/db/postgres"
)

const projectColumns = `id, name, description, status, published, visible_to_all, workflow_status, process_instance_id,
               external_search_needed, external_search_notes, external_search_requested_at, external_search_completed_at,
               created_by, created_at, updated_at`

// ProjectRepository は PostgreSQL を利用したプロジェクト永続化の実装です。
// 必要スキルは project_required_skills に保存し、プロジェクトの保存時に丸ごと置き換えます。
type ProjectRepository struct {
	pool pgdb.Queryer
}

// NewProjectRepository は ProjectRepository を生成します。
func NewProjectRepository(pool pgdb.Queryer) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// Create はプロジェクトと必要スキルを保存します。呼び出し元のトランザクション内で実行してください。
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO projects (name, description, status, published, visible_to_all, workflow_status, process_instance_id,
                              external_search_needed, external_search_notes, external_search_requested_at, external_search_completed_at,
                              created_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING `+projectColumns,
		p.Name,
		p.Description,
		string(p.Status),
		p.Published,
		p.VisibleToAll,
		string(p.WorkflowStatus),
		p.ProcessInstanceID,
		p.ExternalSearchNeeded,
		p.ExternalSearchNotes,
		nullableTimestamp(p.ExternalSearchRequestedAt),
		nullableTimestamp(p.ExternalSearchCompletedAt),
		p.CreatedBy,
		p.CreatedAt,
		p.UpdatedAt,
	)

	created, err := scanProject(row)
	if err != nil {
		return nil, translateProjectPgError(err)
	}

	if err := r.replaceRequiredSkills(ctx, exec, created.ID, p.RequiredSkills); err != nil {
		return nil, err
	}
	created.RequiredSkills = append([]project.RequiredSkill(nil), p.RequiredSkills...)
	return created, nil
}

// Update はプロジェクトを更新し、必要スキルを置き換えます。
func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE projects
           SET name = $1,
               description = $2,
               status = $3,
               published = $4,
               visible_to_all = $5,
               workflow_status = $6,
               process_instance_id = $7,
               external_search_needed = $8,
               external_search_notes = $9,
               external_search_requested_at = $10,
               external_search_completed_at = $11,
               updated_at = $12
         WHERE id = $13
        RETURNING `+projectColumns,
		p.Name,
		p.Description,
		string(p.Status),
		p.Published,
		p.VisibleToAll,
		string(p.WorkflowStatus),
		p.ProcessInstanceID,
		p.ExternalSearchNeeded,
		p.ExternalSearchNotes,
		nullableTimestamp(p.ExternalSearchRequestedAt),
		nullableTimestamp(p.ExternalSearchCompletedAt),
		p.UpdatedAt,
		p.ID,
	)

	updated, err := scanProject(row)
	if err != nil {
		return nil, translateProjectPgError(err)
	}

	if err := r.replaceRequiredSkills(ctx, exec, updated.ID, p.RequiredSkills); err != nil {
		return nil, err
	}
	updated.RequiredSkills = append([]project.RequiredSkill(nil), p.RequiredSkills...)
	return updated, nil
}

// FindByID は ID でプロジェクトを取得します。
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*project.Project, error) {
	return r.findOne(ctx, `
        SELECT `+projectColumns+`
          FROM projects
         WHERE id = $1
         LIMIT 1
    `, id)
}

// FindByIDForUpdate はプロジェクト行をロックして取得します。
func (r *ProjectRepository) FindByIDForUpdate(ctx context.Context, id string) (*project.Project, error) {
	return r.findOne(ctx, `
        SELECT `+projectColumns+`
          FROM projects
         WHERE id = $1
           FOR UPDATE
    `, id)
}

// ListByStatuses は指定したライフサイクル状態のプロジェクトを取得します。
func (r *ProjectRepository) ListByStatuses(ctx context.Context, statuses []project.Status) ([]*project.Project, error) {
	if len(statuses) == 0 {
		return []*project.Project{}, nil
	}
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+projectColumns+`
          FROM projects
         WHERE status = ANY($1)
         ORDER BY created_at, id
    `, values)
	if err != nil {
		return nil, translateProjectPgError(err)
	}
	defer rows.Close()

	projects := make([]*project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, translateProjectPgError(err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translateProjectPgError(err)
	}

	for _, p := range projects {
		skills, err := r.loadRequiredSkills(ctx, exec, p.ID)
		if err != nil {
			return nil, err
		}
		p.RequiredSkills = skills
	}

	return projects, nil
}

func (r *ProjectRepository) findOne(ctx context.Context, query, id string) (*project.Project, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanProject(exec.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateProjectPgError(err)
	}

	skills, err := r.loadRequiredSkills(ctx, exec, found.ID)
	if err != nil {
		return nil, err
	}
	found.RequiredSkills = skills
	return found, nil
}

func (r *ProjectRepository) loadRequiredSkills(ctx context.Context, exec pgdb.Queryer, projectID string) ([]project.RequiredSkill, error) {
	rows, err := exec.Query(ctx, `
        SELECT skill, required_count
          FROM project_required_skills
         WHERE project_id = $1
         ORDER BY position
    `, projectID)
	if err != nil {
		return nil, translateProjectPgError(err)
	}
	defer rows.Close()

	skills := make([]project.RequiredSkill, 0)
	for rows.Next() {
		var rs project.RequiredSkill
		if err := rows.Scan(&rs.Skill, &rs.Count); err != nil {
			return nil, translateProjectPgError(err)
		}
		skills = append(skills, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, translateProjectPgError(err)
	}
	return skills, nil
}

func (r *ProjectRepository) replaceRequiredSkills(ctx context.Context, exec pgdb.Queryer, projectID string, skills []project.RequiredSkill) error {
	if _, err := exec.Exec(ctx, `DELETE FROM project_required_skills WHERE project_id = $1`, projectID); err != nil {
		return translateProjectPgError(err)
	}
	for i, rs := range skills {
		if _, err := exec.Exec(ctx, `
            INSERT INTO project_required_skills (project_id, position, skill, required_count)
            VALUES ($1, $2, $3, $4)
        `, projectID, i, rs.Skill, rs.Count); err != nil {
			return translateProjectPgError(err)
		}
	}
	return nil
}

func scanProject(row pgx.Row) (*project.Project, error) {
	var (
		p              project.Project
		status         string
		workflowStatus string
		requestedAt    sql.NullTime
		completedAt    sql.NullTime
	)

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&status,
		&p.Published,
		&p.VisibleToAll,
		&workflowStatus,
		&p.ProcessInstanceID,
		&p.ExternalSearchNeeded,
		&p.ExternalSearchNotes,
		&requestedAt,
		&completedAt,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, project.ErrProjectNotFound
		}
		return nil, err
	}

	p.Status = project.Status(status)
	p.WorkflowStatus = project.WorkflowStatus(workflowStatus)
	p.ExternalSearchRequestedAt = timePtr(requestedAt)
	p.ExternalSearchCompletedAt = timePtr(completedAt)
	return &p, nil
}

func translateProjectPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return project.ErrProjectNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case invalidTextCode:
			return project.ErrProjectNotFound
		case foreignKeyViolationCode:
			return project.ErrProjectNotFound
		case checkViolationCode:
			if pgErr.ConstraintName == "project_required_skills_required_count_check" {
				return project.ErrInvalidRequiredSkill
			}
			return project.ErrInvalidStatus
		}
	}

	return err
}

func nullableTimestamp(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC()
}

func timePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	return &t
}
