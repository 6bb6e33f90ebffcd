//go:build integration

package integration

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	repo "github.com/ogurasousui/staffing-workflow/internal/adapters/repository/postgres"
	"github.com/ogurasousui/staffing-workflow/internal/core/assignment"
	"github.com/ogurasousui/staffing-workflow/internal/core/employee"
	"github.com/ogurasousui/staffing-workflow/internal/core/escalation"
	"github.com/ogurasousui/staffing-workflow/internal/core/notification"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
	"github.com/ogurasousui/staffing-workflow/internal/core/skillgap"
	"github.com/ogurasousui/staffing-workflow/internal/platform/config"
	pg "github.com/ogurasousui/staffing-workflow/internal/platform/db/postgres"
)

const migrationsDir = "../assets/migrations"

func TestStaffingWorkflowIntegration(t *testing.T) {
	cfg, err := config.Load(configPathFromEnv())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if err := resetMigrations(cfg.Database.DSN(), migrationsDir); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	tx := pg.NewTransactionManager(pool)
	employeeRepo := repo.NewEmployeeRepository(pool)
	projectRepo := repo.NewProjectRepository(pool)
	assignmentRepo := repo.NewAssignmentRepository(pool)

	employees := employee.NewService(employeeRepo, nil, tx)
	projects := project.NewService(projectRepo, nil, tx)
	assignments := assignment.NewService(assignmentRepo, employeeRepo, projectRepo, nil, tx)
	gaps := skillgap.NewService(projectRepo, employeeRepo, tx)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	coordinator := escalation.NewCoordinator(escalation.Dependencies{
		Projects: projectRepo,
		Gaps:     gaps,
		Notifier: notification.NewService(repo.NewNotificationRepository(pool), nil, tx, nil, logger),
		Tx:       tx,
		Logger:   logger,
	}, escalation.Config{})

	const manager = "manager-1"

	javaDev, err := employees.RegisterEmployee(ctx, employee.RegisterEmployeeInput{Name: "Java Dev", Skills: []string{"Java"}})
	if err != nil {
		t.Fatalf("RegisterEmployee error: %v", err)
	}

	p, err := projects.CreateProject(ctx, project.CreateProjectInput{
		Actor:          manager,
		Name:           "Integration",
		RequiredSkills: []project.RequiredSkill{{Skill: "Java", Count: 1}, {Skill: "React", Count: 1}},
	})
	if err != nil {
		t.Fatalf("CreateProject error: %v", err)
	}
	if _, err := projects.SetPublication(ctx, project.SetPublicationInput{ID: p.ID, Actor: manager, Published: true, VisibleToAll: true}); err != nil {
		t.Fatalf("SetPublication error: %v", err)
	}
	if _, err := projects.TransitionProject(ctx, project.TransitionProjectInput{ID: p.ID, Actor: manager, Target: project.StatusApproved}); err != nil {
		t.Fatalf("TransitionProject error: %v", err)
	}

	created, err := assignments.CreateAssignment(ctx, assignment.CreateAssignmentInput{ProjectID: p.ID, EmployeeID: javaDev.ID, Actor: manager})
	if err != nil {
		t.Fatalf("CreateAssignment error: %v", err)
	}
	if _, err := assignments.CreateAssignment(ctx, assignment.CreateAssignmentInput{ProjectID: p.ID, EmployeeID: javaDev.ID, Actor: manager}); !errors.Is(err, assignment.ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}

	for _, target := range []assignment.Status{assignment.StatusApproved, assignment.StatusConfirmed} {
		if _, err := assignments.TransitionAssignment(ctx, assignment.TransitionAssignmentInput{ID: created.ID, Actor: manager, Target: target}); err != nil {
			t.Fatalf("TransitionAssignment(%s) error: %v", target, err)
		}
	}
	found, err := employeeRepo.FindByID(ctx, javaDev.ID)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if found.Available {
		t.Fatalf("confirmed employee must be unavailable")
	}

	detected, err := coordinator.DetectSkillGaps(ctx, p.ID)
	if err != nil {
		t.Fatalf("DetectSkillGaps error: %v", err)
	}
	if !detected.Project.ExternalSearchNeeded || !detected.Notified {
		t.Fatalf("expected flagged project and a notification, got %+v", detected)
	}

	requested, err := coordinator.RequestExternalSearch(ctx, p.ID, manager)
	if err != nil {
		t.Fatalf("RequestExternalSearch error: %v", err)
	}
	if requested.WorkflowStatus != project.WorkflowAwaitingApproval {
		t.Fatalf("expected AWAITING_APPROVAL, got %q", requested.WorkflowStatus)
	}

	if _, err := coordinator.ExecuteExternalSearch(ctx, p.ID, manager); !errors.Is(err, escalation.ErrNotApproved) {
		t.Fatalf("expected ErrNotApproved, got %v", err)
	}
}

func resetMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "../assets/local.yaml"
}
