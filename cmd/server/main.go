package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/staffing-workflow/internal/adapters/events"
	"github.com/ogurasousui/staffing-workflow/internal/adapters/grpc/handler"
	"github.com/ogurasousui/staffing-workflow/internal/adapters/repository/postgres"
	"github.com/ogurasousui/staffing-workflow/internal/adapters/workflow/sqlite"
	"github.com/ogurasousui/staffing-workflow/internal/core/assignment"
	"github.com/ogurasousui/staffing-workflow/internal/core/employee"
	"github.com/ogurasousui/staffing-workflow/internal/core/escalation"
	"github.com/ogurasousui/staffing-workflow/internal/core/notification"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
	"github.com/ogurasousui/staffing-workflow/internal/core/skillgap"
	"github.com/ogurasousui/staffing-workflow/internal/platform/config"
	pg "github.com/ogurasousui/staffing-workflow/internal/platform/db/postgres"
	"github.com/ogurasousui/staffing-workflow/internal/platform/logging"
	"github.com/ogurasousui/staffing-workflow/internal/platform/scheduler"
	"github.com/ogurasousui/staffing-workflow/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.Log, os.Stderr)

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool, pg.WithLockTimeout(cfg.Database.LockTimeout))

	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	projectRepo := postgres.NewProjectRepository(dbPool)
	assignmentRepo := postgres.NewAssignmentRepository(dbPool)
	notificationRepo := postgres.NewNotificationRepository(dbPool)

	var publisher notification.Publisher
	if cfg.Redis.URL != "" {
		redisClient, err := events.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		publisher = events.NewNotificationPublisher(redisClient, cfg.Redis.Channel)
		logger.Info("notification events enabled", "channel", cfg.Redis.Channel)
	}

	processKey := cfg.Workflow.ProcessKey
	if processKey == "" {
		processKey = escalation.DefaultProcessKey
	}

	var (
		engine escalation.WorkflowEngine
		tasks  handler.TaskLister
	)
	if cfg.Workflow.Enabled {
		var opts []sqlite.Option
		if cfg.Workflow.TaskName != "" {
			opts = append(opts, sqlite.WithTaskName(processKey, cfg.Workflow.TaskName))
		}
		wf, err := sqlite.Open(cfg.Workflow.SQLitePath, opts...)
		if err != nil {
			log.Fatalf("failed to open workflow engine: %v", err)
		}
		defer wf.Close()
		engine = wf
		tasks = wf
		logger.Info("workflow engine enabled", "path", cfg.Workflow.SQLitePath)
	}

	employeeSvc := employee.NewService(employeeRepo, nil, txManager)
	projectSvc := project.NewService(projectRepo, nil, txManager)
	assignmentSvc := assignment.NewService(assignmentRepo, employeeRepo, projectRepo, nil, txManager)
	gapSvc := skillgap.NewService(projectRepo, employeeRepo, txManager)
	notificationSvc := notification.NewService(notificationRepo, publisher, txManager, nil, logger)

	coordinator := escalation.NewCoordinator(escalation.Dependencies{
		Projects: projectRepo,
		Gaps:     gapSvc,
		Notifier: notificationSvc,
		Searcher: escalation.SimulatedSearcher{Delay: cfg.Escalation.SearchDelay},
		Engine:   engine,
		Tx:       txManager,
		Logger:   logger,
	}, escalation.Config{
		ProcessKey:        processKey,
		ResourcePlannerID: cfg.Escalation.ResourcePlannerID,
		Approvers:         cfg.Escalation.Approvers,
		SearchTimeout:     cfg.Escalation.SearchTimeout,
	})

	if spec := cfg.Scheduler.GapSweepSpec; spec != "" {
		sweeper := scheduler.NewGapSweeper(spec, projectRepo, coordinator, logger)
		if err := sweeper.Start(ctx); err != nil {
			log.Fatalf("failed to start gap sweeper: %v", err)
		}
		defer sweeper.Stop()
	}

	grpcServer := server.New(cfg.Server.ListenAddr, handler.Services{
		Employees:   employeeSvc,
		Projects:    projectSvc,
		Assignments: assignmentSvc,
		Gaps:        gapSvc,
		Escalation:  coordinator,
		Tasks:       tasks,
	}, logger)

	if err := grpcServer.Run(ctx); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}
