package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ogurasousui/staffing-workflow/internal/core/escalation"
)

func openTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	engine, err := Open(filepath.Join(t.TempDir(), "workflow.db"), opts...)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestEngine_StartAndCompleteProcess(t *testing.T) {
	t.Parallel()

	engine := openTestEngine(t, WithTaskName("external-search-approval", "approve-external-search"))
	ctx := context.Background()

	processID, err := engine.StartProcess(ctx, "external-search-approval", map[string]string{
		"projectId":   "prj-1",
		"requestedBy": "pm-1",
	})
	if err != nil {
		t.Fatalf("StartProcess returned error: %v", err)
	}
	if processID == "" {
		t.Fatalf("expected process id")
	}

	tasks, err := engine.ListOpenTasks(ctx)
	if err != nil {
		t.Fatalf("ListOpenTasks returned error: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 open task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.Name != "approve-external-search" || task.ProcessInstanceID != processID || task.Variables["projectId"] != "prj-1" {
		t.Fatalf("unexpected task: %+v", task)
	}

	taskID, err := engine.OpenTaskID(ctx, processID)
	if err != nil || taskID != task.ID {
		t.Fatalf("OpenTaskID = %q, %v; want %q", taskID, err, task.ID)
	}

	if err := engine.CompleteTask(ctx, task.ID, map[string]string{"approved": "true"}); err != nil {
		t.Fatalf("CompleteTask returned error: %v", err)
	}

	status, vars, err := engine.ProcessStatus(ctx, processID)
	if err != nil {
		t.Fatalf("ProcessStatus returned error: %v", err)
	}
	if status != StatusCompleted || vars["approved"] != "true" || vars["requestedBy"] != "pm-1" {
		t.Fatalf("unexpected process state %s %v", status, vars)
	}

	if err := engine.CompleteTask(ctx, task.ID, nil); !errors.Is(err, ErrTaskCompleted) {
		t.Fatalf("expected ErrTaskCompleted, got %v", err)
	}

	remaining, err := engine.ListOpenTasks(ctx)
	if err != nil || len(remaining) != 0 {
		t.Fatalf("expected no open tasks, got %v, %v", remaining, err)
	}
}

func TestEngine_CompleteTask_NotFound(t *testing.T) {
	t.Parallel()

	engine := openTestEngine(t)

	if err := engine.CompleteTask(context.Background(), "missing", nil); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := engine.OpenTaskID(context.Background(), "missing"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestEngine_StartProcess_RequiresKey(t *testing.T) {
	t.Parallel()

	engine := openTestEngine(t)

	if _, err := engine.StartProcess(context.Background(), " ", nil); !errors.Is(err, ErrInvalidProcessKey) {
		t.Fatalf("expected ErrInvalidProcessKey, got %v", err)
	}
}

func TestEngine_ReopenKeepsState(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "workflow.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	processID, err := first.StartProcess(context.Background(), "k", nil)
	if err != nil {
		t.Fatalf("StartProcess returned error: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer second.Close()

	status, _, err := second.ProcessStatus(context.Background(), processID)
	if err != nil || status != StatusActive {
		t.Fatalf("expected active process after reopen, got %q, %v", status, err)
	}
}

func TestEngine_CancelProcess(t *testing.T) {
	t.Parallel()

	engine := openTestEngine(t)
	ctx := context.Background()

	processID, err := engine.StartProcess(ctx, "external-search-approval", map[string]string{"projectId": "prj-1"})
	if err != nil {
		t.Fatalf("StartProcess returned error: %v", err)
	}
	taskID, err := engine.OpenTaskID(ctx, processID)
	if err != nil {
		t.Fatalf("OpenTaskID returned error: %v", err)
	}

	if err := engine.CancelProcess(ctx, processID); err != nil {
		t.Fatalf("CancelProcess returned error: %v", err)
	}
	if err := engine.CancelProcess(ctx, processID); err != nil {
		t.Fatalf("second CancelProcess must be a no-op, got %v", err)
	}

	status, _, err := engine.ProcessStatus(ctx, processID)
	if err != nil || status != StatusCancelled {
		t.Fatalf("expected cancelled process, got %q, %v", status, err)
	}
	tasks, err := engine.ListOpenTasks(ctx)
	if err != nil || len(tasks) != 0 {
		t.Fatalf("cancelled process must not list tasks, got %v, %v", tasks, err)
	}
	if err := engine.CompleteTask(ctx, taskID, nil); !errors.Is(err, ErrTaskCompleted) {
		t.Fatalf("expected ErrTaskCompleted for cancelled task, got %v", err)
	}
}

func TestEngine_CancelProcess_CompletedIsRejected(t *testing.T) {
	t.Parallel()

	engine := openTestEngine(t)
	ctx := context.Background()

	processID, err := engine.StartProcess(ctx, "k", nil)
	if err != nil {
		t.Fatalf("StartProcess returned error: %v", err)
	}
	taskID, err := engine.OpenTaskID(ctx, processID)
	if err != nil {
		t.Fatalf("OpenTaskID returned error: %v", err)
	}
	if err := engine.CompleteTask(ctx, taskID, nil); err != nil {
		t.Fatalf("CompleteTask returned error: %v", err)
	}

	if err := engine.CancelProcess(ctx, processID); !errors.Is(err, ErrTaskCompleted) {
		t.Fatalf("expected ErrTaskCompleted, got %v", err)
	}
	if err := engine.CancelProcess(ctx, "missing"); err == nil {
		t.Fatalf("expected error for unknown process")
	}
}

func TestEngine_TaskProcessID(t *testing.T) {
	t.Parallel()

	engine := openTestEngine(t)
	ctx := context.Background()

	first, err := engine.StartProcess(ctx, "k", map[string]string{"projectId": "prj-a"})
	if err != nil {
		t.Fatalf("StartProcess returned error: %v", err)
	}
	second, err := engine.StartProcess(ctx, "k", map[string]string{"projectId": "prj-b"})
	if err != nil {
		t.Fatalf("StartProcess returned error: %v", err)
	}
	secondTask, err := engine.OpenTaskID(ctx, second)
	if err != nil {
		t.Fatalf("OpenTaskID returned error: %v", err)
	}

	owner, err := engine.TaskProcessID(ctx, secondTask)
	if err != nil {
		t.Fatalf("TaskProcessID returned error: %v", err)
	}
	if owner != second || owner == first {
		t.Fatalf("expected task to belong to %s, got %s", second, owner)
	}

	if _, err := engine.TaskProcessID(ctx, "missing"); !errors.Is(err, escalation.ErrTaskNotFound) {
		t.Fatalf("expected escalation.ErrTaskNotFound, got %v", err)
	}
}
