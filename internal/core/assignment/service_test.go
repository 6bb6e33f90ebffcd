package assignment

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/ogurasousui/staffing-workflow/internal/core/employee"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[string]*Assignment
	sequence    int
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[string]*Assignment)}
}

func (r *fakeAssignmentRepo) Create(_ context.Context, a *Assignment) (*Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence++
	clone := *a
	clone.ID = fmt.Sprintf("asg-%d", r.sequence)
	r.assignments[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *fakeAssignmentRepo) Update(_ context.Context, a *Assignment) (*Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assignments[a.ID]; !ok {
		return nil, ErrAssignmentNotFound
	}
	clone := *a
	r.assignments[a.ID] = &clone
	out := clone
	return &out, nil
}

func (r *fakeAssignmentRepo) FindByID(_ context.Context, id string) (*Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[id]
	if !ok {
		return nil, ErrAssignmentNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *fakeAssignmentRepo) FindByIDForUpdate(ctx context.Context, id string) (*Assignment, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeAssignmentRepo) ListByProjectAndEmployee(_ context.Context, projectID, employeeID string) ([]*Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*Assignment
	for _, a := range r.assignments {
		if a.ProjectID == projectID && a.EmployeeID == employeeID {
			clone := *a
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeAssignmentRepo) ListByEmployee(_ context.Context, employeeID string, statuses []Status) ([]*Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*Assignment
	for _, a := range r.assignments {
		if a.EmployeeID == employeeID && slices.Contains(statuses, a.Status) {
			clone := *a
			result = append(result, &clone)
		}
	}
	return result, nil
}

type fakeEmployeeStore struct {
	mu        sync.Mutex
	employees map[string]*employee.Employee
}

func (s *fakeEmployeeStore) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	clone := *e
	return &clone, nil
}

func (s *fakeEmployeeStore) FindByIDForUpdate(ctx context.Context, id string) (*employee.Employee, error) {
	return s.FindByID(ctx, id)
}

func (s *fakeEmployeeStore) UpdateAvailability(_ context.Context, id string, available bool, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.Available = available
	e.UpdatedAt = updatedAt
	return nil
}

func (s *fakeEmployeeStore) available(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.employees[id].Available
}

type fakeProjectReader map[string]*project.Project

func (r fakeProjectReader) FindByID(_ context.Context, id string) (*project.Project, error) {
	p, ok := r[id]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	clone := *p
	return &clone, nil
}

type fixture struct {
	svc       *Service
	repo      *fakeAssignmentRepo
	employees *fakeEmployeeStore
}

func staffable(id string) *project.Project {
	return &project.Project{ID: id, Status: project.StatusStaffing, Published: true, VisibleToAll: true}
}

func newFixture() *fixture {
	repo := newFakeAssignmentRepo()
	employees := &fakeEmployeeStore{employees: map[string]*employee.Employee{
		"emp-e": {ID: "emp-e", Name: "E", Available: true},
		"emp-f": {ID: "emp-f", Name: "F", Available: true},
		"emp-x": {ID: "emp-x", Name: "X", Available: false},
	}}
	projects := fakeProjectReader{
		"prj-p":      staffable("prj-p"),
		"prj-q":      staffable("prj-q"),
		"prj-hidden": {ID: "prj-hidden", Status: project.StatusApproved, Published: true},
	}
	svc := NewService(repo, employees, projects, &stubClock{now: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)}, nil)
	return &fixture{svc: svc, repo: repo, employees: employees}
}

func (f *fixture) create(t *testing.T, projectID, employeeID string) *Assignment {
	t.Helper()
	a, err := f.svc.CreateAssignment(context.Background(), CreateAssignmentInput{ProjectID: projectID, EmployeeID: employeeID, Actor: "planner"})
	if err != nil {
		t.Fatalf("CreateAssignment(%s, %s) returned error: %v", projectID, employeeID, err)
	}
	return a
}

func (f *fixture) move(t *testing.T, id string, targets ...Status) *Assignment {
	t.Helper()
	var a *Assignment
	for _, target := range targets {
		var err error
		a, err = f.svc.TransitionAssignment(context.Background(), TransitionAssignmentInput{ID: id, Actor: "planner", Target: target})
		if err != nil {
			t.Fatalf("TransitionAssignment(%s -> %s) returned error: %v", id, target, err)
		}
	}
	return a
}

func TestService_CreateAssignment_ProposedAndBlocksDuplicate(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	created := f.create(t, "prj-p", "emp-e")
	if created.Status != StatusProposed {
		t.Fatalf("expected proposed status, got %s", created.Status)
	}
	if created.ProposedBy != "planner" {
		t.Fatalf("expected proposer to be recorded, got %q", created.ProposedBy)
	}

	err := f.svc.ValidateAssignment(ctx, ValidateAssignmentInput{ProjectID: "prj-p", EmployeeID: "emp-e"})
	if !errors.Is(err, ErrAlreadyAssigned) || !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrAlreadyAssigned validation failure, got %v", err)
	}

	// 別プロジェクトへの配属は妨げない
	if _, err := f.svc.CreateAssignment(ctx, CreateAssignmentInput{ProjectID: "prj-q", EmployeeID: "emp-e", Actor: "planner"}); err != nil {
		t.Fatalf("expected assignment to another project to succeed, got %v", err)
	}

	_, err = f.svc.CreateAssignment(ctx, CreateAssignmentInput{ProjectID: "prj-p", EmployeeID: "emp-e", Actor: "planner"})
	if !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}
}

func TestService_ValidateAssignment_AlreadyAssignedUntilTerminal(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	created := f.create(t, "prj-p", "emp-e")

	for _, step := range []Status{StatusApproved, StatusConfirmed, StatusInProgress} {
		f.move(t, created.ID, step)
		err := f.svc.ValidateAssignment(ctx, ValidateAssignmentInput{ProjectID: "prj-p", EmployeeID: "emp-e"})
		if err == nil {
			t.Fatalf("expected rejection while assignment is %s", step)
		}
	}

	f.move(t, created.ID, StatusCompleted)
	if err := f.svc.ValidateAssignment(ctx, ValidateAssignmentInput{ProjectID: "prj-p", EmployeeID: "emp-e"}); err != nil {
		t.Fatalf("expected acceptance after completion, got %v", err)
	}
}

func TestService_ValidateAssignment_CheckOrder(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	cases := []struct {
		name       string
		projectID  string
		employeeID string
		want       error
		reason     string
	}{
		{"missing project", "prj-none", "emp-x", project.ErrProjectNotFound, ReasonNotFound},
		{"missing employee", "prj-p", "emp-none", employee.ErrEmployeeNotFound, ReasonNotFound},
		{"unavailable employee", "prj-hidden", "emp-x", ErrEmployeeNotAvailable, ReasonNotAvailable},
		{"hidden project", "prj-hidden", "emp-e", ErrProjectNotStaffable, ReasonNotStaffable},
	}

	for _, tc := range cases {
		err := f.svc.ValidateAssignment(ctx, ValidateAssignmentInput{ProjectID: tc.projectID, EmployeeID: tc.employeeID})
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
			continue
		}
		if reason, ok := RejectReason(err); !ok || reason != tc.reason {
			t.Errorf("%s: expected reason %s, got %s (%v)", tc.name, tc.reason, reason, ok)
		}
	}
}

func TestService_TransitionAssignment_ConfirmFlipsAvailability(t *testing.T) {
	t.Parallel()

	f := newFixture()
	created := f.create(t, "prj-p", "emp-e")

	f.move(t, created.ID, StatusApproved)
	if !f.employees.available("emp-e") {
		t.Fatalf("approval must not change availability")
	}

	f.move(t, created.ID, StatusConfirmed)
	if f.employees.available("emp-e") {
		t.Fatalf("confirmation must set availability to false")
	}

	completed := f.move(t, created.ID, StatusCompleted)
	if completed.CompletedAt == nil {
		t.Fatalf("expected completion timestamp")
	}
	if !f.employees.available("emp-e") {
		t.Fatalf("completion must restore availability")
	}
}

func TestService_TransitionAssignment_CancelKeepsOtherCommitment(t *testing.T) {
	t.Parallel()

	f := newFixture()
	onP := f.create(t, "prj-p", "emp-e")
	onQ := f.create(t, "prj-q", "emp-e")

	f.move(t, onP.ID, StatusApproved, StatusConfirmed)
	f.move(t, onQ.ID, StatusCancelled)
	if f.employees.available("emp-e") {
		t.Fatalf("cancelling an unrelated assignment must keep the employee committed")
	}

	f.move(t, onP.ID, StatusCancelled)
	if !f.employees.available("emp-e") {
		t.Fatalf("cancelling the last committed assignment must restore availability")
	}
}

func TestService_TransitionAssignment_ConfirmRejectedWhenCommittedElsewhere(t *testing.T) {
	t.Parallel()

	f := newFixture()
	onP := f.create(t, "prj-p", "emp-e")
	onQ := f.create(t, "prj-q", "emp-e")

	f.move(t, onP.ID, StatusApproved, StatusConfirmed)
	f.move(t, onQ.ID, StatusApproved)

	_, err := f.svc.TransitionAssignment(context.Background(), TransitionAssignmentInput{ID: onQ.ID, Actor: "planner", Target: StatusConfirmed})
	if !errors.Is(err, ErrEmployeeNotAvailable) {
		t.Fatalf("expected ErrEmployeeNotAvailable, got %v", err)
	}

	stored, _ := f.repo.FindByID(context.Background(), onQ.ID)
	if stored.Status != StatusApproved {
		t.Fatalf("failed confirmation must leave status unchanged, got %s", stored.Status)
	}
}

func TestService_TransitionAssignment_ApproveOnlyFromProposed(t *testing.T) {
	t.Parallel()

	f := newFixture()
	created := f.create(t, "prj-p", "emp-e")
	f.move(t, created.ID, StatusApproved)

	_, err := f.svc.TransitionAssignment(context.Background(), TransitionAssignmentInput{ID: created.ID, Actor: "planner", Target: StatusRejected})
	var tErr *TransitionError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if tErr.From != StatusApproved || tErr.To != StatusRejected {
		t.Fatalf("unexpected transition error: %+v", tErr)
	}
	if want := "assignment: can only reject a proposed assignment, current status is approved"; err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestService_TransitionAssignment_TerminalIsFinal(t *testing.T) {
	t.Parallel()

	all := []Status{StatusProposed, StatusApproved, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusRejected}
	paths := map[Status][]Status{
		StatusCompleted: {StatusApproved, StatusConfirmed, StatusCompleted},
		StatusCancelled: {StatusCancelled},
		StatusRejected:  {StatusRejected},
	}

	for terminal, path := range paths {
		f := newFixture()
		created := f.create(t, "prj-p", "emp-e")
		f.move(t, created.ID, path...)

		for _, target := range all {
			_, err := f.svc.TransitionAssignment(context.Background(), TransitionAssignmentInput{ID: created.ID, Actor: "planner", Target: target})
			if !errors.Is(err, ErrIllegalTransition) {
				t.Errorf("%s -> %s: expected ErrIllegalTransition, got %v", terminal, target, err)
			}
		}
	}
}

func TestService_TransitionAssignment_NotFound(t *testing.T) {
	t.Parallel()

	f := newFixture()
	_, err := f.svc.TransitionAssignment(context.Background(), TransitionAssignmentInput{ID: "asg-missing", Actor: "planner", Target: StatusApproved})
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestService_CreateAssignment_ConcurrentSamePair(t *testing.T) {
	t.Parallel()

	f := newFixture()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateAssignment(context.Background(), CreateAssignmentInput{ProjectID: "prj-p", EmployeeID: "emp-f", Actor: "planner"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrAlreadyAssigned):
				dupes++
			}
		}()
	}
	wg.Wait()

	if successes != 1 || dupes != workers-1 {
		t.Fatalf("expected exactly one success, got successes=%d duplicates=%d", successes, dupes)
	}
}

func TestKeyedMutex_ReleasesEntries(t *testing.T) {
	t.Parallel()

	k := newKeyedMutex()
	unlock := k.Lock("emp-1")
	unlock()

	if len(k.locks) != 0 {
		t.Fatalf("expected lock entry to be released, got %d", len(k.locks))
	}
}
