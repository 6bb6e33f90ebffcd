package project

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeProjectRepo struct {
	projects map[string]*Project
	sequence int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*Project)}
}

func (r *fakeProjectRepo) Create(_ context.Context, p *Project) (*Project, error) {
	clone := cloneProject(p)
	r.sequence++
	clone.ID = fmt.Sprintf("prj-%d", r.sequence)
	r.projects[clone.ID] = clone
	return cloneProject(clone), nil
}

func (r *fakeProjectRepo) Update(_ context.Context, p *Project) (*Project, error) {
	if _, ok := r.projects[p.ID]; !ok {
		return nil, ErrProjectNotFound
	}
	r.projects[p.ID] = cloneProject(p)
	return cloneProject(p), nil
}

func (r *fakeProjectRepo) FindByID(_ context.Context, id string) (*Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return cloneProject(p), nil
}

func (r *fakeProjectRepo) FindByIDForUpdate(ctx context.Context, id string) (*Project, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeProjectRepo) ListByStatuses(_ context.Context, statuses []Status) ([]*Project, error) {
	var result []*Project
	for _, p := range r.projects {
		if slices.Contains(statuses, p.Status) {
			result = append(result, cloneProject(p))
		}
	}
	return result, nil
}

func cloneProject(p *Project) *Project {
	copy := *p
	copy.RequiredSkills = append([]RequiredSkill(nil), p.RequiredSkills...)
	return &copy
}

func TestService_CreateProject_Defaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := NewService(newFakeProjectRepo(), &stubClock{now: now}, nil)

	created, err := svc.CreateProject(context.Background(), CreateProjectInput{
		Actor: " pm-1 ",
		Name:  " Billing Revamp ",
		RequiredSkills: []RequiredSkill{
			{Skill: "Java", Count: 1},
			{Skill: " java ", Count: 1},
			{Skill: "React", Count: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateProject returned error: %v", err)
	}

	if created.Status != StatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
	if created.Published || created.VisibleToAll {
		t.Fatalf("expected new project to be unpublished")
	}
	if created.CreatedBy != "pm-1" {
		t.Fatalf("expected creator pm-1, got %q", created.CreatedBy)
	}
	if created.Name != "Billing Revamp" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	want := []RequiredSkill{{Skill: "Java", Count: 2}, {Skill: "React", Count: 1}}
	if !slices.Equal(created.RequiredSkills, want) {
		t.Fatalf("expected merged skills %v, got %v", want, created.RequiredSkills)
	}
	if !created.CreatedAt.Equal(now) {
		t.Fatalf("expected CreatedAt to use clock")
	}
}

func TestService_CreateProject_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeProjectRepo(), nil, nil)

	if _, err := svc.CreateProject(context.Background(), CreateProjectInput{Name: "x"}); !errors.Is(err, ErrInvalidActor) {
		t.Fatalf("expected ErrInvalidActor, got %v", err)
	}
	if _, err := svc.CreateProject(context.Background(), CreateProjectInput{Actor: "pm", Name: " "}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	_, err := svc.CreateProject(context.Background(), CreateProjectInput{
		Actor:          "pm",
		Name:           "x",
		RequiredSkills: []RequiredSkill{{Skill: "Go", Count: 0}},
	})
	if !errors.Is(err, ErrInvalidRequiredSkill) {
		t.Fatalf("expected ErrInvalidRequiredSkill, got %v", err)
	}
}

func TestService_TransitionProject(t *testing.T) {
	t.Parallel()

	repo := newFakeProjectRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, CreateProjectInput{Actor: "pm", Name: "p"})
	if err != nil {
		t.Fatalf("CreateProject returned error: %v", err)
	}

	approved, err := svc.TransitionProject(ctx, TransitionProjectInput{ID: created.ID, Actor: "head", Target: StatusApproved})
	if err != nil {
		t.Fatalf("TransitionProject returned error: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}

	_, err = svc.TransitionProject(ctx, TransitionProjectInput{ID: created.ID, Actor: "head", Target: StatusCompleted})
	var tErr *TransitionError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if tErr.From != StatusApproved || tErr.To != StatusCompleted {
		t.Fatalf("unexpected transition error contents: %+v", tErr)
	}
	if repo.projects[created.ID].Status != StatusApproved {
		t.Fatalf("rejected transition must not mutate state")
	}

	if _, err := svc.TransitionProject(ctx, TransitionProjectInput{ID: "missing", Actor: "head", Target: StatusApproved}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestService_SetPublication_OnlyCreator(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeProjectRepo(), nil, nil)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, CreateProjectInput{Actor: "pm", Name: "p"})
	if err != nil {
		t.Fatalf("CreateProject returned error: %v", err)
	}

	if _, err := svc.SetPublication(ctx, SetPublicationInput{ID: created.ID, Actor: "intruder", Published: true}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	updated, err := svc.SetPublication(ctx, SetPublicationInput{ID: created.ID, Actor: "pm", Published: true, VisibleToAll: true})
	if err != nil {
		t.Fatalf("SetPublication returned error: %v", err)
	}
	if !updated.Published || !updated.VisibleToAll {
		t.Fatalf("expected publication flags to be set, got %+v", updated)
	}
}
