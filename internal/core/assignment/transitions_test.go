package assignment

import (
	"errors"
	"strings"
	"testing"
)

func TestIsTransitionAllowed_Table(t *testing.T) {
	t.Parallel()

	all := []Status{StatusProposed, StatusApproved, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusRejected}
	allowed := map[Status][]Status{
		StatusProposed:   {StatusApproved, StatusRejected, StatusCancelled},
		StatusApproved:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusInProgress, StatusCompleted, StatusCancelled},
		StatusInProgress: {StatusCompleted, StatusCancelled},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			if got := IsTransitionAllowed(from, to); got != want {
				t.Errorf("IsTransitionAllowed(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestStatusClasses(t *testing.T) {
	t.Parallel()

	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusRejected} {
		if !IsTerminal(s) || IsActive(s) || IsCommitted(s) {
			t.Errorf("%s should be terminal only", s)
		}
	}
	for _, s := range []Status{StatusProposed, StatusApproved} {
		if IsTerminal(s) || !IsActive(s) || IsCommitted(s) {
			t.Errorf("%s should be active but not committed", s)
		}
	}
	for _, s := range []Status{StatusConfirmed, StatusInProgress} {
		if !IsActive(s) || !IsCommitted(s) {
			t.Errorf("%s should be active and committed", s)
		}
	}
}

func TestTransitionError_Messages(t *testing.T) {
	t.Parallel()

	approve := &TransitionError{From: StatusConfirmed, To: StatusApproved}
	if !strings.Contains(approve.Error(), "can only approve a proposed assignment, current status is confirmed") {
		t.Errorf("unexpected approve message: %s", approve.Error())
	}
	confirm := &TransitionError{From: StatusProposed, To: StatusConfirmed}
	if !strings.Contains(confirm.Error(), "can only confirm an approved assignment") {
		t.Errorf("unexpected confirm message: %s", confirm.Error())
	}
	if !errors.Is(approve, ErrIllegalTransition) {
		t.Errorf("TransitionError must match ErrIllegalTransition")
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	if got, err := ParseStatus("confirmed"); err != nil || got != StatusConfirmed {
		t.Fatalf("ParseStatus(confirmed) = %q, %v", got, err)
	}
	if _, err := ParseStatus("done"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
