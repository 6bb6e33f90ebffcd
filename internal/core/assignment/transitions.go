package assignment

import (
	"fmt"
	"slices"
)

// Status は配属のライフサイクル状態です。
//
//	proposed ──► approved ──► confirmed ──► in_progress ──► completed
//	    │                         │                             ▲
//	    └──► rejected             └─────────────────────────────┘
//
// 終端以外のすべての状態から cancelled へ遷移できます。
type Status string

const (
	StatusProposed   Status = "proposed"
	StatusApproved   Status = "approved"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRejected   Status = "rejected"
)

var validTransitions = map[Status][]Status{
	StatusProposed:   {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	// completed / cancelled / rejected は終端
}

// ActiveStatuses は終端に達していない状態の一覧です。同一ペアで同時に 1 件までしか存在できません。
var ActiveStatuses = []Status{StatusProposed, StatusApproved, StatusConfirmed, StatusInProgress}

// CommittedStatuses は社員が実際に稼働中とみなされる状態です。
var CommittedStatuses = []Status{StatusConfirmed, StatusInProgress}

// TransitionError は拒否された遷移の現在状態と要求状態を保持します。
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	if e.To == StatusApproved || e.To == StatusRejected {
		verb := "approve"
		if e.To == StatusRejected {
			verb = "reject"
		}
		return fmt.Sprintf("assignment: can only %s a %s assignment, current status is %s", verb, StatusProposed, e.From)
	}
	if e.To == StatusConfirmed {
		return fmt.Sprintf("assignment: can only confirm an %s assignment, current status is %s", StatusApproved, e.From)
	}
	return fmt.Sprintf("assignment: transition %s -> %s is not allowed", e.From, e.To)
}

// Is は errors.Is で ErrIllegalTransition と一致させます。
func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// ParseStatus は文字列を Status に変換します。
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusProposed, StatusApproved, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidStatus)
}

// IsTransitionAllowed は from から to への遷移が許可されているかを返します。
func IsTransitionAllowed(from, to Status) bool {
	return slices.Contains(validTransitions[from], to)
}

// IsActive は終端でない状態かどうかを返します。
func IsActive(s Status) bool {
	return slices.Contains(ActiveStatuses, s)
}

// IsTerminal は終端状態かどうかを返します。
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}

// IsCommitted は社員の稼働を拘束する状態かどうかを返します。
func IsCommitted(s Status) bool {
	return slices.Contains(CommittedStatuses, s)
}
