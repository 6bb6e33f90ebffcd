package project

import (
	"errors"
	"fmt"
	"slices"
)

// Status はプロジェクトのライフサイクル状態です。
//
//	pending ──► approved ──► staffing ──► in_progress ──► completed
//	   │
//	   └──► rejected
//
// 終端以外のすべての状態から cancelled へ遷移できます。
// rejected / completed / cancelled は終端状態です。
type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusStaffing   Status = "staffing"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var validTransitions = map[Status][]Status{
	StatusPending:    {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:   {StatusStaffing, StatusCancelled},
	StatusStaffing:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// ErrIllegalTransition は状態遷移が許可されていない場合に返却されます。
var ErrIllegalTransition = errors.New("project: illegal transition")

// TransitionError は拒否された遷移の現在状態と要求状態を保持します。
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("project: transition %s -> %s is not allowed", e.From, e.To)
}

// Is は errors.Is で ErrIllegalTransition と一致させます。
func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// ParseStatus は文字列を Status に変換します。
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusApproved, StatusRejected, StatusStaffing, StatusInProgress, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidStatus)
}

// IsTransitionAllowed は from から to への遷移が許可されているかを返します。
func IsTransitionAllowed(from, to Status) bool {
	return slices.Contains(validTransitions[from], to)
}

// IsTerminal は終端状態かどうかを返します。
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}
