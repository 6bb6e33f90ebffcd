package escalation

import (
	"errors"
	"fmt"

	"github.com/ogurasousui/staffing-workflow/internal/core/project"
)

var (
	// ErrInvalidActor は操作者が指定されていない場合に返却されます。
	ErrInvalidActor = errors.New("escalation: actor is required")
	// ErrInvalidDecision は承認結果メッセージが不正な場合に返却されます。
	ErrInvalidDecision = errors.New("escalation: invalid decision")
	// ErrUnauthorized は操作者に権限がない場合に返却されます。
	ErrUnauthorized = errors.New("escalation: actor is not permitted")
	// ErrNotCreator は作成者以外が外部採用を依頼した場合に返却されます。
	ErrNotCreator = fmt.Errorf("%w: only creator may request", ErrUnauthorized)
	// ErrNotApproved は承認前に外部採用を実行しようとした場合に返却されます。
	ErrNotApproved = errors.New("escalation: external search is not approved")
	// ErrIllegalState は現在のワークフロー状態で操作できない場合に返却されます。
	ErrIllegalState = errors.New("escalation: illegal workflow state")
	// ErrSearchFailed は外部採用の実行に失敗した場合に返却されます。
	ErrSearchFailed = errors.New("escalation: external search failed")
	// ErrTaskNotFound はワークフローエンジンに承認タスクが存在しない場合に返却されます。
	ErrTaskNotFound = errors.New("escalation: approval task not found")
	// ErrTaskCompleted は完了済みの承認タスクを再度完了しようとした場合に返却されます。
	ErrTaskCompleted = errors.New("escalation: approval task already completed")
)

// StateError は現在のワークフロー状態を伴う拒否です。Err は ErrIllegalState か ErrNotApproved です。
type StateError struct {
	Op      string
	Current project.WorkflowStatus
	Err     error
}

func (e *StateError) Error() string {
	current := string(e.Current)
	if current == "" {
		current = "NONE"
	}
	return fmt.Sprintf("%s: %s (current workflow status %s)", e.Op, e.Err, current)
}

func (e *StateError) Unwrap() error {
	return e.Err
}
