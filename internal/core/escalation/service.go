package escalation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ogurasousui/staffing-workflow/internal/core/notification"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
)

// DefaultProcessKey は外部採用承認プロセスの既定キーです。
const DefaultProcessKey = "external-search-approval"

const (
	defaultSearchTimeout = 30 * time.Second
	manualProcessPrefix  = "manual-"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// Config はコーディネーターの動作設定です。
type Config struct {
	// ProcessKey はワークフローエンジンで開始するプロセスのキーです。
	ProcessKey string
	// ResourcePlannerID は承認結果の通知先となる要員計画担当者です。空なら作成者のみに通知します。
	ResourcePlannerID string
	// Approvers が空でなければ、ここに含まれる操作者のみが判断を下せます。
	Approvers []string
	// SearchTimeout は外部採用 1 回あたりの上限時間です。
	SearchTimeout time.Duration
}

// Dependencies はコーディネーターの依存です。Engine と Clock, Tx, Logger は省略できます。
type Dependencies struct {
	Projects ProjectStore
	Gaps     GapAnalyzer
	Notifier Notifier
	Searcher Searcher
	Engine   WorkflowEngine
	Clock    Clock
	Tx       TransactionManager
	Logger   *slog.Logger
}

// Coordinator はスキル不足の検知から外部採用の完了までを進めます。
//
//	Detect -> Request (AWAITING_APPROVAL) -> Decide (APPROVED | REJECTED) -> Execute (COMPLETED)
//
// すべての操作は同期的に完了し、拒否された操作はプロジェクトを変更しません。
type Coordinator struct {
	projects ProjectStore
	gaps     GapAnalyzer
	notifier Notifier
	searcher Searcher
	engine   WorkflowEngine
	clock    Clock
	tx       TransactionManager
	logger   *slog.Logger
	cfg      Config
}

// UseCase はエスカレーションユースケースの公開インターフェースです。
type UseCase interface {
	DetectSkillGaps(ctx context.Context, projectID string) (*DetectResult, error)
	RequestExternalSearch(ctx context.Context, projectID, actor string) (*project.Project, error)
	DecideExternalSearch(ctx context.Context, decision Decision) (*project.Project, error)
	ExecuteExternalSearch(ctx context.Context, projectID, actor string) (*project.Project, error)
}

// NewCoordinator は Coordinator を生成します。
func NewCoordinator(deps Dependencies, cfg Config) *Coordinator {
	if deps.Clock == nil {
		deps.Clock = realClock{}
	}
	if deps.Tx == nil {
		deps.Tx = noopTransactionManager{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Searcher == nil {
		deps.Searcher = SimulatedSearcher{}
	}
	if cfg.ProcessKey == "" {
		cfg.ProcessKey = DefaultProcessKey
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = defaultSearchTimeout
	}
	return &Coordinator{
		projects: deps.Projects,
		gaps:     deps.Gaps,
		notifier: deps.Notifier,
		searcher: deps.Searcher,
		engine:   deps.Engine,
		clock:    deps.Clock,
		tx:       deps.Tx,
		logger:   deps.Logger,
		cfg:      cfg,
	}
}

// DetectSkillGaps はスキル不足を再計算し、不足があれば外部採用フラグを立てて作成者へ通知します。
// 不足が解消していればフラグを下ろしますが、承認待ちや承認済みのエスカレーションには触れません。
// 通知は不足内容が変わった場合にのみ送られます。
func (c *Coordinator) DetectSkillGaps(ctx context.Context, projectID string) (*DetectResult, error) {
	id, err := normalizeProjectID(projectID)
	if err != nil {
		return nil, err
	}

	var result *DetectResult
	if err := c.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		p, err := c.projects.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		report, err := c.gaps.ComputeSkillGaps(txCtx, id)
		if err != nil {
			return err
		}

		result = &DetectResult{Report: report, Project: p}

		if !report.HasCriticalGaps() {
			if !p.ExternalSearchNeeded || inFlight(p.WorkflowStatus) {
				return nil
			}
			p.ExternalSearchNeeded = false
			p.UpdatedAt = c.clock.Now()
			updated, err := c.projects.Update(txCtx, p)
			if err != nil {
				return err
			}
			result.Project = updated
			return nil
		}

		notes := report.Summary()
		if p.ExternalSearchNeeded && p.ExternalSearchNotes == notes {
			return nil
		}

		p.ExternalSearchNeeded = true
		p.ExternalSearchNotes = notes
		p.UpdatedAt = c.clock.Now()
		updated, err := c.projects.Update(txCtx, p)
		if err != nil {
			return err
		}
		result.Project = updated

		if _, err := c.notifier.Notify(txCtx, notification.NotifyInput{
			UserID:    updated.CreatedBy,
			Title:     fmt.Sprintf("Skill gap detected: %s", updated.Name),
			Body:      notes,
			Category:  notification.CategorySkillGap,
			ProjectID: updated.ID,
		}); err != nil {
			return fmt.Errorf("escalation: notify skill gap: %w", err)
		}
		result.Notified = true
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// RequestExternalSearch は作成者からの外部採用依頼を受け付け、承認プロセスを開始します。
// エンジンが未設定または開始に失敗した場合は manual- で始まるプロセス ID で承認待ちとして記録します。
// プロジェクトの更新が確定しなかった場合、開始したプロセスは取り消されます。
func (c *Coordinator) RequestExternalSearch(ctx context.Context, projectID, actor string) (*project.Project, error) {
	id, err := normalizeProjectID(projectID)
	if err != nil {
		return nil, err
	}
	requester := strings.TrimSpace(actor)
	if requester == "" {
		return nil, ErrInvalidActor
	}

	var (
		updated *project.Project
		started string
	)
	if err := c.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		started = ""
		p, err := c.projects.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if !p.IsCreator(requester) {
			return ErrNotCreator
		}

		switch p.WorkflowStatus {
		case project.WorkflowAwaitingApproval:
			updated = p
			return nil
		case project.WorkflowExternalSearchApproved:
			return &StateError{Op: "request external search", Current: p.WorkflowStatus, Err: ErrIllegalState}
		}

		now := c.clock.Now()
		p.ProcessInstanceID = c.startApproval(txCtx, ApprovalRequest{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			RequestedBy: requester,
			RequestedAt: now,
		})
		if !isManualProcess(p.ProcessInstanceID) {
			started = p.ProcessInstanceID
		}
		p.WorkflowStatus = project.WorkflowAwaitingApproval
		p.UpdatedAt = now

		result, err := c.projects.Update(txCtx, p)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		if started != "" {
			c.cancelApproval(ctx, id, started)
		}
		return nil, err
	}

	return updated, nil
}

// DecideExternalSearch は承認者の判断を適用します。承認待ちからのみ遷移し、
// 同じ判断の再送は何も変更せず通知もしません。
//
// 承認タスクはプロジェクトの更新が確定した後に完了させます。完了に失敗した場合は警告ログを残し、
// 同じ判断の再送で再度完了を試みます。指定されたタスクがプロジェクトのプロセスに属さない場合は
// ErrInvalidDecision を返します。
func (c *Coordinator) DecideExternalSearch(ctx context.Context, decision Decision) (*project.Project, error) {
	if decision.DecidedAt.IsZero() {
		decision.DecidedAt = c.clock.Now()
	}
	if err := decision.Validate(); err != nil {
		return nil, err
	}
	if len(c.cfg.Approvers) > 0 && !slices.Contains(c.cfg.Approvers, decision.Actor) {
		return nil, ErrUnauthorized
	}

	var (
		updated *project.Project
		taskID  string
	)
	if err := c.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		p, err := c.projects.FindByIDForUpdate(txCtx, decision.ProjectID)
		if err != nil {
			return err
		}

		if p.WorkflowStatus != project.WorkflowAwaitingApproval {
			if !decision.alreadyApplied(p.WorkflowStatus) {
				return &StateError{Op: "decide external search", Current: p.WorkflowStatus, Err: ErrIllegalState}
			}
			if taskID, err = c.resolveTaskID(txCtx, p, decision.TaskID); err != nil {
				return err
			}
			updated = p
			return nil
		}

		if taskID, err = c.resolveTaskID(txCtx, p, decision.TaskID); err != nil {
			return err
		}

		now := c.clock.Now()
		p.WorkflowStatus = decision.resultingStatus()
		p.UpdatedAt = now
		if decision.Approved {
			p.ExternalSearchNeeded = true
			requestedAt := decision.DecidedAt
			p.ExternalSearchRequestedAt = &requestedAt
		} else {
			p.ExternalSearchNeeded = false
			p.ExternalSearchNotes = decision.Reason
		}

		result, err := c.projects.Update(txCtx, p)
		if err != nil {
			return err
		}

		if err := c.notifyDecision(txCtx, result, decision); err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	if taskID != "" {
		c.completeApproval(ctx, updated.ID, taskID, decision)
	}

	return updated, nil
}

// ExecuteExternalSearch は承認済みの外部採用を実行し、完了として記録します。
// 検索は SearchTimeout で打ち切られ、失敗時はプロジェクトを変更しません。
func (c *Coordinator) ExecuteExternalSearch(ctx context.Context, projectID, actor string) (*project.Project, error) {
	id, err := normalizeProjectID(projectID)
	if err != nil {
		return nil, err
	}
	executor := strings.TrimSpace(actor)
	if executor == "" {
		return nil, ErrInvalidActor
	}

	var current *project.Project
	if err := c.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		p, err := c.projects.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		current = p
		return nil
	}); err != nil {
		return nil, err
	}
	if current.WorkflowStatus != project.WorkflowExternalSearchApproved {
		return nil, &StateError{Op: "execute external search", Current: current.WorkflowStatus, Err: ErrNotApproved}
	}

	searchCtx, cancel := context.WithTimeout(ctx, c.cfg.SearchTimeout)
	defer cancel()
	found, err := c.searcher.Search(searchCtx, SearchRequest{
		ProjectID:   current.ID,
		ProjectName: current.Name,
		Notes:       current.ExternalSearchNotes,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	var updated *project.Project
	if err := c.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		p, err := c.projects.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if p.WorkflowStatus != project.WorkflowExternalSearchApproved {
			return &StateError{Op: "execute external search", Current: p.WorkflowStatus, Err: ErrNotApproved}
		}

		now := c.clock.Now()
		p.WorkflowStatus = project.WorkflowExternalSearchCompleted
		p.ExternalSearchCompletedAt = &now
		p.ExternalSearchNotes = appendNote(p.ExternalSearchNotes, found.Summary)
		p.UpdatedAt = now

		result, err := c.projects.Update(txCtx, p)
		if err != nil {
			return err
		}

		if _, err := c.notifier.Notify(txCtx, notification.NotifyInput{
			UserID:    result.CreatedBy,
			Title:     fmt.Sprintf("External search completed: %s", result.Name),
			Body:      found.Summary,
			Category:  notification.CategoryExternalSearchCompleted,
			ProjectID: result.ID,
		}); err != nil {
			return fmt.Errorf("escalation: notify completion: %w", err)
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	c.logger.Info("external search completed", "projectId", updated.ID, "executor", executor)
	return updated, nil
}

func (c *Coordinator) startApproval(ctx context.Context, req ApprovalRequest) string {
	if c.engine != nil {
		processID, err := c.engine.StartProcess(ctx, c.cfg.ProcessKey, req.Variables())
		if err == nil && processID != "" {
			return processID
		}
		if err == nil {
			err = errors.New("empty process id")
		}
		c.logger.Warn("workflow engine unavailable, tracking approval manually", "projectId", req.ProjectID, "err", err)
	} else {
		c.logger.Warn("workflow engine not configured, tracking approval manually", "projectId", req.ProjectID)
	}
	return fmt.Sprintf("%s%d", manualProcessPrefix, req.RequestedAt.UnixNano())
}

// cancelApproval は確定しなかった依頼で開始したプロセスを取り消します。
func (c *Coordinator) cancelApproval(ctx context.Context, projectID, processID string) {
	if err := c.engine.CancelProcess(context.WithoutCancel(ctx), processID); err != nil {
		c.logger.Warn("cancel orphaned approval process failed", "projectId", projectID, "processId", processID, "err", err)
	}
}

// completeApproval は確定済みの判断を承認タスクへ反映します。
func (c *Coordinator) completeApproval(ctx context.Context, projectID, taskID string, d Decision) {
	err := c.engine.CompleteTask(context.WithoutCancel(ctx), taskID, d.Variables())
	switch {
	case err == nil, errors.Is(err, ErrTaskCompleted):
	default:
		c.logger.Warn("complete approval task failed", "projectId", projectID, "taskId", taskID, "err", err)
	}
}

// resolveTaskID は完了させるタスクを決めます。手動追跡中のプロセスやエンジン未設定時は空文字列です。
// 指定されたタスクはプロジェクトのプロセスに属している必要があります。
func (c *Coordinator) resolveTaskID(ctx context.Context, p *project.Project, taskID string) (string, error) {
	if c.engine == nil {
		return "", nil
	}
	if taskID != "" {
		if isManualProcess(p.ProcessInstanceID) {
			return "", fmt.Errorf("%w: task %s does not belong to project %s", ErrInvalidDecision, taskID, p.ID)
		}
		owner, err := c.engine.TaskProcessID(ctx, taskID)
		if err != nil {
			return "", fmt.Errorf("escalation: look up task %s: %w", taskID, err)
		}
		if owner != p.ProcessInstanceID {
			return "", fmt.Errorf("%w: task %s does not belong to project %s", ErrInvalidDecision, taskID, p.ID)
		}
		return taskID, nil
	}
	if isManualProcess(p.ProcessInstanceID) {
		return "", nil
	}
	locator, ok := c.engine.(TaskLocator)
	if !ok {
		return "", nil
	}
	found, err := locator.OpenTaskID(ctx, p.ProcessInstanceID)
	if err != nil {
		if !errors.Is(err, ErrTaskNotFound) || p.WorkflowStatus == project.WorkflowAwaitingApproval {
			c.logger.Warn("open approval task not found", "projectId", p.ID, "processId", p.ProcessInstanceID, "err", err)
		}
		return "", nil
	}
	return found, nil
}

func isManualProcess(processID string) bool {
	return processID == "" || strings.HasPrefix(processID, manualProcessPrefix)
}

func (c *Coordinator) notifyDecision(ctx context.Context, p *project.Project, d Decision) error {
	title := fmt.Sprintf("External search approved: %s", p.Name)
	category := notification.CategoryExternalSearchApproved
	body := fmt.Sprintf("approved by %s", d.Actor)
	if !d.Approved {
		title = fmt.Sprintf("External search rejected: %s", p.Name)
		category = notification.CategoryExternalSearchRejected
		body = fmt.Sprintf("rejected by %s", d.Actor)
	}
	if d.Reason != "" {
		body += ": " + d.Reason
	}

	recipients := []string{p.CreatedBy}
	if planner := c.cfg.ResourcePlannerID; planner != "" && planner != p.CreatedBy {
		recipients = append(recipients, planner)
	}
	for _, userID := range recipients {
		if _, err := c.notifier.Notify(ctx, notification.NotifyInput{
			UserID:    userID,
			Title:     title,
			Body:      body,
			Category:  category,
			ProjectID: p.ID,
		}); err != nil {
			return fmt.Errorf("escalation: notify decision: %w", err)
		}
	}
	return nil
}

func appendNote(notes, line string) string {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return notes
	case notes == "":
		return line
	default:
		return notes + "\n" + line
	}
}

func normalizeProjectID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", fmt.Errorf("project id: %w", project.ErrInvalidID)
	}
	return id, nil
}
