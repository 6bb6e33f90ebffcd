// Package scheduler はスキル不足の定期検知を cron で実行します。
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/ogurasousui/staffing-workflow/internal/core/escalation"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
)

// SweepStatuses は定期検知の対象となるライフサイクル状態です。
var SweepStatuses = []project.Status{project.StatusApproved, project.StatusStaffing, project.StatusInProgress}

// ProjectLister は検知対象のプロジェクト一覧を返します。
type ProjectLister interface {
	ListByStatuses(ctx context.Context, statuses []project.Status) ([]*project.Project, error)
}

// Detector はスキル不足検知を 1 件実行します。
type Detector interface {
	DetectSkillGaps(ctx context.Context, projectID string) (*escalation.DetectResult, error)
}

// SweepResult は 1 回の定期検知の集計です。
type SweepResult struct {
	Scanned  int
	Flagged  int
	Notified int
	Failed   int
}

// GapSweeper は対象プロジェクトすべてに対してスキル不足検知を実行します。
type GapSweeper struct {
	cron     *cron.Cron
	spec     string
	projects ProjectLister
	detector Detector
	logger   *slog.Logger
}

// NewGapSweeper は GapSweeper を生成します。spec は robfig/cron の書式 (例: "@every 1h") です。
func NewGapSweeper(spec string, projects ProjectLister, detector Detector, logger *slog.Logger) *GapSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &GapSweeper{
		cron:     cron.New(),
		spec:     spec,
		projects: projects,
		detector: detector,
		logger:   logger,
	}
}

// Start はジョブを登録してスケジューラを開始します。ctx はジョブ実行時に引き継がれます。
func (s *GapSweeper) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		s.Sweep(ctx)
	}); err != nil {
		return fmt.Errorf("scheduler: add gap sweep %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("gap sweep scheduled", "spec", s.spec)
	return nil
}

// Stop はスケジューラを停止し、実行中のジョブの終了を待ちます。
func (s *GapSweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("gap sweep stopped")
}

// Sweep は対象プロジェクトを順に検知します。1 件の失敗で全体を止めません。
func (s *GapSweeper) Sweep(ctx context.Context) SweepResult {
	var result SweepResult

	projects, err := s.projects.ListByStatuses(ctx, SweepStatuses)
	if err != nil {
		s.logger.Error("gap sweep: list projects failed", "err", err)
		return result
	}

	for _, p := range projects {
		if ctx.Err() != nil {
			break
		}
		result.Scanned++
		detected, err := s.detector.DetectSkillGaps(ctx, p.ID)
		if err != nil {
			result.Failed++
			s.logger.Warn("gap sweep: detect failed", "projectId", p.ID, "err", err)
			continue
		}
		if detected.Report.HasCriticalGaps() {
			result.Flagged++
		}
		if detected.Notified {
			result.Notified++
		}
	}

	s.logger.Info("gap sweep finished",
		"scanned", result.Scanned,
		"flagged", result.Flagged,
		"notified", result.Notified,
		"failed", result.Failed,
	)
	return result
}
