// Package skillgap はプロジェクトの必要スキルと稼働可能な社員を突き合わせ、不足を算出します。
package skillgap

import (
	"fmt"
	"strings"

	"github.com/ogurasousui/staffing-workflow/internal/core/employee"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
)

// SkillGap はスキル単位の充足状況です。Gap が負の場合は余剰を表します。
type SkillGap struct {
	Skill     string
	Required  int
	Available int
	Gap       int
	Shortage  bool
}

// Report はプロジェクトのスキル充足レポートです。稼働可否は呼び出しごとに変化するため保存しません。
type Report struct {
	ProjectID          string
	Skills             []SkillGap
	CriticalGaps       map[string]int
	TotalRequired      int
	TotalUncovered     int
	CoveragePercentage float64
}

// HasCriticalGaps は不足スキルが 1 つ以上あるかを返します。
func (r *Report) HasCriticalGaps() bool {
	return r != nil && len(r.CriticalGaps) > 0
}

// Summary は不足スキルを人が読める形式で列挙します。不足がなければ空文字列です。
func (r *Report) Summary() string {
	if !r.HasCriticalGaps() {
		return ""
	}
	parts := make([]string, 0, len(r.CriticalGaps))
	for _, g := range r.Skills {
		if g.Shortage {
			parts = append(parts, fmt.Sprintf("%s: required %d, available %d, short %d", g.Skill, g.Required, g.Available, g.Gap))
		}
	}
	return strings.Join(parts, "; ")
}

// Analyze は必要スキルごとに稼働可能な有資格者数を数え、不足とカバー率を算出します。
// pool のうち Available でない社員は数えません。スキルの一致は大文字小文字とトリムを無視した完全一致です。
// 余剰は他スキルの不足を相殺しません。
func Analyze(p *project.Project, pool []*employee.Employee) *Report {
	report := &Report{CriticalGaps: make(map[string]int)}
	if p == nil {
		report.CoveragePercentage = 100
		return report
	}
	report.ProjectID = p.ID

	index := make(map[string]int, len(p.RequiredSkills))
	for _, rs := range p.RequiredSkills {
		label := strings.TrimSpace(rs.Skill)
		key := employee.NormalizeSkill(label)
		if key == "" || rs.Count <= 0 {
			continue
		}
		if i, ok := index[key]; ok {
			report.Skills[i].Required += rs.Count
			continue
		}
		index[key] = len(report.Skills)
		report.Skills = append(report.Skills, SkillGap{Skill: label, Required: rs.Count})
	}

	for _, emp := range pool {
		if emp == nil || !emp.Available {
			continue
		}
		counted := make(map[string]struct{}, len(emp.Skills))
		for _, s := range emp.Skills {
			key := employee.NormalizeSkill(s)
			i, ok := index[key]
			if !ok {
				continue
			}
			if _, dup := counted[key]; dup {
				continue
			}
			counted[key] = struct{}{}
			report.Skills[i].Available++
		}
	}

	for i := range report.Skills {
		g := &report.Skills[i]
		g.Gap = g.Required - g.Available
		g.Shortage = g.Gap > 0
		report.TotalRequired += g.Required
		if g.Shortage {
			report.CriticalGaps[g.Skill] = g.Gap
			report.TotalUncovered += g.Gap
		}
	}

	if report.TotalRequired == 0 {
		report.CoveragePercentage = 100
	} else {
		report.CoveragePercentage = 100 * float64(report.TotalRequired-report.TotalUncovered) / float64(report.TotalRequired)
	}

	return report
}
