package handler

import (
	"math"

	"github.com/ogurasousui/staffing-workflow/internal/adapters/grpc/staffingv1"
	"github.com/ogurasousui/staffing-workflow/internal/core/assignment"
	"github.com/ogurasousui/staffing-workflow/internal/core/employee"
	"github.com/ogurasousui/staffing-workflow/internal/core/escalation"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
	"github.com/ogurasousui/staffing-workflow/internal/core/skillgap"
)

func toWireEmployee(e *employee.Employee) *staffingv1.Employee {
	if e == nil {
		return nil
	}
	skills := append([]string{}, e.Skills...)
	return &staffingv1.Employee{
		Id:         e.ID,
		Name:       e.Name,
		Skills:     skills,
		Available:  e.Available,
		Department: e.Department,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func toWireProject(p *project.Project) *staffingv1.Project {
	if p == nil {
		return nil
	}
	skills := make([]staffingv1.RequiredSkill, 0, len(p.RequiredSkills))
	for _, rs := range p.RequiredSkills {
		skills = append(skills, staffingv1.RequiredSkill{Skill: rs.Skill, Count: clampInt32(rs.Count)})
	}
	return &staffingv1.Project{
		Id:                        p.ID,
		Name:                      p.Name,
		Description:               p.Description,
		RequiredSkills:            skills,
		Status:                    string(p.Status),
		Published:                 p.Published,
		VisibleToAll:              p.VisibleToAll,
		WorkflowStatus:            string(p.WorkflowStatus),
		ProcessInstanceId:         p.ProcessInstanceID,
		ExternalSearchNeeded:      p.ExternalSearchNeeded,
		ExternalSearchNotes:       p.ExternalSearchNotes,
		ExternalSearchRequestedAt: p.ExternalSearchRequestedAt,
		ExternalSearchCompletedAt: p.ExternalSearchCompletedAt,
		CreatedBy:                 p.CreatedBy,
		CreatedAt:                 p.CreatedAt,
		UpdatedAt:                 p.UpdatedAt,
	}
}

func toDomainRequiredSkills(in []staffingv1.RequiredSkill) []project.RequiredSkill {
	out := make([]project.RequiredSkill, 0, len(in))
	for _, rs := range in {
		out = append(out, project.RequiredSkill{Skill: rs.Skill, Count: int(rs.Count)})
	}
	return out
}

func toWireAssignment(a *assignment.Assignment) *staffingv1.Assignment {
	if a == nil {
		return nil
	}
	return &staffingv1.Assignment{
		Id:          a.ID,
		ProjectId:   a.ProjectID,
		EmployeeId:  a.EmployeeID,
		Status:      string(a.Status),
		Notes:       a.Notes,
		ProposedBy:  a.ProposedBy,
		AssignedAt:  a.AssignedAt,
		CompletedAt: a.CompletedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toWireReport(r *skillgap.Report) *staffingv1.SkillGapReport {
	if r == nil {
		return nil
	}
	out := &staffingv1.SkillGapReport{
		ProjectId:          r.ProjectID,
		Skills:             make([]staffingv1.SkillGap, 0, len(r.Skills)),
		CriticalGaps:       make(map[string]int32, len(r.CriticalGaps)),
		TotalRequired:      clampInt32(r.TotalRequired),
		TotalUncovered:     clampInt32(r.TotalUncovered),
		CoveragePercentage: r.CoveragePercentage,
	}
	for _, g := range r.Skills {
		out.Skills = append(out.Skills, staffingv1.SkillGap{
			Skill:     g.Skill,
			Required:  clampInt32(g.Required),
			Available: clampInt32(g.Available),
			Gap:       clampInt32(g.Gap),
			Shortage:  g.Shortage,
		})
	}
	for skill, gap := range r.CriticalGaps {
		out.CriticalGaps[skill] = clampInt32(gap)
	}
	return out
}

func toWireTasks(tasks []escalation.ApprovalTask) []staffingv1.ApprovalTask {
	out := make([]staffingv1.ApprovalTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, staffingv1.ApprovalTask{
			Id:                t.ID,
			ProcessInstanceId: t.ProcessInstanceID,
			Name:              t.Name,
			Variables:         t.Variables,
			CreatedAt:         t.CreatedAt,
		})
	}
	return out
}

func clampInt32(v int) int32 {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}
