package assignment

import "time"

// Assignment はプロジェクトへの社員の配属です。
type Assignment struct {
	ID          string
	ProjectID   string
	EmployeeID  string
	Status      Status
	Notes       string
	ProposedBy  string
	AssignedAt  time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
