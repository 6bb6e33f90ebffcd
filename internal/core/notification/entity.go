package notification

import "time"

// Category は通知の種別です。
type Category string

const (
	CategorySkillGap                Category = "SKILL_GAP"
	CategoryExternalSearchApproved  Category = "EXTERNAL_SEARCH_APPROVED"
	CategoryExternalSearchRejected  Category = "EXTERNAL_SEARCH_REJECTED"
	CategoryExternalSearchCompleted Category = "EXTERNAL_SEARCH_COMPLETED"
)

// Notification はユーザー向けの通知です。既読フラグは UI 側でのみ変更されます。
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Body      string
	Category  Category
	ProjectID string
	Read      bool
	CreatedAt time.Time
}
