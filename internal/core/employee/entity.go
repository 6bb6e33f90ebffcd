package employee

import (
	"strings"
	"time"
)

// Employee は配属対象となる社員エンティティです。
type Employee struct {
	ID         string
	Name       string
	Skills     []string
	Available  bool
	Department string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasSkill は社員が指定スキルを保持しているかを大文字小文字を区別せずに判定します。
func (e *Employee) HasSkill(skill string) bool {
	if e == nil {
		return false
	}
	key := NormalizeSkill(skill)
	if key == "" {
		return false
	}
	for _, s := range e.Skills {
		if NormalizeSkill(s) == key {
			return true
		}
	}
	return false
}

// NormalizeSkill はスキル名を比較用のキーへ正規化します。
func NormalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}
