package models

import "time"

// Dashboard roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// UserModel is a dashboard account. Accounts are referenced by their
// immutable integer id; email is unique but may change.
type UserModel struct {
	Base
	Name          string     `json:"name"`
	Email         string     `json:"email" gorm:"uniqueIndex;not null"`
	Password      string     `json:"-"     gorm:"not null"`
	Role          string     `json:"role"  gorm:"default:'editor'"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }
