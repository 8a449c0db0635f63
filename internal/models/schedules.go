package models

import (
	"time"
)

// Schedule records that one user is rostered on one calendar date.
// Rows are never updated in place; a date change is a delete plus a create.
// (date, user_id) carries no uniqueness constraint: two admins acting
// concurrently can both succeed, and both rows are kept.
type Schedule struct {
	ID string `gorm:"type:char(12);primaryKey" json:"id"`
	// Date is the canonical YYYY-MM-DD form, compared by string equality.
	Date      string `gorm:"type:char(10);not null;index" json:"date"`
	UserID    string `gorm:"type:char(36);not null;index" json:"user_id"`
	CreatedBy string `gorm:"type:char(36);not null" json:"created_by"`

	// User is nil in the payload when the row outlived a deleted user.
	User *User `gorm:"foreignKey:UserID;references:ID" json:"user"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Schedule) TableName() string {
	return "schedules"
}
