package models

import (
	"time"
)

// DefaultFunctionColor is the navy tone applied when no color is given.
const DefaultFunctionColor = "#062D49"

// TeamFunction represents an admin-defined role category (e.g. camera operator).
type TeamFunction struct {
	ID string `gorm:"type:char(12);primaryKey" json:"id"`
	// Name is the machine key: lowercase, whitespace replaced with underscores.
	Name        string `gorm:"type:varchar(250);not null;unique" json:"name"`
	Label       string `gorm:"type:varchar(250);not null" json:"label"`
	Description string `gorm:"type:text" json:"description"`
	Color       string `gorm:"type:char(7);default:'#062D49'" json:"color"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TeamFunction) TableName() string {
	return "team_functions"
}

// TeamFunctionUpdate is used for partial updates on a team function.
type TeamFunctionUpdate struct {
	Name        *string `json:"name"`
	Label       *string `json:"label"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}
