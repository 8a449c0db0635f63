package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the profile row mirroring one identity-provider record (same ID).
type User struct {
	ID       string `gorm:"type:char(36);primaryKey" json:"id"`
	Email    string `gorm:"size:250;not null;unique" json:"email"`
	FullName string `gorm:"type:varchar(250);not null" json:"full_name"`
	// Username is display identity only; collisions are allowed.
	Username       string  `gorm:"type:varchar(250);not null" json:"username"`
	Role           string  `gorm:"type:varchar(50);not null;default:'user'" json:"role"`
	TeamFunctionID *string `gorm:"type:char(12)" json:"team_function_id"`
	AvatarURL      string  `gorm:"type:varchar(500)" json:"avatar_url"`
	// PushSubscription holds the serialized browser push endpoint descriptor.
	PushSubscription datatypes.JSON `gorm:"type:jsonb" json:"push_subscription,omitempty"`

	TeamFunction *TeamFunction `gorm:"foreignKey:TeamFunctionID;references:ID" json:"team_function,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserUpdate is used for partial updates of a user profile.
// A non-nil empty TeamFunctionID clears the function reference.
type UserUpdate struct {
	FullName       *string `json:"full_name"`
	Username       *string `json:"username"`
	Role           *string `json:"role"`
	TeamFunctionID *string `json:"team_function_id"`
	AvatarURL      *string `json:"avatar_url"`
}
