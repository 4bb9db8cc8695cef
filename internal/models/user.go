package models

import "time"

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Name         string   `gorm:"not null" json:"name"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'client'" json:"role"`

	// Relations
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}

// IsManager - менеджеру доступны разрешение заявок и управление каталогом
func (u *User) IsManager() bool {
	return u.Role == UserRoleManager
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
