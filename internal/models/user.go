package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleWorker UserRole = "WORKER"
)

// Valid reports whether r is one of the two modelled roles.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleWorker
}

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	FullName     string    `gorm:"type:varchar(255)" json:"full_name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Mobile       string    `gorm:"type:varchar(50)" json:"mobile"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'WORKER'" json:"role"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Assignments []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
	Submissions []Submission     `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsWorker() bool {
	return u != nil && u.Role == RoleWorker
}
