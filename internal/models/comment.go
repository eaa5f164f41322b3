package models

import "time"

type Comment struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	SubmissionID uint64    `gorm:"not null;index" json:"submission_id"`
	UserID       uint64    `gorm:"not null" json:"user_id"`
	Comment      string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Comment) TableName() string {
	return "submission_comments"
}
