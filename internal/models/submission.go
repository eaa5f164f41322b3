package models

import "time"

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "PENDING"
	SubmissionStatusAccepted SubmissionStatus = "ACCEPTED"
	SubmissionStatusRejected SubmissionStatus = "REJECTED"
)

// IsReviewOutcome reports whether s is a status a reviewer may set.
func (s SubmissionStatus) IsReviewOutcome() bool {
	return s == SubmissionStatusAccepted || s == SubmissionStatusRejected
}

type Submission struct {
	ID             uint64           `gorm:"primarykey" json:"id"`
	TaskID         uint64           `gorm:"not null;index" json:"task_id"`
	UserID         uint64           `gorm:"not null;index" json:"user_id"`
	GitHubLink     string           `gorm:"type:varchar(2048);not null" json:"github_link"`
	Status         SubmissionStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	SubmissionTime time.Time        `gorm:"not null" json:"submission_time"`
	UpdatedAt      time.Time        `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
