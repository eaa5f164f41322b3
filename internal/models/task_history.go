package models

import "time"

// Audited task field names.
const (
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldDeadline        = "deadline"
	FieldTags            = "tags"
	FieldAssignedUserIDs = "assignedUserIds"
	FieldStatus          = "status"
)

// TaskHistory is one append-only audit entry for a task field change.
type TaskHistory struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	TaskID       uint64    `gorm:"not null;index" json:"task_id"`
	FieldChanged string    `gorm:"type:varchar(50);not null" json:"field_changed"`
	OldValue     string    `gorm:"type:text" json:"old_value"`
	NewValue     string    `gorm:"type:text" json:"new_value"`
	ChangedAt    time.Time `gorm:"not null;index" json:"changed_at"`
}
