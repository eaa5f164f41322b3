package models

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "PENDING"
	TaskStatusAssigned TaskStatus = "ASSIGNED"
	TaskStatusDone     TaskStatus = "DONE"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusAssigned, TaskStatusDone:
		return true
	default:
		return false
	}
}

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Deadline    *time.Time     `json:"deadline"`
	Tags        datatypes.JSON `json:"tags"`
	CreatorID   uint64         `gorm:"not null" json:"creator_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Relations
	Creator     User             `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}

// AssigneeIDs returns the ids of the task's assignment set in ascending order.
// Assignments must be preloaded.
func (t Task) AssigneeIDs() []uint64 {
	ids := make([]uint64, 0, len(t.Assignments))
	for _, a := range t.Assignments {
		ids = append(ids, a.UserID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TagList decodes the stored tag set. A malformed column reads as no tags.
func (t Task) TagList() []string {
	if len(t.Tags) == 0 {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal(t.Tags, &tags); err != nil {
		return []string{}
	}
	return tags
}

// SetTags stores tags as an ordered set: blanks are dropped and the first occurrence wins.
func (t *Task) SetTags(tags []string) {
	normalized := NormalizeTags(tags)
	data, _ := json.Marshal(normalized)
	t.Tags = datatypes.JSON(data)
}

// NormalizeTags trims tags, drops empty ones and removes duplicates keeping order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}
