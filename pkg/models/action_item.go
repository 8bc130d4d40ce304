package models

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities for sorting: high=3, medium=2, low=1, anything else 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

type ActionItemStatus string

const (
	StatusPending    ActionItemStatus = "pending"
	StatusInProgress ActionItemStatus = "in-progress"
	StatusCompleted  ActionItemStatus = "completed"
)

func (s ActionItemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type ActionItem struct {
	ID        string           `json:"id" db:"id"`
	MeetingID string           `json:"meetingId" db:"meeting_id"`
	Task      string           `json:"task" db:"task"`
	Assignee  *string          `json:"assignee,omitempty" db:"assignee"`
	Priority  Priority         `json:"priority" db:"priority"`
	DueDate   *time.Time       `json:"dueDate,omitempty" db:"due_date"`
	Status    ActionItemStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}
