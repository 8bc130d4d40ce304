package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	MeetingStatusScheduled = `scheduled`
	MeetingStatusCompleted = `completed`
	MeetingStatusCancelled = `cancelled`
)

type Meeting struct {
	ID              string         `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	Description     string         `json:"description" db:"description"`
	StartTime       time.Time      `json:"startTime" db:"start_at"`
	EndTime         time.Time      `json:"endTime" db:"end_at"`
	CalendarEventID string         `json:"calendarEventId" db:"calendar_event_id"`
	MeetingLink     string         `json:"meetingLink" db:"meeting_link"`
	Organizer       string         `json:"organizer" db:"organizer"`
	Attendees       pq.StringArray `json:"attendees" db:"attendees"`
	Status          string         `json:"status" db:"status"`
	AutoScheduled   bool           `json:"autoScheduled" db:"auto_scheduled"`
	SourceMeetingID *string        `json:"sourceMeetingId,omitempty" db:"source_meeting_id"`
	Notified        bool           `json:"notified" db:"notified"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`
}
