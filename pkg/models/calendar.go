package models

import "time"

// CalendarAccess carries the caller's credentials for one request. It is never stored.
// Owner is the calendar owner's email and becomes the organizer of booked meetings.
type CalendarAccess struct {
	AccessToken string
	CalendarID  string
	Owner       string
}

type Event struct {
	ID      string
	Title   string
	Start   time.Time
	End     time.Time
	AllDay  bool
	Status  string
	Created string
}

type EventRequest struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Attendees   []string
}

type CreatedEvent struct {
	ID       string
	MeetLink string
}
