package models

import "time"

type TimeSlot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
	Conflicts []string  `json:"conflicts,omitempty"`
}

type SchedulingSuggestion struct {
	RuleID        string    `json:"ruleId"`
	SuggestedTime time.Time `json:"suggestedTime"`
	Duration      int       `json:"duration"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Participants  []string  `json:"participants"`
	Reason        string    `json:"reason"`
	Priority      Priority  `json:"priority"`
	ActionItems   []string  `json:"actionItems"`
	Confidence    float64   `json:"confidence"`
}

func (s SchedulingSuggestion) EndTime() time.Time {
	return s.SuggestedTime.Add(time.Duration(s.Duration) * time.Minute)
}

type BookingResult struct {
	Success         bool   `json:"success"`
	MeetingID       string `json:"meetingId,omitempty"`
	CalendarEventID string `json:"calendarEventId,omitempty"`
	Error           string `json:"error,omitempty"`
}

type ProcessResult struct {
	Suggestions       []SchedulingSuggestion `json:"suggestions"`
	ScheduledMeetings []BookingResult        `json:"scheduledMeetings"`
	Errors            []string               `json:"errors"`
}
